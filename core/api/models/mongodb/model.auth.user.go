package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các role trong hệ thống. Role được lưu cả trong document user và trong
// custom claims của identity provider; worker đối soát sẽ đồng bộ khi lệch.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleMember     = "Member"
	RoleGuest      = "Guest" // Role ảo cho người truy cập qua link chia sẻ
)

// UserToken token đăng nhập trên một thiết bị (hwid)
type UserToken struct {
	Hwid     string `json:"hwid" bson:"hwid"`
	JwtToken string `json:"jwtToken" bson:"jwtToken"`
}

// User người dùng của hệ thống, liên kết 1-1 với user trên identity provider qua FirebaseUID
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FirebaseUID string             `json:"firebaseUid" bson:"firebaseUid" index:"unique"`
	Email       string             `json:"email" bson:"email" index:"single:1"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	Avatar      string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Role        string             `json:"role" bson:"role" index:"single:1"`
	CompanyID   primitive.ObjectID `json:"companyId,omitempty" bson:"companyId,omitempty" index:"single:1"`

	// Trạng thái tài khoản
	IsBlock            bool   `json:"isBlock" bson:"isBlock"`
	BlockNote          string `json:"blockNote,omitempty" bson:"blockNote,omitempty"`
	MustChangePassword bool   `json:"mustChangePassword" bson:"mustChangePassword"` // Bật sau khi admin reset mật khẩu

	// Token hiện hành và danh sách token theo thiết bị
	Token  string      `json:"-" bson:"token,omitempty"`
	Tokens []UserToken `json:"-" bson:"tokens,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
