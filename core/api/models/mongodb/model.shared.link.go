package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại link chia sẻ
const (
	LinkTypeBoard  = "board"  // Chia sẻ cả board task của company (theo brand scope)
	LinkTypeReport = "report" // Chia sẻ báo cáo (cùng scope dữ liệu với board, khác cách render)
	LinkTypeTask   = "task"   // Chia sẻ một task đơn lẻ (TargetID bắt buộc)
)

// SharePermissions quyền của người truy cập qua link.
// AccessLevel là nguồn quyền chính (1 View, 2 Comment, 3 EditStatus, 4 EditFull);
// các cờ canXxx chỉ được phép thu hẹp trong phạm vi level, không bao giờ mở rộng.
type SharePermissions struct {
	AccessLevel     int  `json:"accessLevel" bson:"accessLevel" validate:"required,min=1,max=4"`
	CanViewDetails  bool `json:"canViewDetails" bson:"canViewDetails"`
	CanComment      bool `json:"canComment" bson:"canComment"`
	CanEditStatus   bool `json:"canEditStatus" bson:"canEditStatus"`
	CanEditDueDate  bool `json:"canEditDueDate" bson:"canEditDueDate"`
	CanEditPriority bool `json:"canEditPriority" bson:"canEditPriority"`
}

// ShareSnapshot dữ liệu chụp tại thời điểm tạo link
type ShareSnapshot struct {
	Statuses []StatusSnapshot `json:"statuses" bson:"statuses"`
}

// SharedLink link chia sẻ cho người ngoài hệ thống truy cập một lát cắt dữ liệu của company
type SharedLink struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"companyId" bson:"companyId" index:"single:1"`
	LinkType  string             `json:"linkType" bson:"linkType" validate:"required,oneof=board report task"`
	TargetID  primitive.ObjectID `json:"targetId,omitempty" bson:"targetId,omitempty"` // Task được chia sẻ khi LinkType = task

	// Mật khẩu bảo vệ link (bcrypt hash), rỗng = link mở
	PasswordHash string `json:"-" bson:"passwordHash,omitempty"`

	Permissions     SharePermissions `json:"permissions" bson:"permissions"`
	AllowedNavItems []string         `json:"allowedNavItems" bson:"allowedNavItems"`

	// Scope dữ liệu: rỗng + creator không phải Super Admin => không load task nào (least privilege)
	BrandIDs []primitive.ObjectID `json:"brandIds" bson:"brandIds"`

	CreatorID    primitive.ObjectID `json:"creatorId" bson:"creatorId"`
	CreatorRole  string             `json:"creatorRole" bson:"creatorRole"`
	SharedAsRole string             `json:"sharedAsRole" bson:"sharedAsRole"` // Role mà guest được "đóng vai" khi xem

	Snapshot *ShareSnapshot `json:"snapshot,omitempty" bson:"snapshot,omitempty"`

	IsRevoked bool   `json:"isRevoked" bson:"isRevoked"`
	ExpireAt  *int64 `json:"expireAt,omitempty" bson:"expireAt,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// HasPassword link có được bảo vệ bằng mật khẩu không
func (l *SharedLink) HasPassword() bool {
	return l.PasswordHash != ""
}

// IsExpired link đã quá hạn chưa (ExpireAt nil = không hết hạn)
func (l *SharedLink) IsExpired(now time.Time) bool {
	return l.ExpireAt != nil && now.UnixMilli() > *l.ExpireAt
}
