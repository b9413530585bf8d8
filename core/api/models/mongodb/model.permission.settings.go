package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleCapabilities các quyền của một role trong company
type RoleCapabilities struct {
	CanManageUsers   bool `json:"canManageUsers" bson:"canManageUsers"`
	CanManageTasks   bool `json:"canManageTasks" bson:"canManageTasks"`
	CanManageShares  bool `json:"canManageShares" bson:"canManageShares"`
	CanViewReports   bool `json:"canViewReports" bson:"canViewReports"`
	CanManageCompany bool `json:"canManageCompany" bson:"canManageCompany"`
}

// PermissionSettings ma trận quyền theo role của một company.
// Company không có document này sẽ dùng DefaultPermissionSettings.
type PermissionSettings struct {
	ID        primitive.ObjectID          `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID          `json:"companyId" bson:"companyId" index:"unique"`
	Roles     map[string]RoleCapabilities `json:"roles" bson:"roles"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// DefaultPermissionSettings fallback cứng khi company chưa cấu hình quyền.
// Super Admin luôn full quyền bất kể cấu hình nên không cần xuất hiện ở đây.
func DefaultPermissionSettings() map[string]RoleCapabilities {
	return map[string]RoleCapabilities{
		RoleAdmin: {
			CanManageUsers:   true,
			CanManageTasks:   true,
			CanManageShares:  true,
			CanViewReports:   true,
			CanManageCompany: false,
		},
		RoleMember: {
			CanManageUsers:   false,
			CanManageTasks:   true,
			CanManageShares:  false,
			CanViewReports:   true,
			CanManageCompany: false,
		},
	}
}
