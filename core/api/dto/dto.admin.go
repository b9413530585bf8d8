package dto

// UpdateRoleInput input đổi role user (dual write document store + identity provider)
type UpdateRoleInput struct {
	Role        string `json:"role" validate:"required"`
	DisplayName string `json:"displayName,omitempty"`
}

// ResetPasswordResponse kết quả reset mật khẩu.
// TempPassword chỉ xuất hiện đúng một lần trong response này.
type ResetPasswordResponse struct {
	UserID       string `json:"userId"`
	TempPassword string `json:"tempPassword"`
}

// BlockUserInput input khóa/mở khóa tài khoản
type BlockUserInput struct {
	IsBlock bool   `json:"isBlock"`
	Note    string `json:"note,omitempty"`
}

// MigrateSharedLinksInput input chạy migrate snapshot; CompanyID rỗng = toàn hệ thống
type MigrateSharedLinksInput struct {
	CompanyID string `json:"companyId,omitempty"`
}

// CreateCompanyInput input tạo company mới kèm dữ liệu mặc định
type CreateCompanyInput struct {
	Name    string `json:"name" validate:"required"`
	OwnerID string `json:"ownerId,omitempty"`
	Logo    string `json:"logo,omitempty"`
}
