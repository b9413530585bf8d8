package dto

// SharePermissionsInput quyền của link chia sẻ do client gửi lên.
// Các cờ canXxx sẽ bị chuẩn hóa lại theo accessLevel ở server, không tin client.
type SharePermissionsInput struct {
	AccessLevel     int  `json:"accessLevel" validate:"required,min=1,max=4"`
	CanViewDetails  bool `json:"canViewDetails"`
	CanComment      bool `json:"canComment"`
	CanEditStatus   bool `json:"canEditStatus"`
	CanEditDueDate  bool `json:"canEditDueDate"`
	CanEditPriority bool `json:"canEditPriority"`
}

// CreateSharedLinkInput input tạo link chia sẻ
type CreateSharedLinkInput struct {
	LinkType        string                `json:"linkType" validate:"required,oneof=board report task"`
	TargetID        string                `json:"targetId,omitempty"` // Bắt buộc khi linkType = task
	Permissions     SharePermissionsInput `json:"permissions" validate:"required"`
	AllowedNavItems []string              `json:"allowedNavItems"`
	BrandIDs        []string              `json:"brandIds"`
	SharedAsRole    string                `json:"sharedAsRole,omitempty"`
	Password        string                `json:"password,omitempty"`
	ExpireAt        *int64                `json:"expireAt,omitempty"`
}

// VerifySharePasswordInput input nhập mật khẩu link
type VerifySharePasswordInput struct {
	Password string `json:"password" validate:"required"`
}

// VerifySharePasswordResponse share-scope token phát hành sau khi nhập đúng mật khẩu
type VerifySharePasswordResponse struct {
	ShareToken string `json:"shareToken"`
	ExpiresIn  int    `json:"expiresIn"` // giây
}

// GuestTaskUpdateInput update một task qua link chia sẻ.
// Fields chỉ được chứa các field mà permission gate cho phép, vi phạm là từ chối cả update.
type GuestTaskUpdateInput struct {
	Fields map[string]interface{} `json:"fields" validate:"required"`
}

// GuestBatchUpdateInput update nhiều task qua link chia sẻ, all-or-nothing
type GuestBatchUpdateInput struct {
	Updates map[string]map[string]interface{} `json:"updates" validate:"required"`
}
