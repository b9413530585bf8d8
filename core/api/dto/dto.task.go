package dto

// CreateTaskInput input tạo task mới
type CreateTaskInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	BrandID     string   `json:"brandId,omitempty"`
	AssigneeIDs []string `json:"assigneeIds"`
	StatusCode  string   `json:"statusCode" validate:"required"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *int64   `json:"dueDate,omitempty"`
}

// UpdateTaskInput input sửa task (user trong company, không phải guest)
type UpdateTaskInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	AssigneeIDs []string `json:"assigneeIds,omitempty"`
	StatusCode  *string  `json:"statusCode,omitempty"`
	Priority    *string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *int64   `json:"dueDate,omitempty"`
}
