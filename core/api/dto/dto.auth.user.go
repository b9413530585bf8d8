package dto

// LoginInput input đăng nhập bằng Firebase ID token
type LoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
	Hwid    string `json:"hwid" validate:"required"` // Định danh thiết bị để quản lý token theo thiết bị
}

// LoginResponse kết quả đăng nhập
type LoginResponse struct {
	Token              string      `json:"token"`
	User               interface{} `json:"user"`
	MustChangePassword bool        `json:"mustChangePassword"`
}
