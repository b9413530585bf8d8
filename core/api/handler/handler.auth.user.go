package handler

import (
	"meta_task/core/api/dto"
	"meta_task/core/api/services"

	"github.com/gofiber/fiber/v3"
)

// AuthHandler xử lý đăng nhập và thông tin user hiện tại
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler tạo auth handler
func NewAuthHandler() (*AuthHandler, error) {
	userService, err := services.NewUserService()
	if err != nil {
		return nil, err
	}
	return &AuthHandler{userService: userService}, nil
}

// Login đăng nhập bằng Firebase ID token, trả về JWT session token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		var input dto.LoginInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := ValidateInput(input); err != nil {
			return HandleResponse(c, nil, err)
		}

		user, token, err := h.userService.LoginWithFirebase(c.Context(), input.IDToken, input.Hwid)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		return HandleResponse(c, dto.LoginResponse{
			Token:              token,
			User:               user,
			MustChangePassword: user.MustChangePassword,
		}, nil)
	})
}

// Profile trả về thông tin user đang đăng nhập.
// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		user, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, user, nil)
	})
}
