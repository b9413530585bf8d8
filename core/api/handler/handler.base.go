package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/global"
	"meta_task/core/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JSONResponse ghi response với Content-Type kèm charset để client hiển thị
// đúng tiếng Việt
func JSONResponse(c fiber.Ctx, statusCode int, data fiber.Map) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleResponse trả response theo format thống nhất của toàn hệ thống:
//   - Thành công: {code: 200, message, data, status: "success"}
//   - Lỗi:        {code: <mã lỗi>, message, details, status: "error"}
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		var appErr *common.Error
		if errors.As(err, &appErr) {
			resp := fiber.Map{
				"code":    appErr.Code.Code,
				"message": appErr.Message,
				"status":  "error",
			}
			if appErr.Details != nil {
				resp["details"] = appErr.Details
			}
			// Lỗi hệ thống trả thêm error gốc cho việc debug phía client team
			if appErr.StatusCode >= common.StatusInternalServerError && appErr.Err != nil {
				resp["error"] = appErr.Err.Error()
			}
			return JSONResponse(c, appErr.StatusCode, resp)
		}

		logger.WithRequest(c).WithError(err).Error("Lỗi không xác định")
		return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": common.MsgInternalError,
			"error":   err.Error(),
			"status":  "error",
		})
	}

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// SafeHandler bọc handler với recover để panic không làm chết server
func SafeHandler(c fiber.Ctx, fn func() error) error {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("panic", r).Error("Panic trong handler")
			HandleResponse(c, nil, common.ErrInternal.WithError(fmt.Errorf("%v", r)))
		}
	}()
	return fn()
}

// ParseRequestBody parse JSON body vào struct, dùng UseNumber để không mất
// độ chính xác với các giá trị số lớn (timestamps UnixMilli)
func ParseRequestBody(c fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return common.ErrInvalidInput.WithDetails("request body rỗng")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return common.ErrInvalidFormat.WithError(err)
	}
	return nil
}

// ValidateInput chạy validator trên struct input
func ValidateInput(input interface{}) error {
	if global.Validate == nil {
		return nil
	}
	if err := global.Validate.Struct(input); err != nil {
		return common.ErrInvalidInput.WithDetails(err.Error())
	}
	return nil
}

// ParseObjectIDParam đọc một path param dạng ObjectID hex
func ParseObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	raw := c.Params(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.ErrInvalidFormat.WithDetails(fmt.Sprintf("%s không phải ObjectID hợp lệ: %s", name, raw))
	}
	return id, nil
}

// AuthUser lấy user đã xác thực từ Locals (do auth middleware set)
func AuthUser(c fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user == nil {
		return nil, common.ErrUnauthorized
	}
	return user, nil
}

// RequireAdmin kiểm tra user có role quản trị không (Admin hoặc Super Admin)
func RequireAdmin(user *models.User) error {
	if user.Role != models.RoleAdmin && user.Role != models.RoleSuperAdmin {
		return common.ErrForbidden
	}
	return nil
}
