package middleware

import (
	"strings"
	"sync"
	"time"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/api/services"
	"meta_task/core/common"
	"meta_task/core/logger"
	"meta_task/core/utility"

	"github.com/gofiber/fiber/v3"
)

// Các capability dùng trong route registration
const (
	CapManageUsers   = "manage_users"
	CapManageTasks   = "manage_tasks"
	CapManageShares  = "manage_shares"
	CapViewReports   = "view_reports"
	CapManageCompany = "manage_company"
)

// AuthManager giữ các service cần cho xác thực, khởi tạo một lần (singleton)
type AuthManager struct {
	userService       *services.UserService
	permissionService *services.PermissionSettingsService
	capCache          *utility.Cache // cache capability theo user để giảm truy vấn
}

var (
	authManager     *AuthManager
	authManagerOnce sync.Once
)

// GetAuthManager trả về auth manager singleton
func GetAuthManager() (*AuthManager, error) {
	var initErr error
	authManagerOnce.Do(func() {
		userService, err := services.NewUserService()
		if err != nil {
			initErr = err
			return
		}
		permissionService, err := services.NewPermissionSettingsService()
		if err != nil {
			initErr = err
			return
		}
		authManager = &AuthManager{
			userService:       userService,
			permissionService: permissionService,
			capCache:          utility.NewCache(5 * time.Minute),
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	if authManager == nil {
		return nil, common.NewError(common.ErrCodeServiceInit, "Auth manager chưa khởi tạo được", common.StatusInternalServerError, nil)
	}
	return authManager, nil
}

// hasCapability kiểm tra user có capability không, có cache
func (m *AuthManager) hasCapability(c fiber.Ctx, user *models.User, capability string) (bool, error) {
	if user.Role == models.RoleSuperAdmin {
		return true, nil
	}

	cacheKey := "cap:" + user.ID.Hex() + ":" + capability
	if cached, ok := m.capCache.Get(cacheKey); ok {
		return cached.(bool), nil
	}

	caps, err := m.permissionService.CapabilitiesFor(c.Context(), user.CompanyID, user.Role)
	if err != nil {
		return false, err
	}

	var allowed bool
	switch capability {
	case CapManageUsers:
		allowed = caps.CanManageUsers
	case CapManageTasks:
		allowed = caps.CanManageTasks
	case CapManageShares:
		allowed = caps.CanManageShares
	case CapViewReports:
		allowed = caps.CanViewReports
	case CapManageCompany:
		allowed = caps.CanManageCompany
	default:
		allowed = false
	}

	m.capCache.Set(cacheKey, allowed)
	return allowed, nil
}

// respondError trả lỗi theo format chuẩn ngay từ middleware
func respondError(c fiber.Ctx, appErr *common.Error) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(appErr.StatusCode).JSON(fiber.Map{
		"code":    appErr.Code.Code,
		"message": appErr.Message,
		"status":  "error",
	})
}

// AuthMiddleware xác thực Bearer token và (nếu requireCapability != "") kiểm tra
// capability của user theo ma trận quyền company.
// User hợp lệ được set vào Locals: user_id, user.
func AuthMiddleware(requireCapability string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return respondError(c, common.ErrUnauthorized)
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		manager, err := GetAuthManager()
		if err != nil {
			logger.WithRequest(c).WithError(err).Error("Auth manager init thất bại")
			return respondError(c, common.ErrInternal)
		}

		user, err := manager.userService.FindByToken(c.Context(), token)
		if err != nil {
			return respondError(c, common.ErrUnauthorized)
		}
		if user.IsBlock {
			return respondError(c, common.ErrAccountBlocked)
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)

		if requireCapability != "" {
			allowed, err := manager.hasCapability(c, user, requireCapability)
			if err != nil {
				logger.WithRequest(c).WithError(err).Error("Kiểm tra capability thất bại")
				return respondError(c, common.ErrInternal)
			}
			if !allowed {
				return respondError(c, common.ErrForbidden)
			}
		}

		return c.Next()
	}
}
