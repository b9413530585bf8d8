package handler

import (
	"meta_task/core/api/dto"
	models "meta_task/core/api/models/mongodb"
	"meta_task/core/api/services"
	"meta_task/core/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler các thao tác quản trị: quản lý user, link chia sẻ, migrate dữ liệu.
// Mọi endpoint đều yêu cầu role Admin/Super Admin; Admin bị scope theo company.
type AdminHandler struct {
	userService       *services.UserService
	linkService       *services.SharedLinkService
	permissionService *services.PermissionSettingsService
	companyService    *services.CompanyService
}

// NewAdminHandler tạo admin handler
func NewAdminHandler() (*AdminHandler, error) {
	userService, err := services.NewUserService()
	if err != nil {
		return nil, err
	}
	linkService, err := services.NewSharedLinkService()
	if err != nil {
		return nil, err
	}
	permissionService, err := services.NewPermissionSettingsService()
	if err != nil {
		return nil, err
	}
	companyService, err := services.NewCompanyService()
	if err != nil {
		return nil, err
	}
	return &AdminHandler{
		userService:       userService,
		linkService:       linkService,
		permissionService: permissionService,
		companyService:    companyService,
	}, nil
}

// requireAdminScope kiểm tra caller là admin và (nếu không phải Super Admin)
// target user phải cùng company
func (h *AdminHandler) requireAdminScope(c fiber.Ctx, targetUserID primitive.ObjectID) (*models.User, *models.User, error) {
	caller, err := AuthUser(c)
	if err != nil {
		return nil, nil, err
	}
	if err := RequireAdmin(caller); err != nil {
		return nil, nil, err
	}

	target, err := h.userService.FindOneById(c.Context(), targetUserID)
	if err != nil {
		return nil, nil, err
	}
	if caller.Role != models.RoleSuperAdmin && target.CompanyID != caller.CompanyID {
		return nil, nil, common.ErrForbidden.WithDetails("user không thuộc company của bạn")
	}
	return caller, &target, nil
}

// UpdateRole đổi role user (dual write document store + identity provider).
// PUT /api/v1/admin/users/:id/role
func (h *AdminHandler) UpdateRole(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		userID, err := ParseObjectIDParam(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		caller, _, err := h.requireAdminScope(c, userID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		var input dto.UpdateRoleInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := ValidateInput(input); err != nil {
			return HandleResponse(c, nil, err)
		}

		// Chỉ Super Admin được phong Super Admin
		if input.Role == models.RoleSuperAdmin && caller.Role != models.RoleSuperAdmin {
			return HandleResponse(c, nil, common.ErrForbidden.WithDetails("chỉ Super Admin được gán role Super Admin"))
		}

		user, err := h.userService.UpdateUserRole(c.Context(), userID, input.Role, input.DisplayName)
		if err != nil {
			// Lỗi đồng bộ identity: document đã đổi, trả kèm user để client thấy trạng thái thật
			if appErr, ok := err.(*common.Error); ok && appErr.Is(common.ErrIdentitySync) {
				return JSONResponse(c, appErr.StatusCode, fiber.Map{
					"code":    appErr.Code.Code,
					"message": appErr.Message,
					"details": user,
					"status":  "error",
				})
			}
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, user, nil)
	})
}

// ResetPassword reset mật khẩu user về mật khẩu tạm.
// Plaintext chỉ nằm trong response này đúng một lần.
// POST /api/v1/admin/users/:id/reset-password
func (h *AdminHandler) ResetPassword(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		userID, err := ParseObjectIDParam(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		if _, _, err := h.requireAdminScope(c, userID); err != nil {
			return HandleResponse(c, nil, err)
		}

		user, tempPassword, err := h.userService.ResetUserPassword(c.Context(), userID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		return HandleResponse(c, dto.ResetPasswordResponse{
			UserID:       user.ID.Hex(),
			TempPassword: tempPassword,
		}, nil)
	})
}

// BlockUser khóa/mở khóa tài khoản.
// PUT /api/v1/admin/users/:id/block
func (h *AdminHandler) BlockUser(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		userID, err := ParseObjectIDParam(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		if _, _, err := h.requireAdminScope(c, userID); err != nil {
			return HandleResponse(c, nil, err)
		}

		var input dto.BlockUserInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}

		user, err := h.userService.SetBlock(c.Context(), userID, input.IsBlock, input.Note)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, user, nil)
	})
}

// CreateSharedLink tạo link chia sẻ mới trong company của caller.
// POST /api/v1/admin/shared-links
func (h *AdminHandler) CreateSharedLink(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		caller, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		// Quyền tạo link theo ma trận permission của company
		caps, err := h.permissionService.CapabilitiesFor(c.Context(), caller.CompanyID, caller.Role)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		if !caps.CanManageShares {
			return HandleResponse(c, nil, common.ErrForbidden.WithDetails("role của bạn không được quản lý link chia sẻ"))
		}

		var input dto.CreateSharedLinkInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := ValidateInput(input); err != nil {
			return HandleResponse(c, nil, err)
		}

		brandIDs, err := parseObjectIDs(input.BrandIDs)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		link := models.SharedLink{
			CompanyID: caller.CompanyID,
			LinkType:  input.LinkType,
			Permissions: models.SharePermissions{
				AccessLevel:     input.Permissions.AccessLevel,
				CanViewDetails:  input.Permissions.CanViewDetails,
				CanComment:      input.Permissions.CanComment,
				CanEditStatus:   input.Permissions.CanEditStatus,
				CanEditDueDate:  input.Permissions.CanEditDueDate,
				CanEditPriority: input.Permissions.CanEditPriority,
			},
			AllowedNavItems: input.AllowedNavItems,
			BrandIDs:        brandIDs,
			SharedAsRole:    input.SharedAsRole,
			ExpireAt:        input.ExpireAt,
		}
		if input.TargetID != "" {
			targetID, err := primitive.ObjectIDFromHex(input.TargetID)
			if err != nil {
				return HandleResponse(c, nil, common.ErrInvalidFormat.WithDetails("targetId không hợp lệ"))
			}
			link.TargetID = targetID
		}

		created, err := h.linkService.CreateLink(c.Context(), link, caller, input.Password)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, created, nil)
	})
}

// RevokeSharedLink thu hồi link chia sẻ.
// DELETE /api/v1/admin/shared-links/:id
func (h *AdminHandler) RevokeSharedLink(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		caller, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := RequireAdmin(caller); err != nil {
			return HandleResponse(c, nil, err)
		}

		linkID, err := ParseObjectIDParam(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		link, err := h.linkService.GetLink(c.Context(), linkID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		if caller.Role != models.RoleSuperAdmin && link.CompanyID != caller.CompanyID {
			return HandleResponse(c, nil, common.ErrForbidden)
		}

		revoked, err := h.linkService.RevokeLink(c.Context(), linkID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, revoked, nil)
	})
}

// CreateCompany tạo company mới kèm status và permission settings mặc định.
// POST /api/v1/admin/companies
func (h *AdminHandler) CreateCompany(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		var input dto.CreateCompanyInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := ValidateInput(input); err != nil {
			return HandleResponse(c, nil, err)
		}

		company := models.Company{
			Name: input.Name,
			Logo: input.Logo,
		}
		if input.OwnerID != "" {
			ownerID, err := primitive.ObjectIDFromHex(input.OwnerID)
			if err != nil {
				return HandleResponse(c, nil, common.ErrInvalidFormat.WithDetails("ownerId không hợp lệ"))
			}
			company.OwnerID = ownerID
		}

		created, err := h.companyService.CreateCompany(c.Context(), company)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, created, nil)
	})
}

// MigrateSharedLinks backfill snapshot cho link cũ, idempotent.
// POST /api/v1/admin/shared-links/migrate
func (h *AdminHandler) MigrateSharedLinks(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		caller, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := RequireAdmin(caller); err != nil {
			return HandleResponse(c, nil, err)
		}

		var input dto.MigrateSharedLinksInput
		if len(c.Body()) > 0 {
			if err := ParseRequestBody(c, &input); err != nil {
				return HandleResponse(c, nil, err)
			}
		}

		var companyID *primitive.ObjectID
		if caller.Role != models.RoleSuperAdmin {
			// Admin thường chỉ migrate trong company của mình
			companyID = &caller.CompanyID
		} else if input.CompanyID != "" {
			id, err := primitive.ObjectIDFromHex(input.CompanyID)
			if err != nil {
				return HandleResponse(c, nil, common.ErrInvalidFormat.WithDetails("companyId không hợp lệ"))
			}
			companyID = &id
		}

		result, err := h.linkService.MigrateSnapshots(c.Context(), companyID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, result, nil)
	})
}
