package handler

import (
	"context"
	"time"

	"meta_task/core/api/dto"
	models "meta_task/core/api/models/mongodb"
	"meta_task/core/api/services"
	"meta_task/core/common"
	"meta_task/core/global"
	"meta_task/core/logger"
	"meta_task/core/share"
	"meta_task/core/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// shareNavStore phần dữ liệu navigation mà handler cần, tách interface
// để test handler không cần MongoDB
type shareNavStore interface {
	ListNavItems(ctx context.Context) ([]models.NavigationItem, error)
}

// ShareHandler xử lý toàn bộ luồng truy cập qua link chia sẻ:
// resolve session, resolve scope, cửa mật khẩu, cập nhật task của guest.
type ShareHandler struct {
	linkService *services.SharedLinkService
	taskService *services.TaskService
	resolver    *share.Resolver
	links       share.LinkStore
	nav         shareNavStore
}

// NewShareHandler tạo share handler với resolver được inject đầy đủ store
func NewShareHandler() (*ShareHandler, error) {
	linkService, err := services.NewSharedLinkService()
	if err != nil {
		return nil, err
	}
	taskService, err := services.NewTaskService()
	if err != nil {
		return nil, err
	}
	dataService, err := services.NewShareDataService()
	if err != nil {
		return nil, err
	}

	resolver := share.NewResolver(linkService, dataService, logger.WithModule("share"))
	return &ShareHandler{
		linkService: linkService,
		taskService: taskService,
		resolver:    resolver,
		links:       linkService,
		nav:         dataService,
	}, nil
}

// hasValidShareToken kiểm tra request có mang share-scope token hợp lệ
// cho đúng link này không (header X-Share-Token)
func hasValidShareToken(c fiber.Ctx, linkID primitive.ObjectID) bool {
	token := c.Get("X-Share-Token")
	if token == "" {
		return false
	}
	tokenLinkID, err := utility.ParseShareToken(global.MongoDB_ServerConfig.JwtSecret, token)
	if err != nil {
		return false
	}
	return tokenLinkID == linkID.Hex()
}

// ResolveSession phân giải link chia sẻ thành session đầy đủ dữ liệu.
// GET /api/v1/share/session/:linkId
func (h *ShareHandler) ResolveSession(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		linkID, err := ParseObjectIDParam(c, "linkId")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		session, err := h.resolver.Resolve(c.Context(), linkID, hasValidShareToken(c, linkID))
		if err != nil {
			// Trạng thái denied/not_found vẫn trả session.Info để client render đúng màn hình
			if appErr, ok := err.(*common.Error); ok {
				return JSONResponse(c, appErr.StatusCode, fiber.Map{
					"code":    appErr.Code.Code,
					"message": appErr.Message,
					"details": session.Info,
					"status":  "error",
				})
			}
			return HandleResponse(c, nil, err)
		}

		return HandleResponse(c, session, nil)
	})
}

// VerifyPassword kiểm tra mật khẩu link và phát hành share-scope token.
// POST /api/v1/share/session/:linkId/verify-password
func (h *ShareHandler) VerifyPassword(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		linkID, err := ParseObjectIDParam(c, "linkId")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		var input dto.VerifySharePasswordInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := ValidateInput(input); err != nil {
			return HandleResponse(c, nil, err)
		}

		token, err := h.linkService.VerifyPassword(c.Context(), linkID, input.Password)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		return HandleResponse(c, dto.VerifySharePasswordResponse{
			ShareToken: token,
			ExpiresIn:  global.MongoDB_ServerConfig.ShareTokenTTL,
		}, nil)
	})
}

// loadActiveLink nạp link cho các thao tác của guest sau resolve, kiểm tra đủ
// các cửa: tồn tại, chưa thu hồi, chưa hết hạn, đã qua mật khẩu (nếu có).
// Lỗi hạ tầng khi đọc link giữ nguyên, không được đổi nhãn thành not-found.
func (h *ShareHandler) loadActiveLink(c fiber.Ctx, linkID primitive.ObjectID) (*models.SharedLink, error) {
	link, err := h.links.GetLink(c.Context(), linkID)
	if err != nil {
		return nil, common.MapNotFound(err, common.ErrShareNotFound)
	}
	if link.IsRevoked {
		return nil, common.ErrShareRevoked
	}
	if link.IsExpired(time.Now()) {
		return nil, common.ErrShareExpired
	}
	if link.HasPassword() && !hasValidShareToken(c, linkID) {
		return nil, common.ErrSharePasswordRequired
	}
	return link, nil
}

// ResolveScope phân giải một navigation code trong phạm vi của link chia sẻ.
// Hai lỗi phải phân biệt rõ cho client: code không tồn tại trong hệ thống (404)
// và code tồn tại nhưng ngoài phạm vi của link (403).
// GET /api/v1/share/session/:linkId/scope/:code
func (h *ShareHandler) ResolveScope(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		linkID, err := ParseObjectIDParam(c, "linkId")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		link, err := h.loadActiveLink(c, linkID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		items, err := h.nav.ListNavItems(c.Context())
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		item, err := share.ResolveNavItem(items, link, c.Params("code"))
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, item, nil)
	})
}

// UpdateTask cập nhật một task qua link chia sẻ (permission gate all-or-nothing).
// PATCH /api/v1/share/session/:linkId/tasks/:taskId
func (h *ShareHandler) UpdateTask(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		linkID, err := ParseObjectIDParam(c, "linkId")
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		taskID, err := ParseObjectIDParam(c, "taskId")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		link, err := h.loadActiveLink(c, linkID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		var input dto.GuestTaskUpdateInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}

		task, err := h.taskService.ApplyShareUpdate(c.Context(), link, taskID, input.Fields)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, task, nil)
	})
}

// BatchUpdateTasks cập nhật nhiều task qua link chia sẻ, all-or-nothing.
// PATCH /api/v1/share/session/:linkId/tasks
func (h *ShareHandler) BatchUpdateTasks(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		linkID, err := ParseObjectIDParam(c, "linkId")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		link, err := h.loadActiveLink(c, linkID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		var input dto.GuestBatchUpdateInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}

		tasks, err := h.taskService.ApplyShareBatchUpdate(c.Context(), link, input.Updates)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, tasks, nil)
	})
}

// ResolveLegacy endpoint resolve một phát cũ, đã thay bằng session-scoped resolve.
// Giữ route để client cũ nhận 410 thay vì 404.
// GET /api/v1/share/resolve
func (h *ShareHandler) ResolveLegacy(c fiber.Ctx) error {
	return HandleResponse(c, nil, common.ErrShareGone.WithDetails(
		"dùng GET /api/v1/share/session/:linkId thay thế"))
}
