package router

import (
	"meta_task/core/api/handler"
	"meta_task/core/api/middleware"
	"meta_task/core/logger"

	"github.com/gofiber/fiber/v3"
)

// RoutePrefix các prefix chuẩn của API
var RoutePrefix = struct {
	Base string
	V1   string
}{
	Base: "/api",
	V1:   "/api/v1",
}

// ==========================================================================
// ⚠️ LƯU Ý VỀ MIDDLEWARE TRONG FIBER V3:
// Khác với v2, route-level middleware truyền SAU handler trong tham số:
//     app.Get(path, handler, middleware1, middleware2)
// Middleware vẫn chạy TRƯỚC handler. Đăng ký nhầm thứ tự sẽ làm middleware
// không chạy mà không báo lỗi gì. Mọi route có auth phải đăng ký qua các
// hàm register bên dưới để khỏi lặp lại lỗi này.
// ==========================================================================

// registerShareRoutes các route truy cập qua link chia sẻ (không cần đăng nhập,
// bảo vệ bằng chính link + share token)
func registerShareRoutes(app *fiber.App, h *handler.ShareHandler) {
	share := app.Group(RoutePrefix.V1 + "/share")

	// Endpoint resolve một phát cũ: giữ lại để trả 410 cho client cũ
	share.Get("/resolve", h.ResolveLegacy)

	share.Get("/session/:linkId", h.ResolveSession)
	share.Get("/session/:linkId/scope/:code", h.ResolveScope)
	share.Post("/session/:linkId/verify-password", h.VerifyPassword)
	share.Patch("/session/:linkId/tasks", h.BatchUpdateTasks)
	share.Patch("/session/:linkId/tasks/:taskId", h.UpdateTask)
}

// registerAuthRoutes các route xác thực
func registerAuthRoutes(app *fiber.App, h *handler.AuthHandler) {
	auth := app.Group(RoutePrefix.V1 + "/auth")
	auth.Post("/login", h.Login)
	auth.Get("/profile", h.Profile, middleware.AuthMiddleware(""))
}

// registerTaskRoutes các route task cho user trong company
func registerTaskRoutes(app *fiber.App, h *handler.TaskHandler) {
	tasks := app.Group(RoutePrefix.V1 + "/tasks")
	tasks.Post("/", h.Create, middleware.AuthMiddleware(middleware.CapManageTasks))
	tasks.Get("/", h.List, middleware.AuthMiddleware(""))
	tasks.Get("/:id", h.FindById, middleware.AuthMiddleware(""))
	tasks.Put("/:id", h.Update, middleware.AuthMiddleware(""))
	tasks.Post("/:id/complete", h.Complete, middleware.AuthMiddleware(""))
}

// registerAdminRoutes các route quản trị
func registerAdminRoutes(app *fiber.App, h *handler.AdminHandler) {
	admin := app.Group(RoutePrefix.V1 + "/admin")

	admin.Put("/users/:id/role", h.UpdateRole, middleware.AuthMiddleware(middleware.CapManageUsers))
	admin.Post("/users/:id/reset-password", h.ResetPassword, middleware.AuthMiddleware(middleware.CapManageUsers))
	admin.Put("/users/:id/block", h.BlockUser, middleware.AuthMiddleware(middleware.CapManageUsers))

	admin.Post("/companies", h.CreateCompany, middleware.AuthMiddleware(middleware.CapManageCompany))

	admin.Post("/shared-links", h.CreateSharedLink, middleware.AuthMiddleware(middleware.CapManageShares))
	admin.Delete("/shared-links/:id", h.RevokeSharedLink, middleware.AuthMiddleware(middleware.CapManageShares))
	admin.Post("/shared-links/migrate", h.MigrateSharedLinks, middleware.AuthMiddleware(middleware.CapManageShares))
}

// registerSystemRoutes các route hệ thống
func registerSystemRoutes(app *fiber.App, h *handler.SystemHandler) {
	system := app.Group(RoutePrefix.V1 + "/system")
	system.Get("/health", h.Health)
}

// SetupRoutes khởi tạo toàn bộ handlers và đăng ký routes
func SetupRoutes(app *fiber.App) {
	log := logger.GetAppLogger()

	systemHandler := handler.NewSystemHandler()
	registerSystemRoutes(app, systemHandler)

	authHandler, err := handler.NewAuthHandler()
	if err != nil {
		log.Fatalf("Failed to create auth handler: %v", err)
	}
	registerAuthRoutes(app, authHandler)

	shareHandler, err := handler.NewShareHandler()
	if err != nil {
		log.Fatalf("Failed to create share handler: %v", err)
	}
	registerShareRoutes(app, shareHandler)

	taskHandler, err := handler.NewTaskHandler()
	if err != nil {
		log.Fatalf("Failed to create task handler: %v", err)
	}
	registerTaskRoutes(app, taskHandler)

	adminHandler, err := handler.NewAdminHandler()
	if err != nil {
		log.Fatalf("Failed to create admin handler: %v", err)
	}
	registerAdminRoutes(app, adminHandler)

	log.Info("Routes registered")
}
