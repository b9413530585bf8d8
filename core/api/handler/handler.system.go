package handler

import (
	"context"
	"time"

	"meta_task/core/common"
	"meta_task/core/global"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// SystemHandler các endpoint hệ thống (health check)
type SystemHandler struct{}

// NewSystemHandler tạo system handler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Health kiểm tra server và kết nối database.
// GET /api/v1/system/health
func (h *SystemHandler) Health(c fiber.Ctx) error {
	dbStatus := "up"
	if global.MongoDB_Session != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := global.MongoDB_Session.Ping(ctx, readpref.Primary()); err != nil {
			dbStatus = "down"
		}
	} else {
		dbStatus = "down"
	}

	status := common.StatusOK
	if dbStatus == "down" {
		status = common.StatusServiceUnavailable
	}

	return JSONResponse(c, status, fiber.Map{
		"code":    status,
		"message": common.MsgSuccess,
		"data": fiber.Map{
			"server":   "up",
			"database": dbStatus,
			"time":     time.Now().UnixMilli(),
		},
		"status": "success",
	})
}
