package handler

import (
	"meta_task/core/api/dto"
	models "meta_task/core/api/models/mongodb"
	"meta_task/core/api/services"
	"meta_task/core/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskHandler CRUD task cho user trong company (không phải guest)
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler tạo task handler
func NewTaskHandler() (*TaskHandler, error) {
	taskService, err := services.NewTaskService()
	if err != nil {
		return nil, err
	}
	return &TaskHandler{taskService: taskService}, nil
}

// parseObjectIDs chuyển danh sách hex string sang ObjectID
func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hex := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, common.ErrInvalidFormat.WithDetails("id không hợp lệ: " + hex)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Create tạo task mới trong company của user đang đăng nhập.
// POST /api/v1/tasks
func (h *TaskHandler) Create(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		user, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		if user.CompanyID.IsZero() {
			return HandleResponse(c, nil, common.ErrForbidden.WithDetails("user chưa thuộc company nào"))
		}

		var input dto.CreateTaskInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := ValidateInput(input); err != nil {
			return HandleResponse(c, nil, err)
		}

		assigneeIDs, err := parseObjectIDs(input.AssigneeIDs)
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		task := models.Task{
			CompanyID:   user.CompanyID,
			Title:       input.Title,
			Description: input.Description,
			AssigneeIDs: assigneeIDs,
			StatusCode:  input.StatusCode,
			Priority:    input.Priority,
			DueDate:     input.DueDate,
		}
		if input.BrandID != "" {
			brandID, err := primitive.ObjectIDFromHex(input.BrandID)
			if err != nil {
				return HandleResponse(c, nil, common.ErrInvalidFormat.WithDetails("brandId không hợp lệ"))
			}
			task.BrandID = brandID
		}

		created, err := h.taskService.CreateTask(c.Context(), task, user.ID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, created, nil)
	})
}

// List liệt kê task trong company của user, company filter ép ở server.
// GET /api/v1/tasks
func (h *TaskHandler) List(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		user, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		if user.CompanyID.IsZero() {
			return HandleResponse(c, []models.Task{}, nil)
		}

		tasks, err := h.taskService.ListByCompany(c.Context(), user.CompanyID, nil)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, tasks, nil)
	})
}

// FindById trả về một task trong company của user.
// GET /api/v1/tasks/:id
func (h *TaskHandler) FindById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		user, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		taskID, err := ParseObjectIDParam(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		task, err := h.taskService.FindOneById(c.Context(), taskID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		// Task của company khác trả not found, không lộ sự tồn tại
		if task.CompanyID != user.CompanyID {
			return HandleResponse(c, nil, common.ErrNotFound)
		}
		return HandleResponse(c, task, nil)
	})
}

// Update sửa task trong company của user.
// PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		user, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		taskID, err := ParseObjectIDParam(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		var input dto.UpdateTaskInput
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		if err := ValidateInput(input); err != nil {
			return HandleResponse(c, nil, err)
		}

		set := bson.M{}
		if input.Title != nil {
			set["title"] = *input.Title
		}
		if input.Description != nil {
			set["description"] = *input.Description
		}
		if input.AssigneeIDs != nil {
			assigneeIDs, err := parseObjectIDs(input.AssigneeIDs)
			if err != nil {
				return HandleResponse(c, nil, err)
			}
			set["assigneeIds"] = assigneeIDs
		}
		if input.StatusCode != nil {
			set["statusCode"] = *input.StatusCode
		}
		if input.Priority != nil {
			set["priority"] = *input.Priority
		}
		if input.DueDate != nil {
			set["dueDate"] = *input.DueDate
		}

		task, err := h.taskService.UpdateTask(c.Context(), taskID, user.CompanyID, user.ID, set)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, task, nil)
	})
}

// Complete đánh dấu task hoàn thành (chỉ assignee).
// POST /api/v1/tasks/:id/complete
func (h *TaskHandler) Complete(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		user, err := AuthUser(c)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		taskID, err := ParseObjectIDParam(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}

		task, err := h.taskService.CompleteTask(c.Context(), taskID, user.ID)
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		return HandleResponse(c, task, nil)
	})
}
