package services

import (
	"context"
	"fmt"
	"time"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/global"
	"meta_task/core/logger"
	"meta_task/core/share"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskService xử lý nghiệp vụ task: CRUD theo company, hoàn thành task,
// cập nhật qua link chia sẻ.
type TaskService struct {
	*BaseServiceMongoImpl[models.Task]
	statusService *BaseServiceMongoImpl[models.Status]
	notifService  *BaseServiceMongoImpl[models.Notification]
}

// NewTaskService tạo task service, lấy các collection từ registry
func NewTaskService() (*TaskService, error) {
	taskCol, err := getCollection(global.MongoDB_ColNames.Tasks)
	if err != nil {
		return nil, err
	}
	statusCol, err := getCollection(global.MongoDB_ColNames.Statuses)
	if err != nil {
		return nil, err
	}
	notifCol, err := getCollection(global.MongoDB_ColNames.Notifications)
	if err != nil {
		return nil, err
	}
	return &TaskService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Task](taskCol),
		statusService:        NewBaseServiceMongo[models.Status](statusCol),
		notifService:         NewBaseServiceMongo[models.Notification](notifCol),
	}, nil
}

// CreateTask tạo task mới trong company, kèm activity "created"
func (s *TaskService) CreateTask(ctx context.Context, task models.Task, creatorID primitive.ObjectID) (*models.Task, error) {
	now := time.Now().UnixMilli()
	task.CreatedBy = creatorID
	task.LastActivity = now
	if task.AssigneeIDs == nil {
		task.AssigneeIDs = []primitive.ObjectID{}
	}
	task.Activities = []models.Activity{{
		Type:      models.ActivityTypeCreated,
		ActorID:   creatorID,
		Content:   "Tạo task",
		CreatedAt: now,
	}}

	created, err := s.InsertOne(ctx, task)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask cập nhật task bởi user trong company, kèm activity liệt kê field đổi.
// Cross-company trả NotFound, không lộ sự tồn tại của task.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, companyID, actorID primitive.ObjectID, set bson.M) (*models.Task, error) {
	if len(set) == 0 {
		return nil, common.ErrInvalidInput.WithDetails("update không có field nào")
	}

	task, err := s.FindOneById(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.CompanyID != companyID {
		return nil, common.ErrNotFound
	}

	now := time.Now().UnixMilli()
	changes := make([]string, 0, len(set))
	for field := range set {
		changes = append(changes, field)
	}
	set["lastActivity"] = now

	activity := models.Activity{
		Type:      models.ActivityTypeFieldChanged,
		ActorID:   actorID,
		Content:   fmt.Sprintf("Cập nhật %v", changes),
		CreatedAt: now,
	}

	updated, err := s.UpdateById(ctx, taskID, &UpdateData{
		Set:  set,
		Push: bson.M{"activities": activity},
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// findDoneStatus tìm status hoàn thành của company
func (s *TaskService) findDoneStatus(ctx context.Context, companyID primitive.ObjectID) (*models.Status, error) {
	status, err := s.statusService.FindOne(ctx, bson.M{"companyId": companyID, "isDone": true})
	if err != nil {
		return nil, common.NewError(common.ErrCodeBusinessOperation,
			"Company chưa cấu hình trạng thái hoàn thành", common.StatusConflict, err)
	}
	return &status, nil
}

// buildCompletionActivity tạo activity hoàn thành, phân biệt đúng hạn / trễ hạn.
// Tách thành hàm thuần để test không cần database.
func buildCompletionActivity(actorID primitive.ObjectID, dueDate *int64, completedAt int64) models.Activity {
	content := "Hoàn thành task"
	if dueDate != nil {
		if completedAt <= *dueDate {
			content = "Hoàn thành task đúng hạn"
		} else {
			content = "Hoàn thành task trễ hạn"
		}
	}
	return models.Activity{
		Type:      models.ActivityTypeCompleted,
		ActorID:   actorID,
		Content:   content,
		CreatedAt: completedAt,
	}
}

// CompleteTask đánh dấu task hoàn thành.
// Quy tắc:
//   - Chỉ assignee của task được hoàn thành -> Forbidden nếu không phải
//   - Task đã ở trạng thái hoàn thành -> InvalidState, không ghi gì
//   - Ghi actualCompletionDate, activity đúng hạn/trễ hạn, lastActivity
//   - Thông báo cho người tạo task, trừ khi người tạo tự hoàn thành
func (s *TaskService) CompleteTask(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.Task, error) {
	task, err := s.FindOneById(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignee(actorID) {
		return nil, common.ErrForbidden.WithDetails("chỉ assignee được hoàn thành task")
	}

	doneStatus, err := s.findDoneStatus(ctx, task.CompanyID)
	if err != nil {
		return nil, err
	}

	if task.StatusCode == doneStatus.Code {
		return nil, common.ErrInvalidState.WithDetails("task đã ở trạng thái hoàn thành")
	}

	now := time.Now().UnixMilli()
	activity := buildCompletionActivity(actorID, task.DueDate, now)

	updated, err := s.UpdateById(ctx, taskID, &UpdateData{
		Set: bson.M{
			"statusCode":           doneStatus.Code,
			"actualCompletionDate": now,
			"lastActivity":         now,
		},
		Push: bson.M{"activities": activity},
	})
	if err != nil {
		return nil, err
	}

	// Thông báo người tạo, bỏ qua khi tự hoàn thành task của chính mình
	if task.CreatedBy != actorID && !task.CreatedBy.IsZero() {
		_, err := s.notifService.InsertOne(ctx, models.Notification{
			UserID: task.CreatedBy,
			Type:   models.NotificationTypeTaskCompleted,
			Title:  fmt.Sprintf("Task \"%s\" đã hoàn thành", task.Title),
			Body:   activity.Content,
			TaskID: task.ID,
		})
		if err != nil {
			// Thông báo là best-effort, không làm hỏng thao tác chính
			logger.WithModule("task").WithError(err).
				WithField("taskId", taskID.Hex()).
				Warn("Ghi notification hoàn thành task thất bại")
		}
	}

	return &updated, nil
}

// ApplyShareUpdate cập nhật task qua link chia sẻ.
// Permission gate kiểm tra all-or-nothing trước, sau đó mới ghi.
func (s *TaskService) ApplyShareUpdate(ctx context.Context, link *models.SharedLink, taskID primitive.ObjectID, fields map[string]interface{}) (*models.Task, error) {
	if err := share.CheckTaskUpdate(link.Permissions, fields); err != nil {
		return nil, err
	}

	task, err := s.FindOneById(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// Tenant isolation + scope của link task đơn
	if task.CompanyID != link.CompanyID {
		return nil, common.ErrNotFound
	}
	if link.LinkType == models.LinkTypeTask && task.ID != link.TargetID {
		return nil, common.ErrPermissionDenied.WithDetails("link chỉ cho phép sửa task được chia sẻ")
	}

	now := time.Now().UnixMilli()
	set := bson.M{"lastActivity": now}
	var changes []string
	for field, value := range fields {
		set[field] = value
		changes = append(changes, field)
	}

	activity := models.Activity{
		Type:      models.ActivityTypeFieldChanged,
		ActorRole: link.SharedAsRole,
		Content:   fmt.Sprintf("Cập nhật %v qua link chia sẻ", changes),
		CreatedAt: now,
	}

	updated, err := s.UpdateById(ctx, taskID, &UpdateData{
		Set:  set,
		Push: bson.M{"activities": activity},
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// parseBatchTaskIDs parse toàn bộ key của batch thành ObjectID.
// Một id hỏng là cả batch bị từ chối trước khi đụng đến database.
func parseBatchTaskIDs(updates map[string]map[string]interface{}) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(updates))
	for taskIDHex := range updates {
		id, err := primitive.ObjectIDFromHex(taskIDHex)
		if err != nil {
			return nil, common.ErrInvalidFormat.WithDetails("task id không hợp lệ: " + taskIDHex)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ApplyShareBatchUpdate cập nhật nhiều task qua link chia sẻ, all-or-nothing:
// toàn bộ batch được kiểm tra trước, và các lần ghi chạy trong một transaction
// nên lỗi giữa chừng không để lại trạng thái ghi dở.
// Transaction yêu cầu MongoDB chạy replica set.
func (s *TaskService) ApplyShareBatchUpdate(ctx context.Context, link *models.SharedLink, updates map[string]map[string]interface{}) ([]models.Task, error) {
	if err := share.CheckBatchTaskUpdate(link.Permissions, updates); err != nil {
		return nil, err
	}

	ids, err := parseBatchTaskIDs(updates)
	if err != nil {
		return nil, err
	}

	count, err := s.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}, "companyId": link.CompanyID})
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, common.ErrNotFound.WithDetails("một hoặc nhiều task không thuộc phạm vi của link")
	}

	sess, err := global.MongoDB_Session.StartSession()
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer sess.EndSession(ctx)

	results := make([]models.Task, 0, len(ids))
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		results = results[:0]
		for _, id := range ids {
			updated, err := s.ApplyShareUpdate(sc, link, id, updates[id.Hex()])
			if err != nil {
				return nil, err
			}
			results = append(results, *updated)
		}
		return nil, nil
	})
	if err != nil {
		logger.WithModule("share").WithError(err).
			WithField("linkId", link.ID.Hex()).
			Error("Batch update qua link thất bại, transaction đã rollback")
		return nil, err
	}
	return results, nil
}

// ListByCompany liệt kê task của company, lọc theo brand nếu có
func (s *TaskService) ListByCompany(ctx context.Context, companyID primitive.ObjectID, brandIDs []primitive.ObjectID) ([]models.Task, error) {
	filter := bson.M{"companyId": companyID}
	if len(brandIDs) > 0 {
		filter["brandId"] = bson.M{"$in": brandIDs}
	}
	return s.Find(ctx, filter, nil)
}
