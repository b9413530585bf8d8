package services

import (
	"context"
	"errors"
	"testing"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCompletionActivity_DungHan(t *testing.T) {
	actorID := primitive.NewObjectID()
	due := int64(1700000000000)
	completedAt := due - 1000

	activity := buildCompletionActivity(actorID, &due, completedAt)
	if activity.Type != models.ActivityTypeCompleted {
		t.Errorf("muốn type %q, nhận %q", models.ActivityTypeCompleted, activity.Type)
	}
	if activity.Content != "Hoàn thành task đúng hạn" {
		t.Errorf("hoàn thành trước hạn phải là đúng hạn, nhận: %q", activity.Content)
	}
	if activity.ActorID != actorID {
		t.Error("activity thiếu actorId")
	}
	if activity.CreatedAt != completedAt {
		t.Errorf("createdAt phải bằng thời điểm hoàn thành, nhận %d", activity.CreatedAt)
	}
}

func TestBuildCompletionActivity_DungHanSatNut(t *testing.T) {
	// Hoàn thành đúng tại thời điểm deadline vẫn tính là đúng hạn
	due := int64(1700000000000)
	activity := buildCompletionActivity(primitive.NewObjectID(), &due, due)
	if activity.Content != "Hoàn thành task đúng hạn" {
		t.Errorf("hoàn thành đúng deadline phải tính đúng hạn, nhận: %q", activity.Content)
	}
}

func TestBuildCompletionActivity_TreHan(t *testing.T) {
	due := int64(1700000000000)
	activity := buildCompletionActivity(primitive.NewObjectID(), &due, due+1)
	if activity.Content != "Hoàn thành task trễ hạn" {
		t.Errorf("hoàn thành sau deadline phải là trễ hạn, nhận: %q", activity.Content)
	}
}

func TestBuildCompletionActivity_KhongCoDeadline(t *testing.T) {
	activity := buildCompletionActivity(primitive.NewObjectID(), nil, 1700000000000)
	if activity.Content != "Hoàn thành task" {
		t.Errorf("task không có deadline thì content không phân biệt hạn, nhận: %q", activity.Content)
	}
}

func TestParseBatchTaskIDs(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	ids, err := parseBatchTaskIDs(map[string]map[string]interface{}{
		a.Hex(): {"statusCode": "done"},
		b.Hex(): {"statusCode": "doing"},
	})
	if err != nil {
		t.Fatalf("batch hợp lệ nhưng parse lỗi: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("muốn 2 id, nhận %d", len(ids))
	}

	_, err = parseBatchTaskIDs(map[string]map[string]interface{}{
		a.Hex():       {"statusCode": "done"},
		"khong-phai-id": {"statusCode": "done"},
	})
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrInvalidFormat) {
		t.Errorf("id hỏng phải trả ErrInvalidFormat, nhận: %v", err)
	}
}

// Batch hỏng phải bị chặn TRƯỚC khi đụng database: service dựng với collection nil,
// mọi lần chạm database sẽ panic ngay và test fail.
func TestApplyShareBatchUpdate_ChanTruocKhiGhi(t *testing.T) {
	s := &TaskService{BaseServiceMongoImpl: NewBaseServiceMongo[models.Task](nil)}
	link := &models.SharedLink{
		ID:        primitive.NewObjectID(),
		CompanyID: primitive.NewObjectID(),
		LinkType:  models.LinkTypeBoard,
		Permissions: models.SharePermissions{
			AccessLevel:   3,
			CanEditStatus: true,
		},
	}

	// Một id hỏng là cả batch bị từ chối
	_, err := s.ApplyShareBatchUpdate(context.Background(), link, map[string]map[string]interface{}{
		primitive.NewObjectID().Hex(): {"statusCode": "done"},
		"khong-phai-id":               {"statusCode": "done"},
	})
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrInvalidFormat) {
		t.Errorf("muốn ErrInvalidFormat, nhận: %v", err)
	}

	// Một entry vi phạm permission là cả batch bị từ chối, kể cả entry hợp lệ
	_, err = s.ApplyShareBatchUpdate(context.Background(), link, map[string]map[string]interface{}{
		primitive.NewObjectID().Hex(): {"statusCode": "done"},
		primitive.NewObjectID().Hex(): {"title": "đổi tên"},
	})
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrPermissionDenied) {
		t.Errorf("muốn ErrPermissionDenied, nhận: %v", err)
	}
}
