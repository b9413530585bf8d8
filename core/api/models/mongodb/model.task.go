package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại activity trên task
const (
	ActivityTypeCreated       = "created"
	ActivityTypeStatusChanged = "status_changed"
	ActivityTypeFieldChanged  = "field_changed"
	ActivityTypeCompleted     = "completed"
	ActivityTypeComment       = "comment"
)

// Activity một dòng lịch sử thao tác trên task.
// ActorID rỗng khi thao tác đến từ link chia sẻ, khi đó ActorRole mang sharedAsRole của link.
type Activity struct {
	Type      string             `json:"type" bson:"type"`
	ActorID   primitive.ObjectID `json:"actorId,omitempty" bson:"actorId,omitempty"`
	ActorRole string             `json:"actorRole,omitempty" bson:"actorRole,omitempty"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}

// Task công việc trong một company
type Task struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID   primitive.ObjectID `json:"companyId" bson:"companyId" index:"compound:company_status:1"`
	BrandID     primitive.ObjectID `json:"brandId,omitempty" bson:"brandId,omitempty" index:"single:1"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`

	AssigneeIDs []primitive.ObjectID `json:"assigneeIds" bson:"assigneeIds"`
	StatusCode  string               `json:"statusCode" bson:"statusCode" index:"compound:company_status:1"`
	Priority    string               `json:"priority" bson:"priority"` // low, medium, high, urgent

	DueDate              *int64 `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	ActualCompletionDate *int64 `json:"actualCompletionDate,omitempty" bson:"actualCompletionDate,omitempty"`

	Activities   []Activity `json:"activities" bson:"activities"`
	LastActivity int64      `json:"lastActivity" bson:"lastActivity" index:"single:-1"`

	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy" index:"single:1"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsAssignee kiểm tra user có nằm trong danh sách assignee của task không
func (t *Task) IsAssignee(userID primitive.ObjectID) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
