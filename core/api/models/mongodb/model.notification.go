package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại notification
const (
	NotificationTypeTaskCompleted = "task_completed"
	NotificationTypeTaskAssigned  = "task_assigned"
	NotificationTypeRoleChanged   = "role_changed"
)

// Notification thông báo in-app cho một user
type Notification struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID primitive.ObjectID `json:"userId" bson:"userId" index:"compound:user_read:1"`
	Type   string             `json:"type" bson:"type"`
	Title  string             `json:"title" bson:"title"`
	Body   string             `json:"body,omitempty" bson:"body,omitempty"`
	TaskID primitive.ObjectID `json:"taskId,omitempty" bson:"taskId,omitempty"`
	IsRead bool               `json:"isRead" bson:"isRead" index:"compound:user_read:1"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
