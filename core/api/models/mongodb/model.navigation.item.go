package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NavigationItem một mục trong sidebar của frontend.
// Roles liệt kê các role được thấy mục này; path bắt đầu bằng /admin không bao giờ
// lọt vào session chia sẻ bất kể cấu hình.
type NavigationItem struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Code  string             `json:"code" bson:"code" index:"unique"`
	Title string             `json:"title" bson:"title"`
	Path  string             `json:"path" bson:"path"`
	Icon  string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Order int                `json:"order" bson:"order"`
	Roles []string           `json:"roles" bson:"roles"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
