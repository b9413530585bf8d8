package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Brand nhãn hàng trong một company, dùng để scope task và link chia sẻ
type Brand struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"companyId" bson:"companyId" index:"single:1"`
	Name      string             `json:"name" bson:"name"`
	Color     string             `json:"color,omitempty" bson:"color,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
