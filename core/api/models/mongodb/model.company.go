package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company tenant của hệ thống, mọi dữ liệu nghiệp vụ đều scope theo CompanyID
type Company struct {
	ID      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name" index:"single:1"`
	OwnerID primitive.ObjectID `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Logo    string             `json:"logo,omitempty" bson:"logo,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
