package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status trạng thái task của một company (mỗi company tự cấu hình bộ trạng thái riêng)
type Status struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"companyId" bson:"companyId" index:"compound:company_code:1"`
	Code      string             `json:"code" bson:"code" index:"compound:company_code:1"`
	Name      string             `json:"name" bson:"name"`
	Color     string             `json:"color,omitempty" bson:"color,omitempty"`
	Order     int                `json:"order" bson:"order"`
	IsDone    bool               `json:"isDone" bson:"isDone"` // Trạng thái hoàn thành (mỗi company có đúng một status IsDone)

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// StatusSnapshot bản chụp status nhúng vào link chia sẻ tại thời điểm tạo link,
// để guest nhìn thấy đúng bộ trạng thái lúc chia sẻ kể cả khi company đổi cấu hình sau đó
type StatusSnapshot struct {
	Code   string `json:"code" bson:"code"`
	Name   string `json:"name" bson:"name"`
	Color  string `json:"color,omitempty" bson:"color,omitempty"`
	Order  int    `json:"order" bson:"order"`
	IsDone bool   `json:"isDone" bson:"isDone"`
}
