package services

import (
	"context"
	"reflect"
	"time"

	"meta_task/core/common"
	"meta_task/core/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// =========================================
// UPDATE DATA
// =========================================

// UpdateData gom các toán tử update của MongoDB vào một struct để service
// không phải tự build bson.M lồng nhau
type UpdateData struct {
	Set   bson.M
	Unset bson.M
	Push  bson.M
}

// ToUpdateDoc chuyển UpdateData thành document update cho mongo-driver
func (u *UpdateData) ToUpdateDoc() bson.M {
	doc := bson.M{}
	if len(u.Set) > 0 {
		doc["$set"] = u.Set
	}
	if len(u.Unset) > 0 {
		doc["$unset"] = u.Unset
	}
	if len(u.Push) > 0 {
		doc["$push"] = u.Push
	}
	return doc
}

// =========================================
// BASE SERVICE
// =========================================

// BaseServiceMongo định nghĩa các thao tác CRUD cơ bản trên một collection.
// Type parameter Model là kiểu document của collection.
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	FindOne(ctx context.Context, filter interface{}) (Model, error)
	FindOneById(ctx context.Context, id interface{}) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	UpdateOne(ctx context.Context, filter interface{}, update *UpdateData) (Model, error)
	UpdateById(ctx context.Context, id interface{}, update *UpdateData) (Model, error)
	UpdateMany(ctx context.Context, filter interface{}, update *UpdateData) (int64, error)
	DeleteById(ctx context.Context, id interface{}) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Upsert(ctx context.Context, filter interface{}, update *UpdateData) (Model, error)
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)
	Collection() *mongo.Collection
}

// BaseServiceMongoImpl implementation mặc định của BaseServiceMongo
type BaseServiceMongoImpl[Model any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo tạo base service trên một collection
func NewBaseServiceMongo[Model any](collection *mongo.Collection) *BaseServiceMongoImpl[Model] {
	return &BaseServiceMongoImpl[Model]{collection: collection}
}

// Collection trả về collection gốc cho các truy vấn đặc thù
func (s *BaseServiceMongoImpl[Model]) Collection() *mongo.Collection {
	return s.collection
}

// InsertOne thêm một document, tự gán createdAt/updatedAt (UnixMilli).
// Các trường string rỗng bị loại khỏi document để không đụng sparse unique index.
func (s *BaseServiceMongoImpl[Model]) InsertOne(ctx context.Context, data Model) (Model, error) {
	var zero Model

	doc, err := toInsertDoc(data)
	if err != nil {
		return zero, common.ErrInvalidInput.WithError(err)
	}

	now := time.Now().UnixMilli()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	// Đọc lại document vừa tạo để trả về đầy đủ (kèm _id và timestamps)
	var created Model
	err = s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return created, nil
}

// FindOne tìm một document theo filter
func (s *BaseServiceMongoImpl[Model]) FindOne(ctx context.Context, filter interface{}) (Model, error) {
	var result Model
	err := s.collection.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// FindOneById tìm một document theo _id
func (s *BaseServiceMongoImpl[Model]) FindOneById(ctx context.Context, id interface{}) (Model, error) {
	return s.FindOne(ctx, bson.M{"_id": id})
}

// Find tìm nhiều documents theo filter
func (s *BaseServiceMongoImpl[Model]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error) {
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := make([]Model, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// UpdateOne cập nhật một document theo filter và trả về document sau cập nhật
func (s *BaseServiceMongoImpl[Model]) UpdateOne(ctx context.Context, filter interface{}, update *UpdateData) (Model, error) {
	var zero Model
	if update == nil {
		return zero, common.ErrInvalidInput
	}

	if update.Set == nil {
		update.Set = bson.M{}
	}
	update.Set["updatedAt"] = time.Now().UnixMilli()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result Model
	err := s.collection.FindOneAndUpdate(ctx, filter, update.ToUpdateDoc(), opts).Decode(&result)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// UpdateById cập nhật một document theo _id
func (s *BaseServiceMongoImpl[Model]) UpdateById(ctx context.Context, id interface{}, update *UpdateData) (Model, error) {
	return s.UpdateOne(ctx, bson.M{"_id": id}, update)
}

// UpdateMany cập nhật nhiều documents, trả về số documents đã sửa
func (s *BaseServiceMongoImpl[Model]) UpdateMany(ctx context.Context, filter interface{}, update *UpdateData) (int64, error) {
	if update == nil {
		return 0, common.ErrInvalidInput
	}

	if update.Set == nil {
		update.Set = bson.M{}
	}
	update.Set["updatedAt"] = time.Now().UnixMilli()

	result, err := s.collection.UpdateMany(ctx, filter, update.ToUpdateDoc())
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

// DeleteById xóa một document theo _id
func (s *BaseServiceMongoImpl[Model]) DeleteById(ctx context.Context, id interface{}) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountDocuments đếm documents theo filter
func (s *BaseServiceMongoImpl[Model]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// Upsert cập nhật hoặc tạo mới document theo filter
func (s *BaseServiceMongoImpl[Model]) Upsert(ctx context.Context, filter interface{}, update *UpdateData) (Model, error) {
	var zero Model
	if update == nil {
		return zero, common.ErrInvalidInput
	}

	now := time.Now().UnixMilli()
	if update.Set == nil {
		update.Set = bson.M{}
	}
	update.Set["updatedAt"] = now

	doc := update.ToUpdateDoc()
	doc["$setOnInsert"] = bson.M{"createdAt": now}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)
	var result Model
	err := s.collection.FindOneAndUpdate(ctx, filter, doc, opts).Decode(&result)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// DocumentExists kiểm tra document có tồn tại theo filter không
func (s *BaseServiceMongoImpl[Model]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return count > 0, nil
}

// =========================================
// HELPERS
// =========================================

// toInsertDoc chuyển model thành bson.M và loại bỏ các trường string rỗng
// (để sparse unique index không coi chuỗi rỗng là giá trị trùng)
func toInsertDoc(data interface{}) (bson.M, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	for key, value := range doc {
		if str, ok := value.(string); ok && str == "" {
			delete(doc, key)
		}
	}
	// _id zero value để Mongo tự sinh
	if id, ok := doc["_id"]; ok {
		if reflect.ValueOf(id).IsZero() {
			delete(doc, "_id")
		}
	}
	return doc, nil
}

// getCollection lấy collection từ registry, đăng ký lazy nếu chưa có
func getCollection(name string) (*mongo.Collection, error) {
	return global.RegistryCollections.GetOrCreate(name, func() (*mongo.Collection, error) {
		if global.MongoDB_Session == nil || global.MongoDB_ServerConfig == nil {
			return nil, common.NewError(common.ErrCodeServiceInit, "MongoDB session chưa được khởi tạo", common.StatusInternalServerError, nil)
		}
		db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
		return db.Collection(name), nil
	})
}
