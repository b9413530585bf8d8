package database

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"meta_task/core/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureDatabaseAndCollections tạo database và các collections nếu chưa tồn tại
func EnsureDatabaseAndCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := client.Database(dbName)

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		logrus.Errorf("Failed to list collections: %v", err)
		return
	}

	existingSet := make(map[string]bool, len(existing))
	for _, name := range existing {
		existingSet[name] = true
	}

	for _, name := range global.GetColNamesList() {
		if name == "" || existingSet[name] {
			continue
		}
		if err := db.CreateCollection(ctx, name); err != nil {
			logrus.Errorf("Failed to create collection %s: %v", name, err)
			continue
		}
		logrus.Infof("Created collection %s", name)
	}
}

// indexSpec mô tả một index được khai báo qua struct tag `index`
type indexSpec struct {
	keys   bson.D
	unique bool
	sparse bool
	ttl    int32 // giây, > 0 nghĩa là TTL index
}

// CreateIndexes đọc struct tag `index` trên model và tạo các index tương ứng.
// Tag hỗ trợ các dạng (phân cách bằng dấu chấm phẩy):
//   - index:"single:1"              -> index đơn tăng dần
//   - index:"single:-1"             -> index đơn giảm dần
//   - index:"unique"                -> unique index (kết hợp được với sparse)
//   - index:"unique;sparse"         -> unique + sparse (cho field optional)
//   - index:"ttl:3600"              -> TTL index theo giây
//   - index:"compound:group_name:1" -> index nhiều field cùng group_name
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	var specs []indexSpec
	compounds := make(map[string]*indexSpec)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("index")
		if tag == "" {
			continue
		}

		bsonName := bsonFieldName(field)
		if bsonName == "" || bsonName == "-" {
			continue
		}

		spec := indexSpec{}
		isCompound := false
		for _, part := range strings.Split(tag, ";") {
			part = strings.TrimSpace(part)
			switch {
			case part == "unique":
				spec.unique = true
				spec.keys = append(spec.keys, bson.E{Key: bsonName, Value: 1})
			case part == "sparse":
				spec.sparse = true
			case strings.HasPrefix(part, "single:"):
				order := 1
				if v, err := strconv.Atoi(strings.TrimPrefix(part, "single:")); err == nil {
					order = v
				}
				spec.keys = append(spec.keys, bson.E{Key: bsonName, Value: order})
			case strings.HasPrefix(part, "ttl:"):
				if v, err := strconv.Atoi(strings.TrimPrefix(part, "ttl:")); err == nil {
					spec.ttl = int32(v)
					spec.keys = append(spec.keys, bson.E{Key: bsonName, Value: 1})
				}
			case strings.HasPrefix(part, "compound:"):
				// compound:group:order
				pieces := strings.Split(part, ":")
				if len(pieces) != 3 {
					continue
				}
				group := pieces[1]
				order, err := strconv.Atoi(pieces[2])
				if err != nil {
					continue
				}
				cs, ok := compounds[group]
				if !ok {
					cs = &indexSpec{}
					compounds[group] = cs
				}
				cs.keys = append(cs.keys, bson.E{Key: bsonName, Value: order})
				isCompound = true
			}
		}

		if !isCompound && len(spec.keys) > 0 {
			specs = append(specs, spec)
		}
	}

	for _, cs := range compounds {
		specs = append(specs, *cs)
	}

	for _, spec := range specs {
		opts := options.Index()
		if spec.unique {
			opts.SetUnique(true)
		}
		if spec.sparse {
			opts.SetSparse(true)
		}
		if spec.ttl > 0 {
			opts.SetExpireAfterSeconds(spec.ttl)
		}

		_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    spec.keys,
			Options: opts,
		})
		if err != nil {
			// Index đã tồn tại với options khác -> log warning, không fatal
			logrus.Warnf("Failed to create index on %s (%v): %v", collection.Name(), spec.keys, err)
		}
	}
}

// bsonFieldName lấy tên field trong bson tag, bỏ các options như omitempty
func bsonFieldName(field reflect.StructField) string {
	bsonTag := field.Tag.Get("bson")
	if bsonTag == "" {
		return strings.ToLower(field.Name)
	}
	name := strings.Split(bsonTag, ",")[0]
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return name
}

// CollectionName helper build tên đầy đủ db.collection (dùng cho log)
func CollectionName(dbName, colName string) string {
	return fmt.Sprintf("%s.%s", dbName, colName)
}
