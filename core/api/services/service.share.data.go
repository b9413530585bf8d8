package services

import (
	"context"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShareDataService implement share.DataStore trên MongoDB.
// Mọi truy vấn đều lọc cứng theo companyId; projection user giới hạn ở resolver.
type ShareDataService struct {
	companies *BaseServiceMongoImpl[models.Company]
	tasks     *BaseServiceMongoImpl[models.Task]
	statuses  *BaseServiceMongoImpl[models.Status]
	brands    *BaseServiceMongoImpl[models.Brand]
	users     *BaseServiceMongoImpl[models.User]
	navItems  *BaseServiceMongoImpl[models.NavigationItem]
}

// NewShareDataService tạo data store cho resolver từ registry collections
func NewShareDataService() (*ShareDataService, error) {
	companyCol, err := getCollection(global.MongoDB_ColNames.Companies)
	if err != nil {
		return nil, err
	}
	taskCol, err := getCollection(global.MongoDB_ColNames.Tasks)
	if err != nil {
		return nil, err
	}
	statusCol, err := getCollection(global.MongoDB_ColNames.Statuses)
	if err != nil {
		return nil, err
	}
	brandCol, err := getCollection(global.MongoDB_ColNames.Brands)
	if err != nil {
		return nil, err
	}
	userCol, err := getCollection(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	navCol, err := getCollection(global.MongoDB_ColNames.NavigationItems)
	if err != nil {
		return nil, err
	}

	return &ShareDataService{
		companies: NewBaseServiceMongo[models.Company](companyCol),
		tasks:     NewBaseServiceMongo[models.Task](taskCol),
		statuses:  NewBaseServiceMongo[models.Status](statusCol),
		brands:    NewBaseServiceMongo[models.Brand](brandCol),
		users:     NewBaseServiceMongo[models.User](userCol),
		navItems:  NewBaseServiceMongo[models.NavigationItem](navCol),
	}, nil
}

func (s *ShareDataService) GetCompany(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	company, err := s.companies.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *ShareDataService) GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *ShareDataService) ListTasks(ctx context.Context, companyID primitive.ObjectID, brandIDs []primitive.ObjectID) ([]models.Task, error) {
	filter := bson.M{"companyId": companyID}
	if len(brandIDs) > 0 {
		filter["brandId"] = bson.M{"$in": brandIDs}
	}
	opts := options.Find().SetSort(bson.D{{Key: "lastActivity", Value: -1}})
	return s.tasks.Find(ctx, filter, opts)
}

func (s *ShareDataService) ListStatuses(ctx context.Context, companyID primitive.ObjectID) ([]models.Status, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	return s.statuses.Find(ctx, bson.M{"companyId": companyID}, opts)
}

func (s *ShareDataService) ListBrands(ctx context.Context, companyID primitive.ObjectID, brandIDs []primitive.ObjectID) ([]models.Brand, error) {
	filter := bson.M{"companyId": companyID}
	if len(brandIDs) > 0 {
		filter["_id"] = bson.M{"$in": brandIDs}
	}
	return s.brands.Find(ctx, filter, nil)
}

func (s *ShareDataService) ListMembers(ctx context.Context, companyID primitive.ObjectID) ([]models.User, error) {
	return s.users.Find(ctx, bson.M{"companyId": companyID, "isBlock": false}, nil)
}

func (s *ShareDataService) ListNavItems(ctx context.Context) ([]models.NavigationItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	return s.navItems.Find(ctx, bson.M{}, opts)
}
