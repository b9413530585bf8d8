package services

import (
	"context"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/global"
	"meta_task/core/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanyService quản lý tenant: tạo company kèm bộ dữ liệu mặc định
type CompanyService struct {
	*BaseServiceMongoImpl[models.Company]
	statusService     *BaseServiceMongoImpl[models.Status]
	permissionService *PermissionSettingsService
}

// NewCompanyService tạo company service, lấy các collection từ registry
func NewCompanyService() (*CompanyService, error) {
	companyCol, err := getCollection(global.MongoDB_ColNames.Companies)
	if err != nil {
		return nil, err
	}
	statusCol, err := getCollection(global.MongoDB_ColNames.Statuses)
	if err != nil {
		return nil, err
	}
	permissionService, err := NewPermissionSettingsService()
	if err != nil {
		return nil, err
	}
	return &CompanyService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Company](companyCol),
		statusService:        NewBaseServiceMongo[models.Status](statusCol),
		permissionService:    permissionService,
	}, nil
}

// defaultStatuses bộ trạng thái mặc định cho company mới.
// Mỗi company có đúng một status isDone, CompleteTask dựa vào đó.
func defaultStatuses(companyID primitive.ObjectID) []models.Status {
	return []models.Status{
		{CompanyID: companyID, Code: "todo", Name: "Cần làm", Color: "#9e9e9e", Order: 1},
		{CompanyID: companyID, Code: "doing", Name: "Đang làm", Color: "#2196f3", Order: 2},
		{CompanyID: companyID, Code: "review", Name: "Chờ duyệt", Color: "#ff9800", Order: 3},
		{CompanyID: companyID, Code: "done", Name: "Hoàn thành", Color: "#4caf50", Order: 4, IsDone: true},
	}
}

// CreateCompany tạo company mới kèm bộ status mặc định và ma trận quyền mặc định.
// Các bước seed là best-effort sau khi company đã tạo: lỗi seed được log,
// GetForCompany có fallback cứng nên hệ thống vẫn hoạt động.
func (s *CompanyService) CreateCompany(ctx context.Context, company models.Company) (*models.Company, error) {
	if company.Name == "" {
		return nil, common.ErrRequiredField.WithDetails("name không được để trống")
	}

	created, err := s.InsertOne(ctx, company)
	if err != nil {
		return nil, err
	}

	log := logger.WithModule("company").WithField("companyId", created.ID.Hex())
	for _, status := range defaultStatuses(created.ID) {
		if _, err := s.statusService.InsertOne(ctx, status); err != nil {
			log.WithError(err).WithField("statusCode", status.Code).
				Warn("Seed status mặc định thất bại")
		}
	}

	_, err = s.permissionService.InsertOne(ctx, models.PermissionSettings{
		CompanyID: created.ID,
		Roles:     models.DefaultPermissionSettings(),
	})
	if err != nil {
		log.WithError(err).Warn("Seed permission settings mặc định thất bại")
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"companyId": created.ID.Hex(),
		"name":      created.Name,
	}).Info("Đã tạo company mới")
	return &created, nil
}
