package services

import (
	"context"
	"errors"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PermissionSettingsService quản lý ma trận quyền theo company
type PermissionSettingsService struct {
	*BaseServiceMongoImpl[models.PermissionSettings]
}

// NewPermissionSettingsService tạo service, lấy collection từ registry
func NewPermissionSettingsService() (*PermissionSettingsService, error) {
	col, err := getCollection(global.MongoDB_ColNames.PermissionSettings)
	if err != nil {
		return nil, err
	}
	return &PermissionSettingsService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.PermissionSettings](col),
	}, nil
}

// GetForCompany trả về ma trận quyền của company.
// Company chưa cấu hình thì trả về bộ mặc định cứng, không trả lỗi.
func (s *PermissionSettingsService) GetForCompany(ctx context.Context, companyID primitive.ObjectID) (map[string]models.RoleCapabilities, error) {
	settings, err := s.FindOne(ctx, bson.M{"companyId": companyID})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.DefaultPermissionSettings(), nil
		}
		return nil, err
	}
	if len(settings.Roles) == 0 {
		return models.DefaultPermissionSettings(), nil
	}
	return settings.Roles, nil
}

// CapabilitiesFor trả về quyền của một role trong company.
// Super Admin luôn full quyền bất kể cấu hình.
func (s *PermissionSettingsService) CapabilitiesFor(ctx context.Context, companyID primitive.ObjectID, role string) (models.RoleCapabilities, error) {
	if role == models.RoleSuperAdmin {
		return models.RoleCapabilities{
			CanManageUsers:   true,
			CanManageTasks:   true,
			CanManageShares:  true,
			CanViewReports:   true,
			CanManageCompany: true,
		}, nil
	}

	roles, err := s.GetForCompany(ctx, companyID)
	if err != nil {
		return models.RoleCapabilities{}, err
	}
	return roles[role], nil
}
