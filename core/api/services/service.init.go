package services

import (
	"context"
	"errors"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/global"
	"meta_task/core/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// InitService khởi tạo dữ liệu mặc định cho hệ thống khi server start
type InitService struct {
	navService  *BaseServiceMongoImpl[models.NavigationItem]
	userService *UserService
}

// NewInitService tạo init service
func NewInitService() (*InitService, error) {
	navCol, err := getCollection(global.MongoDB_ColNames.NavigationItems)
	if err != nil {
		return nil, err
	}
	userService, err := NewUserService()
	if err != nil {
		return nil, err
	}
	return &InitService{
		navService:  NewBaseServiceMongo[models.NavigationItem](navCol),
		userService: userService,
	}, nil
}

// defaultNavItems bộ navigation mặc định của sản phẩm.
// Code là định danh ổn định dùng trong allowedNavItems của link chia sẻ.
func defaultNavItems() []models.NavigationItem {
	allRoles := []string{models.RoleSuperAdmin, models.RoleAdmin, models.RoleMember}
	withGuest := append([]string{models.RoleGuest}, allRoles...)

	return []models.NavigationItem{
		{Code: "board", Title: "Bảng công việc", Path: "/board", Icon: "kanban", Order: 1, Roles: withGuest},
		{Code: "tasks", Title: "Danh sách task", Path: "/tasks", Icon: "list", Order: 2, Roles: withGuest},
		{Code: "reports", Title: "Báo cáo", Path: "/reports", Icon: "chart", Order: 3, Roles: withGuest},
		{Code: "brands", Title: "Nhãn hàng", Path: "/brands", Icon: "tag", Order: 4, Roles: allRoles},
		{Code: "members", Title: "Thành viên", Path: "/admin/members", Icon: "users", Order: 5, Roles: []string{models.RoleSuperAdmin, models.RoleAdmin}},
		{Code: "settings", Title: "Cài đặt", Path: "/admin/settings", Icon: "gear", Order: 6, Roles: []string{models.RoleSuperAdmin, models.RoleAdmin}},
	}
}

// InitNavigationItems tạo các navigation item mặc định nếu chưa có (idempotent)
func (s *InitService) InitNavigationItems() error {
	ctx := context.Background()
	for _, item := range defaultNavItems() {
		exists, err := s.navService.DocumentExists(ctx, bson.M{"code": item.Code})
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := s.navService.InsertOne(ctx, item); err != nil {
			return err
		}
		logger.WithModule("init").Infof("Đã tạo navigation item mặc định: %s", item.Code)
	}
	return nil
}

// InitAdminUser gán role Super Admin cho user theo Firebase UID từ cấu hình.
// User phải đã tồn tại trên Firebase và đã đăng nhập ít nhất một lần.
func (s *InitService) InitAdminUser(firebaseUID string) error {
	ctx := context.Background()
	user, err := s.userService.FindOne(ctx, bson.M{"firebaseUid": firebaseUID})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			logger.WithModule("init").Warnf("Chưa có user với Firebase UID %s, user đầu tiên đăng nhập sẽ thành Super Admin", firebaseUID)
			return nil
		}
		return err
	}

	if user.Role == models.RoleSuperAdmin {
		return nil
	}
	_, err = s.userService.UpdateById(ctx, user.ID, &UpdateData{Set: bson.M{"role": models.RoleSuperAdmin}})
	return err
}
