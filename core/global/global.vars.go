package global

import (
	"meta_task/config"
	"meta_task/core/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_ColNames_Struct chứa tên các collection trong database
type MongoDB_ColNames_Struct struct {
	Users              string
	Companies          string
	Brands             string
	Statuses           string
	Tasks              string
	SharedLinks        string
	NavigationItems    string
	Notifications      string
	PermissionSettings string
}

var (
	// MongoDB_ServerConfig cấu hình server, khởi tạo trong cmd/server
	MongoDB_ServerConfig *config.Configuration

	// MongoDB_Session kết nối MongoDB dùng chung toàn ứng dụng
	MongoDB_Session *mongo.Client

	// MongoDB_ColNames tên các collection, gán giá trị trong cmd/server/init.go
	MongoDB_ColNames MongoDB_ColNames_Struct

	// Validate validator dùng chung cho toàn bộ DTO
	Validate *validator.Validate

	// RegistryCollections registry các *mongo.Collection theo tên
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()
)

// InitValidator khởi tạo validator dùng chung
func InitValidator() {
	Validate = validator.New()
}

// GetColNamesList trả về danh sách tên tất cả collections (dùng cho ensure/registry)
func GetColNamesList() []string {
	return []string{
		MongoDB_ColNames.Users,
		MongoDB_ColNames.Companies,
		MongoDB_ColNames.Brands,
		MongoDB_ColNames.Statuses,
		MongoDB_ColNames.Tasks,
		MongoDB_ColNames.SharedLinks,
		MongoDB_ColNames.NavigationItems,
		MongoDB_ColNames.Notifications,
		MongoDB_ColNames.PermissionSettings,
	}
}
