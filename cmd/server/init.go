package main

import (
	"context"

	"meta_task/config"
	models "meta_task/core/api/models/mongodb"
	"meta_task/core/database"
	"meta_task/core/global"
	"meta_task/core/utility"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initFirebase()         // Khởi tạo Firebase
}

// Hàm khởi tạo tên các collection trong database (prefix "task_" để nhất quán)
func initColNames() {
	global.MongoDB_ColNames.Users = "task_users"
	global.MongoDB_ColNames.Companies = "task_companies"
	global.MongoDB_ColNames.Brands = "task_brands"
	global.MongoDB_ColNames.Statuses = "task_statuses"
	global.MongoDB_ColNames.Tasks = "task_items"
	global.MongoDB_ColNames.SharedLinks = "task_shared_links"
	global.MongoDB_ColNames.NavigationItems = "task_navigation_items"
	global.MongoDB_ColNames.Notifications = "task_notifications"
	global.MongoDB_ColNames.PermissionSettings = "task_permission_settings"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo db và collections nếu chưa có
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), models.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Companies), models.Company{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Brands), models.Brand{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Statuses), models.Status{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Tasks), models.Task{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.SharedLinks), models.SharedLink{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.NavigationItems), models.NavigationItem{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Notifications), models.Notification{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.PermissionSettings), models.PermissionSettings{})
}

// initFirebase khởi tạo Firebase Admin SDK
func initFirebase() {
	cfg := global.MongoDB_ServerConfig

	// Kiểm tra Firebase config có đầy đủ không
	if cfg.FirebaseProjectID == "" || cfg.FirebaseCredentialsPath == "" {
		logrus.Warn("Firebase config không đầy đủ, bỏ qua khởi tạo Firebase")
		return
	}

	err := utility.InitFirebase(cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath)
	if err != nil {
		logrus.Errorf("Failed to initialize Firebase: %v", err)
		// Không fatal, hệ thống vẫn chạy được nhưng login/claims sẽ lỗi
		return
	}

	logrus.Info("Firebase initialized successfully")
}
