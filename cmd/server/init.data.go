package main

import (
	"meta_task/core/api/services"
	"meta_task/core/global"
	"meta_task/core/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := services.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// 1. Khởi tạo các navigation item mặc định (idempotent, chỉ tạo item chưa có)
	log.Info("🔄 [INIT] Step 1: Initializing navigation items...")
	if err := initService.InitNavigationItems(); err != nil {
		log.Fatalf("Failed to initialize navigation items: %v", err)
	}
	log.Info("✅ [INIT] Step 1: Navigation items initialized")

	// 2. Tạo user admin tự động từ Firebase UID (nếu có config) - Tùy chọn
	// Lưu ý: User phải đã tồn tại trong Firebase Authentication
	// Nếu không có FIREBASE_ADMIN_UID, user đầu tiên login sẽ tự động trở thành Super Admin
	if global.MongoDB_ServerConfig.FirebaseAdminUID != "" {
		log.Info("🔄 [INIT] Step 2: Initializing admin user from Firebase UID...")
		if err := initService.InitAdminUser(global.MongoDB_ServerConfig.FirebaseAdminUID); err != nil {
			log.Warnf("Failed to initialize admin user from Firebase UID: %v", err)
			log.Info("User đầu tiên login sẽ tự động trở thành Super Admin")
		} else {
			log.Info("✅ [INIT] Step 2: Admin user initialized successfully from Firebase UID")
		}
	} else {
		log.Info("FIREBASE_ADMIN_UID not set")
		log.Info("User đầu tiên login sẽ tự động trở thành Super Admin (First user becomes admin)")
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
