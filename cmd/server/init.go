package main

import (
	"context"

	"coffee_share/config"
	"coffee_share/internal/database"
	"coffee_share/internal/global"
	"coffee_share/internal/utility"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initConfig()           // Khởi tạo cấu hình server
	initValidator()        // Khởi tạo validator
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initFirebase()         // Khởi tạo Firebase
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	// Collection của engine analytics (service này sở hữu và ghi)
	global.MongoDB_ColNames.ScanEvents = "scan_events"
	global.MongoDB_ColNames.PartnerDailyReports = "partner_daily_reports"
	global.MongoDB_ColNames.PartnerProfiles = "partner_analytics_profiles"
	global.MongoDB_ColNames.GlobalStatistics = "global_statistics"
	global.MongoDB_ColNames.DailyStatistics = "daily_statistics"

	// Collection nguồn (service khác sở hữu — ở đây chỉ đọc)
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Partners = "partners"
	global.MongoDB_ColNames.Customers = "customers"
	global.MongoDB_ColNames.Cafes = "cafes"
	global.MongoDB_ColNames.Products = "products"
	global.MongoDB_ColNames.Transactions = "transactions"
	global.MongoDB_ColNames.Subscriptions = "subscriptions"
	global.MongoDB_ColNames.Carts = "carts"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, day_key, exists)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Index của engine analytics — idempotent, chạy mỗi lần boot
	db := global.MongoDB_Session.Database(global.ServerConfig.MongoDB_DBName)
	if err := database.CreateAnalyticsIndexes(context.TODO(), db); err != nil {
		logrus.Errorf("Failed to create analytics indexes: %v", err)
	} else {
		logrus.Info("Ensured analytics indexes")
	}
}

// initFirebase khởi tạo Firebase Admin SDK (tùy chọn - chỉ dùng cho
// xác thực partner ở report header)
func initFirebase() {
	cfg := global.ServerConfig

	if cfg.FirebaseProjectID == "" || cfg.FirebaseCredentialsPath == "" {
		logrus.Warn("Firebase config không đầy đủ, bỏ qua khởi tạo Firebase")
		return
	}

	err := utility.InitFirebase(cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath)
	if err != nil {
		logrus.Errorf("Failed to initialize Firebase: %v", err)
		// Không fatal, hệ thống vẫn chạy được — chỉ mất cross-check verified
		return
	}

	logrus.Info("Firebase initialized successfully")
}
