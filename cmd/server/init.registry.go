package main

import (
	"coffee_share/config"
	"coffee_share/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func InitRegistry() {
	logrus.Info("Initialized registry")

	// Khởi tạo registry và đăng ký các collections
	err := InitCollections(global.MongoDB_Session, global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections khởi tạo và đăng ký các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	colNames := []string{
		// Collection của engine analytics
		global.MongoDB_ColNames.ScanEvents,
		global.MongoDB_ColNames.PartnerDailyReports,
		global.MongoDB_ColNames.PartnerProfiles,
		global.MongoDB_ColNames.GlobalStatistics,
		global.MongoDB_ColNames.DailyStatistics,
		// Collection nguồn (chỉ đọc)
		global.MongoDB_ColNames.Users,
		global.MongoDB_ColNames.Partners,
		global.MongoDB_ColNames.Customers,
		global.MongoDB_ColNames.Cafes,
		global.MongoDB_ColNames.Products,
		global.MongoDB_ColNames.Transactions,
		global.MongoDB_ColNames.Subscriptions,
		global.MongoDB_ColNames.Carts,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Errorf("Collection %s already registered", name)
		}
	}

	return nil
}
