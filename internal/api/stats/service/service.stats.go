// Package statssvc là Global Aggregator: quét các collection nguồn để tính lại
// snapshot thống kê toàn hệ thống. Mỗi section được tính độc lập — một nguồn
// hỏng chỉ làm section đó về 0, không bao giờ làm hỏng toàn bộ recompute.
package statssvc

import (
	"fmt"
	"sync"
	"time"

	analyticssvc "coffee_share/internal/api/analytics/service"
	"coffee_share/internal/common"
	"coffee_share/internal/global"
	"coffee_share/internal/notification"

	"go.mongodb.org/mongo-driver/mongo"
)

// StatsService tính lại và đọc snapshot GlobalStatistics / DailyStatistics.
type StatsService struct {
	globalColl *mongo.Collection
	dailyColl  *mongo.Collection

	// Collection nguồn — aggregator CHỈ đọc, không bao giờ ghi vào đây.
	eventColl        *mongo.Collection // scan_events
	userColl         *mongo.Collection // users (legacy, chứa lẫn mọi role)
	partnerColl      *mongo.Collection // partners (canonical)
	customerColl     *mongo.Collection // customers (canonical)
	cafeColl         *mongo.Collection
	productColl      *mongo.Collection
	transactionColl  *mongo.Collection
	subscriptionColl *mongo.Collection
	cartColl         *mongo.Collection

	alertMailer     *notification.AlertMailer
	alertFailStreak int

	mu         sync.Mutex
	failStreak int // Số lần recompute thất bại liên tiếp (ghi snapshot lỗi)
}

// NewStatsService tạo mới StatsService. Hai collection đích (global_statistics,
// daily_statistics) là bắt buộc; collection nguồn thiếu thì section tương ứng
// sẽ về 0 khi tính (nguồn vắng mặt là trạng thái hợp lệ, xem resolveCount).
func NewStatsService() (*StatsService, error) {
	globalColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.GlobalStatistics)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.GlobalStatistics, common.ErrNotFound)
	}
	dailyColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.DailyStatistics)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.DailyStatistics, common.ErrNotFound)
	}

	svc := &StatsService{
		globalColl:       globalColl,
		dailyColl:        dailyColl,
		eventColl:        optionalCollection(global.MongoDB_ColNames.ScanEvents),
		userColl:         optionalCollection(global.MongoDB_ColNames.Users),
		partnerColl:      optionalCollection(global.MongoDB_ColNames.Partners),
		customerColl:     optionalCollection(global.MongoDB_ColNames.Customers),
		cafeColl:         optionalCollection(global.MongoDB_ColNames.Cafes),
		productColl:      optionalCollection(global.MongoDB_ColNames.Products),
		transactionColl:  optionalCollection(global.MongoDB_ColNames.Transactions),
		subscriptionColl: optionalCollection(global.MongoDB_ColNames.Subscriptions),
		cartColl:         optionalCollection(global.MongoDB_ColNames.Carts),
	}

	if global.ServerConfig != nil {
		svc.alertMailer = notification.NewAlertMailer(global.ServerConfig)
		svc.alertFailStreak = global.ServerConfig.AlertFailStreak
	}

	return svc, nil
}

// optionalCollection lấy collection từ registry, nil nếu chưa đăng ký.
func optionalCollection(name string) *mongo.Collection {
	coll, ok := global.RegistryCollections.Get(name)
	if !ok {
		return nil
	}
	return coll
}

// statsLocation trả về *time.Location chuẩn của nền tảng (trùng với analytics).
func statsLocation() *time.Location {
	loc, err := time.LoadLocation(analyticssvc.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
