// Package database - Index cho phân hệ analytics (compound, unique) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"coffee_share/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateAnalyticsIndexes tạo các index cho phân hệ analytics.
// Gọi một lần khi khởi động server, sau khi đăng ký collections.
func CreateAnalyticsIndexes(ctx context.Context, db *mongo.Database) error {
	// scan_events: (partnerId, dayKey) — đếm sự kiện theo partner+day (kiểm tra conservation)
	scanEvents := db.Collection(global.MongoDB_ColNames.ScanEvents)
	if _, err := scanEvents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "partnerId", Value: 1},
			{Key: "dayKey", Value: 1},
		},
		Options: options.Index().SetName("scan_event_partner_day"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// scan_events: scannedAt — truy vấn activity theo khoảng thời gian của aggregator
	if _, err := scanEvents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "scannedAt", Value: 1}},
		Options: options.Index().SetName("scan_event_scanned_at"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// partner_daily_reports: (partnerId, dayKey) unique — một report cho mỗi partner mỗi ngày
	dailyReports := db.Collection(global.MongoDB_ColNames.PartnerDailyReports)
	if _, err := dailyReports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "partnerId", Value: 1},
			{Key: "dayKey", Value: 1},
		},
		Options: options.Index().SetName("daily_report_partner_day_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// daily_statistics: dateKey unique — tối đa một snapshot mỗi ngày
	dailyStats := db.Collection(global.MongoDB_ColNames.DailyStatistics)
	if _, err := dailyStats.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "dateKey", Value: 1}},
		Options: options.Index().SetName("daily_statistics_date_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// transactions: createdAt — đếm giao dịch và tổng amountBani theo today/week/month
	transactions := db.Collection(global.MongoDB_ColNames.Transactions)
	if _, err := transactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("transaction_created_at"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
