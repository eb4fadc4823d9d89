// Package analyticssvc chứa engine tổng hợp analytics giao dịch: ghi nhận scan
// trong transaction, cập nhật daily report + profile trọn đời, và truy vấn
// dashboard / reports cho partner.
package analyticssvc

import (
	"fmt"
	"time"

	"coffee_share/internal/common"
	"coffee_share/internal/global"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReportTimezone là múi giờ chuẩn để tính day key và hour bucket.
// Toàn bộ nền tảng hoạt động ở Romania.
const ReportTimezone = "Europe/Bucharest"

// AnalyticsService xử lý ghi nhận scan và truy vấn aggregate theo partner.
type AnalyticsService struct {
	client       *mongo.Client
	eventColl    *mongo.Collection
	dailyColl    *mongo.Collection
	profileColl  *mongo.Collection
	rateBaniBean int64 // Tỷ giá bani/bean, chốt vào event tại thời điểm ghi
}

// NewAnalyticsService tạo mới AnalyticsService.
func NewAnalyticsService() (*AnalyticsService, error) {
	eventColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.ScanEvents)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.ScanEvents, common.ErrNotFound)
	}
	dailyColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.PartnerDailyReports)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.PartnerDailyReports, common.ErrNotFound)
	}
	profileColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.PartnerProfiles)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.PartnerProfiles, common.ErrNotFound)
	}
	return &AnalyticsService{
		client:       global.MongoDB_Session,
		eventColl:    eventColl,
		dailyColl:    dailyColl,
		profileColl:  profileColl,
		rateBaniBean: global.ServerConfig.RateBaniPerBean,
	}, nil
}

// reportLocation trả về *time.Location của ReportTimezone.
func reportLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", ReportTimezone, err)
	}
	return loc, nil
}

// DayKeyFromTime tính day key YYYY-MM-DD từ thời điểm t (đã In(loc)).
func DayKeyFromTime(t time.Time) string {
	return t.Format("2006-01-02")
}
