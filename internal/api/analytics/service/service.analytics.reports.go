// Package analyticssvc - Reporting/Query Layer: đọc dải daily report và tổng hợp
// cho dashboard range view và export PDF/CSV.
package analyticssvc

import (
	"context"
	"time"

	analyticsdto "coffee_share/internal/api/analytics/dto"
	analyticsmodels "coffee_share/internal/api/analytics/models"
	"coffee_share/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Các window được hỗ trợ cho GetReportsData.
const (
	RangeDay     = 1
	RangeWeek    = 7
	RangeMonth   = 28
	RangeAllTime = -1 // sentinel "all time"
)

// IsSupportedRange kiểm tra rangeDays thuộc tập window cố định.
func IsSupportedRange(rangeDays int) bool {
	switch rangeDays {
	case RangeDay, RangeWeek, RangeMonth, RangeAllTime:
		return true
	}
	return false
}

// GetReportsData đọc TOÀN BỘ daily report của partner trong một lần scan
// (tránh yêu cầu composite index), lọc client-side theo window bằng so sánh
// chuỗi day key ISO, rồi tổng hợp: tổng scans/earnings/beans, union các
// unique-customer set, gộp histogram để tính peak hour mức window.
// Kết quả sort theo dayKey tăng dần trước khi bucket hóa.
func (s *AnalyticsService) GetReportsData(ctx context.Context, partnerID string, rangeDays int) (*analyticsdto.ReportsData, error) {
	if !IsSupportedRange(rangeDays) {
		return nil, common.NewError(common.ErrCodeValidationInput, "Window không được hỗ trợ", common.StatusBadRequest, rangeDays)
	}

	loc, err := reportLocation()
	if err != nil {
		return nil, err
	}
	now := time.Now().In(loc)

	opts := options.Find().SetSort(bson.D{{Key: "dayKey", Value: 1}})
	cursor, err := s.dailyColl.Find(ctx, bson.M{"partnerId": partnerID}, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var all []analyticsmodels.PartnerDailyReport
	if err := cursor.All(ctx, &all); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	// Lọc theo window: day key ISO so sánh chuỗi giữ nguyên thứ tự thời gian
	reports := all
	if rangeDays != RangeAllTime {
		fromKey := DayKeyFromTime(now.AddDate(0, 0, -(rangeDays - 1)))
		reports = make([]analyticsmodels.PartnerDailyReport, 0, len(all))
		for _, r := range all {
			if r.DayKey >= fromKey {
				reports = append(reports, r)
			}
		}
	}
	if reports == nil {
		reports = []analyticsmodels.PartnerDailyReport{}
	}

	out := &analyticsdto.ReportsData{
		RangeDays:    rangeDays,
		DailyReports: reports,
	}

	// Tổng hợp mức window
	uniqueSet := make(map[string]struct{})
	windowHistogram := map[string]int64{}
	var totalEarningsBani int64
	for _, r := range reports {
		out.TotalScans += r.ScansCount
		out.TotalBeansUsed += r.TotalBeansUsed
		totalEarningsBani += r.TotalEarningsBani
		for _, c := range r.UniqueCustomers {
			uniqueSet[c] = struct{}{}
		}
		windowHistogram = MergeHistograms(windowHistogram, r.HourlyHistogram)
	}
	out.TotalEarningsRON = analyticsdto.BaniToRON(totalEarningsBani)
	out.UniqueCustomers = int64(len(uniqueSet))
	if hour, ok := PeakHour(windowHistogram); ok {
		out.PeakHour = FormatHourLabel(hour)
	}

	// Trung bình theo ngày: chia cho số ngày có report (window hữu hạn thì chia
	// cho độ dài window)
	divisor := int64(len(reports))
	if rangeDays != RangeAllTime {
		divisor = int64(rangeDays)
	}
	if divisor < 1 {
		divisor = 1
	}
	out.AverageScansPerDay = float64(out.TotalScans) / float64(divisor)
	out.AverageEarningsPerDayRON = analyticsdto.BaniToRON(totalEarningsBani / divisor)

	// Bucket hóa để hiển thị — hàm thuần của danh sách đã sort + window selector
	out.Buckets = BuildBuckets(reports, rangeDays, now)

	return out, nil
}
