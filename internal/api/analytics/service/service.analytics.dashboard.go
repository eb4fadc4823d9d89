// Package analyticssvc - Dashboard stats: số liệu hôm nay + lũy kế cho màn hình partner.
package analyticssvc

import (
	"context"
	"math"
	"time"

	analyticsdto "coffee_share/internal/api/analytics/dto"
	analyticsmodels "coffee_share/internal/api/analytics/models"
	"coffee_share/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetDashboardStats đọc daily report hôm nay + profile trọn đời của partner.
// Hôm nay chưa có report → các field Today* bằng 0, KHÔNG phải lỗi.
func (s *AnalyticsService) GetDashboardStats(ctx context.Context, partnerID string) (*analyticsdto.DashboardStats, error) {
	loc, err := reportLocation()
	if err != nil {
		return nil, err
	}
	now := time.Now().In(loc)
	todayKey := DayKeyFromTime(now)

	out := &analyticsdto.DashboardStats{}

	// Daily report hôm nay (absent = zeros)
	var report analyticsmodels.PartnerDailyReport
	err = s.dailyColl.FindOne(ctx, bson.M{"_id": analyticsmodels.DailyReportID(partnerID, todayKey)}).Decode(&report)
	switch {
	case err == nil:
		out.TodayScans = report.ScansCount
		out.TodayBeansUsed = report.TotalBeansUsed
		out.TodayEarningsRON = analyticsdto.BaniToRON(report.TotalEarningsBani)
		out.TodayUniqueCustomers = int64(len(report.UniqueCustomers))
		if hour, ok := PeakHour(report.HourlyHistogram); ok {
			out.PeakHour = FormatHourLabel(hour)
		}
	case err == mongo.ErrNoDocuments:
		// zeros
	default:
		return nil, common.ConvertMongoError(err)
	}

	// Profile trọn đời (absent = partner chưa từng có scan)
	var profile analyticsmodels.PartnerAnalyticsProfile
	err = s.profileColl.FindOne(ctx, bson.M{"_id": partnerID}).Decode(&profile)
	switch {
	case err == nil:
		out.TotalScans = profile.TotalScans
		out.TotalBeansUsed = profile.TotalBeansUsed
		out.TotalEarningsRON = analyticsdto.BaniToRON(profile.TotalEarningsBani)
		out.FirstScanAt = profile.FirstScanAt
		out.LastScanAt = profile.LastScanAt
		out.AverageEarningsPerDayRON = analyticsdto.BaniToRON(
			averagePerDayBani(profile.TotalEarningsBani, profile.FirstScanAt, now.Unix()))
	case err == mongo.ErrNoDocuments:
		// zeros
	default:
		return nil, common.ConvertMongoError(err)
	}

	return out, nil
}

// DaysSinceFirstScan tính số ngày từ firstScanAt đến now (unix seconds),
// làm tròn lên, floor = 1 để không chia cho 0.
func DaysSinceFirstScan(firstScanAt, nowUnix int64) int64 {
	if firstScanAt <= 0 || nowUnix <= firstScanAt {
		return 1
	}
	days := int64(math.Ceil(float64(nowUnix-firstScanAt) / 86400.0))
	if days < 1 {
		return 1
	}
	return days
}

// averagePerDayBani chia tổng bani cho số ngày hoạt động (floor 1).
func averagePerDayBani(totalBani, firstScanAt, nowUnix int64) int64 {
	return totalBani / DaysSinceFirstScan(firstScanAt, nowUnix)
}
