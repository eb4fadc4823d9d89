// Package analyticssvc - bucket hóa chuỗi daily report thành các khoảng hiển thị
// (3 giờ / ngày / tuần / tháng). Thuần túy, không trạng thái ẩn — test độc lập.
package analyticssvc

import (
	"fmt"
	"time"

	analyticsdto "coffee_share/internal/api/analytics/dto"
	analyticsmodels "coffee_share/internal/api/analytics/models"
)

// BuildBuckets bucket hóa danh sách daily report (ĐÃ sort theo dayKey tăng dần)
// theo chính sách của từng window:
//   - 1 ngày: 8 bucket 3 giờ của ngày gần nhất trong range
//   - 7 ngày: một điểm mỗi ngày lịch, nhãn là thứ viết tắt
//   - 28 ngày: 4 bucket tuần đếm ngược từ cuối range, nhãn "Week N"
//   - all time: bucket theo tháng (year-month), giữ tối đa 12 bucket gần nhất
func BuildBuckets(reports []analyticsmodels.PartnerDailyReport, rangeDays int, now time.Time) []analyticsdto.ChartPoint {
	switch rangeDays {
	case RangeDay:
		return bucketByThreeHours(reports)
	case RangeWeek:
		return bucketByDay(reports, now)
	case RangeMonth:
		return bucketByWeek(reports, now)
	case RangeAllTime:
		return bucketByMonth(reports)
	}
	return []analyticsdto.ChartPoint{}
}

// bucketByThreeHours gộp histogram giờ của ngày gần nhất thành 8 bucket 3 giờ.
func bucketByThreeHours(reports []analyticsmodels.PartnerDailyReport) []analyticsdto.ChartPoint {
	out := make([]analyticsdto.ChartPoint, 0, 8)

	var histogram map[string]int64
	if len(reports) > 0 {
		// Danh sách đã sort tăng dần — phần tử cuối là ngày gần nhất trong range
		histogram = reports[len(reports)-1].HourlyHistogram
	}

	for b := 0; b < 8; b++ {
		start := b * 3
		var sum int64
		for h := start; h < start+3; h++ {
			sum += histogram[fmt.Sprintf("%d", h)]
		}
		out = append(out, analyticsdto.ChartPoint{
			Label: FormatHourLabel(start),
			Value: sum,
		})
	}
	return out
}

// bucketByDay tạo một điểm cho mỗi ngày lịch trong 7 ngày gần nhất.
// Ngày không có report vẫn có điểm với giá trị 0.
func bucketByDay(reports []analyticsmodels.PartnerDailyReport, now time.Time) []analyticsdto.ChartPoint {
	byDay := make(map[string]int64, len(reports))
	for _, r := range reports {
		byDay[r.DayKey] += r.ScansCount
	}

	out := make([]analyticsdto.ChartPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := DayKeyFromTime(day)
		out = append(out, analyticsdto.ChartPoint{
			Label: day.Weekday().String()[:3], // "Mon", "Tue", ...
			Value: byDay[key],
		})
	}
	return out
}

// bucketByWeek chia 28 ngày thành 4 bucket 7 ngày, đếm ngược từ cuối range.
// Week 4 là 7 ngày gần nhất; bất biến: tổng 4 giá trị == tổng scans của window.
func bucketByWeek(reports []analyticsmodels.PartnerDailyReport, now time.Time) []analyticsdto.ChartPoint {
	endDate := truncateToDate(now)

	values := make([]int64, 4)
	for _, r := range reports {
		day, err := time.ParseInLocation("2006-01-02", r.DayKey, now.Location())
		if err != nil {
			continue
		}
		daysFromEnd := int(endDate.Sub(truncateToDate(day)).Hours() / 24)
		if daysFromEnd < 0 || daysFromEnd > 27 {
			continue
		}
		// daysFromEnd 0..6 → Week 4 (index 3), 21..27 → Week 1 (index 0)
		values[3-daysFromEnd/7] += r.ScansCount
	}

	out := make([]analyticsdto.ChartPoint, 0, 4)
	for i := 0; i < 4; i++ {
		out = append(out, analyticsdto.ChartPoint{
			Label: fmt.Sprintf("Week %d", i+1),
			Value: values[i],
		})
	}
	return out
}

// bucketByMonth gộp theo year-month, giữ tối đa 12 bucket gần nhất để hiển thị.
func bucketByMonth(reports []analyticsmodels.PartnerDailyReport) []analyticsdto.ChartPoint {
	byMonth := make(map[string]int64)
	var monthKeys []string
	for _, r := range reports {
		if len(r.DayKey) < 7 {
			continue
		}
		key := r.DayKey[:7] // YYYY-MM
		if _, seen := byMonth[key]; !seen {
			// reports đã sort theo dayKey tăng dần nên monthKeys cũng tăng dần
			monthKeys = append(monthKeys, key)
		}
		byMonth[key] += r.ScansCount
	}

	if len(monthKeys) > 12 {
		monthKeys = monthKeys[len(monthKeys)-12:]
	}

	out := make([]analyticsdto.ChartPoint, 0, len(monthKeys))
	for _, key := range monthKeys {
		label := key
		if t, err := time.Parse("2006-01", key); err == nil {
			label = t.Format("Jan 2006") // "Mar 2026"
		}
		out = append(out, analyticsdto.ChartPoint{
			Label: label,
			Value: byMonth[key],
		})
	}
	return out
}

// truncateToDate cắt phần giờ/phút/giây, giữ nguyên location.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
