// Package analyticssvc - Test bucket hóa daily report theo từng window.
package analyticssvc

import (
	"testing"
	"time"

	analyticsmodels "coffee_share/internal/api/analytics/models"

	"github.com/stretchr/testify/assert"
)

// fixedNow: Chủ nhật 15/03/2026, giữa trưa. Location cố định để test ổn định.
var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func dailyReport(dayKey string, scans int64, histogram map[string]int64) analyticsmodels.PartnerDailyReport {
	return analyticsmodels.PartnerDailyReport{
		ID:              analyticsmodels.DailyReportID("partner-1", dayKey),
		PartnerID:       "partner-1",
		DayKey:          dayKey,
		ScansCount:      scans,
		HourlyHistogram: histogram,
	}
}

func TestBuildBuckets_WindowKhongHoTro(t *testing.T) {
	out := BuildBuckets(nil, 13, fixedNow)
	assert.Empty(t, out, "window lạ phải trả về slice rỗng")
}

func TestBuildBuckets_BaGio(t *testing.T) {
	reports := []analyticsmodels.PartnerDailyReport{
		// Ngày cũ hơn — phải bị bỏ qua, chỉ dùng ngày gần nhất
		dailyReport("2026-03-14", 100, map[string]int64{"10": 100}),
		dailyReport("2026-03-15", 7, map[string]int64{"7": 2, "8": 3, "14": 1, "23": 1}),
	}

	out := BuildBuckets(reports, RangeDay, fixedNow)
	assert.Len(t, out, 8, "window 1 ngày phải có đúng 8 bucket 3 giờ")

	assert.Equal(t, "00:00", out[0].Label)
	assert.Equal(t, "03:00", out[1].Label)
	assert.Equal(t, "21:00", out[7].Label)

	assert.Equal(t, int64(5), out[2].Value, "bucket 06:00 gộp giờ 6,7,8")
	assert.Equal(t, int64(1), out[4].Value, "bucket 12:00 gộp giờ 12,13,14")
	assert.Equal(t, int64(1), out[7].Value, "bucket 21:00 gộp giờ 21,22,23")
	assert.Equal(t, int64(0), out[0].Value)
}

func TestBuildBuckets_BaGio_KhongCoReport(t *testing.T) {
	out := BuildBuckets(nil, RangeDay, fixedNow)
	assert.Len(t, out, 8)
	for _, p := range out {
		assert.Equal(t, int64(0), p.Value, "không có report thì mọi bucket = 0")
	}
}

func TestBuildBuckets_TheoNgay(t *testing.T) {
	reports := []analyticsmodels.PartnerDailyReport{
		dailyReport("2026-03-10", 3, nil), // Thứ ba
		dailyReport("2026-03-15", 5, nil), // Chủ nhật (hôm nay)
	}

	out := BuildBuckets(reports, RangeWeek, fixedNow)
	assert.Len(t, out, 7, "window 7 ngày phải có đúng 7 điểm, ngày trống vẫn hiện")

	assert.Equal(t, "Mon", out[0].Label, "điểm đầu là 6 ngày trước (thứ hai 09/03)")
	assert.Equal(t, "Sun", out[6].Label, "điểm cuối là hôm nay")

	assert.Equal(t, int64(3), out[1].Value, "thứ ba 10/03")
	assert.Equal(t, int64(5), out[6].Value, "chủ nhật 15/03")
	assert.Equal(t, int64(0), out[3].Value, "ngày không có report → 0")
}

// Bất biến của bucket tuần: tổng 4 giá trị == tổng scans của toàn window 28 ngày.
func TestBuildBuckets_TheoTuan_BaoToanTong(t *testing.T) {
	reports := []analyticsmodels.PartnerDailyReport{
		dailyReport("2026-02-16", 2, nil), // 27 ngày trước → Week 1
		dailyReport("2026-02-25", 4, nil), // Week 2
		dailyReport("2026-03-03", 8, nil), // Week 3
		dailyReport("2026-03-09", 16, nil), // 6 ngày trước → Week 4
		dailyReport("2026-03-15", 32, nil), // Hôm nay → Week 4
	}

	out := BuildBuckets(reports, RangeMonth, fixedNow)
	assert.Len(t, out, 4)
	assert.Equal(t, "Week 1", out[0].Label)
	assert.Equal(t, "Week 4", out[3].Label)

	assert.Equal(t, int64(2), out[0].Value)
	assert.Equal(t, int64(4), out[1].Value)
	assert.Equal(t, int64(8), out[2].Value)
	assert.Equal(t, int64(48), out[3].Value, "Week 4 là 7 ngày gần nhất")

	var total, want int64
	for _, p := range out {
		total += p.Value
	}
	for _, r := range reports {
		want += r.ScansCount
	}
	assert.Equal(t, want, total, "tổng 4 bucket phải bằng tổng scans của window")
}

func TestBuildBuckets_TheoTuan_BoQuaNgoaiWindow(t *testing.T) {
	reports := []analyticsmodels.PartnerDailyReport{
		dailyReport("2026-02-01", 99, nil), // Quá 27 ngày — ngoài window
		dailyReport("2026-03-15", 1, nil),
	}

	out := BuildBuckets(reports, RangeMonth, fixedNow)
	var total int64
	for _, p := range out {
		total += p.Value
	}
	assert.Equal(t, int64(1), total, "report ngoài window 28 ngày không được đếm")
}

func TestBuildBuckets_TheoThang(t *testing.T) {
	reports := []analyticsmodels.PartnerDailyReport{
		dailyReport("2026-01-10", 3, nil),
		dailyReport("2026-01-25", 4, nil),
		dailyReport("2026-03-01", 9, nil),
	}

	out := BuildBuckets(reports, RangeAllTime, fixedNow)
	assert.Len(t, out, 2, "tháng không có report không tạo bucket")
	assert.Equal(t, "Jan 2026", out[0].Label)
	assert.Equal(t, int64(7), out[0].Value, "2 report cùng tháng gộp lại")
	assert.Equal(t, "Mar 2026", out[1].Label)
	assert.Equal(t, int64(9), out[1].Value)
}

func TestBuildBuckets_TheoThang_ToiDa12Bucket(t *testing.T) {
	var reports []analyticsmodels.PartnerDailyReport
	// 15 tháng liên tiếp, mỗi tháng một report — chỉ giữ 12 tháng gần nhất
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		day := start.AddDate(0, i, 0)
		reports = append(reports, dailyReport(day.Format("2006-01-02"), 1, nil))
	}

	out := BuildBuckets(reports, RangeAllTime, fixedNow)
	assert.Len(t, out, 12)
	assert.Equal(t, "Apr 2025", out[0].Label, "3 tháng cũ nhất bị cắt")
	assert.Equal(t, "Mar 2026", out[11].Label)
}
