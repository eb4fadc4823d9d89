// Package analyticssvc - các quy tắc cập nhật aggregate thuần túy, không I/O.
// Event Recorder áp dụng chúng bên trong transaction; test gọi trực tiếp.
package analyticssvc

import (
	"fmt"
	"sort"
	"strconv"

	analyticsmodels "coffee_share/internal/api/analytics/models"
)

// DeriveEarningsBani quy đổi beans sang bani (RON/100).
// Số học int64 thuần — tránh drift của float khi cộng dồn nhiều lần.
func DeriveEarningsBani(beans, rateBaniPerBean int64) int64 {
	return beans * rateBaniPerBean
}

// BumpHistogram tăng bucket của giờ `hour` lên 1, tạo bucket = 1 nếu chưa có.
// Trả về map mới, không sửa map đầu vào.
func BumpHistogram(histogram map[string]int64, hour int) map[string]int64 {
	out := make(map[string]int64, len(histogram)+1)
	for k, v := range histogram {
		out[k] = v
	}
	out[strconv.Itoa(hour)]++
	return out
}

// UnionCustomer thêm id vào set nếu chưa có (semantics set — replay idempotent).
// Trả về slice mới, không sửa slice đầu vào.
func UnionCustomer(set []string, id string) []string {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	return append(out, id)
}

// HistogramSum trả về tổng các giá trị trong histogram.
// Bất biến conservation: với daily report hợp lệ, HistogramSum == ScansCount.
func HistogramSum(histogram map[string]int64) int64 {
	var sum int64
	for _, v := range histogram {
		sum += v
	}
	return sum
}

// MergeHistograms cộng dồn src vào bản sao của dst. Dùng khi gộp histogram
// của nhiều daily report thành histogram mức window.
func MergeHistograms(dst, src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] += v
	}
	return out
}

// PeakHour chọn bucket có count lớn nhất; hòa thì lấy giờ nhỏ nhất (deterministic).
// ok = false khi histogram rỗng.
func PeakHour(histogram map[string]int64) (hour int, ok bool) {
	if len(histogram) == 0 {
		return 0, false
	}
	hours := make([]int, 0, len(histogram))
	for k := range histogram {
		h, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		return 0, false
	}
	sort.Ints(hours)

	best := hours[0]
	bestCount := histogram[strconv.Itoa(best)]
	for _, h := range hours[1:] {
		if c := histogram[strconv.Itoa(h)]; c > bestCount {
			best = h
			bestCount = c
		}
	}
	return best, true
}

// FormatHourLabel định dạng giờ thành nhãn hiển thị "08:00".
func FormatHourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ApplyScanToDailyReport áp một scan event lên daily report.
// report = nil nghĩa là chưa có report cho partner+day đó: tạo mới với event
// là contributor duy nhất. Hàm thuần — trả về bản ghi mới, không sửa đầu vào.
func ApplyScanToDailyReport(report *analyticsmodels.PartnerDailyReport, event analyticsmodels.ScanEvent, hour int) *analyticsmodels.PartnerDailyReport {
	if report == nil {
		return &analyticsmodels.PartnerDailyReport{
			ID:                analyticsmodels.DailyReportID(event.PartnerID, event.DayKey),
			PartnerID:         event.PartnerID,
			DayKey:            event.DayKey,
			ScansCount:        1,
			TotalBeansUsed:    event.Beans,
			TotalEarningsBani: event.EarningsBani,
			UniqueCustomers:   []string{event.CustomerID},
			HourlyHistogram:   BumpHistogram(nil, hour),
			FirstScanAt:       event.ScannedAt,
			LastScanAt:        event.ScannedAt,
			UpdatedAt:         event.ScannedAt,
		}
	}

	updated := *report
	updated.ScansCount++
	updated.TotalBeansUsed += event.Beans
	updated.TotalEarningsBani += event.EarningsBani
	updated.UniqueCustomers = UnionCustomer(report.UniqueCustomers, event.CustomerID)
	updated.HourlyHistogram = BumpHistogram(report.HourlyHistogram, hour)
	if updated.FirstScanAt == 0 || event.ScannedAt < updated.FirstScanAt {
		updated.FirstScanAt = event.ScannedAt
	}
	if event.ScannedAt > updated.LastScanAt {
		updated.LastScanAt = event.ScannedAt
	}
	updated.UpdatedAt = event.ScannedAt
	return &updated
}

// ApplyScanToProfile áp một scan event lên profile trọn đời của partner.
// profile = nil nghĩa là partner chưa có profile: tạo lazy. Counters chỉ tăng.
func ApplyScanToProfile(profile *analyticsmodels.PartnerAnalyticsProfile, event analyticsmodels.ScanEvent) *analyticsmodels.PartnerAnalyticsProfile {
	if profile == nil {
		return &analyticsmodels.PartnerAnalyticsProfile{
			ID:                event.PartnerID,
			TotalScans:        1,
			TotalBeansUsed:    event.Beans,
			TotalEarningsBani: event.EarningsBani,
			FirstScanAt:       event.ScannedAt,
			LastScanAt:        event.ScannedAt,
			UpdatedAt:         event.ScannedAt,
		}
	}

	updated := *profile
	updated.TotalScans++
	updated.TotalBeansUsed += event.Beans
	updated.TotalEarningsBani += event.EarningsBani
	if updated.FirstScanAt == 0 || event.ScannedAt < updated.FirstScanAt {
		updated.FirstScanAt = event.ScannedAt
	}
	if event.ScannedAt > updated.LastScanAt {
		updated.LastScanAt = event.ScannedAt
	}
	updated.UpdatedAt = event.ScannedAt
	return &updated
}
