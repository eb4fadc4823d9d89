// Package analyticssvc - Test các quy tắc cập nhật aggregate thuần túy.
package analyticssvc

import (
	"testing"

	analyticsmodels "coffee_share/internal/api/analytics/models"
)

func scanEvent(customerID string, beans, earningsBani, scannedAt int64) analyticsmodels.ScanEvent {
	return analyticsmodels.ScanEvent{
		PartnerID:    "partner-1",
		CafeID:       "cafe-1",
		CustomerID:   customerID,
		Beans:        beans,
		EarningsBani: earningsBani,
		ScannedAt:    scannedAt,
		DayKey:       "2026-03-15",
	}
}

func TestDeriveEarningsBani(t *testing.T) {
	if got := DeriveEarningsBani(3, 50); got != 150 {
		t.Errorf("DeriveEarningsBani(3, 50) = %d, muốn 150", got)
	}
	if got := DeriveEarningsBani(0, 50); got != 0 {
		t.Errorf("DeriveEarningsBani(0, 50) = %d, muốn 0", got)
	}
}

func TestBumpHistogram_KhongSuaMapDauVao(t *testing.T) {
	in := map[string]int64{"8": 2}
	out := BumpHistogram(in, 8)
	if out["8"] != 3 {
		t.Errorf("bucket 8 sau bump = %d, muốn 3", out["8"])
	}
	if in["8"] != 2 {
		t.Errorf("map đầu vào bị sửa: bucket 8 = %d, muốn giữ nguyên 2", in["8"])
	}
	// nil map → tạo bucket mới
	out = BumpHistogram(nil, 14)
	if out["14"] != 1 {
		t.Errorf("bump trên nil map: bucket 14 = %d, muốn 1", out["14"])
	}
}

func TestUnionCustomer_Idempotent(t *testing.T) {
	set := UnionCustomer(nil, "cust-a")
	set = UnionCustomer(set, "cust-b")
	if len(set) != 2 {
		t.Fatalf("set sau 2 lần thêm khác nhau có %d phần tử, muốn 2", len(set))
	}

	// Thêm lại id đã có — set không đổi (replay vô hại)
	again := UnionCustomer(set, "cust-a")
	if len(again) != 2 {
		t.Errorf("thêm lại id đã có: set có %d phần tử, muốn 2", len(again))
	}
}

func TestHistogramSum(t *testing.T) {
	if got := HistogramSum(nil); got != 0 {
		t.Errorf("HistogramSum(nil) = %d, muốn 0", got)
	}
	if got := HistogramSum(map[string]int64{"0": 1, "9": 3, "23": 2}); got != 6 {
		t.Errorf("HistogramSum = %d, muốn 6", got)
	}
}

func TestMergeHistograms(t *testing.T) {
	dst := map[string]int64{"8": 2, "9": 1}
	src := map[string]int64{"9": 4, "14": 1}
	out := MergeHistograms(dst, src)
	if out["8"] != 2 || out["9"] != 5 || out["14"] != 1 {
		t.Errorf("merge sai: %v", out)
	}
	if dst["9"] != 1 {
		t.Errorf("map dst bị sửa: bucket 9 = %d, muốn giữ nguyên 1", dst["9"])
	}
}

func TestPeakHour_HoaThiLayGioNhoNhat(t *testing.T) {
	// 9 và 14 cùng count — phải chọn 9 (deterministic)
	hour, ok := PeakHour(map[string]int64{"9": 5, "14": 5, "20": 1})
	if !ok {
		t.Fatal("PeakHour trả về ok=false với histogram không rỗng")
	}
	if hour != 9 {
		t.Errorf("PeakHour hòa = %d, muốn 9 (giờ nhỏ nhất)", hour)
	}
}

func TestPeakHour_HistogramRong(t *testing.T) {
	if _, ok := PeakHour(nil); ok {
		t.Error("PeakHour(nil) phải trả về ok=false")
	}
	if _, ok := PeakHour(map[string]int64{}); ok {
		t.Error("PeakHour(map rỗng) phải trả về ok=false")
	}
}

func TestFormatHourLabel(t *testing.T) {
	if got := FormatHourLabel(8); got != "08:00" {
		t.Errorf("FormatHourLabel(8) = %q, muốn \"08:00\"", got)
	}
	if got := FormatHourLabel(21); got != "21:00" {
		t.Errorf("FormatHourLabel(21) = %q, muốn \"21:00\"", got)
	}
}

func TestApplyScanToDailyReport_TaoMoiKhiChuaCo(t *testing.T) {
	event := scanEvent("cust-a", 2, 100, 1760000000)
	report := ApplyScanToDailyReport(nil, event, 8)

	if report.ID != "partner-1_2026-03-15" {
		t.Errorf("ID = %q, muốn \"partner-1_2026-03-15\"", report.ID)
	}
	if report.ScansCount != 1 || report.TotalBeansUsed != 2 || report.TotalEarningsBani != 100 {
		t.Errorf("counters tạo mới sai: scans=%d beans=%d bani=%d",
			report.ScansCount, report.TotalBeansUsed, report.TotalEarningsBani)
	}
	if len(report.UniqueCustomers) != 1 || report.UniqueCustomers[0] != "cust-a" {
		t.Errorf("UniqueCustomers = %v, muốn [cust-a]", report.UniqueCustomers)
	}
	if report.HourlyHistogram["8"] != 1 {
		t.Errorf("histogram bucket 8 = %d, muốn 1", report.HourlyHistogram["8"])
	}
	if report.FirstScanAt != event.ScannedAt || report.LastScanAt != event.ScannedAt {
		t.Errorf("first/last = %d/%d, muốn cả hai = %d",
			report.FirstScanAt, report.LastScanAt, event.ScannedAt)
	}
}

// Bất biến conservation: sau chuỗi scan bất kỳ, tổng histogram == ScansCount
// và beans/bani cộng dồn đúng.
func TestApplyScanToDailyReport_Conservation(t *testing.T) {
	events := []struct {
		customer string
		beans    int64
		bani     int64
		hour     int
	}{
		{"cust-a", 1, 50, 8},
		{"cust-b", 2, 100, 8},
		{"cust-a", 3, 150, 14},
		{"cust-c", 1, 50, 20},
	}

	var report *analyticsmodels.PartnerDailyReport
	ts := int64(1760000000)
	for _, e := range events {
		report = ApplyScanToDailyReport(report, scanEvent(e.customer, e.beans, e.bani, ts), e.hour)
		ts += 60
	}

	if report.ScansCount != 4 {
		t.Errorf("ScansCount = %d, muốn 4", report.ScansCount)
	}
	if sum := HistogramSum(report.HourlyHistogram); sum != report.ScansCount {
		t.Errorf("tổng histogram (%d) != ScansCount (%d)", sum, report.ScansCount)
	}
	if report.TotalBeansUsed != 7 || report.TotalEarningsBani != 350 {
		t.Errorf("beans=%d bani=%d, muốn 7/350", report.TotalBeansUsed, report.TotalEarningsBani)
	}
	if len(report.UniqueCustomers) != 3 {
		t.Errorf("UniqueCustomers có %d phần tử, muốn 3 (cust-a chỉ đếm 1 lần)", len(report.UniqueCustomers))
	}
}

func TestApplyScanToDailyReport_KhongSuaDauVao(t *testing.T) {
	original := ApplyScanToDailyReport(nil, scanEvent("cust-a", 1, 50, 1760000000), 8)
	snapshotScans := original.ScansCount

	_ = ApplyScanToDailyReport(original, scanEvent("cust-b", 1, 50, 1760000060), 9)
	if original.ScansCount != snapshotScans {
		t.Errorf("report đầu vào bị sửa: ScansCount = %d, muốn %d", original.ScansCount, snapshotScans)
	}
	if original.HourlyHistogram["9"] != 0 {
		t.Errorf("histogram đầu vào bị sửa: bucket 9 = %d", original.HourlyHistogram["9"])
	}
}

// Event đến muộn (scannedAt cũ hơn FirstScanAt) vẫn phải kéo FirstScanAt lùi lại.
func TestApplyScanToDailyReport_EventDenMuon(t *testing.T) {
	report := ApplyScanToDailyReport(nil, scanEvent("cust-a", 1, 50, 1760000000), 8)
	report = ApplyScanToDailyReport(report, scanEvent("cust-b", 1, 50, 1759990000), 6)

	if report.FirstScanAt != 1759990000 {
		t.Errorf("FirstScanAt = %d, muốn 1759990000 (event muộn có timestamp cũ hơn)", report.FirstScanAt)
	}
	if report.LastScanAt != 1760000000 {
		t.Errorf("LastScanAt = %d, muốn giữ 1760000000", report.LastScanAt)
	}
}

func TestApplyScanToProfile_CounterChiTang(t *testing.T) {
	profile := ApplyScanToProfile(nil, scanEvent("cust-a", 2, 100, 1760000000))
	if profile.ID != "partner-1" {
		t.Errorf("ID = %q, muốn \"partner-1\"", profile.ID)
	}
	if profile.TotalScans != 1 || profile.TotalBeansUsed != 2 || profile.TotalEarningsBani != 100 {
		t.Errorf("profile tạo mới sai: scans=%d beans=%d bani=%d",
			profile.TotalScans, profile.TotalBeansUsed, profile.TotalEarningsBani)
	}

	next := ApplyScanToProfile(profile, scanEvent("cust-b", 3, 150, 1760000060))
	if next.TotalScans != 2 || next.TotalBeansUsed != 5 || next.TotalEarningsBani != 250 {
		t.Errorf("profile sau scan thứ hai: scans=%d beans=%d bani=%d, muốn 2/5/250",
			next.TotalScans, next.TotalBeansUsed, next.TotalEarningsBani)
	}
	if next.TotalScans < profile.TotalScans {
		t.Error("TotalScans giảm — counter trọn đời phải đơn điệu tăng")
	}
}
