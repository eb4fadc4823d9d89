// Package analyticsdto - các cấu trúc request/response của domain Analytics.
package analyticsdto

import (
	analyticsmodels "coffee_share/internal/api/analytics/models"
)

// RecordScanInput là input của Event Recorder (một lần quét QR tại quán).
// Beans phải > 0 — bị từ chối trước mọi thao tác ghi.
type RecordScanInput struct {
	PartnerID  string `json:"partnerId" validate:"required,no_xss"`
	CafeID     string `json:"cafeId" validate:"required,no_xss"`
	CustomerID string `json:"customerId" validate:"required,no_xss"`
	Beans      int64  `json:"beans" validate:"required,gt=0"`
	ScannedAt  int64  `json:"scannedAt,omitempty"` // Unix seconds; 0 = thời điểm hiện tại trên server
}

// PartnerHeader là phần header của report, lấy từ collaborator danh tính.
// Chỉ để hiển thị — không tham gia logic tổng hợp.
type PartnerHeader struct {
	PartnerID   string `json:"partnerId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Verified    bool   `json:"verified"`
}

// DashboardStats là response của GET /analytics/dashboard.
// Khi hôm nay chưa có scan nào, các field Today* đều bằng 0 (không phải lỗi).
type DashboardStats struct {
	TodayScans           int64   `json:"todayScans"`
	TodayBeansUsed       int64   `json:"todayBeansUsed"`
	TodayEarningsRON     float64 `json:"todayEarningsRON"`
	TodayUniqueCustomers int64   `json:"todayUniqueCustomers"`

	TotalScans       int64   `json:"totalScans"`
	TotalBeansUsed   int64   `json:"totalBeansUsed"`
	TotalEarningsRON float64 `json:"totalEarningsRON"`

	PeakHour                 string  `json:"peakHour"` // "08:00", rỗng nếu hôm nay chưa có scan
	AverageEarningsPerDayRON float64 `json:"averageEarningsPerDayRON"`

	FirstScanAt int64 `json:"firstScanAt"` // Unix seconds, 0 = chưa có scan nào
	LastScanAt  int64 `json:"lastScanAt"`
}

// ChartPoint là một điểm trên chart sau khi bucket hóa.
type ChartPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// ReportsData là response của GET /analytics/reports và là input duy nhất
// của các renderer PDF/CSV (hợp đồng export).
type ReportsData struct {
	Header    *PartnerHeader `json:"header,omitempty"` // Gắn bởi handler từ collaborator danh tính
	RangeDays int            `json:"rangeDays"`        // 1 | 7 | 28 | -1 (all time)

	DailyReports []analyticsmodels.PartnerDailyReport `json:"dailyReports"` // Sort theo dayKey tăng dần

	TotalScans       int64   `json:"totalScans"`
	TotalBeansUsed   int64   `json:"totalBeansUsed"`
	TotalEarningsRON float64 `json:"totalEarningsRON"`
	UniqueCustomers  int64   `json:"uniqueCustomers"` // Union các set theo ngày trong window

	PeakHour string `json:"peakHour"` // Peak của histogram gộp mức window

	AverageScansPerDay       float64 `json:"averageScansPerDay"`
	AverageEarningsPerDayRON float64 `json:"averageEarningsPerDayRON"`

	Buckets []ChartPoint `json:"buckets"` // Chuỗi hiển thị theo chính sách bucket của window
}

// BaniToRON quy đổi bani (int64) sang RON cho DTO. Chỉ dùng ở edge hiển thị;
// mọi số học bên trong đều là bani.
func BaniToRON(bani int64) float64 {
	return float64(bani) / 100
}
