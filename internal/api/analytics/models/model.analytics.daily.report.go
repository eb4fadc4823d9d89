// Package models - PartnerDailyReport thuộc domain Analytics.
package models

// PartnerDailyReport là aggregate theo partner theo ngày (partner_daily_reports).
// _id = "<partnerId>_<dayKey>". Tạo ở lần scan đầu tiên trong ngày, cập nhật bởi
// mọi scan tiếp theo cùng ngày, không bao giờ xóa (dữ liệu lịch sử).
//
// Bất biến: tổng các giá trị trong HourlyHistogram luôn bằng ScansCount, và
// ScansCount bằng số ScanEvent có cùng partner+day key.
type PartnerDailyReport struct {
	ID                string           `json:"id,omitempty" bson:"_id,omitempty"` // "<partnerId>_<dayKey>"
	PartnerID         string           `json:"partnerId" bson:"partnerId"`
	DayKey            string           `json:"dayKey" bson:"dayKey"` // YYYY-MM-DD
	ScansCount        int64            `json:"scansCount" bson:"scansCount"`
	TotalBeansUsed    int64            `json:"totalBeansUsed" bson:"totalBeansUsed"`
	TotalEarningsBani int64            `json:"totalEarningsBani" bson:"totalEarningsBani"` // Bani (RON/100), tránh drift của float
	UniqueCustomers   []string         `json:"uniqueCustomers" bson:"uniqueCustomers"`     // Set — union idempotent khi replay
	HourlyHistogram   map[string]int64 `json:"hourlyHistogram" bson:"hourlyHistogram"`     // Key "0".."23" → số scan trong giờ đó
	FirstScanAt       int64            `json:"firstScanAt" bson:"firstScanAt"`             // Unix seconds
	LastScanAt        int64            `json:"lastScanAt" bson:"lastScanAt"`               // Unix seconds
	UpdatedAt         int64            `json:"updatedAt" bson:"updatedAt"`                 // Unix seconds
}

// DailyReportID ghép _id của daily report từ partner và day key.
func DailyReportID(partnerID, dayKey string) string {
	return partnerID + "_" + dayKey
}
