// Package models - PartnerAnalyticsProfile thuộc domain Analytics.
package models

// PartnerAnalyticsProfile là aggregate trọn đời của một partner (partner_analytics_profiles).
// _id = partnerId. Tạo lazy ở lần scan đầu tiên, không bao giờ reset.
// Các counter chỉ tăng (monotonic) — bất biến: TotalScans bằng tổng ScansCount
// của tất cả daily report thuộc partner đó.
type PartnerAnalyticsProfile struct {
	ID                string `json:"id,omitempty" bson:"_id,omitempty"` // = partnerId
	TotalScans        int64  `json:"totalScans" bson:"totalScans"`
	TotalBeansUsed    int64  `json:"totalBeansUsed" bson:"totalBeansUsed"`
	TotalEarningsBani int64  `json:"totalEarningsBani" bson:"totalEarningsBani"` // Bani (RON/100)
	FirstScanAt       int64  `json:"firstScanAt" bson:"firstScanAt"`             // Unix seconds, 0 = chưa có scan nào
	LastScanAt        int64  `json:"lastScanAt" bson:"lastScanAt"`               // Unix seconds
	UpdatedAt         int64  `json:"updatedAt" bson:"updatedAt"`                 // Unix seconds
}
