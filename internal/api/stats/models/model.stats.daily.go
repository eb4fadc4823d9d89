// Package models - DailyStatistics thuộc domain Stats.
package models

// DailyStatistics là snapshot gọn theo ngày toàn hệ thống (daily_statistics).
// _id = dateKey (YYYY-MM-DD), ghi tối đa một lần mỗi ngày, suy ra từ
// GlobalStatistics tại thời điểm ghi. Dùng để dựng trend chart.
type DailyStatistics struct {
	ID               string `json:"id,omitempty" bson:"_id,omitempty"` // = DateKey
	DateKey          string `json:"dateKey" bson:"dateKey"`            // YYYY-MM-DD
	TotalUsers       int64  `json:"totalUsers" bson:"totalUsers"`
	TotalPartners    int64  `json:"totalPartners" bson:"totalPartners"`
	TotalCafes       int64  `json:"totalCafes" bson:"totalCafes"`
	ScansToday       int64  `json:"scansToday" bson:"scansToday"`
	RevenueTodayBani int64  `json:"revenueTodayBani" bson:"revenueTodayBani"`
	ActiveCarts      int64  `json:"activeCarts" bson:"activeCarts"`
	CreatedAt        int64  `json:"createdAt" bson:"createdAt"` // Unix seconds
}
