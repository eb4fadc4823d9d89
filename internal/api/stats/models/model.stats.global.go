// Package models - GlobalStatistics thuộc domain Stats.
package models

// GlobalStatisticsID là _id cố định của document singleton trong global_statistics.
const GlobalStatisticsID = "current"

// CafeStatusBreakdown đếm quán cà phê theo trạng thái duyệt.
type CafeStatusBreakdown struct {
	Active   int64 `json:"active" bson:"active"`
	Pending  int64 `json:"pending" bson:"pending"`
	Inactive int64 `json:"inactive" bson:"inactive"`
}

// PeriodCounters đếm một chỉ số theo ba khoảng: hôm nay, 7 ngày, 30 ngày.
type PeriodCounters struct {
	Today int64 `json:"today" bson:"today"`
	Week  int64 `json:"week" bson:"week"`
	Month int64 `json:"month" bson:"month"`
}

// GlobalStatistics là snapshot singleton toàn hệ thống (global_statistics).
// Được thay thế nguyên vẹn (merge-set toàn bộ field) ở mỗi lần recompute —
// không patch tăng dần, nên các lần chạy trùng nhau chỉ lãng phí chứ không sai
// (last-writer-wins).
type GlobalStatistics struct {
	ID string `json:"id,omitempty" bson:"_id,omitempty"` // = "current"

	// Người dùng
	TotalUsers     int64 `json:"totalUsers" bson:"totalUsers"`
	TotalPartners  int64 `json:"totalPartners" bson:"totalPartners"`
	TotalCustomers int64 `json:"totalCustomers" bson:"totalCustomers"`

	// Quán và sản phẩm
	TotalCafes int64               `json:"totalCafes" bson:"totalCafes"`
	Cafes      CafeStatusBreakdown `json:"cafes" bson:"cafes"`
	TotalProducts int64            `json:"totalProducts" bson:"totalProducts"`

	// Thuê bao
	ActiveSubscriptions     int64 `json:"activeSubscriptions" bson:"activeSubscriptions"`
	SubscriptionRevenueBani int64 `json:"subscriptionRevenueBani" bson:"subscriptionRevenueBani"`

	// Hoạt động redemption và doanh thu, bucket theo today/week/month
	Scans       PeriodCounters `json:"scans" bson:"scans"`
	RevenueBani PeriodCounters `json:"revenueBani" bson:"revenueBani"`

	// Giao dịch redemption, bucket theo today/week/month. Đếm đi qua chuỗi
	// resolve transactions (canonical) → scan_events (legacy); khối lượng tiền
	// chỉ có trên transactions (amountBani).
	Transactions          PeriodCounters `json:"transactions" bson:"transactions"`
	TransactionVolumeBani PeriodCounters `json:"transactionVolumeBani" bson:"transactionVolumeBani"`

	// Giỏ hàng đang hoạt động
	ActiveCarts int64 `json:"activeCarts" bson:"activeCarts"`

	// Tỷ lệ tăng trưởng (%) — công thức đơn giản hóa: kỳ hiện tại so với phần còn lại,
	// xem GrowthRate trong service.
	UserGrowthRate    float64 `json:"userGrowthRate" bson:"userGrowthRate"`
	RevenueGrowthRate float64 `json:"revenueGrowthRate" bson:"revenueGrowthRate"`

	// Freshness: unix seconds của lần tính gần nhất. Consumer yêu cầu độ tươi cao hơn
	// cửa sổ debounce phải tự kiểm tra tuổi và force refresh khi cần.
	CalculatedAt int64 `json:"calculatedAt" bson:"calculatedAt"`
}
