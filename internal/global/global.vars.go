package global

import (
	"coffee_share/config"
	"coffee_share/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	// Phân hệ analytics (ghi bởi Event Recorder)
	ScanEvents          string // Sự kiện scan bất biến, append-only
	PartnerDailyReports string // Báo cáo theo ngày của từng partner
	PartnerProfiles     string // Hồ sơ lũy kế trọn đời của từng partner

	// Phân hệ thống kê toàn cục (ghi bởi Global Aggregator)
	GlobalStatistics string // Snapshot singleton toàn hệ thống
	DailyStatistics  string // Snapshot gọn theo ngày cho trend chart

	// Các collection nguồn (chỉ đọc bởi Global Aggregator)
	Users         string // Collection legacy chứa lẫn user/partner (fallback)
	Partners      string // Collection chuẩn cho partner
	Customers     string // Collection chuẩn cho khách hàng
	Cafes         string // Quán cà phê của partner
	Products      string // Sản phẩm
	Transactions  string // Giao dịch redemption
	Subscriptions string // Gói thuê bao
	Carts         string // Giỏ hàng đang hoạt động
}

// Các biến toàn cục
var Validate *validator.Validate                                         // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                        // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration                                   // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = MongoDB_CollectionName{}   // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
