package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Bao gồm kết nối MongoDB, tỷ giá quy đổi bean → RON và các cửa sổ debounce
// cho bộ lập lịch tính lại thống kê toàn hệ thống.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`              // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                     // Bí mật JWT cho endpoint admin
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`         // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"coffeeshare"` // Tên cơ sở dữ liệu chính
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`             // Các origins được phép (phân cách bởi dấu phẩy)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`   // Số request tối đa trong window (0 = tắt)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// Tỷ giá quy đổi: số bani (1/100 RON) trên mỗi bean tiêu thụ.
	// Earnings được chốt tại thời điểm ghi nhận scan — đổi tỷ giá không làm
	// thay đổi các daily report / profile đã ghi.
	RateBaniPerBean int64 `env:"RATE_BANI_PER_BEAN" envDefault:"200"`

	// Cửa sổ debounce (giây) cho từng nhóm collection nguồn của Global Aggregator.
	// Nguồn biến động nhanh (transactions, carts) dùng cửa sổ ngắn hơn.
	DebounceFastSec   int `env:"STATS_DEBOUNCE_FAST_SEC" envDefault:"15"`   // transactions, carts, scan_events
	DebounceMediumSec int `env:"STATS_DEBOUNCE_MEDIUM_SEC" envDefault:"30"` // users, partners, customers, cafes
	DebounceSlowSec   int `env:"STATS_DEBOUNCE_SLOW_SEC" envDefault:"60"`   // products, subscriptions

	// Ngưỡng tuổi tối đa (giây) trước khi snapshot GlobalStatistics bị coi là cũ
	// khi client không truyền maxAgeSec riêng.
	SnapshotMaxAgeSec int `env:"STATS_SNAPSHOT_MAX_AGE_SEC" envDefault:"300"`

	// Bật đọc change stream MongoDB cho các collection nguồn (yêu cầu replica set).
	// Khi tắt, scheduler chỉ nhận tín hiệu qua event bus trong process.
	EnableChangeStreams bool `env:"STATS_ENABLE_CHANGE_STREAMS" envDefault:"false"`

	// Firebase Configuration (collaborator danh tính — chỉ dùng cho report header)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	// SMTP alert (optional): gửi mail khi recompute toàn cục thất bại liên tiếp
	AlertSMTPHost     string `env:"ALERT_SMTP_HOST"`
	AlertSMTPPort     int    `env:"ALERT_SMTP_PORT" envDefault:"587"`
	AlertSMTPUser     string `env:"ALERT_SMTP_USER"`
	AlertSMTPPassword string `env:"ALERT_SMTP_PASSWORD"`
	AlertMailFrom     string `env:"ALERT_MAIL_FROM"`
	AlertMailTo       string `env:"ALERT_MAIL_TO"`
	AlertFailStreak   int    `env:"ALERT_FAIL_STREAK" envDefault:"3"` // Số lần thất bại liên tiếp trước khi gửi mail
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	environment := os.Getenv("GO_ENV")
	if environment == "" {
		environment = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ working directory
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", environment))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp.
// Nếu không tìm thấy file env, vẫn parse từ environment variables (chạy trong container).
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
