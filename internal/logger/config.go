package logger

import (
	"os"
	"strconv"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	Level      string // debug | info | warn | error
	Format     string // text | json
	Output     string // stdout | file | both
	LogPath    string // Thư mục chứa file log (tương đối so với root project)
	AppFile    string // Tên file log chính
	AuditFile  string // Tên file log audit
	ErrorFile  string // Tên file log lỗi
	MaxSize    int    // MB mỗi file trước khi rotate
	MaxBackups int    // Số file cũ giữ lại
	MaxAge     int    // Số ngày giữ file cũ
	Compress   bool   // Nén file cũ
}

// DefaultConfig trả về cấu hình logging mặc định, đọc override từ environment variables
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Format:     getEnv("LOG_FORMAT", "text"),
		Output:     getEnv("LOG_OUTPUT", "both"),
		LogPath:    getEnv("LOG_PATH", "logs"),
		AppFile:    "app.log",
		AuditFile:  "audit.log",
		ErrorFile:  "error.log",
		MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		MaxAge:     getEnvInt("LOG_MAX_AGE", 30),
		Compress:   getEnv("LOG_COMPRESS", "true") == "true",
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
