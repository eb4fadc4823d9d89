// Package notification gửi cảnh báo vận hành qua email (SMTP).
// Hiện chỉ có một loại cảnh báo: recompute thống kê toàn cục thất bại liên tiếp.
package notification

import (
	"fmt"
	"time"

	"coffee_share/config"
	"coffee_share/internal/logger"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// AlertMailer gửi email cảnh báo vận hành. Không cấu hình SMTP thì mọi
// lời gọi Send là no-op (chỉ log) — alert là tiện ích, không phải dependency cứng.
type AlertMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// NewAlertMailer tạo AlertMailer từ cấu hình server.
func NewAlertMailer(cfg *config.Configuration) *AlertMailer {
	return &AlertMailer{
		host:     cfg.AlertSMTPHost,
		port:     cfg.AlertSMTPPort,
		username: cfg.AlertSMTPUser,
		password: cfg.AlertSMTPPassword,
		from:     cfg.AlertMailFrom,
		to:       cfg.AlertMailTo,
	}
}

// Enabled cho biết SMTP đã được cấu hình đủ để gửi mail hay chưa.
func (m *AlertMailer) Enabled() bool {
	return m != nil && m.host != "" && m.from != "" && m.to != ""
}

// SendRecomputeFailureAlert gửi cảnh báo khi recompute thống kê toàn cục
// thất bại streak lần liên tiếp.
func (m *AlertMailer) SendRecomputeFailureAlert(streak int, lastErr error) error {
	if !m.Enabled() {
		logger.GetAppLogger().WithFields(logrus.Fields{"streak": streak}).
			Warn("📧 [ALERT] SMTP chưa cấu hình, bỏ qua cảnh báo recompute thất bại")
		return nil
	}

	subject := fmt.Sprintf("[CoffeeShare] Recompute thống kê thất bại %d lần liên tiếp", streak)
	body := fmt.Sprintf(
		`<p>Recompute <b>global_statistics</b> đã thất bại <b>%d</b> lần liên tiếp.</p>
<p>Lỗi gần nhất: <pre>%v</pre></p>
<p>Thời điểm: %s</p>
<p>Dashboard admin có thể đang hiển thị snapshot cũ. Kiểm tra kết nối MongoDB và log của stats watcher.</p>`,
		streak, lastErr, time.Now().Format(time.RFC3339))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.GetAppLogger().WithError(err).Error("📧 [ALERT] Gửi email cảnh báo thất bại")
		return err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{"to": m.to, "streak": streak}).
		Info("📧 [ALERT] Đã gửi email cảnh báo recompute thất bại")
	return nil
}
