package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest trả về entry đã gắn sẵn ngữ cảnh request (id, method, path, ip)
// để các log trong cùng một request trace được với nhau.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields{
		"requestId": c.Get("X-Request-ID"),
		"method":    c.Method(),
		"path":      c.Path(),
		"ip":        c.IP(),
	})
}
