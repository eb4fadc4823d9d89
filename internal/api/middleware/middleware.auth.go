package middleware

import (
	"fmt"
	"strings"

	"coffee_share/internal/common"
	"coffee_share/internal/global"
	"coffee_share/internal/logger"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AdminClaims là payload của JWT admin nội bộ.
type AdminClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// AdminAuthMiddleware bảo vệ các endpoint vận hành (force refresh thống kê).
// Yêu cầu header Authorization: Bearer <jwt> ký bằng JWT_SECRET với claim
// role = "admin". Không tra database — endpoint admin là nội bộ, token sống ngắn.
func AdminAuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("thuật toán ký không được hỗ trợ: %v", t.Header["alg"])
			}
			return []byte(global.ServerConfig.JwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path": c.Path(),
			}).Warn("❌ [AUTH] Token không hợp lệ")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if claims.Role != "admin" {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthToken,
				"Endpoint này yêu cầu quyền admin",
				common.StatusForbidden, nil))
			return nil
		}

		c.Locals("adminUserId", claims.UserID)
		return c.Next()
	}
}
