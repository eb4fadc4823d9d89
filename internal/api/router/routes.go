package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	analyticshdl "coffee_share/internal/api/analytics/handler"
	basehdl "coffee_share/internal/api/base/handler"
	statshdl "coffee_share/internal/api/stats/handler"
	"coffee_share/internal/api/middleware"
)

// ============================================================================
// ⚠️ QUAN TRỌNG: BUG FIBER V3 - CÁCH ĐĂNG KÝ MIDDLEWARE
// ============================================================================
//
// Fiber v3 có bug với cách đăng ký middleware trực tiếp trong route:
// router.Get("/path", middleware, handler) — middleware sẽ KHÔNG được gọi.
// Phải đăng ký qua group.Use() — xem RegisterRouteWithMiddleware bên dưới.
// Route mới có middleware PHẢI đi qua RegisterRouteWithMiddleware.
// ============================================================================

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// NewRouter tạo mới Router
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware đăng ký route với middleware qua .Use() method
// (cách duy nhất hoạt động đúng trong Fiber v3).
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// SetupRoutes đăng ký toàn bộ route của service.
//
// Public (không auth — service chạy sau gateway nội bộ):
//   - POST /api/v1/analytics/scan
//   - GET  /api/v1/analytics/dashboard
//   - GET  /api/v1/analytics/reports
//   - GET  /api/v1/stats/global
//   - GET  /api/v1/stats/daily
//   - GET  /system/health
//
// JWT admin:
//   - POST /api/v1/stats/refresh
func (r *Router) SetupRoutes() error {
	analyticsHandler, err := analyticshdl.NewAnalyticsHandler()
	if err != nil {
		return fmt.Errorf("failed to create analytics handler: %v", err)
	}
	statsHandler, err := statshdl.NewStatsHandler()
	if err != nil {
		return fmt.Errorf("failed to create stats handler: %v", err)
	}
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %v", err)
	}

	r.app.Get("/system/health", systemHandler.HandleHealth)

	v1 := r.app.Group("/api/v1")

	analytics := v1.Group("/analytics")
	analytics.Post("/scan", analyticsHandler.HandleRecordScan)
	analytics.Get("/dashboard", analyticsHandler.HandleGetDashboard)
	analytics.Get("/reports", analyticsHandler.HandleGetReports)

	stats := v1.Group("/stats")
	stats.Get("/global", statsHandler.HandleGetGlobal)
	stats.Get("/daily", statsHandler.HandleGetDaily)

	// Middleware phải đăng ký qua .Use() (bug Fiber v3 — xem đầu file).
	// Use có path để không chạm các route GET cùng prefix /stats.
	stats.Use("/refresh", middleware.AdminAuthMiddleware())
	stats.Post("/refresh", statsHandler.HandleForceRefresh)

	return nil
}
