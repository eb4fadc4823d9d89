// Package statshdl chứa HTTP handler của domain Stats (snapshot toàn hệ thống).
package statshdl

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	basehdl "coffee_share/internal/api/base/handler"
	statssvc "coffee_share/internal/api/stats/service"
	"coffee_share/internal/common"
	"coffee_share/internal/global"
	"coffee_share/internal/worker"

	"github.com/gofiber/fiber/v3"
)

// StatsHandler xử lý các endpoint đọc snapshot và force refresh.
type StatsHandler struct {
	statsService *statssvc.StatsService
}

// NewStatsHandler tạo mới StatsHandler
func NewStatsHandler() (*StatsHandler, error) {
	statsService, err := statssvc.NewStatsService()
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %v", err)
	}
	return &StatsHandler{statsService: statsService}, nil
}

// HandleGetGlobal trả về snapshot GlobalStatistics kèm cờ stale.
//
// Endpoint: GET /api/v1/stats/global?maxAgeSec=300
// maxAgeSec mặc định theo config; 0 = không kiểm tra độ tươi.
// Snapshot cũ hơn ngưỡng vẫn được trả về (stale=true) — caller tự quyết
// dùng tạm hay gọi refresh.
func (h *StatsHandler) HandleGetGlobal(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		maxAgeSec := global.ServerConfig.SnapshotMaxAgeSec
		if raw := c.Query("maxAgeSec", ""); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				basehdl.HandleResponse(c, nil, common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("maxAgeSec không hợp lệ: %s", raw),
					common.StatusBadRequest, nil))
				return nil
			}
			maxAgeSec = parsed
		}

		snapshot, err := h.statsService.GetGlobalStatistics(c.Context(), time.Duration(maxAgeSec)*time.Second)
		if err != nil {
			if errors.Is(err, common.ErrStaleSnapshot) && snapshot != nil {
				// Snapshot cũ nhưng vẫn dùng được — trả về kèm cờ stale
				basehdl.HandleResponse(c, fiber.Map{
					"snapshot": snapshot,
					"stale":    true,
				}, nil)
				return nil
			}
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, fiber.Map{
			"snapshot": snapshot,
			"stale":    false,
		}, nil)
		return nil
	})
}

// HandleGetDaily trả về các snapshot ngày trong khoảng [from, to].
//
// Endpoint: GET /api/v1/stats/daily?from=2026-08-01&to=2026-08-28
// from/to là day key YYYY-MM-DD, rỗng = không giới hạn phía đó.
func (h *StatsHandler) HandleGetDaily(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		fromKey := c.Query("from", "")
		toKey := c.Query("to", "")

		snapshots, err := h.statsService.ListDailySnapshots(c.Context(), fromKey, toKey)
		basehdl.HandleResponse(c, snapshots, err)
		return nil
	})
}

// HandleForceRefresh tính lại snapshot ngay lập tức, bỏ qua mọi timer debounce.
//
// Endpoint: POST /api/v1/stats/refresh (JWT admin)
// Đi qua scheduler để hủy luôn các timer đang chờ; scheduler chưa chạy thì
// gọi thẳng aggregator.
func (h *StatsHandler) HandleForceRefresh(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		if watcher := worker.GetStatsWatcher(); watcher != nil {
			if err := watcher.ForceRecompute(c.Context()); err != nil {
				basehdl.HandleResponse(c, nil, err)
				return nil
			}
			snapshot, err := h.statsService.GetGlobalStatistics(c.Context(), 0)
			basehdl.HandleResponse(c, snapshot, err)
			return nil
		}

		snapshot, err := h.statsService.RecomputeGlobalStatistics(c.Context())
		basehdl.HandleResponse(c, snapshot, err)
		return nil
	})
}
