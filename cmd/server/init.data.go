package main

import (
	"context"
	"time"

	statssvc "coffee_share/internal/api/stats/service"
	"coffee_share/internal/logger"
)

// InitDefaultData đảm bảo snapshot global_statistics tồn tại ngay sau khi boot:
// chạy một lần recompute đầu tiên để dashboard admin không phải chờ tín hiệu
// thay đổi dữ liệu đầu tiên. Thất bại không chặn boot — scheduler sẽ tính lại
// ở tín hiệu tiếp theo.
func InitDefaultData() {
	log := logger.GetAppLogger()

	statsService, err := statssvc.NewStatsService()
	if err != nil {
		log.WithError(err).Error("Không tạo được stats service để recompute lần đầu")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := statsService.RecomputeGlobalStatistics(ctx); err != nil {
		log.WithError(err).Warn("Recompute lần đầu thất bại, dashboard sẽ trống đến tín hiệu tiếp theo")
		return
	}
	log.Info("Initialized global statistics snapshot")
}
