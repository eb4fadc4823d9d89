package worker

import (
	"context"
	"time"

	statssvc "coffee_share/internal/api/stats/service"
	"coffee_share/internal/logger"
)

// DailySnapshotWorker ghi một snapshot gọn mỗi ngày vào daily_statistics để dựng
// trend chart. Chạy định kỳ; việc ghi trùng trong cùng ngày là no-op vì
// WriteDailySnapshot upsert theo dateKey với $setOnInsert.
type DailySnapshotWorker struct {
	statsService *statssvc.StatsService
	interval     time.Duration // Khoảng thời gian giữa các lần kiểm tra
}

// NewDailySnapshotWorker tạo mới DailySnapshotWorker.
// interval dưới 1 phút được nâng lên mặc định 1 giờ — snapshot theo ngày
// không cần chạy dày hơn.
func NewDailySnapshotWorker(interval time.Duration) (*DailySnapshotWorker, error) {
	statsService, err := statssvc.NewStatsService()
	if err != nil {
		return nil, err
	}
	if interval < time.Minute {
		interval = time.Hour
	}
	return &DailySnapshotWorker{
		statsService: statsService,
		interval:     interval,
	}, nil
}

// Start chạy worker trong vòng lặp: mỗi interval thử ghi snapshot của ngày
// hiện tại. Lần đầu chạy ngay khi khởi động để ngày deploy không bị trống.
func (w *DailySnapshotWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("📅 [DAILY_SNAPSHOT] Starting Daily Snapshot Worker...")

	w.writeOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("📅 [DAILY_SNAPSHOT] Daily Snapshot Worker stopped")
			return
		case <-ticker.C:
			w.writeOnce(ctx)
		}
	}
}

func (w *DailySnapshotWorker) writeOnce(ctx context.Context) {
	log := logger.GetAppLogger()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("📅 [DAILY_SNAPSHOT] Panic khi ghi snapshot, sẽ thử lại lần sau")
		}
	}()

	if err := w.statsService.WriteDailySnapshot(ctx); err != nil {
		log.WithError(err).Warn("📅 [DAILY_SNAPSHOT] Ghi snapshot thất bại, sẽ thử lại lần sau")
	}
}
