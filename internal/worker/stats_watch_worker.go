package worker

import (
	"context"
	"sync"
	"time"

	"coffee_share/internal/api/events"
	statssvc "coffee_share/internal/api/stats/service"
	"coffee_share/internal/global"
	"coffee_share/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsWatchWorker là bộ lập lịch tính lại thống kê toàn cục theo cơ chế
// debounce. Mỗi collection nguồn có một cửa sổ debounce riêng; tín hiệu mới
// trong cửa sổ reset timer (gộp burst thành một lần recompute). Trạng thái
// mỗi collection: Idle → PendingRecompute (timer đã gài) → Idle.
//
// Tín hiệu đến từ hai đường:
//   - bus in-process (events.OnDataChanged) — luôn bật, phủ mọi writer trong process
//   - change stream MongoDB — bật qua config, phủ writer ngoài process (cần replica set)
//
// Recompute luôn tính lại từ dữ liệu nguồn nên tín hiệu trùng / sai thứ tự vô hại.
type StatsWatchWorker struct {
	statsService *statssvc.StatsService
	intervals    map[string]time.Duration // collection → cửa sổ debounce

	mu      sync.Mutex
	timers  map[string]*time.Timer // collection → timer đang chờ (PendingRecompute)
	started bool

	unsubscribe func()             // Hủy đăng ký bus in-process
	streamStop  context.CancelFunc // Dừng các goroutine change stream
	streamWG    sync.WaitGroup
}

var (
	statsWatcherInstance *StatsWatchWorker
	statsWatcherMu       sync.Mutex
)

// GetStatsWatcher trả về instance đang chạy (nil nếu chưa Start).
// Handler force-refresh dùng hàm này để đi qua scheduler thay vì gọi thẳng service.
func GetStatsWatcher() *StatsWatchWorker {
	statsWatcherMu.Lock()
	defer statsWatcherMu.Unlock()
	return statsWatcherInstance
}

// NewStatsWatchWorker tạo mới StatsWatchWorker với cửa sổ debounce theo config:
// nguồn tần suất cao (scan_events, transactions, carts) dùng cửa sổ ngắn,
// nguồn tần suất thấp (products, subscriptions) dùng cửa sổ dài.
func NewStatsWatchWorker() (*StatsWatchWorker, error) {
	statsService, err := statssvc.NewStatsService()
	if err != nil {
		return nil, err
	}

	cfg := global.ServerConfig
	fast := time.Duration(cfg.DebounceFastSec) * time.Second
	medium := time.Duration(cfg.DebounceMediumSec) * time.Second
	slow := time.Duration(cfg.DebounceSlowSec) * time.Second

	names := global.MongoDB_ColNames
	intervals := map[string]time.Duration{
		names.ScanEvents:    fast,
		names.Transactions:  fast,
		names.Carts:         fast,
		names.Users:         medium,
		names.Partners:      medium,
		names.Customers:     medium,
		names.Cafes:         medium,
		names.Products:      slow,
		names.Subscriptions: slow,
	}

	return &StatsWatchWorker{
		statsService: statsService,
		intervals:    intervals,
		timers:       make(map[string]*time.Timer),
	}, nil
}

// Start đăng ký listener và (tùy config) mở change stream cho từng collection
// nguồn. Idempotent — gọi lần hai khi đang chạy là no-op.
func (w *StatsWatchWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		log.Warn("📊 [STATS_WATCH] Worker đã chạy rồi, bỏ qua Start")
		return
	}
	w.started = true
	w.mu.Unlock()

	w.unsubscribe = events.OnDataChanged(func(_ context.Context, e events.DataChangeEvent) {
		w.Signal(e.CollectionName)
	})

	if global.ServerConfig != nil && global.ServerConfig.EnableChangeStreams {
		w.startChangeStreams(ctx)
	}

	statsWatcherMu.Lock()
	statsWatcherInstance = w
	statsWatcherMu.Unlock()

	log.WithFields(map[string]interface{}{
		"watchedCollections": len(w.intervals),
		"changeStreams":      global.ServerConfig != nil && global.ServerConfig.EnableChangeStreams,
	}).Info("📊 [STATS_WATCH] Starting Stats Watch Worker...")
}

// Stop hủy mọi timer đang chờ và hủy đăng ký mọi listener. Idempotent.
// Một recompute ĐANG chạy không bị hủy — để nó chạy xong và ghi thêm một lần
// (last-writer-wins nên vô hại).
func (w *StatsWatchWorker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	for name, timer := range w.timers {
		timer.Stop()
		delete(w.timers, name)
	}
	w.mu.Unlock()

	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	if w.streamStop != nil {
		w.streamStop()
		w.streamWG.Wait()
		w.streamStop = nil
	}

	statsWatcherMu.Lock()
	if statsWatcherInstance == w {
		statsWatcherInstance = nil
	}
	statsWatcherMu.Unlock()

	logger.GetAppLogger().Info("📊 [STATS_WATCH] Stats Watch Worker stopped")
}

// Signal báo collection nguồn vừa thay đổi. Collection đang Idle → gài timer;
// đang PendingRecompute → reset timer (coalesce). Collection không nằm trong
// danh sách theo dõi bị bỏ qua.
func (w *StatsWatchWorker) Signal(collectionName string) {
	interval, watched := w.intervals[collectionName]
	if !watched {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}

	if timer, pending := w.timers[collectionName]; pending {
		// Burst đang diễn ra — dời thời điểm recompute
		timer.Reset(interval)
		return
	}

	w.timers[collectionName] = time.AfterFunc(interval, func() {
		w.mu.Lock()
		delete(w.timers, collectionName)
		stopped := !w.started
		w.mu.Unlock()
		if stopped {
			return
		}
		w.recompute(collectionName)
	})
}

// ForceRecompute hủy mọi timer đang chờ và tính lại ngay lập tức.
// Dùng cho force refresh của admin.
func (w *StatsWatchWorker) ForceRecompute(ctx context.Context) error {
	w.mu.Lock()
	for name, timer := range w.timers {
		timer.Stop()
		delete(w.timers, name)
	}
	w.mu.Unlock()

	logger.GetAppLogger().Info("📊 [STATS_WATCH] Force recompute theo yêu cầu admin")
	_, err := w.statsService.RecomputeGlobalStatistics(ctx)
	return err
}

// recompute chạy một lần tính lại do timer của collectionName kích hoạt.
func (w *StatsWatchWorker) recompute(collectionName string) {
	log := logger.GetAppLogger()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic":      r,
				"triggeredBy": collectionName,
			}).Error("📊 [STATS_WATCH] Panic khi recompute, sẽ chạy lại ở tín hiệu tiếp theo")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := w.statsService.RecomputeGlobalStatistics(ctx); err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"triggeredBy": collectionName,
		}).Error("📊 [STATS_WATCH] Recompute thất bại")
		return
	}

	log.WithFields(map[string]interface{}{
		"triggeredBy": collectionName,
	}).Info("📊 [STATS_WATCH] Đã recompute global statistics")
}

// startChangeStreams mở một change stream cho mỗi collection theo dõi.
// Chỉ hoạt động trên replica set; lỗi mở stream được log rồi bỏ qua —
// bus in-process vẫn phủ mọi writer trong process.
func (w *StatsWatchWorker) startChangeStreams(parent context.Context) {
	log := logger.GetAppLogger()
	ctx, cancel := context.WithCancel(parent)
	w.streamStop = cancel

	for name := range w.intervals {
		coll, ok := global.RegistryCollections.Get(name)
		if !ok {
			continue
		}

		w.streamWG.Add(1)
		go func(collectionName string, coll *mongo.Collection) {
			defer w.streamWG.Done()

			opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
			stream, err := coll.Watch(ctx, mongo.Pipeline{}, opts)
			if err != nil {
				log.WithError(err).WithFields(map[string]interface{}{
					"collection": collectionName,
				}).Warn("📊 [STATS_WATCH] Không mở được change stream, chỉ dùng bus in-process")
				return
			}
			defer stream.Close(context.Background())

			for stream.Next(ctx) {
				var changeDoc bson.M
				if err := stream.Decode(&changeDoc); err != nil {
					continue
				}
				w.Signal(collectionName)
			}
		}(name, coll)
	}
}
