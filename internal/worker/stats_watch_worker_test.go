// Test cơ chế debounce của StatsWatchWorker: gộp burst, bỏ qua collection lạ,
// Stop idempotent. Đường recompute thật cần MongoDB nên thuộc test tích hợp.
package worker

import (
	"testing"
	"time"
)

func newTestWatcher(interval time.Duration) *StatsWatchWorker {
	return &StatsWatchWorker{
		intervals: map[string]time.Duration{
			"scan_events":  interval,
			"transactions": interval,
		},
		timers:  make(map[string]*time.Timer),
		started: true,
	}
}

func pendingTimers(w *StatsWatchWorker) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func TestSignal_GopBurstThanhMotTimer(t *testing.T) {
	w := newTestWatcher(time.Hour)
	defer w.Stop()

	// Burst 5 tín hiệu cùng collection trong cửa sổ — chỉ một timer chờ
	for i := 0; i < 5; i++ {
		w.Signal("scan_events")
	}
	if got := pendingTimers(w); got != 1 {
		t.Errorf("sau burst có %d timer chờ, muốn 1 (coalesce)", got)
	}

	// Collection khác có timer riêng
	w.Signal("transactions")
	if got := pendingTimers(w); got != 2 {
		t.Errorf("hai collection phải có %d timer riêng, có %d", 2, got)
	}
}

func TestSignal_BoQuaCollectionKhongTheoDoi(t *testing.T) {
	w := newTestWatcher(time.Hour)
	defer w.Stop()

	w.Signal("webhook_logs")
	if got := pendingTimers(w); got != 0 {
		t.Errorf("collection không theo dõi vẫn gài %d timer", got)
	}
}

func TestSignal_TimerTuGoKhoiMapSauKhiNo(t *testing.T) {
	// statsService nil → recompute panic nhưng được recover; điều cần kiểm tra
	// là timer đã tự gỡ khỏi map để tín hiệu sau gài được timer mới
	w := newTestWatcher(10 * time.Millisecond)
	defer w.Stop()

	w.Signal("scan_events")
	deadline := time.Now().Add(2 * time.Second)
	for pendingTimers(w) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("timer đã nổ nhưng vẫn còn trong map sau 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w.Signal("scan_events")
	if got := pendingTimers(w); got != 1 {
		t.Errorf("tín hiệu sau khi timer nổ phải gài được timer mới, có %d", got)
	}
}

func TestStop_HuyTimerVaIdempotent(t *testing.T) {
	w := newTestWatcher(time.Hour)

	w.Signal("scan_events")
	w.Signal("transactions")
	w.Stop()

	if got := pendingTimers(w); got != 0 {
		t.Errorf("Stop phải hủy hết timer, còn %d", got)
	}

	// Sau Stop, tín hiệu mới bị bỏ qua
	w.Signal("scan_events")
	if got := pendingTimers(w); got != 0 {
		t.Errorf("worker đã Stop vẫn gài %d timer", got)
	}

	// Stop lần hai là no-op, không panic
	w.Stop()
}
