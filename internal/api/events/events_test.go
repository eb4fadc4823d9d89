// Package events - Test bus in-process: đăng ký, phát, hủy đăng ký.
package events

import (
	"context"
	"testing"
	"time"

	"coffee_share/internal/logger"

	"github.com/sirupsen/logrus"
)

func TestOnDataChanged_NhanDuocEvent(t *testing.T) {
	received := make(chan DataChangeEvent, 1)
	unsubscribe := OnDataChanged(func(_ context.Context, e DataChangeEvent) {
		received <- e
	})
	defer unsubscribe()

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "scan_events",
		Operation:      OpInsert,
	})

	select {
	case e := <-received:
		if e.CollectionName != "scan_events" || e.Operation != OpInsert {
			t.Errorf("event nhận được sai: %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler không nhận được event sau 2s")
	}
}

func TestOnDataChanged_HuyDangKy(t *testing.T) {
	received := make(chan struct{}, 1)
	unsubscribe := OnDataChanged(func(_ context.Context, _ DataChangeEvent) {
		received <- struct{}{}
	})

	unsubscribe()
	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "scan_events",
		Operation:      OpInsert,
	})

	select {
	case <-received:
		t.Fatal("handler đã hủy đăng ký vẫn nhận được event")
	case <-time.After(100 * time.Millisecond):
		// Không nhận — đúng
	}
}

// Hủy đăng ký một handler không được ảnh hưởng handler khác.
func TestOnDataChanged_HuyMotKhongAnhHuongHandlerKhac(t *testing.T) {
	receivedA := make(chan struct{}, 1)
	receivedB := make(chan struct{}, 1)
	unsubA := OnDataChanged(func(_ context.Context, _ DataChangeEvent) { receivedA <- struct{}{} })
	unsubB := OnDataChanged(func(_ context.Context, _ DataChangeEvent) { receivedB <- struct{}{} })
	defer unsubB()

	unsubA()
	EmitDataChanged(context.Background(), DataChangeEvent{CollectionName: "carts", Operation: OpUpdate})

	select {
	case <-receivedB:
	case <-time.After(2 * time.Second):
		t.Fatal("handler còn đăng ký không nhận được event")
	}
	select {
	case <-receivedA:
		t.Fatal("handler đã hủy vẫn nhận được event")
	case <-time.After(100 * time.Millisecond):
	}
}

// Handler panic không được làm các handler khác mất event.
func TestEmitDataChanged_HandlerPanicKhongLanSang(t *testing.T) {
	received := make(chan struct{}, 1)
	unsubPanic := OnDataChanged(func(_ context.Context, _ DataChangeEvent) {
		panic("handler hỏng")
	})
	defer unsubPanic()
	unsubOK := OnDataChanged(func(_ context.Context, _ DataChangeEvent) { received <- struct{}{} })
	defer unsubOK()

	EmitDataChanged(context.Background(), DataChangeEvent{CollectionName: "users", Operation: OpDelete})

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("handler bình thường không nhận được event khi handler khác panic")
	}
}

// panicEntryHook bắt các entry có field panic đi qua app logger.
type panicEntryHook struct {
	entries chan *logrus.Entry
}

func (h *panicEntryHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *panicEntryHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["panic"]; ok {
		select {
		case h.entries <- e:
		default:
		}
	}
	return nil
}

// Giá trị panic recover được phải ghi ra app logger, không bị nuốt lặng lẽ.
func TestEmitDataChanged_PanicDuocGhiLog(t *testing.T) {
	hook := &panicEntryHook{entries: make(chan *logrus.Entry, 4)}
	logger.GetAppLogger().AddHook(hook)

	unsubscribe := OnDataChanged(func(_ context.Context, _ DataChangeEvent) {
		panic("handler hỏng có chủ đích")
	})
	defer unsubscribe()

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "scan_events",
		Operation:      OpInsert,
	})

	select {
	case e := <-hook.entries:
		if e.Level != logrus.ErrorLevel {
			t.Errorf("level = %s, muốn error", e.Level)
		}
		if e.Data["panic"] != "handler hỏng có chủ đích" {
			t.Errorf("field panic = %v, muốn giá trị recover được", e.Data["panic"])
		}
		if e.Data["collection"] != "scan_events" {
			t.Errorf("field collection = %v, muốn scan_events", e.Data["collection"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("panic của handler không được ghi log sau 2s")
	}
}
