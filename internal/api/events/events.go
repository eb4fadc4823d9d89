// Package events cung cấp cơ chế event trung tâm khi dữ liệu thay đổi.
// Các service ghi dữ liệu phát event sau mỗi lần commit thành công; logic phản ứng
// (debounce recompute thống kê toàn cục, cache invalidation, ...) đăng ký qua OnDataChanged.
// Bus này là đường nhận tín hiệu luôn bật của scheduler; change stream MongoDB
// (cần replica set) là feeder bổ sung cho writer ngoài process.
package events

import (
	"context"
	"sync"

	"coffee_share/internal/logger"
)

// OpInsert, OpUpdate, OpUpsert, OpDelete là các loại thao tác ghi.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// DataChangeEvent mô tả sự kiện thay đổi dữ liệu.
// Document là bản ghi sau khi thay đổi (nil nếu delete). Consumer không được tin
// nội dung Document để tính delta — chỉ dùng làm tín hiệu, số liệu luôn tính lại
// từ dữ liệu nguồn (chịu được tín hiệu trùng lặp / sai thứ tự).
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	Document       interface{}
}

// DataChangeHandler xử lý sự kiện thay đổi dữ liệu.
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

var (
	handlers   = map[int]DataChangeHandler{}
	nextID     int
	handlersMu sync.RWMutex
)

// OnDataChanged đăng ký handler, trả về hàm hủy đăng ký. Gọi khi init hoặc
// khi khởi động scheduler; scheduler phải gọi hàm hủy khi Stop.
func OnDataChanged(h DataChangeHandler) (unsubscribe func()) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	id := nextID
	nextID++
	handlers[id] = h
	return func() {
		handlersMu.Lock()
		defer handlersMu.Unlock()
		delete(handlers, id)
	}
}

// EmitDataChanged phát sự kiện. Gọi từ service sau mỗi lần ghi thành công.
// Mỗi handler chạy trong goroutine riêng, panic được recover để không ảnh hưởng handler khác.
func EmitDataChanged(ctx context.Context, e DataChangeEvent) {
	handlersMu.RLock()
	list := make([]DataChangeHandler, 0, len(handlers))
	for _, h := range handlers {
		list = append(list, h)
	}
	handlersMu.RUnlock()

	for _, h := range list {
		go func(fn DataChangeHandler) {
			defer func() {
				if r := recover(); r != nil {
					// GetAppLogger tự init với config mặc định khi event chạy sớm
					logger.GetAppLogger().WithFields(map[string]interface{}{
						"collection": e.CollectionName,
						"operation":  e.Operation,
						"panic":      r,
					}).Error("📡 [DATA_CHANGE] Handler panic, đã recover")
				}
			}()
			fn(ctx, e)
		}(h)
	}
}
