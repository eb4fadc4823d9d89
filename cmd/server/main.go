package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee_share/internal/global"
	"coffee_share/internal/logger"
	"coffee_share/internal/worker"

	"github.com/gofiber/fiber/v3"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// startWorkers khởi động các background worker, trả về hàm dừng.
func startWorkers() func() {
	log := logger.GetAppLogger()
	ctx, cancel := context.WithCancel(context.Background())

	// Scheduler recompute thống kê toàn cục (debounce theo collection nguồn)
	statsWatcher, err := worker.NewStatsWatchWorker()
	if err != nil {
		log.WithError(err).Error("Failed to create stats watch worker, continuing without it")
	} else {
		statsWatcher.Start(ctx)
	}

	// Worker ghi snapshot ngày
	dailyWorker, err := worker.NewDailySnapshotWorker(time.Hour)
	if err != nil {
		log.WithError(err).Error("Failed to create daily snapshot worker, continuing without it")
	} else {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(map[string]interface{}{
						"panic": r,
					}).Error("📅 [DAILY_SNAPSHOT] Worker goroutine panic")
				}
			}()
			dailyWorker.Start(ctx)
		}()
	}

	return func() {
		if statsWatcher != nil {
			statsWatcher.Stop()
		}
		cancel()
	}
}

// main_thread khởi tạo và chạy Fiber server, trả về khi nhận signal dừng.
func main_thread() {
	app := InitFiberApp()
	log := logger.GetAppLogger()

	address := global.ServerConfig.Address
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	// Graceful shutdown khi nhận SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.WithFields(map[string]interface{}{"signal": sig.String()}).Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error during server shutdown")
		}
	}()

	if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo dữ liệu mặc định (snapshot đầu tiên)
	InitDefaultData()

	// Khởi động background workers
	stopWorkers := startWorkers()
	defer stopWorkers()

	// Chạy Fiber server trên main thread
	main_thread()
}
