package statssvc

import (
	"context"
	"errors"
	"time"

	"coffee_share/internal/api/stats/models"
	"coffee_share/internal/common"
	"coffee_share/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecomputeGlobalStatistics tính lại toàn bộ snapshot từ dữ liệu nguồn và ghi
// đè document singleton bằng merge-set + calculatedAt mới.
//
// Mỗi section được tính độc lập: nguồn hỏng → section đó bằng 0 và một dòng
// log, các section khác không bị ảnh hưởng. Chỉ lỗi GHI snapshot mới trả về
// error. Các lần chạy chồng nhau là last-writer-wins — mỗi lần đều tính lại
// từ nguồn nên chạy thừa chỉ lãng phí, không sai.
func (s *StatsService) RecomputeGlobalStatistics(ctx context.Context) (*models.GlobalStatistics, error) {
	started := time.Now()
	loc := statsLocation()
	now := started.In(loc)

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).Unix()
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -6).Unix()
	monthStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -29).Unix()

	snapshot := &models.GlobalStatistics{}

	s.calcUserCounts(ctx, snapshot)
	s.calcCafeBreakdown(ctx, snapshot)
	s.calcProductCounts(ctx, snapshot)
	s.calcSubscriptions(ctx, snapshot)
	s.calcScanActivity(ctx, snapshot, todayStart, weekStart, monthStart)
	s.calcTransactionActivity(ctx, snapshot, todayStart, weekStart, monthStart)
	s.calcActiveCarts(ctx, snapshot)
	s.calcGrowthRates(ctx, snapshot, monthStart)

	snapshot.CalculatedAt = time.Now().Unix()

	// Merge-set toàn bộ field — không patch tăng dần
	opts := options.Update().SetUpsert(true)
	_, err := s.globalColl.UpdateOne(ctx,
		bson.M{"_id": models.GlobalStatisticsID},
		bson.M{"$set": snapshot},
		opts)
	if err != nil {
		s.recordRecomputeFailure(err)
		return nil, common.ConvertMongoError(err)
	}
	s.recordRecomputeSuccess()

	snapshot.ID = models.GlobalStatisticsID
	logger.GetAppLogger().WithFields(map[string]interface{}{
		"durationMs":  time.Since(started).Milliseconds(),
		"totalUsers":  snapshot.TotalUsers,
		"totalCafes":  snapshot.TotalCafes,
		"scansToday":  snapshot.Scans.Today,
		"activeCarts": snapshot.ActiveCarts,
	}).Info("📊 [STATS_RECOMPUTE] Đã tính lại global statistics")

	return snapshot, nil
}

// GetGlobalStatistics đọc snapshot hiện tại. maxAge > 0 bật kiểm tra độ tươi:
// snapshot cũ hơn maxAge trả về kèm common.ErrStaleSnapshot để caller tự quyết
// (dùng tạm hay gọi ForceRecompute).
func (s *StatsService) GetGlobalStatistics(ctx context.Context, maxAge time.Duration) (*models.GlobalStatistics, error) {
	var snapshot models.GlobalStatistics
	err := s.globalColl.FindOne(ctx, bson.M{"_id": models.GlobalStatisticsID}).Decode(&snapshot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, common.ConvertMongoError(err)
	}

	if maxAge > 0 {
		age := time.Since(time.Unix(snapshot.CalculatedAt, 0))
		if age > maxAge {
			return &snapshot, common.WrapError(common.ErrStaleSnapshot,
				map[string]interface{}{"ageSec": int64(age.Seconds()), "maxAgeSec": int64(maxAge.Seconds())})
		}
	}

	return &snapshot, nil
}

// calcUserCounts đếm người dùng theo vai trò. Partners và customers có
// collection canonical riêng; nền tảng cũ gom hết vào users nên legacy
// fallback lọc users theo role.
func (s *StatsService) calcUserCounts(ctx context.Context, snapshot *models.GlobalStatistics) {
	if total, ok := countDocs(ctx, s.userColl, nil); ok {
		snapshot.TotalUsers = total
	} else {
		logSectionDegraded("users")
	}

	snapshot.TotalPartners = resolveCount(ctx, "totalPartners", []countSource{
		{Name: "partners", Coll: s.partnerColl},
		{Name: "users(role=partner)", Coll: s.userColl, Filter: bson.M{"role": "partner"}},
	})
	snapshot.TotalCustomers = resolveCount(ctx, "totalCustomers", []countSource{
		{Name: "customers", Coll: s.customerColl},
		{Name: "users(role=customer)", Coll: s.userColl, Filter: bson.M{"role": "customer"}},
	})
}

// calcCafeBreakdown đếm quán theo trạng thái duyệt.
func (s *StatsService) calcCafeBreakdown(ctx context.Context, snapshot *models.GlobalStatistics) {
	total, ok := countDocs(ctx, s.cafeColl, nil)
	if !ok {
		logSectionDegraded("cafes")
		return
	}
	snapshot.TotalCafes = total

	if active, ok := countDocs(ctx, s.cafeColl, bson.M{"status": "active"}); ok {
		snapshot.Cafes.Active = active
	}
	if pending, ok := countDocs(ctx, s.cafeColl, bson.M{"status": "pending"}); ok {
		snapshot.Cafes.Pending = pending
	}
	if inactive, ok := countDocs(ctx, s.cafeColl, bson.M{"status": "inactive"}); ok {
		snapshot.Cafes.Inactive = inactive
	}
}

func (s *StatsService) calcProductCounts(ctx context.Context, snapshot *models.GlobalStatistics) {
	if total, ok := countDocs(ctx, s.productColl, nil); ok {
		snapshot.TotalProducts = total
	} else {
		logSectionDegraded("products")
	}
}

// calcSubscriptions đếm thuê bao đang hoạt động và tổng doanh thu thuê bao.
func (s *StatsService) calcSubscriptions(ctx context.Context, snapshot *models.GlobalStatistics) {
	if active, ok := countDocs(ctx, s.subscriptionColl, bson.M{"status": "active"}); ok {
		snapshot.ActiveSubscriptions = active
	} else {
		logSectionDegraded("subscriptions")
		return
	}
	if revenue, ok := sumField(ctx, s.subscriptionColl, bson.M{"status": "active"}, "priceBani"); ok {
		snapshot.SubscriptionRevenueBani = revenue
	}
}

// calcScanActivity đếm scan và doanh thu redemption theo ba khoảng
// today/week/month từ scan_events (nguồn sự thật bất biến).
func (s *StatsService) calcScanActivity(ctx context.Context, snapshot *models.GlobalStatistics, todayStart, weekStart, monthStart int64) {
	if s.eventColl == nil {
		logSectionDegraded("scan_events")
		return
	}

	periods := []struct {
		since int64
		scans *int64
		bani  *int64
	}{
		{todayStart, &snapshot.Scans.Today, &snapshot.RevenueBani.Today},
		{weekStart, &snapshot.Scans.Week, &snapshot.RevenueBani.Week},
		{monthStart, &snapshot.Scans.Month, &snapshot.RevenueBani.Month},
	}

	for _, p := range periods {
		filter := bson.M{"scannedAt": bson.M{"$gte": p.since}}
		if count, ok := countDocs(ctx, s.eventColl, filter); ok {
			*p.scans = count
		}
		if revenue, ok := sumField(ctx, s.eventColl, filter, "earningsBani"); ok {
			*p.bani = revenue
		}
	}
}

// transactionCountSources trả về chuỗi nguồn đếm giao dịch kể từ since:
// transactions (canonical, service thanh toán sở hữu) trước, scan_events sau
// (trên nền tảng cũ mỗi scan chính là một giao dịch redemption).
func (s *StatsService) transactionCountSources(since int64) []countSource {
	return []countSource{
		{Name: "transactions", Coll: s.transactionColl, Filter: bson.M{"createdAt": bson.M{"$gte": since}}},
		{Name: "scan_events(legacy)", Coll: s.eventColl, Filter: bson.M{"scannedAt": bson.M{"$gte": since}}},
	}
}

// calcTransactionActivity đếm giao dịch và khối lượng tiền theo ba khoảng
// today/week/month. Khối lượng (amountBani) chỉ đọc từ transactions —
// scan_events không mang số tiền giao dịch nên không có fallback cho phần này.
func (s *StatsService) calcTransactionActivity(ctx context.Context, snapshot *models.GlobalStatistics, todayStart, weekStart, monthStart int64) {
	periods := []struct {
		metric string
		since  int64
		count  *int64
		bani   *int64
	}{
		{"transactions.today", todayStart, &snapshot.Transactions.Today, &snapshot.TransactionVolumeBani.Today},
		{"transactions.week", weekStart, &snapshot.Transactions.Week, &snapshot.TransactionVolumeBani.Week},
		{"transactions.month", monthStart, &snapshot.Transactions.Month, &snapshot.TransactionVolumeBani.Month},
	}

	for _, p := range periods {
		*p.count = resolveCount(ctx, p.metric, s.transactionCountSources(p.since))
		if volume, ok := sumField(ctx, s.transactionColl, bson.M{"createdAt": bson.M{"$gte": p.since}}, "amountBani"); ok {
			*p.bani = volume
		}
	}
}

func (s *StatsService) calcActiveCarts(ctx context.Context, snapshot *models.GlobalStatistics) {
	if active, ok := countDocs(ctx, s.cartColl, bson.M{"status": "active"}); ok {
		snapshot.ActiveCarts = active
	} else {
		logSectionDegraded("carts")
	}
}

// calcGrowthRates tính tỷ lệ tăng trưởng theo công thức đơn giản hóa
// (xem GrowthRate). Phụ thuộc các section trước nên phải gọi sau cùng.
func (s *StatsService) calcGrowthRates(ctx context.Context, snapshot *models.GlobalStatistics, monthStart int64) {
	if usersThisMonth, ok := countDocs(ctx, s.userColl, bson.M{"createdAt": bson.M{"$gte": monthStart}}); ok {
		snapshot.UserGrowthRate = GrowthRate(usersThisMonth, snapshot.TotalUsers)
	}

	if totalRevenue, ok := sumField(ctx, s.eventColl, nil, "earningsBani"); ok {
		snapshot.RevenueGrowthRate = GrowthRate(snapshot.RevenueBani.Month, totalRevenue)
	}
}

// logSectionDegraded ghi nhận một section về 0 do nguồn không đọc được.
func logSectionDegraded(section string) {
	logger.GetAppLogger().WithError(common.ErrSourceUnavailable).
		WithFields(logrus.Fields{"section": section}).
		Warn("📊 [STATS_RECOMPUTE] Section không đọc được nguồn, nhận giá trị 0")
}

// recordRecomputeFailure tăng streak thất bại; chạm ngưỡng thì gửi email cảnh báo.
func (s *StatsService) recordRecomputeFailure(err error) {
	s.mu.Lock()
	s.failStreak++
	streak := s.failStreak
	s.mu.Unlock()

	logger.GetAppLogger().WithError(err).WithFields(logrus.Fields{"streak": streak}).
		Error("📊 [STATS_RECOMPUTE] Ghi snapshot thất bại")

	if s.alertFailStreak > 0 && streak == s.alertFailStreak && s.alertMailer != nil {
		// Gửi mail ngoài critical path — recompute tiếp theo không chờ SMTP
		go s.alertMailer.SendRecomputeFailureAlert(streak, err)
	}
}

func (s *StatsService) recordRecomputeSuccess() {
	s.mu.Lock()
	s.failStreak = 0
	s.mu.Unlock()
}
