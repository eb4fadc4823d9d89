package statssvc

import (
	"context"
	"time"

	analyticssvc "coffee_share/internal/api/analytics/service"
	"coffee_share/internal/api/stats/models"
	"coffee_share/internal/common"
	"coffee_share/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WriteDailySnapshot ghi snapshot gọn của ngày hôm nay, suy ra từ
// GlobalStatistics hiện tại. _id = dateKey và chỉ $setOnInsert nên mỗi ngày
// ghi tối đa MỘT lần — gọi lại trong cùng ngày là no-op, không đè dữ liệu.
func (s *StatsService) WriteDailySnapshot(ctx context.Context) error {
	snapshot, err := s.GetGlobalStatistics(ctx, 0)
	if err != nil {
		return err
	}

	now := time.Now().In(statsLocation())
	dateKey := analyticssvc.DayKeyFromTime(now)

	daily := models.DailyStatistics{
		DateKey:          dateKey,
		TotalUsers:       snapshot.TotalUsers,
		TotalPartners:    snapshot.TotalPartners,
		TotalCafes:       snapshot.TotalCafes,
		ScansToday:       snapshot.Scans.Today,
		RevenueTodayBani: snapshot.RevenueBani.Today,
		ActiveCarts:      snapshot.ActiveCarts,
		CreatedAt:        time.Now().Unix(),
	}

	opts := options.Update().SetUpsert(true)
	result, err := s.dailyColl.UpdateOne(ctx,
		bson.M{"_id": dateKey},
		bson.M{"$setOnInsert": daily},
		opts)
	if err != nil {
		return common.ConvertMongoError(err)
	}

	if result.UpsertedCount > 0 {
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"dateKey":    dateKey,
			"totalUsers": daily.TotalUsers,
			"scansToday": daily.ScansToday,
		}).Info("📅 [DAILY_SNAPSHOT] Đã ghi snapshot ngày")
	}
	return nil
}

// ListDailySnapshots đọc các snapshot ngày trong khoảng [fromKey, toKey]
// (bao gồm hai đầu), sort theo dateKey tăng dần. Key rỗng = không giới hạn
// phía đó.
func (s *StatsService) ListDailySnapshots(ctx context.Context, fromKey, toKey string) ([]models.DailyStatistics, error) {
	filter := bson.M{}
	dateCond := bson.M{}
	if fromKey != "" {
		dateCond["$gte"] = fromKey
	}
	if toKey != "" {
		dateCond["$lte"] = toKey
	}
	if len(dateCond) > 0 {
		filter["dateKey"] = dateCond
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "dateKey", Value: 1}})
	cursor, err := s.dailyColl.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var snapshots []models.DailyStatistics
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return snapshots, nil
}
