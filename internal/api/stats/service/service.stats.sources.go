package statssvc

import (
	"context"

	"coffee_share/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// resolveStatus là kết quả thử một nguồn dữ liệu.
type resolveStatus int

const (
	srcFound       resolveStatus = iota // Nguồn trả về dữ liệu
	srcNotFound                         // Nguồn đọc được nhưng rỗng — thử nguồn tiếp theo
	srcUnavailable                      // Nguồn không đọc được (nil / lỗi query)
)

func (s resolveStatus) String() string {
	switch s {
	case srcFound:
		return "found"
	case srcNotFound:
		return "not-found"
	case srcUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// countSource là một nguồn đếm có tên trong chuỗi resolve ưu tiên.
// Collection canonical (partners, customers) đứng trước collection legacy
// (users lọc theo role) — đây là CHÍNH SÁCH của aggregator, không phải tối ưu.
type countSource struct {
	Name   string
	Coll   *mongo.Collection
	Filter bson.M
}

// resolveCount thử lần lượt các nguồn theo thứ tự ưu tiên và trả về count
// của nguồn đầu tiên có dữ liệu. Mỗi nguồn được gắn tag found / not-found /
// unavailable; đường đi resolve được log lại để vận hành truy vết được
// section nào đã rơi xuống legacy.
//
// Mọi nguồn đều cạn → trả về 0 (không phải lỗi — collection chưa được tạo
// là trạng thái hợp lệ của một nền tảng đang lớn dần).
func resolveCount(ctx context.Context, metric string, sources []countSource) int64 {
	for _, src := range sources {
		status, count := tryCountSource(ctx, src)
		switch status {
		case srcFound:
			return count
		case srcNotFound:
			continue
		case srcUnavailable:
			logger.GetAppLogger().WithFields(logrus.Fields{
				"metric": metric,
				"source": src.Name,
				"status": status.String(),
			}).Warn("📊 [STATS_SOURCE] Nguồn không khả dụng, thử nguồn tiếp theo")
			continue
		}
	}

	logger.GetAppLogger().WithFields(logrus.Fields{"metric": metric}).
		Debug("📊 [STATS_SOURCE] Mọi nguồn đều cạn, section nhận giá trị 0")
	return 0
}

// tryCountSource đếm trên một nguồn và gắn tag kết quả.
func tryCountSource(ctx context.Context, src countSource) (resolveStatus, int64) {
	if src.Coll == nil {
		return srcUnavailable, 0
	}
	filter := src.Filter
	if filter == nil {
		filter = bson.M{}
	}
	count, err := src.Coll.CountDocuments(ctx, filter)
	if err != nil {
		return srcUnavailable, 0
	}
	if count == 0 {
		return srcNotFound, 0
	}
	return srcFound, count
}

// sumField tính tổng một field số trên các document khớp filter bằng pipeline
// $group/$sum. Lỗi hay collection nil trả về (0, false) để caller guard section.
func sumField(ctx context.Context, coll *mongo.Collection, filter bson.M, field string) (int64, bool) {
	if coll == nil {
		return 0, false
	}
	if filter == nil {
		filter = bson.M{}
	}

	pipeline := []bson.M{
		{"$match": filter},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$" + field},
		}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false
	}
	defer cursor.Close(ctx)

	var result struct {
		Total int64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, false
		}
		return result.Total, true
	}
	// Không có document nào khớp — tổng 0 là kết quả đúng, không phải lỗi
	return 0, true
}

// countDocs đếm trên một collection duy nhất, 0 khi lỗi hoặc collection nil.
func countDocs(ctx context.Context, coll *mongo.Collection, filter bson.M) (int64, bool) {
	if coll == nil {
		return 0, false
	}
	if filter == nil {
		filter = bson.M{}
	}
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, false
	}
	return count, true
}
