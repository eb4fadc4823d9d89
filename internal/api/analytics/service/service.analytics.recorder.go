// Package analyticssvc - Event Recorder: ghi nhận một scan và cập nhật
// hai aggregate phụ thuộc (daily report, profile) trong cùng một transaction.
package analyticssvc

import (
	"context"
	"time"

	analyticsdto "coffee_share/internal/api/analytics/dto"
	analyticsmodels "coffee_share/internal/api/analytics/models"
	"coffee_share/internal/api/events"
	"coffee_share/internal/common"
	"coffee_share/internal/global"
	"coffee_share/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// maxTxAttempts là retry budget của transaction ghi scan.
	// Hết budget → ErrConflict, flow redemption không được coi là hoàn tất.
	maxTxAttempts = 5

	// txRetryBackoff là bước backoff tuyến tính giữa các lần thử lại.
	txRetryBackoff = 50 * time.Millisecond
)

// RecordScan ghi nhận một lần quét: validate input, rồi trong MỘT transaction
// nguyên tử ghi ScanEvent bất biến + upsert daily report + upsert profile.
// Tất cả reads được thực hiện trước mọi writes — ràng buộc cứng của transaction
// model tầng lưu trữ.
//
// Trả về:
//   - common.ErrValidation nếu input không hợp lệ (Beans <= 0, thiếu id)
//   - common.ErrConflict nếu transaction không commit được sau maxTxAttempts
func (s *AnalyticsService) RecordScan(ctx context.Context, input analyticsdto.RecordScanInput) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.WrapError(common.ErrValidation, err)
	}
	// validator gt=0 đã chặn, nhưng Beans là invariant của toàn bộ pipeline
	if input.Beans <= 0 {
		return common.ErrValidation
	}

	loc, err := reportLocation()
	if err != nil {
		return err
	}

	scannedAt := input.ScannedAt
	if scannedAt == 0 {
		scannedAt = time.Now().Unix()
	}
	t := time.Unix(scannedAt, 0).In(loc)

	event := analyticsmodels.ScanEvent{
		PartnerID:  input.PartnerID,
		CafeID:     input.CafeID,
		CustomerID: input.CustomerID,
		Beans:      input.Beans,
		// Earnings chốt tại thời điểm ghi — đổi tỷ giá sau này không ảnh hưởng
		// các report lịch sử
		EarningsBani: DeriveEarningsBani(input.Beans, s.rateBaniBean),
		ScannedAt:    scannedAt,
		DayKey:       DayKeyFromTime(t),
	}
	hour := t.Hour()

	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.runScanTransaction(ctx, event, hour)
		if err == nil {
			// Tín hiệu cho scheduler — consumer luôn tính lại từ dữ liệu nguồn,
			// nên tín hiệu trùng lặp vô hại
			events.EmitDataChanged(context.WithoutCancel(ctx), events.DataChangeEvent{
				CollectionName: global.MongoDB_ColNames.ScanEvents,
				Operation:      events.OpInsert,
				Document:       &event,
			})
			return nil
		}
		if !common.IsTransientTxError(err) {
			return common.ConvertMongoError(err)
		}
		lastErr = err
		logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
			"partnerId": event.PartnerID,
			"dayKey":    event.DayKey,
			"attempt":   attempt,
		}).Warn("☕ [RECORD_SCAN] Transaction conflict, thử lại")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * txRetryBackoff):
		}
	}

	logger.GetAppLogger().WithError(lastErr).WithFields(map[string]interface{}{
		"partnerId": event.PartnerID,
		"dayKey":    event.DayKey,
		"attempts":  maxTxAttempts,
	}).Error("☕ [RECORD_SCAN] Không commit được scan, hết retry budget")
	return common.WrapError(common.ErrConflict, lastErr)
}

// runScanTransaction chạy một lần transaction: reads trước, writes sau.
func (s *AnalyticsService) runScanTransaction(ctx context.Context, event analyticsmodels.ScanEvent, hour int) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	return mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}

		// ===== READS — toàn bộ trước mọi write =====
		reportID := analyticsmodels.DailyReportID(event.PartnerID, event.DayKey)

		var existingReport *analyticsmodels.PartnerDailyReport
		var report analyticsmodels.PartnerDailyReport
		err := s.dailyColl.FindOne(sc, bson.M{"_id": reportID}).Decode(&report)
		switch {
		case err == nil:
			existingReport = &report
		case err == mongo.ErrNoDocuments:
			existingReport = nil
		default:
			_ = session.AbortTransaction(sc)
			return err
		}

		var existingProfile *analyticsmodels.PartnerAnalyticsProfile
		var profile analyticsmodels.PartnerAnalyticsProfile
		err = s.profileColl.FindOne(sc, bson.M{"_id": event.PartnerID}).Decode(&profile)
		switch {
		case err == nil:
			existingProfile = &profile
		case err == mongo.ErrNoDocuments:
			existingProfile = nil
		default:
			_ = session.AbortTransaction(sc)
			return err
		}

		// ===== WRITES =====
		// (a) event bất biến
		if _, err := s.eventColl.InsertOne(sc, event); err != nil {
			_ = session.AbortTransaction(sc)
			return err
		}

		// (b) daily report: create-or-increment qua quy tắc thuần
		updatedReport := ApplyScanToDailyReport(existingReport, event, hour)
		if _, err := s.dailyColl.ReplaceOne(sc, bson.M{"_id": updatedReport.ID}, updatedReport,
			options.Replace().SetUpsert(true)); err != nil {
			_ = session.AbortTransaction(sc)
			return err
		}

		// (c) profile trọn đời: create-or-increment tương tự
		updatedProfile := ApplyScanToProfile(existingProfile, event)
		if _, err := s.profileColl.ReplaceOne(sc, bson.M{"_id": updatedProfile.ID}, updatedProfile,
			options.Replace().SetUpsert(true)); err != nil {
			_ = session.AbortTransaction(sc)
			return err
		}

		return session.CommitTransaction(sc)
	})
}
