// Package analyticshdl chứa HTTP handler của domain Analytics.
package analyticshdl

import (
	"fmt"
	"strconv"

	analyticsdto "coffee_share/internal/api/analytics/dto"
	analyticssvc "coffee_share/internal/api/analytics/service"
	basehdl "coffee_share/internal/api/base/handler"
	identitysvc "coffee_share/internal/api/identity/service"
	"coffee_share/internal/common"

	"github.com/gofiber/fiber/v3"
)

// AnalyticsHandler xử lý các endpoint ghi nhận scan và truy vấn report.
type AnalyticsHandler struct {
	analyticsService *analyticssvc.AnalyticsService
	identityService  *identitysvc.IdentityService
}

// NewAnalyticsHandler tạo mới AnalyticsHandler
func NewAnalyticsHandler() (*AnalyticsHandler, error) {
	analyticsService, err := analyticssvc.NewAnalyticsService()
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics service: %v", err)
	}
	identityService, err := identitysvc.NewIdentityService()
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %v", err)
	}

	return &AnalyticsHandler{
		analyticsService: analyticsService,
		identityService:  identityService,
	}, nil
}

// HandleRecordScan ghi nhận một lần quét QR redemption.
//
// Endpoint: POST /api/v1/analytics/scan
// Body: RecordScanInput (partnerId, cafeId, customerId, beans, scannedAt optional)
//
// Toàn bộ side effect (event + daily report + profile) nằm trong một transaction;
// client chỉ thấy hoặc tất cả hoặc không gì cả.
func (h *AnalyticsHandler) HandleRecordScan(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input analyticsdto.RecordScanInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		err := h.analyticsService.RecordScan(c.Context(), input)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleGetDashboard trả về thống kê dashboard của partner (hôm nay + trọn đời).
//
// Endpoint: GET /api/v1/analytics/dashboard?partnerId=...
// Partner chưa có scan nào vẫn trả về 200 với toàn số 0.
func (h *AnalyticsHandler) HandleGetDashboard(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		partnerID := c.Query("partnerId", "")
		if partnerID == "" {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, "Thiếu partnerId", common.StatusBadRequest, nil))
			return nil
		}

		stats, err := h.analyticsService.GetDashboardStats(c.Context(), partnerID)
		basehdl.HandleResponse(c, stats, err)
		return nil
	})
}

// HandleGetReports trả về report tổng hợp theo window của partner.
//
// Endpoint: GET /api/v1/analytics/reports?partnerId=...&days=7
// days: 1 | 7 | 28 | -1 (all time), mặc định 7.
// Header hiển thị được gắn từ collection danh tính (partners trước, users sau).
func (h *AnalyticsHandler) HandleGetReports(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		partnerID := c.Query("partnerId", "")
		if partnerID == "" {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, "Thiếu partnerId", common.StatusBadRequest, nil))
			return nil
		}

		rangeDays, err := strconv.Atoi(c.Query("days", "7"))
		if err != nil || !analyticssvc.IsSupportedRange(rangeDays) {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("days không hợp lệ: %s (hỗ trợ: 1, 7, 28, -1)", c.Query("days")),
				common.StatusBadRequest, nil))
			return nil
		}

		data, err := h.analyticsService.GetReportsData(c.Context(), partnerID, rangeDays)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		// Header chỉ để hiển thị — resolve lỗi không làm hỏng report
		data.Header = h.identityService.ResolvePartnerHeader(c.Context(), partnerID)

		basehdl.HandleResponse(c, data, nil)
		return nil
	})
}
