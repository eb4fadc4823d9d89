// Package models - ScanEvent thuộc domain Analytics.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScanEvent là một sự kiện redemption bất biến (scan_events).
// Append-only: tạo một lần cho mỗi lần quét, không bao giờ sửa hay xóa.
type ScanEvent struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // MongoDB _id
	PartnerID    string             `json:"partnerId" bson:"partnerId"`        // Firebase UID của partner
	CafeID       string             `json:"cafeId" bson:"cafeId"`              // Quán nơi quét
	CustomerID   string             `json:"customerId" bson:"customerId"`      // Khách hàng được quét
	Beans        int64              `json:"beans" bson:"beans"`                // Số bean tiêu thụ (> 0)
	EarningsBani int64              `json:"earningsBani" bson:"earningsBani"`  // Beans × tỷ giá, chốt tại thời điểm ghi (bani = RON/100)
	ScannedAt    int64              `json:"scannedAt" bson:"scannedAt"`        // Unix seconds
	DayKey       string             `json:"dayKey" bson:"dayKey"`              // YYYY-MM-DD theo ReportTimezone
}
