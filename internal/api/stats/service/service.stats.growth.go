package statssvc

// GrowthRate tính tỷ lệ tăng trưởng (%) theo công thức đơn giản hóa:
// kỳ hiện tại so với PHẦN CÒN LẠI (tổng trừ kỳ hiện tại), không phải so với
// kỳ liền trước thật sự. Đây là công thức kế thừa từ phiên bản đầu của
// dashboard và được giữ nguyên có chủ đích cho đến khi product chốt định
// nghĩa tăng trưởng kỳ-so-kỳ.
//
// Quy ước biên:
//   - total <= current (chưa có lịch sử): current > 0 → 100%, ngược lại 0%
//   - phần còn lại > 0: current/remainder * 100
func GrowthRate(current, total int64) float64 {
	remainder := total - current
	if remainder <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current) / float64(remainder) * 100
}
