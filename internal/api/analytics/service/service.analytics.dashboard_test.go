// Package analyticssvc - Test các hàm trung bình theo ngày của dashboard.
package analyticssvc

import "testing"

func TestDaysSinceFirstScan(t *testing.T) {
	const day = int64(86400)
	now := int64(1760000000)

	cases := []struct {
		name        string
		firstScanAt int64
		want        int64
	}{
		{"chưa từng scan", 0, 1},
		{"scan đầu tiên vừa xảy ra", now, 1},
		{"firstScanAt trong tương lai (clock skew)", now + day, 1},
		{"nửa ngày trước → làm tròn lên 1", now - day/2, 1},
		{"đúng 1 ngày trước", now - day, 1},
		{"1 ngày rưỡi trước → làm tròn lên 2", now - day - day/2, 2},
		{"10 ngày trước", now - 10*day, 10},
	}
	for _, tc := range cases {
		if got := DaysSinceFirstScan(tc.firstScanAt, now); got != tc.want {
			t.Errorf("%s: DaysSinceFirstScan = %d, muốn %d", tc.name, got, tc.want)
		}
	}
}

func TestAveragePerDayBani(t *testing.T) {
	const day = int64(86400)
	now := int64(1760000000)

	// 1000 bani trong 10 ngày → 100 bani/ngày
	if got := averagePerDayBani(1000, now-10*day, now); got != 100 {
		t.Errorf("averagePerDayBani = %d, muốn 100", got)
	}
	// Partner mới (firstScanAt = 0) → chia cho 1, không chia cho 0
	if got := averagePerDayBani(500, 0, now); got != 500 {
		t.Errorf("averagePerDayBani partner mới = %d, muốn 500", got)
	}
}

func TestIsSupportedRange(t *testing.T) {
	for _, r := range []int{RangeDay, RangeWeek, RangeMonth, RangeAllTime} {
		if !IsSupportedRange(r) {
			t.Errorf("IsSupportedRange(%d) = false, muốn true", r)
		}
	}
	for _, r := range []int{0, 2, 14, 30, 365} {
		if IsSupportedRange(r) {
			t.Errorf("IsSupportedRange(%d) = true, muốn false (tập window cố định)", r)
		}
	}
}
