// Package statssvc - Test công thức tăng trưởng của global aggregator.
package statssvc

import "testing"

func TestGrowthRate(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		total   int64
		want    float64
	}{
		{"chưa có dữ liệu", 0, 0, 0},
		{"toàn bộ là kỳ hiện tại", 10, 10, 100},
		{"total nhỏ hơn current (dữ liệu lệch)", 10, 5, 100},
		{"hiện tại bằng phần còn lại", 50, 100, 100},
		{"hiện tại là 1/4 phần còn lại", 20, 100, 25},
		{"kỳ hiện tại rỗng nhưng có lịch sử", 0, 100, 0},
	}
	for _, tc := range cases {
		if got := GrowthRate(tc.current, tc.total); got != tc.want {
			t.Errorf("%s: GrowthRate(%d, %d) = %v, muốn %v", tc.name, tc.current, tc.total, got, tc.want)
		}
	}
}
