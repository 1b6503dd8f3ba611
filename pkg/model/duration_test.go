package model

import (
	"testing"
)

// 分摊规则：整除部分均分，余数由前 total%n 个人员每人多分1分钟
// 约束模型与时段调度器共用该规则，此处用回归用例钉死舍入行为
func TestSplitMinutes(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		n        int
		expected []int
	}{
		{name: "整除_8小时3人无余数", total: 480, n: 3, expected: []int{160, 160, 160}},
		{name: "余数分给前面的人_500分钟3人", total: 500, n: 3, expected: []int{167, 167, 166}},
		{name: "单人独占", total: 420, n: 1, expected: []int{420}},
		{name: "9小时4人", total: 540, n: 4, expected: []int{135, 135, 135, 135}},
		{name: "人数多于分钟数", total: 2, n: 3, expected: []int{1, 1, 0}},
		{name: "零工时", total: 0, n: 2, expected: []int{0, 0}},
		{name: "零人数返回nil", total: 480, n: 0, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMinutes(tt.total, tt.n)
			if len(got) != len(tt.expected) {
				t.Fatalf("SplitMinutes(%d, %d) 返回 %d 份, expected %d 份",
					tt.total, tt.n, len(got), len(tt.expected))
			}
			sum := 0
			for i, share := range got {
				if share != tt.expected[i] {
					t.Errorf("SplitMinutes(%d, %d)[%d] = %d, expected %d",
						tt.total, tt.n, i, share, tt.expected[i])
				}
				sum += share
			}
			if tt.n > 0 && sum != tt.total {
				t.Errorf("分摊总和 = %d, expected %d", sum, tt.total)
			}
		})
	}
}

func TestSplitMinutes_相邻份额差不超过1分钟(t *testing.T) {
	for total := 0; total <= 600; total += 7 {
		for n := 1; n <= 6; n++ {
			shares := SplitMinutes(total, n)
			min, max := shares[0], shares[0]
			for _, s := range shares {
				if s < min {
					min = s
				}
				if s > max {
					max = s
				}
			}
			if max-min > 1 {
				t.Fatalf("SplitMinutes(%d, %d) 份额极差 %d 超过1分钟", total, n, max-min)
			}
		}
	}
}

func TestMaxShare(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		n        int
		expected int
	}{
		{name: "整除", total: 480, n: 3, expected: 160},
		{name: "有余数向上取整", total: 500, n: 3, expected: 167},
		{name: "单人", total: 420, n: 1, expected: 420},
		{name: "零人数", total: 480, n: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxShare(tt.total, tt.n); got != tt.expected {
				t.Errorf("MaxShare(%d, %d) = %d, expected %d", tt.total, tt.n, got, tt.expected)
			}
		})
	}
}
