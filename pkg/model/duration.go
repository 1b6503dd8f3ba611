package model

// SplitMinutes 将总分钟数均分给 n 个人员
// 每人分得 total/n 分钟（整除），余数 total%n 由前面的人员每人多分1分钟
// 约束模型的时长变量上界和时段调度器共用这一份分摊规则
func SplitMinutes(total, n int) []int {
	if n <= 0 {
		return nil
	}
	shares := make([]int, n)
	base := total / n
	extra := total % n
	for i := range shares {
		shares[i] = base
		if i < extra {
			shares[i]++
		}
	}
	return shares
}

// MaxShare 返回均分后单个人员的最大分钟数（即场地时段的时长）
func MaxShare(total, n int) int {
	if n <= 0 {
		return 0
	}
	if total%n == 0 {
		return total / n
	}
	return total/n + 1
}
