// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"fmt"

	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// FragmentationConstraint 拆班约束（软）
// 同一天内，若有人同时负责场地对 (a,b)、又有人只负责 b，
// b 的班组就被拆散了。目标函数已惩罚这种结构，这里按场地对记告警
type FragmentationConstraint struct {
	*BaseConstraint
}

// NewFragmentationConstraint 创建拆班约束
func NewFragmentationConstraint(weight int) *FragmentationConstraint {
	return &FragmentationConstraint{
		BaseConstraint: NewBaseConstraint(
			"班组完整性",
			constraint.TypeFragmentation,
			constraint.CategorySoft,
			weight,
		),
	}
}

// Evaluate 评估整个排班
func (c *FragmentationConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0

	for _, day := range ctx.Problem.Days {
		crews := make(map[int64]map[int64]bool) // 场地 → 当日人员集合
		for i := range ctx.Problem.Sites {
			site := &ctx.Problem.Sites[i]
			entries := ctx.SiteDayEntries(site.ID, day)
			if len(entries) == 0 {
				continue
			}
			crew := make(map[int64]bool, len(entries))
			for _, e := range entries {
				crew[e.WorkerID] = true
			}
			crews[site.ID] = crew
		}

		for a, crewA := range crews {
			for b, crewB := range crews {
				if a == b {
					continue
				}
				if fragmented(crewA, crewB) {
					totalPenalty += c.Weight()
					violations = append(violations, c.CreateViolation(0, b, day,
						fmt.Sprintf("场地 %d 与 %d 在 %s 出现拆班换人", a, b, day),
						c.Weight()))
				}
			}
		}
	}

	return len(violations) == 0, totalPenalty, violations
}

// fragmented 判断场地对 (a,b) 是否拆班：
// 既有人同时在 a 与 b 作业，又有人只在 b 作业
func fragmented(crewA, crewB map[int64]bool) bool {
	shared := false
	joiner := false
	for w := range crewB {
		if crewA[w] {
			shared = true
		} else {
			joiner = true
		}
	}
	return shared && joiner
}
