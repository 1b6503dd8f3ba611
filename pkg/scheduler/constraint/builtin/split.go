// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"fmt"

	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// DurationSplitConstraint 工时均分一致性约束（软）
// 场地日的工时分摊之和应等于场地总分钟数，且任意两人分摊
// 之差不超过容差。违反只降低得分，不否决排班
type DurationSplitConstraint struct {
	*BaseConstraint
	toleranceMinutes int
}

// NewDurationSplitConstraint 创建工时均分一致性约束
func NewDurationSplitConstraint(weight, toleranceMinutes int) *DurationSplitConstraint {
	return &DurationSplitConstraint{
		BaseConstraint: NewBaseConstraint(
			"工时均分一致性",
			constraint.TypeDurationSplit,
			constraint.CategorySoft,
			weight,
		),
		toleranceMinutes: toleranceMinutes,
	}
}

// Evaluate 评估整个排班
func (c *DurationSplitConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0

	for i := range ctx.Problem.Sites {
		site := &ctx.Problem.Sites[i]
		for _, day := range ctx.Problem.Days {
			entries := ctx.SiteDayEntries(site.ID, day)
			if len(entries) == 0 {
				continue
			}

			sum := 0
			minShare, maxShare := entries[0].Share, entries[0].Share
			for _, e := range entries {
				sum += e.Share
				if e.Share < minShare {
					minShare = e.Share
				}
				if e.Share > maxShare {
					maxShare = e.Share
				}
			}

			if sum != site.TotalMinutes() {
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(0, site.ID, day,
					fmt.Sprintf("场地 %s 在 %s 的工时分摊合计 %d 分钟，应为 %d 分钟",
						site.Name, day, sum, site.TotalMinutes()),
					c.Weight()))
			}
			if maxShare-minShare > c.toleranceMinutes {
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(0, site.ID, day,
					fmt.Sprintf("场地 %s 在 %s 的工时分摊相差 %d 分钟，超出容差 %d 分钟",
						site.Name, day, maxShare-minShare, c.toleranceMinutes),
					c.Weight()))
			}
		}
	}

	return len(violations) == 0, totalPenalty, violations
}
