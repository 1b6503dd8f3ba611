// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"fmt"

	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// CoverageBoundsConstraint 覆盖人数边界约束
// 每个有派工的场地日，在场人数必须落在 [min_workers, max_workers]，
// 且同一人员不得在同一场地日出现两次
type CoverageBoundsConstraint struct {
	*BaseConstraint
}

// NewCoverageBoundsConstraint 创建覆盖人数边界约束
func NewCoverageBoundsConstraint() *CoverageBoundsConstraint {
	return &CoverageBoundsConstraint{
		BaseConstraint: NewBaseConstraint(
			"覆盖人数边界",
			constraint.TypeCoverageBounds,
			constraint.CategoryHard,
			100,
		),
	}
}

// Evaluate 评估整个排班
func (c *CoverageBoundsConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for i := range ctx.Problem.Sites {
		site := &ctx.Problem.Sites[i]
		for _, day := range ctx.Problem.Days {
			entries := ctx.SiteDayEntries(site.ID, day)
			if len(entries) == 0 {
				continue
			}

			distinct := make(map[int64]bool, len(entries))
			for _, e := range entries {
				if distinct[e.WorkerID] {
					isValid = false
					totalPenalty += c.Weight()
					violations = append(violations, c.CreateViolation(e.WorkerID, site.ID, day,
						fmt.Sprintf("人员 %d 在场地 %s 的 %s 被重复派工", e.WorkerID, site.Name, day),
						c.Weight()))
				}
				distinct[e.WorkerID] = true
			}

			count := len(distinct)
			if count < site.MinWorkers || count > site.MaxWorkers {
				isValid = false
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(0, site.ID, day,
					fmt.Sprintf("场地 %s 在 %s 派工 %d 人，要求 %d 到 %d 人",
						site.Name, day, count, site.MinWorkers, site.MaxWorkers),
					c.Weight()))
			}
		}
	}

	return isValid, totalPenalty, violations
}
