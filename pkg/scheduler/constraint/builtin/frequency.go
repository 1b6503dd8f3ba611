// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"fmt"

	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// VisitFrequencyConstraint 访问频次约束
// 声明了频次的场地必须恰好覆盖对应次数，未声明的最多一次；
// 仅声明固定日的场地只允许在固定日作业，同时声明频次与固定日的
// 场地至少有一次访问落在固定日上
type VisitFrequencyConstraint struct {
	*BaseConstraint
}

// NewVisitFrequencyConstraint 创建访问频次约束
func NewVisitFrequencyConstraint() *VisitFrequencyConstraint {
	return &VisitFrequencyConstraint{
		BaseConstraint: NewBaseConstraint(
			"访问频次",
			constraint.TypeVisitFrequency,
			constraint.CategoryHard,
			100,
		),
	}
}

// Evaluate 评估整个排班
func (c *VisitFrequencyConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for i := range ctx.Problem.Sites {
		site := &ctx.Problem.Sites[i]
		covered := ctx.CoveredDayIndexes(site.ID)
		n := len(covered)

		if site.VisitDeclared() {
			if n != site.VisitCount() {
				isValid = false
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(0, site.ID, "",
					fmt.Sprintf("场地 %s 每周应访问 %d 次，实际 %d 次", site.Name, site.VisitCount(), n),
					c.Weight()))
			}
		} else if n > 1 {
			isValid = false
			totalPenalty += c.Weight()
			violations = append(violations, c.CreateViolation(0, site.ID, "",
				fmt.Sprintf("场地 %s 未声明访问频次，最多访问一次，实际 %d 次", site.Name, n),
				c.Weight()))
		}

		if len(site.RequiredDays) == 0 {
			continue
		}
		required := make(map[model.DayOfWeek]bool, len(site.RequiredDays))
		for _, d := range site.RequiredDays {
			required[d] = true
		}

		if site.VisitsPerWeek == nil {
			// 仅声明固定日：所有作业都必须落在固定日
			for _, d := range covered {
				day := ctx.Problem.Days[d]
				if !required[day] {
					isValid = false
					totalPenalty += c.Weight()
					violations = append(violations, c.CreateViolation(0, site.ID, day,
						fmt.Sprintf("场地 %s 只允许在固定日作业，%s 不是固定日", site.Name, day),
						c.Weight()))
				}
			}
		} else if n > 0 {
			// 两者都声明：至少一次访问落在固定日
			hit := false
			for _, d := range covered {
				if required[ctx.Problem.Days[d]] {
					hit = true
					break
				}
			}
			if !hit {
				isValid = false
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(0, site.ID, "",
					fmt.Sprintf("场地 %s 的访问未落在任何固定日", site.Name),
					c.Weight()))
			}
		}
	}

	return isValid, totalPenalty, violations
}

// VisitGapConstraint 访问间隔约束
// 同一场地相邻两次访问的日程位置差不得小于声明的最小间隔
type VisitGapConstraint struct {
	*BaseConstraint
}

// NewVisitGapConstraint 创建访问间隔约束
func NewVisitGapConstraint() *VisitGapConstraint {
	return &VisitGapConstraint{
		BaseConstraint: NewBaseConstraint(
			"访问间隔",
			constraint.TypeVisitGap,
			constraint.CategoryHard,
			100,
		),
	}
}

// Evaluate 评估整个排班
func (c *VisitGapConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for i := range ctx.Problem.Sites {
		site := &ctx.Problem.Sites[i]
		gap := site.MinGap()
		if gap <= 1 {
			continue
		}
		covered := ctx.CoveredDayIndexes(site.ID)
		for j := 1; j < len(covered); j++ {
			if dist := covered[j] - covered[j-1]; dist < gap {
				isValid = false
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(0, site.ID, ctx.Problem.Days[covered[j]],
					fmt.Sprintf("场地 %s 两次访问间隔 %d 天，要求至少 %d 天", site.Name, dist, gap),
					c.Weight()))
			}
		}
	}

	return isValid, totalPenalty, violations
}
