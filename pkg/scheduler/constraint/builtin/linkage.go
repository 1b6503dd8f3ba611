// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"fmt"

	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// LinkageConstraint 关联场地约束
// 间隔为零的关联对必须同日作业；间隔大于零时双方都必须被安排，
// 且任意两次访问的日程位置差不小于声明间隔
type LinkageConstraint struct {
	*BaseConstraint
}

// NewLinkageConstraint 创建关联场地约束
func NewLinkageConstraint() *LinkageConstraint {
	return &LinkageConstraint{
		BaseConstraint: NewBaseConstraint(
			"关联场地",
			constraint.TypeLinkage,
			constraint.CategoryHard,
			100,
		),
	}
}

// Evaluate 评估整个排班
func (c *LinkageConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for _, pair := range ctx.Problem.LinkedPairs {
		coveredA := ctx.CoveredDayIndexes(pair.SiteA)
		coveredB := ctx.CoveredDayIndexes(pair.SiteB)

		if pair.Gap == 0 {
			if !sameDays(coveredA, coveredB) {
				isValid = false
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(0, pair.SiteA, "",
					fmt.Sprintf("关联场地 %d 与 %d 要求同日作业，覆盖日不一致", pair.SiteA, pair.SiteB),
					c.Weight()))
			}
			continue
		}

		if len(coveredA) == 0 || len(coveredB) == 0 {
			isValid = false
			totalPenalty += c.Weight()
			violations = append(violations, c.CreateViolation(0, pair.SiteA, "",
				fmt.Sprintf("关联场地 %d 与 %d 双方都必须被安排", pair.SiteA, pair.SiteB),
				c.Weight()))
			continue
		}

		for _, da := range coveredA {
			for _, db := range coveredB {
				dist := da - db
				if dist < 0 {
					dist = -dist
				}
				if dist < pair.Gap {
					isValid = false
					totalPenalty += c.Weight()
					violations = append(violations, c.CreateViolation(0, pair.SiteA, ctx.Problem.Days[da],
						fmt.Sprintf("关联场地 %d 与 %d 的访问间隔 %d 天，要求至少 %d 天",
							pair.SiteA, pair.SiteB, dist, pair.Gap),
						c.Weight()))
				}
			}
		}
	}

	return isValid, totalPenalty, violations
}

// sameDays 比较两个升序日程位置序列是否一致
func sameDays(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
