// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"fmt"

	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// MaxHoursPerDayConstraint 每日最大工时约束
// 人员当日各场地工时分摊之和不得超过全局上限，
// 每处作业允许1分钟的分摊取整误差
type MaxHoursPerDayConstraint struct {
	*BaseConstraint
}

// NewMaxHoursPerDayConstraint 创建每日最大工时约束
func NewMaxHoursPerDayConstraint() *MaxHoursPerDayConstraint {
	return &MaxHoursPerDayConstraint{
		BaseConstraint: NewBaseConstraint(
			"每日最大工时",
			constraint.TypeMaxHoursPerDay,
			constraint.CategoryHard,
			100,
		),
	}
}

// Evaluate 评估整个排班
func (c *MaxHoursPerDayConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	limit := ctx.Problem.MaxMinutesPerDay
	for i := range ctx.Problem.Workers {
		worker := &ctx.Problem.Workers[i]
		for _, day := range ctx.Problem.Days {
			minutes, sites := ctx.WorkerShareOnDay(worker.ID, day)
			if sites == 0 {
				continue
			}
			tolerance := sites
			if minutes > limit+tolerance {
				isValid = false
				over := minutes - limit
				penalty := c.Weight() * (over + model.MinutesPerHour - 1) / model.MinutesPerHour
				totalPenalty += penalty
				violations = append(violations, c.CreateViolation(worker.ID, 0, day,
					fmt.Sprintf("人员 %s 在 %s 工作 %.1f 小时，超过限制 %.1f 小时",
						worker.Name, day,
						float64(minutes)/model.MinutesPerHour,
						float64(limit)/model.MinutesPerHour),
					penalty))
			}
		}
	}

	return isValid, totalPenalty, violations
}
