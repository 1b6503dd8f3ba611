// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"fmt"

	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// AvailabilityConstraint 可用日约束
// 人员只能被派到其声明可用的工作日
type AvailabilityConstraint struct {
	*BaseConstraint
}

// NewAvailabilityConstraint 创建可用日约束
func NewAvailabilityConstraint() *AvailabilityConstraint {
	return &AvailabilityConstraint{
		BaseConstraint: NewBaseConstraint(
			"人员可用日",
			constraint.TypeAvailability,
			constraint.CategoryHard,
			100,
		),
	}
}

// Evaluate 评估整个排班
func (c *AvailabilityConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for i := range ctx.Problem.Workers {
		worker := &ctx.Problem.Workers[i]
		for _, e := range ctx.WorkerEntries(worker.ID) {
			if !worker.AvailableOn(e.Day) {
				isValid = false
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(worker.ID, e.SiteID, e.Day,
					fmt.Sprintf("人员 %s 在 %s 不可用，却被派往场地 %d", worker.Name, e.Day, e.SiteID),
					c.Weight()))
			}
		}
	}

	return isValid, totalPenalty, violations
}

// RegionExclusionConstraint 区域排除约束
// 人员不得被派往其排除区域内的场地
type RegionExclusionConstraint struct {
	*BaseConstraint
}

// NewRegionExclusionConstraint 创建区域排除约束
func NewRegionExclusionConstraint() *RegionExclusionConstraint {
	return &RegionExclusionConstraint{
		BaseConstraint: NewBaseConstraint(
			"区域排除",
			constraint.TypeRegionExclusion,
			constraint.CategoryHard,
			100,
		),
	}
}

// Evaluate 评估整个排班
func (c *RegionExclusionConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for i := range ctx.Problem.Workers {
		worker := &ctx.Problem.Workers[i]
		if worker.ExcludedRegion == "" {
			continue
		}
		for _, e := range ctx.WorkerEntries(worker.ID) {
			site := ctx.Problem.SiteByID(e.SiteID)
			if site == nil {
				continue
			}
			if !worker.CanWorkRegion(site.Region) {
				isValid = false
				totalPenalty += c.Weight()
				violations = append(violations, c.CreateViolation(worker.ID, site.ID, e.Day,
					fmt.Sprintf("人员 %s 排除了 %s 区域，却被派往场地 %s", worker.Name, worker.ExcludedRegion, site.Name),
					c.Weight()))
			}
		}
	}

	return isValid, totalPenalty, violations
}
