// Package builtin 提供内置的排班结果校验约束
package builtin

import (
	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
)

// RegisterDefaults 注册默认校验约束到管理器
// 硬约束对应排班必须满足的不变量，软约束只降低得分
func RegisterDefaults(manager *constraint.Manager, config map[string]interface{}) {
	splitTolerance := getConfigInt(config, "split_tolerance_minutes", 1)
	splitWeight := getConfigInt(config, "duration_split_weight", 60)
	fragmentWeight := getConfigInt(config, "fragmentation_weight", 40)

	// 硬约束
	manager.Register(NewCoverageBoundsConstraint())
	manager.Register(NewAvailabilityConstraint())
	manager.Register(NewRegionExclusionConstraint())
	manager.Register(NewMaxHoursPerDayConstraint())
	manager.Register(NewVisitFrequencyConstraint())
	manager.Register(NewVisitGapConstraint())
	manager.Register(NewLinkageConstraint())

	// 软约束
	manager.Register(NewDurationSplitConstraint(splitWeight, splitTolerance))
	manager.Register(NewFragmentationConstraint(fragmentWeight))
}

// getConfigInt 从配置中获取整数
func getConfigInt(config map[string]interface{}, key string, defaultVal int) int {
	if config == nil {
		return defaultVal
	}
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case float64:
			return int(v)
		case int64:
			return int(v)
		}
	}
	return defaultVal
}
