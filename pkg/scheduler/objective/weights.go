// Package objective 组装排班模型的加权目标函数
// 各项权重按数量级严格分层，高层级在常规规模下始终压过低层级
package objective

import (
	"fmt"
)

// Weights 目标函数各项权重
// 字段均为非负系数，惩罚项在组装时取负号
type Weights struct {
	// PriorityFactor 场地覆盖奖励的外层系数（乘以优先级权重）
	PriorityFactor int64 `json:"priority_factor"    yaml:"priority_factor"`
	// ReliabilityFactor 人员可靠度奖励系数
	ReliabilityFactor int64 `json:"reliability_factor" yaml:"reliability_factor"`
	// GroupingPerSite 同组场地当日同人作业的单场地奖励
	GroupingPerSite int64 `json:"grouping_per_site"  yaml:"grouping_per_site"`
	// GroupingFactor 组团奖励的外层系数
	GroupingFactor int64 `json:"grouping_factor"    yaml:"grouping_factor"`
	// BalanceFactor 人员班次数极差的惩罚系数
	BalanceFactor int64 `json:"balance_factor"     yaml:"balance_factor"`
	// OverstaffFactor 超出最少人数的惩罚系数
	OverstaffFactor int64 `json:"overstaff_factor"   yaml:"overstaff_factor"`
	// AssignmentPenalty 每次派工的固定惩罚（防冗余覆盖的决胜项）
	AssignmentPenalty int64 `json:"assignment_penalty" yaml:"assignment_penalty"`
	// FragmentFactor 同日场地对拆班的惩罚系数
	FragmentFactor int64 `json:"fragment_factor"    yaml:"fragment_factor"`
}

// DefaultWeights 默认权重
func DefaultWeights() Weights {
	return Weights{
		PriorityFactor:    10000,
		ReliabilityFactor: 100,
		GroupingPerSite:   50,
		GroupingFactor:    10,
		BalanceFactor:     50,
		OverstaffFactor:   500,
		AssignmentPenalty: 1,
		FragmentFactor:    800,
	}
}

// CoverageFirst 覆盖优先：进一步放大优先级奖励，容忍超配换取覆盖
func CoverageFirst() Weights {
	w := DefaultWeights()
	w.PriorityFactor = 20000
	w.OverstaffFactor = 100
	return w
}

// BalanceFirst 均衡优先：放大班次极差惩罚
func BalanceFirst() Weights {
	w := DefaultWeights()
	w.BalanceFactor = 500
	return w
}

// Profile 按名称返回预置权重
func Profile(name string) (Weights, error) {
	switch name {
	case "", "default":
		return DefaultWeights(), nil
	case "coverage-first":
		return CoverageFirst(), nil
	case "balance-first":
		return BalanceFirst(), nil
	default:
		return Weights{}, fmt.Errorf("未知的权重配置: %q", name)
	}
}

// Validate 校验所有权重非负
func (w Weights) Validate() error {
	fields := map[string]int64{
		"priority_factor":    w.PriorityFactor,
		"reliability_factor": w.ReliabilityFactor,
		"grouping_per_site":  w.GroupingPerSite,
		"grouping_factor":    w.GroupingFactor,
		"balance_factor":     w.BalanceFactor,
		"overstaff_factor":   w.OverstaffFactor,
		"assignment_penalty": w.AssignmentPenalty,
		"fragment_factor":    w.FragmentFactor,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("权重 %s 不能为负: %d", name, v)
		}
	}
	return nil
}
