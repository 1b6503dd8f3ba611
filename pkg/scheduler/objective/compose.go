package objective

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/crewroster/crewroster/pkg/scheduler/solver"
)

// Compose 按权重组装目标函数并交给模型最大化
// 各项依次为：场地覆盖、人员可靠度、同组聚合、班次均衡、
// 超配惩罚、派工惩罚、拆班惩罚
func Compose(m *solver.Model, w Weights) {
	obj := cpmodel.NewLinearExpr()

	addCoverageReward(m, w, obj)
	addReliabilityReward(m, w, obj)
	addGroupingReward(m, w, obj)
	addBalanceTerm(m, w, obj)

	for _, extra := range m.Extras() {
		obj.AddTerm(extra, -w.OverstaffFactor)
	}
	for _, frag := range m.Fragments() {
		obj.AddTerm(frag, -w.FragmentFactor)
	}

	m.Maximize(obj)
}

// addCoverageReward 覆盖奖励，系数为优先级权重乘外层系数
func addCoverageReward(m *solver.Model, w Weights, obj *cpmodel.LinearExpr) {
	for s := range m.Problem.Sites {
		coeff := int64(m.Problem.Sites[s].Priority.Weight()) * w.PriorityFactor
		for d := range m.Problem.Days {
			obj.AddTerm(m.Covered(s, d), coeff)
		}
	}
}

// addReliabilityReward 可靠度奖励与派工惩罚
// 两项都按派工变量线性累加，合并成一个系数
func addReliabilityReward(m *solver.Model, w Weights, obj *cpmodel.LinearExpr) {
	for wk := range m.Problem.Workers {
		coeff := int64(m.Problem.Workers[wk].Reliability)*w.ReliabilityFactor - w.AssignmentPenalty
		for s := range m.Problem.Sites {
			for d := range m.Problem.Days {
				obj.AddTerm(m.Assign(wk, s, d), coeff)
			}
		}
	}
}

// addGroupingReward 同组聚合奖励
// 同一人同一天作业某组内的场地，按场地数线性记奖
func addGroupingReward(m *solver.Model, w Weights, obj *cpmodel.LinearExpr) {
	coeff := w.GroupingPerSite * w.GroupingFactor
	if coeff == 0 {
		return
	}
	for _, ids := range m.Problem.Groups {
		for _, id := range ids {
			s, ok := m.Problem.SiteIndex(id)
			if !ok {
				continue
			}
			for wk := range m.Problem.Workers {
				for d := range m.Problem.Days {
					obj.AddTerm(m.Assign(wk, s, d), coeff)
				}
			}
		}
	}
}

// addBalanceTerm 班次均衡项
// 以全体人员班次数的极差作为惩罚，极差通过最值变量表达
func addBalanceTerm(m *solver.Model, w Weights, obj *cpmodel.LinearExpr) {
	if w.BalanceFactor == 0 {
		return
	}
	b := m.Builder()
	ub := int64(len(m.Problem.Sites) * len(m.Problem.Days))

	loads := make([]cpmodel.LinearArgument, 0, len(m.Problem.Workers))
	for wk := range m.Problem.Workers {
		load := cpmodel.NewLinearExpr()
		for s := range m.Problem.Sites {
			for d := range m.Problem.Days {
				load.Add(m.Assign(wk, s, d))
			}
		}
		loads = append(loads, load)
	}

	minLoad := b.NewIntVar(0, ub)
	maxLoad := b.NewIntVar(0, ub)
	b.AddMinEquality(minLoad, loads...)
	b.AddMaxEquality(maxLoad, loads...)

	obj.AddTerm(minLoad, w.BalanceFactor)
	obj.AddTerm(maxLoad, -w.BalanceFactor)
}
