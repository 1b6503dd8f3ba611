package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/crewroster/crewroster/pkg/model"
)

// addDurationConstraints 工时变量语义
// 小时按系数60放大为整数分钟，避免引擎做实数除法：
// 未派工的工时为零；覆盖时全体在场人员工时之和等于场地总分钟数；
// 任意两名同时在场人员的工时之差不超过1分钟；
// 人员每日各场地工时之和不超过全局每日上限
func (m *Model) addDurationConstraints() {
	for s := range m.Problem.Sites {
		site := &m.Problem.Sites[s]
		total := site.TotalMinutes()
		ub := int64(model.MaxShare(total, site.MinWorkers))
		for d := range m.Problem.Days {
			cov := m.covered[coverKey{s, d}]
			sum := cpmodel.NewLinearExpr()
			for w := range m.Problem.Workers {
				key := assignKey{w, s, d}
				dur := m.builder.NewIntVar(0, ub)
				m.minutes[key] = dur
				Unless(m.builder.AddEquality(dur, m.builder.NewConstant(0)), m.assign[key])
				sum.Add(dur)
			}
			When(m.builder.AddEquality(sum, m.builder.NewConstant(int64(total))), cov)

			for w1 := 0; w1 < len(m.Problem.Workers); w1++ {
				for w2 := w1 + 1; w2 < len(m.Problem.Workers); w2++ {
					diff := cpmodel.NewLinearExpr().
						AddTerm(m.minutes[assignKey{w1, s, d}], 1).
						AddTerm(m.minutes[assignKey{w2, s, d}], -1)
					When(m.builder.AddLinearConstraint(diff, -1, 1),
						m.assign[assignKey{w1, s, d}], m.assign[assignKey{w2, s, d}])
				}
			}
		}
	}

	limit := int64(m.Problem.MaxMinutesPerDay)
	for w := range m.Problem.Workers {
		for d := range m.Problem.Days {
			daily := cpmodel.NewLinearExpr()
			for s := range m.Problem.Sites {
				daily.Add(m.minutes[assignKey{w, s, d}])
			}
			m.builder.AddLinearConstraint(daily, 0, limit)
		}
	}
}
