package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// addFrequencyConstraints 访问频次语义
// 声明了频次的场地一周恰好覆盖对应次数，未声明的默认最多一次、
// 是否覆盖交由目标函数权衡；仅声明固定日的场地只允许在固定日被覆盖；
// 同时声明频次与固定日时，至少有一次访问落在固定日上；
// 两次访问的间隔天数不得小于声明的最小间隔
func (m *Model) addFrequencyConstraints() {
	for s := range m.Problem.Sites {
		site := &m.Problem.Sites[s]

		weekSum := cpmodel.NewLinearExpr()
		for d := range m.Problem.Days {
			weekSum.Add(m.covered[coverKey{s, d}])
		}
		count := int64(site.VisitCount())
		if site.VisitDeclared() {
			m.builder.AddEquality(weekSum, m.builder.NewConstant(count))
		} else {
			m.builder.AddLinearConstraint(weekSum, 0, count)
		}

		if len(site.RequiredDays) > 0 {
			required := make(map[int]bool, len(site.RequiredDays))
			for _, day := range site.RequiredDays {
				if d, ok := m.Problem.DayIndex(day); ok {
					required[d] = true
				}
			}
			if site.VisitsPerWeek == nil {
				for d := range m.Problem.Days {
					if !required[d] {
						m.builder.AddEquality(m.covered[coverKey{s, d}], m.builder.NewConstant(0))
					}
				}
			} else {
				onRequired := make([]cpmodel.BoolVar, 0, len(required))
				for d := range m.Problem.Days {
					if required[d] {
						onRequired = append(onRequired, m.covered[coverKey{s, d}])
					}
				}
				m.builder.AddBoolOr(onRequired...)
			}
		}

		if gap := site.MinGap(); gap > 1 {
			for i := 0; i < len(m.Problem.Days); i++ {
				for j := i + 1; j < len(m.Problem.Days) && j-i < gap; j++ {
					m.builder.AddAtMostOne(m.covered[coverKey{s, i}], m.covered[coverKey{s, j}])
				}
			}
		}
	}
}
