package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// addLinkageConstraints 关联场地语义
// 间隔为零的关联对必须同日覆盖；间隔大于零时两个场地都必须
// 各被安排一次，且两次访问的日程位置相差不小于声明间隔
func (m *Model) addLinkageConstraints() {
	for _, pair := range m.Problem.LinkedPairs {
		sa, okA := m.Problem.SiteIndex(pair.SiteA)
		sb, okB := m.Problem.SiteIndex(pair.SiteB)
		if !okA || !okB {
			continue
		}

		if pair.Gap == 0 {
			for d := range m.Problem.Days {
				m.builder.AddEquality(m.covered[coverKey{sa, d}], m.covered[coverKey{sb, d}])
			}
			continue
		}

		for da := range m.Problem.Days {
			for db := range m.Problem.Days {
				dist := da - db
				if dist < 0 {
					dist = -dist
				}
				if dist < pair.Gap {
					m.builder.AddAtMostOne(m.covered[coverKey{sa, da}], m.covered[coverKey{sb, db}])
				}
			}
		}

		for _, s := range []int{sa, sb} {
			if m.Problem.Sites[s].VisitDeclared() {
				continue
			}
			weekSum := cpmodel.NewLinearExpr()
			for d := range m.Problem.Days {
				weekSum.Add(m.covered[coverKey{s, d}])
			}
			m.builder.AddEquality(weekSum, m.builder.NewConstant(1))
		}
	}
}
