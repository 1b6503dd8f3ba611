package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// addContinuityIndicators 连续性指示变量
// exclusive 表示某人当日只在一个场地干活；在此前提下超出
// min_workers 的在场人数记为超配量，交由目标函数惩罚。
// fragment 表示一对场地 (a,b) 当日既有人同时负责两边、
// 又有人只负责 b，即 b 的人手被拆散了，同样交由目标函数惩罚
func (m *Model) addContinuityIndicators() {
	numW := len(m.Problem.Workers)
	numS := len(m.Problem.Sites)

	for d := range m.Problem.Days {
		for w := 0; w < numW; w++ {
			for s := 0; s < numS; s++ {
				terms := make([]cpmodel.BoolVar, 0, numS)
				terms = append(terms, m.assign[assignKey{w, s, d}])
				for other := 0; other < numS; other++ {
					if other != s {
						terms = append(terms, m.assign[assignKey{w, other, d}].Not())
					}
				}
				m.exclusive[assignKey{w, s, d}] = m.algebra.And(terms...)
			}
		}
	}

	for s := 0; s < numS; s++ {
		site := &m.Problem.Sites[s]
		span := int64(site.MaxWorkers - site.MinWorkers)
		for d := range m.Problem.Days {
			cov := m.covered[coverKey{s, d}]

			solo := make([]cpmodel.BoolVar, 0, numW)
			for w := 0; w < numW; w++ {
				solo = append(solo, m.exclusive[assignKey{w, s, d}])
			}
			dedicated := m.algebra.And(cov, m.algebra.Or(solo...))

			extra := m.builder.NewIntVar(0, span)
			headcount := cpmodel.NewLinearExpr().AddConstant(int64(-site.MinWorkers))
			for w := 0; w < numW; w++ {
				headcount.Add(m.assign[assignKey{w, s, d}])
			}
			When(m.builder.AddEquality(extra, headcount), dedicated)
			Unless(m.builder.AddEquality(extra, m.builder.NewConstant(0)), dedicated)
			m.extras = append(m.extras, extra)
		}
	}

	for d := range m.Problem.Days {
		type pairKey struct{ lo, hi, w int }
		both := make(map[pairKey]cpmodel.BoolVar)
		pairAnd := func(a, b, w int) cpmodel.BoolVar {
			key := pairKey{a, b, w}
			if a > b {
				key.lo, key.hi = b, a
			}
			if v, ok := both[key]; ok {
				return v
			}
			v := m.algebra.And(m.assign[assignKey{w, a, d}], m.assign[assignKey{w, b, d}])
			both[key] = v
			return v
		}

		for a := 0; a < numS; a++ {
			for b := 0; b < numS; b++ {
				if a == b {
					continue
				}
				shared := make([]cpmodel.BoolVar, 0, numW)
				joiners := make([]cpmodel.BoolVar, 0, numW)
				for w := 0; w < numW; w++ {
					shared = append(shared, pairAnd(a, b, w))
					joiners = append(joiners,
						m.algebra.And(m.assign[assignKey{w, b, d}], m.assign[assignKey{w, a, d}].Not()))
				}
				frag := m.algebra.And(m.algebra.Or(shared...), m.algebra.Or(joiners...))
				m.fragments = append(m.fragments, frag)
			}
		}
	}
}
