package solver

// addCoverageConstraints 绑定覆盖指示与在场人数
// 覆盖时在场人数落在 [min_workers, max_workers]，未覆盖时为零
func (m *Model) addCoverageConstraints() {
	for s := range m.Problem.Sites {
		site := &m.Problem.Sites[s]
		for d := range m.Problem.Days {
			cov := m.covered[coverKey{s, d}]
			count := m.assignSum(s, d)
			When(m.builder.AddLinearConstraint(count, int64(site.MinWorkers), int64(site.MaxWorkers)), cov)
			Unless(m.builder.AddEquality(count, m.builder.NewConstant(0)), cov)
		}
	}
}
