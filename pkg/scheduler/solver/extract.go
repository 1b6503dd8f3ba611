package solver

import (
	"fmt"
	"sort"

	"github.com/crewroster/crewroster/pkg/model"
)

// Visit 某场地某日的派工明细
// Workers 为人员下标（升序），Shares 为对齐的每人工时分钟数
type Visit struct {
	Site    int
	Day     int
	Workers []int
	Shares  []int
}

// Plan 从解值提取出的结构化排班
type Plan struct {
	Visits []Visit
}

// Empty 判断排班是否一个场地都没覆盖
func (p *Plan) Empty() bool {
	return len(p.Visits) == 0
}

// Extract 从求解结果读出每个覆盖场地日的人员与工时
// 工时以规范分摊为准；求解值与规范分摊出现分歧时记入告警
func Extract(m *Model, o *Outcome) (*Plan, []string) {
	plan := &Plan{}
	var warnings []string

	for s := range m.Problem.Sites {
		site := &m.Problem.Sites[s]
		for d := range m.Problem.Days {
			if !o.BoolValue(m.Covered(s, d)) {
				continue
			}

			var workers []int
			var solved []int
			for w := range m.Problem.Workers {
				if o.BoolValue(m.Assign(w, s, d)) {
					workers = append(workers, w)
					solved = append(solved, int(o.IntValue(m.Minutes(w, s, d))))
				}
			}
			if len(workers) == 0 {
				warnings = append(warnings,
					fmt.Sprintf("场地 %d 在 %s 标记为已覆盖但无人派工", site.ID, m.Problem.Days[d]))
				continue
			}

			shares := model.SplitMinutes(site.TotalMinutes(), len(workers))
			if diverged(solved, shares) {
				warnings = append(warnings,
					fmt.Sprintf("场地 %d 在 %s 的工时分摊与规范值不一致: 求解 %v, 规范 %v",
						site.ID, m.Problem.Days[d], solved, shares))
			}

			plan.Visits = append(plan.Visits, Visit{
				Site:    s,
				Day:     d,
				Workers: workers,
				Shares:  shares,
			})
		}
	}
	return plan, warnings
}

// diverged 比较求解工时与规范分摊是否为同一组取值
func diverged(solved, canonical []int) bool {
	if len(solved) != len(canonical) {
		return true
	}
	ordered := make([]int, len(solved))
	copy(ordered, solved)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))
	for i := range ordered {
		if ordered[i] != canonical[i] {
			return true
		}
	}
	return false
}
