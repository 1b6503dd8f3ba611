// Package timeline 把求解出的覆盖结果安排到一天内的具体时段
package timeline

import (
	"sort"

	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
	"github.com/crewroster/crewroster/pkg/scheduler/solver"
)

// Block 已落位的场地时段
// Start 与 Finish 为当日分钟数，该场地全体人员同进同出
type Block struct {
	Visit  solver.Visit
	Start  int
	Finish int
}

// Duration 时段长度（分钟）
func (b *Block) Duration() int {
	return b.Finish - b.Start
}

// Schedule 按日把覆盖场地依次落位
// 同日内按最早开工时间、优先级、场地编号排序；场地实际开工时间
// 取其最早允许时间与全体派工人员就位时间的较晚者，人员完成一处
// 作业后需经过通勤缓冲才能就位下一处
func Schedule(p *problem.Problem, plan *solver.Plan) []Block {
	byDay := make([][]solver.Visit, len(p.Days))
	for _, v := range plan.Visits {
		byDay[v.Day] = append(byDay[v.Day], v)
	}

	blocks := make([]Block, 0, len(plan.Visits))
	for d := range p.Days {
		visits := byDay[d]
		sort.Slice(visits, func(i, j int) bool {
			a, b := &p.Sites[visits[i].Site], &p.Sites[visits[j].Site]
			sa, sb := p.SiteStartMinutes(a.ID), p.SiteStartMinutes(b.ID)
			if sa != sb {
				return sa < sb
			}
			if a.Priority != b.Priority {
				return a.Priority.Weight() > b.Priority.Weight() // 高优先级在前
			}
			return a.ID < b.ID
		})

		available := make([]int, p.NumWorkers())
		for _, v := range visits {
			site := &p.Sites[v.Site]
			start := p.SiteStartMinutes(site.ID)
			for _, w := range v.Workers {
				if available[w] > start {
					start = available[w]
				}
			}
			finish := start + model.MaxShare(site.TotalMinutes(), len(v.Workers))
			for _, w := range v.Workers {
				available[w] = finish + p.TravelBufferMinutes
			}
			blocks = append(blocks, Block{Visit: v, Start: start, Finish: finish})
		}
	}
	return blocks
}
