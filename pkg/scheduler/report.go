package scheduler

import (
	"sort"

	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
	"github.com/crewroster/crewroster/pkg/scheduler/solver"
	"github.com/crewroster/crewroster/pkg/scheduler/timeline"
)

// buildResponse 把落位后的时段汇总成排班响应
// 按日视图内的条目按开工时间与场地编号排序，人员落位顺序可能
// 与排序后的顺序不同，因为实际开工时间受人员就位时间影响
func buildResponse(p *problem.Problem, out *solver.Outcome, blocks []timeline.Block) *model.RosterResponse {
	resp := &model.RosterResponse{
		Status:      out.Status,
		Assignments: make([]model.Assignment, 0, len(blocks)),
		Roster:      make(map[model.DayOfWeek][]model.RosterEntry, len(p.Days)),
		Stats: &model.RosterStats{
			ShiftsPerWorker:   make(map[string]int),
			SiteCoverage:      make(map[string]int),
			HoursPerWorkerDay: make(map[string]float64),
			SiteTimeblocks:    make([]model.TimeBlock, 0, len(blocks)),
			SolveTimeSeconds:  out.WallTime,
		},
	}

	for i := range blocks {
		b := &blocks[i]
		site := &p.Sites[b.Visit.Site]
		day := p.Days[b.Visit.Day]
		start := model.FormatClock(b.Start)
		finish := model.FormatClock(b.Finish)

		names := make([]string, 0, len(b.Visit.Workers))
		for idx, w := range b.Visit.Workers {
			worker := &p.Workers[w]
			names = append(names, worker.Name)

			resp.Assignments = append(resp.Assignments, model.Assignment{
				WorkerID:   worker.ID,
				WorkerName: worker.Name,
				SiteID:     site.ID,
				SiteName:   site.Name,
				Day:        day,
				StartTime:  start,
				FinishTime: finish,
			})

			resp.Stats.ShiftsPerWorker[model.WorkerKey(worker.ID)]++
			resp.Stats.HoursPerWorkerDay[model.WorkerDayKey(worker.ID, day)] += float64(b.Visit.Shares[idx]) / model.MinutesPerHour
		}

		resp.Roster[day] = append(resp.Roster[day], model.RosterEntry{
			SiteID:      site.ID,
			SiteName:    site.Name,
			WorkerNames: names,
			StartTime:   start,
			FinishTime:  finish,
		})

		resp.Stats.TotalAssignments += len(b.Visit.Workers)
		resp.Stats.SiteCoverage[model.SiteCoverageKey(site.ID, day)] = len(b.Visit.Workers)
		resp.Stats.SiteTimeblocks = append(resp.Stats.SiteTimeblocks, model.TimeBlock{
			Day:              day,
			SiteID:           site.ID,
			SiteName:         site.Name,
			StartTime:        start,
			FinishTime:       finish,
			WorkerNames:      names,
			MinutesPerWorker: float64(site.TotalMinutes()) / float64(len(b.Visit.Workers)),
		})
	}

	for day := range resp.Roster {
		entries := resp.Roster[day]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].StartTime != entries[j].StartTime {
				return entries[i].StartTime < entries[j].StartTime
			}
			return entries[i].SiteID < entries[j].SiteID
		})
	}

	sortAssignments(p, resp.Assignments)

	return resp
}

// sortAssignments 按日、开工时间、场地、人员排序，保证输出稳定
func sortAssignments(p *problem.Problem, assignments []model.Assignment) {
	sort.Slice(assignments, func(i, j int) bool {
		a, b := &assignments[i], &assignments[j]
		di, _ := p.DayIndex(a.Day)
		dj, _ := p.DayIndex(b.Day)
		if di != dj {
			return di < dj
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.SiteID != b.SiteID {
			return a.SiteID < b.SiteID
		}
		return a.WorkerID < b.WorkerID
	})
}
