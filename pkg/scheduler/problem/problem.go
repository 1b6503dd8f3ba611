// Package problem 负责排班请求的校验、规范化与索引构建
package problem

import (
	"fmt"
	"math"

	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/model"
)

// LinkedPair 规范化后的关联场地对（每对只保留一条记录）
type LinkedPair struct {
	SiteA int64
	SiteB int64
	Gap   int
}

// Problem 规范化后的排班问题
// 所有字段在规范化完成后只读，一次求解构建一份
type Problem struct {
	Workers     []model.Worker
	Sites       []model.Site
	Days        []model.DayOfWeek
	Groups      map[string][]int64
	LinkedPairs []LinkedPair

	// 全局参数（时间均以分钟表示）
	MaxMinutesPerDay    int
	DefaultStartMinutes int
	TravelBufferMinutes int

	dayIndex     map[model.DayOfWeek]int
	workerIndex  map[int64]int
	siteIndex    map[int64]int
	startMinutes map[int64]int
}

// Normalize 校验原始请求并构建规范化问题
// 所有校验独立进行，一次返回全部失败原因
func Normalize(req *model.RosterRequest) (*Problem, error) {
	req.ApplyDefaults()

	ve := &errors.ValidationErrors{}

	days := normalizeDays(req.Days, ve)
	workers := normalizeWorkers(req.Workers, ve)
	sites := normalizeSites(req.Sites, days, ve)
	validateGroups(req.SiteGroups, sites, ve)
	linked := normalizeLinks(sites, ve)

	defaultStart, err := model.ParseClock(req.DefaultStartTime)
	if err != nil {
		ve.Add("default_start_time", err.Error())
	}

	if ve.HasErrors() {
		return nil, ve.ToAppError()
	}

	p := &Problem{
		Workers:             workers,
		Sites:               sites,
		Days:                days,
		Groups:              req.SiteGroups,
		LinkedPairs:         linked,
		MaxMinutesPerDay:    int(math.Round(req.MaxHoursPerDay * model.MinutesPerHour)),
		DefaultStartMinutes: defaultStart,
		TravelBufferMinutes: req.TravelBufferMinutes,
		dayIndex:            make(map[model.DayOfWeek]int, len(days)),
		workerIndex:         make(map[int64]int, len(workers)),
		siteIndex:           make(map[int64]int, len(sites)),
		startMinutes:        make(map[int64]int, len(sites)),
	}
	for i, d := range days {
		p.dayIndex[d] = i
	}
	for i, w := range workers {
		p.workerIndex[w.ID] = i
	}
	for i, s := range sites {
		p.siteIndex[s.ID] = i
		if s.HasFixedStart() {
			m, perr := model.ParseClock(s.StartTime)
			if perr != nil {
				// 规范化阶段已校验过，到这里不应再失败
				m = defaultStart
			}
			p.startMinutes[s.ID] = m
		} else {
			p.startMinutes[s.ID] = defaultStart
		}
	}
	return p, nil
}

// normalizeDays 校验日程表：至少一天、名称有效、不重复
func normalizeDays(raw []model.DayOfWeek, ve *errors.ValidationErrors) []model.DayOfWeek {
	if len(raw) == 0 {
		ve.Add("days", "日程表至少需要一天")
		return nil
	}
	seen := make(map[model.DayOfWeek]bool, len(raw))
	days := make([]model.DayOfWeek, 0, len(raw))
	for _, d := range raw {
		parsed, err := model.ParseDay(string(d))
		if err != nil {
			ve.Add("days", err.Error())
			continue
		}
		if seen[parsed] {
			ve.Add("days", fmt.Sprintf("日程表中 %s 重复", parsed))
			continue
		}
		seen[parsed] = true
		days = append(days, parsed)
	}
	return days
}

// normalizeWorkers 校验人员列表：至少一人、编号不重复、可用日有效
func normalizeWorkers(raw []model.Worker, ve *errors.ValidationErrors) []model.Worker {
	if len(raw) == 0 {
		ve.Add("workers", "至少需要一名人员")
		return nil
	}
	seen := make(map[int64]bool, len(raw))
	workers := make([]model.Worker, 0, len(raw))
	for _, w := range raw {
		if seen[w.ID] {
			ve.Add("workers", fmt.Sprintf("人员编号重复: %d", w.ID))
			continue
		}
		seen[w.ID] = true

		available := make([]model.DayOfWeek, 0, len(w.AvailableDays))
		daySeen := make(map[model.DayOfWeek]bool, len(w.AvailableDays))
		for _, d := range w.AvailableDays {
			parsed, err := model.ParseDay(string(d))
			if err != nil {
				ve.Add("workers", fmt.Sprintf("人员 %d: %s", w.ID, err.Error()))
				continue
			}
			if !daySeen[parsed] {
				daySeen[parsed] = true
				available = append(available, parsed)
			}
		}
		w.AvailableDays = available
		workers = append(workers, w)
	}
	return workers
}

// normalizeSites 校验场地列表：至少一个、编号不重复、人数上下限、
// 开工时间、优先级、访问频次相对日程表可行
func normalizeSites(raw []model.Site, days []model.DayOfWeek, ve *errors.ValidationErrors) []model.Site {
	if len(raw) == 0 {
		ve.Add("sites", "至少需要一个场地")
		return nil
	}
	horizon := make(map[model.DayOfWeek]bool, len(days))
	for _, d := range days {
		horizon[d] = true
	}

	seen := make(map[int64]bool, len(raw))
	sites := make([]model.Site, 0, len(raw))
	for _, s := range raw {
		if seen[s.ID] {
			ve.Add("sites", fmt.Sprintf("场地编号重复: %d", s.ID))
			continue
		}
		seen[s.ID] = true

		if s.MinWorkers < 1 {
			s.MinWorkers = 1
		}
		if s.MinWorkers > s.MaxWorkers {
			ve.Add("sites", fmt.Sprintf("场地 %d: min_workers (%d) 不能大于 max_workers (%d)",
				s.ID, s.MinWorkers, s.MaxWorkers))
		}

		priority, err := model.ParsePriority(string(s.Priority))
		if err != nil {
			ve.Add("sites", fmt.Sprintf("场地 %d: %s", s.ID, err.Error()))
		} else {
			s.Priority = priority
		}

		if s.HasFixedStart() {
			if _, err := model.ParseClock(s.StartTime); err != nil {
				ve.Add("sites", fmt.Sprintf("场地 %d: %s", s.ID, err.Error()))
			}
		}

		required := make([]model.DayOfWeek, 0, len(s.RequiredDays))
		daySeen := make(map[model.DayOfWeek]bool, len(s.RequiredDays))
		for _, d := range s.RequiredDays {
			parsed, derr := model.ParseDay(string(d))
			if derr != nil {
				ve.Add("sites", fmt.Sprintf("场地 %d: %s", s.ID, derr.Error()))
				continue
			}
			if len(horizon) > 0 && !horizon[parsed] {
				ve.Add("sites", fmt.Sprintf("场地 %d: 固定日 %s 不在日程表内", s.ID, parsed))
				continue
			}
			if !daySeen[parsed] {
				daySeen[parsed] = true
				required = append(required, parsed)
			}
		}
		s.RequiredDays = required

		if s.VisitsPerWeek != nil {
			if s.VisitsPerWeek.Count < 1 {
				ve.Add("sites", fmt.Sprintf("场地 %d: visits_per_week.count 至少为1", s.ID))
			}
			if s.VisitsPerWeek.MinGapDays < 0 {
				ve.Add("sites", fmt.Sprintf("场地 %d: 访问间隔不能为负", s.ID))
			}
		}
		if len(days) > 0 && s.VisitCount() > len(days) {
			ve.Add("sites", fmt.Sprintf("场地 %d 每周需要 %d 次访问，但日程表只有 %d 天",
				s.ID, s.VisitCount(), len(days)))
		}

		sites = append(sites, s)
	}
	return sites
}

// validateGroups 校验场地组引用的场地均存在
func validateGroups(groups map[string][]int64, sites []model.Site, ve *errors.ValidationErrors) {
	if len(groups) == 0 {
		return
	}
	known := make(map[int64]bool, len(sites))
	for _, s := range sites {
		known[s.ID] = true
	}
	for name, ids := range groups {
		for _, id := range ids {
			if !known[id] {
				ve.Add("site_groups", fmt.Sprintf("场地组 %q 引用了不存在的场地 %d", name, id))
			}
		}
	}
}

// normalizeLinks 校验关联场地声明并去重
// 双向声明时间隔必须一致；关联场地每周只能访问一次
func normalizeLinks(sites []model.Site, ve *errors.ValidationErrors) []LinkedPair {
	byID := make(map[int64]*model.Site, len(sites))
	for i := range sites {
		byID[sites[i].ID] = &sites[i]
	}

	type pairKey struct{ a, b int64 }
	declared := make(map[pairKey]int)
	var pairs []LinkedPair

	for i := range sites {
		s := &sites[i]
		if s.LinkedSite == nil {
			continue
		}
		link := s.LinkedSite
		if link.MinGapDays < 0 {
			ve.Add("sites", fmt.Sprintf("场地 %d: 关联间隔不能为负", s.ID))
			continue
		}
		target, ok := byID[link.SiteID]
		if !ok {
			ve.Add("sites", fmt.Sprintf("场地 %d: 关联场地 %d 不存在", s.ID, link.SiteID))
			continue
		}
		if target.ID == s.ID {
			ve.Add("sites", fmt.Sprintf("场地 %d: 不能与自身关联", s.ID))
			continue
		}
		for _, endpoint := range []*model.Site{s, target} {
			if endpoint.VisitCount() > 1 {
				ve.Add("sites", fmt.Sprintf("场地 %d: 关联场地每周只能访问一次", endpoint.ID))
			}
		}

		key := pairKey{a: s.ID, b: target.ID}
		if key.a > key.b {
			key.a, key.b = key.b, key.a
		}
		if gap, dup := declared[key]; dup {
			if gap != link.MinGapDays {
				ve.Add("sites", fmt.Sprintf("场地 %d 与 %d 的关联间隔声明不一致", key.a, key.b))
			}
			continue
		}
		declared[key] = link.MinGapDays
		pairs = append(pairs, LinkedPair{SiteA: s.ID, SiteB: target.ID, Gap: link.MinGapDays})
	}
	return pairs
}

// DayIndex 返回工作日在日程表中的位置
func (p *Problem) DayIndex(day model.DayOfWeek) (int, bool) {
	i, ok := p.dayIndex[day]
	return i, ok
}

// WorkerByID 按编号查找人员
func (p *Problem) WorkerByID(id int64) *model.Worker {
	if i, ok := p.workerIndex[id]; ok {
		return &p.Workers[i]
	}
	return nil
}

// SiteByID 按编号查找场地
func (p *Problem) SiteByID(id int64) *model.Site {
	if i, ok := p.siteIndex[id]; ok {
		return &p.Sites[i]
	}
	return nil
}

// SiteIndex 返回场地在场地列表中的位置
func (p *Problem) SiteIndex(id int64) (int, bool) {
	i, ok := p.siteIndex[id]
	return i, ok
}

// SiteStartMinutes 返回场地最早开工时间（分钟）
// 未声明固定开工时间的场地使用全局默认值
func (p *Problem) SiteStartMinutes(siteID int64) int {
	if m, ok := p.startMinutes[siteID]; ok {
		return m
	}
	return p.DefaultStartMinutes
}

// NumWorkers 返回人员数量
func (p *Problem) NumWorkers() int { return len(p.Workers) }

// NumSites 返回场地数量
func (p *Problem) NumSites() int { return len(p.Sites) }

// NumDays 返回日程表天数
func (p *Problem) NumDays() int { return len(p.Days) }
