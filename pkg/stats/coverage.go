// Package stats 提供排班结果的覆盖与均衡统计分析
package stats

import (
	"fmt"
	"sort"
	"strings"
)

// SiteInfo 场地需求视图（用于统计分析）
type SiteInfo struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Priority   string `json:"priority"`
	MinWorkers int    `json:"min_workers"`
	MaxWorkers int    `json:"max_workers"`
	Duration   int    `json:"duration_minutes"`
	Visits     int    `json:"visits_per_week"`
	Declared   bool   `json:"declared"`
}

// VisitInfo 单条派工记录视图，一名人员在某场地某日的一段作业
type VisitInfo struct {
	SiteID   int64  `json:"site_id"`
	WorkerID int64  `json:"worker_id"`
	Day      string `json:"day"`
	Start    int    `json:"start_minute"`
	End      int    `json:"end_minute"`
}

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	// 场地覆盖
	TotalSites   int     `json:"total_sites"`   // 场地总数
	CoveredSites int     `json:"covered_sites"` // 访问次数达标的场地数
	SiteCoverage float64 `json:"site_coverage"` // 场地覆盖率 (%)

	// 访问完成度
	DesiredVisits   int     `json:"desired_visits"`   // 期望访问总次数
	ScheduledVisits int     `json:"scheduled_visits"` // 实际安排的访问次数
	VisitCompletion float64 `json:"visit_completion"` // 访问完成率 (%)

	// 按日负载
	DailyLoad map[string]*DayLoad `json:"daily_load"`

	// 按优先级完成率
	PriorityCoverage map[string]float64 `json:"priority_coverage"`

	// 问题识别
	UncoveredSites []UncoveredSite     `json:"uncovered_sites"`
	Understaffed   []UnderstaffedVisit `json:"understaffed"`
}

// DayLoad 单日负载
type DayLoad struct {
	Day          string `json:"day"`
	Visits       int    `json:"visits"`        // 当日访问的场地数
	Workers      int    `json:"workers"`       // 当日出勤人数
	TotalMinutes int    `json:"total_minutes"` // 当日派工分钟合计
}

// UncoveredSite 访问次数不达标的场地
type UncoveredSite struct {
	SiteID    int64  `json:"site_id"`
	Name      string `json:"name"`
	Priority  string `json:"priority"`
	Desired   int    `json:"desired"`
	Scheduled int    `json:"scheduled"`
}

// UnderstaffedVisit 人手不足的单次访问
type UnderstaffedVisit struct {
	SiteID     int64  `json:"site_id"`
	Name       string `json:"name"`
	Day        string `json:"day"`
	Assigned   int    `json:"assigned"`
	MinWorkers int    `json:"min_workers"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct {
	opportunisticTarget int // 未声明频次的场地按此期望次数计
}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{
		opportunisticTarget: 1,
	}
}

// SetOpportunisticTarget 设置未声明频次场地的期望访问次数
func (c *CoverageAnalyzer) SetOpportunisticTarget(n int) {
	if n >= 0 {
		c.opportunisticTarget = n
	}
}

var priorityRank = map[string]int{
	"high":   3,
	"medium": 2,
	"low":    1,
}

var dayOrder = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

type visitKey struct {
	siteID int64
	day    string
}

// Analyze 分析排班结果的覆盖情况
func (c *CoverageAnalyzer) Analyze(sites []*SiteInfo, visits []*VisitInfo) *CoverageMetrics {
	metrics := &CoverageMetrics{
		TotalSites:       len(sites),
		DailyLoad:        make(map[string]*DayLoad),
		PriorityCoverage: make(map[string]float64),
	}

	siteMap := make(map[int64]*SiteInfo, len(sites))
	for _, s := range sites {
		siteMap[s.ID] = s
	}

	// 按 (场地, 日) 归并出每次访问的班组
	crews := make(map[visitKey]map[int64]bool)
	dayWorkers := make(map[string]map[int64]bool)
	for _, v := range visits {
		key := visitKey{siteID: v.SiteID, day: v.Day}
		if crews[key] == nil {
			crews[key] = make(map[int64]bool)
		}
		crews[key][v.WorkerID] = true

		if dayWorkers[v.Day] == nil {
			dayWorkers[v.Day] = make(map[int64]bool)
		}
		dayWorkers[v.Day][v.WorkerID] = true

		load := metrics.DailyLoad[v.Day]
		if load == nil {
			load = &DayLoad{Day: v.Day}
			metrics.DailyLoad[v.Day] = load
		}
		load.TotalMinutes += v.End - v.Start
	}
	for key := range crews {
		metrics.DailyLoad[key.day].Visits++
	}
	for day, workers := range dayWorkers {
		metrics.DailyLoad[day].Workers = len(workers)
	}

	// 每个场地实际安排的访问次数
	scheduled := make(map[int64]int)
	for key := range crews {
		if _, known := siteMap[key.siteID]; known {
			scheduled[key.siteID]++
		}
		metrics.ScheduledVisits++
	}

	// 与期望次数比对
	desiredByPriority := make(map[string]int)
	satisfiedByPriority := make(map[string]int)
	totalSatisfied := 0
	for _, s := range sites {
		desired := c.desiredVisits(s)
		got := scheduled[s.ID]
		satisfied := got
		if satisfied > desired {
			satisfied = desired
		}

		metrics.DesiredVisits += desired
		totalSatisfied += satisfied
		desiredByPriority[s.Priority] += desired
		satisfiedByPriority[s.Priority] += satisfied

		if got >= desired {
			metrics.CoveredSites++
		} else {
			metrics.UncoveredSites = append(metrics.UncoveredSites, UncoveredSite{
				SiteID:    s.ID,
				Name:      s.Name,
				Priority:  s.Priority,
				Desired:   desired,
				Scheduled: got,
			})
		}
	}

	if metrics.TotalSites > 0 {
		metrics.SiteCoverage = float64(metrics.CoveredSites) / float64(metrics.TotalSites) * 100
	}
	if metrics.DesiredVisits > 0 {
		metrics.VisitCompletion = float64(totalSatisfied) / float64(metrics.DesiredVisits) * 100
	} else {
		metrics.VisitCompletion = 100
	}
	for priority, desired := range desiredByPriority {
		if desired > 0 {
			metrics.PriorityCoverage[priority] = float64(satisfiedByPriority[priority]) / float64(desired) * 100
		} else {
			metrics.PriorityCoverage[priority] = 100
		}
	}

	metrics.Understaffed = c.identifyUnderstaffed(siteMap, crews)

	sort.Slice(metrics.UncoveredSites, func(i, j int) bool {
		a, b := metrics.UncoveredSites[i], metrics.UncoveredSites[j]
		if priorityRank[a.Priority] != priorityRank[b.Priority] {
			return priorityRank[a.Priority] > priorityRank[b.Priority]
		}
		return a.SiteID < b.SiteID
	})

	return metrics
}

// desiredVisits 计算场地的期望访问次数
func (c *CoverageAnalyzer) desiredVisits(s *SiteInfo) int {
	if s.Declared {
		return s.Visits
	}
	return c.opportunisticTarget
}

// identifyUnderstaffed 找出班组人数低于场地下限的访问
func (c *CoverageAnalyzer) identifyUnderstaffed(siteMap map[int64]*SiteInfo, crews map[visitKey]map[int64]bool) []UnderstaffedVisit {
	var understaffed []UnderstaffedVisit

	for key, crew := range crews {
		site, known := siteMap[key.siteID]
		if !known || site.MinWorkers <= 0 {
			continue
		}
		if len(crew) < site.MinWorkers {
			understaffed = append(understaffed, UnderstaffedVisit{
				SiteID:     key.siteID,
				Name:       site.Name,
				Day:        key.day,
				Assigned:   len(crew),
				MinWorkers: site.MinWorkers,
			})
		}
	}

	sort.Slice(understaffed, func(i, j int) bool {
		a, b := understaffed[i], understaffed[j]
		if dayOrder[a.Day] != dayOrder[b.Day] {
			return dayOrder[a.Day] < dayOrder[b.Day]
		}
		return a.SiteID < b.SiteID
	})

	return understaffed
}

// GenerateCoverageReport 生成覆盖率报告
func (c *CoverageAnalyzer) GenerateCoverageReport(metrics *CoverageMetrics) string {
	var report strings.Builder
	report.WriteString("=== 排班覆盖率报告 ===\n\n")

	report.WriteString("【整体覆盖情况】\n")
	report.WriteString(fmt.Sprintf("  场地总数: %d\n", metrics.TotalSites))
	report.WriteString(fmt.Sprintf("  达标场地: %d\n", metrics.CoveredSites))
	report.WriteString(fmt.Sprintf("  场地覆盖率: %.1f%%\n", metrics.SiteCoverage))
	report.WriteString(fmt.Sprintf("  访问完成率: %.1f%% (%d/%d)\n\n", metrics.VisitCompletion, metrics.ScheduledVisits, metrics.DesiredVisits))

	if len(metrics.PriorityCoverage) > 0 {
		report.WriteString("【按优先级完成率】\n")
		for _, priority := range []string{"high", "medium", "low"} {
			if rate, ok := metrics.PriorityCoverage[priority]; ok {
				report.WriteString(fmt.Sprintf("  %s: %.1f%%\n", priority, rate))
			}
		}
		report.WriteString("\n")
	}

	if len(metrics.DailyLoad) > 0 {
		report.WriteString("【每日负载】\n")
		days := make([]string, 0, len(metrics.DailyLoad))
		for day := range metrics.DailyLoad {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool { return dayOrder[days[i]] < dayOrder[days[j]] })
		for _, day := range days {
			load := metrics.DailyLoad[day]
			report.WriteString(fmt.Sprintf("  %s: 访问%d处，出勤%d人，合计%d分钟\n", load.Day, load.Visits, load.Workers, load.TotalMinutes))
		}
		report.WriteString("\n")
	}

	if len(metrics.UncoveredSites) > 0 {
		report.WriteString("【未达标场地】\n")
		for _, site := range metrics.UncoveredSites {
			report.WriteString(fmt.Sprintf("  - [%s] %s (ID %d): 期望%d次，已安排%d次\n", site.Priority, site.Name, site.SiteID, site.Desired, site.Scheduled))
		}
		report.WriteString("\n")
	}

	if len(metrics.Understaffed) > 0 {
		report.WriteString("【人手不足访问】\n")
		for _, visit := range metrics.Understaffed {
			report.WriteString(fmt.Sprintf("  - %s %s: 派%d人，要求至少%d人\n", visit.Name, visit.Day, visit.Assigned, visit.MinWorkers))
		}
	}

	return report.String()
}
