// Package validator 提供排班结果的时间线冲突检测
// 约束校验面向覆盖与工时分摊，这里面向已落位的具体时段
package validator

import (
	"fmt"
	"sort"

	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictOverlap      ConflictType = "overlap"       // 时间重叠
	ConflictTravelBuffer ConflictType = "travel_buffer" // 通勤缓冲不足
	ConflictMaxHours     ConflictType = "max_hours"     // 超过每日最大工时
	ConflictAvailability ConflictType = "availability"  // 不可用日被派工
	ConflictRegion       ConflictType = "region"        // 被派往排除区域
	ConflictInvalid      ConflictType = "invalid"       // 记录本身无效
)

// Conflict 冲突信息
type Conflict struct {
	Type     ConflictType    `json:"type"`
	Severity string          `json:"severity"` // error/warning
	WorkerID int64           `json:"worker_id"`
	Day      model.DayOfWeek `json:"day,omitempty"`
	Message  string          `json:"message"`
}

// DetectorConfig 检测器配置
type DetectorConfig struct {
	TravelBufferMinutes int  // 两处作业间的最小通勤缓冲（分钟）
	MaxMinutesPerDay    int  // 每日最大工时（分钟）
	CheckAvailability   bool // 是否检查可用日
	CheckRegion         bool // 是否检查排除区域
}

// DefaultDetectorConfig 返回默认配置
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		TravelBufferMinutes: model.DefaultTravelBufferMinutes,
		MaxMinutesPerDay:    int(model.DefaultMaxHoursPerDay * model.MinutesPerHour),
		CheckAvailability:   true,
		CheckRegion:         true,
	}
}

// ConfigFromProblem 从规范化问题构建配置
func ConfigFromProblem(p *problem.Problem) *DetectorConfig {
	return &DetectorConfig{
		TravelBufferMinutes: p.TravelBufferMinutes,
		MaxMinutesPerDay:    p.MaxMinutesPerDay,
		CheckAvailability:   true,
		CheckRegion:         true,
	}
}

// ConflictDetector 冲突检测器
type ConflictDetector struct {
	config *DetectorConfig
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(config *DetectorConfig) *ConflictDetector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	return &ConflictDetector{config: config}
}

// span 解析后的单条派工时段
type span struct {
	siteID   int64
	day      model.DayOfWeek
	dayIndex int
	window   model.MinuteRange
}

// DetectAll 检测全部冲突
func (d *ConflictDetector) DetectAll(p *problem.Problem, assignments []model.Assignment) []Conflict {
	var conflicts []Conflict

	byWorker := make(map[int64][]span)
	for _, a := range assignments {
		s, conflict := d.parseSpan(p, &a)
		if conflict != nil {
			conflicts = append(conflicts, *conflict)
			continue
		}
		byWorker[a.WorkerID] = append(byWorker[a.WorkerID], s)
	}

	for i := range p.Workers {
		worker := &p.Workers[i]
		spans := byWorker[worker.ID]
		if len(spans) == 0 {
			continue
		}

		sort.Slice(spans, func(i, j int) bool {
			if spans[i].dayIndex != spans[j].dayIndex {
				return spans[i].dayIndex < spans[j].dayIndex
			}
			return spans[i].window.Start < spans[j].window.Start
		})

		conflicts = append(conflicts, d.detectOverlaps(worker, spans)...)
		conflicts = append(conflicts, d.detectDailyHours(worker, spans)...)
		if d.config.CheckAvailability {
			conflicts = append(conflicts, d.detectAvailability(worker, spans)...)
		}
		if d.config.CheckRegion {
			conflicts = append(conflicts, d.detectRegion(p, worker, spans)...)
		}
	}

	return conflicts
}

// parseSpan 解析单条派工记录
func (d *ConflictDetector) parseSpan(p *problem.Problem, a *model.Assignment) (span, *Conflict) {
	invalid := func(msg string) *Conflict {
		return &Conflict{
			Type:     ConflictInvalid,
			Severity: "error",
			WorkerID: a.WorkerID,
			Day:      a.Day,
			Message:  msg,
		}
	}

	dayIndex, ok := p.DayIndex(a.Day)
	if !ok {
		return span{}, invalid(fmt.Sprintf("排班日 %s 不在日程表内", a.Day))
	}
	start, err := model.ParseClock(a.StartTime)
	if err != nil {
		return span{}, invalid(err.Error())
	}
	finish, err := model.ParseClock(a.FinishTime)
	if err != nil {
		return span{}, invalid(err.Error())
	}
	if finish < start {
		finish += 24 * model.MinutesPerHour // 跨日
	}
	return span{
		siteID:   a.SiteID,
		day:      a.Day,
		dayIndex: dayIndex,
		window:   model.MinuteRange{Start: start, End: finish},
	}, nil
}

// detectOverlaps 检测同日时间重叠与通勤缓冲不足
// 时段按开工时间有序，比较对象取当日此前最晚完工的时段
func (d *ConflictDetector) detectOverlaps(worker *model.Worker, spans []span) []Conflict {
	var conflicts []Conflict

	prev := spans[0]
	for i := 1; i < len(spans); i++ {
		cur := spans[i]
		if prev.dayIndex != cur.dayIndex {
			prev = cur
			continue
		}

		if cur.window.Overlaps(prev.window) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictOverlap,
				Severity: "error",
				WorkerID: worker.ID,
				Day:      cur.day,
				Message: fmt.Sprintf("人员 %s 在 %s 的场地 %d 与 %d 时段重叠",
					worker.Name, cur.day, prev.siteID, cur.siteID),
			})
		} else if gap := cur.window.Start - prev.window.End; gap < d.config.TravelBufferMinutes {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictTravelBuffer,
				Severity: "warning",
				WorkerID: worker.ID,
				Day:      cur.day,
				Message: fmt.Sprintf("人员 %s 在 %s 从场地 %d 转往 %d 仅间隔 %d 分钟，要求 %d 分钟",
					worker.Name, cur.day, prev.siteID, cur.siteID, gap, d.config.TravelBufferMinutes),
			})
		}

		if cur.window.End > prev.window.End {
			prev = cur
		}
	}

	return conflicts
}

// detectDailyHours 检测每日工时超限
func (d *ConflictDetector) detectDailyHours(worker *model.Worker, spans []span) []Conflict {
	var conflicts []Conflict

	daily := make(map[model.DayOfWeek]int)
	for _, s := range spans {
		daily[s.day] += s.window.Duration()
	}

	days := make([]model.DayOfWeek, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	for _, day := range days {
		minutes := daily[day]
		if minutes > d.config.MaxMinutesPerDay {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictMaxHours,
				Severity: "error",
				WorkerID: worker.ID,
				Day:      day,
				Message: fmt.Sprintf("人员 %s 在 %s 工作 %.1f 小时，超过限制 %.1f 小时",
					worker.Name, day,
					float64(minutes)/model.MinutesPerHour,
					float64(d.config.MaxMinutesPerDay)/model.MinutesPerHour),
			})
		}
	}

	return conflicts
}

// detectAvailability 检测不可用日派工
func (d *ConflictDetector) detectAvailability(worker *model.Worker, spans []span) []Conflict {
	var conflicts []Conflict
	seen := make(map[model.DayOfWeek]bool)

	for _, s := range spans {
		if seen[s.day] {
			continue
		}
		seen[s.day] = true
		if !worker.AvailableOn(s.day) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictAvailability,
				Severity: "error",
				WorkerID: worker.ID,
				Day:      s.day,
				Message:  fmt.Sprintf("人员 %s 在 %s 不可用", worker.Name, s.day),
			})
		}
	}

	return conflicts
}

// detectRegion 检测排除区域派工
func (d *ConflictDetector) detectRegion(p *problem.Problem, worker *model.Worker, spans []span) []Conflict {
	var conflicts []Conflict
	if worker.ExcludedRegion == "" {
		return conflicts
	}

	for _, s := range spans {
		site := p.SiteByID(s.siteID)
		if site == nil {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictInvalid,
				Severity: "error",
				WorkerID: worker.ID,
				Day:      s.day,
				Message:  fmt.Sprintf("场地 %d 不存在", s.siteID),
			})
			continue
		}
		if !worker.CanWorkRegion(site.Region) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictRegion,
				Severity: "error",
				WorkerID: worker.ID,
				Day:      s.day,
				Message: fmt.Sprintf("人员 %s 排除了 %s 区域，却被派往场地 %s",
					worker.Name, worker.ExcludedRegion, site.Name),
			})
		}
	}

	return conflicts
}
