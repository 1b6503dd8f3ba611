package model

import "math"

// Site 保洁场地
type Site struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Priority Priority `json:"priority"`
	Region   Region   `json:"region"`

	// StartTime 最早开工时间 HH:MM，为空则使用全局默认开工时间
	StartTime string `json:"start_time,omitempty"`

	// 访问频次约束
	RequiredDays  []DayOfWeek `json:"required_days,omitempty"`
	VisitsPerWeek *VisitRule  `json:"visits_per_week,omitempty"`
	LinkedSite    *SiteLink   `json:"linked_site,omitempty"`

	// 同时在场人数上下限
	MinWorkers int `json:"min_workers"`
	MaxWorkers int `json:"max_workers"`

	// HoursRequired 完成场地所需总工时（小时），由在场人员均分
	HoursRequired float64 `json:"hours_required"`
}

// VisitRule 每周访问次数及最小间隔
type VisitRule struct {
	Count      int `json:"count"`
	MinGapDays int `json:"min_gap_days"`
}

// SiteLink 关联场地及两场地访问日的最小间隔
type SiteLink struct {
	SiteID     int64 `json:"site_id"`
	MinGapDays int   `json:"min_gap_days"`
}

// TotalMinutes 返回场地所需总工时的分钟数（四舍五入）
func (s *Site) TotalMinutes() int {
	return int(math.Round(s.HoursRequired * MinutesPerHour))
}

// HasFixedStart 检查场地是否声明了固定开工时间
func (s *Site) HasFixedStart() bool {
	return s.StartTime != ""
}

// RequiresDay 检查某日是否为场地的指定访问日
func (s *Site) RequiresDay(day DayOfWeek) bool {
	for _, d := range s.RequiredDays {
		if d == day {
			return true
		}
	}
	return false
}

// VisitCount 返回场地每周需要的访问次数
// 未声明频次约束时默认为1次（可选访问，资源不足时可跳过）
func (s *Site) VisitCount() int {
	if s.VisitsPerWeek != nil {
		return s.VisitsPerWeek.Count
	}
	if len(s.RequiredDays) > 0 {
		return len(s.RequiredDays)
	}
	return 1
}

// VisitDeclared 检查场地是否显式声明了访问频次或指定访问日
// 显式声明时访问次数必须精确满足，否则仅作为上限
func (s *Site) VisitDeclared() bool {
	return s.VisitsPerWeek != nil || len(s.RequiredDays) > 0
}

// MinGap 返回同一场地两次访问间的最小日距
func (s *Site) MinGap() int {
	if s.VisitsPerWeek != nil {
		return s.VisitsPerWeek.MinGapDays
	}
	return 0
}
