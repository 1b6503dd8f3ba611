package model

import "fmt"

// 全局排班参数默认值
const (
	DefaultMaxHoursPerDay      = 7.0
	DefaultStartTime           = "06:00"
	DefaultTravelBufferMinutes = 0
)

// 排班求解结果状态
const (
	StatusOptimal  = "optimal"
	StatusFeasible = "feasible"
)

// RosterRequest 排班求解请求
type RosterRequest struct {
	Workers             []Worker           `json:"workers"`
	Sites               []Site             `json:"sites"`
	Days                []DayOfWeek        `json:"days"`
	SiteGroups          map[string][]int64 `json:"site_groups,omitempty"`
	MaxHoursPerDay      float64            `json:"max_hours_per_day,omitempty"`
	DefaultStartTime    string             `json:"default_start_time,omitempty"`
	TravelBufferMinutes int                `json:"travel_buffer_minutes,omitempty"`
}

// ApplyDefaults 填充未指定的全局参数
func (r *RosterRequest) ApplyDefaults() {
	if r.MaxHoursPerDay <= 0 {
		r.MaxHoursPerDay = DefaultMaxHoursPerDay
	}
	if r.DefaultStartTime == "" {
		r.DefaultStartTime = DefaultStartTime
	}
	if r.TravelBufferMinutes < 0 {
		r.TravelBufferMinutes = DefaultTravelBufferMinutes
	}
}

// RosterResponse 排班求解响应
type RosterResponse struct {
	Status      string                      `json:"status"`
	Assignments []Assignment                `json:"assignments"`
	Roster      map[DayOfWeek][]RosterEntry `json:"roster"`
	Stats       *RosterStats                `json:"stats"`
}

// Assignment 单条排班记录（人员在某日某场地的一次出勤）
type Assignment struct {
	WorkerID   int64     `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
	SiteID     int64     `json:"site_id"`
	SiteName   string    `json:"site_name"`
	Day        DayOfWeek `json:"day"`
	StartTime  string    `json:"start_time"`
	FinishTime string    `json:"finish_time"`
}

// RosterEntry 按日视图中的一个场地条目
type RosterEntry struct {
	SiteID      int64    `json:"site_id"`
	SiteName    string   `json:"site_name"`
	WorkerNames []string `json:"worker_names"`
	StartTime   string   `json:"start_time"`
	FinishTime  string   `json:"finish_time"`
}

// TimeBlock 场地某日的完整时段记录
type TimeBlock struct {
	Day              DayOfWeek `json:"day"`
	SiteID           int64     `json:"site_id"`
	SiteName         string    `json:"site_name"`
	StartTime        string    `json:"start_time"`
	FinishTime       string    `json:"finish_time"`
	WorkerNames      []string  `json:"worker_names"`
	MinutesPerWorker float64   `json:"minutes_per_worker"`
}

// RosterStats 排班统计
type RosterStats struct {
	TotalAssignments  int                `json:"total_assignments"`
	ShiftsPerWorker   map[string]int     `json:"shifts_per_worker"`
	SiteCoverage      map[string]int     `json:"site_coverage"`
	HoursPerWorkerDay map[string]float64 `json:"hours_per_worker_day"`
	SiteTimeblocks    []TimeBlock        `json:"site_timeblocks"`
	SolveTimeSeconds  float64            `json:"solve_time_seconds"`
}

// SiteCoverageKey 构造场地覆盖统计键
func SiteCoverageKey(siteID int64, day DayOfWeek) string {
	return fmt.Sprintf("site_%d_day_%s", siteID, day)
}

// WorkerDayKey 构造人员每日工时统计键
func WorkerDayKey(workerID int64, day DayOfWeek) string {
	return fmt.Sprintf("worker_%d_%s", workerID, day)
}

// WorkerKey 构造人员统计键
func WorkerKey(workerID int64) string {
	return fmt.Sprintf("%d", workerID)
}
