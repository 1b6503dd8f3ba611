// Package model 定义排班求解器的核心数据模型
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayOfWeek 工作日（小写英文名）
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// Weekdays 返回一周七天（周一起始）
func Weekdays() []DayOfWeek {
	return []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseDay 解析工作日名称（大小写不敏感）
func ParseDay(s string) (DayOfWeek, error) {
	d := DayOfWeek(strings.ToLower(strings.TrimSpace(s)))
	for _, w := range Weekdays() {
		if d == w {
			return d, nil
		}
	}
	return "", fmt.Errorf("无效的工作日: %q", s)
}

// Priority 场地优先级
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority 解析优先级（空值按低优先级处理）
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow, "":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("无效的优先级: %q", s)
}

// Weight 返回优先级对应的目标函数权重
func (p Priority) Weight() int64 {
	switch p {
	case PriorityHigh:
		return 1000
	case PriorityMedium:
		return 100
	default:
		return 10
	}
}

// Region 区域标签（按字符串相等匹配）
type Region string

// ReliabilityRating 人员可靠度评级（数值越高越优先）
type ReliabilityRating int

const (
	ReliabilityExcellent    ReliabilityRating = 10
	ReliabilityAcceptable   ReliabilityRating = 7
	ReliabilityBelowAverage ReliabilityRating = 5
)

// MinutesPerHour 小时到分钟的换算系数
const MinutesPerHour = 60

// ParseClock 解析 HH:MM 格式时间，返回自零点起的分钟数
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("无效的时间格式: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("无效的小时: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的分钟: %q", s)
	}
	return h*MinutesPerHour + m, nil
}

// FormatClock 将分钟数格式化为 HH:MM（超过24小时按日内时间回绕）
func FormatClock(minutes int) string {
	h := (minutes / MinutesPerHour) % 24
	m := minutes % MinutesPerHour
	return fmt.Sprintf("%02d:%02d", h, m)
}

// MinuteRange 日内时间段（分钟表示，左闭右开）
type MinuteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Duration 返回时间段长度（分钟）
func (mr MinuteRange) Duration() int {
	return mr.End - mr.Start
}

// Overlaps 检查两个时间段是否重叠
func (mr MinuteRange) Overlaps(other MinuteRange) bool {
	return mr.Start < other.End && other.Start < mr.End
}

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
