// Package constraint 定义排班结果校验的约束接口和管理器
// 校验在求解成功后进行，面向最终排班而非求解过程
package constraint

import (
	"sort"
	"strconv"

	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
)

// Type 约束类型标识
type Type string

const (
	// 硬约束类型
	TypeCoverageBounds  Type = "coverage_bounds"
	TypeAvailability    Type = "availability"
	TypeRegionExclusion Type = "region_exclusion"
	TypeMaxHoursPerDay  Type = "max_hours_per_day"
	TypeVisitFrequency  Type = "visit_frequency"
	TypeVisitGap        Type = "visit_gap"
	TypeLinkage         Type = "linkage"

	// 软约束类型
	TypeDurationSplit Type = "duration_split"
	TypeFragmentation Type = "fragmentation"
)

// Category 约束类别
type Category string

const (
	CategoryHard Category = "hard" // 硬约束（必须满足）
	CategorySoft Category = "soft" // 软约束（尽量满足）
)

// Constraint 约束接口
type Constraint interface {
	// Name 返回约束名称
	Name() string

	// Type 返回约束类型
	Type() Type

	// Category 返回约束类别
	Category() Category

	// Weight 返回约束权重 (1-100)
	Weight() int

	// Evaluate 评估整个排班方案
	// 返回：是否满足、惩罚值、违反详情
	Evaluate(ctx *Context) (valid bool, penalty int, details []ViolationDetail)
}

// ViolationDetail 约束违反详情
type ViolationDetail struct {
	ConstraintType Type            `json:"constraint_type"`
	ConstraintName string          `json:"constraint_name"`
	WorkerID       int64           `json:"worker_id,omitempty"`
	SiteID         int64           `json:"site_id,omitempty"`
	Day            model.DayOfWeek `json:"day,omitempty"`
	Message        string          `json:"message"`
	Severity       string          `json:"severity"` // error/warning
	Penalty        int             `json:"penalty"`
}

// Entry 一条已落位的派工记录
// Start 与 Finish 为当日分钟数，Share 为该人员的规范工时分摊
type Entry struct {
	WorkerID int64
	SiteID   int64
	Day      model.DayOfWeek
	Start    int
	Finish   int
	Share    int
}

type siteDayKey struct {
	siteID int64
	day    model.DayOfWeek
}

// Context 校验上下文
type Context struct {
	Problem *problem.Problem
	Entries []Entry

	// 索引缓存
	byWorker  map[int64][]*Entry
	bySite    map[int64][]*Entry
	bySiteDay map[siteDayKey][]*Entry
}

// NewContext 创建校验上下文
func NewContext(p *problem.Problem) *Context {
	return &Context{
		Problem:   p,
		byWorker:  make(map[int64][]*Entry),
		bySite:    make(map[int64][]*Entry),
		bySiteDay: make(map[siteDayKey][]*Entry),
	}
}

// SetEntries 设置派工记录并重建索引
func (c *Context) SetEntries(entries []Entry) {
	c.Entries = entries
	c.byWorker = make(map[int64][]*Entry)
	c.bySite = make(map[int64][]*Entry)
	c.bySiteDay = make(map[siteDayKey][]*Entry)
	for i := range c.Entries {
		e := &c.Entries[i]
		c.byWorker[e.WorkerID] = append(c.byWorker[e.WorkerID], e)
		c.bySite[e.SiteID] = append(c.bySite[e.SiteID], e)
		key := siteDayKey{e.SiteID, e.Day}
		c.bySiteDay[key] = append(c.bySiteDay[key], e)
	}
}

// WorkerEntries 获取人员的全部派工
func (c *Context) WorkerEntries(workerID int64) []*Entry {
	return c.byWorker[workerID]
}

// SiteEntries 获取场地的全部派工
func (c *Context) SiteEntries(siteID int64) []*Entry {
	return c.bySite[siteID]
}

// SiteDayEntries 获取场地某日的派工
func (c *Context) SiteDayEntries(siteID int64, day model.DayOfWeek) []*Entry {
	return c.bySiteDay[siteDayKey{siteID, day}]
}

// CoveredDayIndexes 返回场地被覆盖的日程位置（升序）
func (c *Context) CoveredDayIndexes(siteID int64) []int {
	seen := make(map[int]bool)
	for _, e := range c.bySite[siteID] {
		if d, ok := c.Problem.DayIndex(e.Day); ok {
			seen[d] = true
		}
	}
	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// WorkerShareOnDay 人员某日的工时分摊合计（分钟）与参与场地数
func (c *Context) WorkerShareOnDay(workerID int64, day model.DayOfWeek) (minutes, sites int) {
	for _, e := range c.byWorker[workerID] {
		if e.Day == day {
			minutes += e.Share
			sites++
		}
	}
	return minutes, sites
}

// EntriesFromAssignments 从对外排班记录重建校验用派工记录
// 工时分摊按场地日分组后用规范分摊函数重算
func EntriesFromAssignments(p *problem.Problem, assignments []model.Assignment) ([]Entry, error) {
	entries := make([]Entry, 0, len(assignments))
	for _, a := range assignments {
		day, err := model.ParseDay(string(a.Day))
		if err != nil {
			return nil, errors.InvalidInput("assignments", err.Error())
		}
		if _, ok := p.DayIndex(day); !ok {
			return nil, errors.InvalidInput("assignments", "排班日不在日程表内: "+string(a.Day))
		}
		if p.WorkerByID(a.WorkerID) == nil {
			return nil, errors.NotFound("worker", strconv.FormatInt(a.WorkerID, 10))
		}
		site := p.SiteByID(a.SiteID)
		if site == nil {
			return nil, errors.NotFound("site", strconv.FormatInt(a.SiteID, 10))
		}
		start, err := model.ParseClock(a.StartTime)
		if err != nil {
			return nil, errors.InvalidInput("assignments", err.Error())
		}
		finish, err := model.ParseClock(a.FinishTime)
		if err != nil {
			return nil, errors.InvalidInput("assignments", err.Error())
		}
		if finish < start {
			finish += 24 * model.MinutesPerHour // 跨日
		}
		entries = append(entries, Entry{
			WorkerID: a.WorkerID,
			SiteID:   a.SiteID,
			Day:      day,
			Start:    start,
			Finish:   finish,
		})
	}

	// 按场地日重算工时分摊
	grouped := make(map[siteDayKey][]int)
	for i := range entries {
		key := siteDayKey{entries[i].SiteID, entries[i].Day}
		grouped[key] = append(grouped[key], i)
	}
	for key, idxs := range grouped {
		site := p.SiteByID(key.siteID)
		shares := model.SplitMinutes(site.TotalMinutes(), len(idxs))
		for i, idx := range idxs {
			entries[idx].Share = shares[i]
		}
	}
	return entries, nil
}

// Result 约束评估结果
type Result struct {
	IsValid        bool              `json:"is_valid"`
	TotalPenalty   int               `json:"total_penalty"`
	HardViolations []ViolationDetail `json:"hard_violations"`
	SoftViolations []ViolationDetail `json:"soft_violations"`
	Score          float64           `json:"score"` // 0-100
}

// CalculateScore 计算约束满足度得分
func (r *Result) CalculateScore(maxPenalty int) {
	if maxPenalty == 0 {
		r.Score = 100.0
		return
	}
	r.Score = 100.0 * float64(maxPenalty-r.TotalPenalty) / float64(maxPenalty)
	if r.Score < 0 {
		r.Score = 0
	}
}
