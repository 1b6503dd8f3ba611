package handler

import (
	"encoding/json"
	"net/http"

	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/stats"
)

// StatsRequest 统计分析请求
// 对已生成的排班结果做事后分析，入参为原始人员、场地与派工明细
type StatsRequest struct {
	Workers     []model.Worker     `json:"workers"`
	Sites       []model.Site       `json:"sites"`
	Assignments []model.Assignment `json:"assignments"`
}

// CoverageResponse 覆盖率分析响应
type CoverageResponse struct {
	Coverage *stats.CoverageMetrics `json:"coverage"`
}

// BalanceResponse 均衡性分析响应
type BalanceResponse struct {
	Balance *stats.BalanceMetrics `json:"balance"`
}

// StatsHandler 排班结果统计分析处理器
type StatsHandler struct {
	coverage *stats.CoverageAnalyzer
	balance  *stats.BalanceAnalyzer
}

// NewStatsHandler 创建统计分析处理器
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{
		coverage: stats.NewCoverageAnalyzer(),
		balance:  stats.NewBalanceAnalyzer(),
	}
}

// Coverage 处理 POST /api/v1/stats/coverage
func (h *StatsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		respondError(w, err)
		return
	}
	metrics := h.coverage.Analyze(sitesToStats(req.Sites), assignmentsToVisits(req.Assignments))
	respondJSON(w, http.StatusOK, CoverageResponse{Coverage: metrics})
}

// Balance 处理 POST /api/v1/stats/balance
func (h *StatsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		respondError(w, err)
		return
	}
	metrics := h.balance.Analyze(assignmentsToVisits(req.Assignments), workersToStats(req.Workers))
	respondJSON(w, http.StatusOK, BalanceResponse{Balance: metrics})
}

func (h *StatsHandler) decode(r *http.Request) (*StatsRequest, *errors.AppError) {
	if r.Method != http.MethodPost {
		return nil, errors.New(errors.CodeInvalidInput, "仅支持POST方法")
	}
	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "请求体解析失败")
	}
	if len(req.Assignments) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "派工明细为空，无法分析")
	}
	return &req, nil
}

// sitesToStats 把场地需求转换为统计视图
func sitesToStats(sites []model.Site) []*stats.SiteInfo {
	out := make([]*stats.SiteInfo, 0, len(sites))
	for i := range sites {
		s := &sites[i]
		out = append(out, &stats.SiteInfo{
			ID:         s.ID,
			Name:       s.Name,
			Priority:   string(s.Priority),
			MinWorkers: s.MinWorkers,
			MaxWorkers: s.MaxWorkers,
			Duration:   int(s.HoursRequired * model.MinutesPerHour),
			Visits:     desiredVisits(s),
			Declared:   s.VisitsPerWeek != nil || len(s.RequiredDays) > 0,
		})
	}
	return out
}

// desiredVisits 计算场地的周期望访问次数
// 未声明频次的场地按一次计，与求解侧的默认口径一致
func desiredVisits(s *model.Site) int {
	n := 1
	if s.VisitsPerWeek != nil && s.VisitsPerWeek.Count > n {
		n = s.VisitsPerWeek.Count
	}
	if len(s.RequiredDays) > n {
		n = len(s.RequiredDays)
	}
	return n
}

// assignmentsToVisits 把派工明细转换为统计视图，时间解析失败的记录跳过
func assignmentsToVisits(assignments []model.Assignment) []*stats.VisitInfo {
	out := make([]*stats.VisitInfo, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		start, err := model.ParseClock(a.StartTime)
		if err != nil {
			continue
		}
		end, err := model.ParseClock(a.FinishTime)
		if err != nil {
			continue
		}
		out = append(out, &stats.VisitInfo{
			SiteID:   a.SiteID,
			WorkerID: a.WorkerID,
			Day:      string(a.Day),
			Start:    start,
			End:      end,
		})
	}
	return out
}

// workersToStats 把人员清单转换为统计视图
func workersToStats(workers []model.Worker) []*stats.WorkerInfo {
	out := make([]*stats.WorkerInfo, 0, len(workers))
	for i := range workers {
		out = append(out, &stats.WorkerInfo{ID: workers[i].ID, Name: workers[i].Name})
	}
	return out
}
