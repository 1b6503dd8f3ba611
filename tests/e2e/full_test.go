// Package e2e 提供端到端测试
// 通过完整HTTP路径发起真实求解，覆盖一周多人多场地的全流程
package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/crewroster/crewroster/internal/handler"
	"github.com/crewroster/crewroster/internal/middleware"
	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler"
)

func newServer() http.Handler {
	sched := scheduler.New()
	sched.SetBudget(10 * time.Second)
	rosterHandler := handler.NewRosterHandler(sched, nil, 10*time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/roster", rosterHandler.Solve)
	return middleware.RequestID(middleware.Logging(middleware.Recovery(mux)))
}

// weekRequest 构造一周排班请求：四名人员、六个场地、分组与关联俱全
func weekRequest() *model.RosterRequest {
	weekdays := []model.DayOfWeek{
		model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday,
	}
	return &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "陈立群", Reliability: model.ReliabilityExcellent, AvailableDays: weekdays},
			{ID: 2, Name: "吴卫东", Reliability: model.ReliabilityExcellent,
				AvailableDays: weekdays, ExcludedRegion: "south"},
			{ID: 3, Name: "郑小梅", Reliability: model.ReliabilityAcceptable,
				AvailableDays: []model.DayOfWeek{model.Monday, model.Wednesday, model.Friday}},
			{ID: 4, Name: "刘建国", Reliability: model.ReliabilityBelowAverage, AvailableDays: weekdays},
		},
		Sites: []model.Site{
			{ID: 101, Name: "港湾中心", Priority: model.PriorityHigh, Region: "central",
				StartTime:     "08:30",
				RequiredDays:  []model.DayOfWeek{model.Monday},
				VisitsPerWeek: &model.VisitRule{Count: 2, MinGapDays: 2},
				MinWorkers:    2, MaxWorkers: 3, HoursRequired: 6},
			{ID: 102, Name: "北岸市场", Priority: model.PriorityHigh, Region: "north",
				VisitsPerWeek: &model.VisitRule{Count: 1},
				MinWorkers:    1, MaxWorkers: 2, HoursRequired: 4},
			{ID: 103, Name: "南郊车场", Priority: model.PriorityMedium, Region: "south",
				VisitsPerWeek: &model.VisitRule{Count: 1},
				MinWorkers:    1, MaxWorkers: 1, HoursRequired: 3},
			{ID: 104, Name: "东环一号", Priority: model.PriorityMedium, Region: "central",
				LinkedSite: &model.SiteLink{SiteID: 105, MinGapDays: 0},
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1.5},
			{ID: 105, Name: "东环二号", Priority: model.PriorityMedium, Region: "central",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1.5},
			{ID: 106, Name: "顺路小场", Priority: model.PriorityLow, Region: "central",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1},
		},
		Days:                []model.DayOfWeek{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday},
		SiteGroups:          map[string][]int64{"东环线": {104, 105}},
		MaxHoursPerDay:      7,
		TravelBufferMinutes: 30,
	}
}

func solve(t *testing.T, srv http.Handler, req *model.RosterRequest) (*httptest.ResponseRecorder, *model.RosterResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("序列化请求失败: %v", err)
	}
	httpReq := httptest.NewRequest("POST", "/api/v1/roster", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httpReq)

	if rec.Code != http.StatusOK {
		return rec, nil
	}
	var resp model.RosterResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return rec, &resp
}

// TestFullWeekWorkflow 测试完整一周排班流程
func TestFullWeekWorkflow(t *testing.T) {
	srv := newServer()

	rec, resp := solve(t, srv, weekRequest())
	if resp == nil {
		t.Fatalf("求解失败: 状态 %d, 响应 %s", rec.Code, rec.Body.String())
	}

	if resp.Status != model.StatusOptimal && resp.Status != model.StatusFeasible {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Stats.TotalAssignments == 0 {
		t.Fatal("应产出派工")
	}
	if len(resp.Assignments) != resp.Stats.TotalAssignments {
		t.Errorf("派工列表长度 %d 与统计 %d 不一致", len(resp.Assignments), resp.Stats.TotalAssignments)
	}
	if resp.Stats.SolveTimeSeconds <= 0 {
		t.Error("求解耗时应大于0")
	}

	req := weekRequest()
	workers := make(map[int64]model.Worker)
	for _, w := range req.Workers {
		workers[w.ID] = w
	}
	sites := make(map[int64]model.Site)
	for _, s := range req.Sites {
		sites[s.ID] = s
	}

	// 可用日与排除区域
	for _, a := range resp.Assignments {
		w := workers[a.WorkerID]
		if !w.AvailableOn(a.Day) {
			t.Errorf("人员 %d 在不可用日 %s 被派工", a.WorkerID, a.Day)
		}
		if w.ExcludedRegion != "" && sites[a.SiteID].Region == w.ExcludedRegion {
			t.Errorf("人员 %d 被派到排除区域场地 %d", a.WorkerID, a.SiteID)
		}
	}

	// 每日工时上限
	for key, hours := range resp.Stats.HoursPerWorkerDay {
		if hours > 7+1e-6 {
			t.Errorf("%s 工时 %.2f 超出上限", key, hours)
		}
	}

	// 港湾中心固定开工时间与每周两次访问
	harbourDays := make(map[model.DayOfWeek]bool)
	for _, a := range resp.Assignments {
		if a.SiteID == 101 {
			harbourDays[a.Day] = true
			if a.StartTime < "08:30" {
				t.Errorf("港湾中心开工 %s 早于固定时间 08:30", a.StartTime)
			}
		}
	}
	if len(harbourDays) != 2 {
		t.Errorf("港湾中心覆盖天数 = %d, 期望 2", len(harbourDays))
	}
	if !harbourDays[model.Monday] {
		t.Error("港湾中心指定周一必须覆盖")
	}

	// 关联场地同日
	linkDays := map[int64]map[model.DayOfWeek]bool{104: {}, 105: {}}
	for _, a := range resp.Assignments {
		if m, ok := linkDays[a.SiteID]; ok {
			m[a.Day] = true
		}
	}
	for d := range linkDays[104] {
		if !linkDays[105][d] {
			t.Errorf("东环一号在 %s 被覆盖但东环二号没有", d)
		}
	}

	// 按日视图与平铺列表一致
	rosterCount := 0
	for _, entries := range resp.Roster {
		for _, e := range entries {
			rosterCount += len(e.WorkerNames)
		}
	}
	if rosterCount != resp.Stats.TotalAssignments {
		t.Errorf("按日视图人次 %d 与统计 %d 不一致", rosterCount, resp.Stats.TotalAssignments)
	}
}

// TestInfeasibleReturns422 测试无可行解的请求返回422
func TestInfeasibleReturns422(t *testing.T) {
	srv := newServer()

	req := weekRequest()
	// 所有人员都只在周一可用，但港湾中心要求两次访问且间隔2天
	for i := range req.Workers {
		req.Workers[i].AvailableDays = []model.DayOfWeek{model.Monday}
	}

	rec, _ := solve(t, srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("状态 = %d, 期望 422", rec.Code)
	}
	var errBody map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatalf("解析错误响应失败: %v", err)
	}
	if errBody["code"] != "NO_FEASIBLE_SOLUTION" {
		t.Errorf("错误码 = %v, 期望 NO_FEASIBLE_SOLUTION", errBody["code"])
	}
}

// TestConcurrentSolves 测试并发求解互不干扰
func TestConcurrentSolves(t *testing.T) {
	if testing.Short() {
		t.Skip("短模式跳过并发求解")
	}
	srv := newServer()

	body, err := json.Marshal(weekRequest())
	if err != nil {
		t.Fatalf("序列化请求失败: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/api/v1/roster", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			results[idx] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range results {
		if code != http.StatusOK {
			t.Errorf("并发求解 %d 状态 = %d", i, code)
		}
	}
}
