package solver

import (
	"testing"
	"time"

	apperrors "github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
)

func TestBuild_模型规模(t *testing.T) {
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: model.Weekdays()},
			{ID: 2, Name: "李师傅", AvailableDays: model.Weekdays()},
		},
		Sites: []model.Site{
			{ID: 1, Name: "东门岗亭", MinWorkers: 1, MaxWorkers: 2, HoursRequired: 2},
			{ID: 2, Name: "西门岗亭", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1},
		},
		Days: model.Weekdays(),
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	variables, constraints := m.Size()
	// 2人 x 2场地 x 7天 = 28 个派工变量，外加覆盖、工时及辅助变量
	if variables < 42 {
		t.Errorf("变量数 = %d, 应不少于 42", variables)
	}
	if constraints == 0 {
		t.Error("约束数不应为 0")
	}

	if _, err := m.Proto(); err != nil {
		t.Errorf("Proto() unexpected error: %v", err)
	}
}

func TestSolve_单人单场地提取(t *testing.T) {
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 1, Name: "东门岗亭", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1,
				VisitsPerWeek: &model.VisitRule{Count: 1}},
		},
		Days: []model.DayOfWeek{model.Monday},
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	out, err := Solve(m, 10*time.Second)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}
	if out.Status != model.StatusOptimal && out.Status != model.StatusFeasible {
		t.Errorf("Status = %q", out.Status)
	}

	plan, warnings := Extract(m, out)
	if len(warnings) != 0 {
		t.Errorf("不应有告警: %v", warnings)
	}
	if len(plan.Visits) != 1 {
		t.Fatalf("访问数 = %d, expected 1", len(plan.Visits))
	}
	v := plan.Visits[0]
	if v.Site != 0 || v.Day != 0 {
		t.Errorf("访问位置 = %+v", v)
	}
	if len(v.Workers) != 1 || v.Workers[0] != 0 {
		t.Errorf("派工人员 = %v", v.Workers)
	}
	if len(v.Shares) != 1 || v.Shares[0] != 60 {
		t.Errorf("工时分摊 = %v, expected [60]", v.Shares)
	}
}

func TestSolve_两人均分工时(t *testing.T) {
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: []model.DayOfWeek{model.Monday}},
			{ID: 2, Name: "李师傅", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 1, Name: "东门岗亭", MinWorkers: 2, MaxWorkers: 2, HoursRequired: 1,
				VisitsPerWeek: &model.VisitRule{Count: 1}},
		},
		Days: []model.DayOfWeek{model.Monday},
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	out, err := Solve(m, 10*time.Second)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}

	plan, warnings := Extract(m, out)
	if len(warnings) != 0 {
		t.Errorf("求解工时与规范分摊不应出现分歧: %v", warnings)
	}
	if len(plan.Visits) != 1 {
		t.Fatalf("访问数 = %d, expected 1", len(plan.Visits))
	}
	v := plan.Visits[0]
	if len(v.Shares) != 2 || v.Shares[0] != 30 || v.Shares[1] != 30 {
		t.Errorf("60 分钟两人均分应为 [30 30], got %v", v.Shares)
	}
}

func TestSolve_访问频次与最小间隔(t *testing.T) {
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: model.Weekdays()},
		},
		Sites: []model.Site{
			{ID: 1, Name: "东门岗亭", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1,
				VisitsPerWeek: &model.VisitRule{Count: 2, MinGapDays: 2}},
		},
		Days: model.Weekdays(),
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	out, err := Solve(m, 10*time.Second)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}

	plan, _ := Extract(m, out)
	if len(plan.Visits) != 2 {
		t.Fatalf("访问数 = %d, expected 2", len(plan.Visits))
	}
	gap := plan.Visits[1].Day - plan.Visits[0].Day
	if gap < 0 {
		gap = -gap
	}
	if gap < 2 {
		t.Errorf("两次访问间隔 = %d 天, 应不少于 2", gap)
	}
}

func TestSolve_关联场地同日(t *testing.T) {
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: model.Weekdays()},
			{ID: 2, Name: "李师傅", AvailableDays: model.Weekdays()},
		},
		Sites: []model.Site{
			{ID: 1, Name: "东门岗亭", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1,
				LinkedSite: &model.SiteLink{SiteID: 2, MinGapDays: 0}},
			{ID: 2, Name: "西门岗亭", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1},
		},
		Days: model.Weekdays(),
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	out, err := Solve(m, 10*time.Second)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}

	plan, _ := Extract(m, out)
	days := map[int][]int{}
	for _, v := range plan.Visits {
		days[v.Site] = append(days[v.Site], v.Day)
	}
	if len(days[0]) == 0 || len(days[1]) == 0 {
		t.Fatalf("关联双方都应被覆盖: %v", days)
	}
	if len(days[0]) != len(days[1]) {
		t.Fatalf("关联双方访问次数应一致: %v", days)
	}
	for i := range days[0] {
		if days[0][i] != days[1][i] {
			t.Errorf("关联场地应同日作业: %v vs %v", days[0], days[1])
		}
	}
}

func TestSolve_关联场地日距(t *testing.T) {
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: model.Weekdays()},
		},
		Sites: []model.Site{
			{ID: 1, Name: "东门岗亭", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1,
				LinkedSite: &model.SiteLink{SiteID: 2, MinGapDays: 2}},
			{ID: 2, Name: "西门岗亭", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1},
		},
		Days: model.Weekdays(),
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	out, err := Solve(m, 10*time.Second)
	if err != nil {
		t.Fatalf("Solve() unexpected error: %v", err)
	}

	plan, _ := Extract(m, out)
	if len(plan.Visits) != 2 {
		t.Fatalf("关联双方各访问一次, got %d", len(plan.Visits))
	}
	gap := plan.Visits[0].Day - plan.Visits[1].Day
	if gap < 0 {
		gap = -gap
	}
	if gap < 2 {
		t.Errorf("关联场地日距 = %d, 应不少于 2", gap)
	}
}

func TestSolve_无可行解(t *testing.T) {
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 1, Name: "东门岗亭", MinWorkers: 2, MaxWorkers: 2, HoursRequired: 1,
				VisitsPerWeek: &model.VisitRule{Count: 1}},
		},
		Days: []model.DayOfWeek{model.Monday},
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	_, err = Solve(m, 10*time.Second)
	if err == nil {
		t.Fatal("Solve() expected error")
	}
	if !apperrors.Is(err, apperrors.CodeNoFeasibleSolution) {
		t.Errorf("错误码 = %v, expected %v", apperrors.GetCode(err), apperrors.CodeNoFeasibleSolution)
	}
}

func TestSolve_工时上限不可行(t *testing.T) {
	// 8 小时场地只许一人，超出每日 7 小时上限
	p := normalize(t, &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 1, Name: "中央广场", MinWorkers: 1, MaxWorkers: 1, HoursRequired: 8,
				VisitsPerWeek: &model.VisitRule{Count: 1}},
		},
		Days: []model.DayOfWeek{model.Monday},
	})

	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	_, err = Solve(m, 10*time.Second)
	if !apperrors.Is(err, apperrors.CodeNoFeasibleSolution) {
		t.Errorf("错误码 = %v, expected %v", apperrors.GetCode(err), apperrors.CodeNoFeasibleSolution)
	}
}

func TestDiverged(t *testing.T) {
	tests := []struct {
		name      string
		solved    []int
		canonical []int
		want      bool
	}{
		{"完全一致", []int{30, 30}, []int{30, 30}, false},
		{"顺序不同但值一致", []int{40, 41}, []int{41, 40}, false},
		{"取值不同", []int{29, 31}, []int{30, 30}, true},
		{"单人一致", []int{60}, []int{60}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diverged(tt.solved, tt.canonical); got != tt.want {
				t.Errorf("diverged(%v, %v) = %v, want %v", tt.solved, tt.canonical, got, tt.want)
			}
		})
	}
}

func normalize(t *testing.T, req *model.RosterRequest) *problem.Problem {
	t.Helper()
	p, err := problem.Normalize(req)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	return p
}
