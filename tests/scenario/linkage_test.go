package scenario

import (
	"context"
	"testing"

	apperrors "github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler"
)

// TestLinkedSitesSameDay 测试间隔为0的关联场地同日覆盖
func TestLinkedSitesSameDay(t *testing.T) {
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "甲", AvailableDays: weekdays},
			{ID: 2, Name: "乙", AvailableDays: weekdays},
		},
		Sites: []model.Site{
			{ID: 10, Name: "东场", Priority: model.PriorityHigh, Region: "central",
				LinkedSite: &model.SiteLink{SiteID: 20, MinGapDays: 0},
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
			{ID: 20, Name: "西场", Priority: model.PriorityHigh, Region: "central",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
		},
		Days: weekdays,
	}

	resp := mustSolve(t, req)

	east := coveredDayIndexes(t, resp, 10)
	west := coveredDayIndexes(t, resp, 20)
	if len(east) != len(west) {
		t.Fatalf("两场地覆盖天数不一致: %v vs %v", east, west)
	}
	for i := range east {
		if east[i] != west[i] {
			t.Errorf("间隔为0的关联场地覆盖日应完全一致: %v vs %v", east, west)
		}
	}
}

// TestLinkedSitesWithGap 测试间隔大于0的关联场地
// 间隔2天：两场地各访问一次，访问日距离 >= 2
func TestLinkedSitesWithGap(t *testing.T) {
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "甲", AvailableDays: weekdays},
		},
		Sites: []model.Site{
			{ID: 10, Name: "头道清", Priority: model.PriorityHigh, Region: "central",
				LinkedSite: &model.SiteLink{SiteID: 20, MinGapDays: 2},
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
			{ID: 20, Name: "二道清", Priority: model.PriorityHigh, Region: "central",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
		},
		Days: weekdays,
	}

	resp := mustSolve(t, req)

	first := coveredDayIndexes(t, resp, 10)
	second := coveredDayIndexes(t, resp, 20)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("关联场地应各访问一次: %v, %v", first, second)
	}
	gap := first[0] - second[0]
	if gap < 0 {
		gap = -gap
	}
	if gap < 2 {
		t.Errorf("关联场地访问日距 = %d, 期望 >= 2", gap)
	}
}

// TestLinkageConflictRejected 测试双向声明间隔不一致在求解前被拒绝
func TestLinkageConflictRejected(t *testing.T) {
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "甲", AvailableDays: weekdays},
		},
		Sites: []model.Site{
			{ID: 10, Name: "东场", Priority: model.PriorityHigh, Region: "central",
				LinkedSite: &model.SiteLink{SiteID: 20, MinGapDays: 1},
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
			{ID: 20, Name: "西场", Priority: model.PriorityHigh, Region: "central",
				LinkedSite: &model.SiteLink{SiteID: 10, MinGapDays: 3},
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
		},
		Days: weekdays,
	}

	_, err := scheduler.New().Generate(context.Background(), req)
	if err == nil {
		t.Fatal("间隔声明冲突应被拒绝")
	}
	if !apperrors.Is(err, apperrors.CodeValidationFail) {
		t.Errorf("错误码 = %v, 期望 VALIDATION_FAILED", apperrors.GetCode(err))
	}
}

// TestInfeasibleStaffing 测试人手不足导致的不可行
// 场地要求2人同时在场但只有1人：声明了频次必须覆盖，无可行解
func TestInfeasibleStaffing(t *testing.T) {
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "独苗", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 10, Name: "双人场", Priority: model.PriorityHigh, Region: "central",
				VisitsPerWeek: &model.VisitRule{Count: 1},
				MinWorkers:    2, MaxWorkers: 2, HoursRequired: 2},
		},
		Days: []model.DayOfWeek{model.Monday},
	}

	_, err := scheduler.New().Generate(context.Background(), req)
	if err == nil {
		t.Fatal("人手不足应返回错误")
	}
	if !apperrors.Is(err, apperrors.CodeNoFeasibleSolution) {
		t.Errorf("错误码 = %v, 期望 NO_FEASIBLE_SOLUTION", apperrors.GetCode(err))
	}
}
