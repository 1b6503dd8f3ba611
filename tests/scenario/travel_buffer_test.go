package scenario

import (
	"testing"

	"github.com/crewroster/crewroster/pkg/model"
)

// TestTravelBufferSequencing 测试同人多场地间的通勤缓冲
// 两个1小时场地、45分钟缓冲、默认06:00开工：
// 第一处 06:00-07:00，第二处不早于 07:45 开工
func TestTravelBufferSequencing(t *testing.T) {
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "连跑师傅", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 10, Name: "甲场", Priority: model.PriorityHigh, Region: "central",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1},
			{ID: 20, Name: "乙场", Priority: model.PriorityHigh, Region: "central",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1},
		},
		Days:                []model.DayOfWeek{model.Monday},
		TravelBufferMinutes: 45,
	}

	resp := mustSolve(t, req)

	if len(resp.Assignments) != 2 {
		t.Fatalf("派工数 = %d, 期望 2", len(resp.Assignments))
	}

	first, second := resp.Assignments[0], resp.Assignments[1]
	if first.SiteID != 10 {
		first, second = second, first
	}
	if first.StartTime != "06:00" || first.FinishTime != "07:00" {
		t.Errorf("第一处时段 = %s-%s, 期望 06:00-07:00", first.StartTime, first.FinishTime)
	}
	if second.StartTime < "07:45" {
		t.Errorf("第二处开工 = %s, 不应早于 07:45", second.StartTime)
	}
}

// TestFixedStartTime 测试场地固定开工时间优先于默认值
func TestFixedStartTime(t *testing.T) {
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "甲", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 10, Name: "晚开工场", Priority: model.PriorityHigh, Region: "central",
				StartTime:  "09:30",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
		},
		Days: []model.DayOfWeek{model.Monday},
	}

	resp := mustSolve(t, req)

	a := resp.Assignments[0]
	if a.StartTime != "09:30" || a.FinishTime != "11:30" {
		t.Errorf("时段 = %s-%s, 期望 09:30-11:30", a.StartTime, a.FinishTime)
	}
}

// TestDefaultStartOverride 测试全局默认开工时间覆盖
func TestDefaultStartOverride(t *testing.T) {
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "甲", AvailableDays: []model.DayOfWeek{model.Monday}},
		},
		Sites: []model.Site{
			{ID: 10, Name: "普通场", Priority: model.PriorityHigh, Region: "central",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 1},
		},
		Days:             []model.DayOfWeek{model.Monday},
		DefaultStartTime: "08:00",
	}

	resp := mustSolve(t, req)

	a := resp.Assignments[0]
	if a.StartTime != "08:00" {
		t.Errorf("开工时间 = %s, 期望全局默认 08:00", a.StartTime)
	}
}
