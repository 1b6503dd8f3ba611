package builtin

import (
	"strings"
	"testing"

	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
)

func TestRegisterDefaults(t *testing.T) {
	manager := constraint.NewManager()
	RegisterDefaults(manager, nil)

	if manager.Count() != 9 {
		t.Errorf("约束数 = %d, expected 9", manager.Count())
	}
	if hard := manager.GetByCategory(constraint.CategoryHard); len(hard) != 7 {
		t.Errorf("硬约束数 = %d, expected 7", len(hard))
	}
	if soft := manager.GetByCategory(constraint.CategorySoft); len(soft) != 2 {
		t.Errorf("软约束数 = %d, expected 2", len(soft))
	}
}

func TestRegisterDefaults_配置覆盖权重(t *testing.T) {
	manager := constraint.NewManager()
	RegisterDefaults(manager, map[string]interface{}{
		"fragmentation_weight": 55,
	})

	c := manager.GetConstraint(constraint.TypeFragmentation)
	if c == nil {
		t.Fatal("拆班约束应已注册")
	}
	if c.Weight() != 55 {
		t.Errorf("Weight = %d, expected 55", c.Weight())
	}
}

func TestCoverageBounds(t *testing.T) {
	tests := []struct {
		name       string
		entries    []constraint.Entry
		wantValid  bool
		wantCount  int
		wantPhrase string
	}{
		{
			name: "人数在边界内",
			entries: []constraint.Entry{
				entry(1, 9, model.Monday, 120),
				entry(3, 9, model.Monday, 120),
			},
			wantValid: true,
		},
		{
			name: "超过人数上限",
			entries: []constraint.Entry{
				entry(1, 6, model.Monday, 60),
				entry(3, 6, model.Monday, 60),
			},
			wantValid:  false,
			wantCount:  1,
			wantPhrase: "要求 1 到 1 人",
		},
		{
			name: "重复派工",
			entries: []constraint.Entry{
				entry(1, 9, model.Monday, 120),
				entry(1, 9, model.Monday, 120),
			},
			wantValid:  false,
			wantCount:  1,
			wantPhrase: "被重复派工",
		},
	}

	c := NewCoverageBoundsConstraint()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t, nil, tt.entries)
			valid, _, details := c.Evaluate(ctx)
			assertOutcome(t, valid, details, tt.wantValid, tt.wantCount, tt.wantPhrase)
		})
	}
}

func TestAvailability(t *testing.T) {
	c := NewAvailabilityConstraint()

	t.Run("可用日内", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{entry(2, 9, model.Monday, 240)})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, true, 0, "")
	})

	t.Run("不可用日被派工", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{entry(2, 9, model.Tuesday, 240)})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "不可用")
	})
}

func TestRegionExclusion(t *testing.T) {
	c := NewRegionExclusionConstraint()

	t.Run("未排除区域", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{
			entry(1, 6, model.Monday, 120), // 张师傅无排除区域
			entry(2, 9, model.Monday, 240), // 李师傅排除北区，海港大院在中区
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, true, 0, "")
	})

	t.Run("被派往排除区域", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{entry(2, 6, model.Monday, 120)})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "排除了 north 区域")
	})
}

func TestMaxHoursPerDay(t *testing.T) {
	tests := []struct {
		name      string
		entries   []constraint.Entry
		wantValid bool
	}{
		{
			name: "恰好达到上限",
			entries: []constraint.Entry{
				entry(1, 9, model.Monday, 240),
				entry(1, 6, model.Monday, 180),
			},
			wantValid: true,
		},
		{
			name: "单场地一分钟取整误差",
			entries: []constraint.Entry{
				entry(1, 9, model.Monday, 421),
			},
			wantValid: true,
		},
		{
			name: "超出上限",
			entries: []constraint.Entry{
				entry(1, 9, model.Monday, 240),
				entry(1, 6, model.Monday, 240),
			},
			wantValid: false,
		},
	}

	c := NewMaxHoursPerDayConstraint()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t, nil, tt.entries)
			valid, penalty, details := c.Evaluate(ctx)
			if valid != tt.wantValid {
				t.Errorf("valid = %v, want %v (%v)", valid, tt.wantValid, details)
			}
			if !tt.wantValid && penalty == 0 {
				t.Error("违反时应有惩罚值")
			}
		})
	}
}

func TestVisitFrequency(t *testing.T) {
	c := NewVisitFrequencyConstraint()

	t.Run("声明频次恰好满足", func(t *testing.T) {
		ctx := newTestContext(t, func(r *model.RosterRequest) {
			r.Sites[0].VisitsPerWeek = &model.VisitRule{Count: 2}
		}, []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(1, 9, model.Wednesday, 240),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, true, 0, "")
	})

	t.Run("声明频次不足", func(t *testing.T) {
		ctx := newTestContext(t, func(r *model.RosterRequest) {
			r.Sites[0].VisitsPerWeek = &model.VisitRule{Count: 2}
		}, []constraint.Entry{
			entry(1, 9, model.Monday, 240),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "每周应访问 2 次")
	})

	t.Run("未声明频次访问两次", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(1, 9, model.Friday, 240),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "最多访问一次")
	})

	t.Run("作业未落在固定日", func(t *testing.T) {
		ctx := newTestContext(t, func(r *model.RosterRequest) {
			r.Sites[0].RequiredDays = []model.DayOfWeek{model.Monday}
		}, []constraint.Entry{
			entry(1, 9, model.Tuesday, 240),
		})
		valid, _, details := c.Evaluate(ctx)
		// 周二作业同时违反固定日要求
		if valid {
			t.Errorf("应判定违规: %v", details)
		}
		found := false
		for _, d := range details {
			if strings.Contains(d.Message, "不是固定日") {
				found = true
			}
		}
		if !found {
			t.Errorf("应包含固定日违规: %v", details)
		}
	})
}

func TestVisitGap(t *testing.T) {
	c := NewVisitGapConstraint()

	t.Run("间隔满足", func(t *testing.T) {
		ctx := newTestContext(t, func(r *model.RosterRequest) {
			r.Sites[0].VisitsPerWeek = &model.VisitRule{Count: 2, MinGapDays: 2}
		}, []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(1, 9, model.Wednesday, 240),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, true, 0, "")
	})

	t.Run("间隔不足", func(t *testing.T) {
		ctx := newTestContext(t, func(r *model.RosterRequest) {
			r.Sites[0].VisitsPerWeek = &model.VisitRule{Count: 2, MinGapDays: 2}
		}, []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(1, 9, model.Tuesday, 240),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "要求至少 2 天")
	})
}

func TestLinkage(t *testing.T) {
	c := NewLinkageConstraint()
	linked := func(gap int) func(*model.RosterRequest) {
		return func(r *model.RosterRequest) {
			r.Sites[0].LinkedSite = &model.SiteLink{SiteID: 6, MinGapDays: gap}
		}
	}

	t.Run("同日作业", func(t *testing.T) {
		ctx := newTestContext(t, linked(0), []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(3, 6, model.Monday, 120),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, true, 0, "")
	})

	t.Run("同日要求被违反", func(t *testing.T) {
		ctx := newTestContext(t, linked(0), []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(3, 6, model.Tuesday, 120),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "要求同日作业")
	})

	t.Run("日距满足", func(t *testing.T) {
		ctx := newTestContext(t, linked(2), []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(3, 6, model.Wednesday, 120),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, true, 0, "")
	})

	t.Run("日距不足", func(t *testing.T) {
		ctx := newTestContext(t, linked(2), []constraint.Entry{
			entry(1, 9, model.Monday, 240),
			entry(3, 6, model.Tuesday, 120),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "要求至少 2 天")
	})

	t.Run("一方未被安排", func(t *testing.T) {
		ctx := newTestContext(t, linked(2), []constraint.Entry{
			entry(1, 9, model.Monday, 240),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, false, 1, "双方都必须被安排")
	})
}

func TestDurationSplit(t *testing.T) {
	c := NewDurationSplitConstraint(60, 1)

	t.Run("均分一致", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{
			entry(1, 9, model.Monday, 120),
			entry(3, 9, model.Monday, 120),
		})
		valid, penalty, details := c.Evaluate(ctx)
		if !valid || penalty != 0 || len(details) != 0 {
			t.Errorf("应无违规: valid=%v penalty=%d details=%v", valid, penalty, details)
		}
	})

	t.Run("合计与分摊差同时违规", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{
			entry(1, 9, model.Monday, 130),
			entry(3, 9, model.Monday, 120),
		})
		valid, penalty, details := c.Evaluate(ctx)
		if valid {
			t.Error("应判定违规")
		}
		if len(details) != 2 {
			t.Errorf("违规数 = %d, expected 2: %v", len(details), details)
		}
		if penalty != 120 {
			t.Errorf("惩罚 = %d, expected 120", penalty)
		}
	})
}

func TestFragmentation(t *testing.T) {
	c := NewFragmentationConstraint(40)

	t.Run("班组整进整出", func(t *testing.T) {
		ctx := newTestContext(t, nil, []constraint.Entry{
			entry(1, 9, model.Monday, 120),
			entry(3, 9, model.Monday, 120),
			entry(2, 6, model.Monday, 120),
		})
		valid, _, details := c.Evaluate(ctx)
		assertOutcome(t, valid, details, true, 0, "")
	})

	t.Run("拆班换人", func(t *testing.T) {
		ctx := newTestContext(t, func(r *model.RosterRequest) {
			r.Sites[1].MaxWorkers = 2
		}, []constraint.Entry{
			entry(1, 9, model.Monday, 120),
			entry(2, 9, model.Monday, 120),
			entry(2, 6, model.Monday, 60),
			entry(3, 6, model.Monday, 60),
		})
		valid, penalty, details := c.Evaluate(ctx)
		if valid {
			t.Error("应判定拆班")
		}
		if penalty == 0 || len(details) == 0 {
			t.Errorf("penalty=%d details=%v", penalty, details)
		}
		if !strings.Contains(details[0].Message, "拆班换人") {
			t.Errorf("违规信息 = %q", details[0].Message)
		}
	})
}

// assertOutcome 校验评估结论、违规数量与关键字
func assertOutcome(t *testing.T, valid bool, details []constraint.ViolationDetail, wantValid bool, wantCount int, wantPhrase string) {
	t.Helper()
	if valid != wantValid {
		t.Errorf("valid = %v, want %v (%v)", valid, wantValid, details)
	}
	if wantCount > 0 && len(details) != wantCount {
		t.Errorf("违规数 = %d, want %d: %v", len(details), wantCount, details)
	}
	if wantPhrase != "" {
		found := false
		for _, d := range details {
			if strings.Contains(d.Message, wantPhrase) {
				found = true
			}
		}
		if !found {
			t.Errorf("未找到包含 %q 的违规: %v", wantPhrase, details)
		}
	}
}

func entry(workerID, siteID int64, day model.DayOfWeek, share int) constraint.Entry {
	return constraint.Entry{WorkerID: workerID, SiteID: siteID, Day: day, Share: share}
}

// newTestContext 构造三人两场地五天的校验上下文
func newTestContext(t *testing.T, mutate func(*model.RosterRequest), entries []constraint.Entry) *constraint.Context {
	t.Helper()
	req := &model.RosterRequest{
		Workers: []model.Worker{
			{ID: 1, Name: "张师傅", AvailableDays: model.Weekdays()},
			{ID: 2, Name: "李师傅", AvailableDays: []model.DayOfWeek{model.Monday}, ExcludedRegion: "north"},
			{ID: 3, Name: "王师傅", AvailableDays: model.Weekdays()},
		},
		Sites: []model.Site{
			{ID: 9, Name: "海港大院", Priority: model.PriorityHigh, Region: "central",
				MinWorkers: 1, MaxWorkers: 2, HoursRequired: 4},
			{ID: 6, Name: "北桥车场", Priority: model.PriorityMedium, Region: "north",
				MinWorkers: 1, MaxWorkers: 1, HoursRequired: 2},
		},
		Days: model.Weekdays(),
	}
	if mutate != nil {
		mutate(req)
	}
	p, err := problem.Normalize(req)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	ctx := constraint.NewContext(p)
	ctx.SetEntries(entries)
	return ctx
}
