// Package constraints 约束库元数据
// 描述排班模型支持的硬约束与目标函数软约束项，供前端展示
package constraints

// ConstraintParam 约束参数定义
type ConstraintParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // int, float, string, bool, array
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
	Min         string `json:"min,omitempty"`
	Max         string `json:"max,omitempty"`
}

// ConstraintDefinition 约束定义
type ConstraintDefinition struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Type        string            `json:"type"`     // hard 硬约束, soft 目标函数软约束
	Category    string            `json:"category"` // 分类
	Description string            `json:"description"`
	Params      []ConstraintParam `json:"params,omitempty"`
}

// LibraryResponse 约束库响应
type LibraryResponse struct {
	Library []ConstraintDefinition `json:"library"`
}

// GetLibrary 获取完整的约束库
func GetLibrary() []ConstraintDefinition {
	return []ConstraintDefinition{
		// =====================================================
		// 硬约束（任何返回的排班必须满足）
		// =====================================================
		{
			Name:        "coverage_bounds",
			DisplayName: "在场人数上下限",
			Type:        "hard",
			Category:    "人数限制",
			Description: "场地某日被覆盖时，同时在场人数必须落在该场地声明的 min_workers 与 max_workers 之间；未覆盖时不得派任何人。",
			Params: []ConstraintParam{
				{Name: "min_workers", Type: "int", Description: "最少同时在场人数", Default: "1", Min: "1"},
				{Name: "max_workers", Type: "int", Description: "最多同时在场人数", Min: "1"},
			},
		},
		{
			Name:        "availability",
			DisplayName: "人员可用日",
			Type:        "hard",
			Category:    "出勤资格",
			Description: "人员只能被派到其可用日列表中的工作日。",
		},
		{
			Name:        "region_exclusion",
			DisplayName: "排除区域",
			Type:        "hard",
			Category:    "出勤资格",
			Description: "人员不会被派到其声明排除区域内的场地。",
		},
		{
			Name:        "max_hours_per_day",
			DisplayName: "每日最大工时",
			Type:        "hard",
			Category:    "工时限制",
			Description: "人员同一天跨所有场地的工时之和不超过全局每日工时上限。",
			Params: []ConstraintParam{
				{Name: "max_hours_per_day", Type: "float", Description: "每日最大工时(小时)", Default: "7.0", Min: "1", Max: "24"},
			},
		},
		{
			Name:        "visit_frequency",
			DisplayName: "每周访问次数",
			Type:        "hard",
			Category:    "访问频次",
			Description: "显式声明 visits_per_week 或 required_days 的场地，覆盖天数必须精确等于要求的访问次数；未声明的场地最多访问一次，资源不足时可跳过。",
			Params: []ConstraintParam{
				{Name: "count", Type: "int", Description: "每周访问次数", Default: "1", Min: "1"},
			},
		},
		{
			Name:        "visit_gap",
			DisplayName: "访问最小间隔",
			Type:        "hard",
			Category:    "访问频次",
			Description: "同一场地两次访问在日程表中的索引距离不小于声明的最小间隔。",
			Params: []ConstraintParam{
				{Name: "min_gap_days", Type: "int", Description: "最小间隔天数", Default: "0", Min: "0"},
			},
		},
		{
			Name:        "required_days",
			DisplayName: "指定访问日",
			Type:        "hard",
			Category:    "访问频次",
			Description: "只声明指定访问日的场地仅能在这些日被覆盖；同时声明每周次数时，至少一次访问落在指定日，其余访问自由浮动但仍受最小间隔约束。",
		},
		{
			Name:        "linked_sites",
			DisplayName: "关联场地",
			Type:        "hard",
			Category:    "访问频次",
			Description: "间隔为0的关联场地每日覆盖决策完全一致；间隔大于0时两场地的访问日距不小于间隔，且各自每周只访问一次。",
			Params: []ConstraintParam{
				{Name: "min_gap_days", Type: "int", Description: "两场地访问日最小间隔", Default: "0", Min: "0"},
			},
		},
		// =====================================================
		// 目标函数软约束项（权重可经 WEIGHTS_FILE 覆盖）
		// =====================================================
		{
			Name:        "priority_coverage",
			DisplayName: "优先级覆盖",
			Type:        "soft",
			Category:    "覆盖质量",
			Description: "优先覆盖高优先级场地，high/medium/low 的覆盖奖励为 1000/100/10，再乘以外层系数使其压过所有其他目标项。",
			Params: []ConstraintParam{
				{Name: "priority_factor", Type: "int", Description: "外层系数", Default: "10000", Min: "0"},
			},
		},
		{
			Name:        "worker_reliability",
			DisplayName: "人员可靠度",
			Type:        "soft",
			Category:    "覆盖质量",
			Description: "优先使用可靠度评级更高的人员，奖励与评级线性相关。",
			Params: []ConstraintParam{
				{Name: "reliability_factor", Type: "int", Description: "可靠度系数", Default: "100", Min: "0"},
			},
		},
		{
			Name:        "grouping_affinity",
			DisplayName: "场地组亲和",
			Type:        "soft",
			Category:    "路线组织",
			Description: "同一场地组内的场地在同一天由同一人作业时给予奖励，奖励与当日组内场地数成正比。",
			Params: []ConstraintParam{
				{Name: "grouping_per_site", Type: "int", Description: "组内单场地奖励", Default: "50", Min: "0"},
				{Name: "grouping_factor", Type: "int", Description: "外层系数", Default: "10", Min: "0"},
			},
		},
		{
			Name:        "workload_balance",
			DisplayName: "工作量均衡",
			Type:        "soft",
			Category:    "公平性",
			Description: "惩罚人员班次数的极差（最多者减最少者），避免工作量过度集中。",
			Params: []ConstraintParam{
				{Name: "balance_factor", Type: "int", Description: "极差惩罚系数", Default: "50", Min: "0"},
			},
		},
		{
			Name:        "anti_overstaffing",
			DisplayName: "超配惩罚",
			Type:        "soft",
			Category:    "人数限制",
			Description: "场地在场人数超出最少人数时惩罚超出部分，但仅当至少一名在场人员当日只做这一个场地时生效；全员当日多场地连跑时视为人手被有效利用，不惩罚。",
			Params: []ConstraintParam{
				{Name: "overstaff_factor", Type: "int", Description: "超配惩罚系数", Default: "500", Min: "0"},
			},
		},
		{
			Name:        "assignment_penalty",
			DisplayName: "派工固定惩罚",
			Type:        "soft",
			Category:    "人数限制",
			Description: "每次派工附加固定惩罚，作为防止冗余覆盖的决胜项。",
			Params: []ConstraintParam{
				{Name: "assignment_penalty", Type: "int", Description: "单次派工惩罚", Default: "1", Min: "0"},
			},
		},
		{
			Name:        "anti_fragmentation",
			DisplayName: "拆班惩罚",
			Type:        "soft",
			Category:    "路线组织",
			Description: "同一天两个场地之间，若有人两处都做而另有人只做第二处不做第一处，视为班组中途拆散重组，给予惩罚。",
			Params: []ConstraintParam{
				{Name: "fragment_factor", Type: "int", Description: "拆班惩罚系数", Default: "800", Min: "0"},
			},
		},
	}
}
