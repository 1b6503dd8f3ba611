package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"

	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
)

// assignKey (人员, 场地, 日) 三元索引
type assignKey struct {
	w, s, d int
}

// coverKey (场地, 日) 二元索引
type coverKey struct {
	s, d int
}

// Model 排班问题的 CP-SAT 模型
// 每次求解构建一份，构建完成后变量映射只读
type Model struct {
	Problem *problem.Problem

	builder *cpmodel.Builder
	algebra *Algebra

	// assign[w,s,d] 人员 w 在第 d 天派往场地 s
	assign map[assignKey]cpmodel.BoolVar
	// covered[s,d] 场地 s 在第 d 天有人作业
	covered map[coverKey]cpmodel.BoolVar
	// minutes[w,s,d] 人员 w 在第 d 天于场地 s 的工时（分钟）
	minutes map[assignKey]cpmodel.IntVar
	// exclusive[w,s,d] 人员 w 第 d 天仅作业场地 s 的指示
	exclusive map[assignKey]cpmodel.BoolVar

	// 超编人数变量（按场地日），仅用于目标函数惩罚
	extras []cpmodel.IntVar
	// 拆班惩罚指示（同日场地对出现部分换人）
	fragments []cpmodel.BoolVar
}

// Build 从规范化问题构建完整约束模型
func Build(p *problem.Problem) (*Model, error) {
	m := &Model{
		Problem:   p,
		builder:   cpmodel.NewCpModelBuilder(),
		assign:    make(map[assignKey]cpmodel.BoolVar),
		covered:   make(map[coverKey]cpmodel.BoolVar),
		minutes:   make(map[assignKey]cpmodel.IntVar),
		exclusive: make(map[assignKey]cpmodel.BoolVar),
	}
	m.algebra = NewAlgebra(m.builder)

	m.addAssignmentVars()
	m.addCoverageConstraints()
	m.addDurationConstraints()
	m.addFrequencyConstraints()
	m.addLinkageConstraints()
	m.addContinuityIndicators()

	if _, err := m.builder.Model(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "约束模型构建失败")
	}
	return m, nil
}

// addAssignmentVars 创建派工变量并固定不合格组合为假
// 不可用日或被排除区域的 (人员, 场地, 日) 直接钉死为0
func (m *Model) addAssignmentVars() {
	for w := range m.Problem.Workers {
		worker := &m.Problem.Workers[w]
		for s := range m.Problem.Sites {
			site := &m.Problem.Sites[s]
			for d, day := range m.Problem.Days {
				v := m.builder.NewBoolVar()
				m.assign[assignKey{w, s, d}] = v
				if !worker.Eligible(site, day) {
					m.builder.AddEquality(v, m.builder.NewConstant(0))
				}
			}
		}
	}
	for s := range m.Problem.Sites {
		for d := range m.Problem.Days {
			m.covered[coverKey{s, d}] = m.builder.NewBoolVar()
		}
	}
}

// Assign 返回派工变量
func (m *Model) Assign(w, s, d int) cpmodel.BoolVar {
	return m.assign[assignKey{w, s, d}]
}

// Covered 返回覆盖指示变量
func (m *Model) Covered(s, d int) cpmodel.BoolVar {
	return m.covered[coverKey{s, d}]
}

// Minutes 返回工时变量
func (m *Model) Minutes(w, s, d int) cpmodel.IntVar {
	return m.minutes[assignKey{w, s, d}]
}

// Extras 返回全部超编人数变量
func (m *Model) Extras() []cpmodel.IntVar {
	return m.extras
}

// Fragments 返回全部拆班惩罚指示
func (m *Model) Fragments() []cpmodel.BoolVar {
	return m.fragments
}

// Builder 返回底层模型构建器（目标函数组装使用）
func (m *Model) Builder() *cpmodel.Builder {
	return m.builder
}

// Maximize 设置最大化目标
func (m *Model) Maximize(obj cpmodel.LinearArgument) {
	m.builder.Maximize(obj)
}

// Proto 导出模型协议缓冲
func (m *Model) Proto() (*cmpb.CpModelProto, error) {
	proto, err := m.builder.Model()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "约束模型导出失败")
	}
	return proto, nil
}

// Size 返回模型的变量数与约束数（日志用）
func (m *Model) Size() (variables, constraints int) {
	proto, err := m.builder.Model()
	if err != nil {
		return 0, 0
	}
	return len(proto.GetVariables()), len(proto.GetConstraints())
}

// assignSum 场地某日的在场人数表达式
func (m *Model) assignSum(s, d int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for w := range m.Problem.Workers {
		expr.Add(m.assign[assignKey{w, s, d}])
	}
	return expr
}

// dayVars 人员某日的全部派工变量
func (m *Model) dayVars(w, d int) []cpmodel.BoolVar {
	vars := make([]cpmodel.BoolVar, 0, len(m.Problem.Sites))
	for s := range m.Problem.Sites {
		vars = append(vars, m.assign[assignKey{w, s, d}])
	}
	return vars
}
