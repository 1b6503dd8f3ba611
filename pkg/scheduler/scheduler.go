// Package scheduler 排班编排入口
// 串联请求规范化、约束建模、求解、时段落位与结果校验
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/logger"
	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler/constraint"
	"github.com/crewroster/crewroster/pkg/scheduler/constraint/builtin"
	"github.com/crewroster/crewroster/pkg/scheduler/objective"
	"github.com/crewroster/crewroster/pkg/scheduler/problem"
	"github.com/crewroster/crewroster/pkg/scheduler/solver"
	"github.com/crewroster/crewroster/pkg/scheduler/timeline"
	"github.com/crewroster/crewroster/pkg/validator"
)

// Scheduler 排班器
type Scheduler struct {
	weights objective.Weights
	budget  time.Duration
	manager *constraint.Manager
	logger  *logger.RosterLogger
}

// Result 一次排班求解的完整结果
type Result struct {
	Response     *model.RosterResponse
	Verification *constraint.Result
	Warnings     []string
	Duration     time.Duration
}

// New 创建排班器，使用默认权重、默认时间预算和内置校验约束
func New() *Scheduler {
	s := &Scheduler{
		weights: objective.DefaultWeights(),
		budget:  solver.DefaultBudget,
		manager: constraint.NewManager(),
		logger:  logger.NewRosterLogger(),
	}
	builtin.RegisterDefaults(s.manager, nil)
	return s
}

// SetWeights 设置目标函数权重
func (s *Scheduler) SetWeights(w objective.Weights) {
	s.weights = w
}

// SetBudget 设置求解时间预算
func (s *Scheduler) SetBudget(d time.Duration) {
	s.budget = d
}

// Manager 返回校验约束管理器
func (s *Scheduler) Manager() *constraint.Manager {
	return s.manager
}

// Generate 根据请求生成一周排班
// 求解在时间预算内进行，调用方的 ctx 截止时间更早时以 ctx 为准
func (s *Scheduler) Generate(ctx context.Context, req *model.RosterRequest) (*Result, error) {
	startTime := time.Now()
	runID := uuid.New().String()

	p, err := problem.Normalize(req)
	if err != nil {
		return nil, err
	}

	s.logger.StartSolve(runID, p.NumWorkers(), p.NumSites(), p.NumDays())

	m, err := solver.Build(p)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "构建约束模型失败")
	}
	variables, constraints := m.Size()
	s.logger.ModelBuilt(runID, variables, constraints)

	objective.Compose(m, s.weights)

	budget := s.budget
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < budget {
			budget = remaining
		}
	}

	out, err := solver.Solve(m, budget)
	if err != nil {
		return nil, err
	}
	s.logger.SolveFinished(runID, out.Status, out.WallTime)

	plan, warnings := solver.Extract(m, out)
	for _, w := range warnings {
		s.logger.VerificationWarning("工时分摊", w)
	}
	if plan.Empty() {
		return nil, errors.EmptyRoster("没有任何场地被安排，请检查人员可用性与场地要求")
	}

	blocks := timeline.Schedule(p, plan)
	response := buildResponse(p, out, blocks)

	vctx := constraint.NewContext(p)
	vctx.SetEntries(entriesFromBlocks(p, blocks))
	verification := s.manager.Evaluate(vctx)

	detector := validator.NewConflictDetector(validator.ConfigFromProblem(p))
	for _, c := range detector.DetectAll(p, response.Assignments) {
		s.logger.VerificationWarning(string(c.Type), c.Message)
		warnings = append(warnings, c.Message)
	}

	s.logger.RosterExtracted(runID, response.Stats.TotalAssignments, time.Since(startTime))

	return &Result{
		Response:     response,
		Verification: verification,
		Warnings:     warnings,
		Duration:     time.Since(startTime),
	}, nil
}

// entriesFromBlocks 把落位后的时段转换为校验条目
func entriesFromBlocks(p *problem.Problem, blocks []timeline.Block) []constraint.Entry {
	entries := make([]constraint.Entry, 0, len(blocks))
	for _, b := range blocks {
		site := &p.Sites[b.Visit.Site]
		day := p.Days[b.Visit.Day]
		for i, w := range b.Visit.Workers {
			entries = append(entries, constraint.Entry{
				WorkerID: p.Workers[w].ID,
				SiteID:   site.ID,
				Day:      day,
				Start:    b.Start,
				Finish:   b.Finish,
				Share:    b.Visit.Shares[i],
			})
		}
	}
	return entries
}
