package solver

import (
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/model"
)

// DefaultBudget 求解时间预算默认值
const DefaultBudget = 10 * time.Second

// Outcome 一次成功求解的结果，持有解值供提取阶段读取
type Outcome struct {
	Status    string
	Objective float64
	WallTime  float64

	response *cmpb.CpSolverResponse
}

// BoolValue 读取布尔变量的解值
func (o *Outcome) BoolValue(v cpmodel.BoolVar) bool {
	return cpmodel.SolutionBooleanValue(o.response, v)
}

// IntValue 读取整数表达式的解值
func (o *Outcome) IntValue(e cpmodel.LinearArgument) int64 {
	return cpmodel.SolutionIntegerValue(o.response, e)
}

// Solve 在时间预算内求解模型
// 约束互斥时返回不可行错误，预算耗尽且没有任何可行解时返回超时错误
func Solve(m *Model, budget time.Duration) (*Outcome, error) {
	if budget <= 0 {
		budget = DefaultBudget
	}
	mp, err := m.Proto()
	if err != nil {
		return nil, err
	}
	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(budget.Seconds()),
	}
	response, err := cpmodel.SolveCpModelWithParameters(mp, params)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "求解器执行失败")
	}

	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL:
		return newOutcome(model.StatusOptimal, response), nil
	case cmpb.CpSolverStatus_FEASIBLE:
		return newOutcome(model.StatusFeasible, response), nil
	case cmpb.CpSolverStatus_INFEASIBLE:
		return nil, errors.NoFeasibleSolution("约束之间相互冲突，不存在可行排班")
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return nil, errors.New(errors.CodeInternal, "约束模型无效")
	default:
		return nil, errors.New(errors.CodeTimeout, "求解时间预算耗尽，未找到可行解")
	}
}

func newOutcome(status string, response *cmpb.CpSolverResponse) *Outcome {
	return &Outcome{
		Status:    status,
		Objective: response.GetObjectiveValue(),
		WallTime:  response.GetWallTime(),
		response:  response,
	}
}
