package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// Conditional 条件约束对：全部守卫变量为真时约束才生效
// 守卫语义与引擎的条件激活 API 解耦，方便单独推理
type Conditional struct {
	Guards     []cpmodel.BoolVar
	Constraint cpmodel.Constraint
}

// When 将约束绑定到一组守卫变量上
func When(c cpmodel.Constraint, guards ...cpmodel.BoolVar) Conditional {
	return Conditional{
		Guards:     guards,
		Constraint: c.OnlyEnforceIf(guards...),
	}
}

// Unless 将约束绑定到守卫变量的取反上
func Unless(c cpmodel.Constraint, guard cpmodel.BoolVar) Conditional {
	return When(c, guard.Not())
}
