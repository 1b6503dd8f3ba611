// Package solver 将规范化的排班问题编码为 CP-SAT 约束模型并执行求解
package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// Algebra 在约束模型上派生布尔指示变量
// 每个派生变量与其定义双向绑定，可独立于完整模型进行验证
type Algebra struct {
	builder *cpmodel.Builder
}

// NewAlgebra 创建布尔代数辅助器
func NewAlgebra(b *cpmodel.Builder) *Algebra {
	return &Algebra{builder: b}
}

// And 返回指示变量 target，满足 target ⇔ 所有输入同时为真
func (a *Algebra) And(vars ...cpmodel.BoolVar) cpmodel.BoolVar {
	target := a.builder.NewBoolVar()
	a.builder.AddBoolAnd(vars...).OnlyEnforceIf(target)
	a.builder.AddBoolOr(negate(vars)...).OnlyEnforceIf(target.Not())
	return target
}

// Or 返回指示变量 target，满足 target ⇔ 至少一个输入为真
func (a *Algebra) Or(vars ...cpmodel.BoolVar) cpmodel.BoolVar {
	target := a.builder.NewBoolVar()
	a.builder.AddBoolOr(vars...).OnlyEnforceIf(target)
	a.builder.AddBoolAnd(negate(vars)...).OnlyEnforceIf(target.Not())
	return target
}

// Iff 返回指示变量 target，满足 target ⇔ (x 与 y 取值相同)
func (a *Algebra) Iff(x, y cpmodel.BoolVar) cpmodel.BoolVar {
	target := a.builder.NewBoolVar()
	a.builder.AddEquality(x, y).OnlyEnforceIf(target)
	a.builder.AddNotEqual(x, y).OnlyEnforceIf(target.Not())
	return target
}

// Implies 添加约束 x → y
func (a *Algebra) Implies(x, y cpmodel.BoolVar) {
	a.builder.AddImplication(x, y)
}

// negate 返回所有变量的取反
func negate(vars []cpmodel.BoolVar) []cpmodel.BoolVar {
	out := make([]cpmodel.BoolVar, len(vars))
	for i, v := range vars {
		out[i] = v.Not()
	}
	return out
}
