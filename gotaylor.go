// Package gotaylor computes Taylor-series coefficients of functions built from
// elementary arithmetic and transcendental operations.
//
// Design goals:
//   - Forward-mode automatic differentiation as truncated power-series arithmetic
//   - Lazy expression DAG: building is O(1) per operation, evaluation is on demand
//   - Memoized order-by-order evaluation, shared subexpressions computed once
//   - Reusable graphs: Reset and re-seed leaves instead of rebuilding
//   - AI/LLM friendly: JSON expressions and an MCP-ready tool interface
//
// Every node carries a sequence of coefficients c[k] = f⁽ᵏ⁾(t₀)/k!. A leaf whose
// order-1 coefficient is 1 is the variable the series is taken with respect to:
//
//	x := gotaylor.Leaf(1)
//	x.MarkIndependent()
//	y := gotaylor.Leaf(2)
//	f := gotaylor.AddOf(gotaylor.MulOf(y, gotaylor.SqrtOf(x)), gotaylor.SinOf(gotaylor.SqrtOf(x)))
//	if err := f.Evaluate(3); err != nil { ... }
//	df, _ := f.Get(1) // ∂f/∂x at (1, 2)
package gotaylor

import (
	"fmt"
	"math"
)

// ============================================================
// Op — operator tags
// ============================================================

// Op identifies the operation a Node performs.
type Op int

const (
	OpLeaf Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpPos
	OpPow      // general power, exp(exponent*log(base))
	OpPowConst // power with a constant exponent
	OpSqrt
	OpExp
	OpLog
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpSquare
	OpDiff // derivative series of the operand
)

var opNames = [...]string{
	OpLeaf:     "leaf",
	OpAdd:      "add",
	OpSub:      "sub",
	OpMul:      "mul",
	OpDiv:      "div",
	OpNeg:      "neg",
	OpPos:      "pos",
	OpPow:      "pow",
	OpPowConst: "pow",
	OpSqrt:     "sqrt",
	OpExp:      "exp",
	OpLog:      "log",
	OpSin:      "sin",
	OpCos:      "cos",
	OpTan:      "tan",
	OpAsin:     "asin",
	OpAcos:     "acos",
	OpAtan:     "atan",
	OpSquare:   "square",
	OpDiff:     "diff",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Arity returns the number of operands an operator takes.
func (o Op) Arity() int {
	switch o {
	case OpLeaf:
		return 0
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return 2
	}
	return 1
}

// ============================================================
// Node — one subexpression of the DAG
// ============================================================

// Node is one subexpression. Operands are shared with every other parent that
// references them, so a Node must not be evaluated from two goroutines at once.
// Disjoint graphs are independent.
type Node struct {
	op   Op
	name string
	a, b *Node

	// p is the exponent of OpPowConst; shift is the derivative order of OpDiff.
	p     float64
	shift int

	// inner is the exp(b*log(a)) node an OpPow mirrors.
	inner *Node

	c   *Series
	aux *Series
}

// Leaf returns a node with no operands holding the base value v.
func Leaf(v float64) *Node {
	return &Node{op: OpLeaf, c: newSeriesWith(v)}
}

// NamedLeaf is Leaf with a display name, used by String, JSON and the tools.
func NamedLeaf(name string, v float64) *Node {
	n := Leaf(v)
	n.name = name
	return n
}

// Var returns a named leaf already marked as the independent variable.
func Var(name string, v float64) *Node {
	n := NamedLeaf(name, v)
	n.MarkIndependent()
	return n
}

// MarkIndependent sets the order-1 coefficient to 1, which makes n the
// variable subsequent coefficients are taken with respect to.
func (n *Node) MarkIndependent() { _ = n.c.Set(1, 1) }

// Op returns the operator of n.
func (n *Node) Op() Op { return n.op }

// Name returns the display name of a leaf, or "".
func (n *Node) Name() string { return n.name }

// Operands returns the direct operands of n.
func (n *Node) Operands() []*Node {
	switch {
	case n.a == nil:
		return nil
	case n.b == nil:
		return []*Node{n.a}
	}
	return []*Node{n.a, n.b}
}

// Exponent returns the constant exponent of an OpPowConst node.
func (n *Node) Exponent() float64 { return n.p }

// DiffOrder returns the derivative order of an OpDiff node.
func (n *Node) DiffOrder() int { return n.shift }

// IsLeaf reports whether n has no operands.
func (n *Node) IsLeaf() bool { return n.op == OpLeaf }

// ============================================================
// Operand — nodes and raw scalars
// ============================================================

// Operand is accepted by every builder: a *Node or a Const.
type Operand interface {
	node() *Node
}

// Const is a raw scalar operand. It behaves as a leaf whose every order ≥ 1
// is zero.
type Const float64

func (n *Node) node() *Node {
	if n == nil {
		panic("gotaylor: nil operand")
	}
	return n
}

func (c Const) node() *Node { return Leaf(float64(c)) }

func operand(o Operand) *Node {
	if o == nil {
		panic("gotaylor: nil operand")
	}
	return o.node()
}

func unary(op Op, u Operand) *Node {
	n := &Node{op: op, a: operand(u), c: NewSeries()}
	switch op {
	case OpSin, OpCos, OpTan, OpAsin, OpAcos, OpAtan:
		n.aux = NewSeries()
	}
	return n
}

func binary(op Op, u, v Operand) *Node {
	return &Node{op: op, a: operand(u), b: operand(v), c: NewSeries()}
}

// ============================================================
// Builders
// ============================================================

// AddOf returns u+v.
func AddOf(u, v Operand) *Node { return binary(OpAdd, u, v) }

// SubOf returns u-v.
func SubOf(u, v Operand) *Node { return binary(OpSub, u, v) }

// MulOf returns u*v.
func MulOf(u, v Operand) *Node { return binary(OpMul, u, v) }

// DivOf returns u/v. A zero order-0 denominator fails with ErrDivisionByZero.
func DivOf(u, v Operand) *Node { return binary(OpDiv, u, v) }

// NegOf returns -u.
func NegOf(u Operand) *Node { return unary(OpNeg, u) }

// PosOf returns +u, a node with the coefficients of u.
func PosOf(u Operand) *Node { return unary(OpPos, u) }

// SquareOf returns u².
func SquareOf(u Operand) *Node { return unary(OpSquare, u) }

// SqrtOf returns √u. It needs u ≥ 0, and u > 0 beyond order 0.
func SqrtOf(u Operand) *Node { return unary(OpSqrt, u) }

// ExpOf returns e^u.
func ExpOf(u Operand) *Node { return unary(OpExp, u) }

// LogOf returns the natural logarithm of u, which needs u > 0.
func LogOf(u Operand) *Node { return unary(OpLog, u) }

// SinOf, CosOf and TanOf return the trigonometric functions of u.
func SinOf(u Operand) *Node { return unary(OpSin, u) }
func CosOf(u Operand) *Node { return unary(OpCos, u) }
func TanOf(u Operand) *Node { return unary(OpTan, u) }

// AsinOf, AcosOf and AtanOf return the inverse trigonometric functions of u.
// Asin and acos need |u| ≤ 1, and |u| < 1 beyond order 0.
func AsinOf(u Operand) *Node { return unary(OpAsin, u) }
func AcosOf(u Operand) *Node { return unary(OpAcos, u) }
func AtanOf(u Operand) *Node { return unary(OpAtan, u) }

// PowOf returns base^exponent. A Const exponent selects the dedicated
// constant-exponent recurrence; otherwise the power is composed as
// exp(exponent*log(base)), which needs a positive order-0 base.
func PowOf(base, exponent Operand) *Node {
	if p, ok := exponent.(Const); ok {
		n := unary(OpPowConst, base)
		n.p = float64(p)
		return n
	}
	n := binary(OpPow, base, exponent)
	n.inner = ExpOf(MulOf(n.b, LogOf(n.a)))
	return n
}

// Differentiate returns the order-th derivative series of u. Its order-0
// coefficient is u's coefficient at order scaled by order!, the derivative
// value itself; higher orders continue the derivative's own Taylor series.
// A negative order fails with ErrOutOfRange when evaluated.
func Differentiate(u Operand, order int) *Node {
	n := unary(OpDiff, u)
	n.shift = order
	return n
}

// Factorial returns k! as a float64.
func Factorial(k int) float64 {
	if k < 0 {
		return math.NaN()
	}
	f := 1.0
	for i := 2; i <= k; i++ {
		f *= float64(i)
	}
	return f
}
