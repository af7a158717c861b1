package gotaylor

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// ============================================================
// JSON Serialization
// ============================================================

// Scope maps leaf names to nodes so that every reference to a variable in a
// JSON expression resolves to the same shared leaf.
type Scope map[string]*Node

// NewScope returns a scope holding one named leaf per entry of values.
func NewScope(values map[string]float64) Scope {
	s := Scope{}
	for name, v := range values {
		s[name] = NamedLeaf(name, v)
	}
	return s
}

// Lookup returns the leaf called name, creating it with base value 0 when the
// scope does not have it yet.
func (s Scope) Lookup(name string) *Node {
	if n, ok := s[name]; ok {
		return n
	}
	n := NamedLeaf(name, 0)
	s[name] = n
	return n
}

// Names returns the names in the scope, sorted.
func (s Scope) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// maxDiffOrder bounds a decoded diff order so that it converts to int
// exactly. Callers with a tighter budget check DiffDepth.
const maxDiffOrder = 1 << 30

var unaryOps = map[string]Op{
	"neg":    OpNeg,
	"pos":    OpPos,
	"square": OpSquare,
	"sqrt":   OpSqrt,
	"exp":    OpExp,
	"log":    OpLog,
	"sin":    OpSin,
	"cos":    OpCos,
	"tan":    OpTan,
	"asin":   OpAsin,
	"acos":   OpAcos,
	"atan":   OpAtan,
}

var binaryOps = map[string]Op{
	"add": OpAdd,
	"sub": OpSub,
	"mul": OpMul,
	"div": OpDiv,
}

// ToJSON encodes the expression reachable from n. Shared subexpressions are
// written out at every use; named leaves come back shared through a Scope.
func ToJSON(n *Node) (string, error) {
	b, err := json.Marshal(n.toJSON())
	return string(b), err
}

func (n *Node) toJSON() map[string]interface{} {
	switch n.op {
	case OpLeaf:
		m := map[string]interface{}{"type": "leaf", "value": n.c.At(0)}
		if n.name != "" {
			m["name"] = n.name
		}
		return m
	case OpAdd, OpSub, OpMul, OpDiv:
		return map[string]interface{}{"type": n.op.String(), "lhs": n.a.toJSON(), "rhs": n.b.toJSON()}
	case OpPow:
		return map[string]interface{}{"type": "pow", "base": n.a.toJSON(), "exp": n.b.toJSON()}
	case OpPowConst:
		return map[string]interface{}{
			"type": "pow",
			"base": n.a.toJSON(),
			"exp":  map[string]interface{}{"type": "const", "value": n.p},
		}
	case OpDiff:
		return map[string]interface{}{"type": "diff", "arg": n.a.toJSON(), "order": n.shift}
	}
	return map[string]interface{}{"type": n.op.String(), "arg": n.a.toJSON()}
}

// FromJSON builds a graph from a decoded JSON expression. A bare number is a
// constant. Leaves written as {"type":"var","name":...} or named leaves are
// resolved through scope, which may be nil.
func FromJSON(data interface{}, scope Scope) (*Node, error) {
	if scope == nil {
		scope = Scope{}
	}
	o, err := fromJSON(data, scope)
	if err != nil {
		return nil, err
	}
	return operand(o), nil
}

// ParseJSON decodes text and builds the expression it holds.
func ParseJSON(text string, scope Scope) (*Node, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}
	return FromJSON(data, scope)
}

func fromJSON(raw interface{}, scope Scope) (Operand, error) {
	if f, ok := raw.(float64); ok {
		return Const(f), nil
	}
	data, ok := raw.(map[string]interface{})
	if !ok || data == nil {
		return nil, fmt.Errorf("expression must be an object or a number")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	sub := func(field string) (Operand, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		o, err := fromJSON(v, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", typ, field)
		}
		return o, nil
	}

	subNumber := func(field string) (float64, error) {
		v, ok := data[field]
		if !ok {
			return 0, fmt.Errorf("%s: missing %q", typ, field)
		}
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) {
			return 0, fmt.Errorf("%s: %q must be a number", typ, field)
		}
		return f, nil
	}

	subName := func() (string, error) {
		v, ok := data["name"]
		if !ok {
			return "", nil
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: 'name' must be a non-empty string", typ)
		}
		return s, nil
	}

	if op, ok := unaryOps[typ]; ok {
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return unary(op, arg), nil
	}
	// pair decodes two operand fields, reporting both when both are bad.
	pair := func(first, second string) (Operand, Operand, error) {
		a, errA := sub(first)
		b, errB := sub(second)
		if err := appendErr(errA, errB); err != nil {
			return nil, nil, err
		}
		return a, b, nil
	}

	if op, ok := binaryOps[typ]; ok {
		lhs, rhs, err := pair("lhs", "rhs")
		if err != nil {
			return nil, err
		}
		return binary(op, lhs, rhs), nil
	}

	switch typ {
	case "const":
		v, err := subNumber("value")
		if err != nil {
			return nil, err
		}
		return Const(v), nil

	case "var":
		name, err := subName()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, fmt.Errorf("var: missing \"name\"")
		}
		return scope.Lookup(name), nil

	case "leaf":
		v, err := subNumber("value")
		if err != nil {
			return nil, err
		}
		name, err := subName()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return Leaf(v), nil
		}
		if n, ok := scope[name]; ok {
			return n, nil
		}
		n := NamedLeaf(name, v)
		scope[name] = n
		return n, nil

	case "pow":
		base, exp, err := pair("base", "exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "diff":
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		order, err := subNumber("order")
		if err != nil {
			return nil, err
		}
		if order != math.Trunc(order) {
			return nil, fmt.Errorf("diff: 'order' must be an integer")
		}
		if order < 0 || order > maxDiffOrder {
			return nil, errors.Wrapf(ErrOutOfRange, "diff: order %g not in [0, %d]", order, maxDiffOrder)
		}
		return Differentiate(arg, int(order)), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}
