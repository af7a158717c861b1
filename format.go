package gotaylor

import (
	"strconv"
	"strings"
)

// String renders n as an infix expression. Leaves print their name when they
// have one, otherwise their base value.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.op {
	case OpLeaf:
		if n.name != "" {
			b.WriteString(n.name)
			return
		}
		b.WriteString(formatFloat(n.c.At(0)))
	case OpAdd, OpSub, OpMul, OpDiv:
		b.WriteByte('(')
		n.a.write(b)
		b.WriteString(infix[n.op])
		n.b.write(b)
		b.WriteByte(')')
	case OpPow:
		n.a.write(b)
		b.WriteByte('^')
		n.b.write(b)
	case OpPowConst:
		n.a.write(b)
		b.WriteByte('^')
		b.WriteString(formatFloat(n.p))
	case OpNeg:
		b.WriteByte('-')
		n.a.write(b)
	case OpPos:
		b.WriteByte('+')
		n.a.write(b)
	case OpDiff:
		b.WriteString("diff(")
		n.a.write(b)
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(n.shift))
		b.WriteByte(')')
	default:
		b.WriteString(n.op.String())
		b.WriteByte('(')
		n.a.write(b)
		b.WriteByte(')')
	}
}

var infix = map[Op]string{
	OpAdd: " + ",
	OpSub: " - ",
	OpMul: " * ",
	OpDiv: " / ",
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f < 0 {
		return "(" + s + ")"
	}
	return s
}
