package gotaylor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor"
)

func TestWalk_VisitsSharedNodesOnce(t *testing.T) {
	x := gotaylor.Var("x", 1)
	s := gotaylor.SinOf(x)
	f := gotaylor.MulOf(s, s)

	nodes := gotaylor.Nodes(f)
	require.Len(t, nodes, 3)
	assert.Same(t, x, nodes[0])
	assert.Same(t, s, nodes[1])
	assert.Same(t, f, nodes[2])
}

func TestWalk_GeneralPowerIncludesInternalNodes(t *testing.T) {
	x := gotaylor.NamedLeaf("x", 2)
	y := gotaylor.NamedLeaf("y", 3)
	f := gotaylor.PowOf(x, y)

	// x, y, log(x), y*log(x), exp(...), pow
	assert.Equal(t, 6, gotaylor.Size(f))
	assert.Len(t, gotaylor.Leaves(f), 2)
}

func TestDiffDepth(t *testing.T) {
	x := gotaylor.Var("x", 1)
	assert.Equal(t, 0, gotaylor.DiffDepth(gotaylor.SinOf(x)))

	inner := gotaylor.AddOf(gotaylor.Differentiate(x, 2), gotaylor.Differentiate(x, 1))
	f := gotaylor.Differentiate(gotaylor.MulOf(inner, inner), 3)
	assert.Equal(t, 5, gotaylor.DiffDepth(f))

	// The exponent of a general power is reached through its internal nodes.
	g := gotaylor.PowOf(x, gotaylor.Differentiate(gotaylor.ExpOf(x), 4))
	assert.Equal(t, 4, gotaylor.DiffDepth(g))
}

func TestString(t *testing.T) {
	x := gotaylor.NamedLeaf("x", 1)
	tests := []struct {
		f    *gotaylor.Node
		want string
	}{
		{gotaylor.AddOf(x, gotaylor.Const(2)), "(x + 2)"},
		{gotaylor.MulOf(x, gotaylor.Const(-1)), "(x * (-1))"},
		{gotaylor.DivOf(gotaylor.SubOf(x, x), x), "((x - x) / x)"},
		{gotaylor.SinOf(x), "sin(x)"},
		{gotaylor.PowOf(x, gotaylor.Const(2)), "x^2"},
		{gotaylor.PowOf(x, gotaylor.NamedLeaf("y", 2)), "x^y"},
		{gotaylor.NegOf(x), "-x"},
		{gotaylor.PosOf(x), "+x"},
		{gotaylor.Differentiate(gotaylor.ExpOf(x), 2), "diff(exp(x), 2)"},
		{gotaylor.Leaf(0.25), "0.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.f.String())
	}
}

func TestGraphviz(t *testing.T) {
	x := gotaylor.Var("x", 1)
	f := gotaylor.AddOf(gotaylor.SinOf(x), gotaylor.PowOf(x, gotaylor.Const(2)))
	require.NoError(t, f.Evaluate(2))

	dot := gotaylor.Graphviz(f)
	assert.True(t, strings.HasPrefix(dot, "digraph taylor {"))
	assert.Contains(t, dot, `"x = 1 [2]"`)
	assert.Contains(t, dot, `"pow 2 [2]"`)
	assert.Contains(t, dot, `"add [2]"`)
	assert.Equal(t, 2, strings.Count(dot, "\tn0 ->"), "x feeds sin and pow")
}
