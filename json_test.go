package gotaylor_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor"
)

func TestParseJSON_SharesVariables(t *testing.T) {
	scope := gotaylor.NewScope(map[string]float64{"x": 3})
	f, err := gotaylor.ParseJSON(`{"type":"mul","lhs":{"type":"var","name":"x"},"rhs":{"type":"var","name":"x"}}`, scope)
	require.NoError(t, err)

	assert.Equal(t, 2, gotaylor.Size(f))
	assert.Same(t, scope["x"], f.Operands()[0])
	assert.Same(t, f.Operands()[0], f.Operands()[1])

	scope["x"].MarkIndependent()
	assert.Equal(t, []float64{9, 6, 1}, coeffs(t, f, 2))
}

func TestParseJSON_UnknownVarDefaultsToZero(t *testing.T) {
	scope := gotaylor.Scope{}
	f, err := gotaylor.ParseJSON(`{"type":"exp","arg":{"type":"var","name":"z"}}`, scope)
	require.NoError(t, err)
	assert.Contains(t, scope, "z")

	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestParseJSON_Power(t *testing.T) {
	f, err := gotaylor.ParseJSON(`{"type":"pow","base":{"type":"var","name":"x"},"exp":2}`, nil)
	require.NoError(t, err)
	assert.Equal(t, gotaylor.OpPowConst, f.Op())

	f, err = gotaylor.ParseJSON(`{"type":"pow","base":{"type":"var","name":"x"},"exp":{"type":"const","value":2}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, gotaylor.OpPowConst, f.Op())

	f, err = gotaylor.ParseJSON(`{"type":"pow","base":{"type":"var","name":"x"},"exp":{"type":"var","name":"y"}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, gotaylor.OpPow, f.Op())
}

func TestParseJSON_Diff(t *testing.T) {
	f, err := gotaylor.ParseJSON(`{"type":"diff","arg":{"type":"sin","arg":{"type":"var","name":"x"}},"order":2}`, nil)
	require.NoError(t, err)
	assert.Equal(t, gotaylor.OpDiff, f.Op())
	assert.Equal(t, 2, f.DiffOrder())
}

func TestParseJSON_BareNumber(t *testing.T) {
	f, err := gotaylor.ParseJSON(`4.5`, nil)
	require.NoError(t, err)
	assert.True(t, f.IsLeaf())
	assert.Equal(t, "4.5", f.String())
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"invalid json", `{`},
		{"string", `"x"`},
		{"missing type", `{"arg":1}`},
		{"empty type", `{"type":""}`},
		{"unknown type", `{"type":"sinh","arg":1}`},
		{"missing operand", `{"type":"add","lhs":1}`},
		{"bad nested operand", `{"type":"neg","arg":{"type":"nope"}}`},
		{"var without name", `{"type":"var"}`},
		{"const without value", `{"type":"const"}`},
		{"fractional diff order", `{"type":"diff","arg":1,"order":1.5}`},
		{"bad name", `{"type":"leaf","value":1,"name":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gotaylor.ParseJSON(tt.text, nil)
			assert.Error(t, err)
		})
	}
}

func TestParseJSON_ReportsEveryBadOperand(t *testing.T) {
	_, err := gotaylor.ParseJSON(`{"type":"add","lhs":{"type":"nope"},"rhs":{"type":"pow","base":{},"exp":"x"}}`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add: lhs")
	assert.Contains(t, err.Error(), "add: rhs")
	assert.Contains(t, err.Error(), "pow: base")
	assert.Contains(t, err.Error(), "pow: exp")
}

func TestParseJSON_DiffOrderRange(t *testing.T) {
	for _, order := range []string{"-1", "1e19"} {
		_, err := gotaylor.ParseJSON(`{"type":"diff","arg":1,"order":`+order+`}`, nil)
		require.Error(t, err, order)
		assert.True(t, errors.Is(err, gotaylor.ErrOutOfRange), "order %s: %v", order, err)
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	x := gotaylor.NamedLeaf("x", 0.5)
	y := gotaylor.NamedLeaf("y", 2)
	f := gotaylor.AddOf(
		gotaylor.MulOf(y, gotaylor.SqrtOf(x)),
		gotaylor.DivOf(gotaylor.PowOf(x, gotaylor.Const(3)), gotaylor.PowOf(y, x)))
	f = gotaylor.SubOf(f, gotaylor.Differentiate(gotaylor.AtanOf(x), 1))

	text, err := gotaylor.ToJSON(f)
	require.NoError(t, err)

	scope := gotaylor.Scope{}
	g, err := gotaylor.ParseJSON(text, scope)
	require.NoError(t, err)
	assert.Equal(t, f.String(), g.String())
	assert.Equal(t, gotaylor.Size(f), gotaylor.Size(g))

	x.MarkIndependent()
	scope["x"].MarkIndependent()
	assertCoeffs(t, coeffs(t, f, 4), coeffs(t, g, 4))
}

func TestScope_Names(t *testing.T) {
	s := gotaylor.NewScope(map[string]float64{"b": 1, "a": 2})
	s.Lookup("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())
	assert.Equal(t, "a", s["a"].Name())
}
