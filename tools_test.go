package gotaylor_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gotaylor"
)

func call(t *testing.T, tb *gotaylor.Toolbox, body string) gotaylor.ToolResponse {
	t.Helper()
	var req gotaylor.ToolRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return tb.Handle(req)
}

const sinX = `{"type":"sin","arg":{"type":"var","name":"x"}}`

func TestTool_Taylor(t *testing.T) {
	resp := call(t, &gotaylor.Toolbox{}, `{"tool":"taylor","params":{"expr":`+sinX+`,"vars":{"x":0},"wrt":"x","order":3}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "sin(x)", resp.String)

	result := resp.Result.(map[string]interface{})
	assert.Equal(t, 3, result["order"])
	got := result["coeffs"].([]interface{})
	require.Len(t, got, 4)
	assert.InDelta(t, 1.0, got[1], tol)
	assert.InDelta(t, -1.0/6, got[3], tol)
}

func TestTool_TaylorWithoutWrtIsConstant(t *testing.T) {
	resp := call(t, nil, `{"tool":"taylor","params":{"expr":`+sinX+`,"vars":{"x":0},"order":2}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, []interface{}{0.0, 0.0, 0.0}, resp.Result.(map[string]interface{})["coeffs"])
}

func TestTool_Derivative(t *testing.T) {
	resp := gotaylor.HandleToolCall(gotaylor.ToolRequest{Tool: "derivative", Params: map[string]interface{}{
		"expr":  map[string]interface{}{"type": "sin", "arg": map[string]interface{}{"type": "var", "name": "x"}},
		"vars":  map[string]interface{}{"x": 0.0},
		"wrt":   "x",
		"order": 3.0,
	}})
	require.Empty(t, resp.Error)
	assert.InDelta(t, -1.0, resp.Result.(map[string]interface{})["value"], tol)
	assert.Equal(t, "diff(sin(x), 3)", resp.String)
}

func TestTool_Gradient(t *testing.T) {
	expr := `{"type":"mul","lhs":{"type":"var","name":"x"},"rhs":{"type":"sin","arg":{"type":"var","name":"y"}}}`
	resp := call(t, nil, `{"tool":"gradient","params":{"expr":`+expr+`,"vars":{"x":2,"y":0}}}`)
	require.Empty(t, resp.Error)

	grad := resp.Result.(map[string]interface{})
	assert.InDelta(t, 0.0, grad["x"], tol)
	assert.InDelta(t, 2.0, grad["y"], tol)
}

func TestGradient_ReusesGraph(t *testing.T) {
	scope := gotaylor.NewScope(map[string]float64{"x": 3, "y": 4})
	f := gotaylor.SqrtOf(gotaylor.AddOf(gotaylor.SquareOf(scope["x"]), gotaylor.SquareOf(scope["y"])))

	grad, err := gotaylor.Gradient(f, scope, []string{"x", "y"})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, grad[0], tol)
	assert.InDelta(t, 0.8, grad[1], tol)
	assert.Equal(t, -1, f.UpTo(), "the graph is left reset")

	_, err = gotaylor.Gradient(f, scope, []string{"z"})
	assert.Error(t, err)
}

func TestTool_TaylorBatch(t *testing.T) {
	good := `{"type":"mul","lhs":{"type":"var","name":"x"},"rhs":{"type":"var","name":"x"}}`
	bad := `{"type":"log","arg":{"type":"sub","lhs":{"type":"var","name":"x"},"rhs":5}}`
	resp := call(t, nil, `{"tool":"taylor_batch","params":{"exprs":[`+good+`,`+bad+`],"vars":{"x":2},"wrt":"x","order":2}}`)

	results := resp.Result.([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, []interface{}{4.0, 4.0, 1.0}, results[0])
	assert.Nil(t, results[1])
	assert.Equal(t, "DOMAIN_ERROR", resp.Code)
	assert.Contains(t, resp.Error, "exprs[1]")
}

func TestTool_ToStringAndGraphviz(t *testing.T) {
	resp := call(t, nil, `{"tool":"to_string","params":{"expr":`+sinX+`}}`)
	assert.Equal(t, "sin(x)", resp.String)

	resp = call(t, nil, `{"tool":"graphviz","params":{"expr":`+sinX+`}}`)
	assert.Contains(t, resp.Result, "digraph taylor")
}

func TestTool_MCPSpecListsTools(t *testing.T) {
	resp := call(t, nil, `{"tool":"mcp_spec"}`)
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Result.(string)), &spec))
	require.Len(t, spec.Tools, len(gotaylor.Tools()))
	for i, name := range gotaylor.Tools() {
		assert.Equal(t, name, spec.Tools[i].Name)
	}
}

func TestTool_Errors(t *testing.T) {
	tests := []struct {
		name     string
		tb       *gotaylor.Toolbox
		body     string
		wantCode string
	}{
		{"unknown tool", nil, `{"tool":"integrate"}`, "UNKNOWN_TOOL"},
		{"missing expr", nil, `{"tool":"taylor","params":{}}`, "INVALID_REQUEST"},
		{"vars not numbers", nil, `{"tool":"taylor","params":{"expr":1,"vars":{"x":"one"}}}`, "INVALID_REQUEST"},
		{"fractional order", nil, `{"tool":"taylor","params":{"expr":1,"order":1.5}}`, "INVALID_REQUEST"},
		{"negative order", nil, `{"tool":"taylor","params":{"expr":1,"order":-1}}`, "OUT_OF_RANGE"},
		{"order above max", &gotaylor.Toolbox{MaxOrder: 3}, `{"tool":"taylor","params":{"expr":1,"order":4}}`, "OUT_OF_RANGE"},
		{"unknown wrt", nil, `{"tool":"taylor","params":{"expr":1,"wrt":"q"}}`, "INVALID_REQUEST"},
		{"division by zero", nil, `{"tool":"taylor","params":{"expr":{"type":"div","lhs":1,"rhs":0}}}`, "DIVISION_BY_ZERO"},
		{"exprs not array", nil, `{"tool":"taylor_batch","params":{"exprs":1}}`, "INVALID_REQUEST"},
		{"diff depth above max", &gotaylor.Toolbox{MaxOrder: 4},
			`{"tool":"taylor","params":{"expr":{"type":"diff","order":200000,"arg":{"type":"exp","arg":{"type":"var","name":"x"}}},"vars":{"x":0},"wrt":"x"}}`,
			"OUT_OF_RANGE"},
		{"order plus diff depth above max", &gotaylor.Toolbox{MaxOrder: 4},
			`{"tool":"taylor","params":{"expr":{"type":"diff","order":3,"arg":{"type":"var","name":"x"}},"order":2}}`,
			"OUT_OF_RANGE"},
		{"derivative of diff above max", &gotaylor.Toolbox{MaxOrder: 4},
			`{"tool":"derivative","params":{"expr":{"type":"diff","order":4,"arg":{"type":"var","name":"x"}},"wrt":"x","order":1}}`,
			"OUT_OF_RANGE"},
		{"batch diff depth above max", &gotaylor.Toolbox{MaxOrder: 4},
			`{"tool":"taylor_batch","params":{"exprs":[1,{"type":"diff","order":9,"arg":1}]}}`,
			"OUT_OF_RANGE"},
		{"negative diff order", nil, `{"tool":"taylor","params":{"expr":{"type":"diff","order":-1,"arg":1}}}`, "OUT_OF_RANGE"},
		{"huge diff order", nil, `{"tool":"taylor","params":{"expr":{"type":"diff","order":1e19,"arg":1}}}`, "OUT_OF_RANGE"},
		{"derivative without wrt", nil, `{"tool":"derivative","params":{"expr":` + sinX + `,"vars":{"x":0}}}`, "INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, tt.tb, tt.body)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestTool_DiffWithinBudget(t *testing.T) {
	tb := &gotaylor.Toolbox{MaxOrder: 4}
	expr := `{"type":"diff","order":2,"arg":{"type":"exp","arg":{"type":"var","name":"x"}}}`
	resp := call(t, tb, `{"tool":"taylor","params":{"expr":`+expr+`,"vars":{"x":0},"wrt":"x","order":2}}`)
	require.Empty(t, resp.Error)

	got := resp.Result.(map[string]interface{})["coeffs"].([]interface{})
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], tol)
	assert.InDelta(t, 0.5, got[2], tol)
}

func TestTool_NonFiniteBecomesNull(t *testing.T) {
	// exp(1000) overflows to +Inf, which JSON cannot carry.
	resp := call(t, nil, `{"tool":"taylor","params":{"expr":{"type":"exp","arg":1000},"order":0}}`)
	require.Empty(t, resp.Error)
	coeffs := resp.Result.(map[string]interface{})["coeffs"].([]interface{})
	assert.Nil(t, coeffs[0])

	_, err := json.Marshal(resp)
	assert.NoError(t, err)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", gotaylor.ErrorCode(nil))
	assert.Equal(t, "OUT_OF_RANGE", gotaylor.ErrorCode(errors.Wrap(gotaylor.ErrOutOfRange, "x")))
	assert.Equal(t, "INVALID_REQUEST", gotaylor.ErrorCode(errors.New("other")))
}
