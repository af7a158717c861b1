package gotaylor

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ============================================================
// MCP Tool Interface
// ============================================================

// DefaultMaxOrder bounds the order a tool call may request.
const DefaultMaxOrder = 64

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// Toolbox executes tool calls. Every call builds its own graph, so a Toolbox
// is safe for concurrent use.
type Toolbox struct {
	// MaxOrder is the highest order a call may request. Zero means
	// DefaultMaxOrder.
	MaxOrder int
}

// Tools lists the tool names Handle understands, in schema order.
func Tools() []string {
	return []string{"taylor", "derivative", "gradient", "taylor_batch", "to_string", "graphviz", "mcp_spec"}
}

// HandleToolCall runs req with the default toolbox.
func HandleToolCall(req ToolRequest) ToolResponse {
	return (&Toolbox{}).Handle(req)
}

func (tb *Toolbox) maxOrder() int {
	if tb == nil || tb.MaxOrder <= 0 {
		return DefaultMaxOrder
	}
	return tb.MaxOrder
}

// Handle executes one tool call.
func (tb *Toolbox) Handle(req ToolRequest) ToolResponse {
	getVars := func() (map[string]float64, error) {
		v, ok := req.Params["vars"]
		if !ok {
			return map[string]float64{}, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param vars must be an object of numbers")
		}
		var err error
		out := make(map[string]float64, len(raw))
		for name, r := range raw {
			f, ok := r.(float64)
			if !ok {
				err = appendErr(err, fmt.Errorf("param vars.%s must be a number", name))
				continue
			}
			out[name] = f
		}
		return out, err
	}
	getString := func(key string) (string, bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", false, nil
		}
		s, ok := v.(string)
		if !ok {
			return "", false, fmt.Errorf("param %s must be a string", key)
		}
		return s, true, nil
	}
	getStrings := func(key string) ([]string, bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, false, nil
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, false, fmt.Errorf("param %s must be array", key)
		}
		result := make([]string, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok {
				return nil, false, fmt.Errorf("param %s[%d] must be string", key, i)
			}
			result[i] = s
		}
		return result, true, nil
	}
	getOrder := func(def int) (int, error) {
		v, ok := req.Params["order"]
		if !ok {
			return def, nil
		}
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return 0, fmt.Errorf("param order must be an integer")
		}
		k := int(f)
		if k < 0 || k > tb.maxOrder() {
			return 0, errors.Wrapf(ErrOutOfRange, "order %d not in [0, %d]", k, tb.maxOrder())
		}
		return k, nil
	}
	getExpr := func(key string, scope Scope) (*Node, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		n, err := FromJSON(v, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "param %s", key)
		}
		return n, nil
	}
	// withinBudget rejects graphs whose evaluation to order would read past
	// MaxOrder through nested diff nodes.
	withinBudget := func(f *Node, order int) error {
		depth := DiffDepth(f)
		if order+depth > tb.maxOrder() {
			return errors.Wrapf(ErrOutOfRange, "order %d plus derivative depth %d exceeds %d", order, depth, tb.maxOrder())
		}
		return nil
	}
	// markWrt marks the leaf named by the wrt param as independent.
	markWrt := func(scope Scope) error {
		wrt, ok, err := getString("wrt")
		if err != nil || !ok {
			return err
		}
		leaf, ok := scope[wrt]
		if !ok {
			return fmt.Errorf("wrt: unknown variable %q", wrt)
		}
		leaf.MarkIndependent()
		return nil
	}

	fail := func(err error) ToolResponse {
		return ToolResponse{Error: err.Error(), Code: ErrorCode(err)}
	}

	vars, err := getVars()
	if err != nil {
		return fail(err)
	}
	scope := NewScope(vars)

	switch req.Tool {
	case "taylor":
		f, err := getExpr("expr", scope)
		if err != nil {
			return fail(err)
		}
		order, err := getOrder(1)
		if err != nil {
			return fail(err)
		}
		if err := withinBudget(f, order); err != nil {
			return fail(err)
		}
		if err := markWrt(scope); err != nil {
			return fail(err)
		}
		coeffs, err := Coeffs(f, order)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{
			Result: map[string]interface{}{"coeffs": jsonFloats(coeffs), "order": order},
			String: f.String(),
		}

	case "derivative":
		f, err := getExpr("expr", scope)
		if err != nil {
			return fail(err)
		}
		order, err := getOrder(1)
		if err != nil {
			return fail(err)
		}
		if err := withinBudget(f, order); err != nil {
			return fail(err)
		}
		if _, ok := req.Params["wrt"]; !ok {
			return fail(fmt.Errorf("missing param: wrt"))
		}
		if err := markWrt(scope); err != nil {
			return fail(err)
		}
		d := Differentiate(f, order)
		v, err := d.Value()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{
			Result: map[string]interface{}{"value": jsonFloat(v), "order": order},
			String: d.String(),
		}

	case "gradient":
		f, err := getExpr("expr", scope)
		if err != nil {
			return fail(err)
		}
		names, ok, err := getStrings("names")
		if err != nil {
			return fail(err)
		}
		if !ok {
			names = scope.Names()
		}
		if err := withinBudget(f, 1); err != nil {
			return fail(err)
		}
		grad, err := Gradient(f, scope, names)
		if err != nil {
			return fail(err)
		}
		result := make(map[string]interface{}, len(grad))
		for i, name := range names {
			result[name] = jsonFloat(grad[i])
		}
		return ToolResponse{Result: result, String: f.String()}

	case "taylor_batch":
		raw, ok := req.Params["exprs"].([]interface{})
		if !ok {
			return fail(fmt.Errorf("param exprs must be array"))
		}
		order, err := getOrder(1)
		if err != nil {
			return fail(err)
		}
		graphs := make([]*Node, len(raw))
		for i, r := range raw {
			if graphs[i], err = FromJSON(r, scope); err != nil {
				return fail(errors.Wrapf(err, "exprs[%d]", i))
			}
			if err := withinBudget(graphs[i], order); err != nil {
				return fail(errors.Wrapf(err, "exprs[%d]", i))
			}
		}
		if err := markWrt(scope); err != nil {
			return fail(err)
		}
		var batchErr error
		results := make([]interface{}, len(graphs))
		for i, f := range graphs {
			coeffs, err := Coeffs(f, order)
			if err != nil {
				batchErr = appendErr(batchErr, errors.Wrapf(err, "exprs[%d]", i))
				continue
			}
			results[i] = jsonFloats(coeffs)
		}
		resp := ToolResponse{Result: results}
		if batchErr != nil {
			resp.Error = batchErr.Error()
			resp.Code = ErrorCode(batchErr)
		}
		return resp

	case "to_string":
		f, err := getExpr("expr", scope)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{String: f.String()}

	case "graphviz":
		f, err := getExpr("expr", scope)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: Graphviz(f), String: f.String()}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec()}
	}
	return ToolResponse{Error: "unknown tool: " + req.Tool, Code: "UNKNOWN_TOOL"}
}

// Gradient returns the first partial derivatives of f with respect to the
// named leaves of scope. The graph is built once and reused: before each
// partial it is Reset and only that leaf is marked independent.
func Gradient(f *Node, scope Scope, names []string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		leaf, ok := scope[name]
		if !ok {
			return nil, fmt.Errorf("gradient: unknown variable %q", name)
		}
		f.Reset()
		leaf.MarkIndependent()
		d, err := f.Get(1)
		if err != nil {
			return nil, errors.Wrapf(err, "d/d%s", name)
		}
		out[i] = d
	}
	f.Reset()
	return out, nil
}

// jsonFloat maps values JSON cannot carry (NaN, ±Inf) to null.
func jsonFloat(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func jsonFloats(fs []float64) []interface{} {
	out := make([]interface{}, len(fs))
	for i, f := range fs {
		out[i] = jsonFloat(f)
	}
	return out
}

// ============================================================
// MCP spec
// ============================================================

func MCPToolSpec() string {
	exprVars := map[string]string{"expr": "object", "vars": "object", "wrt": "string", "order": "integer"}
	tools := []map[string]interface{}{
		ts("taylor", "Taylor coefficients c[0..order] of expr at vars, with respect to the wrt variable", []string{"expr"}, exprVars),
		ts("derivative", "order-th derivative of expr with respect to wrt at vars", []string{"expr", "wrt"}, exprVars),
		ts("gradient", "First partial derivatives of expr at vars. Optional names (string[])", []string{"expr", "vars"}, map[string]string{"expr": "object", "vars": "object", "names": "array"}),
		ts("taylor_batch", "Taylor coefficients for several expressions sharing vars", []string{"exprs"}, map[string]string{"exprs": "array", "vars": "object", "wrt": "string", "order": "integer"}),
		ts("to_string", "Render expr as infix text", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("graphviz", "Render the expression DAG in DOT", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
