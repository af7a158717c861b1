package gotaylor

import (
	"fmt"
	"strings"
)

// deps returns every node n reads coefficients from: its operands and, for a
// general power, the internal exp(b*log(a)) node.
func (n *Node) deps() []*Node {
	out := n.Operands()
	if n.inner != nil {
		out = append(out, n.inner)
	}
	return out
}

// Walk calls fn once for every node reachable from root, operands before the
// nodes that use them. Shared subexpressions are visited once.
func Walk(root *Node, fn func(*Node)) {
	seen := map[*Node]bool{}
	var visit func(*Node)
	visit = func(n *Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		for _, d := range n.deps() {
			visit(d)
		}
		fn(n)
	}
	visit(root)
}

// Nodes returns the reachable nodes of root in topological order.
func Nodes(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node) { out = append(out, n) })
	return out
}

// Size returns the number of distinct nodes reachable from root.
func Size(root *Node) int {
	count := 0
	Walk(root, func(*Node) { count++ })
	return count
}

// Leaves returns the reachable leaves of root in topological order.
func Leaves(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node) {
		if n.op == OpLeaf {
			out = append(out, n)
		}
	})
	return out
}

// DiffDepth returns how many orders beyond the requested one evaluating root
// may read: the largest sum of Differentiate orders along any path to a leaf.
func DiffDepth(root *Node) int {
	depth := map[*Node]int{}
	Walk(root, func(n *Node) {
		d := 0
		for _, dep := range n.deps() {
			if depth[dep] > d {
				d = depth[dep]
			}
		}
		if n.op == OpDiff && n.shift > 0 {
			d += n.shift
		}
		depth[n] = d
	})
	return depth[root]
}

// Graphviz renders the DAG reachable from root in the DOT language. Internal
// nodes of a general power are drawn as well, since they carry coefficients.
func Graphviz(root *Node) string {
	ids := map[*Node]int{}
	Walk(root, func(n *Node) { ids[n] = len(ids) })

	var b strings.Builder
	b.WriteString("digraph taylor {\n")
	b.WriteString("\trankdir=BT;\n")
	Walk(root, func(n *Node) {
		label := n.op.String()
		switch {
		case n.op == OpLeaf && n.name != "":
			label = fmt.Sprintf("%s = %g", n.name, n.c.At(0))
		case n.op == OpLeaf:
			label = fmt.Sprintf("%g", n.c.At(0))
		case n.op == OpPowConst:
			label = fmt.Sprintf("pow %g", n.p)
		case n.op == OpDiff:
			label = fmt.Sprintf("diff %d", n.shift)
		}
		fmt.Fprintf(&b, "\tn%d [label=%q];\n", ids[n], fmt.Sprintf("%s [%d]", label, n.c.upTo))
		for _, d := range n.deps() {
			fmt.Fprintf(&b, "\tn%d -> n%d;\n", ids[d], ids[n])
		}
	})
	b.WriteString("}\n")
	return b.String()
}
