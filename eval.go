package gotaylor

import "github.com/pkg/errors"

// ============================================================
// Graph evaluation driver
// ============================================================

// Evaluate computes orders 0..to of n and of everything n depends on. Orders
// already valid are kept, so calling Evaluate again with the same or a smaller
// order is a no-op. When an order fails, the orders before it stay readable.
func (n *Node) Evaluate(to int) error {
	if to < 0 {
		return errors.Wrapf(ErrOutOfRange, "evaluate to order %d", to)
	}
	return n.eval(to)
}

// eval advances n order by order. Before each order it brings every
// dependency up to the order that step reads, depth first; memoization makes
// a shared dependency cost one check per extra parent.
func (n *Node) eval(to int) error {
	for k := n.c.upTo + 1; k <= to; k++ {
		if err := n.prepare(k); err != nil {
			return err
		}
		if err := n.step(k); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) prepare(k int) error {
	switch n.op {
	case OpLeaf:
		return nil
	case OpPow:
		return n.inner.eval(k)
	case OpDiff:
		if n.shift < 0 {
			return opError(ErrOutOfRange, n.op, k, "negative derivative order %d", n.shift)
		}
		return n.a.eval(k + n.shift)
	}
	if err := n.a.eval(k); err != nil {
		return err
	}
	if n.b != nil {
		return n.b.eval(k)
	}
	return nil
}

// step makes order k valid. A slot set by the host ahead of evaluation is
// kept as is; the auxiliary series still advances.
func (n *Node) step(k int) error {
	if n.c.Known(k) {
		n.c.advance()
	} else {
		v, err := n.term(k)
		if err != nil {
			return err
		}
		n.c.push(v)
	}
	if n.aux != nil {
		n.aux.push(n.auxTerm(k))
	}
	return nil
}

// Get returns the coefficient of order k, evaluating n up to k if needed.
func (n *Node) Get(k int) (float64, error) {
	if k < 0 {
		return 0, errors.Wrapf(ErrOutOfRange, "get order %d", k)
	}
	if err := n.eval(k); err != nil {
		return 0, err
	}
	return n.c.vals[k], nil
}

// Set overwrites the coefficient of order k. On a leaf, order 0 is the base
// value and order 1 = 1 marks the independent variable. Set invalidates no
// other order: after changing a leaf that was already evaluated, Reset the
// graph before evaluating again.
func (n *Node) Set(k int, v float64) error {
	if k < 0 {
		return errors.Wrapf(ErrOutOfRange, "set order %d", k)
	}
	return n.c.Set(k, v)
}

// UpTo returns the highest valid order of n, or -1.
func (n *Node) UpTo() int { return n.c.upTo }

// Coeffs returns a copy of the valid coefficients of n.
func (n *Node) Coeffs() []float64 { return n.c.Values() }

// Series returns the primary coefficient store of n.
func (n *Node) Series() *Series { return n.c }

// Value returns the order-0 coefficient, evaluating it if needed.
func (n *Node) Value() (float64, error) { return n.Get(0) }

// Derivative returns the order-th derivative of n with respect to the
// independent variable: coefficient order scaled by order!.
func (n *Node) Derivative(order int) (float64, error) {
	c, err := n.Get(order)
	if err != nil {
		return 0, err
	}
	return c * Factorial(order), nil
}

// ============================================================
// Reset
// ============================================================

// Reset forgets every cached coefficient reachable from n so the same graph
// can be evaluated again. Leaves keep their base value (order 0) and drop
// everything above it, including an independent-variable marker; every other
// node drops all orders, auxiliary series included. Reset is idempotent.
func (n *Node) Reset() {
	Walk(n, func(m *Node) {
		if m.op == OpLeaf {
			m.c.Truncate(1)
		} else {
			m.c.Truncate(0)
		}
		if m.aux != nil {
			m.aux.Truncate(0)
		}
	})
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Evaluate(n *Node, to int) error      { return n.Evaluate(to) }
func Reset(n *Node)                       { n.Reset() }
func Get(n *Node, k int) (float64, error) { return n.Get(k) }
func Set(n *Node, k int, v float64) error { return n.Set(k, v) }

// Coeffs evaluates n to order to and returns coefficients 0..to.
func Coeffs(n *Node, to int) ([]float64, error) {
	if err := n.Evaluate(to); err != nil {
		return nil, err
	}
	return n.c.Values()[:to+1], nil
}
