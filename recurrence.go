package gotaylor

import "math"

// term computes the primary coefficient of order k. Every dependency is
// already valid up to the order it needs, the primary and auxiliary stores of
// n up to k-1.
func (n *Node) term(k int) (float64, error) {
	switch n.op {
	case OpLeaf:
		if k == 0 {
			return n.c.At(0), nil
		}
		return 0, nil
	case OpAdd:
		return n.a.c.vals[k] + n.b.c.vals[k], nil
	case OpSub:
		return n.a.c.vals[k] - n.b.c.vals[k], nil
	case OpNeg:
		return -n.a.c.vals[k], nil
	case OpPos:
		return n.a.c.vals[k], nil
	case OpMul:
		return cauchy(n.a.c.vals, n.b.c.vals, 0, k), nil
	case OpSquare:
		return selfCauchy(n.a.c.vals, k), nil
	case OpDiv:
		return n.div(k)
	case OpSqrt:
		return n.sqrt(k)
	case OpExp:
		return n.exp(k), nil
	case OpLog:
		return n.log(k)
	case OpSin:
		return n.sinTerm(k, n.aux.vals), nil
	case OpCos:
		return n.cosTerm(k, n.aux.vals), nil
	case OpTan:
		return n.tan(k), nil
	case OpAsin, OpAcos:
		return n.arcsin(k)
	case OpAtan:
		return n.atan(k), nil
	case OpPowConst:
		return n.powConst(k)
	case OpPow:
		return n.inner.c.vals[k], nil
	case OpDiff:
		return n.diff(k), nil
	}
	panic("gotaylor: unknown op " + n.op.String())
}

// auxTerm computes the auxiliary coefficient of order k once the primary
// coefficient of order k is valid.
func (n *Node) auxTerm(k int) float64 {
	u := n.a.c.vals
	switch n.op {
	case OpSin:
		// companion cos series
		if k == 0 {
			return math.Cos(u[0])
		}
		return -weighted(u, n.c.vals, k) / float64(k)
	case OpCos:
		// companion sin series
		if k == 0 {
			return math.Sin(u[0])
		}
		return weighted(u, n.c.vals, k) / float64(k)
	case OpTan:
		// 1 + tan²
		if k == 0 {
			t0 := n.c.vals[0]
			return 1 + t0*t0
		}
		return selfCauchy(n.c.vals, k)
	case OpAsin, OpAcos:
		// sqrt(1 - u²)
		r := n.aux.vals
		if k == 0 {
			return math.Sqrt(1 - u[0]*u[0])
		}
		g := -selfCauchy(u, k)
		return (g - cauchy(r, r, 1, k-1)) / (2 * r[0])
	case OpAtan:
		// 1 + u²
		if k == 0 {
			return 1 + u[0]*u[0]
		}
		return selfCauchy(u, k)
	}
	panic("gotaylor: op without auxiliary series " + n.op.String())
}

// cauchy returns the partial Cauchy product Σ_{i=lo}^{hi} a[i]·b[lo+hi-i].
func cauchy(a, b []float64, lo, hi int) float64 {
	k := lo + hi
	var s float64
	for i := lo; i <= hi; i++ {
		s += a[i] * b[k-i]
	}
	return s
}

// selfCauchy returns Σ_{i=0}^{k} a[i]·a[k-i], folding the symmetric halves.
func selfCauchy(a []float64, k int) float64 {
	var s float64
	for i := 0; i < (k+1)/2; i++ {
		s += a[i] * a[k-i]
	}
	s *= 2
	if k%2 == 0 {
		s += a[k/2] * a[k/2]
	}
	return s
}

// weighted returns Σ_{i=0}^{k-1} (k-i)·u[k-i]·c[i], the convolution shared by
// the exp, sin, cos and tan recurrences.
func weighted(u, c []float64, k int) float64 {
	var s float64
	for i := 0; i < k; i++ {
		s += float64(k-i) * u[k-i] * c[i]
	}
	return s
}

func (n *Node) div(k int) (float64, error) {
	u, v, c := n.a.c.vals, n.b.c.vals, n.c.vals
	if v[0] == 0 {
		return 0, opError(ErrDivisionByZero, n.op, k, "order-0 denominator is zero")
	}
	if k == 0 {
		return u[0] / v[0], nil
	}
	var s float64
	for i := 0; i < k; i++ {
		s += c[i] * v[k-i]
	}
	return (u[k] - s) / v[0], nil
}

func (n *Node) sqrt(k int) (float64, error) {
	u, c := n.a.c.vals, n.c.vals
	if k == 0 {
		if u[0] < 0 {
			return 0, opError(ErrDomain, n.op, k, "square root of %g", u[0])
		}
		return math.Sqrt(u[0]), nil
	}
	if c[0] == 0 {
		return 0, opError(ErrDomain, n.op, k, "square root is not differentiable at zero")
	}
	var s float64
	if k > 1 {
		s = cauchy(c, c, 1, k-1)
	}
	return (u[k] - s) / (2 * c[0]), nil
}

func (n *Node) exp(k int) float64 {
	u := n.a.c.vals
	if k == 0 {
		return math.Exp(u[0])
	}
	return weighted(u, n.c.vals, k) / float64(k)
}

func (n *Node) log(k int) (float64, error) {
	u, c := n.a.c.vals, n.c.vals
	if u[0] <= 0 {
		return 0, opError(ErrDomain, n.op, k, "logarithm of %g", u[0])
	}
	if k == 0 {
		return math.Log(u[0]), nil
	}
	var s float64
	for i := 1; i < k; i++ {
		s += float64(i) * c[i] * u[k-i]
	}
	return (u[k] - s/float64(k)) / u[0], nil
}

// sinTerm is the sin recurrence given the companion cos series q.
func (n *Node) sinTerm(k int, q []float64) float64 {
	u := n.a.c.vals
	if k == 0 {
		return math.Sin(u[0])
	}
	return weighted(u, q, k) / float64(k)
}

// cosTerm is the cos recurrence given the companion sin series s.
func (n *Node) cosTerm(k int, s []float64) float64 {
	u := n.a.c.vals
	if k == 0 {
		return math.Cos(u[0])
	}
	return -weighted(u, s, k) / float64(k)
}

func (n *Node) tan(k int) float64 {
	u := n.a.c.vals
	if k == 0 {
		return math.Tan(u[0])
	}
	return weighted(u, n.aux.vals, k) / float64(k)
}

// arcsin handles asin and acos, which share the auxiliary series sqrt(1-u²)
// and differ only in sign.
func (n *Node) arcsin(k int) (float64, error) {
	u, v, r := n.a.c.vals, n.c.vals, n.aux.vals
	if k == 0 {
		if math.Abs(u[0]) > 1 {
			return 0, opError(ErrDomain, n.op, k, "argument %g outside [-1, 1]", u[0])
		}
		if n.op == OpAcos {
			return math.Acos(u[0]), nil
		}
		return math.Asin(u[0]), nil
	}
	if r[0] == 0 {
		return 0, opError(ErrDomain, n.op, k, "argument %g is a branch point", u[0])
	}
	var s float64
	for j := 1; j < k; j++ {
		s += float64(j) * v[j] * r[k-j]
	}
	fk := float64(k)
	if n.op == OpAcos {
		return -(fk*u[k] + s) / (fk * r[0]), nil
	}
	return (fk*u[k] - s) / (fk * r[0]), nil
}

func (n *Node) atan(k int) float64 {
	u, v, d := n.a.c.vals, n.c.vals, n.aux.vals
	if k == 0 {
		return math.Atan(u[0])
	}
	var s float64
	for j := 1; j < k; j++ {
		s += float64(j) * v[j] * d[k-j]
	}
	fk := float64(k)
	return (fk*u[k] - s) / (fk * d[0])
}

func (n *Node) powConst(k int) (float64, error) {
	u, c, p := n.a.c.vals, n.c.vals, n.p
	if k == 0 {
		if u[0] < 0 && p != math.Trunc(p) {
			return 0, opError(ErrDomain, n.op, k, "negative base %g with non-integer exponent %g", u[0], p)
		}
		if u[0] == 0 && p < 0 {
			return 0, opError(ErrDivisionByZero, n.op, k, "zero base with negative exponent %g", p)
		}
		return math.Pow(u[0], p), nil
	}
	if u[0] == 0 {
		return 0, opError(ErrDivisionByZero, n.op, k, "order-0 base is zero")
	}
	var s float64
	for i := 0; i < k; i++ {
		s += (p*float64(k-i) - float64(i)) * u[k-i] * c[i]
	}
	return s / (float64(k) * u[0]), nil
}

// diff shifts the operand series down by n.shift orders:
// c[k] = u[k+b]·(k+1)(k+2)…(k+b).
func (n *Node) diff(k int) float64 {
	b := n.shift
	f := 1.0
	for j := k + 1; j <= k+b; j++ {
		f *= float64(j)
	}
	return n.a.c.vals[k+b] * f
}
