package gotaylor

import "github.com/pkg/errors"

// Series is a growable, order-indexed store of Taylor coefficients. Each slot
// carries a known marker so that a coefficient which happens to be zero is
// distinguishable from one that has not been computed yet.
//
// Orders 0..UpTo() are valid. Slots above UpTo() may already be known when
// they were written directly with Set; evaluation keeps those values.
type Series struct {
	vals  []float64
	known []bool
	upTo  int
}

// NewSeries returns an empty series.
func NewSeries() *Series { return &Series{upTo: -1} }

func newSeriesWith(v0 float64) *Series {
	s := NewSeries()
	s.vals = []float64{v0}
	s.known = []bool{true}
	s.upTo = 0
	return s
}

// UpTo returns the highest valid order, or -1 when nothing is valid.
func (s *Series) UpTo() int { return s.upTo }

// Len returns the number of valid coefficients.
func (s *Series) Len() int { return s.upTo + 1 }

// Known reports whether order k holds a computed or explicitly set value.
func (s *Series) Known(k int) bool {
	return k >= 0 && k < len(s.known) && s.known[k]
}

// At returns coefficient k without any checks. Unknown slots read as zero.
func (s *Series) At(k int) float64 {
	if k < 0 || k >= len(s.vals) {
		return 0
	}
	return s.vals[k]
}

// EnsureCapacity extends the store so that order k has a slot. New slots are
// not known.
func (s *Series) EnsureCapacity(k int) error {
	if k < 0 {
		return errors.Wrapf(ErrOutOfRange, "order %d", k)
	}
	for len(s.vals) <= k {
		s.vals = append(s.vals, 0)
		s.known = append(s.known, false)
	}
	return nil
}

// Set overwrites coefficient k and marks it known. No other order is touched.
func (s *Series) Set(k int, v float64) error {
	if err := s.EnsureCapacity(k); err != nil {
		return err
	}
	s.vals[k] = v
	s.known[k] = true
	return nil
}

// push stores v as order upTo+1 and advances upTo.
func (s *Series) push(v float64) {
	k := s.upTo + 1
	_ = s.EnsureCapacity(k)
	s.vals[k] = v
	s.known[k] = true
	s.upTo = k
}

// advance accepts an already known slot as the next valid order.
func (s *Series) advance() { s.upTo++ }

// Truncate keeps orders below n and forgets everything else, including
// values that were set ahead of evaluation.
func (s *Series) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(s.vals) {
		s.vals = s.vals[:n]
		s.known = s.known[:n]
	}
	if s.upTo > n-1 {
		s.upTo = n - 1
	}
}

// Values returns a copy of the valid coefficients.
func (s *Series) Values() []float64 {
	out := make([]float64, s.Len())
	copy(out, s.vals)
	return out
}

// EvalAt sums the valid coefficients as a polynomial in the step h, using
// Horner's rule.
func (s *Series) EvalAt(h float64) float64 {
	if s.upTo < 0 {
		return 0
	}
	v := s.vals[s.upTo]
	for i := s.upTo - 1; i >= 0; i-- {
		v = v*h + s.vals[i]
	}
	return v
}
