// Package movable models a point load travelling along a row of supports.
// Each support receives the load through a triangular influence line that
// spans its immediate neighbours.
package movable

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"
)

var (
	// ErrNoSupports is returned when the support row is empty
	ErrNoSupports = errors.New("no supports")

	// ErrUnorderedSupports is returned when positions are not strictly increasing
	ErrUnorderedSupports = errors.New("support positions must be strictly increasing")
)

// quadPoints is the Gauss-Legendre order used to integrate a variable speed
const quadPoints = 16

// TimeFunc is a quantity that may vary with time
type TimeFunc interface {
	Value(t float64) float64
}

// Constant is a time independent value
type Constant float64

func (c Constant) Value(float64) float64 { return float64(c) }

// FuncOf adapts a plain function
type FuncOf func(t float64) float64

func (f FuncOf) Value(t float64) float64 { return f(t) }

// Table interpolates linearly between sampled (time, value) pairs and
// holds the end values outside the sampled range
type Table struct {
	times []float64
	pl    interp.PiecewiseLinear
}

// NewTable fits a table to strictly increasing times
func NewTable(times, values []float64) (*Table, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("table has %d times and %d values", len(times), len(values))
	}
	if len(times) < 2 {
		return nil, errors.New("table needs at least two samples")
	}
	tb := &Table{times: append([]float64(nil), times...)}
	if err := tb.pl.Fit(times, values); err != nil {
		return nil, fmt.Errorf("fitting table: %w", err)
	}
	return tb, nil
}

func (tb *Table) Value(t float64) float64 {
	return tb.pl.Predict(math.Min(math.Max(t, tb.times[0]), tb.times[len(tb.times)-1]))
}

// Breakpoints returns the sampled times, where the value may have a kink
func (tb *Table) Breakpoints() []float64 {
	return tb.times
}

// kinked is a time function that is smooth between its breakpoints
type kinked interface {
	Breakpoints() []float64
}

// Support is a support point of the row
type Support struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
}

// Load is a point load of magnitude P moving at speed V, at position 0 at time T0
type Load struct {
	P        TimeFunc
	V        TimeFunc
	T0       float64
	Supports []Support
}

// New creates a movable load over the supports, which must be ordered by
// strictly increasing position
func New(p, v TimeFunc, t0 float64, supports []Support) (*Load, error) {
	if len(supports) == 0 {
		return nil, ErrNoSupports
	}
	seen := make(map[string]bool, len(supports))
	for i, s := range supports {
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate support id %q", s.ID)
		}
		seen[s.ID] = true
		if i == 0 {
			continue
		}
		if supports[i].X <= supports[i-1].X {
			return nil, fmt.Errorf("%w: %s at %g follows %s at %g", ErrUnorderedSupports,
				supports[i].ID, supports[i].X, supports[i-1].ID, supports[i-1].X)
		}
	}
	return &Load{P: p, V: v, T0: t0, Supports: append([]Support(nil), supports...)}, nil
}

// Position returns the distance travelled by the load from T0 to t
func (l *Load) Position(t float64) float64 {
	if c, ok := l.V.(Constant); ok {
		return float64(c) * (t - l.T0)
	}
	if t < l.T0 {
		return -l.travelled(t, l.T0)
	}
	return l.travelled(l.T0, t)
}

// travelled integrates the speed over [a, b], piece by piece between the
// breakpoints of the speed
func (l *Load) travelled(a, b float64) float64 {
	if a == b {
		return 0
	}
	var bp []float64
	if k, ok := l.V.(kinked); ok {
		bp = k.Breakpoints()
	}
	var s float64
	from := a
	for _, x := range bp {
		if x <= from || x >= b {
			continue
		}
		s += quad.Fixed(l.V.Value, from, x, quadPoints, nil, 0)
		from = x
	}
	return s + quad.Fixed(l.V.Value, from, b, quadPoints, nil, 0)
}

// LoadOnSupport returns the load received by support i at time t
func (l *Load) LoadOnSupport(i int, t float64) float64 {
	if i < 0 || i >= len(l.Supports) || t < l.T0 {
		return 0
	}
	return l.P.Value(t) * l.influence(i, l.Position(t))
}

// influence is the triangular influence ordinate of support i for a unit
// load at s. End supports use themselves as the missing neighbour.
func (l *Load) influence(i int, s float64) float64 {
	xi := l.Supports[i].X
	prev, next := xi, xi
	if i > 0 {
		prev = l.Supports[i-1].X
	}
	if i+1 < len(l.Supports) {
		next = l.Supports[i+1].X
	}
	switch {
	case s == xi:
		return 1
	case s < xi && s > prev:
		return (s - prev) / (xi - prev)
	case s > xi && s < next:
		return (next - s) / (next - xi)
	}
	return 0
}

// Loads returns the load on every support at time t, keyed by support id
func (l *Load) Loads(t float64) map[string]float64 {
	out := make(map[string]float64, len(l.Supports))
	for i, s := range l.Supports {
		out[s.ID] = l.LoadOnSupport(i, t)
	}
	return out
}

// History is a sampled table of support loads
type History struct {
	IDs    []string             // support ids in row order
	Times  []float64            // sampling instants
	Values map[string][]float64 // one value per instant and support
}

// Sum returns the total load over all supports at the k-th instant
func (h History) Sum(k int) float64 {
	var s float64
	for _, id := range h.IDs {
		s += h.Values[id][k]
	}
	return s
}

// History samples the support loads from tBegin to tEnd, both included,
// at a fixed step
func (l *Load) History(tBegin, tEnd, step float64) (History, error) {
	if step <= 0 {
		return History{}, fmt.Errorf("history step must be positive, got %g", step)
	}
	if tEnd < tBegin {
		return History{}, fmt.Errorf("history ends at %g before it begins at %g", tEnd, tBegin)
	}
	n := int(math.Floor((tEnd-tBegin)/step+1e-9)) + 1
	h := History{
		IDs:    make([]string, len(l.Supports)),
		Times:  make([]float64, n),
		Values: make(map[string][]float64, len(l.Supports)),
	}
	for i, s := range l.Supports {
		h.IDs[i] = s.ID
		h.Values[s.ID] = make([]float64, n)
	}
	for k := 0; k < n; k++ {
		t := tBegin + float64(k)*step
		h.Times[k] = t
		for i, s := range l.Supports {
			h.Values[s.ID][k] = l.LoadOnSupport(i, t)
		}
	}
	return h, nil
}
