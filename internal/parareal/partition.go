package parareal

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/paraviz/internal/propagate"
)

var (
	ErrInvalidHorizon   = errors.New("parareal: horizon must be positive and finite")
	ErrInvalidCount     = errors.New("parareal: interval count must be at least 1")
	ErrBoundaryLength   = errors.New("parareal: boundary length does not match partition")
	ErrInvalidIteration = errors.New("parareal: iteration count must be at least 1")
)

// Partition splits [0, Horizon] into Count equal sub-intervals. The zero value
// is not usable; build one with NewPartition.
type Partition struct {
	horizon float64
	count   int
}

func NewPartition(horizon float64, count int) (Partition, error) {
	if !(horizon > 0) || math.IsInf(horizon, 0) {
		return Partition{}, fmt.Errorf("horizon %v: %w", horizon, ErrInvalidHorizon)
	}
	if count < 1 {
		return Partition{}, fmt.Errorf("count %d: %w", count, ErrInvalidCount)
	}
	return Partition{horizon: horizon, count: count}, nil
}

func (p Partition) Horizon() float64 { return p.horizon }
func (p Partition) Count() int       { return p.count }
func (p Partition) Width() float64   { return p.horizon / float64(p.count) }

// Time returns boundary time i. Time(Count) is exactly Horizon.
func (p Partition) Time(i int) float64 {
	if i >= p.count {
		return p.horizon
	}
	return float64(i) * p.horizon / float64(p.count)
}

// Boundaries returns the Count+1 boundary times. The slice is a fresh copy.
func (p Partition) Boundaries() []float64 {
	ts := make([]float64, p.count+1)
	for i := range ts {
		ts[i] = p.Time(i)
	}
	return ts
}

// Interval returns sub-interval i, 0 <= i < Count.
func (p Partition) Interval(i int) propagate.Interval {
	return propagate.Interval{Start: p.Time(i), End: p.Time(i + 1)}
}

// Domain returns the whole span [0, Horizon].
func (p Partition) Domain() propagate.Interval {
	return propagate.Interval{Start: 0, End: p.horizon}
}

func (p Partition) check(b Boundary) error {
	if len(b) != p.count+1 {
		return fmt.Errorf("got %d states for %d intervals: %w", len(b), p.count, ErrBoundaryLength)
	}
	return nil
}
