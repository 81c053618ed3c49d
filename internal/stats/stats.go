// Package stats holds the running min/mean/max aggregate for one key.
package stats

import "github.com/tamirms/stationstats/internal/fixedpoint"

// Accumulator is the running aggregate for one key.
//
// Sum is exact. With |value| <= 999.9 (scaled 9999) an int64 sum holds
// about 9.2e14 records before overflow.
type Accumulator struct {
	Min   fixedpoint.Value
	Max   fixedpoint.Value
	Sum   int64
	Count uint64
}

// New returns an accumulator holding a single observation.
func New(v fixedpoint.Value) Accumulator {
	return Accumulator{Min: v, Max: v, Sum: int64(v), Count: 1}
}

// Update folds one observation into a.
func (a *Accumulator) Update(v fixedpoint.Value) {
	a.Min = min(a.Min, v)
	a.Max = max(a.Max, v)
	a.Sum += int64(v)
	a.Count++
}

// Merge folds o into a. Merge is commutative and associative.
func (a *Accumulator) Merge(o *Accumulator) {
	a.Min = min(a.Min, o.Min)
	a.Max = max(a.Max, o.Max)
	a.Sum += o.Sum
	a.Count += o.Count
}

// Mean returns the unscaled arithmetic mean.
func (a *Accumulator) Mean() float64 {
	return float64(a.Sum) / (float64(a.Count) * 10)
}
