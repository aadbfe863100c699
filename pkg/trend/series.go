package trend

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Point is one interest observation.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is ordered by Time ascending.
type Series []Point

// Values returns the interest values in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Cadence returns the median spacing between consecutive points, or zero
// when the series has fewer than two points.
func (s Series) Cadence() time.Duration {
	if len(s) < 2 {
		return 0
	}
	steps := make([]time.Duration, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		steps = append(steps, s[i].Time.Sub(s[i-1].Time))
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i] < steps[j] })
	return steps[len(steps)/2]
}

// Mean returns the arithmetic mean of values. Empty input yields 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round2 rounds to two decimal places, ties to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// LastN returns the last n values, or all of them when fewer exist.
func LastN(values []float64, n int) []float64 {
	if n <= 0 {
		return values[:0]
	}
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func validate(values []float64) error {
	if len(values) == 0 {
		return ErrEmptySeries
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value at position %d is %v", ErrInvalidInput, i, v)
		}
	}
	return nil
}
