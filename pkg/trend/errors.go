package trend

import "errors"

var (
	// ErrEmptySeries is returned for a series without points. Callers are
	// expected to report "no data" before classifying.
	ErrEmptySeries = errors.New("empty series")

	// ErrInvalidInput marks non-numeric values (NaN, ±Inf) in a series.
	ErrInvalidInput = errors.New("invalid input")
)
