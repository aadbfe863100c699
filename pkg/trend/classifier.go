package trend

import (
	"encoding/json"
	"math"
	"time"
)

// Status is the trend-shape label assigned to a keyword.
type Status string

const (
	StatusStable                     Status = "Stable"
	StatusStableIncreasing           Status = "Stable & Increasing"
	StatusStableDecreasing           Status = "Stable & Decreasing"
	StatusRelativelyStable           Status = "Relatively Stable"
	StatusRelativelyStableIncreasing Status = "Relatively Stable & Increasing"
	StatusRelativelyStableDecreasing Status = "Relatively Stable & Decreasing"
	StatusSeasonal                   Status = "Seasonal"
	StatusTrending                   Status = "Trending"
	StatusSignificantlyDecreasing    Status = "Significantly Decreasing"
	StatusCyclical                   Status = "Cyclical"
	StatusNewTrending                Status = "New & Trending"
	StatusDeclining                  Status = "Declining"
	StatusMinimalSteady              Status = "Minimal but Steady"
	StatusVeryNewSpiking             Status = "Very New & Spiking"
	StatusFadingLowInterest          Status = "Fading from Low Interest"
	StatusNeedsReview                Status = "Needs Review"
)

const (
	// LastYearPoints is the suffix length treated as "last year". It assumes
	// weekly points, which the provider returns for five-year windows.
	LastYearPoints = 52

	weeklyCadenceMin = 6 * 24 * time.Hour
	weeklyCadenceMax = 8 * 24 * time.Hour
)

// Band is one row of the classification table. Lower is exclusive and Upper
// inclusive: an average of exactly 75 lands in (60, 75], not (75, +Inf).
type Band struct {
	Name       string  `json:"name"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Threshold  float64 `json:"threshold"`
	Steady     Status  `json:"steady"`
	Increasing Status  `json:"increasing"`
	Decreasing Status  `json:"decreasing"`
	// Strict bands compare change with strict inequalities only, so a
	// change exactly at ±Threshold is Steady.
	Strict bool `json:"strict"`
}

// Contains reports whether avg lies in (Lower, Upper].
func (b Band) Contains(avg float64) bool {
	return avg > b.Lower && avg <= b.Upper
}

// Label picks the status for change within this band. Every branch is
// reachable and together they cover all finite changes.
func (b Band) Label(change float64) Status {
	if b.Strict {
		switch {
		case change > b.Threshold:
			return b.Increasing
		case change < -b.Threshold:
			return b.Decreasing
		default:
			return b.Steady
		}
	}
	switch {
	case math.Abs(change) <= b.Threshold:
		return b.Steady
	case change > b.Threshold:
		return b.Increasing
	default:
		return b.Decreasing
	}
}

// MarshalJSON encodes an unbounded Upper as null.
func (b Band) MarshalJSON() ([]byte, error) {
	type plain Band
	out := struct {
		plain
		Upper *float64 `json:"upper"`
	}{plain: plain(b)}
	if !math.IsInf(b.Upper, 1) {
		out.Upper = &b.Upper
	}
	return json.Marshal(out)
}

// bands is evaluated top-down; the first band containing the average wins.
var bands = []Band{
	{Name: "high", Lower: 75, Upper: math.Inf(1), Threshold: 5,
		Steady: StatusStable, Increasing: StatusStableIncreasing, Decreasing: StatusStableDecreasing},
	{Name: "upper-mid", Lower: 60, Upper: 75, Threshold: 15,
		Steady: StatusRelativelyStable, Increasing: StatusRelativelyStableIncreasing, Decreasing: StatusRelativelyStableDecreasing},
	{Name: "mid", Lower: 20, Upper: 60, Threshold: 15,
		Steady: StatusSeasonal, Increasing: StatusTrending, Decreasing: StatusSignificantlyDecreasing},
	{Name: "low", Lower: 5, Upper: 20, Threshold: 15,
		Steady: StatusCyclical, Increasing: StatusNewTrending, Decreasing: StatusDeclining},
	{Name: "minimal", Lower: 0, Upper: 5, Threshold: 15, Strict: true,
		Steady: StatusMinimalSteady, Increasing: StatusVeryNewSpiking, Decreasing: StatusFadingLowInterest},
}

// ReviewBand names the catch-all for averages at or below zero.
const ReviewBand = "review"

// Bands returns a copy of the classification table in evaluation order.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Label maps a five-year average and change percentage to a status and the
// name of the band that produced it.
func Label(fiveYearAvg, changePct float64) (Status, string) {
	for _, b := range bands {
		if b.Contains(fiveYearAvg) {
			return b.Label(changePct), b.Name
		}
	}
	return StatusNeedsReview, ReviewBand
}

// Result is the classification of one keyword series.
type Result struct {
	FiveYearAvg float64 `json:"five_year_avg"`
	LastYearAvg float64 `json:"last_year_avg"`
	ChangePct   float64 `json:"change_pct"`
	Status      Status  `json:"status"`
	Band        string  `json:"band"`
	Points      int     `json:"points"`

	Cadence         time.Duration `json:"cadence,omitempty"`
	CadenceMismatch bool          `json:"cadence_mismatch,omitempty"`
}

// Classify summarizes series and labels it. The series must be ordered by
// time; when its spacing is not weekly the positional last-year window no
// longer spans a year and CadenceMismatch is set.
func Classify(series Series) (Result, error) {
	result, err := ClassifyValues(series.Values())
	if err != nil {
		return Result{}, err
	}

	if cadence := series.Cadence(); cadence > 0 {
		result.Cadence = cadence
		result.CadenceMismatch = cadence < weeklyCadenceMin || cadence > weeklyCadenceMax
	}
	return result, nil
}

// ClassifyValues classifies positional values without timestamps.
func ClassifyValues(values []float64) (Result, error) {
	if err := validate(values); err != nil {
		return Result{}, err
	}

	fiveYear := Round2(Mean(values))
	lastYear := Round2(Mean(LastN(values, LastYearPoints)))

	change := 0.0
	if fiveYear != 0 {
		change = Round2((lastYear/fiveYear - 1) * 100)
	}

	status, band := Label(fiveYear, change)
	if band == ReviewBand {
		change = 0.0
	}

	return Result{
		FiveYearAvg: fiveYear,
		LastYearAvg: lastYear,
		ChangePct:   change,
		Status:      status,
		Band:        band,
		Points:      len(values),
	}, nil
}
