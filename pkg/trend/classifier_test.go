package trend

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func weekly(values []float64) Series {
	start := time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC)
	series := make(Series, len(values))
	for i, v := range values {
		series[i] = Point{Time: start.AddDate(0, 0, 7*i), Value: v}
	}
	return series
}

func TestLabel_Table(t *testing.T) {
	tests := []struct {
		avg      float64
		change   float64
		expected Status
		band     string
	}{
		{80, 0, StatusStable, "high"},
		{80, 5, StatusStable, "high"},
		{80, -5, StatusStable, "high"},
		{80, 5.01, StatusStableIncreasing, "high"},
		{80, -5.01, StatusStableDecreasing, "high"},
		{75.01, 0, StatusStable, "high"},
		{75, 0, StatusRelativelyStable, "upper-mid"},
		{70, 15, StatusRelativelyStable, "upper-mid"},
		{70, 15.5, StatusRelativelyStableIncreasing, "upper-mid"},
		{70, -16, StatusRelativelyStableDecreasing, "upper-mid"},
		{60, 0, StatusSeasonal, "mid"},
		{40, -15, StatusSeasonal, "mid"},
		{40, 16, StatusTrending, "mid"},
		{40, -15.5, StatusSignificantlyDecreasing, "mid"},
		{20, 15, StatusCyclical, "low"},
		{10, 40, StatusNewTrending, "low"},
		{10, -20, StatusDeclining, "low"},
		{5, 15, StatusMinimalSteady, "minimal"},
		{5, -15, StatusMinimalSteady, "minimal"},
		{5, 15.01, StatusVeryNewSpiking, "minimal"},
		{3, -20, StatusFadingLowInterest, "minimal"},
		{0.01, 0, StatusMinimalSteady, "minimal"},
		{0, 0, StatusNeedsReview, ReviewBand},
		{-1, 50, StatusNeedsReview, ReviewBand},
	}

	for _, test := range tests {
		status, band := Label(test.avg, test.change)
		if status != test.expected {
			t.Errorf("Label(%v, %v) = %q, expected %q", test.avg, test.change, status, test.expected)
		}
		if band != test.band {
			t.Errorf("Label(%v, %v) band = %q, expected %q", test.avg, test.change, band, test.band)
		}
	}
}

func TestLabel_HighBandSteadyProperty(t *testing.T) {
	for avg := 75.01; avg <= 100; avg += 2.37 {
		for change := -5.0; change <= 5.0; change += 0.25 {
			if status, _ := Label(avg, change); status != StatusStable {
				t.Fatalf("Label(%v, %v) = %q, expected Stable", avg, change, status)
			}
		}
	}
}

func TestLabel_Exhaustive(t *testing.T) {
	averages := []float64{100, 75.5, 75, 60.5, 60, 20.5, 20, 5.5, 5, 0.5, 0, -3}
	for _, avg := range averages {
		for change := -200.0; change <= 200.0; change += 0.5 {
			status, band := Label(avg, change)
			if status == "" || band == "" {
				t.Fatalf("Label(%v, %v) returned an empty label", avg, change)
			}
		}
	}
}

func TestClassifyValues_FlatHighInterest(t *testing.T) {
	values := append(repeat(100, 200), repeat(100, 52)...)

	result, err := ClassifyValues(values)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.FiveYearAvg != 100.0 || result.LastYearAvg != 100.0 || result.ChangePct != 0.0 {
		t.Errorf("Expected 100/100/0, got %v/%v/%v", result.FiveYearAvg, result.LastYearAvg, result.ChangePct)
	}
	if result.Status != StatusStable {
		t.Errorf("Expected Stable, got %q", result.Status)
	}
	if result.Points != 252 {
		t.Errorf("Expected 252 points, got %d", result.Points)
	}
}

func TestClassifyValues_NewAndTrending(t *testing.T) {
	// 208 points at 9 and 52 at 14 average 10 overall.
	values := append(repeat(9, 208), repeat(14, 52)...)

	result, err := ClassifyValues(values)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.FiveYearAvg != 10.0 {
		t.Errorf("Expected five-year average 10, got %v", result.FiveYearAvg)
	}
	if result.LastYearAvg != 14.0 {
		t.Errorf("Expected last-year average 14, got %v", result.LastYearAvg)
	}
	if result.ChangePct != 40.0 {
		t.Errorf("Expected change 40, got %v", result.ChangePct)
	}
	if result.Status != StatusNewTrending {
		t.Errorf("Expected New & Trending, got %q", result.Status)
	}
}

func TestClassifyValues_BoundaryBelongsToLowerBand(t *testing.T) {
	result, err := ClassifyValues(repeat(75, 260))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Status != StatusRelativelyStable {
		t.Errorf("Expected Relatively Stable for average 75, got %q", result.Status)
	}
}

func TestClassifyValues_ZeroAverage(t *testing.T) {
	result, err := ClassifyValues(repeat(0, 260))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Status != StatusNeedsReview {
		t.Errorf("Expected Needs Review, got %q", result.Status)
	}
	if result.ChangePct != 0.0 {
		t.Errorf("Expected change 0, got %v", result.ChangePct)
	}
}

func TestClassifyValues_ShortSeriesUsesWholeSeries(t *testing.T) {
	values := []float64{10, 20, 30, 25, 15}

	result, err := ClassifyValues(values)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.LastYearAvg != result.FiveYearAvg {
		t.Errorf("Expected last-year average to equal five-year average, got %v vs %v", result.LastYearAvg, result.FiveYearAvg)
	}
	if result.ChangePct != 0 {
		t.Errorf("Expected change 0, got %v", result.ChangePct)
	}
}

func TestClassifyValues_Idempotent(t *testing.T) {
	values := append(repeat(33, 150), repeat(47, 60)...)

	first, err := ClassifyValues(values)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := ClassifyValues(values)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if first != second {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
}

func TestClassifyValues_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		target error
	}{
		{"empty", nil, ErrEmptySeries},
		{"nan", []float64{1, math.NaN(), 3}, ErrInvalidInput},
		{"inf", []float64{math.Inf(1)}, ErrInvalidInput},
		{"negative inf", []float64{4, math.Inf(-1)}, ErrInvalidInput},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ClassifyValues(test.values)
			if !errors.Is(err, test.target) {
				t.Errorf("Expected %v, got %v", test.target, err)
			}
		})
	}
}

func TestClassify_Cadence(t *testing.T) {
	result, err := Classify(weekly(repeat(50, 260)))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.CadenceMismatch {
		t.Errorf("Expected weekly series to match cadence, got cadence %v", result.Cadence)
	}
	if result.Cadence != 7*24*time.Hour {
		t.Errorf("Expected weekly cadence, got %v", result.Cadence)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	daily := make(Series, 90)
	for i := range daily {
		daily[i] = Point{Time: start.AddDate(0, 0, i), Value: 40}
	}
	result, err = Classify(daily)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.CadenceMismatch {
		t.Error("Expected daily series to be flagged as cadence mismatch")
	}
	if result.Status != StatusSeasonal {
		t.Errorf("Expected Seasonal, got %q", result.Status)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{1.234, 1.23},
		{1.235001, 1.24},
		{0.125, 0.12},
		{-3.14159, -3.14},
		{39.99999999999999, 40},
	}

	for _, test := range tests {
		if got := Round2(test.input); got != test.expected {
			t.Errorf("Round2(%v) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestBands_ReturnsCopy(t *testing.T) {
	table := Bands()
	table[0].Threshold = 99

	if status, _ := Label(80, 10); status != StatusStableIncreasing {
		t.Errorf("Expected mutation of the copy not to affect Label, got %q", status)
	}
}

func TestBand_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Bands())
	if err != nil {
		t.Fatalf("Expected bands to encode, got: %v", err)
	}
	if !strings.Contains(string(data), `"upper":null`) {
		t.Errorf("Expected unbounded upper as null, got %s", data)
	}
	if !strings.Contains(string(data), `"upper":75`) {
		t.Errorf("Expected bounded upper, got %s", data)
	}
}
