package trends

import (
	"fmt"
	"strings"
)

// Timeframe is a provider time window expression.
type Timeframe string

const (
	TimeframeFiveYears    Timeframe = "today 5-y"
	TimeframeTwelveMonths Timeframe = "today 12-m"
	TimeframeThreeMonths  Timeframe = "today 3-m"
	TimeframeOneMonth     Timeframe = "today 1-m"
)

// Timeframes lists the selectable windows, longest first.
func Timeframes() []Timeframe {
	return []Timeframe{TimeframeFiveYears, TimeframeTwelveMonths, TimeframeThreeMonths, TimeframeOneMonth}
}

// ParseTimeframe accepts the provider form ("today 5-y") or a short alias
// ("5y", "12m", "3m", "1m"). Empty input selects five years.
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today 5-y", "5y", "5-y":
		return TimeframeFiveYears, nil
	case "today 12-m", "12m", "12-m", "1y":
		return TimeframeTwelveMonths, nil
	case "today 3-m", "3m", "3-m":
		return TimeframeThreeMonths, nil
	case "today 1-m", "1m", "1-m":
		return TimeframeOneMonth, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q (expected one of: today 5-y, today 12-m, today 3-m, today 1-m)", s)
	}
}

func (t Timeframe) String() string {
	return string(t)
}
