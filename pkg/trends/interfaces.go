package trends

import (
	"context"
	"time"

	"trends-explorer/pkg/trend"
)

// Query selects keywords, a time window and an optional region.
type Query struct {
	Keywords  []string  `json:"keywords"`
	Timeframe Timeframe `json:"timeframe"`
	// Geo is a provider region code such as "US"; empty means worldwide.
	Geo string `json:"geo,omitempty"`
}

// InterestRow is one timestamp of an interest table. Values align with the
// table's Keywords.
type InterestRow struct {
	Time    time.Time `json:"time"`
	Values  []float64 `json:"values"`
	Partial bool      `json:"partial,omitempty"`
}

// InterestTable is interest over time for one or more keywords.
type InterestTable struct {
	Keywords []string      `json:"keywords"`
	Rows     []InterestRow `json:"rows"`
}

// Empty reports whether the table carries no rows.
func (t *InterestTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Series extracts the ordered series of keyword.
func (t *InterestTable) Series(keyword string) (trend.Series, bool) {
	if t == nil {
		return nil, false
	}
	idx := -1
	for i, kw := range t.Keywords {
		if kw == keyword {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	series := make(trend.Series, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx >= len(row.Values) {
			continue
		}
		series = append(series, trend.Point{Time: row.Time, Value: row.Values[idx]})
	}
	return series, true
}

// SeriesByKeyword returns every column as a series.
func (t *InterestTable) SeriesByKeyword() map[string]trend.Series {
	out := make(map[string]trend.Series, len(t.Keywords))
	for _, kw := range t.Keywords {
		if s, ok := t.Series(kw); ok {
			out[kw] = s
		}
	}
	return out
}

// RegionInterest is interest in one region.
type RegionInterest struct {
	GeoCode string  `json:"geo_code"`
	GeoName string  `json:"geo_name"`
	Value   float64 `json:"value"`
}

// RelatedQuery is one row of a related-queries table. For rising queries
// Value is the growth percentage and FormattedValue may read "Breakout".
type RelatedQuery struct {
	Query          string  `json:"query"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formatted_value"`
	Link           string  `json:"link,omitempty"`
}

// RelatedQueries holds both related-query tables of a keyword. An empty
// table is a valid result.
type RelatedQueries struct {
	Top    []RelatedQuery `json:"top"`
	Rising []RelatedQuery `json:"rising"`
}

// Provider is the trends data source consumed by analysis runs.
// InterestByRegion and RelatedQueries expect a query with one keyword.
type Provider interface {
	InterestOverTime(ctx context.Context, q Query) (*InterestTable, error)
	InterestByRegion(ctx context.Context, q Query) ([]RegionInterest, error)
	RelatedQueries(ctx context.Context, q Query) (*RelatedQueries, error)
}

// RequestObserver receives one call per HTTP exchange with the provider.
// statusCode is 0 when no response was received.
type RequestObserver interface {
	ObserveRequest(op string, statusCode int, duration time.Duration)
}
