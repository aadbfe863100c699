package trends

import (
	"context"
	"encoding/json"
	"fmt"
)

// Explorer is implemented by providers that can serve all datasets of a
// query from one explore response.
type Explorer interface {
	Explore(ctx context.Context, q Query) (Exploration, error)
}

// Exploration reads the datasets of one explored query. Each read costs
// one widget request; the explore step is not repeated. Regions and
// related queries need a single-keyword query.
type Exploration interface {
	Query() Query
	InterestOverTime(ctx context.Context) (*InterestTable, error)
	InterestByRegion(ctx context.Context) ([]RegionInterest, error)
	RelatedQueries(ctx context.Context) (*RelatedQueries, error)
}

// exploration holds the widgets of one explore response.
type exploration struct {
	client  *Client
	query   Query
	widgets []widget
}

func (e *exploration) Query() Query {
	return e.query
}

func (e *exploration) widget(op, id string) (widget, error) {
	if w, ok := findWidget(e.widgets, id); ok {
		return w, nil
	}
	return widget{}, &ProviderError{Op: op, Reason: ReasonNoWidget, Err: fmt.Errorf("explore response has no %s widget", id)}
}

func (e *exploration) InterestOverTime(ctx context.Context) (*InterestTable, error) {
	const op = "interest_over_time"
	w, err := e.widget(op, widgetTimeseries)
	if err != nil {
		return nil, err
	}

	c := e.client
	body, err := c.get(ctx, op, timelinePath, c.widgetParams(w.Request, w.Token))
	if err != nil {
		return nil, err
	}
	table, err := parseTimeline(body, e.query.Keywords)
	if err != nil {
		return nil, &ProviderError{Op: op, Reason: ReasonDecode, Err: err}
	}
	if table.Empty() {
		return nil, &ProviderError{Op: op, Reason: ReasonEmpty}
	}

	c.log.WithFields(map[string]interface{}{
		"keywords":  len(e.query.Keywords),
		"timeframe": e.query.Timeframe.String(),
		"rows":      len(table.Rows),
	}).Debug("Fetched interest over time")
	return table, nil
}

// InterestByRegion returns regions highest first. Worldwide queries resolve to countries; regional queries
// keep the provider's sub-region resolution. An empty slice is a valid
// result.
func (e *exploration) InterestByRegion(ctx context.Context) ([]RegionInterest, error) {
	const op = "interest_by_region"
	if err := checkKeywords(e.query.Keywords, 1); err != nil {
		return nil, err
	}
	w, err := e.widget(op, widgetGeoMap)
	if err != nil {
		return nil, err
	}

	var request map[string]interface{}
	if err := json.Unmarshal(w.Request, &request); err != nil {
		return nil, &ProviderError{Op: op, Reason: ReasonDecode, Err: err}
	}
	if e.query.Geo == "" {
		request["resolution"] = "COUNTRY"
	}
	request["includeLowSearchVolumeGeos"] = true
	raw, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode region request: %w", err)
	}

	c := e.client
	body, err := c.get(ctx, op, geoPath, c.widgetParams(raw, w.Token))
	if err != nil {
		return nil, err
	}
	regions, err := parseGeo(body)
	if err != nil {
		return nil, &ProviderError{Op: op, Reason: ReasonDecode, Err: err}
	}
	return regions, nil
}

func (e *exploration) RelatedQueries(ctx context.Context) (*RelatedQueries, error) {
	const op = "related_queries"
	if err := checkKeywords(e.query.Keywords, 1); err != nil {
		return nil, err
	}
	w, err := e.widget(op, widgetRelated)
	if err != nil {
		return nil, err
	}

	c := e.client
	body, err := c.get(ctx, op, relatedPath, c.widgetParams(w.Request, w.Token))
	if err != nil {
		return nil, err
	}
	related, err := parseRelated(body)
	if err != nil {
		return nil, &ProviderError{Op: op, Reason: ReasonDecode, Err: err}
	}
	return related, nil
}
