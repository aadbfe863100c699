package trends

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
)

// xssiPrefix guards every provider JSON body.
var xssiPrefix = []byte(")]}'")

// widget is one entry of an explore response.
type widget struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type timelineResponse struct {
	Default struct {
		TimelineData []struct {
			Time      string `json:"time"`
			Value     []int  `json:"value"`
			HasData   []bool `json:"hasData"`
			IsPartial bool   `json:"isPartial"`
		} `json:"timelineData"`
	} `json:"default"`
}

type geoResponse struct {
	Default struct {
		GeoMapData []struct {
			GeoCode string `json:"geoCode"`
			GeoName string `json:"geoName"`
			Value   []int  `json:"value"`
		} `json:"geoMapData"`
	} `json:"default"`
}

type relatedResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []struct {
				Query          string  `json:"query"`
				Value          float64 `json:"value"`
				FormattedValue string  `json:"formattedValue"`
				Link           string  `json:"link"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

// decodeBody converts body to UTF-8 using the charset of contentType.
// Unknown or absent charsets leave the body untouched.
func decodeBody(body []byte, contentType string) ([]byte, error) {
	if contentType == "" {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return body, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return body, nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s body: %w", charset, err)
	}
	return decoded, nil
}

// stripXSSI removes the anti-JSON-hijacking prefix and the comma or newline
// that follows it.
func stripXSSI(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if bytes.HasPrefix(body, xssiPrefix) {
		body = body[len(xssiPrefix):]
		body = bytes.TrimLeft(body, ", \r\n\t")
	}
	return body
}

func unmarshal(body []byte, dest interface{}) error {
	body = stripXSSI(body)
	if len(body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("invalid JSON (response: %s): %w", string(body[:min(len(body), 200)]), err)
	}
	return nil
}

func parseExplore(body []byte) ([]widget, error) {
	var resp exploreResponse
	if err := unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return resp.Widgets, nil
}

func parseTimeline(body []byte, keywords []string) (*InterestTable, error) {
	var resp timelineResponse
	if err := unmarshal(body, &resp); err != nil {
		return nil, err
	}

	table := &InterestTable{
		Keywords: append([]string(nil), keywords...),
		Rows:     make([]InterestRow, 0, len(resp.Default.TimelineData)),
	}
	for _, point := range resp.Default.TimelineData {
		sec, err := strconv.ParseInt(point.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", point.Time, err)
		}
		values := make([]float64, len(keywords))
		for i := range values {
			if i < len(point.Value) {
				values[i] = float64(point.Value[i])
			}
		}
		table.Rows = append(table.Rows, InterestRow{
			Time:    time.Unix(sec, 0).UTC(),
			Values:  values,
			Partial: point.IsPartial,
		})
	}
	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i].Time.Before(table.Rows[j].Time)
	})
	return table, nil
}

// parseGeo returns regions with interest for the first compared keyword,
// highest first.
func parseGeo(body []byte) ([]RegionInterest, error) {
	var resp geoResponse
	if err := unmarshal(body, &resp); err != nil {
		return nil, err
	}

	regions := make([]RegionInterest, 0, len(resp.Default.GeoMapData))
	for _, g := range resp.Default.GeoMapData {
		value := 0.0
		if len(g.Value) > 0 {
			value = float64(g.Value[0])
		}
		regions = append(regions, RegionInterest{GeoCode: g.GeoCode, GeoName: g.GeoName, Value: value})
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Value > regions[j].Value
	})
	return regions, nil
}

// parseRelated maps rankedList[0] to top and rankedList[1] to rising.
func parseRelated(body []byte) (*RelatedQueries, error) {
	var resp relatedResponse
	if err := unmarshal(body, &resp); err != nil {
		return nil, err
	}

	related := &RelatedQueries{}
	for i, list := range resp.Default.RankedList {
		rows := make([]RelatedQuery, 0, len(list.RankedKeyword))
		for _, k := range list.RankedKeyword {
			rows = append(rows, RelatedQuery{
				Query:          k.Query,
				Value:          k.Value,
				FormattedValue: k.FormattedValue,
				Link:           k.Link,
			})
		}
		switch i {
		case 0:
			related.Top = rows
		case 1:
			related.Rising = rows
		}
	}
	return related, nil
}
