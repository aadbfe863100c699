package trends

import (
	"testing"
	"time"
)

const timelineBody = `)]}',
{"default":{"timelineData":[
 {"time":"1704585600","formattedTime":"Jan 7 – 13, 2024","value":[40,12],"hasData":[true,true],"formattedValue":["40","12"]},
 {"time":"1703980800","formattedTime":"Dec 31, 2023 – Jan 6, 2024","value":[38,0],"hasData":[true,false],"formattedValue":["38","0"]},
 {"time":"1705190400","formattedTime":"Jan 14 – 20, 2024","value":[45],"hasData":[true],"isPartial":true}
],"averages":[]}}`

func TestParseTimeline_SortsAndAligns(t *testing.T) {
	table, err := parseTimeline([]byte(timelineBody), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.Rows))
	}

	if !table.Rows[0].Time.Equal(time.Unix(1703980800, 0)) {
		t.Errorf("Expected rows sorted ascending, first row at %v", table.Rows[0].Time)
	}
	if table.Rows[2].Values[1] != 0 {
		t.Errorf("Expected missing value to be 0, got %v", table.Rows[2].Values[1])
	}
	if !table.Rows[2].Partial {
		t.Error("Expected last row to be partial")
	}

	series, ok := table.Series("beta")
	if !ok {
		t.Fatal("Expected series for beta")
	}
	if series[1].Value != 12 {
		t.Errorf("Expected beta value 12 in second row, got %v", series[1].Value)
	}
	if _, ok := table.Series("gamma"); ok {
		t.Error("Expected no series for unknown keyword")
	}
}

func TestParseTimeline_InvalidTimestamp(t *testing.T) {
	body := `)]}',
{"default":{"timelineData":[{"time":"yesterday","value":[1]}]}}`
	if _, err := parseTimeline([]byte(body), []string{"x"}); err == nil {
		t.Fatal("Expected error for invalid timestamp, got nil")
	}
}

func TestParseGeo_SortsDescending(t *testing.T) {
	body := `)]}',
{"default":{"geoMapData":[
 {"geoCode":"DE","geoName":"Germany","value":[20]},
 {"geoCode":"US","geoName":"United States","value":[100]},
 {"geoCode":"AQ","geoName":"Antarctica","value":[]},
 {"geoCode":"IN","geoName":"India","value":[64]}
]}}`

	regions, err := parseGeo([]byte(body))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	expected := []string{"US", "IN", "DE", "AQ"}
	for i, code := range expected {
		if regions[i].GeoCode != code {
			t.Errorf("Position %d: expected %s, got %s", i, code, regions[i].GeoCode)
		}
	}
}

func TestParseRelated_TopAndRising(t *testing.T) {
	body := `)]}',
{"default":{"rankedList":[
 {"rankedKeyword":[{"query":"event planner near me","value":100,"formattedValue":"100","link":"/trends/explore?q=event+planner+near+me"}]},
 {"rankedKeyword":[{"query":"ai event planner","value":4250,"formattedValue":"Breakout"},{"query":"event planner salary","value":120,"formattedValue":"+120%"}]}
]}}`

	related, err := parseRelated([]byte(body))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(related.Top) != 1 || related.Top[0].Query != "event planner near me" {
		t.Errorf("Unexpected top queries: %+v", related.Top)
	}
	if len(related.Rising) != 2 || related.Rising[0].FormattedValue != "Breakout" {
		t.Errorf("Unexpected rising queries: %+v", related.Rising)
	}
}

func TestParseRelated_MissingLists(t *testing.T) {
	related, err := parseRelated([]byte(`)]}',
{"default":{"rankedList":[]}}`))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(related.Top) != 0 || len(related.Rising) != 0 {
		t.Errorf("Expected empty tables, got %+v", related)
	}
}

func TestStripXSSI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{")]}'\n{\"a\":1}", `{"a":1}`},
		{")]}',\n{\"a\":1}", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  )]}'  ", ""},
	}

	for _, test := range tests {
		if got := string(stripXSSI([]byte(test.input))); got != test.expected {
			t.Errorf("stripXSSI(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestUnmarshal_EmptyAndInvalid(t *testing.T) {
	var dest map[string]interface{}
	if err := unmarshal([]byte(")]}'"), &dest); err == nil {
		t.Error("Expected error for empty body")
	}
	if err := unmarshal([]byte("<html>blocked</html>"), &dest); err == nil {
		t.Error("Expected error for non-JSON body")
	}
}

func TestDecodeBody_Latin1(t *testing.T) {
	// "café" in ISO-8859-1.
	body := []byte{'c', 'a', 'f', 0xE9}

	decoded, err := decodeBody(body, "application/json; charset=ISO-8859-1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(decoded) != "café" {
		t.Errorf("Expected café, got %q", decoded)
	}

	same, err := decodeBody(body, "application/json; charset=utf-8")
	if err != nil || string(same) != string(body) {
		t.Errorf("Expected UTF-8 body untouched, got %q, %v", same, err)
	}
}
