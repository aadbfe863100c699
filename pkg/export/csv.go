package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"trends-explorer/pkg/trends"
)

// InterestFileName is the download name of the combined interest table.
const InterestFileName = "interest_over_time.csv"

const dateLayout = "2006-01-02"

const regionsSuffix = "_regions.csv"

// RegionsFileName returns the download name of a keyword's region table.
func RegionsFileName(keyword string) string {
	return sanitize(keyword) + regionsSuffix
}

// WriteInterestOverTime writes one row per timestamp: the date, one column
// per keyword and the provider's partial-period flag.
func WriteInterestOverTime(w io.Writer, table *trends.InterestTable) error {
	if table == nil {
		return fmt.Errorf("no interest table to export")
	}
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(table.Keywords)+2)
	header = append(header, "date")
	header = append(header, table.Keywords...)
	header = append(header, "isPartial")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range table.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Time.UTC().Format(dateLayout))
		for i := range table.Keywords {
			v := 0.0
			if i < len(row.Values) {
				v = row.Values[i]
			}
			record = append(record, formatValue(v))
		}
		record = append(record, strconv.FormatBool(row.Partial))
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", record[0], err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRegions writes the region table of one keyword, already ordered and
// truncated by the caller.
func WriteRegions(w io.Writer, keyword string, regions []trends.RegionInterest) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"geoName", keyword}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range regions {
		if err := writer.Write([]string{r.GeoName, formatValue(r.Value)}); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.GeoName, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitize keeps letters, digits, '-' and '_' and turns everything else
// into '_' so keywords are safe as file names.
func sanitize(keyword string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(keyword) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "keyword"
	}
	return b.String()
}
