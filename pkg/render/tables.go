package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"trends-explorer/pkg/trend"
	"trends-explorer/pkg/trends"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
	)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	table := newTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to fill table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func relatedRows(queries []trends.RelatedQuery) [][]string {
	rows := make([][]string, 0, len(queries))
	for _, q := range queries {
		value := q.FormattedValue
		if value == "" {
			value = fmt.Sprintf("%g", q.Value)
		}
		rows = append(rows, []string{q.Query, value})
	}
	return rows
}

// RelatedTables writes the rising table followed by the top table. Empty
// tables are reported with a sentence instead of an empty grid.
func RelatedTables(w io.Writer, related *trends.RelatedQueries) error {
	var rising, top []trends.RelatedQuery
	if related != nil {
		rising, top = related.Rising, related.Top
	}

	fmt.Fprintln(w, "Rising queries")
	if len(rising) == 0 {
		fmt.Fprintln(w, "No rising queries found.")
	} else if err := writeTable(w, []string{"Query", "Growth"}, relatedRows(rising)); err != nil {
		return err
	}

	fmt.Fprintln(w, "Top queries")
	if len(top) == 0 {
		fmt.Fprintln(w, "No top queries found.")
	} else if err := writeTable(w, []string{"Query", "Interest"}, relatedRows(top)); err != nil {
		return err
	}
	return nil
}

// BandsTable writes the classification table.
func BandsTable(w io.Writer, bands []trend.Band) error {
	rows := make([][]string, 0, len(bands)+1)
	for _, b := range bands {
		cmp := "≤"
		if b.Strict {
			cmp = "<"
		}
		rows = append(rows, []string{
			b.Name,
			fmt.Sprintf("(%g, %g]", b.Lower, b.Upper),
			fmt.Sprintf("|change| %s %g", cmp, b.Threshold),
			string(b.Steady),
			string(b.Increasing),
			string(b.Decreasing),
		})
	}
	rows = append(rows, []string{trend.ReviewBand, "≤ 0", "-", string(trend.StatusNeedsReview), "-", "-"})
	return writeTable(w, []string{"Band", "5-Year Avg", "Steady When", "Steady", "Increasing", "Decreasing"}, rows)
}
