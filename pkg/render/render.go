// Package render draws analysis reports for the terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/trend"
	"trends-explorer/pkg/trends"
)

const (
	chartWidth  = 60
	chartHeight = 8
	barWidth    = 40
)

// Renderer writes reports to out.
type Renderer struct {
	out       io.Writer
	useColors bool
}

// NewRenderer creates a renderer. Colors are only emitted when useColors
// is set.
func NewRenderer(out io.Writer, useColors bool) *Renderer {
	return &Renderer{out: out, useColors: useColors}
}

func (r *Renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (r *Renderer) section(title string) {
	r.paint(color.FgWhite, color.Bold).Fprintf(r.out, "\n%s\n", title)
	fmt.Fprintln(r.out, strings.Repeat("─", len([]rune(title))))
}

// RenderReport writes the overview and then one dashboard per keyword.
// A failure while drawing one keyword is reported inline and the next
// keyword is drawn.
func (r *Renderer) RenderReport(report *analysis.Report) error {
	if report == nil {
		return fmt.Errorf("no report to render")
	}

	r.section(fmt.Sprintf("Interest over time (%s)", report.Request.Timeframe))
	if report.OverviewErr != nil {
		r.paint(color.FgYellow).Fprintf(r.out, "⚠ %s\n", report.OverviewErr.Error())
	} else if err := r.Overview(report.Overview); err != nil {
		r.paint(color.FgRed).Fprintf(r.out, "✗ overview: %v\n", err)
	}

	for _, out := range report.Outcomes {
		if err := r.keyword(out); err != nil {
			r.paint(color.FgRed).Fprintf(r.out, "✗ Failed to render %q: %v\n", out.Keyword, err)
		}
	}
	return nil
}

// Overview writes one sparkline row per keyword.
func (r *Renderer) Overview(table *trends.InterestTable) error {
	if table == nil || table.Empty() {
		return fmt.Errorf("no overview data")
	}
	first := table.Rows[0].Time.Format("2006-01-02")
	last := table.Rows[len(table.Rows)-1].Time.Format("2006-01-02")
	fmt.Fprintf(r.out, "%s → %s\n", first, last)

	width := 0
	for _, kw := range table.Keywords {
		if n := len([]rune(kw)); n > width {
			width = n
		}
	}
	for _, kw := range table.Keywords {
		series, _ := table.Series(kw)
		values := series.Values()
		lo, hi := minMax(values)
		fmt.Fprintf(r.out, "%-*s %s  min %g max %g\n", width, kw, Sparkline(values, chartWidth), lo, hi)
	}
	return nil
}

func (r *Renderer) keyword(out analysis.Outcome) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	r.section(out.Keyword)
	if out.Err != nil {
		r.paint(color.FgRed).Fprintf(r.out, "✗ %s\n", out.Err.Error())
		return nil
	}

	values := out.Series.Values()
	if len(values) > 0 {
		fmt.Fprintf(r.out, "Interest over time (%s → %s)\n",
			out.Series[0].Time.Format("2006-01-02"),
			out.Series[len(out.Series)-1].Time.Format("2006-01-02"))
		for _, line := range ColumnChart(values, chartWidth, chartHeight) {
			fmt.Fprintln(r.out, line)
		}
	}

	if out.Result != nil {
		r.Summary(*out.Result)
	}

	fmt.Fprintln(r.out)
	r.Regions(out.Regions)

	fmt.Fprintln(r.out)
	if err := RelatedTables(r.out, out.Related); err != nil {
		return err
	}

	for _, w := range out.Warnings {
		r.paint(color.FgYellow).Fprintf(r.out, "⚠ %s\n", w)
	}
	return nil
}

// Summary writes the four classification metrics.
func (r *Renderer) Summary(res trend.Result) {
	label := r.paint(color.Faint)
	fmt.Fprintf(r.out, "%s %.2f   ", label.Sprint("5-Year Avg:"), res.FiveYearAvg)
	fmt.Fprintf(r.out, "%s %.2f   ", label.Sprint("Last Year Avg:"), res.LastYearAvg)
	fmt.Fprintf(r.out, "%s %+.2f%%   ", label.Sprint("Change:"), res.ChangePct)
	fmt.Fprintf(r.out, "%s %s\n", label.Sprint("Classification:"), r.paint(statusColor(res.Status)...).Sprint(string(res.Status)))
}

// Regions writes one horizontal bar per region.
func (r *Renderer) Regions(regions []trends.RegionInterest) {
	fmt.Fprintln(r.out, "Top regions")
	if len(regions) == 0 {
		fmt.Fprintln(r.out, "No regional data found.")
		return
	}
	width := 0
	for _, reg := range regions {
		if n := len([]rune(reg.GeoName)); n > width {
			width = n
		}
	}
	bar := r.paint(color.FgCyan)
	for _, reg := range regions {
		fmt.Fprintf(r.out, "%-*s %s %g\n", width, reg.GeoName, bar.Sprint(Bar(reg.Value, barWidth)), reg.Value)
	}
}

func statusColor(s trend.Status) []color.Attribute {
	if s == trend.StatusNeedsReview {
		return []color.Attribute{color.FgYellow, color.Bold}
	}
	for _, b := range trend.Bands() {
		switch s {
		case b.Increasing:
			return []color.Attribute{color.FgGreen, color.Bold}
		case b.Decreasing:
			return []color.Attribute{color.FgRed, color.Bold}
		case b.Steady:
			return []color.Attribute{color.FgCyan, color.Bold}
		}
	}
	return []color.Attribute{color.Bold}
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
