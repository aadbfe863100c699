package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/export"
	"trends-explorer/pkg/render"
	"trends-explorer/pkg/trends"
)

type analyzeOptions struct {
	keywords  string
	timeframe string
	geo       string
	jsonOut   bool
	noColor   bool
}

func newAnalyzeCommand(app *App) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch, chart and classify keywords",
		Long: `Fetch interest over time for the given keywords, draw the overview chart
and a dashboard per keyword, and classify each keyword's five-year trend.

Classification always uses the five-year window; --timeframe only changes
the overview chart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.analyze(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.keywords, "keywords", "k", "", "comma-separated keywords")
	cmd.Flags().StringVarP(&opts.timeframe, "timeframe", "t", string(trends.TimeframeFiveYears), "overview timeframe (today 5-y, today 12-m, today 3-m, today 1-m)")
	cmd.Flags().StringVarP(&opts.geo, "geo", "g", "", "two-letter country code, empty for worldwide")
	cmd.Flags().String("out", "", "directory for CSV exports")
	cmd.Flags().Int("concurrency", 1, "keywords analyzed in parallel")
	cmd.Flags().Int("top-regions", analysis.DefaultTopRegions, "regions shown per keyword")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	_ = cmd.MarkFlagRequired("keywords")

	return cmd
}

func (a *App) analyze(cmd *cobra.Command, opts *analyzeOptions) error {
	keywords, err := analysis.ParseKeywords(opts.keywords)
	if err != nil {
		return err
	}
	timeframe, err := trends.ParseTimeframe(opts.timeframe)
	if err != nil {
		return err
	}

	provider, err := a.newProvider(a.cfg.Trends, a.log)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer := analysis.NewAnalyzer(provider, a.cfg.Analysis, a.log)
	report, err := analyzer.Run(ctx, analysis.Request{
		Keywords:  keywords,
		Timeframe: timeframe,
		Geo:       opts.geo,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		useColors := !opts.noColor && !color.NoColor
		if err := render.NewRenderer(out, useColors).RenderReport(report); err != nil {
			return err
		}
	}

	if dir := a.cfg.Export.Dir; dir != "" {
		written, err := export.NewExporter(dir, a.log).SaveReport(report)
		if err != nil {
			return fmt.Errorf("exporting report: %w", err)
		}
		if !opts.jsonOut {
			for _, path := range written {
				fmt.Fprintf(out, "Saved %s\n", path)
			}
		}
	}
	return nil
}
