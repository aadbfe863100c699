package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trends-explorer/pkg/logger"
	"trends-explorer/pkg/trend"
	"trends-explorer/pkg/trends"
)

// ClassifierTimeframe is the window fetched for classification regardless
// of the timeframe selected for display.
const ClassifierTimeframe = trends.TimeframeFiveYears

// DefaultTopRegions is the number of regions kept per keyword.
const DefaultTopRegions = 10

// Request describes one analysis run.
type Request struct {
	Keywords  []string         `json:"keywords"`
	Timeframe trends.Timeframe `json:"timeframe"`
	Geo       string           `json:"geo,omitempty"`
}

// Outcome is the result of one keyword. Err is set when the keyword could
// not be classified, in which case Series is empty; Warnings carry failures
// of optional steps.
type Outcome struct {
	Keyword  string                  `json:"keyword"`
	Series   trend.Series            `json:"series,omitempty"`
	Result   *trend.Result           `json:"result,omitempty"`
	Regions  []trends.RegionInterest `json:"regions,omitempty"`
	Related  *trends.RelatedQueries  `json:"related,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
	Err      *Error                  `json:"error,omitempty"`
}

// OK reports whether the keyword was classified.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// Report is the full result of a run.
type Report struct {
	ID          string                `json:"id"`
	Request     Request               `json:"request"`
	StartedAt   time.Time             `json:"started_at"`
	Duration    time.Duration         `json:"duration"`
	Overview    *trends.InterestTable `json:"overview,omitempty"`
	OverviewErr *Error                `json:"overview_error,omitempty"`
	Outcomes    []Outcome             `json:"outcomes"`
}

// Failed counts keywords that could not be classified.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Observer is notified of finished keywords and runs.
type Observer interface {
	ObserveOutcome(o Outcome)
	ObserveRun(r *Report)
}

// Options tunes an Analyzer.
type Options struct {
	// Concurrency bounds parallel keyword fetches; 1 or less is sequential.
	Concurrency int `mapstructure:"concurrency"`
	// TopRegions limits regions kept per keyword.
	TopRegions int `mapstructure:"top_regions"`
}

// Analyzer runs fetch-classify sequences against a provider.
type Analyzer struct {
	provider  trends.Provider
	opts      Options
	observers []Observer
	log       *logger.Logger
}

// NewAnalyzer builds an analyzer. A nil logger uses the process logger.
func NewAnalyzer(provider trends.Provider, opts Options, l *logger.Logger, observers ...Observer) *Analyzer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.TopRegions <= 0 {
		opts.TopRegions = DefaultTopRegions
	}
	if l == nil {
		l = logger.GetLogger()
	}
	return &Analyzer{
		provider:  provider,
		opts:      opts,
		observers: observers,
		log:       l.WithField("component", "analyzer"),
	}
}

// Run analyzes every keyword of req. The only run-level error is an empty
// keyword list; everything else is recorded per keyword or on the overview.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Report, error) {
	keywords, err := NormalizeKeywords(req.Keywords)
	if err != nil {
		return nil, err
	}
	req.Keywords = keywords
	if req.Timeframe == "" {
		req.Timeframe = trends.TimeframeFiveYears
	}

	report := &Report{
		ID:        uuid.NewString(),
		Request:   req,
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, len(keywords)),
	}
	log := a.log.WithFields(map[string]interface{}{
		"run_id":    report.ID,
		"keywords":  len(keywords),
		"timeframe": req.Timeframe.String(),
		"geo":       req.Geo,
	})
	log.Info("Starting analysis run")

	report.Overview, report.OverviewErr = a.overview(ctx, req)
	if report.OverviewErr != nil {
		log.WithError(report.OverviewErr).Warn("Overview unavailable")
	}

	progress := logger.NewProgressReporter(log, len(keywords), "Analyzing keywords")
	g := new(errgroup.Group)
	g.SetLimit(a.opts.Concurrency)
	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			out := a.analyzeKeyword(ctx, kw, req.Geo)
			report.Outcomes[i] = out
			progress.Step(kw, !out.OK())
			for _, o := range a.observers {
				o.ObserveOutcome(out)
			}
			// Keyword failures live in the outcome so siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(report.StartedAt)
	for _, o := range a.observers {
		o.ObserveRun(report)
	}
	log.WithFields(map[string]interface{}{
		"failed":   report.Failed(),
		"duration": report.Duration.String(),
	}).Info("Analysis run completed")
	return report, nil
}

// Overview fetches the combined interest table for the selected timeframe.
func (a *Analyzer) Overview(ctx context.Context, req Request) (*trends.InterestTable, error) {
	keywords, err := NormalizeKeywords(req.Keywords)
	if err != nil {
		return nil, err
	}
	req.Keywords = keywords
	table, aerr := a.overview(ctx, req)
	if aerr != nil {
		return nil, aerr
	}
	return table, nil
}

func (a *Analyzer) overview(ctx context.Context, req Request) (*trends.InterestTable, *Error) {
	if len(req.Keywords) > trends.MaxKeywords {
		return nil, newError(KindDataUnavailable, ScopeOverview, "",
			fmt.Errorf("%w: at most %d can be compared, got %d", ErrTooManyKeywords, trends.MaxKeywords, len(req.Keywords)))
	}

	table, err := a.provider.InterestOverTime(ctx, trends.Query{
		Keywords:  req.Keywords,
		Timeframe: req.Timeframe,
		Geo:       req.Geo,
	})
	if err != nil {
		return nil, newError(KindDataUnavailable, ScopeOverview, "", err)
	}
	if table.Empty() {
		return nil, newError(KindDataUnavailable, ScopeOverview, "",
			errors.New("no data returned, try a different geo or timeframe"))
	}
	return table, nil
}

// TopRegions fetches the highest-interest regions of one keyword over the
// classifier window.
func (a *Analyzer) TopRegions(ctx context.Context, keyword, geo string) ([]trends.RegionInterest, error) {
	regions, err := a.provider.InterestByRegion(ctx, keywordQuery(keyword, geo))
	return a.topRegions(keyword, regions, err)
}

func (a *Analyzer) topRegions(keyword string, regions []trends.RegionInterest, err error) ([]trends.RegionInterest, error) {
	if err != nil {
		return nil, newError(KindDataUnavailable, ScopeRegions, keyword, err)
	}
	if len(regions) > a.opts.TopRegions {
		regions = regions[:a.opts.TopRegions]
	}
	return regions, nil
}

func keywordQuery(keyword, geo string) trends.Query {
	return trends.Query{
		Keywords:  []string{keyword},
		Timeframe: ClassifierTimeframe,
		Geo:       geo,
	}
}

// keywordSource reads the three datasets of one keyword query.
type keywordSource struct {
	interest func(context.Context) (*trends.InterestTable, error)
	regions  func(context.Context) ([]trends.RegionInterest, error)
	related  func(context.Context) (*trends.RelatedQueries, error)
}

// source shares one explore response across the three datasets when the
// provider supports it.
func (a *Analyzer) source(ctx context.Context, q trends.Query) (keywordSource, error) {
	if ex, ok := a.provider.(trends.Explorer); ok {
		e, err := ex.Explore(ctx, q)
		if err != nil {
			return keywordSource{}, err
		}
		return keywordSource{
			interest: e.InterestOverTime,
			regions:  e.InterestByRegion,
			related:  e.RelatedQueries,
		}, nil
	}
	return keywordSource{
		interest: func(ctx context.Context) (*trends.InterestTable, error) {
			return a.provider.InterestOverTime(ctx, q)
		},
		regions: func(ctx context.Context) ([]trends.RegionInterest, error) {
			return a.provider.InterestByRegion(ctx, q)
		},
		related: func(ctx context.Context) (*trends.RelatedQueries, error) {
			return a.provider.RelatedQueries(ctx, q)
		},
	}, nil
}

func (a *Analyzer) analyzeKeyword(ctx context.Context, keyword, geo string) Outcome {
	out := Outcome{Keyword: keyword}
	log := a.log.WithField("keyword", keyword)
	q := keywordQuery(keyword, geo)

	src, err := a.source(ctx, q)
	if err != nil {
		out.Err = newError(KindDataUnavailable, ScopeSeries, keyword, err)
		log.WithError(err).Warn("No series for keyword")
		return out
	}

	table, err := src.interest(ctx)
	if err != nil {
		out.Err = newError(KindDataUnavailable, ScopeSeries, keyword, err)
		log.WithError(err).Warn("No series for keyword")
		return out
	}
	series, ok := table.Series(keyword)
	if !ok || len(series) == 0 {
		out.Err = newError(KindDataUnavailable, ScopeSeries, keyword, errors.New("no data"))
		log.Warn("No series for keyword")
		return out
	}
	result, err := trend.Classify(series)
	if err != nil {
		kind := KindDataUnavailable
		if errors.Is(err, trend.ErrInvalidInput) {
			kind = KindInvalidInput
		}
		out.Err = newError(kind, ScopeClassify, keyword, err)
		log.WithError(err).Error("Classification failed")
		return out
	}
	out.Series = series
	out.Result = &result
	if result.CadenceMismatch {
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"series spacing is %s, not weekly: the last %d points do not span one year",
			result.Cadence, trend.LastYearPoints))
		log.WithField("cadence", result.Cadence.String()).Warn("Series cadence is not weekly")
	}

	regions, err := src.regions(ctx)
	if regions, err = a.topRegions(keyword, regions, err); err != nil {
		out.Warnings = append(out.Warnings, err.Error())
		log.WithError(err).Warn("Regional interest unavailable")
	} else {
		out.Regions = regions
	}

	related, err := src.related(ctx)
	if err != nil {
		out.Warnings = append(out.Warnings, newError(KindDataUnavailable, ScopeRelated, keyword, err).Error())
		log.WithError(err).Warn("Related queries unavailable")
	} else {
		out.Related = related
	}

	log.WithFields(map[string]interface{}{
		"status":        string(result.Status),
		"five_year_avg": result.FiveYearAvg,
		"last_year_avg": result.LastYearAvg,
		"change_pct":    result.ChangePct,
	}).Debug("Keyword classified")
	return out
}
