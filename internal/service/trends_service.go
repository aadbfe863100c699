package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/export"
	"trends-explorer/pkg/logger"
	"trends-explorer/pkg/trend"
	"trends-explorer/pkg/trends"
)

// ErrInvalidTimeframe is returned for timeframe strings the provider does
// not accept.
var ErrInvalidTimeframe = errors.New("invalid timeframe")

var (
	_ AnalysisService = (*TrendsService)(nil)
	_ ExportService   = (*TrendsService)(nil)
)

// TrendsService backs the dashboard with an analyzer.
type TrendsService struct {
	analyzer *analysis.Analyzer
	log      *logger.Logger
}

func NewTrendsService(analyzer *analysis.Analyzer, l *logger.Logger) *TrendsService {
	if l == nil {
		l = logger.GetLogger()
	}
	return &TrendsService{analyzer: analyzer, log: l.WithField("component", "trends_service")}
}

func (s *TrendsService) Analyze(ctx context.Context, keywords, timeframe, geo string) (*analysis.Report, error) {
	req, err := buildRequest(keywords, timeframe, geo)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Run(ctx, req)
}

func (s *TrendsService) Bands() []trend.Band {
	return trend.Bands()
}

func (s *TrendsService) InterestCSV(ctx context.Context, keywords, timeframe, geo string) ([]byte, error) {
	req, err := buildRequest(keywords, timeframe, geo)
	if err != nil {
		return nil, err
	}
	table, err := s.analyzer.Overview(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteInterestOverTime(&buf, table); err != nil {
		return nil, fmt.Errorf("failed to export interest over time: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *TrendsService) RegionsCSV(ctx context.Context, keyword, geo string) ([]byte, error) {
	keywords, err := analysis.NormalizeKeywords([]string{keyword})
	if err != nil {
		return nil, err
	}
	regions, err := s.analyzer.TopRegions(ctx, keywords[0], geo)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteRegions(&buf, keywords[0], regions); err != nil {
		return nil, fmt.Errorf("failed to export regions: %w", err)
	}
	return buf.Bytes(), nil
}

func buildRequest(keywords, timeframe, geo string) (analysis.Request, error) {
	list, err := analysis.ParseKeywords(keywords)
	if err != nil {
		return analysis.Request{}, err
	}
	tf, err := trends.ParseTimeframe(timeframe)
	if err != nil {
		return analysis.Request{}, fmt.Errorf("%w: %v", ErrInvalidTimeframe, err)
	}
	return analysis.Request{Keywords: list, Timeframe: tf, Geo: geo}, nil
}
