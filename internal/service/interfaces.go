package service

import (
	"context"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/trend"
)

type AnalysisService interface {
	// Analyze parses comma-separated keywords and runs a full analysis.
	Analyze(ctx context.Context, keywords, timeframe, geo string) (*analysis.Report, error)
	Bands() []trend.Band
}

type ExportService interface {
	InterestCSV(ctx context.Context, keywords, timeframe, geo string) ([]byte, error)
	RegionsCSV(ctx context.Context, keyword, geo string) ([]byte, error)
}
