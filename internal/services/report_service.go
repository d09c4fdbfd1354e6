package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"creditlens/internal/core"
	"creditlens/internal/log"
	"creditlens/internal/metrics"
	"creditlens/internal/sheets"
	"creditlens/internal/statement"
)

// ErrEmptyStatement means the statement loaded but produced no transactions.
var ErrEmptyStatement = errors.New("statement has no transactions")

// Report is everything the dashboard shows for one statement. It is built
// once and read concurrently afterwards.
type Report struct {
	Statement   *core.Statement
	Summary     core.Summary
	Total       decimal.Decimal
	Baseline    core.Baseline
	Comparison  []core.ComparisonRow
	GeneratedAt time.Time
}

// Details is the drill-down for one category of the report's statement.
func (r *Report) Details(category string) []core.DetailRow {
	return Details(r.Statement, category)
}

// HasCategory reports whether category appears in the summary.
func (r *Report) HasCategory(category string) bool {
	return r.Summary.Has(category)
}

type Options struct {
	Logger   *log.Logger
	Metrics  *metrics.Recorder
	Workers  int
	ScanRows int
}

// ReportService orchestrates loading, aggregation and comparison.
type ReportService struct {
	loader     *statement.Loader
	comparison *ComparisonService
	logger     *log.Logger
}

func NewReportService(src sheets.Source, opts Options) *ReportService {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	loader := statement.NewLoader(src,
		statement.WithLogger(logger),
		statement.WithMetrics(opts.Metrics),
		statement.WithScanRows(opts.ScanRows))
	return &ReportService{
		loader:     loader,
		comparison: NewComparisonService(loader, src, logger, opts.Metrics, opts.Workers),
		logger:     logger.WithComponent(log.ComponentAggregator),
	}
}

// Build loads ref and assembles its report. It fails when the statement
// cannot be read or holds no transactions.
func (s *ReportService) Build(ctx context.Context, ref string) (*Report, error) {
	st, err := s.loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if st.Empty() {
		return nil, fmt.Errorf("%s: %w", ref, ErrEmptyStatement)
	}

	summary := Summarize(st)
	total := TotalAmount(st)
	s.logger.InfoContext(ctx, "Statement summarized",
		log.FieldSource, ref,
		"categories", len(summary),
		log.FieldTotal, total.StringFixed(2))

	baseline := s.comparison.Baseline(ctx, st)
	return &Report{
		Statement:   st,
		Summary:     summary,
		Total:       total,
		Baseline:    baseline,
		Comparison:  Compare(summary, total, baseline),
		GeneratedAt: time.Now(),
	}, nil
}
