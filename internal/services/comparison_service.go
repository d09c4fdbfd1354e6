package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"creditlens/internal/core"
	"creditlens/internal/log"
	"creditlens/internal/metrics"
	"creditlens/internal/sheets"
	"creditlens/internal/statement"
)

// DefaultWorkers bounds concurrent sibling loads.
const DefaultWorkers = 4

// ComparisonService builds the historical baseline from sibling statements.
type ComparisonService struct {
	loader  *statement.Loader
	lister  sheets.SiblingLister
	logger  *log.Logger
	metrics *metrics.Recorder
	workers int
}

func NewComparisonService(loader *statement.Loader, lister sheets.SiblingLister, logger *log.Logger, m *metrics.Recorder, workers int) *ComparisonService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &ComparisonService{
		loader:  loader,
		lister:  lister,
		logger:  logger.WithComponent(log.ComponentComparison),
		metrics: m,
		workers: workers,
	}
}

// Baseline averages the summaries of every sibling of current. Siblings that
// fail to load or hold no records are skipped and do not count toward N.
// A listing failure yields an empty baseline.
func (s *ComparisonService) Baseline(ctx context.Context, current *core.Statement) core.Baseline {
	refs, err := s.lister.ListSiblings(ctx, current.Source)
	if err != nil {
		s.logger.WarnContext(ctx, "Cannot list sibling statements",
			log.FieldSource, current.Source,
			log.FieldError, err)
		s.metrics.BaselineStatements(0)
		return core.Baseline{Summary: core.Summary{}, Total: decimal.Zero}
	}

	summaries := make([]core.Summary, len(refs))
	totals := make([]decimal.Decimal, len(refs))
	loaded := make([]bool, len(refs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, ref := range refs {
		g.Go(func() error {
			st, err := s.loader.LoadSibling(ctx, ref)
			if err != nil {
				s.logger.WarnContext(ctx, "Skipping sibling statement",
					log.FieldSource, ref,
					log.FieldError, err)
				return nil
			}
			if st.Empty() {
				s.logger.DebugContext(ctx, "Skipping empty sibling statement", log.FieldSource, ref)
				return nil
			}
			summaries[i] = Summarize(st)
			totals[i] = TotalAmount(st)
			loaded[i] = true
			return nil
		})
	}
	_ = g.Wait()

	var (
		okSummaries []core.Summary
		okTotals    []decimal.Decimal
		sources     []string
	)
	for i := range refs {
		if !loaded[i] {
			continue
		}
		okSummaries = append(okSummaries, summaries[i])
		okTotals = append(okTotals, totals[i])
		sources = append(sources, refs[i])
	}

	b := Average(okSummaries, okTotals)
	b.Sources = sources
	s.metrics.BaselineStatements(b.Statements)
	s.logger.InfoContext(ctx, "Comparison baseline ready",
		log.FieldSource, current.Source,
		log.FieldSiblings, len(refs),
		log.FieldAveraged, b.Statements)
	return b
}

// Average computes per-category and total means over len(summaries)
// statements; totals[i] belongs to summaries[i]. A category missing from a
// statement contributes zero for that statement.
func Average(summaries []core.Summary, totals []decimal.Decimal) core.Baseline {
	b := core.Baseline{Summary: core.Summary{}, Total: decimal.Zero, Statements: len(summaries)}
	if len(summaries) == 0 {
		return b
	}
	n := decimal.NewFromInt(int64(len(summaries)))

	index := map[string]int{}
	for _, s := range summaries {
		for _, c := range s {
			i, ok := index[c.Name]
			if !ok {
				i = len(b.Summary)
				index[c.Name] = i
				b.Summary = append(b.Summary, core.CategoryAmount{Name: c.Name, Amount: decimal.Zero})
			}
			b.Summary[i].Amount = b.Summary[i].Amount.Add(c.Amount)
		}
	}
	for i := range b.Summary {
		b.Summary[i].Amount = b.Summary[i].Amount.Div(n)
	}
	sortSummary(b.Summary)

	for _, t := range totals {
		b.Total = b.Total.Add(t)
	}
	b.Total = b.Total.Div(n)
	return b
}

// Compare lines the current month up against the baseline: the overall total
// first, then the union of categories in lexical order. Absent values are zero.
func Compare(current core.Summary, total decimal.Decimal, baseline core.Baseline) []core.ComparisonRow {
	rows := []core.ComparisonRow{{
		Label:   core.TotalLabel,
		Current: total,
		Average: baseline.Total,
		Total:   true,
	}}

	seen := map[string]bool{}
	var names []string
	for _, s := range []core.Summary{current, baseline.Summary} {
		for _, c := range s {
			if !seen[c.Name] {
				seen[c.Name] = true
				names = append(names, c.Name)
			}
		}
	}
	sort.Strings(names)

	for _, name := range names {
		rows = append(rows, core.ComparisonRow{
			Label:   name,
			Current: current.Get(name),
			Average: baseline.Summary.Get(name),
		})
	}
	return rows
}
