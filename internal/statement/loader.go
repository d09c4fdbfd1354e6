// Package statement turns a raw statement grid into typed records.
//
// A grid goes through header detection, column resolution and row cleaning.
// The untyped grid never leaves this package.
package statement

import (
	"context"
	"fmt"
	"time"

	"creditlens/internal/core"
	"creditlens/internal/log"
	"creditlens/internal/metrics"
	"creditlens/internal/sheets"
)

// LoadError wraps a failure to read a statement source.
type LoadError struct {
	Ref string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load statement %s: %v", e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads statements through a GridReader.
type Loader struct {
	reader   sheets.GridReader
	logger   *log.Logger
	events   *log.StructuredLogger
	metrics  *metrics.Recorder
	scanRows int
}

type Option func(*Loader)

func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(ld *Loader) { ld.metrics = m }
}

// WithScanRows sets how many leading rows are searched for the header.
func WithScanRows(n int) Option {
	return func(ld *Loader) {
		if n > 0 {
			ld.scanRows = n
		}
	}
}

func NewLoader(r sheets.GridReader, opts ...Option) *Loader {
	ld := &Loader{
		reader:   r,
		logger:   log.New(log.DefaultConfig()),
		scanRows: DefaultScanRows,
	}
	for _, opt := range opts {
		opt(ld)
	}
	ld.events = log.NewStructuredLogger(ld.logger)
	ld.logger = ld.logger.WithComponent(log.ComponentLoader)
	return ld
}

// Load reads the primary statement. On a read failure the error is logged
// and an empty statement is returned together with a *LoadError.
func (l *Loader) Load(ctx context.Context, ref string) (*core.Statement, error) {
	return l.load(ctx, ref, metrics.RolePrimary)
}

// LoadSibling is Load for statements that only feed the comparison baseline.
func (l *Loader) LoadSibling(ctx context.Context, ref string) (*core.Statement, error) {
	return l.load(ctx, ref, metrics.RoleSibling)
}

func (l *Loader) load(ctx context.Context, ref, role string) (*core.Statement, error) {
	start := time.Now()

	grid, err := l.reader.ReadGrid(ctx, ref)
	if err != nil {
		lerr := &LoadError{Ref: ref, Err: err}
		l.events.LogError(ctx, "Failed to load statement", lerr, log.ComponentLoader, log.OpLoad,
			log.NewFields().WithStatement(ref, 0, 0, -1))
		l.metrics.StatementLoaded(role, metrics.StatusFailed, time.Since(start), 0)
		return core.EmptyStatement(ref), lerr
	}

	st, ambiguous := Parse(ref, grid, l.scanRows)
	for _, a := range ambiguous {
		names := make([]string, len(a.Candidates))
		for i, c := range a.Candidates {
			names[i] = c.Name
		}
		l.logger.WarnContext(ctx, "Several columns match, using the first",
			log.FieldSource, ref,
			log.FieldColumn, a.Role,
			"chosen", a.Chosen.Name,
			log.FieldCandidates, names)
	}
	if !st.Columns.Amount.Found() {
		l.logger.WarnContext(ctx, "Amount column not found",
			log.FieldSource, ref,
			log.FieldHeaderRow, st.Columns.HeaderRow)
	}
	if !st.Columns.Category.Found() {
		l.logger.WarnContext(ctx, "Category column not found",
			log.FieldSource, ref,
			log.FieldHeaderRow, st.Columns.HeaderRow)
	}

	status := metrics.StatusOK
	if st.Empty() {
		status = metrics.StatusEmpty
		l.logger.WarnContext(ctx, "Statement has no usable rows",
			log.FieldSource, ref,
			log.FieldDropped, st.DroppedRows)
	} else {
		l.events.LogStatementLoaded(ctx, ref, len(st.Records), st.DroppedRows, st.Columns.HeaderRow)
	}
	l.metrics.StatementLoaded(role, status, time.Since(start), st.DroppedRows)
	return st, nil
}

// Parse builds a statement from a raw grid. Rows after the header whose
// amount is missing or not numeric are dropped; blank rows are skipped
// without being counted.
func Parse(ref string, grid [][]string, scanRows int) (*core.Statement, []Ambiguity) {
	st := core.EmptyStatement(ref)
	if len(grid) == 0 {
		return st, nil
	}

	headerRow := DetectHeader(grid, scanRows)
	cols, ambiguous := ResolveColumns(grid[headerRow], headerRow)
	st.Columns = cols
	if !cols.Amount.Found() {
		return st, ambiguous
	}

	for _, row := range grid[headerRow+1:] {
		if blankRow(row) {
			continue
		}
		amount, err := core.ParseAmount(NormalizeCell(cols.Amount.Cell(row)))
		if err != nil {
			st.DroppedRows++
			continue
		}
		st.Records = append(st.Records, core.Record{
			Category: NormalizeCell(cols.Category.Cell(row)),
			Business: NormalizeCell(cols.Business.Cell(row)),
			Amount:   amount,
		})
	}
	return st, ambiguous
}
