package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditlens/internal/core"
	"creditlens/internal/log"
	"creditlens/internal/metrics"
	"creditlens/internal/sheets/memory"
	"creditlens/internal/statement"
)

var header = []string{"תאריך עסקה", "שם בית העסק", "סכום חיוב", "ענף"}

func grid(rows ...[]string) [][]string {
	return append([][]string{header}, rows...)
}

func row(business, amount, category string) []string {
	return []string{"01/01/2024", business, amount, category}
}

func newComparison(t *testing.T, store *memory.Store, buf *bytes.Buffer) *ComparisonService {
	t.Helper()
	logger := log.New(log.Config{Handler: log.NewHandler(buf, slog.LevelDebug)})
	m := metrics.New()
	loader := statement.NewLoader(store, statement.WithLogger(logger), statement.WithMetrics(m))
	return NewComparisonService(loader, store, logger, m, 2)
}

func TestBaselineAveragesSiblings(t *testing.T) {
	store := memory.New(map[string][][]string{
		"/st/03.xlsx": grid(row("x", "999", "A")),
		"/st/01.xlsx": grid(row("x", "100", "A"), row("y", "50", "B")),
		"/st/02.xlsx": grid(row("x", "300", "A")),
	})
	var buf bytes.Buffer
	svc := newComparison(t, store, &buf)

	b := svc.Baseline(context.Background(), core.EmptyStatement("/st/03.xlsx"))
	assert.Equal(t, 2, b.Statements)
	assert.Equal(t, []string{"/st/01.xlsx", "/st/02.xlsx"}, b.Sources)
	assert.True(t, b.Summary.Get("A").Equal(decimal.NewFromInt(200)))
	// B is absent from 02 and counts as zero there.
	assert.True(t, b.Summary.Get("B").Equal(decimal.NewFromInt(25)))
	assert.True(t, b.Total.Equal(decimal.NewFromInt(225)))
	assert.Equal(t, []string{"A", "B"}, b.Summary.Names())
}

func TestBaselineSkipsFailingAndEmptySiblings(t *testing.T) {
	store := memory.New(map[string][][]string{
		"/st/cur.xlsx":   grid(row("x", "1", "A")),
		"/st/good.xlsx":  grid(row("x", "40", "A")),
		"/st/empty.xlsx": grid(),
		"/st/junk.xlsx":  {{"no", "header"}, {"1", "2"}},
	})
	store.Fail("/st/broken.xlsx", errors.New("corrupt"))
	var buf bytes.Buffer
	svc := newComparison(t, store, &buf)

	b := svc.Baseline(context.Background(), core.EmptyStatement("/st/cur.xlsx"))
	assert.Equal(t, 1, b.Statements)
	assert.Equal(t, []string{"/st/good.xlsx"}, b.Sources)
	assert.True(t, b.Total.Equal(decimal.NewFromInt(40)))
	assert.Contains(t, buf.String(), "Skipping sibling statement")
}

func TestBaselineWithoutSiblings(t *testing.T) {
	store := memory.New(map[string][][]string{"/st/only.xlsx": grid(row("x", "1", "A"))})
	var buf bytes.Buffer
	svc := newComparison(t, store, &buf)

	b := svc.Baseline(context.Background(), core.EmptyStatement("/st/only.xlsx"))
	assert.True(t, b.Empty())
	assert.Empty(t, b.Summary)
	assert.True(t, b.Total.IsZero())
}

func TestBaselineListingFailure(t *testing.T) {
	store := memory.New(nil)
	var buf bytes.Buffer
	svc := newComparison(t, store, &buf)

	b := svc.Baseline(context.Background(), core.EmptyStatement("/missing/dir/x.xlsx"))
	assert.True(t, b.Empty())
	assert.True(t, b.Total.IsZero())
	assert.Contains(t, buf.String(), "Cannot list sibling statements")
}

func TestAverage(t *testing.T) {
	b := Average(
		[]core.Summary{
			{{Name: "A", Amount: d("10")}, {Name: "B", Amount: d("5")}},
			{{Name: "B", Amount: d("40")}},
			{{Name: "C", Amount: d("3")}},
		},
		[]decimal.Decimal{d("15"), d("40"), d("5")},
	)
	assert.Equal(t, 3, b.Statements)
	assert.True(t, b.Total.Equal(d("20")))
	assert.Equal(t, []string{"B", "A", "C"}, b.Summary.Names())
	assert.True(t, b.Summary.Get("B").Equal(d("15")))
	assert.True(t, b.Summary.Get("C").Equal(d("1")))

	empty := Average(nil, nil)
	assert.True(t, empty.Empty())
	assert.True(t, empty.Total.IsZero())
}

func TestCompare(t *testing.T) {
	current := core.Summary{{Name: "מזון", Amount: d("300")}, {Name: "דלק", Amount: d("100")}}
	baseline := core.Baseline{
		Summary:    core.Summary{{Name: "ביגוד", Amount: d("50")}, {Name: "מזון", Amount: d("250")}},
		Total:      d("320"),
		Statements: 2,
	}
	rows := Compare(current, d("410"), baseline)
	require.Len(t, rows, 4)

	assert.Equal(t, core.TotalLabel, rows[0].Label)
	assert.True(t, rows[0].Total)
	assert.True(t, rows[0].Current.Equal(d("410")))
	assert.True(t, rows[0].Average.Equal(d("320")))

	assert.Equal(t, []string{"ביגוד", "דלק", "מזון"}, []string{rows[1].Label, rows[2].Label, rows[3].Label})
	assert.True(t, rows[1].Current.IsZero())
	assert.True(t, rows[2].Average.IsZero())
	assert.True(t, rows[3].Average.Equal(d("250")))
}

func TestCompareEmptyBaseline(t *testing.T) {
	rows := Compare(core.Summary{{Name: "A", Amount: d("1")}}, d("1"), core.Baseline{})
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Average.IsZero())
	assert.True(t, rows[1].Average.IsZero())
}
