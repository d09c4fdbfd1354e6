package statement

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditlens/internal/core"
	"creditlens/internal/log"
	"creditlens/internal/metrics"
	"creditlens/internal/sheets"
	"creditlens/internal/sheets/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleGrid() [][]string {
	return [][]string{
		{"כרטיס ויזה 1234"},
		{},
		{"תאריך עסקה", "שם בית העסק", "סכום עסקה", "סכום חיוב", "ענף"},
		{"01/03/2024", "שופרסל דיל", "120.50", "120.50", "מזון"},
		{"02/03/2024", "פז  יקנעם", "80", "₪ 80.00", "דלק"},
		{"03/03/2024", "ביטול", "", "", "שונות"},
		{"04/03/2024", "רמי לוי", "1,050.25", "1,050.25", "מזון"},
		{},
		{"", "", "", "סה\"כ לחיוב", ""},
		{"", "", "", "1,250.75"},
	}
}

func TestParse(t *testing.T) {
	st, ambiguous := Parse("/st/03.xlsx", sampleGrid(), 0)
	assert.Empty(t, ambiguous)

	assert.Equal(t, "03.xlsx", st.Name)
	assert.Equal(t, 2, st.Columns.HeaderRow)
	assert.True(t, st.HasBusiness())
	require.Len(t, st.Records, 4)

	assert.Equal(t, core.Record{Category: "מזון", Business: "שופרסל דיל", Amount: st.Records[0].Amount}, st.Records[0])
	assert.True(t, st.Records[0].Amount.Equal(dec("120.50")))
	assert.Equal(t, "פז יקנעם", st.Records[1].Business)
	assert.True(t, st.Records[1].Amount.Equal(dec("80")))
	assert.True(t, st.Records[2].Amount.Equal(dec("1050.25")))

	// The footer total parses as a number and has no category.
	assert.Equal(t, "", st.Records[3].Category)
	// Missing amount and the footer label row are dropped.
	assert.Equal(t, 2, st.DroppedRows)
}

func TestParseNonNumericAmountsExcluded(t *testing.T) {
	grid := [][]string{
		{"ענף", "סכום חיוב"},
		{"a", "10"},
		{"b", "n/a"},
		{"c", "-"},
		{"d", "2.5"},
	}
	st, _ := Parse("x.csv", grid, 0)
	require.Len(t, st.Records, 2)
	assert.Equal(t, "a", st.Records[0].Category)
	assert.Equal(t, "d", st.Records[1].Category)
	assert.Equal(t, 2, st.DroppedRows)
}

func TestParseHugeExponentDropped(t *testing.T) {
	grid := [][]string{
		{"ענף", "סכום חיוב"},
		{"A", "10"},
		{"A", "1e900000000"},
	}
	st, _ := Parse("x.csv", grid, 0)
	require.Len(t, st.Records, 1)
	assert.Equal(t, 1, st.DroppedRows)
	assert.True(t, st.Records[0].Amount.Equal(dec("10")))
}

func TestParseWithoutAmountColumn(t *testing.T) {
	grid := [][]string{
		{"תאריך עסקה", "ענף", "סכום"},
		{"01/01", "מזון", "10"},
	}
	st, _ := Parse("x.csv", grid, 0)
	assert.True(t, st.Empty())
	assert.False(t, st.Columns.Amount.Found())
	assert.Equal(t, 1, st.Columns.Category.Index)
}

func TestParseWithoutBusinessColumn(t *testing.T) {
	grid := [][]string{
		{"ענף", "סכום חיוב"},
		{"מזון", "10"},
	}
	st, _ := Parse("x.csv", grid, 0)
	require.Len(t, st.Records, 1)
	assert.False(t, st.HasBusiness())
	assert.Equal(t, "", st.Records[0].Business)
}

func TestParseShortRows(t *testing.T) {
	grid := [][]string{
		{"שם בית העסק", "ענף", "סכום חיוב"},
		{"only business"},
		{"x", "מזון", "5"},
	}
	st, _ := Parse("x.csv", grid, 0)
	require.Len(t, st.Records, 1)
	assert.Equal(t, 1, st.DroppedRows)
}

func TestParseEmptyGrid(t *testing.T) {
	st, _ := Parse("x.csv", nil, 0)
	assert.True(t, st.Empty())
	assert.Equal(t, core.NoColumn, st.Columns.Amount)
}

func newTestLoader(t *testing.T, src sheets.GridReader, buf *bytes.Buffer) (*Loader, *metrics.Recorder) {
	t.Helper()
	m := metrics.New()
	logger := log.New(log.Config{Handler: log.NewHandler(buf, slog.LevelDebug)})
	return NewLoader(src, WithLogger(logger), WithMetrics(m), WithScanRows(10)), m
}

func TestLoaderLoad(t *testing.T) {
	var buf bytes.Buffer
	store := memory.New(map[string][][]string{"/st/03.xlsx": sampleGrid()})
	ld, _ := newTestLoader(t, store, &buf)

	st, err := ld.Load(context.Background(), "/st/03.xlsx")
	require.NoError(t, err)
	assert.Len(t, st.Records, 4)
	assert.Contains(t, buf.String(), "Statement loaded")
}

func TestLoaderReadFailureYieldsEmptyStatement(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("corrupt workbook")
	store := memory.New(nil)
	store.Fail("/st/bad.xlsx", boom)
	ld, _ := newTestLoader(t, store, &buf)

	st, err := ld.Load(context.Background(), "/st/bad.xlsx")
	require.Error(t, err)
	assert.True(t, st.Empty())
	assert.Equal(t, "/st/bad.xlsx", st.Source)

	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "/st/bad.xlsx", lerr.Ref)
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.Contains(buf.String(), "Failed to load statement"))

	_, err = ld.LoadSibling(context.Background(), "/st/missing.xlsx")
	assert.ErrorIs(t, err, sheets.ErrNotFound)
}

func TestLoaderWarnsOnAmbiguityAndMissingColumns(t *testing.T) {
	var buf bytes.Buffer
	store := memory.New(map[string][][]string{
		"/st/a.csv": {
			{"שם בית העסק", "סכום חיוב", "סכום חיוב מקורי"},
			{"x", "1", "1"},
		},
	})
	ld, _ := newTestLoader(t, store, &buf)

	st, err := ld.Load(context.Background(), "/st/a.csv")
	require.NoError(t, err)
	assert.Len(t, st.Records, 1)
	out := buf.String()
	assert.Contains(t, out, "Several columns match")
	assert.Contains(t, out, "Category column not found")
}
