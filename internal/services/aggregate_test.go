package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditlens/internal/core"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stmt(hasBusiness bool, records ...core.Record) *core.Statement {
	st := core.EmptyStatement("/st/current.xlsx")
	st.Columns.Amount = core.Column{Index: 1, Name: "סכום חיוב"}
	st.Columns.Category = core.Column{Index: 2, Name: "ענף"}
	if hasBusiness {
		st.Columns.Business = core.Column{Index: 0, Name: "שם בית העסק"}
	}
	st.Records = records
	return st
}

func rec(category, business, amount string) core.Record {
	return core.Record{Category: category, Business: business, Amount: d(amount)}
}

func TestSummarize(t *testing.T) {
	st := stmt(true,
		rec("A", "x", "120"),
		rec("B", "y", "50"),
		rec("A", "z", "80"),
		rec("", "footer", "250"),
	)
	s := Summarize(st)
	require.Len(t, s, 2)
	assert.Equal(t, "A", s[0].Name)
	assert.True(t, s[0].Amount.Equal(d("200")))
	assert.Equal(t, "B", s[1].Name)
	assert.True(t, s[1].Amount.Equal(d("50")))

	// Uncategorized records count toward the total only.
	assert.True(t, TotalAmount(st).Equal(d("500")))
}

func TestSummarizeIsSortedAndStable(t *testing.T) {
	st := stmt(false,
		rec("c", "", "10"),
		rec("a", "", "30"),
		rec("b", "", "10"),
		rec("d", "", "5.5"),
		rec("e", "", "10"),
	)
	s := Summarize(st)
	assert.Equal(t, []string{"a", "c", "b", "e", "d"}, s.Names())
	for i := 1; i < len(s); i++ {
		assert.False(t, s[i].Amount.GreaterThan(s[i-1].Amount))
	}
}

func TestSummarizeSumsMatchRecords(t *testing.T) {
	st := stmt(false,
		rec("a", "", "0.1"),
		rec("a", "", "0.2"),
		rec("b", "", "-3.25"),
		rec("b", "", "1000.75"),
	)
	s := Summarize(st)
	assert.True(t, s.Get("a").Equal(d("0.3")))
	assert.True(t, s.Get("b").Equal(d("997.5")))
	assert.True(t, s.Sum().Equal(TotalAmount(st)))
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
	assert.Empty(t, Summarize(core.EmptyStatement("x")))
	assert.True(t, TotalAmount(nil).IsZero())
}

func TestDetails(t *testing.T) {
	st := stmt(true,
		rec("A", "small", "80"),
		rec("B", "other", "50"),
		rec("A", "big", "120"),
	)
	rows := Details(st, "A")
	require.Len(t, rows, 3)
	assert.Equal(t, "big", rows[0].Business)
	assert.True(t, rows[0].Amount.Equal(d("120")))
	assert.Equal(t, "small", rows[1].Business)
	assert.True(t, rows[2].Total)
	assert.Equal(t, core.TotalLabel, rows[2].Business)
	assert.True(t, rows[2].Amount.Equal(d("200")))

	// Returned rows are copies.
	rows[0].Business = "changed"
	assert.Equal(t, "big", Details(st, "A")[0].Business)
}

func TestDetailsAbsentCategory(t *testing.T) {
	st := stmt(true, rec("A", "x", "1"), rec("", "footer", "1"))
	assert.Empty(t, Details(st, "C"))
	assert.NotNil(t, Details(st, "C"))
	assert.Empty(t, Details(st, ""))
	assert.Empty(t, Details(nil, "A"))
}

func TestDetailsWithoutBusinessColumn(t *testing.T) {
	st := stmt(false, rec("A", "", "5"), rec("A", "", "7"))
	rows := Details(st, "A")
	require.Len(t, rows, 3)
	assert.Equal(t, "", rows[2].Business)
	assert.True(t, rows[2].Total)
	assert.True(t, rows[2].Amount.Equal(d("12")))
}
