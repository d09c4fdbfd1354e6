package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestColumnCell(t *testing.T) {
	row := []string{"a", "b"}
	if got := (Column{Index: 1}).Cell(row); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := (Column{Index: 5}).Cell(row); got != "" {
		t.Fatalf("expected empty for short row, got %q", got)
	}
	if got := NoColumn.Cell(row); got != "" {
		t.Fatalf("expected empty for missing column, got %q", got)
	}
}

func TestStatementEmpty(t *testing.T) {
	var nilStatement *Statement
	if !nilStatement.Empty() {
		t.Fatal("nil statement should be empty")
	}
	st := EmptyStatement("/tmp/march.xlsx")
	if !st.Empty() || st.HasBusiness() {
		t.Fatal("fresh statement should be empty without business column")
	}
	if st.Name != "march.xlsx" {
		t.Fatalf("unexpected name %q", st.Name)
	}
	st.Records = append(st.Records, Record{Category: "a", Amount: decimal.NewFromInt(1)})
	if st.Empty() {
		t.Fatal("statement with records should not be empty")
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"/data/2024/03.xlsx":      "03.xlsx",
		`C:\statements\april.xls`: "april.xls",
		"gsheet://abc123/מרץ":     "מרץ",
		"plain.csv":               "plain.csv",
		"/dir/trailing/":          "trailing",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestSummaryAccessors(t *testing.T) {
	s := Summary{
		{Name: "food", Amount: decimal.NewFromInt(30)},
		{Name: "fuel", Amount: decimal.NewFromInt(12)},
	}
	if !s.Get("food").Equal(decimal.NewFromInt(30)) {
		t.Fatal("wrong amount for food")
	}
	if !s.Get("missing").IsZero() || s.Has("missing") {
		t.Fatal("missing category should be zero")
	}
	if !s.Sum().Equal(decimal.NewFromInt(42)) {
		t.Fatalf("unexpected sum %s", s.Sum())
	}
	if names := s.Names(); len(names) != 2 || names[0] != "food" {
		t.Fatalf("unexpected names %v", names)
	}
	if !(Baseline{}).Empty() {
		t.Fatal("zero baseline should be empty")
	}
}
