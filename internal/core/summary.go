package core

import "github.com/shopspring/decimal"

// TotalLabel labels synthetic totals rows.
const TotalLabel = `סה"כ`

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is ordered by descending amount.
type Summary []CategoryAmount

// Get returns the amount for name, or zero when absent.
func (s Summary) Get(name string) decimal.Decimal {
	for _, c := range s {
		if c.Name == name {
			return c.Amount
		}
	}
	return decimal.Zero
}

// Has reports whether name is present.
func (s Summary) Has(name string) bool {
	for _, c := range s {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Names returns category names in summary order.
func (s Summary) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Sum adds every category amount.
func (s Summary) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s {
		total = total.Add(c.Amount)
	}
	return total
}

// Baseline is the per-category and total mean over sibling statements.
type Baseline struct {
	Summary    Summary
	Total      decimal.Decimal
	Statements int // N, statements that contributed to the mean
	Sources    []string
}

// Empty reports whether no sibling contributed.
func (b Baseline) Empty() bool {
	return b.Statements == 0
}

// DetailRow is one line of a category drill-down. The last row of a non-empty
// detail set has Total set and carries the sum of the rows above it.
type DetailRow struct {
	Business string
	Amount   decimal.Decimal
	Total    bool
}

// ComparisonRow pairs the current amount with the baseline mean.
type ComparisonRow struct {
	Label   string
	Current decimal.Decimal
	Average decimal.Decimal
	Total   bool
}
