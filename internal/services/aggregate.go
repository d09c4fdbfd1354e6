package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"creditlens/internal/core"
)

// Summarize sums amounts per category, largest first. Records without a
// category are left out. Equal amounts keep first-appearance order.
func Summarize(st *core.Statement) core.Summary {
	if st.Empty() {
		return core.Summary{}
	}
	index := map[string]int{}
	out := core.Summary{}
	for _, r := range st.Records {
		if r.Category == "" {
			continue
		}
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, core.CategoryAmount{Name: r.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(r.Amount)
	}
	sortSummary(out)
	return out
}

// TotalAmount sums every record, including those without a category.
func TotalAmount(st *core.Statement) decimal.Decimal {
	total := decimal.Zero
	if st == nil {
		return total
	}
	for _, r := range st.Records {
		total = total.Add(r.Amount)
	}
	return total
}

// Details returns the records of one category, largest first, followed by a
// totals row. An unknown category yields an empty slice without totals row.
func Details(st *core.Statement, category string) []core.DetailRow {
	if st.Empty() || category == "" {
		return []core.DetailRow{}
	}
	rows := []core.DetailRow{}
	total := decimal.Zero
	for _, r := range st.Records {
		if r.Category != category {
			continue
		}
		rows = append(rows, core.DetailRow{Business: r.Business, Amount: r.Amount})
		total = total.Add(r.Amount)
	}
	if len(rows) == 0 {
		return rows
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.GreaterThan(rows[j].Amount)
	})

	label := ""
	if st.HasBusiness() {
		label = core.TotalLabel
	}
	return append(rows, core.DetailRow{Business: label, Amount: total, Total: true})
}

func sortSummary(s core.Summary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Amount.GreaterThan(s[j].Amount)
	})
}
