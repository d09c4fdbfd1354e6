package statement

import (
	"strings"

	"creditlens/internal/core"
)

// Column roles.
const (
	RoleBusiness = "business"
	RoleAmount   = "amount"
	RoleCategory = "category"
)

// Ambiguity records a role that more than one column could fill.
type Ambiguity struct {
	Role       string
	Chosen     core.Column
	Candidates []core.Column
}

// ResolveColumn returns the first column, left to right, whose normalized
// title contains any alias. It returns core.NoColumn when nothing matches.
func ResolveColumn(header []string, aliases []string) core.Column {
	if c := Candidates(header, aliases); len(c) > 0 {
		return c[0]
	}
	return core.NoColumn
}

// Candidates returns every column whose normalized title contains any alias,
// in column order.
func Candidates(header []string, aliases []string) []core.Column {
	var out []core.Column
	for i, title := range header {
		name := NormalizeCell(title)
		if name == "" {
			continue
		}
		for _, alias := range aliases {
			if strings.Contains(name, alias) {
				out = append(out, core.Column{Index: i, Name: name})
				break
			}
		}
	}
	return out
}

// ResolveColumns resolves every role against the header row and reports the
// roles that matched more than one column. The first match is always used.
func ResolveColumns(header []string, headerRow int) (core.Columns, []Ambiguity) {
	cols := core.Columns{HeaderRow: headerRow}
	var ambiguous []Ambiguity

	resolve := func(role string, aliases []string) core.Column {
		c := Candidates(header, aliases)
		if len(c) == 0 {
			return core.NoColumn
		}
		if len(c) > 1 {
			ambiguous = append(ambiguous, Ambiguity{Role: role, Chosen: c[0], Candidates: c})
		}
		return c[0]
	}

	cols.Business = resolve(RoleBusiness, BusinessAliases)
	cols.Amount = resolve(RoleAmount, AmountAliases)
	cols.Category = resolve(RoleCategory, CategoryAliases)
	return cols, ambiguous
}
