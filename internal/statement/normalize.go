package statement

import "strings"

var cellReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"\t", " ",
	"\u00a0", " ",
	"\u200e", "",
	"\u200f", "",
	"\u202a", "",
	"\u202b", "",
	"\u202c", "",
	"\ufeff", "",
)

// NormalizeCell flattens line breaks and non-breaking spaces, drops bidi
// control marks and collapses whitespace runs.
func NormalizeCell(s string) string {
	return strings.Join(strings.Fields(cellReplacer.Replace(s)), " ")
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = NormalizeCell(c)
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if NormalizeCell(c) != "" {
			return false
		}
	}
	return true
}
