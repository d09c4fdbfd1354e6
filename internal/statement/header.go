package statement

import "strings"

// Known column titles of the supported statement layout.
const (
	TransactionDateKey = "תאריך עסקה"
	BusinessNameKey    = "שם בית העסק"
	ChargeAmountKey    = "סכום חיוב"
	CategoryKey        = "ענף"
)

const (
	// DefaultScanRows is how many leading rows are searched for the header.
	DefaultScanRows = 10
	// minHeaderMatches is how many known titles a row needs to be the header.
	minHeaderMatches = 2
)

var (
	// HeaderKeys are the substrings that identify the header row.
	HeaderKeys = []string{TransactionDateKey, BusinessNameKey, ChargeAmountKey, CategoryKey}

	// BusinessAliases are tried in order against each column, left to right.
	BusinessAliases = []string{BusinessNameKey, "שם בית", "שם עסק", "תיאור עסקה", "שם"}
	AmountAliases   = []string{ChargeAmountKey}
	CategoryAliases = []string{CategoryKey}
)

// DetectHeader returns the index of the first row among the first scanRows
// rows that contains at least two of HeaderKeys. It returns 0 when no row
// qualifies. A non-positive scanRows means DefaultScanRows.
func DetectHeader(grid [][]string, scanRows int) int {
	if scanRows <= 0 {
		scanRows = DefaultScanRows
	}
	for i := 0; i < len(grid) && i < scanRows; i++ {
		if headerMatches(grid[i]) >= minHeaderMatches {
			return i
		}
	}
	return 0
}

func headerMatches(row []string) int {
	cells := normalizeRow(row)
	n := 0
	for _, key := range HeaderKeys {
		for _, c := range cells {
			if strings.Contains(c, key) {
				n++
				break
			}
		}
	}
	return n
}
