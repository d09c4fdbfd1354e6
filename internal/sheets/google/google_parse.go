package google

import (
	"fmt"
	"strconv"
	"strings"
)

// toStrings converts a row of API values into cell text. Numbers keep full
// precision without exponent notation.
func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = x
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			out[i] = strconv.FormatBool(x)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

// quoteSheetName renders a tab title as an A1 range covering the whole tab.
func quoteSheetName(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}
