package local

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"creditlens/internal/sheets"
)

// readXLSX returns the raw cell values of the first worksheet. Raw values keep
// the full precision of amounts that a number format would round.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", sheets.ErrNoSheets, path)
	}
	rows, err := f.GetRows(names[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", names[0], path, err)
	}
	return rows, nil
}
