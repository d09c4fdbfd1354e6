package local

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"creditlens/internal/sheets"
)

const (
	formatXLSX = "xlsx"
	formatXLS  = "xls"
	formatCSV  = "csv"

	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeCSV  = "text/csv"
	mimeZip  = "application/zip"
	mimeOLE  = "application/x-ole-storage"
	mimeText = "text/plain"
)

// extensionFormats maps an extension to its format and the generic container
// the content has to belong to for the extension to be believed.
var extensionFormats = map[string]struct {
	format    string
	container string
}{
	".xlsx": {formatXLSX, mimeZip},
	".xlsm": {formatXLSX, mimeZip},
	".xls":  {formatXLS, mimeOLE},
	".csv":  {formatCSV, mimeText},
	".txt":  {formatCSV, mimeText},
}

func detectFormat(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect format of %s: %w", path, err)
	}
	switch {
	case m.Is(mimeXLSX):
		return formatXLSX, nil
	case m.Is(mimeXLS):
		return formatXLS, nil
	case m.Is(mimeCSV):
		return formatCSV, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok && descendsFrom(m, f.container) {
		return f.format, nil
	}
	return "", fmt.Errorf("%w: %s (%s)", sheets.ErrUnsupportedFormat, filepath.Base(path), m.String())
}

func descendsFrom(m *mimetype.MIME, mime string) bool {
	for p := m; p != nil; p = p.Parent() {
		if p.Is(mime) {
			return true
		}
	}
	return false
}
