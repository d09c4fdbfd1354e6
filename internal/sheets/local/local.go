// Package local reads statement workbooks from the filesystem.
//
// Supported formats are Office Open XML workbooks (.xlsx, .xlsm), legacy BIFF
// workbooks (.xls) and comma separated text (.csv). The format is sniffed from
// the file content and the extension is only trusted for generic containers.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"creditlens/internal/sheets"
)

const lockFilePrefix = "~$"

// Store is a filesystem statement source.
type Store struct{}

var _ sheets.Source = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// ReadGrid returns the first sheet of the workbook at ref.
func (s *Store) ReadGrid(ctx context.Context, ref string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sheets.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("stat %s: %w", ref, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", sheets.ErrUnsupportedFormat, ref)
	}

	format, err := detectFormat(ref)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatXLSX:
		return readXLSX(ref)
	case formatXLS:
		return readXLS(ref)
	case formatCSV:
		return readCSV(ref)
	}
	return nil, fmt.Errorf("%w: %s", sheets.ErrUnsupportedFormat, ref)
}

// ListSiblings returns files in ref's directory with the same extension
// (case-insensitive), excluding ref, directories and Office lock files.
// Results are sorted by file name.
func (s *Store) ListSiblings(ctx context.Context, ref string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := filepath.Dir(ref)
	base := filepath.Base(ref)
	ext := filepath.Ext(ref)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sheets.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == base || strings.HasPrefix(name, lockFilePrefix) {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}
