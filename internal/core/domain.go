package core

import (
	"errors"
	"path"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// Record is one typed statement line.
	Record struct {
		Category string
		Business string // empty when the statement has no business column
		Amount   decimal.Decimal
	}

	// Column identifies a resolved spreadsheet column. Index is -1 when the column was not found.
	Column struct {
		Index int
		Name  string
	}

	// Columns holds the header row position and the resolved roles.
	Columns struct {
		HeaderRow int
		Category  Column
		Business  Column
		Amount    Column
	}

	// Statement is the immutable result of loading one source.
	Statement struct {
		Source      string
		Name        string
		Columns     Columns
		Records     []Record
		DroppedRows int
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyAmount   = errors.New("empty amount")
)

// NoColumn is the "not found" marker.
var NoColumn = Column{Index: -1}

// Found reports whether the column was resolved.
func (c Column) Found() bool {
	return c.Index >= 0
}

// Cell returns the column's value in row, or "" when the row is too short.
func (c Column) Cell(row []string) string {
	if !c.Found() || c.Index >= len(row) {
		return ""
	}
	return row[c.Index]
}

// EmptyStatement returns a statement with no records and no resolved columns.
func EmptyStatement(source string) *Statement {
	return &Statement{
		Source: source,
		Name:   DisplayName(source),
		Columns: Columns{
			Category: NoColumn,
			Business: NoColumn,
			Amount:   NoColumn,
		},
	}
}

// Empty reports whether the statement holds no records. A nil statement is empty.
func (s *Statement) Empty() bool {
	return s == nil || len(s.Records) == 0
}

// HasBusiness reports whether a business column was resolved.
func (s *Statement) HasBusiness() bool {
	return s != nil && s.Columns.Business.Found()
}

// DisplayName returns the last element of a file path or sheet reference.
func DisplayName(ref string) string {
	ref = strings.TrimRight(ref, `/\`)
	if i := strings.LastIndexAny(ref, `/\`); i >= 0 {
		return ref[i+1:]
	}
	return path.Base(ref)
}
