package sheets

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("statement not found")
	ErrUnsupportedFormat = errors.New("unsupported statement format")
	ErrNoSheets          = errors.New("workbook has no sheets")
)

// Ports for inbound statement sources.
type (
	// GridReader returns the first sheet of a statement as rows of cell text.
	// Rows may have different lengths; trailing empty cells are not guaranteed.
	GridReader interface {
		ReadGrid(ctx context.Context, ref string) ([][]string, error)
	}

	// SiblingLister returns the references of statements stored alongside ref,
	// excluding ref itself, in a stable order.
	SiblingLister interface {
		ListSiblings(ctx context.Context, ref string) ([]string, error)
	}

	// Source is a statement store that can both read and enumerate.
	Source interface {
		GridReader
		SiblingLister
	}
)
