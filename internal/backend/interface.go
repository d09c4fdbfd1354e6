// Package backend picks the grid source that can read a statement reference.
package backend

import (
	"context"

	"creditlens/internal/sheets"
	gsheet "creditlens/internal/sheets/google"
)

// BackendType represents the type of backend
type BackendType string

const (
	LocalBackend  BackendType = "local"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case LocalBackend, SheetsBackend:
		return true
	default:
		return false
	}
}

// TypeOf returns the backend that serves ref.
func TypeOf(ref string) BackendType {
	if gsheet.IsRef(ref) {
		return SheetsBackend
	}
	return LocalBackend
}

// Factory creates the source for a statement reference.
type Factory interface {
	CreateSource(ctx context.Context, ref string) (sheets.Source, error)
}

// Connector opens a Google Sheets source.
type Connector func(ctx context.Context) (sheets.Source, error)
