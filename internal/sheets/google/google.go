// Package google reads statements stored as tabs of a Google spreadsheet.
//
// A statement reference has the form gsheet://<spreadsheet-id>/<tab title>.
// The other tabs of the same spreadsheet are its siblings.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	ports "creditlens/internal/sheets"
)

// Scheme prefixes Google Sheets statement references.
const Scheme = "gsheet://"

var ErrInvalidRef = errors.New("invalid sheet reference")

type Client struct {
	svc *gsheet.Service
}

// Ensure interface conformance
var _ ports.Source = (*Client)(nil)

// NewFromEnv creates a read-only Sheets client from service account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewWithService wraps an existing service, e.g. one pointed at a test endpoint.
func NewWithService(svc *gsheet.Service) *Client {
	return &Client{svc: svc}
}

// IsRef reports whether ref addresses a Google spreadsheet tab.
func IsRef(ref string) bool {
	return strings.HasPrefix(ref, Scheme)
}

// Ref builds a statement reference for a spreadsheet tab.
func Ref(spreadsheetID, tab string) string {
	return Scheme + spreadsheetID + "/" + tab
}

// ParseRef splits a reference into spreadsheet id and tab title.
func ParseRef(ref string) (spreadsheetID, tab string, err error) {
	rest, ok := strings.CutPrefix(ref, Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q lacks %s prefix", ErrInvalidRef, ref, Scheme)
	}
	spreadsheetID, tab, ok = strings.Cut(rest, "/")
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if !ok || spreadsheetID == "" || strings.TrimSpace(tab) == "" {
		return "", "", fmt.Errorf("%w: %q, want %s<spreadsheet-id>/<tab>", ErrInvalidRef, ref, Scheme)
	}
	return spreadsheetID, tab, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ReadGrid returns the unformatted values of the referenced tab.
func (c *Client) ReadGrid(ctx context.Context, ref string) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	id, tab, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(id, quoteSheetName(tab)).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, classify(fmt.Errorf("read %s: %w", ref, err), ref)
	}
	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		grid[i] = toStrings(row)
	}
	return grid, nil
}

// ListSiblings returns the other tabs of the spreadsheet in workbook order.
func (c *Client) ListSiblings(ctx context.Context, ref string) ([]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	id, tab, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	ss, err := c.svc.Spreadsheets.Get(id).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, classify(fmt.Errorf("list tabs of %s: %w", id, err), id)
	}
	var out []string
	for _, sh := range ss.Sheets {
		if sh == nil || sh.Properties == nil || sh.Properties.Title == tab {
			continue
		}
		out = append(out, Ref(id, sh.Properties.Title))
	}
	return out, nil
}

func classify(err error, ref string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s: %w", ports.ErrNotFound, ref, err)
	}
	return err
}
