package backend

import (
	"context"
	"fmt"

	"creditlens/internal/log"
	"creditlens/internal/sheets"
	gsheet "creditlens/internal/sheets/google"
	"creditlens/internal/sheets/local"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	google Connector
}

// Option customizes a DefaultFactory.
type Option func(*DefaultFactory)

// WithConnector replaces the Google Sheets connector.
func WithConnector(c Connector) Option {
	return func(f *DefaultFactory) { f.google = c }
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger, opts ...Option) *DefaultFactory {
	if logger == nil {
		logger = log.Discard()
	}
	f := &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
		google: func(ctx context.Context) (sheets.Source, error) {
			return gsheet.NewFromEnv(ctx)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, ref string) (sheets.Source, error) {
	switch t := TypeOf(ref); t {
	case SheetsBackend:
		if _, _, err := gsheet.ParseRef(ref); err != nil {
			return nil, err
		}
		src, err := f.google(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets backend", log.FieldSource, ref)
		return src, nil
	case LocalBackend:
		f.logger.Debug("Initialized local file backend", log.FieldSource, ref)
		return local.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}

var _ Factory = (*DefaultFactory)(nil)
