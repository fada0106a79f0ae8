// Package source implements the usertable data sources (HTTP endpoint,
// JSON/JSONL file, SQLite database) and Query, the cached single-shot fetch
// the UI layers observe.
package source

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// New creates the DataSource described by cfg.
func New(cfg types.SourceConfig, logger *slog.Logger) (types.DataSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Kind {
	case types.SourceHTTP:
		return NewHTTPSource(cfg.URL,
			WithTimeout(cfg.Timeout),
			WithRetries(cfg.Retries),
			WithLogger(logger),
		), nil
	case types.SourceFile:
		return NewFileSource(cfg.Path, logger), nil
	case types.SourceSQLite:
		return NewSQLiteSource(cfg.Path, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrSourceUnknown, cfg.Kind)
	}
}
