package types

import (
	"errors"
	"time"
)

// Config holds everything the usertable commands read from config.yaml,
// the environment and flags.
type Config struct {
	Source   SourceConfig `mapstructure:"source" yaml:"source"`
	PageSize int          `mapstructure:"page_size" yaml:"page_size"`
	Log      LogConfig    `mapstructure:"log" yaml:"log"`
}

// SourceConfig selects and parameterizes the DataSource.
type SourceConfig struct {
	Kind    string        `mapstructure:"kind" yaml:"kind"`
	URL     string        `mapstructure:"url" yaml:"url,omitempty"`
	Path    string        `mapstructure:"path" yaml:"path,omitempty"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
	Retries int           `mapstructure:"retries" yaml:"retries"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Supported source kinds.
const (
	SourceHTTP   = "http"
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// Defaults applied when nothing else sets a value.
const (
	DefaultURL      = "https://jsonplaceholder.typicode.com/users"
	DefaultPageSize = 10
	DefaultTimeout  = 10 * time.Second
	DefaultRetries  = 2
)

// Config validation errors.
var (
	ErrSourceEmpty     = errors.New("source kind must not be empty")
	ErrSourceUnknown   = errors.New("unknown source kind")
	ErrURLEmpty        = errors.New("http source requires a url")
	ErrPathEmpty       = errors.New("source requires a path")
	ErrPageSizeInvalid = errors.New("page size must be positive")
	ErrRetriesInvalid  = errors.New("retries must not be negative")
	ErrTimeoutInvalid  = errors.New("timeout must not be negative")
)

// knownSources lists the source kinds that Validate accepts.
var knownSources = map[string]bool{
	SourceHTTP:   true,
	SourceFile:   true,
	SourceSQLite: true,
}

// DefaultConfig returns the configuration used when config.yaml is absent.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Kind:    SourceHTTP,
			URL:     DefaultURL,
			Timeout: DefaultTimeout,
			Retries: DefaultRetries,
		},
		PageSize: DefaultPageSize,
		Log:      LogConfig{Level: "warn", Format: "text"},
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if c.PageSize <= 0 {
		return ErrPageSizeInvalid
	}
	return nil
}

// Validate checks the source section on its own.
func (s SourceConfig) Validate() error {
	if s.Kind == "" {
		return ErrSourceEmpty
	}
	if !knownSources[s.Kind] {
		return ErrSourceUnknown
	}
	switch s.Kind {
	case SourceHTTP:
		if s.URL == "" {
			return ErrURLEmpty
		}
	case SourceFile, SourceSQLite:
		if s.Path == "" {
			return ErrPathEmpty
		}
	}
	if s.Retries < 0 {
		return ErrRetriesInvalid
	}
	if s.Timeout < 0 {
		return ErrTimeoutInvalid
	}
	return nil
}
