package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/usertable/internal/paths"
	"github.com/mesh-intelligence/usertable/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "USERTABLE"

	cfgKeySourceKind    = "source.kind"
	cfgKeySourceURL     = "source.url"
	cfgKeySourcePath    = "source.path"
	cfgKeySourceTimeout = "source.timeout"
	cfgKeySourceRetries = "source.retries"
	cfgKeyPageSize      = "page_size"
	cfgKeyLogLevel      = "log.level"
	cfgKeyLogFormat     = "log.format"
)

// flagKeys maps persistent flags onto config keys. A flag only overrides
// the config when it is set on the command line.
var flagKeys = map[string]string{
	"source":     cfgKeySourceKind,
	"url":        cfgKeySourceURL,
	"file":       cfgKeySourcePath,
	"page-size":  cfgKeyPageSize,
	"log-level":  cfgKeyLogLevel,
	"log-format": cfgKeyLogFormat,
}

// loadConfig reads config.yaml from configDir, then applies USERTABLE_*
// environment variables and the flags in fs. A missing config.yaml is not
// an error.
func loadConfig(configDir string, fs *pflag.FlagSet) (types.Config, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeySourceKind, def.Source.Kind)
	v.SetDefault(cfgKeySourceURL, def.Source.URL)
	v.SetDefault(cfgKeySourcePath, def.Source.Path)
	v.SetDefault(cfgKeySourceTimeout, def.Source.Timeout)
	v.SetDefault(cfgKeySourceRetries, def.Source.Retries)
	v.SetDefault(cfgKeyPageSize, def.PageSize)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogFormat, def.Log.Format)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return types.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		// --file alone selects the file source.
		if f := fs.Lookup("file"); f != nil && f.Changed {
			if s := fs.Lookup("source"); s == nil || !s.Changed {
				v.Set(cfgKeySourceKind, types.SourceFile)
			}
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Source.Kind == types.SourceSQLite {
		path, err := paths.ResolveDatabasePath("", cfg.Source.Path, configDir)
		if err != nil {
			return types.Config{}, err
		}
		cfg.Source.Path = path
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
