// Package config loads the dbcascade command-line configuration.
//
// Values are layered with koanf. Precedence, highest first: flags,
// DBCASCADE_* environment variables, the config file, defaults.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/dialect"
)

// Default configuration values.
const (
	DefaultConfigFile = "dbcascade.yaml"
	DefaultDialect    = dialect.SQLite
	DefaultLogLevel   = "warn"
	DefaultFormat     = "text"
	EnvPrefix         = "DBCASCADE_"
)

// listKeys are the config keys holding lists.
var listKeys = map[string]bool{"schemas": true, "silence": true}

// Formats lists the supported diagnostic output formats.
var Formats = []string{"text", "json", "yaml"}

// Config holds the CLI configuration.
type Config struct {
	// Schemas are the schema files used when no file arguments are given.
	Schemas  []string `koanf:"schemas"`
	Dialect  string   `koanf:"dialect"`
	DSN      string   `koanf:"dsn"`
	Silence  []string `koanf:"silence"`
	LogLevel string   `koanf:"log_level"`
	Format   string   `koanf:"format"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Level returns the configured slog level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, dbcascade.NewConfigError("log_level", c.LogLevel, err.Error())
	}
	return l, nil
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	d, err := dialect.Parse(c.Dialect)
	if err != nil {
		return dbcascade.NewConfigError("dialect", c.Dialect, err.Error())
	}
	c.Dialect = d
	valid := false
	for _, f := range Formats {
		if c.Format == f {
			valid = true
		}
	}
	if !valid {
		return dbcascade.NewConfigError("format", c.Format, fmt.Sprintf("expected one of %s", strings.Join(Formats, ", ")))
	}
	_, err = c.Level()
	return err
}

// Load reads the configuration. An explicit cfgFile must exist; otherwise
// dbcascade.yaml is read from the working directory when present. Only
// flags that were set on the command line override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"dialect":   DefaultDialect,
		"log_level": DefaultLogLevel,
		"format":    DefaultFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: DBCASCADE_LOG_LEVEL -> log_level. List keys take
	// comma-separated values.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type (
	configKey struct{}
	loggerKey struct{}
)

// NewContext returns a context carrying the config and logger.
func NewContext(ctx context.Context, cfg *Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the config stored in ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		Dialect:  DefaultDialect,
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
