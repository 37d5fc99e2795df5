package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/edgecst/edgecst/internal/parse"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

const (
	APP_NAME = "edgecst"

	CONFIG_FILE_NAME   = APP_NAME + ".yaml"
	XDG_CONFIG_RELPATH = APP_NAME + "/config.yaml"

	DEFAULT_INCLUDE_PATTERN = "**/*.edge"
	DEFAULT_FORMAT          = "tree"
	DEFAULT_LOG_LEVEL       = "info"
	DEFAULT_WATCH_DEBOUNCE  = 100 * time.Millisecond
	DEFAULT_CACHE_SIZE      = parse.DEFAULT_DOCUMENT_CACHE_SIZE
)

var (
	OUTPUT_FORMATS = []string{"tree", "json", "yaml", "sexpr"}

	ErrInvalidConfig = errors.New("invalid configuration")
)

type Config struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	Format  string   `yaml:"format"`

	Timeout     Duration `yaml:"timeout"` //0 for the parser's default, negative to disable
	NoCheckFuel int      `yaml:"noCheckFuel"`
	MaxNodes    int      `yaml:"maxNodes"`

	LintRawBlocks bool     `yaml:"lintRawBlocks"`
	LogLevel      string   `yaml:"logLevel"`
	WatchDebounce Duration `yaml:"watchDebounce"`
	CacheSize     int      `yaml:"cacheSize"`

	//path of the file the configuration was loaded from, empty for the default configuration.
	Path string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Include:       []string{DEFAULT_INCLUDE_PATTERN},
		Format:        DEFAULT_FORMAT,
		LogLevel:      DEFAULT_LOG_LEVEL,
		WatchDebounce: Duration(DEFAULT_WATCH_DEBOUNCE),
		CacheSize:     DEFAULT_CACHE_SIZE,
	}
}

// Load reads the configuration file at path. If path is empty edgecst.yaml is searched in dir,
// then edgecst/config.yaml in the XDG config directories; the default configuration is returned
// if no file is found. Fields absent from the file keep their default value.
func Load(path string, dir string) (*Config, error) {
	if path == "" {
		path = Find(dir)
		if path == "" {
			return Default(), nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	config.Path = path
	return config, nil
}

// Find returns the path of the configuration file that applies to dir, or an empty string.
func Find(dir string) string {
	path := filepath.Join(dir, CONFIG_FILE_NAME)
	if _, err := os.Stat(path); err == nil {
		return path
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path //reading will report the error.
	}

	path, err := xdg.SearchConfigFile(XDG_CONFIG_RELPATH)
	if err != nil {
		return ""
	}
	return path
}

func Parse(content []byte) (*Config, error) {
	config := Default()

	if err := yaml.UnmarshalWithOptions(content, config, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, yaml.FormatError(err, false, true))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if len(c.Include) == 0 {
		return fmt.Errorf("%w: at least one include pattern is required", ErrInvalidConfig)
	}

	for _, patterns := range [][]string{c.Include, c.Exclude} {
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("%w: invalid pattern %q", ErrInvalidConfig, pattern)
			}
		}
	}

	if err := ValidateFormat(c.Format); err != nil {
		return err
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: invalid log level %q", ErrInvalidConfig, c.LogLevel)
	}

	switch {
	case c.NoCheckFuel < 0:
		return fmt.Errorf("%w: noCheckFuel should be positive", ErrInvalidConfig)
	case c.MaxNodes < 0:
		return fmt.Errorf("%w: maxNodes should be positive", ErrInvalidConfig)
	case c.WatchDebounce < 0:
		return fmt.Errorf("%w: watchDebounce should be positive", ErrInvalidConfig)
	case c.CacheSize < 0:
		return fmt.Errorf("%w: cacheSize should be positive", ErrInvalidConfig)
	}

	return nil
}

func ValidateFormat(format string) error {
	for _, f := range OUTPUT_FORMATS {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown output format %q, expected one of %v", ErrInvalidConfig, format, OUTPUT_FORMATS)
}

// Level returns the configured log level, zerolog.InfoLevel if it is not valid.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

func (c *Config) ParserOptions(ctx context.Context) parse.ParserOptions {
	return parse.ParserOptions{
		Context:     ctx,
		Timeout:     c.Timeout.Duration(),
		NoCheckFuel: c.NoCheckFuel,
		MaxNodes:    c.MaxNodes,
	}
}

// Duration is a time.Duration written as a Go duration string in configuration files ("500ms").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
