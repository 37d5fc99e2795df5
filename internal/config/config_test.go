package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {

	t.Run("all fields", func(t *testing.T) {
		config, err := Parse([]byte(`
include: ["views/**/*.edge", "emails/*.edge"]
exclude: ["views/vendor/**"]
format: json
timeout: 250ms
noCheckFuel: 5
maxNodes: 10000
lintRawBlocks: true
logLevel: debug
watchDebounce: 50ms
cacheSize: 16
`))
		require.NoError(t, err)

		assert.EqualValues(t, &Config{
			Include:       []string{"views/**/*.edge", "emails/*.edge"},
			Exclude:       []string{"views/vendor/**"},
			Format:        "json",
			Timeout:       Duration(250 * time.Millisecond),
			NoCheckFuel:   5,
			MaxNodes:      10000,
			LintRawBlocks: true,
			LogLevel:      "debug",
			WatchDebounce: Duration(50 * time.Millisecond),
			CacheSize:     16,
		}, config)
	})

	t.Run("absent fields keep their default value", func(t *testing.T) {
		config, err := Parse([]byte("lintRawBlocks: true\n"))
		require.NoError(t, err)

		expected := Default()
		expected.LintRawBlocks = true
		assert.Equal(t, expected, config)
	})

	t.Run("empty file", func(t *testing.T) {
		config, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), config)
	})

	t.Run("errors", func(t *testing.T) {
		testCases := []struct {
			name    string
			content string
		}{
			{"unknown field", "formatt: json"},
			{"unknown format", "format: xml"},
			{"invalid pattern", "include: ['[a']"},
			{"empty include list", "include: []"},
			{"invalid log level", "logLevel: verbose"},
			{"invalid duration", "timeout: soon"},
			{"negative fuel", "noCheckFuel: -1"},
			{"negative node budget", "maxNodes: -1"},
		}

		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				config, err := Parse([]byte(testCase.content))
				assert.Nil(t, config)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			})
		}
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()
	defer xdg.Reload()

	t.Run("file in directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, CONFIG_FILE_NAME)
		require.NoError(t, os.WriteFile(path, []byte("format: yaml\n"), 0o600))

		config, err := Load("", dir)
		require.NoError(t, err)
		assert.Equal(t, "yaml", config.Format)
		assert.Equal(t, path, config.Path)
	})

	t.Run("XDG config file", func(t *testing.T) {
		path, err := xdg.ConfigFile(XDG_CONFIG_RELPATH)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("format: sexpr\n"), 0o600))
		defer os.Remove(path)

		config, err := Load("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "sexpr", config.Format)
		assert.Equal(t, path, config.Path)
	})

	t.Run("no file", func(t *testing.T) {
		config, err := Load("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default(), config)
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("maxNodes: 3\n"), 0o600))

		config, err := Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, 3, config.MaxNodes)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("the error mentions the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: xml\n"), 0o600))

		_, err := Load(path, "")
		if assert.ErrorIs(t, err, ErrInvalidConfig) {
			assert.Contains(t, err.Error(), path)
		}
	})
}

func TestConfigParserOptions(t *testing.T) {
	config := Default()
	config.Timeout = Duration(-1)
	config.NoCheckFuel = 3
	config.MaxNodes = 7

	ctx := context.Background()
	opts := config.ParserOptions(ctx)

	assert.Equal(t, ctx, opts.Context)
	assert.Equal(t, time.Duration(-1), opts.Timeout)
	assert.Equal(t, 3, opts.NoCheckFuel)
	assert.Equal(t, 7, opts.MaxNodes)
}

func TestConfigLevel(t *testing.T) {
	config := Default()
	assert.Equal(t, zerolog.InfoLevel, config.Level())

	config.LogLevel = "warn"
	assert.Equal(t, zerolog.WarnLevel, config.Level())

	config.LogLevel = ""
	assert.Equal(t, zerolog.InfoLevel, config.Level())
}

func TestColorSettings(t *testing.T) {
	lookup := func(env map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}
	}

	testCases := []struct {
		name     string
		env      map[string]string
		colorize bool
		profile  termenv.Profile
	}{
		{"empty environment", map[string]string{}, false, termenv.Ascii},
		{"256 colors", map[string]string{"TERM": "xterm-256color"}, true, termenv.ANSI256},
		{"true color", map[string]string{"COLORTERM": "truecolor", "TERM": "xterm-256color"}, true, termenv.TrueColor},
		{"forced", map[string]string{"FORCE_COLOR": "1"}, true, termenv.ANSI},
		{"forced with false", map[string]string{"FORCE_COLOR": "false"}, false, termenv.Ascii},
		{"NO_COLOR wins", map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1", "COLORTERM": "truecolor"}, false, termenv.Ascii},
		{"empty NO_COLOR", map[string]string{"NO_COLOR": "", "TERM": "xterm-256color"}, true, termenv.ANSI256},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			settings := ColorSettingsFromLookup(lookup(testCase.env))
			assert.Equal(t, testCase.colorize, settings.ShouldColorize())
			assert.Equal(t, testCase.profile, settings.Profile())
		})
	}
}
