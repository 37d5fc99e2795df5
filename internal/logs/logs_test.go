package logs

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildLoggerForSource(t *testing.T) {
	var buf bytes.Buffer
	logger := ChildLoggerForSource(New(&buf, zerolog.DebugLevel, false, false), "check")

	logger.Debug().Str("file", "a.edge").Msg("parsed")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))

	assert.Equal(t, "check", event[SOURCE_LOG_FIELD_NAME])
	assert.Equal(t, "debug", event["lvl"])
	assert.Equal(t, "parsed", event["msg"])
	assert.Equal(t, "a.edge", event["file"])
	assert.Contains(t, event, "tm")
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.WarnLevel, true, false)

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "WRN")
}
