package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
)

func TestJSONFormatter_Format(t *testing.T) {
	logger := newTestLogger()
	testTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := core.Event{
		Time:     testTime,
		Level:    core.LevelInfo,
		Category: core.CategoryAuth,
		Message:  "login accepted",
	}

	t.Run("BasicFormatting", func(t *testing.T) {
		formatter := NewJSONFormatter(config.FormatConfig{}, logger)

		output, err := formatter.Format(entry)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(output, &result)
		require.NoError(t, err, "Output should be valid JSON")

		assert.Equal(t, testTime.Format(time.RFC3339Nano), result["timestamp"])
		assert.Equal(t, "info", result["level"])
		assert.Equal(t, "auth", result["category"])
		assert.Equal(t, "login accepted", result["message"])
		_, hasData := result["data"]
		assert.False(t, hasData, "data should be absent without structured fields")
		assert.True(t, strings.HasSuffix(string(output), "\n"), "Output should end with a newline")
	})

	t.Run("StructuredFields", func(t *testing.T) {
		withFields := entry
		withFields.Fields = json.RawMessage(`{"user":"u-42","mfa":true}`)
		formatter := NewJSONFormatter(config.FormatConfig{}, logger)

		output, err := formatter.Format(withFields)
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(output, &result))

		data, ok := result["data"].(map[string]interface{})
		require.True(t, ok, "data should be an embedded object")
		assert.Equal(t, "u-42", data["user"])
		assert.Equal(t, true, data["mfa"])
	})

	t.Run("LargeIntegerPreserved", func(t *testing.T) {
		withFields := entry
		withFields.Fields = json.RawMessage(`{"sequence":9007199254740993}`)
		formatter := NewJSONFormatter(config.FormatConfig{}, logger)

		output, err := formatter.Format(withFields)
		require.NoError(t, err)

		// Values beyond float64's integer range must survive untouched.
		assert.Contains(t, string(output), "9007199254740993")
	})

	t.Run("PrettyFormatting", func(t *testing.T) {
		formatter := NewJSONFormatter(config.FormatConfig{Pretty: true}, logger)

		output, err := formatter.Format(entry)
		require.NoError(t, err)

		assert.Contains(t, string(output), `  "level": "info"`)
		assert.True(t, strings.HasSuffix(string(output), "\n"))
	})

	t.Run("CorruptFields", func(t *testing.T) {
		corrupt := entry
		corrupt.Fields = json.RawMessage(`{"user":`)
		formatter := NewJSONFormatter(config.FormatConfig{}, logger)

		_, err := formatter.Format(corrupt)
		assert.Error(t, err)
	})

	t.Run("TimezoneOffsetPreserved", func(t *testing.T) {
		offset := entry
		offset.Time = time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
		formatter := NewJSONFormatter(config.FormatConfig{}, logger)

		output, err := formatter.Format(offset)
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(output, &result))
		assert.Equal(t, "2025-06-01T12:00:00+01:00", result["timestamp"])
	})
}
