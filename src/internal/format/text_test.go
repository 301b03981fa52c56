package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
)

func TestTextFormatter_Format(t *testing.T) {
	logger := newTestLogger()
	testTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("BasicLine", func(t *testing.T) {
		formatter := NewTextFormatter(config.FormatConfig{}, logger)

		output, err := formatter.Format(core.Event{
			Time:     testTime,
			Level:    core.LevelError,
			Category: core.CategoryDB,
			Message:  "connection refused",
		})
		require.NoError(t, err)

		assert.Equal(t, "ERROR [2025-06-01T12:00:00Z] [db]: connection refused\n", string(output))
	})

	t.Run("LevelAlignment", func(t *testing.T) {
		formatter := NewTextFormatter(config.FormatConfig{}, logger)

		info, err := formatter.Format(core.Event{Time: testTime, Level: core.LevelInfo, Category: "x", Message: "m"})
		require.NoError(t, err)
		warn, err := formatter.Format(core.Event{Time: testTime, Level: core.LevelWarn, Category: "x", Message: "m"})
		require.NoError(t, err)

		// Fixed-width tags keep the timestamp column aligned.
		assert.Equal(t, len(info), len(warn))
	})

	t.Run("StructuredFieldsAppended", func(t *testing.T) {
		formatter := NewTextFormatter(config.FormatConfig{}, logger)

		output, err := formatter.Format(core.Event{
			Time:     testTime,
			Level:    core.LevelWarn,
			Category: core.CategoryAuth,
			Message:  "lockout",
			Fields:   json.RawMessage(`{"user":"u-42"}`),
		})
		require.NoError(t, err)

		assert.Contains(t, string(output), `lockout {"user":"u-42"}`)
	})
}
