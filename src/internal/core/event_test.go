package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	original := Event{
		Time:     time.Date(2025, 6, 1, 8, 30, 0, 123456789, time.FixedZone("CET", 3600)),
		Level:    LevelWarn,
		Category: CategoryAuth,
		Message:  "token refresh failed",
		Fields:   json.RawMessage(`{"user":"u-42","attempt":3}`),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, original.Equal(decoded), "round trip should preserve the record")
	assert.True(t, original.Time.Equal(decoded.Time))
	assert.Equal(t, original.Level, decoded.Level)
	assert.Equal(t, original.Category, decoded.Category)
	assert.Equal(t, original.Message, decoded.Message)
	assert.JSONEq(t, string(original.Fields), string(decoded.Fields))
}

func TestEventWireFields(t *testing.T) {
	ev := Event{
		Time:     time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
		Level:    LevelInfo,
		Category: "billing",
		Message:  "invoice issued",
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "2025-06-01T08:30:00Z", m["timestamp"])
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, "billing", m["category"])
	assert.Equal(t, "invoice issued", m["message"])
	_, hasData := m["data"]
	assert.False(t, hasData, "empty payload should be omitted")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input       string
		expected    Level
		expectError bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"fatal", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := ParseLevel(tc.input)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestLevelJSON(t *testing.T) {
	data, err := json.Marshal(LevelError)
	require.NoError(t, err)
	assert.Equal(t, `"error"`, string(data))

	var level Level
	require.NoError(t, json.Unmarshal([]byte(`"warn"`), &level))
	assert.Equal(t, LevelWarn, level)

	assert.Error(t, json.Unmarshal([]byte(`"verbose"`), &level))
}

func TestCategoryKnown(t *testing.T) {
	assert.True(t, CategoryAuth.Known())
	assert.True(t, CategorySystem.Known())
	assert.False(t, Category("billing").Known())
	assert.False(t, Category("").Known())
}
