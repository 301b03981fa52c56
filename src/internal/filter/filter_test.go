package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/src/internal/config"
	"logvault/src/internal/core"

	"github.com/lixenwraith/log"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func event(level core.Level, category core.Category, msg string) core.Event {
	return core.Event{Time: time.Now(), Level: level, Category: category, Message: msg}
}

func TestFilterInclude(t *testing.T) {
	f, err := New(config.FilterConfig{
		Type:     config.FilterTypeInclude,
		Patterns: []string{`timeout`, `refused`},
	}, newTestLogger())
	require.NoError(t, err)

	assert.True(t, f.Apply(event(core.LevelInfo, "db", "connection refused")))
	assert.True(t, f.Apply(event(core.LevelInfo, "db", "read timeout after 5s")))
	assert.False(t, f.Apply(event(core.LevelInfo, "db", "connection established")))
}

func TestFilterExclude(t *testing.T) {
	f, err := New(config.FilterConfig{
		Type:     config.FilterTypeExclude,
		Patterns: []string{`^health `},
	}, newTestLogger())
	require.NoError(t, err)

	assert.False(t, f.Apply(event(core.LevelDebug, "health", "check ok")),
		"category is part of the matched text")
	assert.True(t, f.Apply(event(core.LevelDebug, "auth", "login ok")))
}

func TestFilterAndLogic(t *testing.T) {
	f, err := New(config.FilterConfig{
		Type:     config.FilterTypeInclude,
		Logic:    config.FilterLogicAnd,
		Patterns: []string{`auth`, `failed`},
	}, newTestLogger())
	require.NoError(t, err)

	assert.True(t, f.Apply(event(core.LevelWarn, "auth", "login failed")))
	assert.False(t, f.Apply(event(core.LevelWarn, "auth", "login ok")))
	assert.False(t, f.Apply(event(core.LevelWarn, "db", "query failed")))
}

func TestFilterMinLevel(t *testing.T) {
	f, err := New(config.FilterConfig{MinLevel: "warn"}, newTestLogger())
	require.NoError(t, err)

	assert.False(t, f.Apply(event(core.LevelTrace, "x", "m")))
	assert.False(t, f.Apply(event(core.LevelInfo, "x", "m")))
	assert.True(t, f.Apply(event(core.LevelWarn, "x", "m")))
	assert.True(t, f.Apply(event(core.LevelError, "x", "m")))
}

func TestFilterNoPatternsPassesAll(t *testing.T) {
	f, err := New(config.FilterConfig{}, newTestLogger())
	require.NoError(t, err)

	assert.True(t, f.Apply(event(core.LevelTrace, "x", "anything")))
}

func TestFilterInvalidPattern(t *testing.T) {
	_, err := New(config.FilterConfig{Patterns: []string{`(`}}, newTestLogger())
	assert.Error(t, err)
}

func TestFilterInvalidLevel(t *testing.T) {
	_, err := New(config.FilterConfig{MinLevel: "shout"}, newTestLogger())
	assert.Error(t, err)
}

func TestFilterStats(t *testing.T) {
	f, err := New(config.FilterConfig{
		Type:     config.FilterTypeInclude,
		Patterns: []string{`keep`},
	}, newTestLogger())
	require.NoError(t, err)

	f.Apply(event(core.LevelInfo, "x", "keep this"))
	f.Apply(event(core.LevelInfo, "x", "drop this"))

	processed, matched, dropped := f.Stats()
	assert.Equal(t, uint64(2), processed)
	assert.Equal(t, uint64(1), matched)
	assert.Equal(t, uint64(1), dropped)
}
