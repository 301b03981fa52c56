package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
	"logvault/src/internal/format"
)

func newFileSink(t *testing.T, dir string) *FileSink {
	t.Helper()
	formatter, err := format.New(config.FormatConfig{Name: "json"}, newTestLogger())
	require.NoError(t, err)

	s, err := NewFile(&config.ArchiveConfig{
		Backend:   config.ArchiveBackendFile,
		Directory: dir,
		Name:      "archive-test",
	}, newTestLogger(), formatter)
	require.NoError(t, err)
	return s
}

// archiveLines reads every file the writer produced in dir and returns the
// non-empty lines.
func archiveLines(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var lines []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func TestFileSinkArchivesRecords(t *testing.T) {
	dir := t.TempDir()
	s := newFileSink(t, dir)

	ev := core.Event{
		Time:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Level:    core.LevelWarn,
		Category: core.CategoryAuth,
		Message:  "token expiring",
		Fields:   json.RawMessage(`{"user":"u-7"}`),
	}
	require.NoError(t, s.Write(context.Background(), ev))

	stats := s.Stats()
	assert.Equal(t, "file", stats.Type)
	assert.Equal(t, uint64(1), stats.TotalWritten)
	assert.Equal(t, uint64(0), stats.TotalFailed)
	assert.False(t, stats.LastWrite.IsZero())

	// Shutdown flushes the writer to disk.
	require.NoError(t, s.Close())

	lines := archiveLines(t, dir)
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "2025-06-01T12:00:00Z", record["timestamp"])
	assert.Equal(t, "warn", record["level"])
	assert.Equal(t, "auth", record["category"])
	assert.Equal(t, "token expiring", record["message"])

	data, ok := record["data"].(map[string]any)
	require.True(t, ok, "data should be an embedded object")
	assert.Equal(t, "u-7", data["user"])
}

func TestFileSinkSequentialRecords(t *testing.T) {
	dir := t.TempDir()
	s := newFileSink(t, dir)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Write(ctx, event(core.LevelInfo, "archived")))
	}
	require.NoError(t, s.Close())

	assert.Equal(t, uint64(3), s.Stats().TotalWritten)
	assert.Len(t, archiveLines(t, dir), 3)
}
