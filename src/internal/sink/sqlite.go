package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"logvault/src/internal/config"
	"logvault/src/internal/core"

	"github.com/lixenwraith/log"
)

// SQLiteSink archives events to an append-only SQLite store. Each event is
// one transactional INSERT, so a crash never leaves a partial record.
type SQLiteSink struct {
	db        *sql.DB
	logger    *log.Logger
	startTime time.Time

	// Statistics
	totalWritten atomic.Uint64
	totalFailed  atomic.Uint64
	lastWrite    atomic.Value // time.Time
}

// NewSQLite opens (or creates) the archive store at cfg.Path.
func NewSQLite(cfg *config.ArchiveConfig, logger *log.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive store: %w", err)
	}

	// The single consumer task is the only writer.
	db.SetMaxOpenConns(1)

	if err := createTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize archive store: %w", err)
	}

	s := &SQLiteSink{
		db:        db,
		logger:    logger,
		startTime: time.Now(),
	}
	s.lastWrite.Store(time.Time{})

	logger.Info("msg", "Archive sqlite sink started",
		"component", "sqlite_sink",
		"path", cfg.Path)
	return s, nil
}

func createTable(db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		level TEXT NOT NULL,
		category TEXT NOT NULL,
		message TEXT NOT NULL,
		data TEXT
	);`
	_, err := db.Exec(query)
	return err
}

func (s *SQLiteSink) Write(ctx context.Context, ev core.Event) error {
	var data any
	if len(ev.Fields) > 0 {
		data = string(ev.Fields)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (timestamp, level, category, message, data) VALUES (?, ?, ?, ?, ?)`,
		ev.Time.Format(time.RFC3339Nano),
		ev.Level.String(),
		ev.Category.String(),
		ev.Message,
		data,
	)
	if err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("insert event: %w", err)
	}

	s.totalWritten.Add(1)
	s.lastWrite.Store(time.Now())
	return nil
}

// Query narrows an archive lookup. Zero-value fields are unconstrained;
// the zero MinLevel (trace) admits every level. Limit caps the result,
// defaulting when non-positive.
type Query struct {
	MinLevel core.Level
	Category string
	Since    time.Time
	Until    time.Time
	Limit    int
}

const defaultQueryLimit = 100

// Recent returns up to limit archived events, newest first.
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]core.Event, error) {
	return s.Select(ctx, Query{Limit: limit})
}

// Select returns archived events matching q, newest first. Category is
// matched in SQL; level and time bounds are applied after decoding, since
// the stored timestamp text is variable-width and unfit for comparison.
func (s *SQLiteSink) Select(ctx context.Context, q Query) ([]core.Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	stmt := `SELECT timestamp, level, category, message, data FROM events`
	var args []any
	if q.Category != "" {
		stmt += ` WHERE category = ?`
		args = append(args, q.Category)
	}
	stmt += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() && len(events) < limit {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		if ev.Level < q.MinLevel {
			continue
		}
		if !q.Since.IsZero() && ev.Time.Before(q.Since) {
			continue
		}
		if !q.Until.IsZero() && ev.Time.After(q.Until) {
			continue
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (core.Event, error) {
	var ts, level, category, message string
	var data sql.NullString
	if err := rows.Scan(&ts, &level, &category, &message, &data); err != nil {
		return core.Event{}, fmt.Errorf("scan event: %w", err)
	}

	ev := core.Event{
		Category: core.Category(category),
		Message:  message,
	}
	var err error
	if ev.Time, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return core.Event{}, fmt.Errorf("parse timestamp: %w", err)
	}
	if ev.Level, err = core.ParseLevel(level); err != nil {
		return core.Event{}, fmt.Errorf("parse level: %w", err)
	}
	if data.Valid && data.String != "" {
		ev.Fields = json.RawMessage(data.String)
	}
	return ev, nil
}

// Flush is a no-op; every insert commits durably.
func (s *SQLiteSink) Flush(context.Context) error {
	return nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) Name() string {
	return "sqlite"
}

func (s *SQLiteSink) Stats() Stats {
	lastWrite, _ := s.lastWrite.Load().(time.Time)
	return Stats{
		Type:         "sqlite",
		TotalWritten: s.totalWritten.Load(),
		TotalFailed:  s.totalFailed.Load(),
		StartTime:    s.startTime,
		LastWrite:    lastWrite,
	}
}
