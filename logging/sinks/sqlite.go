package sinks

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scene-editor/logging"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const insertEventSQL = `INSERT INTO events
	(type, sequence, time, severity, category, actor_id, actor_kind, command_id, payload, extra)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLite journals events into a SQLite database. Events are written in
// transactions of BatchSize; Close writes whatever is still pending.
type SQLite struct {
	mu      sync.Mutex
	db      *sql.DB
	batch   int
	pending []logging.Event
}

// StoredEvent is a journaled event as read back from the database.
type StoredEvent struct {
	ID        int64
	Type      string
	Sequence  uint64
	Time      time.Time
	Severity  string
	Category  string
	Actor     logging.EntityRef
	CommandID string
	Payload   json.RawMessage
	Extra     json.RawMessage
}

// OpenSQLite opens or creates the journal at cfg.Path.
func OpenSQLite(cfg logging.SQLiteConfig) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite sink: path is required")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite sink: creating directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite sink: opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite sink: applying schema: %w", err)
	}
	batch := cfg.BatchSize
	if batch < 1 {
		batch = 1
	}
	return &SQLite{db: db, batch: batch}, nil
}

// Write satisfies logging.Sink.
func (s *SQLite) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, event)
	if len(s.pending) < s.batch {
		return nil
	}
	return s.flushLocked(context.Background())
}

func (s *SQLite) flushLocked(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite sink: begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertEventSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite sink: prepare: %w", err)
	}
	defer stmt.Close()

	for _, event := range s.pending {
		payload, err := marshalColumn(event.Payload)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite sink: encoding payload of %s: %w", event.Type, err)
		}
		extra, err := marshalColumn(event.Extra)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite sink: encoding extra of %s: %w", event.Type, err)
		}
		if _, err := stmt.ExecContext(ctx,
			string(event.Type),
			int64(event.Sequence),
			event.Time.UTC().Format(time.RFC3339Nano),
			event.Severity.String(),
			event.Category,
			event.Actor.ID,
			string(event.Actor.Kind),
			event.CommandID,
			payload,
			extra,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite sink: insert %s: %w", event.Type, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite sink: commit: %w", err)
	}
	s.pending = s.pending[:0]
	return nil
}

func marshalColumn(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Recent returns up to limit journaled events, newest first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]StoredEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, type, sequence, time, severity, category,
		actor_id, actor_kind, command_id, payload, extra
		FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite sink: query: %w", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var (
			ev              StoredEvent
			sequence        int64
			stamp, kind     string
			payload, extras sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.Type, &sequence, &stamp, &ev.Severity, &ev.Category,
			&ev.Actor.ID, &kind, &ev.CommandID, &payload, &extras); err != nil {
			return nil, fmt.Errorf("sqlite sink: scan: %w", err)
		}
		ev.Sequence = uint64(sequence)
		ev.Actor.Kind = logging.EntityKind(kind)
		if ev.Time, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
			return nil, fmt.Errorf("sqlite sink: parse time %q: %w", stamp, err)
		}
		if payload.Valid {
			ev.Payload = json.RawMessage(payload.String)
		}
		if extras.Valid {
			ev.Extra = json.RawMessage(extras.String)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Close writes pending events and closes the database.
func (s *SQLite) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	flushErr := s.flushLocked(ctx)
	if err := s.db.Close(); err != nil && flushErr == nil {
		return fmt.Errorf("sqlite sink: close: %w", err)
	}
	return flushErr
}
