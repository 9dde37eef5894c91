package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/trait-trainer/internal/model"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements training.ProgressStore using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	key     string
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		key:     DefaultKey,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// WithKey returns a store that reads and writes progress under key,
// sharing the same database.
func (s *SQLiteStore) WithKey(key string) *SQLiteStore {
	cp := *s
	cp.key = key
	return &cp
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS progress (
		key         TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL,
		stage       TEXT NOT NULL,
		cursor      INTEGER NOT NULL,
		total       INTEGER NOT NULL,
		trained     INTEGER NOT NULL,
		payload     TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exports (
		id             TEXT PRIMARY KEY,
		session_id     TEXT NOT NULL,
		path           TEXT NOT NULL,
		total_traits   INTEGER NOT NULL,
		trained_traits INTEGER NOT NULL,
		created_at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exports_session ON exports(session_id);
	CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored progress.
func (s *SQLiteStore) Save(ctx context.Context, p *model.StoredProgress) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO progress (key, session_id, stage, cursor, total, trained, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   session_id = excluded.session_id,
		   stage      = excluded.stage,
		   cursor     = excluded.cursor,
		   total      = excluded.total,
		   trained    = excluded.trained,
		   payload    = excluded.payload,
		   updated_at = excluded.updated_at`,
		s.key, p.SessionID, string(p.Stage), p.CurrentTraitIndex, len(p.AllTraits),
		len(p.TrainingResults), string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// Load returns the stored progress, or nil when there is none.
func (s *SQLiteStore) Load(ctx context.Context) (*model.StoredProgress, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM progress WHERE key = ?`, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p model.StoredProgress
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &p, nil
}

// Clear removes the stored progress.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE key = ?`, s.key)
	return err
}

// RecordExport notes an export written to disk.
func (s *SQLiteStore) RecordExport(ctx context.Context, p RecordExportParams) (*ExportRecord, error) {
	now := time.Now().UTC()
	rec := &ExportRecord{
		ID:            s.newID(),
		SessionID:     p.SessionID,
		Path:          p.Path,
		TotalTraits:   p.TotalTraits,
		TrainedTraits: p.TrainedTraits,
		CreatedAt:     now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (id, session_id, path, total_traits, trained_traits, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Path, rec.TotalTraits, rec.TrainedTraits, now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert export: %w", err)
	}
	return rec, nil
}

// ListExports returns recorded exports, newest first. An empty sessionID
// lists all of them.
func (s *SQLiteStore) ListExports(ctx context.Context, sessionID string, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, session_id, path, total_traits, trained_traits, created_at FROM exports`
	var args []interface{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		r, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExport(row scanner) (ExportRecord, error) {
	var r ExportRecord
	var createdAt string
	err := row.Scan(&r.ID, &r.SessionID, &r.Path, &r.TotalTraits, &r.TrainedTraits, &createdAt)
	if err != nil {
		return r, err
	}
	r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return r, nil
}
