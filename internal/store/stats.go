package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string         `json:"db_path"`
	DBSizeBytes int64          `json:"db_size_bytes"`
	Progress    *ProgressStats `json:"progress,omitempty"`
	Exports     int            `json:"exports"`
}

// ProgressStats summarizes the stored session.
type ProgressStats struct {
	SessionID string `json:"session_id"`
	Stage     string `json:"stage"`
	Cursor    int    `json:"cursor"`
	Total     int    `json:"total"`
	Trained   int    `json:"trained"`
	UpdatedAt string `json:"updated_at"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exports`).Scan(&st.Exports)

	var ps ProgressStats
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, stage, cursor, total, trained, updated_at FROM progress WHERE key = ?`, s.key).
		Scan(&ps.SessionID, &ps.Stage, &ps.Cursor, &ps.Total, &ps.Trained, &ps.UpdatedAt)
	if err == nil {
		st.Progress = &ps
	}

	return st, nil
}
