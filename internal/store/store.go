// Package store provides SQLite-backed persistence for training progress.
package store

import (
	"time"
)

// DefaultKey is the slot progress is stored under.
const DefaultKey = "nft-trainer-progress"

// ExportRecord notes one export document written to disk.
type ExportRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Path          string    `json:"path"`
	TotalTraits   int       `json:"total_traits"`
	TrainedTraits int       `json:"trained_traits"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordExportParams holds parameters for recording an export.
type RecordExportParams struct {
	SessionID     string
	Path          string
	TotalTraits   int
	TrainedTraits int
}
