// Package export assembles and writes the training data document.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rcliao/trait-trainer/internal/model"
)

const (
	filePrefix      = "nft-training-data-"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Source is the session state an export is taken from.
type Source interface {
	TraitCount() int
	Results() map[string]model.TrainingResult
	Project() model.ProjectMetadata
}

// Assemble snapshots src into an export document captured at at. It does not
// retain or modify anything reachable from src.
func Assemble(src Source, at time.Time) model.ExportDocument {
	results := make(map[string]model.TrainingResult)
	for k, r := range src.Results() {
		examples := make([]int, len(r.Examples))
		copy(examples, r.Examples)
		results[k] = model.TrainingResult{Type: r.Type, Value: r.Value, Examples: examples}
	}

	p := src.Project()
	return model.ExportDocument{
		Timestamp:       at.UTC().Format(timestampLayout),
		TotalTraits:     src.TraitCount(),
		TrainedTraits:   len(results),
		TrainingResults: results,
		Schemas: model.ExportSchemas{
			Overall: cloneRaw(p.OverallSchema),
			Traits:  cloneRaw(p.TraitSchema),
		},
		ImageMap: cloneRaw(p.ImageMap),
		Paths: model.ExportPaths{
			Images:   p.ImagesPath,
			Metadata: p.MetadataPath,
		},
	}
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return nil
	}
	out := make(json.RawMessage, len(r))
	copy(out, r)
	return out
}

// Filename returns the export file name for a capture time.
func Filename(at time.Time) string {
	return filePrefix + at.UTC().Format("2006-01-02") + ".json"
}

// Marshal renders doc as indented JSON. Result keys are emitted sorted.
func Marshal(doc model.ExportDocument) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return b, nil
}

// WriteFile writes doc into dir under its dated file name and returns the path.
// The file is replaced atomically.
func WriteFile(dir string, doc model.ExportDocument) (string, error) {
	at, err := time.Parse(timestampLayout, doc.Timestamp)
	if err != nil {
		return "", fmt.Errorf("parse export timestamp: %w", err)
	}
	b, err := Marshal(doc)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, Filename(at))
	if err := writeFileAtomic(p, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return p, nil
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_export_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
