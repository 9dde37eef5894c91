package corpus

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strconv"
)

var metadataPattern = regexp.MustCompile(`^(\d+)\.json$`)

// ReadMetadata loads per-token metadata documents named like "12.json" from
// dir. Files that do not parse as JSON are skipped with a warning.
func ReadMetadata(fsys fs.FS, dir string, logger *slog.Logger) (map[int]json.RawMessage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "."
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read metadata dir: %w", err)
	}

	out := make(map[int]json.RawMessage)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := metadataPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if !json.Valid(b) {
			logger.Warn("metadata file is not valid JSON, skipping", "token_id", id, "name", e.Name())
			continue
		}
		out[id] = json.RawMessage(b)
	}
	return out, nil
}
