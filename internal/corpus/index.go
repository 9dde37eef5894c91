// Package corpus indexes a directory of token images by token id.
package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ImageExtensions are the recognized image file extensions, lower case.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var tokenPattern = regexp.MustCompile(`^(\d+)\.`)

// ImageRecord is one indexed image. DisplayURL is valid only until the
// owning Index is closed and must never be persisted.
type ImageRecord struct {
	TokenID    int    `json:"tokenId"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	DisplayURL string `json:"-"`
}

// Index maps token ids to image records. It owns every display handle it
// mints; Close releases them.
type Index struct {
	fsys    fs.FS
	dir     string
	records map[int]ImageRecord

	mu      sync.Mutex
	handles map[string]bool
	entropy *rand.Rand
	closed  bool
}

// ParseTokenID extracts the leading run of digits of a file name that is
// followed directly by a dot.
func ParseTokenID(name string) (int, bool) {
	m := tokenPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsImage reports whether name has a recognized image extension.
func IsImage(name string) bool {
	return ImageExtensions[strings.ToLower(path.Ext(name))]
}

// Build indexes the image files in dir of fsys. Files without a recognized
// extension or a leading token id are skipped. When two files share a token
// id the later one in directory order wins.
func Build(fsys fs.FS, dir string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "."
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	idx := &Index{
		fsys:    fsys,
		dir:     dir,
		records: make(map[int]ImageRecord),
		handles: make(map[string]bool),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	var skipped int
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		id, ok := ParseTokenID(e.Name())
		if !ok {
			skipped++
			logger.Debug("image name has no token id, skipping", "name", e.Name())
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		if prev, dup := idx.records[id]; dup {
			logger.Debug("duplicate token id, replacing", "token_id", id, "previous", prev.Name, "name", e.Name())
			idx.release(prev.DisplayURL)
		}
		idx.records[id] = ImageRecord{
			TokenID:    id,
			Name:       e.Name(),
			Size:       size,
			DisplayURL: idx.mint(),
		}
	}

	logger.Debug("image corpus indexed", "dir", dir, "images", len(idx.records), "skipped", skipped)
	return idx, nil
}

func (idx *Index) mint() string {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	h := "blob:trait-trainer/" + ulid.MustNew(ulid.Timestamp(time.Now()), idx.entropy).String()
	idx.handles[h] = true
	return h
}

func (idx *Index) release(h string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.handles, h)
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Has reports whether tokenID is indexed.
func (idx *Index) Has(tokenID int) bool {
	_, ok := idx.records[tokenID]
	return ok
}

// Lookup returns the record for tokenID. After Close the record is still
// returned but its DisplayURL is empty.
func (idx *Index) Lookup(tokenID int) (ImageRecord, bool) {
	r, ok := idx.records[tokenID]
	if !ok {
		return ImageRecord{}, false
	}
	if !idx.Live(r.DisplayURL) {
		r.DisplayURL = ""
	}
	return r, true
}

// Records returns all records sorted by token id.
func (idx *Index) Records() []ImageRecord {
	out := make([]ImageRecord, 0, len(idx.records))
	for _, id := range idx.TokenIDs() {
		r, _ := idx.Lookup(id)
		out = append(out, r)
	}
	return out
}

// TokenIDs returns the indexed token ids in ascending order.
func (idx *Index) TokenIDs() []int {
	ids := make([]int, 0, len(idx.records))
	for id := range idx.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Open opens the image file for tokenID.
func (idx *Index) Open(tokenID int) (fs.File, error) {
	r, ok := idx.records[tokenID]
	if !ok {
		return nil, fmt.Errorf("token %d not in corpus", tokenID)
	}
	return idx.fsys.Open(path.Join(idx.dir, r.Name))
}

// Live reports whether h is an outstanding display handle of this index.
func (idx *Index) Live(h string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.handles[h]
}

// Outstanding returns the number of display handles not yet released.
func (idx *Index) Outstanding() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.handles)
}

// Close releases every display handle. It is safe to call more than once.
func (idx *Index) Close() error {
	if idx == nil {
		return nil
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	clear(idx.handles)
	return nil
}

// Replace closes old, if any, and returns next. Use it when the operator
// selects a new image directory.
func Replace(old, next *Index) *Index {
	old.Close()
	return next
}
