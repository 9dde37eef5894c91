package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/trait-trainer/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProgress() *model.StoredProgress {
	return &model.StoredProgress{
		SessionID:         "01HZZZZZZZZZZZZZZZZZZZZZZZ",
		Timestamp:         time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Stage:             model.StageTraining,
		CurrentTraitIndex: 1,
		Selection:         []int{9, 2},
		TrainingResults: map[string]model.TrainingResult{
			"Background:Red": {Type: "Background", Value: "Red", Examples: []int{5, 7}},
		},
		AllTraits: []model.TraitUnit{
			model.NewTraitUnit("Background", "Red"),
			model.NewTraitUnit("Background", "Blue"),
		},
		ProjectData: model.ProjectMetadata{
			ImageMap:      json.RawMessage(`{"1":"Image#1"}`),
			OverallSchema: json.RawMessage(`{"a":1}`),
			TraitSchema:   json.RawMessage(`{"b":2}`),
			ImagesPath:    "/imgs",
			MetadataPath:  "/meta",
		},
	}
}

func TestLoadEmpty(t *testing.T) {
	s := newTestStore(t)
	p, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil progress, got %+v", p)
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Save(ctx, sampleProgress()); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected progress")
	}
	if got.CurrentTraitIndex != 1 {
		t.Errorf("expected cursor 1, got %d", got.CurrentTraitIndex)
	}
	if len(got.Selection) != 2 || got.Selection[0] != 9 || got.Selection[1] != 2 {
		t.Errorf("selection order lost: %v", got.Selection)
	}
	ex := got.TrainingResults["Background:Red"].Examples
	if len(ex) != 2 || ex[0] != 5 || ex[1] != 7 {
		t.Errorf("examples order lost: %v", ex)
	}
	if got.ProjectData.ImagesPath != "/imgs" {
		t.Errorf("expected images path /imgs, got %q", got.ProjectData.ImagesPath)
	}
	if string(got.ProjectData.ImageMap) != `{"1":"Image#1"}` {
		t.Errorf("image map not passed through: %s", got.ProjectData.ImageMap)
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := sampleProgress()
	s.Save(ctx, p)
	p.CurrentTraitIndex = 2
	p.Stage = model.StageCompleted
	p.Selection = nil
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := s.Load(ctx)
	if got.Stage != model.StageCompleted || got.CurrentTraitIndex != 2 {
		t.Errorf("expected completed at 2, got %s at %d", got.Stage, got.CurrentTraitIndex)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, sampleProgress())
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Error("expected no progress after clear")
	}

	// Clearing twice is fine.
	if err := s.Clear(ctx); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestWithKeyIsolatesSlots(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	other := s.WithKey("other")

	s.Save(ctx, sampleProgress())

	got, err := other.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Error("expected other slot to be empty")
	}
}

func TestRecordAndListExports(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i, sess := range []string{"a", "b", "a"} {
		_, err := s.RecordExport(ctx, RecordExportParams{
			SessionID: sess, Path: filepath.Join("/out", sess), TotalTraits: 4, TrainedTraits: i,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	all, err := s.ListExports(ctx, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 exports, got %d", len(all))
	}
	if all[0].TrainedTraits != 2 {
		t.Errorf("expected newest first, got trained=%d", all[0].TrainedTraits)
	}

	onlyA, _ := s.ListExports(ctx, "a", 10)
	if len(onlyA) != 2 {
		t.Errorf("expected 2 exports for session a, got %d", len(onlyA))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Progress != nil {
		t.Error("expected no progress stats on empty db")
	}

	s.Save(ctx, sampleProgress())
	s.RecordExport(ctx, RecordExportParams{SessionID: "x", Path: "/out/x.json"})

	st, _ = s.Stats(ctx, dbPath)
	if st.Progress == nil {
		t.Fatal("expected progress stats")
	}
	if st.Progress.Total != 2 || st.Progress.Trained != 1 || st.Progress.Cursor != 1 {
		t.Errorf("unexpected progress stats: %+v", st.Progress)
	}
	if st.Exports != 1 {
		t.Errorf("expected 1 export, got %d", st.Exports)
	}
}
