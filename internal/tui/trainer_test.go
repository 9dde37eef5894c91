package tui

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trait-trainer/internal/corpus"
	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/training"
)

func newTrainer(t *testing.T, traits ...model.TraitUnit) (Model, *training.Machine) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	idx, err := corpus.Build(fstest.MapFS{
		"1.png": {Data: []byte("a")},
		"2.png": {Data: []byte("b")},
		"3.png": {Data: []byte("c")},
	}, ".", logger)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	m := training.New(nil, training.WithLogger(logger))
	require.NoError(t, m.Start(context.Background(), traits, model.ProjectMetadata{}))

	return New(context.Background(), m, idx, Config{OutDir: t.TempDir(), Columns: 2}), m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		m = next.(Model)
	}
	return m
}

func TestToggleAndSave(t *testing.T) {
	tr, machine := newTrainer(t, model.NewTraitUnit("Background", "Red"), model.NewTraitUnit("Background", "Blue"))

	tr = send(tr, "space", "down", "space")
	assert.Equal(t, []int{1, 3}, machine.Session().Selected())

	tr = send(tr, "enter")
	assert.Equal(t, []int{1, 3}, machine.Session().Results()["Background:Red"].Examples)
	assert.Equal(t, 1, machine.Session().Cursor())
	assert.Equal(t, 0, tr.focus)
	assert.Contains(t, tr.View(), "Background:Blue")
}

func TestSaveWithoutSelectionWarns(t *testing.T) {
	tr, machine := newTrainer(t, model.NewTraitUnit("A", "1"))

	tr = send(tr, "enter")
	assert.Equal(t, 0, machine.Session().Cursor())
	assert.Contains(t, tr.status.Text, "at least one")
}

func TestSkipToCompletion(t *testing.T) {
	tr, machine := newTrainer(t, model.NewTraitUnit("A", "1"))
	assert.Contains(t, tr.View(), "toggle")

	tr = send(tr, "space", "s")
	assert.Equal(t, model.StageCompleted, machine.Stage())
	assert.Empty(t, machine.Session().Results())
	assert.Contains(t, tr.View(), "Training Completed!")

	// Training keys are inert once completed.
	assert.NotContains(t, tr.View(), "toggle")
	tr = send(tr, "space")
	assert.Contains(t, tr.status.Text, "Skipped")
	assert.Equal(t, model.StageCompleted, machine.Stage())
}

func TestMoveStaysInBounds(t *testing.T) {
	tr, _ := newTrainer(t, model.NewTraitUnit("A", "1"))

	tr = send(tr, "right", "right", "right", "right")
	assert.Equal(t, 2, tr.focus)
	tr = send(tr, "h", "h", "h")
	assert.Equal(t, 0, tr.focus)
}

func TestExportWritesFile(t *testing.T) {
	tr, _ := newTrainer(t, model.NewTraitUnit("A", "1"))
	var recorded string
	tr.cfg.OnExport = func(_ context.Context, path string, _ model.ExportDocument) error {
		recorded = path
		return nil
	}

	tr = send(tr, "e")
	require.NotEmpty(t, recorded)
	assert.Equal(t, tr.cfg.OutDir, filepath.Dir(recorded))
	_, err := os.Stat(recorded)
	assert.NoError(t, err)
	assert.Contains(t, tr.status.Text, "exported")
}

func TestQuit(t *testing.T) {
	tr, _ := newTrainer(t, model.NewTraitUnit("A", "1"))
	next, cmd := tr.Update(keyPress("q"))
	assert.NotNil(t, cmd)
	assert.Equal(t, "Progress saved.\n", next.(Model).View())
}
