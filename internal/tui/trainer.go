// Package tui provides the interactive trait trainer.
//
// The model runs inside the bubbletea event loop and is not safe for use
// from other goroutines. All state changes go through the training machine,
// so progress is persisted exactly as with the one-shot commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/trait-trainer/internal/corpus"
	"github.com/rcliao/trait-trainer/internal/export"
	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

// Config configures the trainer.
type Config struct {
	// OutDir is where exports are written.
	OutDir string
	// Columns is the number of images per grid row (0 = fit to width).
	Columns int
	// OnExport is called after an export file has been written.
	OnExport func(ctx context.Context, path string, doc model.ExportDocument) error
}

// Model is the bubbletea model for a training session.
type Model struct {
	ctx     context.Context
	machine *training.Machine
	index   *corpus.Index
	cfg     Config

	ids   []int
	focus int

	keys keyMap
	help help.Model

	width  int
	height int

	status   ui.Message
	quitting bool
}

// New returns a trainer over machine, showing the images of index.
func New(ctx context.Context, machine *training.Machine, index *corpus.Index, cfg Config) Model {
	m := Model{
		ctx:     ctx,
		machine: machine,
		index:   index,
		cfg:     cfg,
		ids:     index.TokenIDs(),
		keys:    defaultKeys(),
		help:    help.New(),
	}
	if cur, ok := machine.Current(); ok {
		m.status = ui.Info("Select example images for %q", cur.Key)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		keys := m.keys.forStage(m.machine.Stage() == model.StageTraining)
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Left):
			m.move(-1)
		case key.Matches(msg, keys.Right):
			m.move(1)
		case key.Matches(msg, keys.Up):
			m.move(-m.columns())
		case key.Matches(msg, keys.Down):
			m.move(m.columns())
		case key.Matches(msg, keys.Toggle):
			m.toggle()
		case key.Matches(msg, keys.Save):
			m.save()
		case key.Matches(msg, keys.Skip):
			m.skip()
		case key.Matches(msg, keys.Export):
			m.export()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Progress saved.\n"
	}

	var b strings.Builder
	b.WriteString(ui.Styles.Title.Render("NFT Metadata Trainer"))
	b.WriteString("\n")

	if m.machine.Stage() == model.StageCompleted {
		b.WriteString(m.renderCompleted())
	} else {
		b.WriteString(m.renderTraining())
	}

	if s := m.status.Render(); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) columns() int {
	if m.cfg.Columns > 0 {
		return m.cfg.Columns
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	cols := w / ui.Styles.Cell.GetWidth()
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m *Model) move(delta int) {
	if len(m.ids) == 0 {
		return
	}
	next := m.focus + delta
	if next < 0 || next >= len(m.ids) {
		return
	}
	m.focus = next
}

func (m *Model) toggle() {
	if len(m.ids) == 0 {
		return
	}
	id := m.ids[m.focus]
	selected, err := m.machine.Toggle(m.ctx, id)
	if err != nil {
		m.status = ui.Error("%v", err)
		return
	}
	if selected {
		m.status = ui.Info("Selected #%d", id)
	} else {
		m.status = ui.Info("Deselected #%d", id)
	}
}

func (m *Model) save() {
	cur, _ := m.machine.Current()
	res, err := m.machine.Save(m.ctx)
	switch {
	case errors.Is(err, training.ErrEmptySelection):
		m.status = ui.Warning("Select at least one example image before saving")
		return
	case err != nil:
		m.status = ui.Error("%v", err)
		return
	}
	m.status = ui.Success("Saved %d examples for %q", len(res.Examples), cur.Key)
	m.focus = 0
}

func (m *Model) skip() {
	cur, err := m.machine.Skip(m.ctx)
	if err != nil {
		m.status = ui.Error("%v", err)
		return
	}
	m.status = ui.Info("Skipped %q", cur.Key)
	m.focus = 0
}

func (m *Model) export() {
	doc, err := m.machine.Export()
	if err != nil {
		m.status = ui.Error("%v", err)
		return
	}
	path, err := export.WriteFile(m.cfg.OutDir, doc)
	if err != nil {
		m.status = ui.Error("%v", err)
		return
	}
	if m.cfg.OnExport != nil {
		if err := m.cfg.OnExport(m.ctx, path, doc); err != nil {
			m.status = ui.Warning("Exported to %s, but recording it failed: %v", path, err)
			return
		}
	}
	m.status = ui.Success("Training data exported to %s", path)
}

func (m Model) renderCompleted() string {
	st := m.machine.Stats()
	body := fmt.Sprintf("Training Completed!\n\nYou've trained %d traits (%d examples).\nPress e to export your results.",
		st.TotalTrained, st.TotalExamples)
	return ui.Styles.Box.Render(body)
}

func (m Model) renderTraining() string {
	cur, _ := m.machine.Current()

	var b strings.Builder
	b.WriteString(ui.ProgressBar(m.machine.Progress(), 30))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		ui.Styles.Title.Render(cur.Key), "  ", ui.SelectionCounter(m.machine.SelectionStatus())))
	b.WriteString("\n")
	b.WriteString(ui.Styles.Subtitle.Render("Select 3-5 example images (minimum 1) that show this trait"))
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	return b.String()
}

func (m Model) renderGrid() string {
	if len(m.ids) == 0 {
		return ui.Styles.Muted.Render("No images indexed.")
	}

	cols := m.columns()
	rows := (len(m.ids) + cols - 1) / cols
	visible := rows
	if m.height > 0 {
		visible = m.height - 14
		if visible < 1 {
			visible = 1
		}
	}
	focusRow := m.focus / cols
	start := 0
	if focusRow >= visible {
		start = focusRow - visible + 1
	}
	end := start + visible
	if end > rows {
		end = rows
	}

	sess := m.machine.Session()
	var lines []string
	for r := start; r < end; r++ {
		var cells []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(m.ids) {
				break
			}
			id := m.ids[i]
			label := fmt.Sprintf("#%d", id)
			style := ui.Styles.Cell
			if sess != nil && sess.IsSelected(id) {
				style = style.Inherit(ui.Styles.Selected)
			}
			if i == m.focus {
				style = style.Inherit(ui.Styles.Focused)
				label = "[" + label + "]"
			}
			cells = append(cells, style.Render(label))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if rec, ok := m.index.Lookup(m.ids[m.focus]); ok {
		lines = append(lines, "", ui.Styles.Muted.Render(fmt.Sprintf("%s  %s", rec.Name, rec.DisplayURL)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	return m.help.View(m.keys.forStage(m.machine.Stage() == model.StageTraining))
}
