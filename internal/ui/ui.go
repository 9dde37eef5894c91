// Package ui renders operator-facing text: status messages, progress bars
// and selection counters.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/trait-trainer/internal/training"
)

// Palette.
var (
	ColorInfo    = lipgloss.Color("#3B82F6")
	ColorSuccess = lipgloss.Color("#22C55E")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorAccent  = lipgloss.Color("#6366F1")
)

// Styles holds the pre-configured lipgloss styles.
var Styles = struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Focused  lipgloss.Style
	Cell     lipgloss.Style
	Box      lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Subtitle: lipgloss.NewStyle().Foreground(ColorMuted),
	Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
	Info:     lipgloss.NewStyle().Foreground(ColorInfo),
	Success:  lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:  lipgloss.NewStyle().Foreground(ColorWarning),
	Error:    lipgloss.NewStyle().Foreground(ColorError),
	Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ColorSuccess),
	Focused:  lipgloss.NewStyle().Underline(true).Foreground(ColorAccent),
	Cell:     lipgloss.NewStyle().Width(8).Align(lipgloss.Center),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1),
}

// Kind classifies a status message.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Message is a status line shown to the operator.
type Message struct {
	Text string `json:"message"`
	Kind Kind   `json:"type"`
}

// Info, Success, Warning and Error build messages of each kind.
func Info(format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...), Kind: KindInfo}
}

func Success(format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...), Kind: KindSuccess}
}

func Warning(format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...), Kind: KindWarning}
}

func Error(format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...), Kind: KindError}
}

// Render styles m for the terminal. An empty message renders as "".
func (m Message) Render() string {
	if m.Text == "" {
		return ""
	}
	switch m.Kind {
	case KindSuccess:
		return Styles.Success.Render("✓ " + m.Text)
	case KindWarning:
		return Styles.Warning.Render("⚠ " + m.Text)
	case KindError:
		return Styles.Error.Render("✗ " + m.Text)
	default:
		return Styles.Info.Render("• " + m.Text)
	}
}

// ProgressBar renders "current / total traits completed" over a bar of
// the given width.
func ProgressBar(p training.Progress, width int) string {
	if width < 10 {
		width = 10
	}
	filled := 0
	if p.Total > 0 {
		filled = width * p.Current / p.Total
	}
	if filled > width {
		filled = width
	}
	bar := Styles.Success.Render(strings.Repeat("█", filled)) +
		Styles.Muted.Render(strings.Repeat("░", width-filled))
	label := fmt.Sprintf("%d / %d traits completed", p.Current, p.Total)
	return fmt.Sprintf("%s %s %3d%%", label, bar, p.Percentage)
}

// SelectionCounter renders the "N selected" badge, colored by how close the
// selection is to the suggested range.
func SelectionCounter(s training.SelectionStatus) string {
	text := fmt.Sprintf(" %d selected ", s.Count)
	switch {
	case s.Optimal:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(ColorSuccess).Render(text)
	case s.Valid:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(ColorWarning).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(ColorMuted).Render(text)
	}
}
