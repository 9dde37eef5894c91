package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train interactively in the terminal",
		Long: "Open the interactive trainer on the current session. Move with the arrow keys, " +
			"toggle with space, save with enter, skip with s, export with e and quit with q.",
		Run: runTrain,
	}

	cmd.Flags().StringP("out", "o", ".", "Export directory")
	cmd.Flags().Int("columns", 0, "Images per row (0 = fit to terminal)")

	RootCmd.AddCommand(cmd)
}

func runTrain(cmd *cobra.Command, args []string) {
	outDir, _ := cmd.Flags().GetString("out")
	columns, _ := cmd.Flags().GetInt("columns")

	m, s := openMachine(cmd)
	defer s.Close()
	requireSession(m)

	idx := openIndex(m)
	defer idx.Close()

	sessionID := m.Session().ID()
	trainer := tui.New(cmd.Context(), m, idx, tui.Config{
		OutDir:  outDir,
		Columns: columns,
		OnExport: func(ctx context.Context, path string, doc model.ExportDocument) error {
			return recordExport(ctx, s, sessionID, path, doc)
		},
	})

	if _, err := tea.NewProgram(trainer, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		exitErr("train", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Progress saved.")
}
