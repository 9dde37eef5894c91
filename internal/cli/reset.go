package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the current session and its stored progress",
		Run:   runReset,
	}

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	// Stored progress may not resume, so clear it without loading.
	m := training.New(s, training.WithLogger(newLogger()))
	if err := m.Reset(cmd.Context()); err != nil {
		exitErr("reset", err)
	}

	msg := ui.Info("Progress cleared. Run setup to start again.")
	emit(cmd, map[string]any{"ok": true, "stage": m.Stage()}, msg)
}
