package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "skip",
		Short: "Skip the current trait without saving",
		Run:   runSkip,
	}

	RootCmd.AddCommand(cmd)
}

func runSkip(cmd *cobra.Command, args []string) {
	m, s := openMachine(cmd)
	defer s.Close()

	skipped, err := m.Skip(cmd.Context())
	if errors.Is(err, training.ErrNotTraining) {
		exitErr("skip", errors.New("no trait in progress"))
	}
	if err != nil {
		exitErr("skip", err)
	}

	out := advanced(m)
	out.Skipped = &skipped
	out.Message = ui.Info("Skipped %q", skipped.Key)
	emit(cmd, out, out.Message, ui.ProgressBar(out.Progress, 30))
}
