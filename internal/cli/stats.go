package cli

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/store"
	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show training and database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsOutput struct {
	Training training.Stats `json:"training"`
	*store.Stats
}

func runStats(cmd *cobra.Command, args []string) {
	m, s := openMachine(cmd)
	defer s.Close()

	dbStats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	out := statsOutput{Training: m.Stats(), Stats: dbStats}
	emit(cmd, out, ui.Message{},
		fmt.Sprintf("Traits trained:     %d", out.Training.TotalTrained),
		fmt.Sprintf("Examples selected:  %d", out.Training.TotalExamples),
		fmt.Sprintf("Avg per trait:      %d", out.Training.AvgExamplesPerTrait),
		fmt.Sprintf("Exports:            %d", dbStats.Exports),
		ui.Styles.Muted.Render(fmt.Sprintf("%s (%s)", dbStats.DBPath, humanize.Bytes(uint64(dbStats.DBSizeBytes)))))
}
