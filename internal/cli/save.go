package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the selection for the current trait and advance",
		Run:   runSave,
	}

	RootCmd.AddCommand(cmd)
}

type advanceOutput struct {
	OK       bool                  `json:"ok"`
	Result   *model.TrainingResult `json:"result,omitempty"`
	Skipped  *model.TraitUnit      `json:"skipped,omitempty"`
	Stage    model.Stage           `json:"stage"`
	Next     *model.TraitUnit      `json:"next,omitempty"`
	Progress training.Progress     `json:"progress"`
	Message  ui.Message            `json:"status"`
}

func runSave(cmd *cobra.Command, args []string) {
	m, s := openMachine(cmd)
	defer s.Close()

	cur, _ := m.Current()
	res, err := m.Save(cmd.Context())
	switch {
	case errors.Is(err, training.ErrEmptySelection):
		exitErr("save", errors.New("select at least one example image"))
	case errors.Is(err, training.ErrNotTraining):
		exitErr("save", errors.New("no trait in progress"))
	case err != nil:
		exitErr("save", err)
	}

	out := advanced(m)
	out.Result = &res
	out.Message = ui.Success("Saved %d examples for %q", len(res.Examples), cur.Key)
	emit(cmd, out, out.Message, ui.ProgressBar(out.Progress, 30))
}

func advanced(m *training.Machine) advanceOutput {
	out := advanceOutput{OK: true, Stage: m.Stage(), Progress: m.Progress()}
	if next, ok := m.Current(); ok {
		out.Next = &next
	}
	return out
}
