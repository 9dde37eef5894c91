package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current stage, trait and selection",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

type statusOutput struct {
	Stage     model.Stage              `json:"stage"`
	SessionID string                   `json:"session_id,omitempty"`
	Current   *model.TraitUnit         `json:"current,omitempty"`
	Progress  training.Progress        `json:"progress"`
	Selection []int                    `json:"selection"`
	Hint      training.SelectionStatus `json:"selection_status"`
	Stats     training.Stats           `json:"stats"`
}

func runStatus(cmd *cobra.Command, args []string) {
	m, s := openMachine(cmd)
	defer s.Close()

	out := statusOutput{
		Stage:     m.Stage(),
		Progress:  m.Progress(),
		Selection: []int{},
		Hint:      m.SelectionStatus(),
		Stats:     m.Stats(),
	}
	if sess := m.Session(); sess != nil {
		out.SessionID = sess.ID()
		out.Selection = sess.Selected()
	}
	if cur, ok := m.Current(); ok {
		out.Current = &cur
	}

	emit(cmd, out, statusMessage(out), statusLines(out)...)
}

func statusMessage(out statusOutput) ui.Message {
	switch out.Stage {
	case model.StageSetup:
		return ui.Info("No session. Run `trait-trainer setup` to begin.")
	case model.StageCompleted:
		return ui.Success("Training Completed! You've trained %d traits. Export your results to continue.", out.Stats.TotalTrained)
	}
	return ui.Message{}
}

func statusLines(out statusOutput) []string {
	lines := []string{ui.Styles.Title.Render("NFT Metadata Trainer")}
	if out.Stage == model.StageSetup {
		return lines
	}
	lines = append(lines, ui.ProgressBar(out.Progress, 30))
	if out.Current != nil {
		lines = append(lines,
			fmt.Sprintf("%s  %s", ui.Styles.Title.Render(out.Current.Key), ui.SelectionCounter(out.Hint)),
			ui.Styles.Subtitle.Render("Select 3-5 example images (minimum 1) that show this trait"))
		if len(out.Selection) > 0 {
			ids := make([]string, len(out.Selection))
			for i, id := range out.Selection {
				ids[i] = fmt.Sprintf("#%d", id)
			}
			lines = append(lines, "Selected: "+strings.Join(ids, ", "))
		}
	}
	lines = append(lines, ui.Styles.Muted.Render(fmt.Sprintf("Trained %d traits, %d examples (avg %d per trait)",
		out.Stats.TotalTrained, out.Stats.TotalExamples, out.Stats.AvgExamplesPerTrait)))
	return lines
}
