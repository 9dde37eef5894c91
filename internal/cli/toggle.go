package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/corpus"
	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "toggle <tokenId>...",
		Short: "Add or remove images from the current selection",
		Long: "Flip selection membership of each token id, in order. Ids with no image in the " +
			"session's image directory are still toggled, with a warning.",
		Args: cobra.MinimumNArgs(1),
		Run:  runToggle,
	}

	cmd.Flags().Bool("no-check", false, "Do not warn about token ids missing from the image directory")

	RootCmd.AddCommand(cmd)
}

type toggleOutput struct {
	OK        bool                     `json:"ok"`
	Trait     string                   `json:"trait"`
	Selection []int                    `json:"selection"`
	Status    training.SelectionStatus `json:"selection_status"`
}

func runToggle(cmd *cobra.Command, args []string) {
	noCheck, _ := cmd.Flags().GetBool("no-check")

	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			exitErr("toggle", fmt.Errorf("invalid token id %q", a))
		}
		ids = append(ids, id)
	}

	m, s := openMachine(cmd)
	defer s.Close()
	requireSession(m)

	if !noCheck {
		warnUnknown(m, ids)
	}

	for _, id := range ids {
		if _, err := m.Toggle(cmd.Context(), id); err != nil {
			exitErr("toggle", err)
		}
	}

	cur, _ := m.Current()
	out := toggleOutput{
		OK:        true,
		Trait:     cur.Key,
		Selection: m.Session().Selected(),
		Status:    m.SelectionStatus(),
	}
	emit(cmd, out, ui.Message{}, fmt.Sprintf("%s  %s", cur.Key, ui.SelectionCounter(out.Status)))
}

// warnUnknown logs token ids the image directory has no file for.
func warnUnknown(m *training.Machine, ids []int) {
	logger := newLogger()
	dir := m.Session().Project().ImagesPath
	idx, err := corpus.Build(os.DirFS(dir), ".", logger)
	if err != nil {
		logger.Warn("image directory unreadable", "dir", dir, "err", err)
		return
	}
	defer idx.Close()
	for _, id := range ids {
		if !idx.Has(id) {
			logger.Warn("no image for token", "token_id", id)
		}
	}
}
