package cli

import (
	"fmt"
	"os"

	humanize "github.com/dustin/go-humanize"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/corpus"
	"github.com/rcliao/trait-trainer/internal/training"
)

func init() {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "List the image corpus of the current session",
		Run:   runImages,
	}

	cmd.Flags().Bool("selected", false, "Only list images in the current selection")

	RootCmd.AddCommand(cmd)
}

type imageOutput struct {
	TokenID  int    `json:"tokenId"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Selected bool   `json:"selected"`
}

// openIndex indexes the image directory recorded for the session.
func openIndex(m *training.Machine) *corpus.Index {
	dir := m.Session().Project().ImagesPath
	idx, err := corpus.Build(os.DirFS(dir), ".", newLogger())
	if err != nil {
		exitErr("index images", fmt.Errorf("%s: %w", dir, err))
	}
	return idx
}

func runImages(cmd *cobra.Command, args []string) {
	onlySelected, _ := cmd.Flags().GetBool("selected")

	m, s := openMachine(cmd)
	defer s.Close()
	requireSession(m)

	idx := openIndex(m)
	defer idx.Close()

	sess := m.Session()
	out := []imageOutput{}
	var lines []string
	for _, r := range idx.Records() {
		sel := sess.IsSelected(r.TokenID)
		if onlySelected && !sel {
			continue
		}
		out = append(out, imageOutput{TokenID: r.TokenID, Name: r.Name, Size: r.Size, Selected: sel})
		mark := " "
		if sel {
			mark = "✓"
		}
		lines = append(lines, fmt.Sprintf("[%s] #%-6d %-20s %s", mark, r.TokenID, r.Name, humanize.Bytes(uint64(r.Size))))
	}

	emit(cmd, out, infoCount(len(out)), lines...)
}
