package cli

import (
	"context"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/export"
	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/store"
	"github.com/rcliao/trait-trainer/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the training results as JSON",
		Long: "Write nft-training-data-YYYY-MM-DD.json into the output directory. " +
			"Exporting is allowed at any point of a session; untrained traits are simply absent. " +
			"Use --stdout to print the document instead, or --history to list earlier exports.",
		Run: runExport,
	}

	cmd.Flags().StringP("out", "o", ".", "Output directory")
	cmd.Flags().Bool("stdout", false, "Print the document instead of writing a file")
	cmd.Flags().Bool("history", false, "List earlier exports of this session")
	cmd.Flags().Int("limit", 20, "Max history entries")

	RootCmd.AddCommand(cmd)
}

type exportOutput struct {
	OK            bool       `json:"ok"`
	Path          string     `json:"path"`
	TotalTraits   int        `json:"totalTraits"`
	TrainedTraits int        `json:"trainedTraits"`
	Message       ui.Message `json:"status"`
}

func runExport(cmd *cobra.Command, args []string) {
	outDir, _ := cmd.Flags().GetString("out")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	history, _ := cmd.Flags().GetBool("history")
	limit, _ := cmd.Flags().GetInt("limit")

	m, s := openMachine(cmd)
	defer s.Close()
	requireSession(m)

	if history {
		recs, err := s.ListExports(cmd.Context(), m.Session().ID(), limit)
		if err != nil {
			exitErr("export history", err)
		}
		if recs == nil {
			recs = []store.ExportRecord{}
		}
		var lines []string
		for _, r := range recs {
			lines = append(lines, fmt.Sprintf("%-14s  %d/%d  %s",
				humanize.Time(r.CreatedAt), r.TrainedTraits, r.TotalTraits, r.Path))
		}
		emit(cmd, recs, infoCount(len(recs)), lines...)
		return
	}

	doc, err := m.Export()
	if err != nil {
		exitErr("export", err)
	}

	if toStdout {
		b, err := export.Marshal(doc)
		if err != nil {
			exitErr("export", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}

	path, err := writeExport(cmd, s, m.Session().ID(), outDir, doc)
	if err != nil {
		exitErr("export", err)
	}

	out := exportOutput{
		OK:            true,
		Path:          path,
		TotalTraits:   doc.TotalTraits,
		TrainedTraits: doc.TrainedTraits,
		Message:       ui.Success("Exported %d of %d traits to %s", doc.TrainedTraits, doc.TotalTraits, path),
	}
	emit(cmd, out, out.Message)
}

// writeExport writes doc into dir and records it against the session.
func writeExport(cmd *cobra.Command, s *store.SQLiteStore, sessionID, dir string, doc model.ExportDocument) (string, error) {
	path, err := export.WriteFile(dir, doc)
	if err != nil {
		return "", err
	}
	if err := recordExport(cmd.Context(), s, sessionID, path, doc); err != nil {
		return "", err
	}
	return path, nil
}

func recordExport(ctx context.Context, s *store.SQLiteStore, sessionID, path string, doc model.ExportDocument) error {
	_, err := s.RecordExport(ctx, store.RecordExportParams{
		SessionID:     sessionID,
		Path:          path,
		TotalTraits:   doc.TotalTraits,
		TrainedTraits: doc.TrainedTraits,
	})
	return err
}

func infoCount(n int) ui.Message {
	return ui.Info("%d found", n)
}
