package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/setup"
	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

// exitNoTraits is the exit status when setup succeeds but yields nothing to train.
const exitNoTraits = 3

func init() {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Load project files and start a training session",
		Long: "Load the traits, image map and schema documents plus the image directory, " +
			"then start a new session. Any previous progress is replaced.",
		Run: runSetup,
	}

	cmd.Flags().String("traits", "", "Traits JSON file (required)")
	cmd.Flags().String("image-map", "", "Image map JSON file (required)")
	cmd.Flags().String("overall-schema", "", "Overall schema JSON file (required)")
	cmd.Flags().String("trait-schema", "", "Trait schema JSON file (required)")
	cmd.Flags().String("images", "", "Directory of token images (required)")
	cmd.Flags().String("metadata", "", "Directory of per-token metadata JSON")

	RootCmd.AddCommand(cmd)
}

type setupOutput struct {
	OK        bool       `json:"ok"`
	SessionID string     `json:"session_id,omitempty"`
	Stage     string     `json:"stage"`
	Traits    int        `json:"traits"`
	Images    int        `json:"images"`
	Metadata  int        `json:"metadata"`
	Message   ui.Message `json:"status"`
}

func runSetup(cmd *cobra.Command, args []string) {
	in := setup.Inputs{}
	in.TraitsPath, _ = cmd.Flags().GetString("traits")
	in.ImageMapPath, _ = cmd.Flags().GetString("image-map")
	in.OverallSchemaPath, _ = cmd.Flags().GetString("overall-schema")
	in.TraitSchemaPath, _ = cmd.Flags().GetString("trait-schema")
	in.ImagesDir, _ = cmd.Flags().GetString("images")
	in.MetadataDir, _ = cmd.Flags().GetString("metadata")

	logger := newLogger()
	res, err := setup.Load(cmd.Context(), in, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, setup.Describe(err))
		os.Exit(1)
	}
	defer res.Index.Close()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	m := training.New(s, training.WithLogger(logger))
	out := setupOutput{
		Traits:   len(res.Traits),
		Images:   res.Index.Len(),
		Metadata: res.Metadata,
	}

	err = m.Start(cmd.Context(), res.Traits, res.Project)
	if errors.Is(err, training.ErrNoTraits) {
		out.Stage = string(m.Stage())
		out.Message = ui.Error("Setup complete, but no traits found to train. Please check your traits JSON file.")
		emit(cmd, out, out.Message)
		s.Close()
		res.Index.Close()
		os.Exit(exitNoTraits)
	}
	if err != nil {
		exitErr("start", err)
	}

	out.OK = true
	out.SessionID = m.Session().ID()
	out.Stage = string(m.Stage())
	out.Message = ui.Success("Training started! Select example images for each trait.")
	emit(cmd, out, out.Message,
		fmt.Sprintf("%d traits, %d images, %d metadata files", out.Traits, out.Images, out.Metadata))
}
