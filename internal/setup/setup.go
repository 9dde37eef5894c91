// Package setup loads and validates everything a training session needs.
//
// The four JSON documents and the image directory are read concurrently.
// Any failure aborts the whole load, so a caller either gets a complete
// Result or an error and never a partial one.
package setup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/trait-trainer/internal/corpus"
	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/traits"
)

// Inputs names the files and directories chosen by the operator.
type Inputs struct {
	TraitsPath        string `validate:"required"`
	ImageMapPath      string `validate:"required"`
	OverallSchemaPath string `validate:"required"`
	TraitSchemaPath   string `validate:"required"`
	ImagesDir         string `validate:"required"`
	MetadataDir       string
}

// Result is a fully loaded setup. The caller owns Index and must Close it.
type Result struct {
	Traits   []model.TraitUnit
	Project  model.ProjectMetadata
	Index    *corpus.Index
	Metadata int
}

// InputError reports a missing, unreadable or malformed input.
type InputError struct {
	Document string
	Reasons  []string
	Err      error
}

func (e *InputError) Error() string {
	var b strings.Builder
	b.WriteString(e.Document)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Reasons) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Reasons, "; "))
	}
	return b.String()
}

func (e *InputError) Unwrap() error { return e.Err }

var validate = validator.New(validator.WithRequiredStructEnabled())

// documentNames maps Inputs fields to the names shown to the operator.
var documentNames = map[string]string{
	"TraitsPath":        "traits file",
	"ImageMapPath":      "image map file",
	"OverallSchemaPath": "overall schema file",
	"TraitSchemaPath":   "trait schema file",
	"ImagesDir":         "images directory",
}

// Check reports the first missing required input.
func (in Inputs) Check() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		name := documentNames[verrs[0].Field()]
		return &InputError{Document: name, Err: errors.New("not selected")}
	}
	return err
}

// Load reads and validates every input. Trait flattening happens here too;
// an empty trait list is not an error at this stage.
func Load(ctx context.Context, in Inputs, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := in.Check(); err != nil {
		return nil, err
	}

	var (
		traitsDoc, imageMap, overall, traitSchema []byte
		index                                     *corpus.Index
		metadata                                  int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		traitsDoc, err = readDocument(ctx, "traits file", in.TraitsPath, traits.ValidateTraits)
		return err
	})
	g.Go(func() (err error) {
		imageMap, err = readDocument(ctx, "image map file", in.ImageMapPath, traits.ValidateImageMap)
		return err
	})
	g.Go(func() (err error) {
		overall, err = readDocument(ctx, "overall schema file", in.OverallSchemaPath, traits.ValidateSchema)
		return err
	})
	g.Go(func() (err error) {
		traitSchema, err = readDocument(ctx, "trait schema file", in.TraitSchemaPath, traits.ValidateSchema)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx, err := corpus.Build(os.DirFS(in.ImagesDir), ".", logger)
		if err != nil {
			return &InputError{Document: "images directory", Err: err}
		}
		index = idx
		return nil
	})
	if in.MetadataDir != "" {
		g.Go(func() error {
			md, err := corpus.ReadMetadata(os.DirFS(in.MetadataDir), ".", logger)
			if err != nil {
				return &InputError{Document: "metadata directory", Err: err}
			}
			metadata = len(md)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		index.Close()
		return nil, err
	}

	mapping, err := traits.ParseMapping(traitsDoc)
	if err != nil {
		index.Close()
		return nil, &InputError{Document: "traits file", Err: err}
	}
	units := traits.Load(mapping, logger)

	logger.Info("setup loaded",
		"traits", len(units), "images", index.Len(), "metadata", metadata)

	return &Result{
		Traits: units,
		Project: model.ProjectMetadata{
			ImageMap:      json.RawMessage(imageMap),
			OverallSchema: json.RawMessage(overall),
			TraitSchema:   json.RawMessage(traitSchema),
			ImagesPath:    absPath(in.ImagesDir),
			MetadataPath:  absPath(in.MetadataDir),
		},
		Index:    index,
		Metadata: metadata,
	}, nil
}

func readDocument(ctx context.Context, name, path string, check func([]byte) traits.Result) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Document: name, Err: err}
	}
	if res := check(b); !res.Valid {
		return nil, &InputError{Document: name, Err: errors.New("invalid format"), Reasons: res.Errors}
	}
	return b, nil
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Describe formats err for the operator.
func Describe(err error) string {
	var ie *InputError
	if errors.As(err, &ie) {
		return fmt.Sprintf("Error during setup: %s", ie.Error())
	}
	return fmt.Sprintf("Error during setup: %v", err)
}
