// Package cli implements the trait-trainer CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/trait-trainer/internal/logging"
	"github.com/rcliao/trait-trainer/internal/store"
	"github.com/rcliao/trait-trainer/internal/training"
	"github.com/rcliao/trait-trainer/internal/ui"
)

var (
	dbPath     string
	formatFlag string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "trait-trainer",
	Short: "Build labeled NFT trait training sets",
	Long: "Walk through every (trait type, value) pair, pick example images for each, " +
		"and export the associations as JSON. Progress is kept in SQLite between commands.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Progress database path (default: $TRAIT_TRAINER_DB or ~/.trait-trainer/progress.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("TRAIT_TRAINER_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trait-trainer", "progress.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func newLogger() *slog.Logger {
	l, err := logging.New(logLevel, os.Stderr)
	if err != nil {
		exitErr("log level", err)
	}
	return l
}

// openMachine opens the store and resumes any stored session.
func openMachine(cmd *cobra.Command) (*training.Machine, *store.SQLiteStore) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	m := training.New(s, training.WithLogger(newLogger()))
	if _, err := m.Resume(cmd.Context()); err != nil {
		s.Close()
		exitErr("resume", err)
	}
	return m, s
}

func requireSession(m *training.Machine) {
	if m.Session() == nil {
		exitErr("no session", errors.New("run `trait-trainer setup` first"))
	}
}

// emit writes v as JSON, or msg and text lines when --format=text.
func emit(cmd *cobra.Command, v any, msg ui.Message, text ...string) {
	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		for _, line := range text {
			fmt.Fprintln(out, line)
		}
		if r := msg.Render(); r != "" {
			fmt.Fprintln(out, r)
		}
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(out, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
