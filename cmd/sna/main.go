// Package main provides the sna CLI: offline runs of the demo analyses over
// the datasets in the data root.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanshika/demolab/internal/config"
	"github.com/vanshika/demolab/internal/logging"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitConfigError = 2
	ExitDataError   = 3
	ExitUnavailable = 4
)

var (
	// humanOutput switches from JSON to plain text.
	humanOutput bool
	dataRoot    string
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sna",
	Short: "Run the demo analyses from the command line",
	Long: `sna runs the social network, grid search and sales model analyses
against the CSV datasets served by the demo API.

All commands output JSON by default; pass --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&dataRoot, "data-root", "", "Dataset directory (defaults to DATA_ROOT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

// mustLoadConfig resolves configuration and the data root, exits on error.
func mustLoadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if dataRoot != "" {
		cfg.Data.Root = dataRoot
	}
	return cfg
}

// newLogger discards logs unless --verbose is set.
func newLogger(cfg config.Config) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.Logging.File = ""
	return logging.New(cfg.Logging)
}
