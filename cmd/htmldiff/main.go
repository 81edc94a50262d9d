// Command htmldiff wires the diff engine (github.com/dpotapov/htmldiff) to
// the filesystem: render a diff to stdout, serve a live-updating view of
// two files, or export a machine-readable change report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	console "github.com/ansel1/console-slog"
	"log/slog"

	"github.com/dpotapov/htmldiff"
	"github.com/dpotapov/htmldiff/internal/config"
)

var (
	configPath     string
	diffIDAttrFlag string
	noMerge        bool
	bulkThreshold  float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "htmldiff",
		Short:         "Structural HTML diff engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&diffIDAttrFlag, "diff-id-attr", "", "override the diff group id attribute name")
	root.PersistentFlags().BoolVar(&noMerge, "no-merge", false, "disable the adjacent change-tag merge pass")
	root.PersistentFlags().Float64Var(&bulkThreshold, "bulk-threshold", 0, "override the bulk-replace similarity threshold")

	root.AddCommand(newDiffCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newReportCmd())
	return root
}

// resolveConfig loads --config (if given) and applies the global flag
// overrides on top, so flags win over the file.
func resolveConfig(cmd *cobra.Command) (htmldiff.Config, error) {
	cfg := htmldiff.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if diffIDAttrFlag != "" {
		cfg.DiffIDAttr = diffIDAttrFlag
	}
	if noMerge {
		cfg.MergeAdjacentChangeTags = false
	}
	if cmd.Flags().Changed("bulk-threshold") {
		cfg.BulkReplaceSimilarityThresh = bulkThreshold
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	return slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{Level: slog.LevelInfo}))
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
