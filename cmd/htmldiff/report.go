package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dpotapov/htmldiff"
	"github.com/dpotapov/htmldiff/internal/report"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report OLD.html NEW.html",
		Short: "Emit a machine-readable XML summary of the changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			oldHTML, err := readFile(args[0])
			if err != nil {
				return err
			}
			newHTML, err := readFile(args[1])
			if err != nil {
				return err
			}
			events, err := htmldiff.RenderDiffEvents(oldHTML, newHTML, "div", "diff", cfg)
			if err != nil {
				return err
			}
			changes := report.Collect(events, cfg.DiffIDAttr)
			return report.Write(os.Stdout, changes)
		},
	}
}
