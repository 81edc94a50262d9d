package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpotapov/htmldiff"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff OLD.html NEW.html",
		Short: "Print the combined diff HTML to stdout",
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
			out, err := htmldiff.RenderDiff(oldHTML, newHTML, "div", "diff", cfg)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}
