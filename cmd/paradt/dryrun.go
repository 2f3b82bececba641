package main

import (
	"github.com/spf13/cobra"

	"github.com/michaelscutari/paradt/internal/traverse"
)

var dryRunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Walk the tree without producing output",
	Long:  `Run the traversal with no per-entry action. Useful for timing the scheduler itself.`,
	RunE:  runDryRun,
}

func runDryRun(cmd *cobra.Command, args []string) error {
	opts, root, err := buildOptions()
	if err != nil {
		return err
	}
	return traverse.Run(root, opts, nil, &traverse.Sink{})
}
