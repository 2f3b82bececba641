package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/paradt/internal/traverse"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Dump all entry paths, like find",
	Long:  `Walk the tree and write every entry's path to stdout, one per line.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	opts, root, err := buildOptions()
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	sink := &traverse.Sink{Out: out}

	runErr := traverse.Run(root, opts, traverse.ListOperator{}, sink)
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush output: %w", err)
	}
	return runErr
}
