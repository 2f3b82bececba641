package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/paradt/internal/traverse"
)

var dumpStatCmd = &cobra.Command{
	Use:   "dump-stat",
	Short: "Dump a stat record per entry",
	Long:  `Walk the tree and write one tab-separated stat record per entry.`,
	RunE:  runDumpStat,
}

var dumpStatXattr bool

func init() {
	dumpStatCmd.Flags().BoolVar(&dumpStatXattr, "get-xattr", false, "Append extended attribute names to each record")
}

func runDumpStat(cmd *cobra.Command, args []string) error {
	opts, root, err := buildOptions()
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	sink := &traverse.Sink{Out: out}
	op := traverse.StatOperator{GetXattr: dumpStatXattr, Follow: followSymlink}

	runErr := traverse.Run(root, opts, op, sink)
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush output: %w", err)
	}
	return runErr
}
