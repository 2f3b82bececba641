package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/paradt/internal/traverse"
	"github.com/michaelscutari/paradt/internal/usage"
)

var duCmd = &cobra.Command{
	Use:   "du",
	Short: "Count file sizes, like du",
	Long:  `Walk the tree accounting every entry's size and print a summary.`,
	RunE:  runDu,
}

var duCountInode bool

func init() {
	duCmd.Flags().BoolVar(&duCountInode, "count-inode", true, "Count each inode object once; skip second and subsequent hard links")
}

func runDu(cmd *cobra.Command, args []string) error {
	opts, root, err := buildOptions()
	if err != nil {
		return err
	}

	tally := usage.NewTally(duCountInode)
	sink := &traverse.Sink{Tally: tally}
	op := traverse.DuOperator{Tally: tally, Follow: followSymlink}

	if err := traverse.Run(root, opts, op, sink); err != nil {
		return err
	}

	s := tally.Summary()
	fmt.Printf("Files:         %s\n", humanize.Comma(s.Files))
	fmt.Printf("Directories:   %s\n", humanize.Comma(s.Dirs))
	if s.Others > 0 {
		fmt.Printf("Other:         %s\n", humanize.Comma(s.Others))
	}
	fmt.Printf("Apparent Size: %s\n", humanize.Bytes(uint64(s.TotalSize)))
	fmt.Printf("Disk Usage:    %s\n", humanize.Bytes(uint64(s.TotalBlocks)))
	return nil
}
