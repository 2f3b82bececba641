package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone-directory",
	Short: "Clone the tree to another directory (not implemented; always fails)",
	RunE:  runClone,
}

var (
	cloneDst          string
	cloneODirect      bool
	cloneFallocate    bool
	cloneBufferLength uint64
)

func init() {
	cloneCmd.Flags().StringVar(&cloneDst, "dst", "", "Destination directory")
	cloneCmd.Flags().BoolVar(&cloneODirect, "use-o-direct", false, "Open data files with O_DIRECT")
	cloneCmd.Flags().BoolVar(&cloneFallocate, "use-fallocate", true, "Preallocate destination files")
	cloneCmd.Flags().Uint64Var(&cloneBufferLength, "buffer-byte-size", 1024*1024, "Copy buffer size in bytes")
	_ = cloneCmd.MarkFlagRequired("dst")
}

func runClone(cmd *cobra.Command, args []string) error {
	return fmt.Errorf("clone-directory is not implemented yet")
}
