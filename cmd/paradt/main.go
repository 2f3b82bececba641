package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/paradt/internal/pathutil"
	"github.com/michaelscutari/paradt/internal/traverse"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "paradt",
	Short: "Parallel directory traversal with deterministic output order",
	Long: `paradt walks a directory tree on a pool of workers while keeping the
output byte-identical to a single-threaded depth-first walk. Subcommands
select what is done per entry: list paths, account sizes, or dump stat
records. clone-directory accepts its flags but is not implemented and
always fails.`,
}

var (
	srcPath        string
	orderName      string
	numThreads     int
	direntBufSize  int
	maxIoreqDepth  int
	followSymlink  bool
	ignoreEaccess  bool
	verboseTracing bool
)

func init() {
	rootCmd.Version = version

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&srcPath, "src-path", "", "Root of the traversal")
	pf.StringVar(&orderName, "order", "alphabetical", "Intra-directory order: alphabetical|readdir|unordered")
	pf.IntVar(&numThreads, "num-threads", 4, "Number of traverse workers")
	pf.IntVar(&direntBufSize, "readdir-dirent-buffer-size", 64, "Entries read per getdents batch")
	pf.IntVar(&maxIoreqDepth, "max-ioreq-depth", 32, "Queue depth for the async stat backend (reserved)")
	pf.BoolVar(&followSymlink, "follow-symlink", false, "Classify symlinks by their target")
	pf.BoolVar(&ignoreEaccess, "ignore-eaccess", false, "Skip subtrees whose open fails with permission denied")
	pf.BoolVarP(&verboseTracing, "verbose", "v", false, "Enable scheduler tracing on stderr")
	_ = rootCmd.MarkPersistentFlagRequired("src-path")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(duCmd)
	rootCmd.AddCommand(dumpStatCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(dryRunCmd)
}

// buildOptions resolves the shared flags into traversal options and the
// normalized root path.
func buildOptions() (*traverse.Options, string, error) {
	order, err := traverse.ParseOrder(orderName)
	if err != nil {
		return nil, "", err
	}
	opts := traverse.DefaultOptions().
		WithOrder(order).
		WithNumThreads(numThreads).
		WithIgnoreEaccess(ignoreEaccess).
		WithFollowSymlink(followSymlink).
		WithVerbose(verboseTracing)
	opts.DirentBufferSize = direntBufSize
	opts.MaxIoreqDepth = maxIoreqDepth
	return opts, pathutil.Normalize(srcPath), nil
}
