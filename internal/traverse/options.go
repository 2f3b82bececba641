package traverse

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/michaelscutari/paradt/internal/dirfd"
)

// Order selects the intra-directory entry order.
type Order int

const (
	// OrderAlphabetical sorts entries by name before processing.
	OrderAlphabetical Order = iota
	// OrderReaddir keeps the enumeration order returned by the kernel.
	OrderReaddir
	// OrderUnordered makes no ordering promise beyond the scheduler's
	// per-directory determinism; it currently behaves like OrderReaddir.
	OrderUnordered
)

// ParseOrder converts a CLI order name.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "alphabetical":
		return OrderAlphabetical, nil
	case "readdir":
		return OrderReaddir, nil
	case "unordered":
		return OrderUnordered, nil
	}
	return 0, fmt.Errorf("invalid order %q (expected alphabetical|readdir|unordered)", s)
}

func (o Order) String() string {
	switch o {
	case OrderAlphabetical:
		return "alphabetical"
	case OrderReaddir:
		return "readdir"
	default:
		return "unordered"
	}
}

// Options configures the traversal behavior.
type Options struct {
	// NumThreads is the number of concurrent traverse workers.
	NumThreads int

	// Order is the intra-directory processing order.
	Order Order

	// DirentBufferSize is the number of entries read per getdents batch.
	DirentBufferSize int

	// MaxIoreqDepth is reserved for an async-stat backend; the readdir
	// backend does not use it.
	MaxIoreqDepth int

	// FollowSymlink classifies symlinks by their target, so symlinked
	// directories are traversed.
	FollowSymlink bool

	// IgnoreEaccess silently skips subtrees whose directory open fails
	// with permission denied.
	IgnoreEaccess bool

	// Verbose enables scheduler tracing on stderr.
	Verbose bool
}

// DefaultOptions returns sensible defaults for traversal.
func DefaultOptions() *Options {
	return &Options{
		NumThreads:       4,
		Order:            OrderAlphabetical,
		DirentBufferSize: 64,
		MaxIoreqDepth:    32,
	}
}

// WithNumThreads sets the worker count.
func (o *Options) WithNumThreads(n int) *Options {
	o.NumThreads = n
	return o
}

// WithOrder sets the intra-directory order.
func (o *Options) WithOrder(order Order) *Options {
	o.Order = order
	return o
}

// WithIgnoreEaccess sets permission-denied skip behavior.
func (o *Options) WithIgnoreEaccess(ignore bool) *Options {
	o.IgnoreEaccess = ignore
	return o
}

// WithFollowSymlink sets symlink-through classification.
func (o *Options) WithFollowSymlink(follow bool) *Options {
	o.FollowSymlink = follow
	return o
}

// WithVerbose enables scheduler tracing.
func (o *Options) WithVerbose(v bool) *Options {
	o.Verbose = v
	return o
}

// ignorableOpen reports whether a directory-open failure may be skipped
// instead of aborting the subtree.
func (o *Options) ignorableOpen(err error) bool {
	if !o.IgnoreEaccess {
		return false
	}
	var oe *dirfd.OpenError
	return errors.As(err, &oe) && errors.Is(oe.Err, fs.ErrPermission)
}
