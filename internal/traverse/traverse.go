// Package traverse implements a parallel directory walk whose output order is
// identical to a single-threaded depth-first walk. Workers advertise idleness
// on a shared queue; a busy worker probes it non-blockingly when it meets a
// subdirectory and, on a hit, splices the hand-off into its ordering chain
// with a pair of dependency latches. Deferred per-entry actions drain in
// reorder-key order, so the interleaving of workers never shows in the
// output.
package traverse

import (
	"fmt"
	"os"
	"sync"
)

// Traverser owns the worker pool and the free-worker handshake queue.
type Traverser struct {
	opts      *Options
	free      chan chan task
	workers   []*worker
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New starts the worker pool. Workers idle on the free queue until Run seeds
// the root task.
func New(opts *Options, op Operator, sink *Sink) *Traverser {
	if opts == nil {
		opts = DefaultOptions()
	}
	n := opts.NumThreads
	if n < 1 {
		n = 1
	}
	// Each worker has at most one outstanding advertisement, so the free
	// queue never blocks a publisher.
	t := &Traverser{opts: opts, free: make(chan chan task, n)}
	for i := 0; i < n; i++ {
		w := newWorker(i, opts, op, sink, t.free)
		t.workers = append(t.workers, w)
		t.wg.Add(1)
		go func(w *worker) {
			defer t.wg.Done()
			w.run()
		}(w)
	}
	return t
}

// Run seeds the root directory into one free worker, waits for the terminal
// dependency to fire, then shuts the pool down. It returns the first error
// any worker recorded.
func (t *Traverser) Run(root string) error {
	finalDep := newDepChain()
	rootPre := newDepChain()
	rootPre.complete()

	ft := <-t.free
	ft <- task{
		path: root,
		pred: rootPre,
		succ: finalDep,
		key:  reorderKey{0},
	}

	if t.opts.Verbose {
		fmt.Fprintf(os.Stderr, "[POOL] SEEDED root=%s workers=%d\n", root, len(t.workers))
	}

	finalDep.wait()
	return t.Close()
}

// Close sends quit to every worker exactly once and joins them. Safe to call
// more than once. A quit is delivered only to a worker that has advertised
// idleness, so no in-flight task is interrupted.
func (t *Traverser) Close() error {
	t.closeOnce.Do(func() {
		for range t.workers {
			ft := <-t.free
			ft <- task{quit: true}
		}
		t.wg.Wait()
		for _, w := range t.workers {
			if w.err != nil {
				t.closeErr = w.err
				break
			}
		}
	})
	return t.closeErr
}

// Run is the one-shot convenience entry point: build a pool, traverse root,
// tear down.
func Run(root string, opts *Options, op Operator, sink *Sink) error {
	return New(opts, op, sink).Run(root)
}
