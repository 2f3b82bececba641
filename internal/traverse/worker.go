package traverse

import (
	"fmt"
	"os"
	"sort"

	"github.com/michaelscutari/paradt/internal/dirfd"
	"github.com/michaelscutari/paradt/internal/entry"
)

// task is one unit of work delivered through a worker's inbound channel.
// quit is the shutdown sentinel; otherwise the task is a directory read
// spliced into the ordering chain by pred/succ and positioned by key.
type task struct {
	quit   bool
	parent *dirfd.Handle // nil when path is the traversal root
	path   string        // entry name relative to parent, or the root path
	pred   *depChain
	succ   *depChain
	key    reorderKey
}

// worker owns one pending set and drains it in key order. It advertises its
// inbound channel on the free queue whenever it can accept a task.
type worker struct {
	id   int
	opts *Options
	op   Operator
	sink *Sink

	free  chan chan task
	tasks chan task

	pendings   pendingSet
	current    *pendingBatch
	currentKey reorderKey

	// err is the sticky failure; once set the worker ignores the body of
	// further tasks but keeps pumping and firing successors.
	err error
}

func newWorker(id int, opts *Options, op Operator, sink *Sink, free chan chan task) *worker {
	return &worker{
		id:    id,
		opts:  opts,
		op:    op,
		sink:  sink,
		free:  free,
		tasks: make(chan task, 1),
		current: &pendingBatch{
			current: true,
			pred:    newDummyChain(),
			succ:    newDummyChain(),
		},
	}
}

// run is the worker main loop: advertise idleness, pump the pending set, and
// block on whichever of the head predecessor or the inbound channel fires
// first.
func (w *worker) run() {
	if w.opts.Verbose {
		fmt.Fprintf(os.Stderr, "[W%d] STARTED\n", w.id)
	}
	for {
		w.free <- w.tasks

		var tv task
	pumpLoop:
		for {
			idle, waitCh := w.pump(true)
			if idle {
				tv = <-w.tasks
				break
			}
			select {
			case <-waitCh:
				continue
			case tv = <-w.tasks:
				break pumpLoop
			}
		}

		if tv.quit {
			if w.opts.Verbose {
				fmt.Fprintf(os.Stderr, "[W%d] QUIT pendings=%d err=%v\n", w.id, w.pendings.len(), w.err)
			}
			return
		}

		if w.err != nil {
			// Sticky failure: drop the subtree but release its successor so
			// dependent drains elsewhere can finish.
			if w.opts.Verbose {
				fmt.Fprintf(os.Stderr, "[W%d] STICKY-SKIP path=%s\n", w.id, tv.path)
			}
			if tv.parent != nil {
				tv.parent.Close()
			}
			tv.succ.complete()
			continue
		}

		if err := w.run1(tv); err != nil {
			w.stick(err)
		}
	}
}

// pump drains ready batches from the front of the pending set in key order.
// It returns idle=true when nothing ordered-earlier remains buffered, or a
// wait channel for the head predecessor otherwise.
func (w *worker) pump(getWait bool) (bool, <-chan struct{}) {
	for {
		head := w.pendings.first()
		if head == nil {
			w.flushBatch(w.current)
			return true, nil
		}
		done, waitCh := head.pred.poll(getWait)
		if !done {
			return false, waitCh
		}
		if head.current {
			w.flushBatch(head)
			return true, nil
		}
		w.pendings.popFirst()
		w.flushBatch(head)
		head.succ.complete()
	}
}

// flushBatch applies the batch's actions in append order. A write failure
// sticks to the worker and drops the rest of the batch; successors still
// fire so the traversal terminates.
func (w *worker) flushBatch(b *pendingBatch) {
	acts := b.actions
	b.actions = nil
	for _, a := range acts {
		if w.err != nil {
			return
		}
		if err := a.run(w.sink); err != nil {
			w.stick(err)
		}
	}
}

func (w *worker) stick(err error) {
	if w.err == nil {
		w.err = err
		if w.opts.Verbose {
			fmt.Fprintf(os.Stderr, "[W%d] ERROR %v\n", w.id, err)
		}
	}
}

// pushPostproc defers one action into the current frame. If, after a pump
// step, the frame's predecessor has already fired, the queued actions flush
// and the new action applies immediately instead of buffering.
func (w *worker) pushPostproc(a Action) error {
	w.pump(false)
	cur := w.current
	if done, _ := cur.pred.poll(false); done {
		w.flushBatch(cur)
		if w.err != nil {
			return w.err
		}
		if err := a.run(w.sink); err != nil {
			w.stick(err)
			return err
		}
	} else {
		cur.actions = append(cur.actions, a)
	}
	return nil
}

// genChain splices a hand-off into the worker's ordering chain: the old
// current frame's successor becomes the child's predecessor, and a fresh
// continuation frame keyed at the current sibling position waits on the
// child's successor.
func (w *worker) genChain() (pred, succ *depChain, childKey reorderKey) {
	pred = newDepChain()
	succ = newDepChain()

	next := &pendingBatch{
		current: true,
		pred:    succ,
		succ:    newDummyChain(),
		key:     w.currentKey.clone(),
	}

	w.current.fixup(pred)
	w.current = next
	w.pendings.insert(next)

	childKey = w.currentKey.child()
	w.currentKey.inc()
	return pred, succ, childKey
}

// run1 executes one directory-read task end to end.
func (w *worker) run1(t task) error {
	cur := &pendingBatch{
		current: true,
		pred:    t.pred,
		succ:    newDummyChain(),
		key:     t.key,
	}
	w.currentKey = t.key.next()
	w.pendings.insert(cur)
	w.current = cur

	err := w.traverseDir(t.parent, t.path)
	if t.parent != nil {
		t.parent.Close()
	}

	// The caller-provided successor fires regardless of err, otherwise a
	// failure here would strand every frame ordered after this subtree.
	w.current.fixup(t.succ)
	w.pump(false)
	return err
}

// traverseDir reads one directory, defers an action per entry, and either
// hands subdirectories to an idle peer or recurses locally.
func (w *worker) traverseDir(parent *dirfd.Handle, path string) error {
	var d *dirfd.Handle
	var err error
	if parent != nil {
		d, err = parent.OpenChild(path)
	} else {
		d, err = dirfd.OpenRoot(path)
	}
	if err != nil {
		if w.opts.ignorableOpen(err) {
			if w.opts.Verbose {
				fmt.Fprintf(os.Stderr, "[W%d] SKIP-EACCES path=%s\n", w.id, path)
			}
			return nil
		}
		return err
	}
	defer d.Close()

	ents, err := d.ReadAll(w.opts.DirentBufferSize)
	if err != nil {
		return err
	}

	if w.opts.Order == OrderAlphabetical {
		sort.Slice(ents, func(i, j int) bool { return ents[i].Name() < ents[j].Name() })
	}

	for _, de := range ents {
		if w.err != nil {
			return w.err
		}

		kind := w.entryKind(d, de)

		if w.op != nil {
			a, err := w.op.Action(d, de.Name(), kind)
			if err != nil {
				return err
			}
			if a != nil {
				if err := w.pushPostproc(a); err != nil {
					return err
				}
			}
		}

		if kind != entry.KindDir {
			continue
		}

		select {
		case peer := <-w.free:
			w.pump(false)
			pred, succ, childKey := w.genChain()
			if w.opts.Verbose {
				fmt.Fprintf(os.Stderr, "[W%d] HANDOFF path=%s key=%v\n", w.id, d.EntryPath(de.Name()), childKey)
			}
			peer <- task{
				parent: d.Ref(),
				path:   de.Name(),
				pred:   pred,
				succ:   succ,
				key:    childKey,
			}
		default:
			if err := w.traverseDir(d, de.Name()); err != nil {
				return err
			}
		}
	}

	return nil
}

// entryKind classifies one enumerated entry. With follow-symlink set,
// symlinks are classified by their target; a broken link stays a symlink.
func (w *worker) entryKind(d *dirfd.Handle, de os.DirEntry) entry.Kind {
	kind := entry.KindFromMode(de.Type())
	if kind == entry.KindSymlink && w.opts.FollowSymlink {
		st, err := d.Stat(de.Name(), true)
		if err == nil {
			kind = entry.KindFromStatMode(st.Mode)
		}
	}
	return kind
}
