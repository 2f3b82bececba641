package traverse

import "sync"

// depChain is a one-shot completion latch. It starts unsignaled, transitions
// to completed exactly once, and broadcasts completion by closing a lazily
// created wait channel so any number of waiters observe readiness. The dummy
// variant is born completed and never allocates a channel.
type depChain struct {
	mu     sync.Mutex
	done   bool
	waitCh chan struct{}
}

func newDepChain() *depChain { return &depChain{} }

func newDummyChain() *depChain { return &depChain{done: true} }

// poll reports completion. When getWait is set and the chain is not yet
// completed, it returns a channel that is closed at completion time.
func (d *depChain) poll(getWait bool) (bool, <-chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return true, nil
	}
	if !getWait {
		return false, nil
	}
	if d.waitCh == nil {
		d.waitCh = make(chan struct{})
	}
	return false, d.waitCh
}

// complete marks the chain done and wakes every waiter. Completion is
// monotone; completing twice is a no-op.
func (d *depChain) complete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return
	}
	d.done = true
	if d.waitCh != nil {
		close(d.waitCh)
	}
}

// wait blocks until the chain completes.
func (d *depChain) wait() {
	done, ch := d.poll(true)
	if done {
		return
	}
	<-ch
}
