package traverse

import "container/heap"

// pendingBatch binds the deferred actions of one directory frame to the latch
// that must fire before they may run (pred) and the latch to fire once they
// have run (succ). While current is set the owning worker is still appending
// actions for the directory it is presently reading.
type pendingBatch struct {
	current bool
	pred    *depChain
	succ    *depChain
	actions []Action
	key     reorderKey
}

// fixup binds the outgoing successor once the worker moves past this frame.
func (b *pendingBatch) fixup(succ *depChain) {
	b.succ = succ
	b.current = false
}

// pendingSet is the worker-local ordered set of pending batches, keyed by
// reorder key. Only the owning worker touches it.
type pendingSet struct {
	h batchHeap
}

func (s *pendingSet) insert(b *pendingBatch) { heap.Push(&s.h, b) }

func (s *pendingSet) first() *pendingBatch {
	if len(s.h) == 0 {
		return nil
	}
	return s.h[0]
}

func (s *pendingSet) popFirst() *pendingBatch {
	return heap.Pop(&s.h).(*pendingBatch)
}

func (s *pendingSet) len() int { return len(s.h) }

type batchHeap []*pendingBatch

func (h batchHeap) Len() int           { return len(h) }
func (h batchHeap) Less(i, j int) bool { return h[i].key.less(h[j].key) }
func (h batchHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *batchHeap) Push(x any) { *h = append(*h, x.(*pendingBatch)) }

func (h *batchHeap) Pop() any {
	old := *h
	n := len(old)
	b := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return b
}
