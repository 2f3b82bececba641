// Package usage accumulates size accounting for the du method.
package usage

import (
	"sync"
	"sync/atomic"

	"github.com/michaelscutari/paradt/internal/entry"
)

type inodeKey struct {
	dev uint64
	ino uint64
}

// Tally aggregates entry statistics during a traversal. Counter updates use
// atomics; the hard-link set has its own lock so Summary can be read while a
// traversal is still feeding the tally.
type Tally struct {
	files  int64
	dirs   int64
	others int64
	size   int64
	blocks int64

	countInode bool
	mu         sync.Mutex
	seen       map[inodeKey]struct{}
}

// Summary is a point-in-time snapshot of a tally.
type Summary struct {
	Files       int64
	Dirs        int64
	Others      int64
	TotalSize   int64 // Apparent size
	TotalBlocks int64 // Disk usage
}

// NewTally creates a tally. With countInode set, each inode object is counted
// once and second and subsequent hard links are skipped.
func NewTally(countInode bool) *Tally {
	t := &Tally{countInode: countInode}
	if countInode {
		t.seen = make(map[inodeKey]struct{})
	}
	return t
}

// Add accounts one entry.
func (t *Tally) Add(st entry.Stat, kind entry.Kind) {
	if t.countInode && st.Nlink > 1 && kind != entry.KindDir {
		k := inodeKey{dev: st.DevID, ino: st.Inode}
		t.mu.Lock()
		_, dup := t.seen[k]
		if !dup {
			t.seen[k] = struct{}{}
		}
		t.mu.Unlock()
		if dup {
			return
		}
	}

	switch kind {
	case entry.KindFile:
		atomic.AddInt64(&t.files, 1)
	case entry.KindDir:
		atomic.AddInt64(&t.dirs, 1)
	default:
		atomic.AddInt64(&t.others, 1)
	}
	atomic.AddInt64(&t.size, st.Size)
	atomic.AddInt64(&t.blocks, st.Blocks)
}

// Summary returns the current totals.
func (t *Tally) Summary() Summary {
	return Summary{
		Files:       atomic.LoadInt64(&t.files),
		Dirs:        atomic.LoadInt64(&t.dirs),
		Others:      atomic.LoadInt64(&t.others),
		TotalSize:   atomic.LoadInt64(&t.size),
		TotalBlocks: atomic.LoadInt64(&t.blocks),
	}
}
