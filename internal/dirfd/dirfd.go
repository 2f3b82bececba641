// Package dirfd wraps a directory file descriptor so child directories can be
// opened relative to their parent (openat) and entry metadata fetched without
// re-walking the path. Handles are reference-counted because a traversal
// hand-off carries the parent handle to another goroutine.
package dirfd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/michaelscutari/paradt/internal/entry"
	"github.com/michaelscutari/paradt/internal/pathutil"
)

// OpenError reports a failed directory open. Err is the underlying OS error.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open directory %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ReadError reports a failed enumeration at a specific entry position.
type ReadError struct {
	Path string
	Pos  int
	Err  error
}

func (e *ReadError) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("read directory %s at entry %d: %v", e.Path, e.Pos, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Handle is an open directory. The underlying descriptor is not safe for
// concurrent enumeration, so interior access is mutex-guarded; the handle
// itself is cheap to share across goroutines via Ref.
type Handle struct {
	mu   sync.Mutex
	f    *os.File
	path string
	refs int32
}

// OpenRoot opens the traversal root.
func OpenRoot(path string) (*Handle, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Handle{f: os.NewFile(uintptr(fd), path), path: path, refs: 1}, nil
}

// OpenChild opens the named subdirectory relative to h.
func (h *Handle) OpenChild(name string) (*Handle, error) {
	childPath := pathutil.Child(h.path, name)
	h.mu.Lock()
	fd, err := unix.Openat(int(h.f.Fd()), name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	h.mu.Unlock()
	if err != nil {
		return nil, &OpenError{Path: childPath, Err: err}
	}
	return &Handle{f: os.NewFile(uintptr(fd), childPath), path: childPath, refs: 1}, nil
}

// Path returns the directory path as derived from the root argument.
func (h *Handle) Path() string { return h.path }

// EntryPath returns the path of the named entry inside h.
func (h *Handle) EntryPath(name string) string {
	return pathutil.Child(h.path, name)
}

// ReadAll enumerates every entry in readdir order, reading batches of at most
// bufSize entries per getdents round trip. "." and ".." never appear.
func (h *Handle) ReadAll(bufSize int) ([]os.DirEntry, error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []os.DirEntry
	for {
		batch, err := h.f.ReadDir(bufSize)
		out = append(out, batch...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, &ReadError{Path: h.path, Pos: len(out), Err: err}
		}
	}
}

// Stat stats the named entry relative to h. With follow set, symlinks are
// resolved to their target.
func (h *Handle) Stat(name string, follow bool) (entry.Stat, error) {
	flags := unix.AT_SYMLINK_NOFOLLOW
	if follow {
		flags = 0
	}
	var st unix.Stat_t
	h.mu.Lock()
	err := unix.Fstatat(int(h.f.Fd()), name, &st, flags)
	h.mu.Unlock()
	if err != nil {
		return entry.Stat{}, &ReadError{Path: h.EntryPath(name), Err: err}
	}
	return entry.Stat{
		Size:    st.Size,
		Blocks:  st.Blocks * 512, // st_blocks is in 512-byte units
		Mode:    uint32(st.Mode),
		UID:     st.Uid,
		GID:     st.Gid,
		Nlink:   uint64(st.Nlink),
		DevID:   uint64(st.Dev),
		Inode:   st.Ino,
		ModTime: time.Unix(st.Mtim.Sec, st.Mtim.Nsec),
	}, nil
}

// ListXattr returns the extended attribute names of the named entry without
// following symlinks. Filesystems without xattr support report none.
func (h *Handle) ListXattr(name string) ([]string, error) {
	path := h.EntryPath(name)
	sz, err := unix.Llistxattr(path, nil)
	if err != nil {
		if err == unix.ENOTSUP {
			return nil, nil
		}
		return nil, &ReadError{Path: path, Err: err}
	}
	if sz == 0 {
		return nil, nil
	}
	buf := make([]byte, sz)
	sz, err = unix.Llistxattr(path, buf)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	names := strings.Split(strings.TrimRight(string(buf[:sz]), "\x00"), "\x00")
	if len(names) == 1 && names[0] == "" {
		return nil, nil
	}
	return names, nil
}

// Ref takes an additional reference on h for transfer to another goroutine.
func (h *Handle) Ref() *Handle {
	atomic.AddInt32(&h.refs, 1)
	return h
}

// Close drops one reference, closing the descriptor when the last holder is
// gone.
func (h *Handle) Close() error {
	if atomic.AddInt32(&h.refs, -1) > 0 {
		return nil
	}
	return h.f.Close()
}
