package traverse

import (
	"fmt"
	"io"
	"strings"

	"github.com/michaelscutari/paradt/internal/dirfd"
	"github.com/michaelscutari/paradt/internal/entry"
	"github.com/michaelscutari/paradt/internal/usage"
)

// Sink receives the side effects of post-processing actions. Actions are
// applied one at a time across the whole traversal (the dependency chain
// serializes flushes), so Out needs no locking of its own.
type Sink struct {
	Out   io.Writer
	Tally *usage.Tally
}

// Action is one deferred per-entry side effect. Actions run in append order
// within their frame and must not block on anything outside the traversal.
type Action interface {
	run(s *Sink) error
}

// WriteError reports a failed action write; it is fatal to the worker that
// applies it.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write output: %v", e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// showAction writes the raw path bytes followed by a newline.
type showAction []byte

func (a showAction) run(s *Sink) error {
	if _, err := s.Out.Write(append(a, '\n')); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// accountAction feeds one stat record into the usage tally.
type accountAction struct {
	st   entry.Stat
	kind entry.Kind
}

func (a accountAction) run(s *Sink) error {
	s.Tally.Add(a.st, a.kind)
	return nil
}

// Operator builds the deferred post-processing action for one directory
// entry. Returning a nil Action means the entry produces no output.
type Operator interface {
	Action(d *dirfd.Handle, name string, kind entry.Kind) (Action, error)
}

// ListOperator implements the list method: every entry's path, one per line.
type ListOperator struct{}

func (ListOperator) Action(d *dirfd.Handle, name string, kind entry.Kind) (Action, error) {
	return showAction(d.EntryPath(name)), nil
}

// DuOperator implements the du method: stat every entry at enumeration time
// and defer the accounting.
type DuOperator struct {
	Tally  *usage.Tally
	Follow bool
}

func (o DuOperator) Action(d *dirfd.Handle, name string, kind entry.Kind) (Action, error) {
	st, err := d.Stat(name, o.Follow && kind == entry.KindSymlink)
	if err != nil {
		return nil, err
	}
	return accountAction{st: st, kind: kind}, nil
}

// StatOperator implements the dump-stat method: one tab-separated stat record
// per entry, preformatted at enumeration time so the deferred action is a
// plain write.
type StatOperator struct {
	GetXattr bool
	Follow   bool
}

func (o StatOperator) Action(d *dirfd.Handle, name string, kind entry.Kind) (Action, error) {
	st, err := d.Stat(name, o.Follow && kind == entry.KindSymlink)
	if err != nil {
		return nil, err
	}
	rec := fmt.Sprintf("%s\t%s\tmode=%04o\tsize=%d\tblocks=%d\tuid=%d\tgid=%d\tnlink=%d\tmtime=%d",
		d.EntryPath(name), kind, st.Mode&0o7777, st.Size, st.Blocks, st.UID, st.GID, st.Nlink, st.ModTime.Unix())
	if o.GetXattr {
		names, err := d.ListXattr(name)
		if err != nil {
			return nil, err
		}
		rec += "\txattr=" + strings.Join(names, ",")
	}
	return showAction(rec), nil
}
