package traverse

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/michaelscutari/paradt/internal/usage"
)

func TestDuOperatorEndToEnd(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "f1"), bytes.Repeat([]byte("a"), 100), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "f2"), bytes.Repeat([]byte("b"), 50), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tally := usage.NewTally(true)
	op := DuOperator{Tally: tally}
	if err := Run(root, DefaultOptions().WithNumThreads(4), op, &Sink{Tally: tally}); err != nil {
		t.Fatalf("traverse: %v", err)
	}

	s := tally.Summary()
	if s.Files != 2 {
		t.Fatalf("files: got %d, want 2", s.Files)
	}
	if s.Dirs != 1 {
		t.Fatalf("dirs: got %d, want 1", s.Dirs)
	}
	if s.TotalSize < 150 {
		t.Fatalf("total size: got %d, want at least 150", s.TotalSize)
	}
}

func TestDuOperatorHardLinks(t *testing.T) {
	root := t.TempDir()
	orig := filepath.Join(root, "orig")
	if err := os.WriteFile(orig, bytes.Repeat([]byte("a"), 64), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Link(orig, filepath.Join(root, "hard")); err != nil {
		t.Fatalf("link: %v", err)
	}

	tally := usage.NewTally(true)
	if err := Run(root, DefaultOptions().WithNumThreads(2), DuOperator{Tally: tally}, &Sink{Tally: tally}); err != nil {
		t.Fatalf("traverse: %v", err)
	}
	if s := tally.Summary(); s.Files != 1 || s.TotalSize != 64 {
		t.Fatalf("hard link counted twice: %+v", s)
	}

	tally = usage.NewTally(false)
	if err := Run(root, DefaultOptions().WithNumThreads(2), DuOperator{Tally: tally}, &Sink{Tally: tally}); err != nil {
		t.Fatalf("traverse: %v", err)
	}
	if s := tally.Summary(); s.Files != 2 || s.TotalSize != 128 {
		t.Fatalf("inode counting off: %+v", s)
	}
}

func TestStatOperatorRecords(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "f"), []byte("hello"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	op := StatOperator{}
	if err := Run(root, DefaultOptions().WithNumThreads(2), op, &Sink{Out: &buf}); err != nil {
		t.Fatalf("traverse: %v", err)
	}

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		t.Fatalf("record has %d fields: %q", len(fields), line)
	}
	if fields[0] != filepath.Join(root, "f") {
		t.Fatalf("path field: %q", fields[0])
	}
	if fields[1] != "file" {
		t.Fatalf("kind field: %q", fields[1])
	}
	if fields[3] != "size=5" {
		t.Fatalf("size field: %q", fields[3])
	}
}

func TestStatOperatorXattrField(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "f"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	op := StatOperator{GetXattr: true}
	if err := Run(root, DefaultOptions().WithNumThreads(1), op, &Sink{Out: &buf}); err != nil {
		t.Fatalf("traverse: %v", err)
	}
	if !strings.Contains(buf.String(), "\txattr=") {
		t.Fatalf("missing xattr field: %q", buf.String())
	}
}

func TestShowActionWritesRawPathBytes(t *testing.T) {
	var buf bytes.Buffer
	s := &Sink{Out: &buf}
	if err := (showAction("a b\tc")).run(s); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := buf.String(); got != "a b\tc\n" {
		t.Fatalf("show output: %q", got)
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, fmt.Errorf("disk full") }

func TestShowActionWriteFailure(t *testing.T) {
	s := &Sink{Out: failWriter{}}
	err := (showAction("x")).run(s)
	if err == nil {
		t.Fatal("expected a write error")
	}
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got %T", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("cause not preserved: %v", err)
	}
}
