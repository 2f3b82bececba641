package traverse

import "testing"

func TestReorderKeyCompare(t *testing.T) {
	cases := []struct {
		name string
		l, r reorderKey
		want int
	}{
		{"equal empty", reorderKey{}, reorderKey{}, 0},
		{"equal", reorderKey{1, 2}, reorderKey{1, 2}, 0},
		{"element order", reorderKey{0}, reorderKey{1}, -1},
		{"element order deep", reorderKey{1, 0, 5}, reorderKey{1, 0, 7}, -1},
		{"element beats length", reorderKey{0, 9, 9}, reorderKey{1}, -1},
		{"longer is lesser", reorderKey{0, 0}, reorderKey{0}, -1},
		{"longer is lesser deep", reorderKey{2, 1, 0, 0}, reorderKey{2, 1}, -1},
		{"prefix flipped", reorderKey{3}, reorderKey{3, 0}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.l.compare(tc.r); got != tc.want {
				t.Fatalf("compare(%v, %v) = %d, want %d", tc.l, tc.r, got, tc.want)
			}
			if got := tc.r.compare(tc.l); got != -tc.want {
				t.Fatalf("compare(%v, %v) = %d, want %d", tc.r, tc.l, got, -tc.want)
			}
		})
	}
}

func TestReorderKeyTotalOrder(t *testing.T) {
	// The drain order of a two-child hand-off: parent frame, first child
	// subtree, continuation, second child subtree, continuation.
	seq := []reorderKey{
		{0},
		{1, 0},
		{1},
		{2, 0},
		{2},
	}
	for i := 0; i < len(seq)-1; i++ {
		if !seq[i].less(seq[i+1]) {
			t.Fatalf("expected %v < %v", seq[i], seq[i+1])
		}
	}
}

func TestReorderKeyDerivation(t *testing.T) {
	k := reorderKey{1, 2}

	child := k.child()
	if got, want := child.compare(reorderKey{1, 2, 0}), 0; got != want {
		t.Fatalf("child() = %v", child)
	}
	if !child.less(k) {
		t.Fatalf("child %v must order before parent tail %v", child, k)
	}

	next := k.next()
	if got := next.compare(reorderKey{1, 3}); got != 0 {
		t.Fatalf("next() = %v", next)
	}

	// Derived keys must not alias the original.
	child.inc()
	next.inc()
	if k.compare(reorderKey{1, 2}) != 0 {
		t.Fatalf("original mutated: %v", k)
	}

	k.inc()
	if k.compare(reorderKey{1, 3}) != 0 {
		t.Fatalf("inc() = %v", k)
	}
}
