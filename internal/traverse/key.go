package traverse

// reorderKey identifies a position in the virtual single-threaded walk. The
// comparison is subtree-first: element-wise over the common prefix, and on
// prefix equality the longer key is less, so a subtree drains before its
// parent's continuation.
type reorderKey []int

// compare returns -1, 0 or 1 ordering k against o.
func (k reorderKey) compare(o reorderKey) int {
	n := len(k)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		switch {
		case k[i] < o[i]:
			return -1
		case k[i] > o[i]:
			return 1
		}
	}
	// longer key is lesser
	switch {
	case len(k) > len(o):
		return -1
	case len(k) < len(o):
		return 1
	}
	return 0
}

func (k reorderKey) less(o reorderKey) bool { return k.compare(o) < 0 }

// clone returns an independent copy; keys handed to other owners must never
// share a backing array with a key that inc will mutate.
func (k reorderKey) clone() reorderKey {
	c := make(reorderKey, len(k))
	copy(c, k)
	return c
}

// child returns a copy extended by a fresh child frame.
func (k reorderKey) child() reorderKey {
	c := make(reorderKey, len(k)+1)
	copy(c, k)
	return c
}

// next returns a copy keyed at the following sibling position.
func (k reorderKey) next() reorderKey {
	c := k.clone()
	c[len(c)-1]++
	return c
}

// inc bumps the key in place to the following sibling position.
func (k reorderKey) inc() {
	k[len(k)-1]++
}
