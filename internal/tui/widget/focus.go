package widget

// Focus tracks the focused row of a page. Movement stops at the ends.
type Focus struct {
	idx int
}

// Index returns the focused row, limited to n rows.
func (f Focus) Index(n int) int {
	if n <= 0 {
		return 0
	}

	return min(f.idx, n-1)
}

// Move shifts focus by delta within n rows.
func (f *Focus) Move(delta, n int) {
	f.idx = max(0, min(f.Index(n)+delta, n-1))
}
