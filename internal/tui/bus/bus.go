// Package bus wires components into a tree where each level remaps its
// children's signals into its own signal type.
//
// A component emits signals while handling a toolkit message. Parents attach
// children with a Mapping; a mapped signal surfaces as exactly one parent
// signal, an unmapped one goes nowhere. At the root, signals land in a single
// FIFO Queue and are processed one at a time.
package bus

import tea "github.com/charmbracelet/bubbletea"

// Component handles toolkit messages and emits signals of type S.
type Component[S any] interface {
	Update(msg tea.Msg, emit func(S)) tea.Cmd
}

// Mapping converts a child signal into the parent's signal type.
// Returning false drops the signal.
type Mapping[C, P any] func(C) (P, bool)

// Pass forwards signals unchanged between levels that share a signal type.
func Pass[S any](s S) (S, bool) {
	return s, true
}

// Drop never forwards anything; the child's signals stay local.
func Drop[C, P any](C) (P, bool) {
	var zero P

	return zero, false
}

// Child is a composed child handle. It is itself a Component of the
// parent's signal type, so handles nest.
type Child[C, P any] struct {
	comp    Component[C]
	mapping Mapping[C, P]
}

// Attach declares how a child's signals reach its parent.
func Attach[C, P any](comp Component[C], mapping Mapping[C, P]) *Child[C, P] {
	return &Child[C, P]{comp: comp, mapping: mapping}
}

// Update delivers msg to the child and forwards mapped signals to emit.
func (c *Child[C, P]) Update(msg tea.Msg, emit func(P)) tea.Cmd {
	return c.comp.Update(msg, func(s C) {
		if p, ok := c.mapping(s); ok {
			emit(p)
		}
	})
}

// Queue is the single FIFO of root signals.
type Queue[S any] struct {
	items    []S
	draining bool
}

// Push appends s to the end of the queue.
func (q *Queue[S]) Push(s S) {
	q.items = append(q.items, s)
}

// Len returns the number of pending signals.
func (q *Queue[S]) Len() int {
	return len(q.items)
}

// Drain hands pending signals to fn in FIFO order until the queue is empty.
// Signals pushed by fn are appended and handled after everything already
// queued. A nested Drain call returns immediately; the outer one picks up
// whatever was pushed.
func (q *Queue[S]) Drain(fn func(S)) {
	if q.draining {
		return
	}

	q.draining = true
	defer func() { q.draining = false }()

	for len(q.items) > 0 {
		s := q.items[0]

		var zero S
		q.items[0] = zero
		q.items = q.items[1:]

		fn(s)
	}

	q.items = nil
}
