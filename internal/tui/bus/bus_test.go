package bus_test

import (
	"testing"

	"github.com/alkime/scope/internal/tui/bus"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leafSignal interface{ isLeaf() }

type (
	pressed struct{ id int }
	hovered struct{}
)

func (pressed) isLeaf() {}
func (hovered) isLeaf() {}

type midSignal struct{ id int }

type rootSignal struct {
	name string
	id   int
}

type pokeMsg struct{}

// leaf emits one signal per signal it was configured with.
type leaf struct {
	emits []leafSignal
}

func (l *leaf) Update(msg tea.Msg, emit func(leafSignal)) tea.Cmd {
	if _, ok := msg.(pokeMsg); !ok {
		return nil
	}

	for _, s := range l.emits {
		emit(s)
	}

	return nil
}

func mapLeaf(s leafSignal) (midSignal, bool) {
	if p, ok := s.(pressed); ok {
		return midSignal(p), true
	}

	return midSignal{}, false
}

func mapMid(s midSignal) (rootSignal, bool) {
	return rootSignal{name: "pressed", id: s.id}, true
}

func TestChild_MapsThroughEveryLevel(t *testing.T) {
	t.Parallel()

	l := &leaf{emits: []leafSignal{pressed{id: 1}, hovered{}, pressed{id: 2}}}
	mid := bus.Attach[leafSignal, midSignal](l, mapLeaf)
	root := bus.Attach[midSignal, rootSignal](mid, mapMid)

	var got []rootSignal
	root.Update(pokeMsg{}, func(s rootSignal) { got = append(got, s) })

	assert.Equal(t, []rootSignal{{name: "pressed", id: 1}, {name: "pressed", id: 2}}, got,
		"mapped signals pass payload through, unmapped ones are dropped")
}

func TestChild_IgnoresUnrelatedMessages(t *testing.T) {
	t.Parallel()

	l := &leaf{emits: []leafSignal{pressed{id: 1}}}
	h := bus.Attach[leafSignal, midSignal](l, mapLeaf)

	emitted := 0
	h.Update(tea.KeyMsg{}, func(midSignal) { emitted++ })
	assert.Zero(t, emitted)
}

func TestPassAndDrop(t *testing.T) {
	t.Parallel()

	s, ok := bus.Pass(midSignal{id: 7})
	assert.True(t, ok)
	assert.Equal(t, midSignal{id: 7}, s)

	_, ok = bus.Drop[leafSignal, midSignal](pressed{id: 3})
	assert.False(t, ok)
}

func TestQueue_FIFOWithAppendedFollowUps(t *testing.T) {
	t.Parallel()

	var q bus.Queue[string]
	q.Push("a")
	q.Push("b")

	var order []string
	q.Drain(func(s string) {
		order = append(order, s)

		switch s {
		case "a":
			q.Push("a1")
			q.Push("a2")
		case "a1":
			q.Push("a1x")
		}
	})

	assert.Equal(t, []string{"a", "b", "a1", "a2", "a1x"}, order)
	assert.Zero(t, q.Len())
}

func TestQueue_NestedDrainIsNotReentrant(t *testing.T) {
	t.Parallel()

	var q bus.Queue[int]
	q.Push(1)

	var order []int
	depth, maxDepth := 0, 0

	q.Drain(func(n int) {
		depth++
		maxDepth = max(maxDepth, depth)
		order = append(order, n)

		if n < 3 {
			q.Push(n + 1)
			q.Drain(func(int) { t.Fatal("nested drain must not process signals") })
		}

		depth--
	})

	require.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 1, maxDepth)
}
