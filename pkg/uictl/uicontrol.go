// Package uictl describes the numeric controls shared by the console panels.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Valuer is a control that reports and accepts its current value.
type Valuer[N Number] interface {
	Value() N
	SetValue(v N)
}

// Knob is a simple on/off toggle control.
type Knob interface {
	Read() bool
	Set(on bool)
}

// Range bounds a numeric control. Step is the fine adjustment unit;
// Coarse is the number of steps taken by a coarse adjustment.
type Range[N Number] struct {
	Min    N
	Max    N
	Step   N
	Coarse int
}

// Clamp limits v to [Min, Max].
func (r Range[N]) Clamp(v N) N {
	if v < r.Min {
		return r.Min
	}

	if v > r.Max {
		return r.Max
	}

	return v
}

// Nudge moves v by n steps (negative n moves down) and clamps the result.
// The arithmetic is done in float64 so unsigned ranges cannot wrap.
func (r Range[N]) Nudge(v N, n int) N {
	next := float64(v) + float64(n)*float64(r.Step)

	if next <= float64(r.Min) {
		return r.Min
	}

	if next >= float64(r.Max) {
		return r.Max
	}

	return N(next)
}

// CoarseSteps returns the number of steps in a coarse adjustment.
func (r Range[N]) CoarseSteps() int {
	if r.Coarse < 1 {
		return 10
	}

	return r.Coarse
}

// Fraction returns where v sits in the range, 0 at Min and 1 at Max.
func (r Range[N]) Fraction(v N) float64 {
	span := float64(r.Max) - float64(r.Min)
	if span <= 0 {
		return 0
	}

	f := (float64(r.Clamp(v)) - float64(r.Min)) / span

	return f
}
