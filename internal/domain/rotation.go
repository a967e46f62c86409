package domain

import "time"

const DefaultCounterSteps = 60

type RotationState struct {
	Index     int
	ItemCount int
	Interval  time.Duration
}

// Next returns the state after one advance, wrapping at ItemCount.
func (s RotationState) Next() RotationState {
	if s.ItemCount <= 0 {
		return s
	}
	s.Index = (s.Index + 1) % s.ItemCount
	return s
}

// EaseOutCubic computes floor(target * (1 - (1 - step/steps)^3)).
// The result is exactly target once step reaches steps.
func EaseOutCubic(target, step, steps int) int {
	if steps <= 0 || step >= steps {
		return target
	}
	if step <= 0 {
		return 0
	}

	n := int64(steps)
	rest := n - int64(step)
	den := n * n * n
	num := int64(target) * (den - rest*rest*rest)

	q := num / den
	if num%den != 0 && num < 0 {
		q--
	}
	return int(q)
}
