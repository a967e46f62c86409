package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

// Rotation advances an index modulo ItemCount every interval until Cancel.
type Rotation struct {
	clock ports.Clock

	mu        sync.Mutex
	state     domain.RotationState
	timer     ports.Timer
	gen       uint64
	cancelled bool

	subs observers[domain.RotationState]
}

func StartRotation(clock ports.Clock, itemCount int, interval time.Duration) (*Rotation, error) {
	if itemCount <= 0 {
		return nil, fmt.Errorf("%w: item count must be positive, got %d", domain.ErrInvalidRotation, itemCount)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %s", domain.ErrInvalidRotation, interval)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	r := &Rotation{
		clock: clock,
		state: domain.RotationState{ItemCount: itemCount, Interval: interval},
	}

	r.mu.Lock()
	r.armLocked()
	r.mu.Unlock()
	return r, nil
}

func (r *Rotation) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Index
}

func (r *Rotation) State() domain.RotationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Select jumps to index i without resetting the running interval.
func (r *Rotation) Select(i int) error {
	r.mu.Lock()
	if i < 0 || i >= r.state.ItemCount {
		r.mu.Unlock()
		return fmt.Errorf("%w: index %d out of range [0, %d)", domain.ErrInvalidRotation, i, r.state.ItemCount)
	}
	if r.cancelled {
		r.mu.Unlock()
		return nil
	}
	r.state.Index = i
	state := r.state
	r.mu.Unlock()

	r.subs.notify(state)
	return nil
}

func (r *Rotation) Subscribe(fn func(domain.RotationState)) func() {
	return r.subs.subscribe(fn)
}

// Cancel stops the rotation. Safe to call more than once.
func (r *Rotation) Cancel() {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	r.cancelled = true
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	r.subs.clear()
}

func (r *Rotation) armLocked() {
	gen := r.gen
	r.timer = r.clock.AfterFunc(r.state.Interval, func() { r.tick(gen) })
}

func (r *Rotation) tick(gen uint64) {
	r.mu.Lock()
	if r.cancelled || gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.state = r.state.Next()
	state := r.state
	r.armLocked()
	r.mu.Unlock()

	r.subs.notify(state)
}

type CounterState struct {
	Target int
	Value  int
	Step   int
	Steps  int
	Done   bool
}

// EasedCounter climbs from 0 to Target along an ease-out cubic curve, one
// step every duration/steps, then holds at Target.
type EasedCounter struct {
	clock    ports.Clock
	stepTime time.Duration

	mu        sync.Mutex
	state     CounterState
	timer     ports.Timer
	cancelled bool

	subs observers[CounterState]
}

func StartEasedCounter(clock ports.Clock, target int, duration time.Duration, steps int) (*EasedCounter, error) {
	if steps <= 0 {
		steps = domain.DefaultCounterSteps
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %s", domain.ErrInvalidCounter, duration)
	}
	stepTime := duration / time.Duration(steps)
	if stepTime <= 0 {
		return nil, fmt.Errorf("%w: duration %s too short for %d steps", domain.ErrInvalidCounter, duration, steps)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	c := &EasedCounter{
		clock:    clock,
		stepTime: stepTime,
		state:    CounterState{Target: target, Steps: steps},
	}

	c.mu.Lock()
	c.timer = c.clock.AfterFunc(stepTime, c.tick)
	c.mu.Unlock()
	return c, nil
}

func (c *EasedCounter) tick() {
	c.mu.Lock()
	if c.cancelled || c.state.Done {
		c.mu.Unlock()
		return
	}

	c.state.Step++
	c.state.Value = domain.EaseOutCubic(c.state.Target, c.state.Step, c.state.Steps)
	if c.state.Step >= c.state.Steps {
		c.state.Done = true
		c.timer = nil
	} else {
		c.timer = c.clock.AfterFunc(c.stepTime, c.tick)
	}
	state := c.state
	c.mu.Unlock()

	c.subs.notify(state)
}

func (c *EasedCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Value
}

func (c *EasedCounter) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Step
}

func (c *EasedCounter) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Done
}

func (c *EasedCounter) State() CounterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *EasedCounter) Subscribe(fn func(CounterState)) func() {
	return c.subs.subscribe(fn)
}

// Cancel freezes the counter at its current value. Safe to call more than once.
func (c *EasedCounter) Cancel() {
	c.mu.Lock()
	if c.cancelled {
		c.mu.Unlock()
		return
	}
	c.cancelled = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.subs.clear()
}
