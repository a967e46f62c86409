package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/academix-cli/internal/ports"
	"github.com/bnema/academix-cli/internal/testutil"
)

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	t.Parallel()

	clock := testutil.NewManualClock(testStart)
	d := NewDebouncer(clock, 300*time.Millisecond)

	var ran []string
	d.Trigger(func() { ran = append(ran, "first") })
	clock.Advance(200 * time.Millisecond)
	d.Trigger(func() { ran = append(ran, "second") })
	clock.Advance(200 * time.Millisecond)
	assert.Empty(t, ran)
	assert.True(t, d.Pending())

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"second"}, ran)
	assert.False(t, d.Pending())
	assert.Equal(t, 0, clock.PendingTimers())
}

func TestDebouncerCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	clock := testutil.NewManualClock(testStart)
	d := NewDebouncer(clock, time.Second)

	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	clock.Advance(2 * time.Second)
	assert.False(t, ran)
}

// stubbornClock returns timers whose Stop always loses the race.
type stubbornClock struct {
	*testutil.ManualClock
}

type stubbornTimer struct{}

func (stubbornTimer) Stop() bool { return false }

func (c stubbornClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.ManualClock.AfterFunc(d, f)
	return stubbornTimer{}
}

func TestDebouncerIgnoresTimerThatCouldNotBeStopped(t *testing.T) {
	t.Parallel()

	clock := stubbornClock{testutil.NewManualClock(testStart)}
	d := NewDebouncer(clock, 100*time.Millisecond)

	count := 0
	d.Trigger(func() { count += 10 })
	d.Trigger(func() { count++ })
	clock.Advance(time.Second)
	assert.Equal(t, 1, count)
}
