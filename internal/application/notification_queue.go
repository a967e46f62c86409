package application

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

const (
	DefaultNotificationCapacity    = 3
	DefaultNotificationAutoDismiss = 3 * time.Second
)

type NotificationOptions struct {
	Capacity    int
	AutoDismiss time.Duration
	// NewestOnTop reverses the display order of visible notifications.
	NewestOnTop bool
	NewID       func() domain.NotificationID
	Logger      *log.Logger
}

func (o NotificationOptions) withDefaults() NotificationOptions {
	if o.Capacity <= 0 {
		o.Capacity = DefaultNotificationCapacity
	}
	if o.AutoDismiss <= 0 {
		o.AutoDismiss = DefaultNotificationAutoDismiss
	}
	if o.NewID == nil {
		o.NewID = func() domain.NotificationID { return domain.NotificationID(uuid.NewString()) }
	}
	return o
}

type NotificationSnapshot struct {
	Visible  []domain.Notification
	Pending  []domain.Notification
	Revision uint64
}

type visibleSlot struct {
	notification domain.Notification
	timer        ports.Timer
	gen          uint64
}

// NotificationQueue shows at most Capacity notifications, each with its own
// auto-dismiss timer. Overflow waits in FIFO order for a free slot.
type NotificationQueue struct {
	clock  ports.Clock
	opts   NotificationOptions
	logger *log.Logger

	mu       sync.Mutex
	visible  []*visibleSlot
	pending  []domain.Notification
	revision uint64
	closed   bool

	subs observers[NotificationSnapshot]
}

func NewNotificationQueue(clock ports.Clock, opts NotificationOptions) *NotificationQueue {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	opts = opts.withDefaults()

	return &NotificationQueue{
		clock:  clock,
		opts:   opts,
		logger: discardLogger(opts.Logger),
	}
}

// Enqueue shows n or queues it behind the visible ones. It returns the id
// assigned to n, or an empty id once the queue is closed.
func (q *NotificationQueue) Enqueue(n domain.Notification) domain.NotificationID {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Printf("notifications: dropped %q after close", n.Title)
		return ""
	}

	n = n.Clone()
	if n.ID == "" {
		n.ID = q.opts.NewID()
	}
	if !n.Kind.Valid() {
		n.Kind = domain.NotificationInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = q.clock.Now()
	}
	n.PausedRemaining = nil

	if len(q.visible) < q.opts.Capacity {
		q.showLocked(n)
	} else {
		n.AutoDismissAt = time.Time{}
		q.pending = append(q.pending, n)
	}
	snapshot := q.changedLocked()
	q.mu.Unlock()

	q.subs.notify(snapshot)
	return n.ID
}

// Dismiss removes a visible or pending notification. It is a no-op once the
// queue is closed.
func (q *NotificationQueue) Dismiss(id domain.NotificationID) bool {
	q.mu.Lock()
	if q.closed || !q.removeLocked(id) {
		q.mu.Unlock()
		return false
	}
	snapshot := q.changedLocked()
	q.mu.Unlock()

	q.subs.notify(snapshot)
	return true
}

// Pause stops the countdown of a visible notification and records what is left.
func (q *NotificationQueue) Pause(id domain.NotificationID) bool {
	q.mu.Lock()
	slot := q.slotLocked(id)
	if q.closed || slot == nil || slot.notification.Paused() {
		q.mu.Unlock()
		return false
	}

	remaining := slot.notification.AutoDismissAt.Sub(q.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	q.stopLocked(slot)
	slot.notification.PausedRemaining = &remaining
	snapshot := q.changedLocked()
	q.mu.Unlock()

	q.subs.notify(snapshot)
	return true
}

// Resume restarts a paused countdown from the recorded remainder.
func (q *NotificationQueue) Resume(id domain.NotificationID) bool {
	q.mu.Lock()
	slot := q.slotLocked(id)
	if q.closed || slot == nil || !slot.notification.Paused() {
		q.mu.Unlock()
		return false
	}

	remaining := *slot.notification.PausedRemaining
	slot.notification.PausedRemaining = nil
	slot.notification.AutoDismissAt = q.clock.Now().Add(remaining)
	q.armLocked(slot, remaining)
	snapshot := q.changedLocked()
	q.mu.Unlock()

	q.subs.notify(snapshot)
	return true
}

func (q *NotificationQueue) Snapshot() NotificationSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

func (q *NotificationQueue) Subscribe(fn func(NotificationSnapshot)) func() {
	return q.subs.subscribe(fn)
}

// Close stops every timer. Later calls are no-ops and later enqueues are dropped.
func (q *NotificationQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, slot := range q.visible {
		q.stopLocked(slot)
	}
	q.mu.Unlock()

	q.subs.clear()
}

func (q *NotificationQueue) showLocked(n domain.Notification) {
	lifetime := n.Lifetime
	if lifetime <= 0 {
		lifetime = q.opts.AutoDismiss
	}
	n.AutoDismissAt = q.clock.Now().Add(lifetime)

	slot := &visibleSlot{notification: n}
	q.visible = append(q.visible, slot)
	q.armLocked(slot, lifetime)
}

func (q *NotificationQueue) armLocked(slot *visibleSlot, d time.Duration) {
	q.stopLocked(slot)
	gen := slot.gen
	id := slot.notification.ID
	slot.timer = q.clock.AfterFunc(d, func() { q.expire(id, gen) })
}

func (q *NotificationQueue) stopLocked(slot *visibleSlot) {
	if slot.timer != nil {
		slot.timer.Stop()
		slot.timer = nil
	}
	slot.gen++
}

func (q *NotificationQueue) expire(id domain.NotificationID, gen uint64) {
	q.mu.Lock()
	slot := q.slotLocked(id)
	if q.closed || slot == nil || slot.gen != gen || slot.notification.Paused() {
		q.mu.Unlock()
		return
	}
	q.removeLocked(id)
	snapshot := q.changedLocked()
	q.mu.Unlock()

	q.subs.notify(snapshot)
}

func (q *NotificationQueue) removeLocked(id domain.NotificationID) bool {
	for i, slot := range q.visible {
		if slot.notification.ID != id {
			continue
		}
		q.stopLocked(slot)
		q.visible = append(q.visible[:i], q.visible[i+1:]...)
		q.promoteLocked()
		return true
	}

	for i, n := range q.pending {
		if n.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (q *NotificationQueue) promoteLocked() {
	if q.closed {
		return
	}
	for len(q.visible) < q.opts.Capacity && len(q.pending) > 0 {
		next := q.pending[0]
		q.pending = q.pending[1:]
		q.showLocked(next)
	}
}

func (q *NotificationQueue) slotLocked(id domain.NotificationID) *visibleSlot {
	for _, slot := range q.visible {
		if slot.notification.ID == id {
			return slot
		}
	}
	return nil
}

func (q *NotificationQueue) changedLocked() NotificationSnapshot {
	q.revision++
	return q.snapshotLocked()
}

func (q *NotificationQueue) snapshotLocked() NotificationSnapshot {
	visible := make([]domain.Notification, 0, len(q.visible))
	for _, slot := range q.visible {
		visible = append(visible, slot.notification.Clone())
	}
	if q.opts.NewestOnTop {
		for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
			visible[i], visible[j] = visible[j], visible[i]
		}
	}

	pending := make([]domain.Notification, 0, len(q.pending))
	for _, n := range q.pending {
		pending = append(pending, n.Clone())
	}

	return NotificationSnapshot{Visible: visible, Pending: pending, Revision: q.revision}
}
