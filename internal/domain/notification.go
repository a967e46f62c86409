package domain

import (
	"fmt"
	"time"
)

type NotificationID string
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationSuccess, NotificationWarning, NotificationError, NotificationInfo:
		return true
	default:
		return false
	}
}

func ParseNotificationKind(raw string) (NotificationKind, error) {
	kind := NotificationKind(raw)
	if !kind.Valid() {
		return "", fmt.Errorf("unsupported notification kind %q", raw)
	}
	return kind, nil
}

type Notification struct {
	ID            NotificationID
	Kind          NotificationKind
	Title         string
	Message       string
	CreatedAt     time.Time
	AutoDismissAt time.Time
	// PausedRemaining is set while the countdown is paused.
	PausedRemaining *time.Duration
	// Lifetime overrides the queue's default auto-dismiss delay when positive.
	Lifetime time.Duration
}

func (n Notification) Paused() bool {
	return n.PausedRemaining != nil
}

func (n Notification) Clone() Notification {
	out := n
	if n.PausedRemaining != nil {
		remaining := *n.PausedRemaining
		out.PausedRemaining = &remaining
	}
	return out
}
