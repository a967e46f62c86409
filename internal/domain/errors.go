package domain

import "errors"

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot corrupt")
	ErrInvalidItem      = errors.New("invalid watchlist item")
	ErrItemNotFound     = errors.New("watchlist item not found")
	ErrInvalidRotation  = errors.New("invalid rotation")
	ErrInvalidCounter   = errors.New("invalid counter")
	ErrSearchFailed     = errors.New("search failed")
	ErrJournalNotFound  = errors.New("journal not found")
	ErrInvalidUserID    = errors.New("invalid user id")
)
