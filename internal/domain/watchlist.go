package domain

import (
	"fmt"
	"strings"
)

type WatchlistItem struct {
	ID       ItemID            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (i WatchlistItem) Validate() error {
	if strings.TrimSpace(string(i.ID)) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}

	return nil
}

func (i WatchlistItem) Clone() WatchlistItem {
	return WatchlistItem{ID: i.ID, Name: i.Name, Metadata: cloneMetadata(i.Metadata)}
}

// WatchlistKey scopes the durable snapshot to the current identity.
func WatchlistKey(identity Identity) string {
	if identity.Authenticated() {
		return fmt.Sprintf("users/%s/watchlist", identity.User.ID)
	}
	return "guest/watchlist"
}
