package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

type WatchlistEventKind string

const (
	WatchlistHydrated       WatchlistEventKind = "hydrated"
	WatchlistAdded          WatchlistEventKind = "added"
	WatchlistAlreadyPresent WatchlistEventKind = "already_present"
	WatchlistRemoved        WatchlistEventKind = "removed"
	WatchlistCleared        WatchlistEventKind = "cleared"
	WatchlistPersistFailed  WatchlistEventKind = "persist_failed"
)

type WatchlistEvent struct {
	Kind     WatchlistEventKind
	Item     domain.WatchlistItem
	Items    []domain.WatchlistItem
	Err      error
	Revision uint64
}

// WatchlistStore is an ordered set of items persisted write-through under a
// single snapshot key. Every mutation is serialized by the store lock.
type WatchlistStore struct {
	store  ports.SnapshotStore
	key    string
	logger *log.Logger

	mu       sync.Mutex
	items    []domain.WatchlistItem
	revision uint64

	subs observers[WatchlistEvent]
}

func NewWatchlistStore(store ports.SnapshotStore, key string, logger *log.Logger) *WatchlistStore {
	return &WatchlistStore{
		store:  store,
		key:    key,
		logger: discardLogger(logger),
	}
}

// Hydrate loads the snapshot. A missing snapshot is an empty list. An
// unreadable or corrupt one also leaves the list empty; the returned error
// wraps domain.ErrSnapshotCorrupt and is for reporting only.
func (s *WatchlistStore) Hydrate(ctx context.Context) error {
	s.mu.Lock()

	items, err := s.load(ctx)
	s.items = items
	s.revision++
	event := WatchlistEvent{Kind: WatchlistHydrated, Items: cloneItems(items), Err: err, Revision: s.revision}
	s.mu.Unlock()

	s.subs.notify(event)
	return err
}

func (s *WatchlistStore) load(ctx context.Context) ([]domain.WatchlistItem, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return nil, nil
		}
		s.logger.Printf("watchlist: read snapshot %s: %v", s.key, err)
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrSnapshotCorrupt, s.key, err)
	}

	var decoded []domain.WatchlistItem
	if err := json.Unmarshal(raw, &decoded); err != nil {
		s.logger.Printf("watchlist: decode snapshot %s: %v", s.key, err)
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrSnapshotCorrupt, s.key, err)
	}

	items := make([]domain.WatchlistItem, 0, len(decoded))
	seen := make(map[domain.ItemID]struct{}, len(decoded))
	for _, item := range decoded {
		if err := item.Validate(); err != nil {
			s.logger.Printf("watchlist: skip snapshot entry: %v", err)
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

// Add appends item unless its id is already present. It reports whether the
// item was newly added. A failed write leaves the list untouched.
func (s *WatchlistStore) Add(ctx context.Context, item domain.WatchlistItem) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}
	item = item.Clone()

	s.mu.Lock()
	if s.indexLocked(item.ID) >= 0 {
		s.revision++
		event := WatchlistEvent{Kind: WatchlistAlreadyPresent, Item: item, Items: cloneItems(s.items), Revision: s.revision}
		s.mu.Unlock()

		s.subs.notify(event)
		return false, nil
	}

	next := append(cloneItems(s.items), item)
	if err := s.persistLocked(ctx, next); err != nil {
		event := s.failedLocked(item, err)
		s.mu.Unlock()

		s.subs.notify(event)
		return false, err
	}

	s.items = next
	s.revision++
	event := WatchlistEvent{Kind: WatchlistAdded, Item: item, Items: cloneItems(next), Revision: s.revision}
	s.mu.Unlock()

	s.subs.notify(event)
	return true, nil
}

// Remove deletes the item with id. It reports whether anything was removed.
func (s *WatchlistStore) Remove(ctx context.Context, id domain.ItemID) (bool, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	removed := s.items[idx].Clone()
	next := make([]domain.WatchlistItem, 0, len(s.items)-1)
	next = append(next, cloneItems(s.items[:idx])...)
	next = append(next, cloneItems(s.items[idx+1:])...)
	if err := s.persistLocked(ctx, next); err != nil {
		event := s.failedLocked(removed, err)
		s.mu.Unlock()

		s.subs.notify(event)
		return false, err
	}

	s.items = next
	s.revision++
	event := WatchlistEvent{Kind: WatchlistRemoved, Item: removed, Items: cloneItems(next), Revision: s.revision}
	s.mu.Unlock()

	s.subs.notify(event)
	return true, nil
}

// Clear deletes the durable snapshot and empties the list.
func (s *WatchlistStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.store.Delete(ctx, s.key); err != nil {
		wrapped := fmt.Errorf("delete watchlist snapshot: %w", err)
		event := s.failedLocked(domain.WatchlistItem{}, wrapped)
		s.mu.Unlock()

		s.subs.notify(event)
		return wrapped
	}

	s.items = nil
	s.revision++
	event := WatchlistEvent{Kind: WatchlistCleared, Items: []domain.WatchlistItem{}, Revision: s.revision}
	s.mu.Unlock()

	s.subs.notify(event)
	return nil
}

func (s *WatchlistStore) Has(id domain.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// All returns a copy of the items in insertion order.
func (s *WatchlistStore) All() []domain.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := cloneItems(s.items)
	if out == nil {
		return []domain.WatchlistItem{}
	}
	return out
}

func (s *WatchlistStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *WatchlistStore) Subscribe(fn func(WatchlistEvent)) func() {
	return s.subs.subscribe(fn)
}

func (s *WatchlistStore) persistLocked(ctx context.Context, items []domain.WatchlistItem) error {
	if items == nil {
		items = []domain.WatchlistItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode watchlist snapshot: %w", err)
	}
	if err := s.store.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("write watchlist snapshot: %w", err)
	}
	return nil
}

func (s *WatchlistStore) failedLocked(item domain.WatchlistItem, err error) WatchlistEvent {
	s.logger.Printf("watchlist: %v", err)
	s.revision++
	return WatchlistEvent{Kind: WatchlistPersistFailed, Item: item, Items: cloneItems(s.items), Err: err, Revision: s.revision}
}

func (s *WatchlistStore) indexLocked(id domain.ItemID) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []domain.WatchlistItem) []domain.WatchlistItem {
	if items == nil {
		return nil
	}

	out := make([]domain.WatchlistItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
