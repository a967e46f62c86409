package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

// MemoryStore is an in-memory ports.SnapshotStore. PutErr, when set, makes
// every Put fail without touching the stored data.
type MemoryStore struct {
	mu      sync.Mutex
	clock   ports.Clock
	data    map[string][]byte
	updated map[string]time.Time
	puts    int
	PutErr  error
}

var _ ports.SnapshotStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clock:   ports.SystemClock{},
		data:    map[string][]byte{},
		updated: map[string]time.Time{},
	}
}

// NewMemoryStoreWithClock stamps writes with clock instead of the wall clock.
func NewMemoryStoreWithClock(clock ports.Clock) *MemoryStore {
	s := NewMemoryStore()
	s.clock = clock
	return s
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", key, domain.ErrSnapshotNotFound)
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PutErr != nil {
		return s.PutErr
	}
	s.data[key] = append([]byte(nil), value...)
	s.updated[key] = s.clock.Now()
	s.puts++
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	delete(s.updated, key)
	return nil
}

// UpdatedAt reports when key was last written.
func (s *MemoryStore) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.updated[key]
	if !ok {
		return time.Time{}, fmt.Errorf("snapshot %q: %w", key, domain.ErrSnapshotNotFound)
	}
	return at, nil
}

// SetFailPut swaps the Put failure under the store lock.
func (s *MemoryStore) SetFailPut(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PutErr = err
}

// Raw returns the stored bytes for key, or nil.
func (s *MemoryStore) Raw(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data[key]...)
}

// Seed stores value without counting it as a write.
func (s *MemoryStore) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	s.updated[key] = s.clock.Now()
}

// Puts reports how many successful writes happened.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}
