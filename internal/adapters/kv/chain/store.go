package chain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

// Store writes every snapshot to both backends. Reads prefer the primary
// unless the fallback holds a different, newer copy, which happens after a
// write the primary rejected.
type Store struct {
	primary  ports.SnapshotStore
	fallback ports.SnapshotStore
}

// timestamped is implemented by backends that record when a key was written.
type timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

var _ ports.SnapshotStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary snapshot store is nil")
	errNilFallbackStore = errors.New("fallback snapshot store is nil")
)

func NewStore(primary ports.SnapshotStore, fallback ports.SnapshotStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// Put succeeds when at least one backend accepted the value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	err := s.primary.Put(ctx, key, value)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if err == nil || fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.primary.Get(ctx, key)
	if shouldSkipFallback(err) {
		return nil, err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	switch {
	case err == nil && fallbackErr == nil:
		if !bytes.Equal(value, fallbackValue) && s.fallbackIsNewer(ctx, key) {
			return fallbackValue, nil
		}
		return value, nil
	case err == nil:
		return value, nil
	case fallbackErr == nil:
		return fallbackValue, nil
	}

	if errors.Is(err, domain.ErrSnapshotNotFound) && errors.Is(fallbackErr, domain.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("snapshot %q: %w", key, domain.ErrSnapshotNotFound)
	}

	return nil, fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// fallbackIsNewer compares write times at millisecond precision; ties and
// backends without timestamps keep the primary copy.
func (s *Store) fallbackIsNewer(ctx context.Context, key string) bool {
	primaryAt, ok := updatedAt(ctx, s.primary, key)
	if !ok {
		return false
	}
	fallbackAt, ok := updatedAt(ctx, s.fallback, key)
	if !ok {
		return false
	}
	return fallbackAt.Truncate(time.Millisecond).After(primaryAt.Truncate(time.Millisecond))
}

func updatedAt(ctx context.Context, store ports.SnapshotStore, key string) (time.Time, bool) {
	ts, ok := store.(timestamped)
	if !ok {
		return time.Time{}, false
	}
	at, err := ts.UpdatedAt(ctx, key)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// Delete removes the key from both backends so a stale fallback copy cannot
// resurface on the next Get.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	switch {
	case err == nil && fallbackErr == nil:
		return nil
	case err == nil:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	case fallbackErr == nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	default:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	}
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
