package ports

import "context"

// SnapshotStore is a durable key-value store scoped to the current user or
// session. Get wraps domain.ErrSnapshotNotFound when the key is missing.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
