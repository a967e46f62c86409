package ports

import (
	"context"

	"github.com/bnema/academix-cli/internal/domain"
)

// SearchEndpoint returns ranked matches for a free-text query. Implementations
// may be slow, may fail and may resolve out of order.
type SearchEndpoint interface {
	Search(ctx context.Context, query string) ([]domain.Match, error)
}
