package feed

import (
	"context"

	"github.com/amora-labs/amora/internal/domain/search"
)

// ProfileSearcher is the search port backing the discovery feed.
// Implementations must honor context cancellation.
type ProfileSearcher interface {
	Search(ctx context.Context, filters search.Filters, pageSize int, cursor string) (search.Page, error)
}
