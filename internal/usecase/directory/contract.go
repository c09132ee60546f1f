package directory

import (
	"context"

	"github.com/amora-labs/amora/internal/domain/compat"
	"github.com/amora-labs/amora/internal/domain/profile"
)

// ProfileStore is the persistence port for candidate profiles.
type ProfileStore interface {
	Put(ctx context.Context, p profile.Summary) error
	Get(ctx context.Context, id string) (profile.Summary, error)
	Delete(ctx context.Context, id string) error
}

// ResponseStore is the persistence port for questionnaire response sets.
type ResponseStore interface {
	Put(ctx context.Context, rs compat.ResponseSet) error
	Get(ctx context.Context, userID string) (compat.ResponseSet, error)
}
