package swipe

import (
	"context"

	"github.com/amora-labs/amora/internal/usecase/feed"
)

// InterestSender is the port that records a one-directional interest signal.
// Sends are not cancellable once started; they run to completion so interest
// state is never ambiguous.
type InterestSender interface {
	SendInterest(ctx context.Context, fromUserID, toUserID string) error
}

// FeedLoader is the slice of the feed engine the swipe controller consumes.
type FeedLoader interface {
	LoadMore(ctx context.Context)
	Snapshot() feed.Snapshot
}
