// Package swipe turns the deduplicated discovery feed into a linear swipe
// sequence and guarantees race-free, at-most-once interest recording per
// profile id for the lifetime of a session.
package swipe

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/domain/profile"
)

// DefaultLookahead is how many cards before the end of the feed trigger a
// background page load, so continuous swiping never visibly runs dry.
const DefaultLookahead = 2

// Interest outcome labels for the interests counter.
const (
	outcomeSent      = "sent"
	outcomeFailed    = "failed"
	outcomeDuplicate = "duplicate"
)

// Controller serializes per-session swipe state behind a single mutex.
// The per-id lifecycle is: unseen -> sending -> sent (terminal), with a
// failed send releasing the id back to unseen for retry. Different profile
// ids may be sent concurrently; the same id never is.
type Controller struct {
	userID    string
	feed      FeedLoader
	sender    InterestSender
	logger    *zap.Logger
	lookahead int
	interests *prometheus.CounterVec

	mu      sync.Mutex
	current int
	sending map[string]struct{}
	sent    map[string]struct{}
	passed  map[string]struct{}
}

// NewController creates a swipe controller for one user's discovery session.
func NewController(userID string, loader FeedLoader, sender InterestSender, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		userID:    userID,
		feed:      loader,
		sender:    sender,
		logger:    logger,
		lookahead: DefaultLookahead,
		sending:   make(map[string]struct{}),
		sent:      make(map[string]struct{}),
		passed:    make(map[string]struct{}),
	}
}

// WithLookahead overrides the prefetch distance.
func (c *Controller) WithLookahead(n int) *Controller {
	if n >= 0 {
		c.lookahead = n
	}
	return c
}

// WithMetrics attaches the interests counter.
func (c *Controller) WithMetrics(interests *prometheus.CounterVec) *Controller {
	c.interests = interests
	return c
}

// Like records an interest in the given profile. No-op when the profile is
// the session owner, a send for it is already in flight, or it was already
// sent this session. The guard and the sending mark are taken under one lock
// acquisition, so two concurrent Like calls for the same id cannot both pass.
func (c *Controller) Like(ctx context.Context, p profile.Summary) error {
	id := p.ID()

	c.mu.Lock()
	if id == c.userID {
		c.mu.Unlock()
		return nil
	}
	if _, inFlight := c.sending[id]; inFlight {
		c.mu.Unlock()
		c.count(outcomeDuplicate)
		return nil
	}
	if _, done := c.sent[id]; done {
		c.mu.Unlock()
		c.count(outcomeDuplicate)
		return nil
	}
	c.sending[id] = struct{}{}
	c.mu.Unlock()

	err := c.sender.SendInterest(ctx, c.userID, id)

	c.mu.Lock()
	delete(c.sending, id)
	if err == nil {
		c.sent[id] = struct{}{}
	}
	c.mu.Unlock()

	if err != nil {
		// Released back for retry; feed position is untouched.
		c.count(outcomeFailed)
		c.logger.Warn("interest send failed",
			zap.String("to", id),
			zap.Error(err),
		)
		return fmt.Errorf("send interest: %w", err)
	}

	c.count(outcomeSent)
	c.logger.Debug("interest sent", zap.String("to", id))
	return nil
}

// Pass removes the profile from the visible feed locally. Never touches the
// interest port.
func (c *Controller) Pass(p profile.Summary) {
	c.mu.Lock()
	c.passed[p.ID()] = struct{}{}
	c.mu.Unlock()
}

// Advance moves the swipe position forward by one and triggers a feed page
// load when the position is within the lookahead window of the end.
func (c *Controller) Advance(ctx context.Context) {
	c.mu.Lock()
	c.current++
	pos := c.current
	lookahead := c.lookahead
	c.mu.Unlock()

	snap := c.feed.Snapshot()
	if pos >= len(snap.Items)-lookahead {
		c.feed.LoadMore(ctx)
	}
}

// Visible returns the feed items minus locally passed profiles, in feed order.
func (c *Controller) Visible() []profile.Summary {
	snap := c.feed.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]profile.Summary, 0, len(snap.Items))
	for _, p := range snap.Items {
		if _, skipped := c.passed[p.ID()]; skipped {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Current returns the profile at the swipe position, if any. The position
// indexes the raw feed, same as Advance; passed profiles at or after it are
// skipped when resolving the card.
func (c *Controller) Current() (profile.Summary, bool) {
	snap := c.feed.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := c.current; i >= 0 && i < len(snap.Items); i++ {
		if _, skipped := c.passed[snap.Items[i].ID()]; skipped {
			continue
		}
		return snap.Items[i], true
	}
	return profile.Summary{}, false
}

// Snapshot returns a read-only copy of the swipe state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		CurrentIndex:       c.current,
		SentInterestIDs:    sortedIDs(c.sent),
		SendingInterestIDs: sortedIDs(c.sending),
		PassedIDs:          sortedIDs(c.passed),
	}
}

func (c *Controller) count(outcome string) {
	if c.interests != nil {
		c.interests.WithLabelValues(outcome).Inc()
	}
}
