// Package session owns the lifecycle of discovery sessions. Each session
// binds one user to a feed engine and a swipe controller; idle sessions
// expire after a TTL and are reaped by a background sweeper.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/domain"
	"github.com/amora-labs/amora/internal/usecase/feed"
	"github.com/amora-labs/amora/internal/usecase/swipe"
)

// Session is one user's live discovery state.
type Session struct {
	id        string
	userID    string
	feed      *feed.Engine
	swipe     *swipe.Controller
	createdAt time.Time
	lastSeen  time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the owning user's id.
func (s *Session) UserID() string { return s.userID }

// Feed returns the session's feed engine.
func (s *Session) Feed() *feed.Engine { return s.feed }

// Swipe returns the session's swipe controller.
func (s *Session) Swipe() *swipe.Controller { return s.swipe }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Registry creates, resolves, and expires sessions. All map access is
// serialized by the mutex; the contained engines and controllers do their
// own locking.
type Registry struct {
	searcher  feed.ProfileSearcher
	sender    swipe.InterestSender
	logger    *zap.Logger
	ttl       time.Duration
	pageSize  int
	lookahead int
	searches  *prometheus.CounterVec
	exhausted prometheus.Counter
	interests *prometheus.CounterVec
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a session registry.
func NewRegistry(searcher feed.ProfileSearcher, sender swipe.InterestSender, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		searcher:  searcher,
		sender:    sender,
		logger:    logger,
		ttl:       ttl,
		lookahead: swipe.DefaultLookahead,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// WithFeedDefaults overrides the page size and lookahead new sessions get.
func (r *Registry) WithFeedDefaults(pageSize, lookahead int) *Registry {
	r.pageSize = pageSize
	if lookahead >= 0 {
		r.lookahead = lookahead
	}
	return r
}

// WithMetrics attaches the counters handed to every session's engine and
// controller.
func (r *Registry) WithMetrics(searches *prometheus.CounterVec, exhausted prometheus.Counter, interests *prometheus.CounterVec) *Registry {
	r.searches = searches
	r.exhausted = exhausted
	r.interests = interests
	return r
}

// Start creates a new session for a user.
func (r *Registry) Start(userID string) *Session {
	eng := feed.NewEngine(r.searcher, r.logger).
		WithMetrics(r.searches, r.exhausted)
	if r.pageSize > 0 {
		eng.WithPageSize(r.pageSize)
	}
	ctl := swipe.NewController(userID, eng, r.sender, r.logger).
		WithLookahead(r.lookahead).
		WithMetrics(r.interests)

	now := r.now()
	s := &Session{
		id:        uuid.NewString(),
		userID:    userID,
		feed:      eng,
		swipe:     ctl,
		createdAt: now,
		lastSeen:  now,
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	r.logger.Info("session started", zap.String("session", s.id), zap.String("user", userID))
	return s
}

// Get resolves a session by id and refreshes its idle timer. An expired
// session is removed on access and reported as not found.
func (r *Registry) Get(id string) (*Session, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if r.ttl > 0 && now.Sub(s.lastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	s.lastSeen = now
	return s, nil
}

// End removes a session.
func (r *Registry) End(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	r.logger.Info("session ended", zap.String("session", id))
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartSweeper reaps expired sessions on the given interval until the
// context is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.sweep(); n > 0 {
					r.logger.Debug("sessions expired", zap.Int("count", n))
				}
			}
		}
	}()
}

func (r *Registry) sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
