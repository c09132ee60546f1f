// Package feed owns the candidate list for one discovery screen: it issues
// paginated searches against the profile search port, merges pages while
// de-duplicating by profile id, and exposes the result as coherent snapshots.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/domain/profile"
	"github.com/amora-labs/amora/internal/domain/search"
)

// User-facing feed messages. Raw backend errors never reach the snapshot.
const (
	msgSearchFailed = "Something went wrong. Please try again."
	msgEmptyBrowse  = "No new people right now. Check back soon."
	msgEmptyQuery   = "No matches for your search."
)

// Search outcome labels for the searches counter.
const (
	outcomeOK         = "ok"
	outcomeError      = "error"
	outcomeCancelled  = "cancelled"
	outcomeSuperseded = "superseded"
)

// Engine serializes all feed state behind a single mutex. Searches run
// outside the lock on the caller's goroutine; at most one is in flight at a
// time, and a new Refresh cancels the previous one explicitly so a slow stale
// response can never overwrite fresher state.
type Engine struct {
	searcher ProfileSearcher
	logger   *zap.Logger

	pageSize  int
	searches  *prometheus.CounterVec
	exhausted prometheus.Counter

	mu           sync.Mutex
	filters      search.Filters
	items        []profile.Summary
	seen         map[string]struct{}
	cursor       string
	hasMore      bool
	loading      bool
	loadingMore  bool
	errMessage   string
	infoMessage  string
	generation   uint64
	cancelFlight context.CancelFunc
	subscribers  []func(Snapshot)
}

// NewEngine creates a feed engine over the given search port.
func NewEngine(searcher ProfileSearcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		searcher: searcher,
		logger:   logger,
		pageSize: search.DefaultPageSize,
		seen:     make(map[string]struct{}),
	}
}

// WithPageSize overrides the default page size.
func (e *Engine) WithPageSize(size int) *Engine {
	if size > 0 {
		e.pageSize = size
	}
	return e
}

// WithMetrics attaches search and exhaustion counters.
func (e *Engine) WithMetrics(searches *prometheus.CounterVec, exhausted prometheus.Counter) *Engine {
	e.searches = searches
	e.exhausted = exhausted
	return e
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// state change. Callbacks run outside the engine lock.
func (e *Engine) Subscribe(fn func(Snapshot)) {
	e.mu.Lock()
	e.subscribers = append(e.subscribers, fn)
	e.mu.Unlock()
}

// Snapshot returns a read-only copy of the current feed state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Filters returns the active filter set.
func (e *Engine) Filters() search.Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// Refresh cancels any in-flight search, clears the cursor, and fetches the
// first page for the given filters. On success the items are replaced, not
// merged. On failure the prior items stay visible and a generic error message
// lands in the snapshot; cancellation is swallowed entirely.
func (e *Engine) Refresh(ctx context.Context, filters search.Filters) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	if e.cancelFlight != nil {
		// Supersede the outstanding search before starting a new one.
		e.cancelFlight()
		e.cancelFlight = nil
	}
	searchCtx, cancel := context.WithCancel(ctx)
	e.cancelFlight = cancel
	e.filters = filters
	// The cursor belongs to the previous filter set; hasMore goes with it so a
	// failed refresh cannot splice page one of the new filters into old items.
	e.cursor = ""
	e.hasMore = false
	e.loading = true
	e.loadingMore = false
	e.errMessage = ""
	e.infoMessage = ""
	pageSize := e.pageSizeLocked()
	e.mu.Unlock()
	e.notify()

	page, err := e.searcher.Search(searchCtx, filters, pageSize, "")
	cancel()

	e.mu.Lock()
	if gen != e.generation {
		// A newer refresh owns the state now; this result is stale.
		e.mu.Unlock()
		e.count(outcomeSuperseded)
		return
	}
	e.cancelFlight = nil
	e.loading = false

	if err != nil {
		if errors.Is(err, context.Canceled) {
			e.mu.Unlock()
			e.count(outcomeCancelled)
			return
		}
		e.errMessage = msgSearchFailed
		e.mu.Unlock()
		e.notify()
		e.count(outcomeError)
		e.logger.Warn("feed refresh failed", zap.Error(err))
		return
	}

	e.items = append(e.items[:0:0], page.Items()...)
	e.seen = make(map[string]struct{}, len(e.items))
	for i := range e.items {
		e.seen[e.items[i].ID()] = struct{}{}
	}
	e.cursor = page.NextCursor()
	e.hasMore = page.HasMore()
	if len(e.items) == 0 {
		if filters.Query() == "" {
			e.infoMessage = msgEmptyBrowse
		} else {
			e.infoMessage = msgEmptyQuery
		}
	}
	exhausted := !e.hasMore
	e.mu.Unlock()
	e.notify()
	e.count(outcomeOK)
	if exhausted {
		e.countExhausted()
	}
}

// LoadMore fetches the next page for the stored cursor and appends only
// profiles not already present, preserving result order. No-op while a load
// is in flight or when the feed is exhausted.
func (e *Engine) LoadMore(ctx context.Context) {
	e.mu.Lock()
	if e.loading || e.loadingMore || !e.hasMore {
		e.mu.Unlock()
		return
	}
	e.loadingMore = true
	gen := e.generation
	searchCtx, cancel := context.WithCancel(ctx)
	e.cancelFlight = cancel
	filters := e.filters
	cursor := e.cursor
	pageSize := e.pageSizeLocked()
	e.mu.Unlock()
	e.notify()

	page, err := e.searcher.Search(searchCtx, filters, pageSize, cursor)
	cancel()

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.count(outcomeSuperseded)
		return
	}
	e.cancelFlight = nil
	e.loadingMore = false

	if err != nil {
		if errors.Is(err, context.Canceled) {
			e.mu.Unlock()
			e.count(outcomeCancelled)
			return
		}
		e.errMessage = msgSearchFailed
		e.mu.Unlock()
		e.notify()
		e.count(outcomeError)
		e.logger.Warn("feed load more failed", zap.Error(err))
		return
	}

	for _, p := range page.Items() {
		if _, dup := e.seen[p.ID()]; dup {
			continue
		}
		e.seen[p.ID()] = struct{}{}
		e.items = append(e.items, p)
	}
	e.cursor = page.NextCursor()
	e.hasMore = page.HasMore()
	exhausted := !e.hasMore
	e.mu.Unlock()
	e.notify()
	e.count(outcomeOK)
	if exhausted {
		e.countExhausted()
	}
}

// Apply replaces the filter set and refreshes.
func (e *Engine) Apply(ctx context.Context, filters search.Filters) {
	e.Refresh(ctx, filters)
}

// UpdateQuery replaces the free-text query and refreshes.
func (e *Engine) UpdateQuery(ctx context.Context, query string) {
	e.mu.Lock()
	filters := e.filters.WithQuery(query)
	e.mu.Unlock()
	e.Refresh(ctx, filters)
}

func (e *Engine) pageSizeLocked() int {
	if ps := e.filters.PageSize(); ps > 0 {
		return ps
	}
	return e.pageSize
}

func (e *Engine) snapshotLocked() Snapshot {
	items := make([]profile.Summary, len(e.items))
	copy(items, e.items)
	return Snapshot{
		Query:         e.filters.Query(),
		Items:         items,
		IsLoading:     e.loading,
		IsLoadingMore: e.loadingMore,
		HasMore:       e.hasMore,
		Cursor:        e.cursor,
		ErrorMessage:  e.errMessage,
		InfoMessage:   e.infoMessage,
	}
}

// notify delivers a fresh snapshot to all subscribers outside the lock.
func (e *Engine) notify() {
	e.mu.Lock()
	snap := e.snapshotLocked()
	subs := append(make([]func(Snapshot), 0, len(e.subscribers)), e.subscribers...)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (e *Engine) count(outcome string) {
	if e.searches != nil {
		e.searches.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) countExhausted() {
	if e.exhausted != nil {
		e.exhausted.Inc()
	}
}

// String implements fmt.Stringer for debug logging.
func (e *Engine) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fmt.Sprintf("feed{items=%d hasMore=%v loading=%v}", len(e.items), e.hasMore, e.loading)
}
