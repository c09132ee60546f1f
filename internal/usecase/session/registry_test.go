package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amora-labs/amora/internal/domain"
	"github.com/amora-labs/amora/internal/domain/search"
)

// --- Mocks ---

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, search.Filters, int, string) (search.Page, error) {
	return search.NewPage(nil, ""), nil
}

type stubSender struct{}

func (stubSender) SendInterest(context.Context, string, string) error { return nil }

func newTestRegistry(ttl time.Duration) *Registry {
	return NewRegistry(stubSearcher{}, stubSender{}, ttl, nil)
}

// --- Tests ---

func TestStartAndGet(t *testing.T) {
	reg := newTestRegistry(time.Hour)

	s := reg.Start("alice")
	if s.UserID() != "alice" {
		t.Errorf("expected user alice, got %q", s.UserID())
	}
	if s.ID() == "" {
		t.Fatal("expected a session id")
	}

	got, err := reg.Get(s.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Error("expected the same session instance")
	}
}

func TestGet_Unknown(t *testing.T) {
	reg := newTestRegistry(time.Hour)

	if _, err := reg.Get("nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGet_ExpiredOnAccess(t *testing.T) {
	reg := newTestRegistry(time.Minute)
	now := time.Now()
	reg.now = func() time.Time { return now }

	s := reg.Start("alice")

	now = now.Add(2 * time.Minute)
	if _, err := reg.Get(s.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected expired session removed, len=%d", reg.Len())
	}
}

func TestGet_TouchExtendsLifetime(t *testing.T) {
	reg := newTestRegistry(time.Minute)
	now := time.Now()
	reg.now = func() time.Time { return now }

	s := reg.Start("alice")

	// Touch within the TTL, then advance past the original deadline.
	now = now.Add(45 * time.Second)
	if _, err := reg.Get(s.ID()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now = now.Add(45 * time.Second)
	if _, err := reg.Get(s.ID()); err != nil {
		t.Errorf("touched session expired too early: %v", err)
	}
}

func TestEnd(t *testing.T) {
	reg := newTestRegistry(time.Hour)
	s := reg.Start("alice")

	if err := reg.End(s.ID()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reg.Get(s.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ended session to be gone, got %v", err)
	}
	if err := reg.End(s.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on double end, got %v", err)
	}
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	reg := newTestRegistry(time.Minute)
	now := time.Now()
	reg.now = func() time.Time { return now }

	old := reg.Start("alice")
	now = now.Add(2 * time.Minute)
	fresh := reg.Start("bob")

	if n := reg.sweep(); n != 1 {
		t.Errorf("expected 1 swept session, got %d", n)
	}
	if _, err := reg.Get(old.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("expected old session swept")
	}
	if _, err := reg.Get(fresh.ID()); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}

func TestSession_HasFeedAndSwipe(t *testing.T) {
	reg := newTestRegistry(time.Hour)
	s := reg.Start("alice")

	if s.Feed() == nil || s.Swipe() == nil {
		t.Fatal("expected wired feed engine and swipe controller")
	}
	s.Feed().Refresh(context.Background(), search.NewFilters())
	if snap := s.Feed().Snapshot(); snap.IsLoading {
		t.Error("expected refresh to complete")
	}
}
