package feed

import (
	"context"
	"sync"
	"testing"

	"github.com/amora-labs/amora/internal/domain/profile"
	"github.com/amora-labs/amora/internal/domain/search"
)

// --- Mocks ---

type searchCall struct {
	filters  search.Filters
	pageSize int
	cursor   string
}

type mockSearcher struct {
	mu    sync.Mutex
	calls []searchCall
	fn    func(ctx context.Context, f search.Filters, pageSize int, cursor string) (search.Page, error)
}

func (m *mockSearcher) Search(ctx context.Context, f search.Filters, pageSize int, cursor string) (search.Page, error) {
	m.mu.Lock()
	m.calls = append(m.calls, searchCall{filters: f, pageSize: pageSize, cursor: cursor})
	m.mu.Unlock()
	return m.fn(ctx, f, pageSize, cursor)
}

func (m *mockSearcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func staticPage(items []profile.Summary, nextCursor string) func(context.Context, search.Filters, int, string) (search.Page, error) {
	return func(context.Context, search.Filters, int, string) (search.Page, error) {
		return search.NewPage(items, nextCursor), nil
	}
}

func makeProfile(t *testing.T, id string) profile.Summary {
	t.Helper()
	return profile.New(id, "User "+id, 30, "f", "Berlin", "", "", nil)
}

func itemIDs(snap Snapshot) []string {
	ids := make([]string, len(snap.Items))
	for i := range snap.Items {
		ids[i] = snap.Items[i].ID()
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
