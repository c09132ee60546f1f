package chi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/domain"
	"github.com/amora-labs/amora/internal/domain/compat"
	"github.com/amora-labs/amora/internal/domain/profile"
	"github.com/amora-labs/amora/internal/domain/search"
	compatuc "github.com/amora-labs/amora/internal/usecase/compat"
	directoryuc "github.com/amora-labs/amora/internal/usecase/directory"
	sessionuc "github.com/amora-labs/amora/internal/usecase/session"
)

// --- Mocks ---

type memProfileStore struct {
	profiles map[string]profile.Summary
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]profile.Summary)}
}

func (m *memProfileStore) Put(_ context.Context, p profile.Summary) error {
	m.profiles[p.ID()] = p
	return nil
}

func (m *memProfileStore) Get(_ context.Context, id string) (profile.Summary, error) {
	p, ok := m.profiles[id]
	if !ok {
		return profile.Summary{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *memProfileStore) Delete(_ context.Context, id string) error {
	if _, ok := m.profiles[id]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(m.profiles, id)
	return nil
}

// Search serves all stored profiles as a single page.
func (m *memProfileStore) Search(_ context.Context, _ search.Filters, _ int, _ string) (search.Page, error) {
	items := make([]profile.Summary, 0, len(m.profiles))
	for _, p := range m.profiles {
		items = append(items, p)
	}
	return search.NewPage(items, ""), nil
}

type memResponseStore struct {
	sets map[string]compat.ResponseSet
}

func newMemResponseStore() *memResponseStore {
	return &memResponseStore{sets: make(map[string]compat.ResponseSet)}
}

func (m *memResponseStore) Put(_ context.Context, rs compat.ResponseSet) error {
	m.sets[rs.UserID()] = rs
	return nil
}

func (m *memResponseStore) Get(_ context.Context, userID string) (compat.ResponseSet, error) {
	rs, ok := m.sets[userID]
	if !ok {
		return compat.ResponseSet{}, domain.ErrResponsesNotFound
	}
	return rs, nil
}

type recordingSender struct {
	sent []string
}

func (r *recordingSender) SendInterest(_ context.Context, _, toUserID string) error {
	r.sent = append(r.sent, toUserID)
	return nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// --- Builders ---

func makeCatalog(t *testing.T) compat.Catalog {
	t.Helper()
	yes, err := compat.NewOption("yes", "Yes", 1)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	no, err := compat.NewOption("no", "No", 0)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	kids, err := compat.NewQuestion("kids", "Kids?", compat.SingleChoice, []compat.Option{no, yes}, true)
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	petYes, err := compat.NewOption("yes", "Yes", 1)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	petNo, err := compat.NewOption("no", "No", 0)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	pets, err := compat.NewQuestion("pets", "Pets?", compat.YesNo, []compat.Option{petYes, petNo}, false)
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	cat, err := compat.NewCategory("values", "Values", 1.0, []compat.Question{kids, pets})
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}
	catalog, err := compat.NewCatalog([]compat.Category{cat})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return catalog
}

type testEnv struct {
	server    *httptest.Server
	profiles  *memProfileStore
	responses *memResponseStore
	sender    *recordingSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	profiles := newMemProfileStore()
	responses := newMemResponseStore()
	sender := &recordingSender{}
	catalog := makeCatalog(t)

	compatSvc := compatuc.NewService(catalog, nil)
	directorySvc := directoryuc.NewService(profiles, responses, catalog, nil)
	sessions := sessionuc.NewRegistry(profiles, sender, time.Hour, nil)

	srv := NewServer(sessions, directorySvc, compatSvc, okPinger{}, zap.NewNop())

	r := chirouter.NewRouter()
	srv.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, profiles: profiles, responses: responses, sender: sender}
}
