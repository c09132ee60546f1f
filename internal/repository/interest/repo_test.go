package interest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory SetNX/Get/Exists store.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func TestSendInterest_FirstWriteWins(t *testing.T) {
	store := newMemStore()
	repo := New(store)
	repo.now = func() time.Time { return time.Unix(100, 0) }

	if err := repo.SendInterest(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := store.data[interestKey("alice", "bob")]

	// A later send for the same pair must keep the original record.
	repo.now = func() time.Time { return time.Unix(200, 0) }
	if err := repo.SendInterest(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("duplicate send must be a no-op, got %v", err)
	}

	var rec record
	if err := json.Unmarshal(store.data[interestKey("alice", "bob")], &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !rec.CreatedAt.Equal(time.Unix(100, 0).UTC()) {
		t.Errorf("original record overwritten: %v", rec.CreatedAt)
	}
	if string(first) != string(store.data[interestKey("alice", "bob")]) {
		t.Error("stored record changed on duplicate send")
	}
}

func TestSendInterest_DirectionalKeys(t *testing.T) {
	store := newMemStore()
	repo := New(store)

	_ = repo.SendInterest(context.Background(), "alice", "bob")
	_ = repo.SendInterest(context.Background(), "bob", "alice")

	if len(store.data) != 2 {
		t.Errorf("expected 2 directional records, got %d", len(store.data))
	}
}

func TestSendInterest_StoreError(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	repo := New(store)

	if err := repo.SendInterest(context.Background(), "alice", "bob"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMutual(t *testing.T) {
	store := newMemStore()
	repo := New(store)

	_ = repo.SendInterest(context.Background(), "alice", "bob")

	mutual, err := repo.Mutual(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutual {
		t.Error("one-sided interest is not mutual")
	}

	_ = repo.SendInterest(context.Background(), "bob", "alice")
	mutual, err = repo.Mutual(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mutual {
		t.Error("expected mutual after both directions")
	}
}

func TestSent(t *testing.T) {
	store := newMemStore()
	repo := New(store)

	_ = repo.SendInterest(context.Background(), "alice", "bob")

	ok, err := repo.Sent(context.Background(), "alice", "bob")
	if err != nil || !ok {
		t.Errorf("expected sent=true, got %v err=%v", ok, err)
	}
	ok, err = repo.Sent(context.Background(), "bob", "alice")
	if err != nil || ok {
		t.Errorf("expected sent=false for reverse direction, got %v err=%v", ok, err)
	}
}
