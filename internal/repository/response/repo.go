// Package response persists questionnaire response sets as JSON values.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amora-labs/amora/internal/db"
	"github.com/amora-labs/amora/internal/domain"
	"github.com/amora-labs/amora/internal/domain/compat"
)

// store is the consumer interface for response sets (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo implements the directory usecase's response store.
type Repo struct {
	store store
}

// New creates a response repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put stores a user's full response set, replacing any previous one.
func (r *Repo) Put(ctx context.Context, rs compat.ResponseSet) error {
	key := responseKey(rs.UserID())
	data, err := json.Marshal(buildJSONSet(&rs))
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns a user's response set.
func (r *Repo) Get(ctx context.Context, userID string) (compat.ResponseSet, error) {
	key := responseKey(userID)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return compat.ResponseSet{}, domain.ErrResponsesNotFound
		}
		return compat.ResponseSet{}, fmt.Errorf("get %s: %w", key, err)
	}
	var dto jsonSet
	if err := json.Unmarshal(raw, &dto); err != nil {
		return compat.ResponseSet{}, fmt.Errorf("unmarshal responses %s: %w", key, err)
	}
	return parseJSONSet(userID, &dto)
}

// Delete removes a user's response set.
func (r *Repo) Delete(ctx context.Context, userID string) error {
	key := responseKey(userID)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func responseKey(userID string) string {
	return fmt.Sprintf("%sresponses:%s", domain.KeyPrefix, userID)
}
