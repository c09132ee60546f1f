// Package interest persists one-directional interest signals. A record is
// written at most once per (from, to) pair: the first write wins and every
// later send for the same pair is a silent no-op, so client retries and races
// can never produce duplicate notifications.
package interest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amora-labs/amora/internal/domain"
)

// store is the consumer interface for interest records (ISP).
type store interface {
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// record is the stored interest payload.
type record struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"created_at"`
}

// Repo implements usecase/swipe.InterestSender.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates an interest repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// SendInterest records an interest from one user toward another. Sending the
// same pair again keeps the original record and returns nil.
func (r *Repo) SendInterest(ctx context.Context, fromUserID, toUserID string) error {
	key := interestKey(fromUserID, toUserID)
	data, err := json.Marshal(record{
		ID:        uuid.NewString(),
		From:      fromUserID,
		To:        toUserID,
		CreatedAt: r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal interest: %w", err)
	}

	if _, err := r.store.SetNX(ctx, key, data); err != nil {
		return fmt.Errorf("setnx %s: %w", key, err)
	}
	return nil
}

// Sent reports whether an interest from one user toward another exists.
func (r *Repo) Sent(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	ok, err := r.store.Exists(ctx, interestKey(fromUserID, toUserID))
	if err != nil {
		return false, fmt.Errorf("check interest: %w", err)
	}
	return ok, nil
}

// Mutual reports whether both users have sent interest toward each other.
func (r *Repo) Mutual(ctx context.Context, userA, userB string) (bool, error) {
	ab, err := r.Sent(ctx, userA, userB)
	if err != nil || !ab {
		return false, err
	}
	return r.Sent(ctx, userB, userA)
}

func interestKey(from, to string) string {
	return fmt.Sprintf("%sinterest:%s:%s", domain.KeyPrefix, from, to)
}
