// Package profile stores candidate profiles as Redis hashes and serves the
// discovery feed's paginated, filterable search over an FT index.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amora-labs/amora/internal/db"
	"github.com/amora-labs/amora/internal/domain"
	domprofile "github.com/amora-labs/amora/internal/domain/profile"
	"github.com/amora-labs/amora/internal/domain/search"
)

// store is the consumer interface for profiles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the feed usecase's ProfileSearcher and the directory
// usecase's profile store.
type Repo struct {
	store store
}

// New creates a profile repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the profile search index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName())
	if err != nil {
		return fmt.Errorf("check index %s: %w", indexName(), err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, buildIndex()); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", indexName(), err)
	}
	return nil
}

// Put creates or replaces a profile.
func (r *Repo) Put(ctx context.Context, p domprofile.Summary) error {
	key := profileKey(p.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(&p)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns a profile by id.
func (r *Repo) Get(ctx context.Context, id string) (domprofile.Summary, error) {
	key := profileKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domprofile.Summary{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domprofile.Summary{}, domain.ErrProfileNotFound
	}
	return parseHashFields(id, fields), nil
}

// Delete removes a profile.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := profileKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrProfileNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Search returns one page of profiles matching the filters. The cursor is a
// result offset; one extra row is fetched to decide whether a next page
// exists without a second round trip.
func (r *Repo) Search(ctx context.Context, filters search.Filters, pageSize int, cursor string) (search.Page, error) {
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return search.Page{}, fmt.Errorf("%w: bad cursor %q", domain.ErrInvalidFilters, cursor)
		}
		offset = parsed
	}

	result, err := r.store.SearchList(ctx, indexName(), buildQuery(filters), offset, pageSize+1, returnFields)
	if err != nil {
		return search.Page{}, fmt.Errorf("search profiles: %w", err)
	}
	if result == nil || len(result.Entries) == 0 {
		return search.NewPage(nil, ""), nil
	}

	items := make([]domprofile.Summary, 0, pageSize)
	for i, entry := range result.Entries {
		if i >= pageSize {
			break
		}
		items = append(items, parseHashFields(profileID(entry.Key), entry.Fields))
	}

	var nextCursor string
	if len(result.Entries) > pageSize {
		nextCursor = strconv.Itoa(offset + pageSize)
	}

	return search.NewPage(items, nextCursor), nil
}

// Count returns the number of profiles matching the filters.
func (r *Repo) Count(ctx context.Context, filters search.Filters) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName(), buildQuery(filters))
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}
