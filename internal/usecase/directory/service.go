// Package directory manages the stored side of discovery: candidate profiles
// and questionnaire response sets. Responses are validated against the
// catalog before they are written, so the scorer only ever reads answers
// that reference real questions and options.
package directory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/domain"
	"github.com/amora-labs/amora/internal/domain/compat"
	"github.com/amora-labs/amora/internal/domain/profile"
)

// Service implements profile and response management.
type Service struct {
	profiles  ProfileStore
	responses ResponseStore
	catalog   compat.Catalog
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a directory service.
func NewService(profiles ProfileStore, responses ResponseStore, catalog compat.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:  profiles,
		responses: responses,
		catalog:   catalog,
		logger:    logger,
		now:       time.Now,
	}
}

// UpsertProfile creates or replaces a profile.
func (s *Service) UpsertProfile(ctx context.Context, p profile.Summary) error {
	if p.ID() == "" {
		return fmt.Errorf("%w: profile id is required", domain.ErrInvalidFilters)
	}
	if err := s.profiles.Put(ctx, p); err != nil {
		return err
	}
	s.logger.Debug("profile upserted", zap.String("id", p.ID()))
	return nil
}

// GetProfile returns a profile by id.
func (s *Service) GetProfile(ctx context.Context, id string) (profile.Summary, error) {
	return s.profiles.Get(ctx, id)
}

// DeleteProfile removes a profile.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	return s.profiles.Delete(ctx, id)
}

// SaveResponses validates and stores a user's full response set, replacing
// any previous one. Answers referencing unknown questions or options, or
// using the wrong variant for the question type, are rejected whole.
func (s *Service) SaveResponses(ctx context.Context, userID string, answers map[string]compat.ResponseValue) (compat.ResponseSet, error) {
	if err := s.validateAnswers(answers); err != nil {
		return compat.ResponseSet{}, err
	}
	rs, err := compat.NewResponseSet(userID, answers, s.now().UTC())
	if err != nil {
		return compat.ResponseSet{}, err
	}
	if err := s.responses.Put(ctx, rs); err != nil {
		return compat.ResponseSet{}, err
	}
	s.logger.Debug("responses saved", zap.String("user", userID), zap.Int("answers", rs.Len()))
	return rs, nil
}

// GetResponses returns a user's stored response set.
func (s *Service) GetResponses(ctx context.Context, userID string) (compat.ResponseSet, error) {
	return s.responses.Get(ctx, userID)
}

func (s *Service) validateAnswers(answers map[string]compat.ResponseValue) error {
	questions := make(map[string]*compat.Question)
	cats := s.catalog.Categories()
	for i := range cats {
		qs := cats[i].Questions()
		for j := range qs {
			questions[qs[j].ID()] = &qs[j]
		}
	}

	for qid, v := range answers {
		q, ok := questions[qid]
		if !ok {
			return fmt.Errorf("%w: unknown question %q", domain.ErrInvalidResponse, qid)
		}
		if q.Type() == compat.MultipleChoice != v.IsMultiple() {
			return fmt.Errorf("%w: question %q answer variant does not match type %s",
				domain.ErrInvalidResponse, qid, q.Type())
		}
		if ids, ok := v.Multiple(); ok {
			for _, id := range ids {
				if _, found := q.OptionValue(id); !found {
					return fmt.Errorf("%w: question %q has no option %q", domain.ErrInvalidResponse, qid, id)
				}
			}
			continue
		}
		id, _ := v.Single()
		if _, found := q.OptionValue(id); !found {
			return fmt.Errorf("%w: question %q has no option %q", domain.ErrInvalidResponse, qid, id)
		}
	}
	return nil
}
