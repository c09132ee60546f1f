// Package compat computes pairwise compatibility from two users' recorded
// questionnaire answers against the weighted question catalog.
package compat

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/domain"
	"github.com/amora-labs/amora/internal/domain/compat"
)

// Score outcome labels for the scores counter.
const (
	outcomeOK        = "ok"
	outcomeNoOverlap = "no_overlap"
)

// Completeness describes how much of the required questionnaire a user has
// answered.
type Completeness struct {
	Answered int
	Required int
	Complete bool
}

// Service scores user pairs. Pure computation over immutable inputs; safe
// for concurrent use without locking.
type Service struct {
	catalog compat.Catalog
	logger  *zap.Logger
	scores  *prometheus.CounterVec
}

// NewService creates a scorer over a validated catalog.
func NewService(catalog compat.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, logger: logger}
}

// WithMetrics attaches the scores counter.
func (s *Service) WithMetrics(scores *prometheus.CounterVec) *Service {
	s.scores = scores
	return s
}

// Catalog returns the catalog the service scores against.
func (s *Service) Catalog() compat.Catalog { return s.catalog }

// Score computes the compatibility between two users' response sets.
//
// Each category's score is the mean per-question agreement over the questions
// both users answered, scaled to [0,100]. Categories with no jointly answered
// question are skipped and the remaining category weights renormalized, so
// skipped categories neither punish nor reward. When no category has a
// jointly answered question, domain.ErrNoOverlap is returned — a score of 0
// means maximal disagreement, never missing data.
func (s *Service) Score(a, b compat.ResponseSet) (compat.Score, error) {
	categoryScores := make(map[string]float64)
	var weightSum float64

	cats := s.catalog.Categories()
	for i := range cats {
		c := &cats[i]
		score, ok := categoryScore(c, &a, &b)
		if !ok {
			continue
		}
		categoryScores[c.ID()] = score
		weightSum += c.Weight()
	}

	if len(categoryScores) == 0 {
		s.count(outcomeNoOverlap)
		return compat.Score{}, domain.ErrNoOverlap
	}

	var overall float64
	if weightSum > 0 {
		for i := range cats {
			c := &cats[i]
			cs, ok := categoryScores[c.ID()]
			if !ok {
				continue
			}
			overall += cs * (c.Weight() / weightSum)
		}
	} else {
		// All scoreable categories carry zero weight; fall back to an
		// equal split so the overall stays defined.
		for _, cs := range categoryScores {
			overall += cs / float64(len(categoryScores))
		}
	}
	overall = clamp(overall, 0, 100)

	s.count(outcomeOK)
	return compat.NewScore(a.UserID(), b.UserID(), overall, categoryScores, time.Now()), nil
}

// Completeness reports how many required catalog questions the response set
// answers.
func (s *Service) Completeness(rs compat.ResponseSet) Completeness {
	required := 0
	answered := 0
	cats := s.catalog.Categories()
	for i := range cats {
		qs := cats[i].Questions()
		for j := range qs {
			if !qs[j].Required() {
				continue
			}
			required++
			if _, ok := rs.Get(qs[j].ID()); ok {
				answered++
			}
		}
	}
	return Completeness{
		Answered: answered,
		Required: required,
		Complete: answered >= required,
	}
}

func (s *Service) count(outcome string) {
	if s.scores != nil {
		s.scores.WithLabelValues(outcome).Inc()
	}
}
