package compat

import "time"

// Tier is the qualitative compatibility band for an overall score.
type Tier string

// Compatibility tiers, highest first.
const (
	TierExcellent Tier = "Excellent"
	TierStrong    Tier = "Strong"
	TierGood      Tier = "Good"
	TierModerate  Tier = "Moderate"
	TierFair      Tier = "Fair"
	TierLow       Tier = "Low"
)

// TierFor maps an overall score to its tier. Bands are closed below:
// [90,100] Excellent, [80,90) Strong, [70,80) Good, [60,70) Moderate,
// [50,60) Fair, [0,50) Low.
func TierFor(score float64) Tier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 80:
		return TierStrong
	case score >= 70:
		return TierGood
	case score >= 60:
		return TierModerate
	case score >= 50:
		return TierFair
	default:
		return TierLow
	}
}

// Score is a derived, immutable compatibility result between two users.
// Recomputed on demand whenever either party's responses change.
type Score struct {
	userID1        string
	userID2        string
	overall        float64
	categoryScores map[string]float64
	tier           Tier
	calculatedAt   time.Time
}

// NewScore creates a compatibility score.
func NewScore(userID1, userID2 string, overall float64, categoryScores map[string]float64, calculatedAt time.Time) Score {
	return Score{
		userID1:        userID1,
		userID2:        userID2,
		overall:        overall,
		categoryScores: categoryScores,
		tier:           TierFor(overall),
		calculatedAt:   calculatedAt,
	}
}

// UserID1 returns the first user id.
func (s *Score) UserID1() string { return s.userID1 }

// UserID2 returns the second user id.
func (s *Score) UserID2() string { return s.userID2 }

// Overall returns the weighted overall score in [0,100].
func (s *Score) Overall() float64 { return s.overall }

// CategoryScores returns per-category scores in [0,100], keyed by category id.
// Categories with no jointly answered question are absent.
func (s *Score) CategoryScores() map[string]float64 { return s.categoryScores }

// Tier returns the qualitative band for the overall score.
func (s *Score) Tier() Tier { return s.tier }

// CalculatedAt returns the computation timestamp.
func (s *Score) CalculatedAt() time.Time { return s.calculatedAt }
