// Package search holds the value types exchanged with the profile search port:
// normalized filters and cursor-addressed result pages.
package search

import "strings"

// Pagination limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filters is an immutable set of discovery search criteria.
// All string fields are trimmed; empty strings mean "absent".
// Every mutator returns a new value — callers never share mutable filter state.
type Filters struct {
	query           string
	city            string
	minAge          int
	maxAge          int
	preferredGender string
	pageSize        int
	interests       []string
}

// NewFilters creates an empty filter set.
func NewFilters() Filters {
	return Filters{}
}

// WithQuery returns a copy with the free-text query replaced.
func (f Filters) WithQuery(query string) Filters {
	f.query = strings.TrimSpace(query)
	return f
}

// WithCity returns a copy with the city filter replaced.
func (f Filters) WithCity(city string) Filters {
	f.city = strings.TrimSpace(city)
	return f
}

// WithAgeRange returns a copy with the age bounds replaced.
// Non-positive bounds mean "absent"; an inverted range is swapped.
func (f Filters) WithAgeRange(minAge, maxAge int) Filters {
	if minAge < 0 {
		minAge = 0
	}
	if maxAge < 0 {
		maxAge = 0
	}
	if minAge > 0 && maxAge > 0 && minAge > maxAge {
		minAge, maxAge = maxAge, minAge
	}
	f.minAge = minAge
	f.maxAge = maxAge
	return f
}

// WithPreferredGender returns a copy with the gender preference replaced.
func (f Filters) WithPreferredGender(gender string) Filters {
	f.preferredGender = strings.TrimSpace(gender)
	return f
}

// WithPageSize returns a copy with the page size replaced, clamped to [1, MaxPageSize].
// Zero resets to the default.
func (f Filters) WithPageSize(size int) Filters {
	if size <= 0 {
		size = 0
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	f.pageSize = size
	return f
}

// WithInterests returns a copy with the interest tags replaced.
// Tags are trimmed, lowercased, and deduplicated preserving first-seen order.
func (f Filters) WithInterests(interests []string) Filters {
	seen := make(map[string]struct{}, len(interests))
	cleaned := make([]string, 0, len(interests))
	for _, tag := range interests {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	f.interests = cleaned
	return f
}

// Query returns the free-text query ("" = absent).
func (f Filters) Query() string { return f.query }

// City returns the city filter ("" = absent).
func (f Filters) City() string { return f.city }

// MinAge returns the lower age bound (0 = absent).
func (f Filters) MinAge() int { return f.minAge }

// MaxAge returns the upper age bound (0 = absent).
func (f Filters) MaxAge() int { return f.maxAge }

// PreferredGender returns the gender preference ("" = absent).
func (f Filters) PreferredGender() string { return f.preferredGender }

// PageSize returns the requested page size (0 = use the engine default).
func (f Filters) PageSize() int { return f.pageSize }

// Interests returns the normalized interest tags.
func (f Filters) Interests() []string { return f.interests }

// IsEmpty reports whether no criterion is set.
func (f Filters) IsEmpty() bool {
	return f.query == "" && f.city == "" && f.minAge == 0 && f.maxAge == 0 &&
		f.preferredGender == "" && len(f.interests) == 0
}
