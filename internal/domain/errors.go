package domain

import "errors"

// KeyPrefix namespaces every Redis key written by this service.
const KeyPrefix = "amora:"

var (
	// ErrProfileNotFound signals a missing profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrResponsesNotFound signals that a user has no recorded questionnaire responses.
	ErrResponsesNotFound = errors.New("responses not found")
	// ErrSessionNotFound signals a missing or expired discovery session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoOverlap signals that two users share no jointly answered question,
	// so a compatibility score is undefined (as opposed to zero).
	ErrNoOverlap = errors.New("no jointly answered questions")
	// ErrInvalidCatalog signals a misconfigured question catalog. Fatal at load time.
	ErrInvalidCatalog = errors.New("invalid question catalog")
	// ErrInvalidResponse signals a malformed questionnaire response.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrInvalidFilters signals malformed search filters.
	ErrInvalidFilters = errors.New("invalid search filters")
)
