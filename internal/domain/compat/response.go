package compat

import (
	"fmt"
	"time"

	"github.com/amora-labs/amora/internal/domain"
)

// ResponseValue is a tagged union over a user's answer to one question:
// either a single option id or a set of option ids. The variant is fixed at
// construction, never inferred from encoding.
type ResponseValue struct {
	single   string
	multiple []string
	isMulti  bool
}

// NewSingle creates a single-option answer.
func NewSingle(optionID string) (ResponseValue, error) {
	if optionID == "" {
		return ResponseValue{}, fmt.Errorf("%w: empty option id", domain.ErrInvalidResponse)
	}
	return ResponseValue{single: optionID}, nil
}

// NewMultiple creates a multi-option answer. Duplicates collapse; order is
// first-seen.
func NewMultiple(optionIDs []string) (ResponseValue, error) {
	if len(optionIDs) == 0 {
		return ResponseValue{}, fmt.Errorf("%w: empty option set", domain.ErrInvalidResponse)
	}
	seen := make(map[string]struct{}, len(optionIDs))
	ids := make([]string, 0, len(optionIDs))
	for _, id := range optionIDs {
		if id == "" {
			return ResponseValue{}, fmt.Errorf("%w: empty option id in set", domain.ErrInvalidResponse)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ResponseValue{multiple: ids, isMulti: true}, nil
}

// Single returns the selected option id for single-variant answers.
func (v *ResponseValue) Single() (string, bool) {
	if v.isMulti {
		return "", false
	}
	return v.single, v.single != ""
}

// Multiple returns the selected option ids for multi-variant answers.
func (v *ResponseValue) Multiple() ([]string, bool) {
	if !v.isMulti {
		return nil, false
	}
	return v.multiple, true
}

// IsMultiple reports whether this is the multi-option variant.
func (v *ResponseValue) IsMultiple() bool { return v.isMulti }

// ResponseSet is one user's recorded questionnaire answers.
// Append/overwrite only — answers are never deleted mid-session.
type ResponseSet struct {
	userID      string
	responses   map[string]ResponseValue
	completedAt time.Time
}

// NewResponseSet creates a response set for a user.
func NewResponseSet(userID string, responses map[string]ResponseValue, completedAt time.Time) (ResponseSet, error) {
	if userID == "" {
		return ResponseSet{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidResponse)
	}
	rs := make(map[string]ResponseValue, len(responses))
	for qid, v := range responses {
		rs[qid] = v
	}
	return ResponseSet{userID: userID, responses: rs, completedAt: completedAt}, nil
}

// UserID returns the owning user's id.
func (r *ResponseSet) UserID() string { return r.userID }

// CompletedAt returns when the responses were last written.
func (r *ResponseSet) CompletedAt() time.Time { return r.completedAt }

// Len returns the number of answered questions.
func (r *ResponseSet) Len() int { return len(r.responses) }

// Get returns the answer for a question, if recorded.
func (r *ResponseSet) Get(questionID string) (ResponseValue, bool) {
	v, ok := r.responses[questionID]
	return v, ok
}

// QuestionIDs returns the ids of all answered questions (unordered).
func (r *ResponseSet) QuestionIDs() []string {
	ids := make([]string, 0, len(r.responses))
	for qid := range r.responses {
		ids = append(ids, qid)
	}
	return ids
}
