// Package compat holds the compatibility questionnaire model: the weighted
// question catalog, per-user response sets, and the derived score.
package compat

import (
	"fmt"

	"github.com/amora-labs/amora/internal/domain"
)

// QuestionType is the answer format of a catalog question.
type QuestionType string

// Question type constants.
const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	Scale          QuestionType = "scale"
	YesNo          QuestionType = "yes_no"
)

// IsValid checks if the type is one of the supported values.
func (t QuestionType) IsValid() bool {
	return t == SingleChoice || t == MultipleChoice || t == Scale || t == YesNo
}

// Option is one selectable answer with its agreement value in [0,1].
type Option struct {
	id    string
	text  string
	value float64
}

// NewOption creates an answer option.
func NewOption(id, text string, value float64) (Option, error) {
	if id == "" {
		return Option{}, fmt.Errorf("%w: option id is required", domain.ErrInvalidCatalog)
	}
	if value < 0 || value > 1 {
		return Option{}, fmt.Errorf("%w: option %q value %v out of [0,1]", domain.ErrInvalidCatalog, id, value)
	}
	return Option{id: id, text: text, value: value}, nil
}

// ID returns the option identifier.
func (o *Option) ID() string { return o.id }

// Text returns the option display text.
func (o *Option) Text() string { return o.text }

// Value returns the option agreement value.
func (o *Option) Value() float64 { return o.value }

// Question is one catalog question with its ordered options.
type Question struct {
	id       string
	text     string
	qtype    QuestionType
	options  []Option
	required bool
}

// NewQuestion creates a catalog question. Every question needs at least one
// option; yes/no questions need exactly two.
func NewQuestion(id, text string, qtype QuestionType, options []Option, required bool) (Question, error) {
	if id == "" {
		return Question{}, fmt.Errorf("%w: question id is required", domain.ErrInvalidCatalog)
	}
	if !qtype.IsValid() {
		return Question{}, fmt.Errorf("%w: question %q has unknown type %q", domain.ErrInvalidCatalog, id, qtype)
	}
	if len(options) == 0 {
		return Question{}, fmt.Errorf("%w: question %q has no options", domain.ErrInvalidCatalog, id)
	}
	if qtype == YesNo && len(options) != 2 {
		return Question{}, fmt.Errorf("%w: yes/no question %q needs exactly 2 options, has %d",
			domain.ErrInvalidCatalog, id, len(options))
	}
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if _, dup := seen[o.id]; dup {
			return Question{}, fmt.Errorf("%w: question %q has duplicate option %q", domain.ErrInvalidCatalog, id, o.id)
		}
		seen[o.id] = struct{}{}
	}
	return Question{id: id, text: text, qtype: qtype, options: options, required: required}, nil
}

// ID returns the question identifier.
func (q *Question) ID() string { return q.id }

// Text returns the question text.
func (q *Question) Text() string { return q.text }

// Type returns the answer format.
func (q *Question) Type() QuestionType { return q.qtype }

// Options returns the ordered answer options.
func (q *Question) Options() []Option { return q.options }

// Required reports whether the question counts toward questionnaire completeness.
func (q *Question) Required() bool { return q.required }

// OptionValue looks up an option's agreement value by id.
func (q *Question) OptionValue(optionID string) (float64, bool) {
	for i := range q.options {
		if q.options[i].id == optionID {
			return q.options[i].value, true
		}
	}
	return 0, false
}
