package compat

import (
	"testing"
	"time"

	"github.com/amora-labs/amora/internal/domain/compat"
)

// --- Builders ---

func makeOption(t *testing.T, id string, value float64) compat.Option {
	t.Helper()
	o, err := compat.NewOption(id, id, value)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	return o
}

func makeQuestion(t *testing.T, id string, qtype compat.QuestionType, options ...compat.Option) compat.Question {
	t.Helper()
	q, err := compat.NewQuestion(id, id, qtype, options, true)
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	return q
}

// makeCatalog builds the fixed test catalog:
//
//	values (0.6): kids single_choice {no=0, maybe=0.5, yes=1}
//	lifestyle (0.4): pets yes_no {yes=1, no=0},
//	                 weekend multiple_choice {hiking=1, museums=1, parties=1}
func makeCatalog(t *testing.T) compat.Catalog {
	t.Helper()

	kids := makeQuestion(t, "kids", compat.SingleChoice,
		makeOption(t, "no", 0), makeOption(t, "maybe", 0.5), makeOption(t, "yes", 1))
	pets := makeQuestion(t, "pets", compat.YesNo,
		makeOption(t, "yes", 1), makeOption(t, "no", 0))
	weekend := makeQuestion(t, "weekend", compat.MultipleChoice,
		makeOption(t, "hiking", 1), makeOption(t, "museums", 1), makeOption(t, "parties", 1))

	values, err := compat.NewCategory("values", "Values", 0.6, []compat.Question{kids})
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}
	lifestyle, err := compat.NewCategory("lifestyle", "Lifestyle", 0.4, []compat.Question{pets, weekend})
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}

	cat, err := compat.NewCatalog([]compat.Category{values, lifestyle})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func single(t *testing.T, optionID string) compat.ResponseValue {
	t.Helper()
	v, err := compat.NewSingle(optionID)
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	return v
}

func multiple(t *testing.T, optionIDs ...string) compat.ResponseValue {
	t.Helper()
	v, err := compat.NewMultiple(optionIDs)
	if err != nil {
		t.Fatalf("NewMultiple: %v", err)
	}
	return v
}

func makeResponses(t *testing.T, userID string, answers map[string]compat.ResponseValue) compat.ResponseSet {
	t.Helper()
	rs, err := compat.NewResponseSet(userID, answers, time.Now())
	if err != nil {
		t.Fatalf("NewResponseSet: %v", err)
	}
	return rs
}
