package compat

import (
	"errors"
	"testing"

	"github.com/amora-labs/amora/internal/domain"
)

func mustOption(t *testing.T, id string, value float64) Option {
	t.Helper()
	o, err := NewOption(id, id, value)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	return o
}

func mustQuestion(t *testing.T, id string, qtype QuestionType, options ...Option) Question {
	t.Helper()
	q, err := NewQuestion(id, id, qtype, options, true)
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	return q
}

func mustCategory(t *testing.T, id string, weight float64, questions ...Question) Category {
	t.Helper()
	c, err := NewCategory(id, id, weight, questions)
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}
	return c
}

func TestNewOption_ValueOutOfRange(t *testing.T) {
	if _, err := NewOption("x", "x", 1.5); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
	if _, err := NewOption("x", "x", -0.1); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNewQuestion_YesNoNeedsTwoOptions(t *testing.T) {
	_, err := NewQuestion("q", "q", YesNo, []Option{mustOption(t, "yes", 1)}, true)
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNewQuestion_NoOptions(t *testing.T) {
	if _, err := NewQuestion("q", "q", SingleChoice, nil, true); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNewQuestion_DuplicateOption(t *testing.T) {
	_, err := NewQuestion("q", "q", SingleChoice,
		[]Option{mustOption(t, "a", 0), mustOption(t, "a", 1)}, true)
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNewCatalog_WeightSumViolation(t *testing.T) {
	q := mustQuestion(t, "q1", YesNo, mustOption(t, "yes", 1), mustOption(t, "no", 0))
	_, err := NewCatalog([]Category{mustCategory(t, "c1", 0.5, q)})
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog for weight sum 0.5, got %v", err)
	}
}

func TestNewCatalog_WeightSumWithinTolerance(t *testing.T) {
	q1 := mustQuestion(t, "q1", YesNo, mustOption(t, "yes", 1), mustOption(t, "no", 0))
	q2 := mustQuestion(t, "q2", YesNo, mustOption(t, "y", 1), mustOption(t, "n", 0))
	q3 := mustQuestion(t, "q3", YesNo, mustOption(t, "j", 1), mustOption(t, "x", 0))

	// 0.1+0.2+0.7 accumulates float error well inside the tolerance.
	_, err := NewCatalog([]Category{
		mustCategory(t, "c1", 0.1, q1),
		mustCategory(t, "c2", 0.2, q2),
		mustCategory(t, "c3", 0.7, q3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewCatalog_DuplicateQuestionAcrossCategories(t *testing.T) {
	q := mustQuestion(t, "dup", YesNo, mustOption(t, "yes", 1), mustOption(t, "no", 0))
	qCopy := mustQuestion(t, "dup", YesNo, mustOption(t, "y", 1), mustOption(t, "n", 0))

	_, err := NewCatalog([]Category{
		mustCategory(t, "c1", 0.5, q),
		mustCategory(t, "c2", 0.5, qCopy),
	})
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNewCatalog_Empty(t *testing.T) {
	if _, err := NewCatalog(nil); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestRequiredCount(t *testing.T) {
	req := mustQuestion(t, "q1", YesNo, mustOption(t, "yes", 1), mustOption(t, "no", 0))
	opt, err := NewQuestion("q2", "q2", YesNo,
		[]Option{mustOption(t, "y", 1), mustOption(t, "n", 0)}, false)
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}

	cat, err := NewCatalog([]Category{mustCategory(t, "c1", 1.0, req, opt)})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if got := cat.RequiredCount(); got != 1 {
		t.Errorf("expected 1 required question, got %d", got)
	}
}
