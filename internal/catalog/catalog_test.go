package catalog

import (
	"errors"
	"testing"

	"github.com/amora-labs/amora/internal/domain"
)

const validYAML = `
categories:
  - id: values
    name: Values
    weight: 0.6
    questions:
      - id: kids
        text: Do you want children?
        type: single_choice
        required: true
        options:
          - { id: no, text: "No", value: 0.0 }
          - { id: yes, text: "Yes", value: 1.0 }
  - id: lifestyle
    name: Lifestyle
    weight: 0.4
    questions:
      - id: pets
        text: Do you like pets?
        type: yes_no
        required: true
        options:
          - { id: yes, text: "Yes", value: 1.0 }
          - { id: no, text: "No", value: 0.0 }
`

func TestParse_Valid(t *testing.T) {
	cat, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cats := cat.Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].ID() != "values" || cats[0].Weight() != 0.6 {
		t.Errorf("unexpected first category: %s %v", cats[0].ID(), cats[0].Weight())
	}
	if cat.RequiredCount() != 2 {
		t.Errorf("expected 2 required questions, got %d", cat.RequiredCount())
	}
}

func TestParse_WeightSumViolation(t *testing.T) {
	bad := `
categories:
  - id: values
    name: Values
    weight: 0.5
    questions:
      - id: kids
        text: Kids?
        type: yes_no
        required: true
        options:
          - { id: yes, text: "Yes", value: 1.0 }
          - { id: no, text: "No", value: 0.0 }
`
	if _, err := Parse([]byte(bad)); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestParse_UnknownQuestionType(t *testing.T) {
	bad := `
categories:
  - id: values
    name: Values
    weight: 1.0
    questions:
      - id: kids
        text: Kids?
        type: free_text
        required: true
        options:
          - { id: yes, text: "Yes", value: 1.0 }
`
	if _, err := Parse([]byte(bad)); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestParse_OptionValueOutOfRange(t *testing.T) {
	bad := `
categories:
  - id: values
    name: Values
    weight: 1.0
    questions:
      - id: kids
        text: Kids?
        type: single_choice
        required: true
        options:
          - { id: yes, text: "Yes", value: 2.0 }
`
	if _, err := Parse([]byte(bad)); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("categories: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
