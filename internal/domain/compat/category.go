package compat

import (
	"fmt"
	"math"

	"github.com/amora-labs/amora/internal/domain"
)

// weightTolerance is the floating tolerance for the catalog weight-sum invariant.
const weightTolerance = 1e-6

// Category is one weighted group of catalog questions.
type Category struct {
	id        string
	name      string
	weight    float64
	questions []Question
}

// NewCategory creates a question category.
func NewCategory(id, name string, weight float64, questions []Question) (Category, error) {
	if id == "" {
		return Category{}, fmt.Errorf("%w: category id is required", domain.ErrInvalidCatalog)
	}
	if weight < 0 || weight > 1 {
		return Category{}, fmt.Errorf("%w: category %q weight %v out of [0,1]", domain.ErrInvalidCatalog, id, weight)
	}
	if len(questions) == 0 {
		return Category{}, fmt.Errorf("%w: category %q has no questions", domain.ErrInvalidCatalog, id)
	}
	return Category{id: id, name: name, weight: weight, questions: questions}, nil
}

// ID returns the category identifier.
func (c *Category) ID() string { return c.id }

// Name returns the category display name.
func (c *Category) Name() string { return c.name }

// Weight returns the category's fractional contribution to the overall score.
func (c *Category) Weight() float64 { return c.weight }

// Questions returns the ordered category questions.
func (c *Category) Questions() []Question { return c.questions }

// Catalog is the validated, ordered set of weighted categories.
type Catalog struct {
	categories []Category
}

// NewCatalog validates the weight-sum invariant (Σ weights = 1 ± 1e-6) and
// question-id uniqueness across categories. A violation is a configuration
// error surfaced at load time, never at scoring time.
func NewCatalog(categories []Category) (Catalog, error) {
	if len(categories) == 0 {
		return Catalog{}, fmt.Errorf("%w: no categories", domain.ErrInvalidCatalog)
	}

	var sum float64
	seenCat := make(map[string]struct{}, len(categories))
	seenQ := make(map[string]struct{})
	for i := range categories {
		c := &categories[i]
		if _, dup := seenCat[c.id]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate category %q", domain.ErrInvalidCatalog, c.id)
		}
		seenCat[c.id] = struct{}{}
		sum += c.weight
		for j := range c.questions {
			qid := c.questions[j].id
			if _, dup := seenQ[qid]; dup {
				return Catalog{}, fmt.Errorf("%w: duplicate question %q", domain.ErrInvalidCatalog, qid)
			}
			seenQ[qid] = struct{}{}
		}
	}

	if math.Abs(sum-1.0) > weightTolerance {
		return Catalog{}, fmt.Errorf("%w: category weights sum to %v, want 1.0", domain.ErrInvalidCatalog, sum)
	}

	return Catalog{categories: categories}, nil
}

// Categories returns the ordered categories.
func (c *Catalog) Categories() []Category { return c.categories }

// RequiredCount returns the number of required questions across all categories.
func (c *Catalog) RequiredCount() int {
	n := 0
	for i := range c.categories {
		for j := range c.categories[i].questions {
			if c.categories[i].questions[j].required {
				n++
			}
		}
	}
	return n
}
