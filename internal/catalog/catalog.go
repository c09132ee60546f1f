// Package catalog loads the compatibility question catalog from YAML.
// The catalog is injectable configuration: it is parsed and validated once at
// startup, and a weight-sum or option violation aborts the load rather than
// surfacing at scoring time.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/amora-labs/amora/internal/domain/compat"
)

type fileOption struct {
	ID    string  `yaml:"id"`
	Text  string  `yaml:"text"`
	Value float64 `yaml:"value"`
}

type fileQuestion struct {
	ID       string       `yaml:"id"`
	Text     string       `yaml:"text"`
	Type     string       `yaml:"type"`
	Required bool         `yaml:"required"`
	Options  []fileOption `yaml:"options"`
}

type fileCategory struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Weight    float64        `yaml:"weight"`
	Questions []fileQuestion `yaml:"questions"`
}

type fileCatalog struct {
	Categories []fileCategory `yaml:"categories"`
}

// Load reads and validates a question catalog from a YAML file.
func Load(path string) (compat.Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return compat.Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a validated catalog from YAML bytes.
func Parse(data []byte) (compat.Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return compat.Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	categories := make([]compat.Category, 0, len(fc.Categories))
	for _, c := range fc.Categories {
		questions := make([]compat.Question, 0, len(c.Questions))
		for _, q := range c.Questions {
			options := make([]compat.Option, 0, len(q.Options))
			for _, o := range q.Options {
				opt, err := compat.NewOption(o.ID, o.Text, o.Value)
				if err != nil {
					return compat.Catalog{}, fmt.Errorf("question %s: %w", q.ID, err)
				}
				options = append(options, opt)
			}
			question, err := compat.NewQuestion(q.ID, q.Text, compat.QuestionType(q.Type), options, q.Required)
			if err != nil {
				return compat.Catalog{}, fmt.Errorf("category %s: %w", c.ID, err)
			}
			questions = append(questions, question)
		}
		category, err := compat.NewCategory(c.ID, c.Name, c.Weight, questions)
		if err != nil {
			return compat.Catalog{}, err
		}
		categories = append(categories, category)
	}

	return compat.NewCatalog(categories)
}

// MustLoad loads a catalog or panics. Intended for composition roots only.
func MustLoad(path string) compat.Catalog {
	c, err := Load(path)
	if err != nil {
		panic(err)
	}
	return c
}
