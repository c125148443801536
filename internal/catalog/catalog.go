// Package catalog holds the fixed list of known workouts users pick from.
package catalog

import (
	_ "embed"
	"fmt"
	"iter"
	"slices"
	"strings"

	"fitnote/planner/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is an immutable, ordered list of catalog entries.
type Catalog struct {
	entries []domain.CatalogEntry
}

type catalogFile struct {
	Workouts []domain.CatalogEntry `yaml:"workouts"`
}

var builtin = mustParse(catalogYAML)

// Default returns the catalog shipped with the binary. It is parsed once at startup.
func Default() *Catalog {
	return builtin
}

// New builds a catalog over the given entries, in the given order.
func New(entries []domain.CatalogEntry) *Catalog {
	return &Catalog{entries: slices.Clone(entries)}
}

// Parse reads a catalog asset. Every entry needs a name and a known category.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for i, e := range f.Workouts {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		if !e.Category.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown workout category %q", e.Name, string(e.Category))
		}
	}
	return &Catalog{entries: f.Workouts}, nil
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns every entry in catalog order.
func (c *Catalog) All() []domain.CatalogEntry {
	return slices.Clone(c.entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Search yields entries whose name or category label contains query, ignoring case.
// An empty query yields the whole catalog.
func (c *Catalog) Search(query string) iter.Seq[domain.CatalogEntry] {
	q := strings.ToLower(query)
	return func(yield func(domain.CatalogEntry) bool) {
		for _, e := range c.entries {
			if q != "" && !matches(e, q) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func matches(e domain.CatalogEntry, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(e.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(string(e.Category)), lowerQuery)
}

// Find looks an entry up by name, ignoring case.
func (c *Catalog) Find(name string) (domain.CatalogEntry, bool) {
	name = strings.TrimSpace(name)
	for _, e := range c.entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return domain.CatalogEntry{}, false
}

// Categories returns the categories a workout can belong to, in display order.
func (c *Catalog) Categories() []domain.WorkoutCategory {
	return slices.Clone(domain.AllCategories)
}
