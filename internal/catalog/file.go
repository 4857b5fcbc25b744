package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sakif/sportify/internal/model"
)

// FileProvider serves a catalog read once from a YAML file:
//
//	items:
//	  - id: "1"
//	    title: Lakers vs Warriors
//	    description: NBA Finals - Game 7.
//	    image: 🏀
//	    status: Upcoming
//	    category: Match
//	    date: "2025-12-15"
type FileProvider struct {
	items []model.SportItem
}

var _ Provider = (*FileProvider)(nil)

type catalogFile struct {
	Items []model.SportItem `yaml:"items"`
}

// LoadFile reads and validates the catalog at path.
func LoadFile(path string) (*FileProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(f.Items))
	for i, it := range f.Items {
		switch {
		case it.ID == "":
			return nil, fmt.Errorf("catalog: %s: item %d has no id", path, i)
		case it.Title == "":
			return nil, fmt.Errorf("catalog: %s: item %q has no title", path, it.ID)
		case !it.Status.Valid():
			return nil, fmt.Errorf("catalog: %s: item %q has unknown status %q", path, it.ID, it.Status)
		case !it.Category.Valid():
			return nil, fmt.Errorf("catalog: %s: item %q has unknown category %q", path, it.ID, it.Category)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("catalog: %s: duplicate id %q", path, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	return &FileProvider{items: f.Items}, nil
}

// FetchSportsData returns a copy of the loaded catalog.
func (p *FileProvider) FetchSportsData(ctx context.Context) ([]model.SportItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("catalog: fetching sports data: %w", err)
	}
	items := make([]model.SportItem, len(p.items))
	copy(items, p.items)
	return items, nil
}
