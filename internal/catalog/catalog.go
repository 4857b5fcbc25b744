// Package catalog supplies the browsable sports items.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/sportify/internal/apperror"
	"github.com/sakif/sportify/internal/model"
)

// DefaultDelay is the simulated network latency of the mock catalog.
const DefaultDelay = time.Second

// Provider returns the current page of catalog items. There is no
// pagination contract: every call is a full re-fetch.
type Provider interface {
	FetchSportsData(ctx context.Context) ([]model.SportItem, error)
}

// MockProvider serves a fixed catalog after a simulated delay.
type MockProvider struct {
	delay time.Duration
	items []model.SportItem
}

// NewMockProvider returns a provider over the built-in items.
// A zero delay answers immediately.
func NewMockProvider(delay time.Duration) *MockProvider {
	return &MockProvider{delay: delay, items: mockSportsData}
}

// FetchSportsData returns a copy of the catalog once the delay elapses, or
// the context error if ctx is done first.
func (p *MockProvider) FetchSportsData(ctx context.Context) ([]model.SportItem, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("catalog: fetching sports data: %w", ctx.Err())
		case <-timer.C:
		}
	}

	items := make([]model.SportItem, len(p.items))
	copy(items, p.items)
	return items, nil
}

// Find fetches the catalog and returns the item with the given id.
func Find(ctx context.Context, p Provider, id string) (model.SportItem, error) {
	items, err := p.FetchSportsData(ctx)
	if err != nil {
		return model.SportItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return model.SportItem{}, apperror.NotFound("sport item", id)
}

// Filter narrows items to one category (empty means any) and to those whose
// title or description contains query, case-insensitively (empty means any).
// Order is preserved.
func Filter(items []model.SportItem, category model.SportCategory, query string) []model.SportItem {
	query = strings.ToLower(strings.TrimSpace(query))

	out := []model.SportItem{}
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Title), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}
