package port

import (
	"context"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

type InventoryRepository interface {
	// Load returns the full product mapping. An absent backing store is an
	// empty mapping, not an error. Callers own the returned map.
	Load(ctx context.Context) (map[string]domain.Product, error)

	// Save replaces the persisted mapping with state, atomically with
	// respect to crashes (a reader never observes a partial write).
	Save(ctx context.Context, state map[string]domain.Product) error
}
