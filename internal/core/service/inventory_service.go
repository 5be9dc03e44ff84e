package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
	"github.com/lulumobiles3644-boop/lulu-billing/internal/port"
)

// InventoryService exposes the stock/price mutations outside of billing.
// Every operation is one scoped load-validate-mutate-save transaction
// against the repository; validation failures save nothing.
type InventoryService struct {
	repo   port.InventoryRepository
	logger zerolog.Logger
}

func NewInventoryService(repo port.InventoryRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

// Snapshot returns a read-only view of the current inventory for cart
// building and display. The map is owned by the caller.
func (s *InventoryService) Snapshot(ctx context.Context) (map[string]domain.Product, error) {
	return s.repo.Load(ctx)
}

// AdjustStock applies delta (positive restock, negative removal) and returns
// the new stock level. The floor check runs before anything is written.
func (s *InventoryService) AdjustStock(ctx context.Context, name string, delta int) (int, error) {
	state, err := s.repo.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load inventory: %w", err)
	}

	p, ok := state[name]
	if !ok {
		return 0, ErrUnknownProduct
	}

	next := p.Stock + delta
	if next < 0 {
		return 0, ErrNegativeStock
	}

	p.Stock = next
	state[name] = p

	if err := s.repo.Save(ctx, state); err != nil {
		return 0, fmt.Errorf("save inventory: %w", err)
	}

	s.logger.Debug().Str("product", name).Int("delta", delta).Int("stock", next).Msg("stock adjusted")
	return next, nil
}

// UpsertPrice creates the product if absent (initial stock = stockDelta) or
// sets its price and adds stockDelta to its stock. stockDelta must be >= 0
// on this path; removal goes through AdjustStock and its floor check.
func (s *InventoryService) UpsertPrice(ctx context.Context, name string, price decimal.Decimal, stockDelta int) (domain.Product, error) {
	if name == "" {
		return domain.Product{}, ErrEmptyProductName
	}
	if price.IsNegative() {
		return domain.Product{}, ErrInvalidPrice
	}
	if stockDelta < 0 {
		return domain.Product{}, ErrInvalidQuantity
	}

	state, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("load inventory: %w", err)
	}

	p, ok := state[name]
	if ok {
		p.Price = price
		p.Stock += stockDelta
	} else {
		p = domain.Product{Name: name, Price: price, Stock: stockDelta}
	}
	state[name] = p

	if err := s.repo.Save(ctx, state); err != nil {
		return domain.Product{}, fmt.Errorf("save inventory: %w", err)
	}

	s.logger.Debug().Str("product", name).Str("price", price.StringFixed(2)).Int("stock", p.Stock).Msg("product upserted")
	return p, nil
}
