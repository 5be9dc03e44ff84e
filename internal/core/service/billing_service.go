package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
	"github.com/lulumobiles3644-boop/lulu-billing/internal/port"
)

var oneHundred = decimal.NewFromInt(100)

// BillingService turns a finished cart into an immutable invoice and commits
// the paired stock deduction. A bill is either fully committed or not
// committed at all.
type BillingService struct {
	inventory port.InventoryRepository
	invoices  port.InvoiceWriter
	logger    zerolog.Logger
	now       func() time.Time
}

func NewBillingService(inventory port.InventoryRepository, invoices port.InvoiceWriter, logger zerolog.Logger) *BillingService {
	return &BillingService{
		inventory: inventory,
		invoices:  invoices,
		logger:    logger,
		now:       time.Now,
	}
}

// Finalize prices the cart, verifies every stock decrement against the live
// inventory, and commits. taxPercent is a percentage (7.5 means 7.5%).
//
// Commit order is fixed: the invoice is staged first, then inventory is
// saved, then the staged invoice is published. A crash between save and
// publish leaves a deducted inventory and an unpublished staged file, never
// a published invoice whose deduction was lost.
//
// Returns the invoice and its published location.
func (s *BillingService) Finalize(ctx context.Context, cart domain.Cart, customer string, taxPercent decimal.Decimal) (domain.Invoice, string, error) {
	if len(cart.Items) == 0 {
		return domain.Invoice{}, "", ErrEmptyCart
	}
	if taxPercent.IsNegative() {
		return domain.Invoice{}, "", ErrInvalidTaxInput
	}

	subtotal := decimal.Zero
	for _, it := range cart.Items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	subtotal = subtotal.Round(2)

	rate := taxPercent.Div(oneHundred)
	tax := subtotal.Mul(rate).Round(2)
	total := subtotal.Add(tax).Round(2)

	invoice := domain.Invoice{
		Customer:  customer,
		Timestamp: s.now(),
		Items:     cart.Items,
		Subtotal:  subtotal,
		TaxRate:   rate,
		Tax:       tax,
		Total:     total,
	}

	state, err := s.inventory.Load(ctx)
	if err != nil {
		return domain.Invoice{}, "", fmt.Errorf("load inventory: %w", err)
	}

	// Verify and apply every decrement against a scratch copy of the live
	// state before anything is written. Inventory may have shrunk since the
	// cart was validated (stale save file across a crash/resume), in which
	// case nothing is applied.
	for _, it := range cart.Items {
		p, ok := state[it.Name]
		if !ok || p.Stock < it.Quantity {
			return domain.Invoice{}, "", ErrStockConflict
		}
		p.Stock -= it.Quantity
		state[it.Name] = p
	}

	handle, err := s.invoices.Stage(ctx, invoice)
	if err != nil {
		return domain.Invoice{}, "", fmt.Errorf("stage invoice: %w", err)
	}

	if err := s.inventory.Save(ctx, state); err != nil {
		return domain.Invoice{}, "", fmt.Errorf("save inventory: %w", err)
	}

	location, err := s.invoices.Publish(ctx, handle)
	if err != nil {
		return domain.Invoice{}, "", fmt.Errorf("publish invoice: %w", err)
	}

	s.logger.Info().
		Str("invoice", location).
		Str("total", total.StringFixed(2)).
		Int("lines", len(cart.Items)).
		Msg("bill committed")

	return invoice, location, nil
}
