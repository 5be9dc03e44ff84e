package service

import (
	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

// CartBuilder accumulates validated line items against a read-only inventory
// snapshot. It never touches the store: stock is only deducted when the
// finished cart is committed by BillingService.
//
// Each TryAdd is checked against the snapshot stock minus the quantity of
// that product already in the cart, so two lines for the same product can
// never book the same unit twice.
type CartBuilder struct {
	snapshot map[string]domain.Product
	items    []domain.LineItem
	reserved map[string]int
}

func NewCartBuilder(snapshot map[string]domain.Product) *CartBuilder {
	return &CartBuilder{
		snapshot: snapshot,
		reserved: make(map[string]int),
	}
}

// TryAdd validates one requested line and appends it on success. Line totals
// are rounded to two places, half-up.
func (b *CartBuilder) TryAdd(name string, quantity int) (domain.LineItem, error) {
	if quantity <= 0 {
		return domain.LineItem{}, ErrInvalidQuantity
	}

	p, ok := b.snapshot[name]
	if !ok {
		return domain.LineItem{}, ErrUnknownProduct
	}

	if quantity > p.Stock-b.reserved[name] {
		return domain.LineItem{}, ErrInsufficientStock
	}

	item := domain.LineItem{
		Name:      name,
		UnitPrice: p.Price,
		Quantity:  quantity,
		LineTotal: p.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}

	b.items = append(b.items, item)
	b.reserved[name] += quantity

	return item, nil
}

// Available reports how many units of name the cart could still add:
// snapshot stock minus the cart's running reservation.
func (b *CartBuilder) Available(name string) int {
	p, ok := b.snapshot[name]
	if !ok {
		return 0
	}
	return p.Stock - b.reserved[name]
}

func (b *CartBuilder) Empty() bool {
	return len(b.items) == 0
}

// Cart returns the finished cart. The items slice is copied so later builder
// use cannot mutate a cart already handed to the billing engine.
func (b *CartBuilder) Cart() domain.Cart {
	items := make([]domain.LineItem, len(b.items))
	copy(items, b.items)
	return domain.Cart{Items: items}
}
