package domain

import "github.com/shopspring/decimal"

// Product is one inventory record, keyed by name. Stock is whole units and
// never goes negative; products are zeroed out, never deleted.
type Product struct {
	Name  string
	Price decimal.Decimal
	Stock int
}
