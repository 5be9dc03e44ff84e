package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one priced cart line. UnitPrice is the inventory price at the
// moment the line was added; LineTotal is UnitPrice x Quantity rounded to
// two places (half-up). Immutable once in a cart.
type LineItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Cart is the ordered set of validated line items for one bill. It lives
// only while the bill is being built and is discarded if never finalized.
type Cart struct {
	Items []LineItem
}

// Invoice is the committed result of a bill. TaxRate is a fraction, not a
// percentage. Subtotal, Tax and Total are derived in that order, each
// rounded to two places. Never mutated after creation.
type Invoice struct {
	Customer  string
	Timestamp time.Time
	Items     []LineItem
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}
