package port

import (
	"context"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

type InvoiceWriter interface {
	// Stage durably writes the invoice to a non-published location and
	// returns an opaque handle for Publish. A staged invoice is not yet
	// visible as an issued invoice.
	Stage(ctx context.Context, invoice domain.Invoice) (string, error)

	// Publish makes a previously staged invoice visible and returns its
	// final location. The rename/flip must be atomic.
	Publish(ctx context.Context, handle string) (string, error)
}
