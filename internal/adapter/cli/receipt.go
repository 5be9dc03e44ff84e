package cli

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

var oneHundred = decimal.NewFromInt(100)

func (m *Menu) printReceipt(invoice domain.Invoice) {
	fmt.Fprint(m.out, "\n----- RECEIPT -----\n")
	if invoice.Customer != "" {
		fmt.Fprintf(m.out, "Customer: %s\n", invoice.Customer)
	}
	fmt.Fprintf(m.out, "Date: %s\n", invoice.Timestamp.Format("2006-01-02T15:04:05"))

	fmt.Fprint(m.out, "\nItems:\n")
	for _, it := range invoice.Items {
		fmt.Fprintf(m.out, " - %s: %d x %s = %s\n",
			it.Name, it.Quantity, it.UnitPrice.StringFixed(2), it.LineTotal.StringFixed(2))
	}

	fmt.Fprintf(m.out, "Subtotal: %s\n", invoice.Subtotal.StringFixed(2))
	if !invoice.TaxRate.IsZero() {
		fmt.Fprintf(m.out, "Tax (%s%%): %s\n",
			invoice.TaxRate.Mul(oneHundred).String(), invoice.Tax.StringFixed(2))
	}
	fmt.Fprintf(m.out, "TOTAL: %s\n", invoice.Total.StringFixed(2))
	fmt.Fprint(m.out, "-------------------\n\n")
}
