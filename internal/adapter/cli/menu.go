package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/service"
)

// Menu is the interactive operator loop: add/remove/view products and create
// bills. All validation errors are recoverable; the loop reports them and
// continues without touching persisted state.
type Menu struct {
	inventory *service.InventoryService
	billing   *service.BillingService
	in        *bufio.Scanner
	out       io.Writer
	logger    zerolog.Logger
}

func NewMenu(inventory *service.InventoryService, billing *service.BillingService, in io.Reader, out io.Writer, logger zerolog.Logger) *Menu {
	return &Menu{
		inventory: inventory,
		billing:   billing,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
	}
}

// Run drives the menu until the operator quits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, "\nLulu Billing - Menu\n")
		fmt.Fprint(m.out, "1. Add product\n")
		fmt.Fprint(m.out, "2. Remove product\n")
		fmt.Fprint(m.out, "3. View inventory\n")
		fmt.Fprint(m.out, "4. Create bill\n")
		fmt.Fprint(m.out, "q. Quit\n")

		choice, ok := m.prompt("Choose an action: ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			m.addProduct(ctx)
		case "2":
			m.removeProduct(ctx)
		case "3":
			m.viewInventory(ctx)
		case "4":
			m.createBill(ctx)
		case "q":
			fmt.Fprintln(m.out, "Goodbye")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice")
		}
	}
}

func (m *Menu) addProduct(ctx context.Context) {
	name, ok := m.prompt("Enter product name: ")
	if !ok {
		return
	}
	if name == "" {
		fmt.Fprintln(m.out, "Product name cannot be empty")
		return
	}

	priceInput, ok := m.prompt("Enter price: ")
	if !ok {
		return
	}
	price, err := decimal.NewFromString(priceInput)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid numeric input for price or quantity")
		return
	}

	qtyInput, ok := m.prompt("Enter quantity: ")
	if !ok {
		return
	}
	qty, err := strconv.Atoi(qtyInput)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid numeric input for price or quantity")
		return
	}

	p, err := m.inventory.UpsertPrice(ctx, name, price, qty)
	if err != nil {
		fmt.Fprintln(m.out, operatorMessage(err))
		return
	}
	fmt.Fprintf(m.out, "Added/updated '%s': price=%s, stock=%d\n", p.Name, p.Price.StringFixed(2), p.Stock)
}

func (m *Menu) removeProduct(ctx context.Context) {
	name, ok := m.prompt("Enter product name to remove: ")
	if !ok {
		return
	}

	qtyInput, ok := m.prompt("Enter quantity to remove: ")
	if !ok {
		return
	}
	qty, err := strconv.Atoi(qtyInput)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid quantity")
		return
	}
	if qty < 0 {
		fmt.Fprintln(m.out, "Quantity cannot be negative")
		return
	}

	remaining, err := m.inventory.AdjustStock(ctx, name, -qty)
	if err != nil {
		fmt.Fprintln(m.out, operatorMessage(err))
		return
	}
	if remaining == 0 {
		fmt.Fprintf(m.out, "'%s' is now out of stock\n", name)
	}
	fmt.Fprintf(m.out, "Removed %d x %s. Remaining stock: %d\n", qty, name, remaining)
}

func (m *Menu) viewInventory(ctx context.Context) {
	snapshot, err := m.inventory.Snapshot(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("snapshot failed")
		fmt.Fprintln(m.out, "Could not read inventory")
		return
	}

	fmt.Fprint(m.out, "\nCurrent Inventory:\n")
	if len(snapshot) == 0 {
		fmt.Fprintln(m.out, "No products in inventory.")
		return
	}

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := snapshot[name]
		fmt.Fprintf(m.out, "%s - Price: %s - Stock: %d\n", p.Name, p.Price.StringFixed(2), p.Stock)
	}
}

func (m *Menu) createBill(ctx context.Context) {
	snapshot, err := m.inventory.Snapshot(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("snapshot failed")
		fmt.Fprintln(m.out, "Could not read inventory")
		return
	}
	if len(snapshot) == 0 {
		fmt.Fprintln(m.out, "Inventory empty. Add products first.")
		return
	}

	builder := service.NewCartBuilder(snapshot)

	fmt.Fprintln(m.out, "Enter items for the bill. Type 'done' when finished.")
	for {
		name, ok := m.prompt("Product name (or 'done'): ")
		if !ok {
			return
		}
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "done") {
			break
		}

		qtyInput, ok := m.prompt("Quantity: ")
		if !ok {
			return
		}
		qty, err := strconv.Atoi(qtyInput)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid quantity")
			continue
		}

		if _, err := builder.TryAdd(name, qty); err != nil {
			switch {
			case errors.Is(err, service.ErrUnknownProduct):
				fmt.Fprintln(m.out, "Product not found. Try again.")
			case errors.Is(err, service.ErrInvalidQuantity):
				fmt.Fprintln(m.out, "Quantity must be positive")
			case errors.Is(err, service.ErrInsufficientStock):
				fmt.Fprintf(m.out, "Only %d available. Try a smaller quantity.\n", builder.Available(name))
			default:
				fmt.Fprintln(m.out, operatorMessage(err))
			}
			continue
		}
	}

	if builder.Empty() {
		fmt.Fprintln(m.out, "No items were added to the bill.")
		return
	}

	taxInput, ok := m.prompt("Enter tax % to apply (or leave blank for 0): ")
	if !ok {
		return
	}
	taxPercent, err := parseTaxPercent(taxInput)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid tax input; using 0%")
		taxPercent = decimal.Zero
	}

	customer, ok := m.prompt("Customer name (optional): ")
	if !ok {
		return
	}

	invoice, location, err := m.billing.Finalize(ctx, builder.Cart(), customer, taxPercent)
	if err != nil {
		if errors.Is(err, service.ErrStockConflict) {
			fmt.Fprintln(m.out, "Inventory changed while billing; nothing was charged. Try again.")
			return
		}
		m.logger.Error().Err(err).Msg("finalize failed")
		fmt.Fprintln(m.out, operatorMessage(err))
		return
	}

	fmt.Fprintf(m.out, "Invoice saved to %s\n", location)
	m.printReceipt(invoice)
}

// prompt reads one trimmed line; ok is false once input is exhausted.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// parseTaxPercent maps the tax prompt to a non-negative percentage; blank
// means 0.
func parseTaxPercent(input string) (decimal.Decimal, error) {
	if input == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(input)
	if err != nil || d.IsNegative() {
		return decimal.Zero, service.ErrInvalidTaxInput
	}
	return d, nil
}

// operatorMessage maps service errors to the messages the operator sees.
func operatorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUnknownProduct):
		return "Product not found in inventory"
	case errors.Is(err, service.ErrEmptyProductName):
		return "Product name cannot be empty"
	case errors.Is(err, service.ErrInvalidQuantity):
		return "Quantity must be a positive whole number"
	case errors.Is(err, service.ErrInvalidPrice):
		return "Price cannot be negative"
	case errors.Is(err, service.ErrNegativeStock):
		return "Cannot remove more units than are in stock"
	case errors.Is(err, service.ErrInsufficientStock):
		return "Not enough stock"
	case errors.Is(err, service.ErrEmptyCart):
		return "No items were added to the bill."
	case errors.Is(err, service.ErrInvalidTaxInput):
		return "Invalid tax input"
	default:
		return "Operation failed: " + err.Error()
	}
}
