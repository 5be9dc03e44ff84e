package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

// Mock InventoryRepository
type mockInventoryRepo struct {
	state   map[string]domain.Product
	loadErr error
	saveErr error
	saves   int
	calls   *[]string
}

func (m *mockInventoryRepo) Load(ctx context.Context) (map[string]domain.Product, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]domain.Product, len(m.state))
	for k, v := range m.state {
		out[k] = v
	}
	return out, nil
}

func (m *mockInventoryRepo) Save(ctx context.Context, state map[string]domain.Product) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	*m.calls = append(*m.calls, "save")
	m.saves++
	m.state = state
	return nil
}

// Mock InvoiceWriter
type mockInvoiceWriter struct {
	staged   []domain.Invoice
	stageErr error
	calls    *[]string
}

func (m *mockInvoiceWriter) Stage(ctx context.Context, invoice domain.Invoice) (string, error) {
	if m.stageErr != nil {
		return "", m.stageErr
	}
	*m.calls = append(*m.calls, "stage")
	m.staged = append(m.staged, invoice)
	return "handle-1", nil
}

func (m *mockInvoiceWriter) Publish(ctx context.Context, handle string) (string, error) {
	*m.calls = append(*m.calls, "publish")
	return "invoices/invoice_20260831_120000.json", nil
}

func newTestBilling(stock int) (*BillingService, *mockInventoryRepo, *mockInvoiceWriter) {
	calls := []string{}
	repo := &mockInventoryRepo{
		state: map[string]domain.Product{
			"Widget": {Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: stock},
		},
		calls: &calls,
	}
	writer := &mockInvoiceWriter{calls: &calls}

	svc := NewBillingService(repo, writer, zerolog.Nop())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo, writer
}

func widgetCart(t *testing.T, repo *mockInventoryRepo, qty int) domain.Cart {
	t.Helper()
	snapshot, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	b := NewCartBuilder(snapshot)
	if _, err := b.TryAdd("Widget", qty); err != nil {
		t.Fatalf("TryAdd failed: %v", err)
	}
	return b.Cart()
}

func TestFinalize_Success(t *testing.T) {
	svc, repo, writer := newTestBilling(5)
	cart := widgetCart(t, repo, 3)

	invoice, location, err := svc.Finalize(context.Background(), cart, "Alice", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if got := invoice.Subtotal.StringFixed(2); got != "30.00" {
		t.Errorf("expected subtotal 30.00, got %s", got)
	}
	if got := invoice.Tax.StringFixed(2); got != "3.00" {
		t.Errorf("expected tax 3.00, got %s", got)
	}
	if got := invoice.Total.StringFixed(2); got != "33.00" {
		t.Errorf("expected total 33.00, got %s", got)
	}
	if !invoice.TaxRate.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("expected tax rate 0.1, got %s", invoice.TaxRate)
	}
	if invoice.Customer != "Alice" {
		t.Errorf("expected customer Alice, got %q", invoice.Customer)
	}
	if invoice.Timestamp.IsZero() {
		t.Error("expected generated timestamp")
	}
	if location == "" {
		t.Error("expected published location")
	}

	if got := repo.state["Widget"].Stock; got != 2 {
		t.Errorf("expected stock 2 after commit, got %d", got)
	}
	if repo.saves != 1 {
		t.Errorf("expected exactly one inventory save, got %d", repo.saves)
	}
	if len(writer.staged) != 1 {
		t.Errorf("expected exactly one staged invoice, got %d", len(writer.staged))
	}
}

// Invariants: total = round(subtotal + tax) and subtotal = round(sum of line
// totals) for any tax rate.
func TestFinalize_ArithmeticConsistency(t *testing.T) {
	for _, taxPercent := range []string{"0", "7.5", "10", "18.25", "100"} {
		svc, repo, writer := newTestBilling(100)

		snapshot, _ := repo.Load(context.Background())
		b := NewCartBuilder(snapshot)
		for _, qty := range []int{1, 2, 7} {
			if _, err := b.TryAdd("Widget", qty); err != nil {
				t.Fatalf("TryAdd failed: %v", err)
			}
		}

		invoice, _, err := svc.Finalize(context.Background(), b.Cart(), "", decimal.RequireFromString(taxPercent))
		if err != nil {
			t.Fatalf("tax %s%%: Finalize failed: %v", taxPercent, err)
		}

		sum := decimal.Zero
		for _, it := range invoice.Items {
			sum = sum.Add(it.LineTotal)
		}
		if !invoice.Subtotal.Equal(sum.Round(2)) {
			t.Errorf("tax %s%%: subtotal %s != rounded item sum %s", taxPercent, invoice.Subtotal, sum.Round(2))
		}
		want := invoice.Subtotal.Add(invoice.Tax).Round(2)
		if !invoice.Total.Equal(want) {
			t.Errorf("tax %s%%: total %s != subtotal+tax %s", taxPercent, invoice.Total, want)
		}
		if len(writer.staged) != 1 {
			t.Errorf("tax %s%%: expected one staged invoice, got %d", taxPercent, len(writer.staged))
		}
	}
}

func TestFinalize_EmptyCart(t *testing.T) {
	svc, repo, writer := newTestBilling(5)

	_, _, err := svc.Finalize(context.Background(), domain.Cart{}, "", decimal.Zero)
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got: %v", err)
	}
	if repo.saves != 0 || len(writer.staged) != 0 {
		t.Error("empty cart must write nothing")
	}
}

func TestFinalize_NegativeTax(t *testing.T) {
	svc, repo, _ := newTestBilling(5)
	cart := widgetCart(t, repo, 1)

	_, _, err := svc.Finalize(context.Background(), cart, "", decimal.NewFromInt(-1))
	if !errors.Is(err, ErrInvalidTaxInput) {
		t.Errorf("expected ErrInvalidTaxInput, got: %v", err)
	}
}

// Inventory shrank between cart validation and commit: the whole bill fails
// and nothing is written.
func TestFinalize_StockConflict(t *testing.T) {
	svc, repo, writer := newTestBilling(5)
	cart := widgetCart(t, repo, 3)

	p := repo.state["Widget"]
	p.Stock = 2
	repo.state["Widget"] = p

	_, _, err := svc.Finalize(context.Background(), cart, "", decimal.Zero)
	if !errors.Is(err, ErrStockConflict) {
		t.Errorf("expected ErrStockConflict, got: %v", err)
	}
	if repo.saves != 0 {
		t.Errorf("conflicting commit must not save, got %d saves", repo.saves)
	}
	if len(writer.staged) != 0 {
		t.Error("conflicting commit must not stage an invoice")
	}
	if got := repo.state["Widget"].Stock; got != 2 {
		t.Errorf("stock must be untouched, got %d", got)
	}
}

func TestFinalize_VanishedProduct(t *testing.T) {
	svc, repo, _ := newTestBilling(5)
	cart := widgetCart(t, repo, 1)

	delete(repo.state, "Widget")

	_, _, err := svc.Finalize(context.Background(), cart, "", decimal.Zero)
	if !errors.Is(err, ErrStockConflict) {
		t.Errorf("expected ErrStockConflict, got: %v", err)
	}
}

// The commit sequence is fixed: stage the invoice, save inventory, publish.
func TestFinalize_CommitOrdering(t *testing.T) {
	svc, repo, writer := newTestBilling(5)
	cart := widgetCart(t, repo, 3)

	_, _, err := svc.Finalize(context.Background(), cart, "", decimal.Zero)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	got := *writer.calls
	want := []string{"stage", "save", "publish"}
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, got)
		}
	}
}

func TestFinalize_StageFailureLeavesInventory(t *testing.T) {
	svc, repo, writer := newTestBilling(5)
	cart := widgetCart(t, repo, 3)

	writer.stageErr = errors.New("disk full")

	_, _, err := svc.Finalize(context.Background(), cart, "", decimal.Zero)
	if err == nil {
		t.Fatal("expected stage failure to surface")
	}
	if repo.saves != 0 {
		t.Error("inventory must not be saved when staging fails")
	}
	if got := repo.state["Widget"].Stock; got != 5 {
		t.Errorf("stock must be untouched, got %d", got)
	}
}
