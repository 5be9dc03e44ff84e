package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

func TestLoad_MissingFile(t *testing.T) {
	store := NewJSONInventoryStore(filepath.Join(t.TempDir(), "inventory.json"), zerolog.Nop())

	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(state) != 0 {
		t.Errorf("absent file must load as empty mapping, got %d entries", len(state))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	store := NewJSONInventoryStore(path, zerolog.Nop())
	ctx := context.Background()

	state := map[string]domain.Product{
		"Widget": {Name: "Widget", Price: decimal.RequireFromString("10.5"), Stock: 5},
		"Gadget": {Name: "Gadget", Price: decimal.RequireFromString("2.99"), Stock: 0},
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 products, got %d", len(loaded))
	}
	if got := loaded["Widget"]; got.Stock != 5 || !got.Price.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("Widget round-tripped wrong: %+v", got)
	}
	if got := loaded["Gadget"]; got.Stock != 0 {
		t.Errorf("zero stock must survive, got %d", got.Stock)
	}
}

// Loading a just-saved mapping and saving it again unchanged must produce
// byte-identical content.
func TestSaveLoad_ByteIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	store := NewJSONInventoryStore(path, zerolog.Nop())
	ctx := context.Background()

	state := map[string]domain.Product{
		"Widget":  {Name: "Widget", Price: decimal.RequireFromString("10.5"), Stock: 5},
		"Gadget":  {Name: "Gadget", Price: decimal.RequireFromString("2.99"), Stock: 12},
		"Doohick": {Name: "Doohick", Price: decimal.RequireFromString("0.05"), Stock: 1},
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.Save(ctx, loaded); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("round trip not byte-identical:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONInventoryStore(filepath.Join(dir, "inventory.json"), zerolog.Nop())

	state := map[string]domain.Product{
		"Widget": {Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5},
	}
	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "inventory.json" {
		t.Errorf("expected only inventory.json, got %v", entries)
	}
}
