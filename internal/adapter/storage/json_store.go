package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

// productRecord is the on-disk shape of one inventory entry: a JSON object
// with a numeric price and an integer stock.
type productRecord struct {
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// JSONInventoryStore persists the product mapping as a single JSON file.
// An absent file is an empty inventory. Saves go through a temp file and a
// rename so a reader never sees a partial write, and an unchanged mapping
// round-trips byte-identically (sorted keys, stable number formatting).
type JSONInventoryStore struct {
	path   string
	logger zerolog.Logger
}

func NewJSONInventoryStore(path string, logger zerolog.Logger) *JSONInventoryStore {
	return &JSONInventoryStore{path: path, logger: logger}
}

func (s *JSONInventoryStore) Load(ctx context.Context) (map[string]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	var records map[string]productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}

	state := make(map[string]domain.Product, len(records))
	for name, rec := range records {
		state[name] = domain.Product{
			Name:  name,
			Price: decimal.NewFromFloat(rec.Price),
			Stock: rec.Stock,
		}
	}
	return state, nil
}

func (s *JSONInventoryStore) Save(ctx context.Context, state map[string]domain.Product) error {
	records := make(map[string]productRecord, len(state))
	for name, p := range state {
		records[name] = productRecord{
			Price: p.Price.InexactFloat64(),
			Stock: p.Stock,
		}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace inventory: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("products", len(state)).Msg("inventory saved")
	return nil
}
