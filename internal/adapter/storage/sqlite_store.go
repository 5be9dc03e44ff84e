package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

// SQLiteStore backs both ports with a single sqlite file: the inventory
// mapping in one table and invoices in another, staged rows flipping to
// published inside the same database. Prices are stored as decimal strings
// so nothing drifts through floats.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteStore(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	// busy_timeout avoids "database is locked" when a save overlaps WAL
	// checkpointing; one writer means one connection is enough.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS inventory(
  name  TEXT PRIMARY KEY,
  price TEXT NOT NULL,
  stock INTEGER NOT NULL CHECK (stock >= 0)
);
CREATE TABLE IF NOT EXISTS invoices(
  id         TEXT PRIMARY KEY,
  status     TEXT NOT NULL,
  customer   TEXT NOT NULL,
  created_at TEXT NOT NULL,
  payload    TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context) (map[string]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, price, stock FROM inventory`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	state := map[string]domain.Product{}
	for rows.Next() {
		var (
			name, price string
			stock       int
		)
		if err := rows.Scan(&name, &price, &stock); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("price for %q: %w", name, err)
		}
		state[name] = domain.Product{Name: name, Price: d, Stock: stock}
	}
	return state, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, state map[string]domain.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory`); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	for name, p := range state {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventory(name, price, stock) VALUES (?, ?, ?)`,
			name, p.Price.String(), p.Stock,
		)
		if err != nil {
			return fmt.Errorf("insert %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inventory: %w", err)
	}
	s.logger.Debug().Int("products", len(state)).Msg("inventory saved")
	return nil
}

func (s *SQLiteStore) Stage(ctx context.Context, invoice domain.Invoice) (string, error) {
	payload, err := json.Marshal(toInvoiceRecord(invoice))
	if err != nil {
		return "", fmt.Errorf("encode invoice: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invoices(id, status, customer, created_at, payload) VALUES (?, 'staged', ?, ?, ?)`,
		id, invoice.Customer, invoice.Timestamp.Format(timestampFormat), string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("stage invoice: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Publish(ctx context.Context, handle string) (string, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET status = 'published' WHERE id = ? AND status = 'staged'`,
		handle,
	)
	if err != nil {
		return "", fmt.Errorf("publish invoice: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return "", fmt.Errorf("no staged invoice with id %s", handle)
	}

	s.logger.Debug().Str("invoice", handle).Msg("invoice published")
	return handle, nil
}
