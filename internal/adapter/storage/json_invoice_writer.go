package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lulumobiles3644-boop/lulu-billing/internal/core/domain"
)

const (
	// timestampFormat is ISO-8601 at second precision, no zone.
	timestampFormat = "2006-01-02T15:04:05"

	// invoiceNameFormat shapes the timestamp embedded in published names.
	invoiceNameFormat = "20060102_150405"

	stagingPrefix = ".staging-"
)

type lineItemRecord struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type invoiceRecord struct {
	Customer  string           `json:"customer"`
	Timestamp string           `json:"timestamp"`
	Items     []lineItemRecord `json:"items"`
	Subtotal  float64          `json:"subtotal"`
	TaxRate   float64          `json:"tax_rate"`
	Tax       float64          `json:"tax"`
	Total     float64          `json:"total"`
}

func toInvoiceRecord(inv domain.Invoice) invoiceRecord {
	items := make([]lineItemRecord, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = lineItemRecord{
			Name:      it.Name,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal.InexactFloat64(),
		}
	}
	return invoiceRecord{
		Customer:  inv.Customer,
		Timestamp: inv.Timestamp.Format(timestampFormat),
		Items:     items,
		Subtotal:  inv.Subtotal.InexactFloat64(),
		TaxRate:   inv.TaxRate.InexactFloat64(),
		Tax:       inv.Tax.InexactFloat64(),
		Total:     inv.Total.InexactFloat64(),
	}
}

// FileInvoiceWriter publishes invoices as JSON files under one directory.
// Stage writes a hidden staging file; Publish renames it to
// invoice_YYYYMMDD_HHMMSS.json, suffixing _2, _3, ... when two invoices
// land in the same second.
type FileInvoiceWriter struct {
	dir    string
	logger zerolog.Logger
}

func NewFileInvoiceWriter(dir string, logger zerolog.Logger) *FileInvoiceWriter {
	return &FileInvoiceWriter{dir: dir, logger: logger}
}

func (w *FileInvoiceWriter) Stage(ctx context.Context, invoice domain.Invoice) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoices dir: %w", err)
	}

	data, err := json.MarshalIndent(toInvoiceRecord(invoice), "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode invoice: %w", err)
	}

	handle := filepath.Join(w.dir, stagingPrefix+uuid.NewString()+".json")
	if err := os.WriteFile(handle, data, 0o644); err != nil {
		return "", fmt.Errorf("write staged invoice: %w", err)
	}
	return handle, nil
}

func (w *FileInvoiceWriter) Publish(ctx context.Context, handle string) (string, error) {
	data, err := os.ReadFile(handle)
	if err != nil {
		return "", fmt.Errorf("read staged invoice: %w", err)
	}

	var rec invoiceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("decode staged invoice: %w", err)
	}
	ts, err := time.Parse(timestampFormat, rec.Timestamp)
	if err != nil {
		return "", fmt.Errorf("staged invoice timestamp: %w", err)
	}

	base := "invoice_" + ts.Format(invoiceNameFormat)
	final := filepath.Join(w.dir, base+".json")
	for n := 2; ; n++ {
		if _, err := os.Stat(final); errors.Is(err, fs.ErrNotExist) {
			break
		}
		final = filepath.Join(w.dir, fmt.Sprintf("%s_%d.json", base, n))
	}

	if err := os.Rename(handle, final); err != nil {
		return "", fmt.Errorf("publish invoice: %w", err)
	}

	w.logger.Debug().Str("path", final).Msg("invoice published")
	return final, nil
}
