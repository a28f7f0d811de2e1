package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/vitalfuse/internal/models"
	"github.com/claude/vitalfuse/internal/storage"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	Device       string `json:"device"`
	RowsReceived int    `json:"rows_received"`
	RowsInserted int64  `json:"rows_inserted"`
	RowsSkipped  int64  `json:"rows_skipped"`
	RowsRejected int    `json:"rows_rejected"`
}

// Provider stores uploaded device samples and records an ingest log row
// per upload.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses body as CSV when contentType says so, JSON otherwise, and
// batch-inserts the valid rows for the device.
func (p *Provider) Ingest(ctx context.Context, device, contentType string, body io.Reader) (*Result, error) {
	if device != models.DeviceWrist && device != models.DeviceChest {
		return nil, fmt.Errorf("unknown device %q", device)
	}

	start := time.Now()
	var (
		samples  []models.Sample
		rejected int
		err      error
	)
	if strings.Contains(contentType, "csv") {
		samples, rejected, err = ParseCSV(body)
	} else {
		samples, rejected, err = ParseJSON(body)
	}
	if err != nil {
		p.logOutcome(ctx, device, "error", nil, start, err)
		return nil, err
	}

	inserted, err := p.db.InsertDeviceSamples(ctx, device, samples)
	if err != nil {
		p.logOutcome(ctx, device, "error", nil, start, err)
		return nil, fmt.Errorf("storing samples: %w", err)
	}

	result := &Result{
		Device:       device,
		RowsReceived: len(samples) + rejected,
		RowsInserted: inserted,
		RowsSkipped:  int64(len(samples)) - inserted,
		RowsRejected: rejected,
	}
	p.logOutcome(ctx, device, "success", result, start, nil)
	p.log.Info("ingest complete",
		"device", device,
		"received", result.RowsReceived,
		"inserted", result.RowsInserted,
		"rejected", result.RowsRejected)
	return result, nil
}

func (p *Provider) logOutcome(ctx context.Context, device, status string, result *Result, start time.Time, cause error) {
	entry := storage.IngestLog{Device: device, Status: status}
	if result != nil {
		entry.RowsReceived = result.RowsReceived
		entry.RowsInserted = result.RowsInserted
		entry.RowsRejected = result.RowsRejected
	}
	ms := int(time.Since(start).Milliseconds())
	entry.DurationMs = &ms
	if cause != nil {
		msg := cause.Error()
		entry.ErrorMessage = &msg
	}
	if _, err := p.db.InsertIngestLog(ctx, entry); err != nil {
		p.log.Warn("ingest log write failed", "error", err)
	}
}
