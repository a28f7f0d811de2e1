package storage

import (
	"context"
	"fmt"
	"time"
)

// IngestLog records a single upload's outcome per device.
type IngestLog struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Device       string    `json:"device"`
	Status       string    `json:"status"`
	RowsReceived int       `json:"rows_received"`
	RowsInserted int64     `json:"rows_inserted"`
	RowsRejected int       `json:"rows_rejected"`
	DurationMs   *int      `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}

// InsertIngestLog creates a new ingest log entry and returns its ID.
func (db *DB) InsertIngestLog(ctx context.Context, log IngestLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO ingest_logs (device, status, rows_received, rows_inserted,
		     rows_rejected, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING id`,
		log.Device, log.Status, log.RowsReceived, log.RowsInserted,
		log.RowsRejected, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting ingest log: %w", err)
	}
	return id, nil
}

// QueryIngestLogs returns the most recent ingest logs.
func (db *DB) QueryIngestLogs(ctx context.Context, limit int) ([]IngestLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, device, status, rows_received, rows_inserted,
		        rows_rejected, duration_ms, error_message
		 FROM ingest_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest logs: %w", err)
	}
	defer rows.Close()

	var result []IngestLog
	for rows.Next() {
		var l IngestLog
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Device, &l.Status,
			&l.RowsReceived, &l.RowsInserted, &l.RowsRejected,
			&l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning ingest log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
