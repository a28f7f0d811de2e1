package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/vitalfuse/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertDeviceSamples batch-inserts raw per-device sample rows. Returns the
// number actually inserted (duplicate timestamps skipped via ON CONFLICT
// DO NOTHING).
func (db *DB) InsertDeviceSamples(ctx context.Context, device string, samples []models.Sample) (int64, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	query := `INSERT INTO device_samples (device, time, bpm, rr_ms, spo2, sleep_stage, steps)
VALUES `
	args := make([]any, 0, len(samples)*7)
	valueStrings := make([]string, 0, len(samples))

	for i, s := range samples {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, device, s.Timestamp, s.BPM, s.RRMs, s.SpO2, s.SleepStage, s.Steps)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting device samples: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeviceSamples retrieves one device's samples in a time range, ordered by
// timestamp.
func (db *DB) DeviceSamples(ctx context.Context, device string, from, to time.Time) ([]models.Sample, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT time, bpm, rr_ms, spo2, sleep_stage, steps
		 FROM device_samples
		 WHERE device = $1 AND time >= $2 AND time < $3
		 ORDER BY time ASC`,
		device, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying device samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// ReplaceCanonical swaps out the fused series for one day atomically.
func (db *DB) ReplaceCanonical(ctx context.Context, day time.Time, samples []models.Sample) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning canonical replace: %w", err)
	}
	defer tx.Rollback(ctx)

	next := day.AddDate(0, 0, 1)
	if _, err := tx.Exec(ctx,
		`DELETE FROM canonical_samples WHERE time >= $1 AND time < $2`, day, next); err != nil {
		return fmt.Errorf("clearing canonical day: %w", err)
	}

	if len(samples) > 0 {
		query := `INSERT INTO canonical_samples (time, bpm, rr_ms, spo2, sleep_stage, steps)
VALUES `
		args := make([]any, 0, len(samples)*6)
		valueStrings := make([]string, 0, len(samples))
		for i, s := range samples {
			base := i * 6
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6,
			))
			args = append(args, s.Timestamp, s.BPM, s.RRMs, s.SpO2, s.SleepStage, s.Steps)
		}
		query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting canonical samples: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing canonical replace: %w", err)
	}
	return nil
}

// CanonicalSamples retrieves the fused series in a time range.
func (db *DB) CanonicalSamples(ctx context.Context, from, to time.Time) ([]models.Sample, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT time, bpm, rr_ms, spo2, sleep_stage, steps
		 FROM canonical_samples
		 WHERE time >= $1 AND time < $2
		 ORDER BY time ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("querying canonical samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func scanSamples(rows pgx.Rows) ([]models.Sample, error) {
	var result []models.Sample
	for rows.Next() {
		var s models.Sample
		if err := rows.Scan(&s.Timestamp, &s.BPM, &s.RRMs, &s.SpO2, &s.SleepStage, &s.Steps); err != nil {
			return nil, fmt.Errorf("scanning sample row: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
