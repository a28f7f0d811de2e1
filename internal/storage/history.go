package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// UpsertSnapshot writes the snapshot for its date, replacing any existing
// row. The date key makes concurrent refreshes of the same day converge on
// the last writer instead of duplicating the day.
func (db *DB) UpsertSnapshot(ctx context.Context, snap models.DailySnapshot) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO daily_snapshots (date, hrv_ms, rhr_bpm, strain, recovery,
		     sleep_duration_h, deep_h, rem_h, light_h, sleep_efficiency_pct,
		     sleep_score, stress, readiness, steps, weight_kg)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 ON CONFLICT (date) DO UPDATE SET
		     hrv_ms = EXCLUDED.hrv_ms, rhr_bpm = EXCLUDED.rhr_bpm,
		     strain = EXCLUDED.strain, recovery = EXCLUDED.recovery,
		     sleep_duration_h = EXCLUDED.sleep_duration_h,
		     deep_h = EXCLUDED.deep_h, rem_h = EXCLUDED.rem_h,
		     light_h = EXCLUDED.light_h,
		     sleep_efficiency_pct = EXCLUDED.sleep_efficiency_pct,
		     sleep_score = EXCLUDED.sleep_score, stress = EXCLUDED.stress,
		     readiness = EXCLUDED.readiness, steps = EXCLUDED.steps,
		     weight_kg = EXCLUDED.weight_kg`,
		snap.Date, snap.HRV, snap.RHR, snap.Strain, snap.Recovery,
		snap.SleepDurationH, snap.DeepH, snap.RemH, snap.LightH,
		snap.SleepEfficiencyPct, snap.SleepScore, snap.Stress,
		snap.Readiness, snap.Steps, snap.WeightKg)
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

// History retrieves snapshots in a date range, ordered by date ascending.
func (db *DB) History(ctx context.Context, from, to time.Time) ([]models.DailySnapshot, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, hrv_ms, rhr_bpm, strain, recovery, sleep_duration_h,
		        deep_h, rem_h, light_h, sleep_efficiency_pct, sleep_score,
		        stress, readiness, steps, weight_kg
		 FROM daily_snapshots
		 WHERE date >= $1 AND date < $2
		 ORDER BY date ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var result []models.DailySnapshot
	for rows.Next() {
		var s models.DailySnapshot
		if err := rows.Scan(&s.Date, &s.HRV, &s.RHR, &s.Strain, &s.Recovery,
			&s.SleepDurationH, &s.DeepH, &s.RemH, &s.LightH,
			&s.SleepEfficiencyPct, &s.SleepScore, &s.Stress,
			&s.Readiness, &s.Steps, &s.WeightKg); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
