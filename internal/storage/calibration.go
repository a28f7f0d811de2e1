package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/vitalfuse/internal/models"
	"github.com/jackc/pgx/v5"
)

// Calibration returns the stored correction profile, or nil when the
// devices have never been calibrated.
func (db *DB) Calibration(ctx context.Context) (*models.CalibrationProfile, error) {
	var p models.CalibrationProfile
	err := db.Pool.QueryRow(ctx,
		`SELECT bpm_slope, bpm_intercept, rr_slope, rr_intercept,
		        sample_count, created_at, mae_before
		 FROM calibration_profile WHERE id = 1`).
		Scan(&p.BPMSlope, &p.BPMIntercept, &p.RRSlope, &p.RRIntercept,
			&p.SampleCount, &p.CreatedAt, &p.MAEBefore)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying calibration: %w", err)
	}
	return &p, nil
}

// SaveCalibration replaces the single stored profile.
func (db *DB) SaveCalibration(ctx context.Context, p *models.CalibrationProfile) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO calibration_profile (id, bpm_slope, bpm_intercept, rr_slope,
		     rr_intercept, sample_count, created_at, mae_before)
		 VALUES (1,$1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		     bpm_slope = EXCLUDED.bpm_slope, bpm_intercept = EXCLUDED.bpm_intercept,
		     rr_slope = EXCLUDED.rr_slope, rr_intercept = EXCLUDED.rr_intercept,
		     sample_count = EXCLUDED.sample_count, created_at = EXCLUDED.created_at,
		     mae_before = EXCLUDED.mae_before`,
		p.BPMSlope, p.BPMIntercept, p.RRSlope, p.RRIntercept,
		p.SampleCount, p.CreatedAt, p.MAEBefore)
	if err != nil {
		return fmt.Errorf("saving calibration: %w", err)
	}
	return nil
}

// DeleteCalibration removes the profile so wrist samples pass through raw.
func (db *DB) DeleteCalibration(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM calibration_profile WHERE id = 1`); err != nil {
		return fmt.Errorf("deleting calibration: %w", err)
	}
	return nil
}
