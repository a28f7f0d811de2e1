package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/vitalfuse/internal/models"
	"github.com/jackc/pgx/v5"
)

// Profile returns the stored user profile, or nil when none has been set.
func (db *DB) Profile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	err := db.Pool.QueryRow(ctx,
		`SELECT age, weight_kg, height_cm, sex, avg_steps_per_day, activity_min_per_week
		 FROM user_profile WHERE id = 1`).
		Scan(&p.Age, &p.WeightKg, &p.HeightCm, &p.Sex, &p.AvgStepsPerDay, &p.ActivityMinPerWeek)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// SaveProfile replaces the single stored profile.
func (db *DB) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_profile (id, age, weight_kg, height_cm, sex,
		     avg_steps_per_day, activity_min_per_week)
		 VALUES (1,$1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET
		     age = EXCLUDED.age, weight_kg = EXCLUDED.weight_kg,
		     height_cm = EXCLUDED.height_cm, sex = EXCLUDED.sex,
		     avg_steps_per_day = EXCLUDED.avg_steps_per_day,
		     activity_min_per_week = EXCLUDED.activity_min_per_week`,
		p.Age, p.WeightKg, p.HeightCm, p.Sex, p.AvgStepsPerDay, p.ActivityMinPerWeek)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}
