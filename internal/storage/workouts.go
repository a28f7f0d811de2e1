package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claude/vitalfuse/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReplaceWorkouts swaps out one day's detected segments atomically.
// Detection is deterministic per day, so re-running a refresh replaces
// rather than accumulates.
func (db *DB) ReplaceWorkouts(ctx context.Context, day time.Time, segments []models.WorkoutSegment) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning workout replace: %w", err)
	}
	defer tx.Rollback(ctx)

	next := day.AddDate(0, 0, 1)
	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_segments WHERE start_time >= $1 AND start_time < $2`, day, next); err != nil {
		return fmt.Errorf("clearing workout day: %w", err)
	}

	if len(segments) > 0 {
		query := `INSERT INTO workout_segments (id, start_time, end_time, duration_min,
    avg_hr, max_hr, intensity, strain_contribution, zone_minutes)
VALUES `
		args := make([]any, 0, len(segments)*9)
		valueStrings := make([]string, 0, len(segments))
		for i, seg := range segments {
			zones, err := json.Marshal(seg.ZoneMinutes)
			if err != nil {
				return fmt.Errorf("encoding zone minutes: %w", err)
			}
			base := i * 9
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
			))
			args = append(args, seg.ID, seg.Start, seg.End, seg.DurationMin,
				seg.AvgHR, seg.MaxHR, seg.Intensity, seg.StrainContribution, zones)
		}
		query += strings.Join(valueStrings, ",")
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting workout segments: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing workout replace: %w", err)
	}
	return nil
}

// Workouts retrieves segments starting in a time range, newest first.
func (db *DB) Workouts(ctx context.Context, from, to time.Time) ([]models.WorkoutSegment, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, start_time, end_time, duration_min, avg_hr, max_hr,
		        intensity, strain_contribution, zone_minutes
		 FROM workout_segments
		 WHERE start_time >= $1 AND start_time < $2
		 ORDER BY start_time DESC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSegment
	for rows.Next() {
		seg, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, seg)
	}
	return result, rows.Err()
}

// WorkoutByID retrieves a single segment, or nil when the id is unknown.
func (db *DB) WorkoutByID(ctx context.Context, id uuid.UUID) (*models.WorkoutSegment, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, start_time, end_time, duration_min, avg_hr, max_hr,
		        intensity, strain_contribution, zone_minutes
		 FROM workout_segments WHERE id = $1`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying workout %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	seg, err := scanWorkout(rows)
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func scanWorkout(rows pgx.Rows) (models.WorkoutSegment, error) {
	var seg models.WorkoutSegment
	var zones []byte
	if err := rows.Scan(&seg.ID, &seg.Start, &seg.End, &seg.DurationMin,
		&seg.AvgHR, &seg.MaxHR, &seg.Intensity, &seg.StrainContribution, &zones); err != nil {
		return seg, fmt.Errorf("scanning workout row: %w", err)
	}
	if len(zones) > 0 {
		if err := json.Unmarshal(zones, &seg.ZoneMinutes); err != nil {
			return seg, fmt.Errorf("decoding zone minutes: %w", err)
		}
	}
	return seg, nil
}
