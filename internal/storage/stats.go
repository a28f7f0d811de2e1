package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalDeviceRows     int64           `json:"total_device_rows"`
	TotalCanonicalRows  int64           `json:"total_canonical_rows"`
	DaysTracked         int64           `json:"days_tracked"`
	TotalWorkouts       int64           `json:"total_workouts"`
	EarliestData        *time.Time      `json:"earliest_data"`
	LatestData          *time.Time      `json:"latest_data"`
	WorkoutsByIntensity []IntensityStat `json:"workouts_by_intensity"`
}

// IntensityStat holds summary stats for one workout intensity.
type IntensityStat struct {
	Intensity    string  `json:"intensity"`
	Count        int64   `json:"count"`
	TotalMinutes int64   `json:"total_minutes"`
	AvgHR        float64 `json:"avg_hr"`
}

// GetDataStats returns aggregate statistics for the stored data.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM device_samples`).Scan(&stats.TotalDeviceRows)
	if err != nil {
		return nil, fmt.Errorf("counting device rows: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM canonical_samples`).Scan(&stats.TotalCanonicalRows)
	if err != nil {
		return nil, fmt.Errorf("counting canonical rows: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM daily_snapshots`).Scan(&stats.DaysTracked)
	if err != nil {
		return nil, fmt.Errorf("counting snapshots: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_segments`).Scan(&stats.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(time), MAX(time) FROM device_samples`).
		Scan(&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT intensity, COUNT(*), COALESCE(SUM(duration_min), 0), COALESCE(AVG(avg_hr), 0)
		 FROM workout_segments
		 GROUP BY intensity
		 ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts by intensity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s IntensityStat
		if err := rows.Scan(&s.Intensity, &s.Count, &s.TotalMinutes, &s.AvgHR); err != nil {
			return nil, fmt.Errorf("scanning intensity stat: %w", err)
		}
		stats.WorkoutsByIntensity = append(stats.WorkoutsByIntensity, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
