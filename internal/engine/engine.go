// Package engine orchestrates a refresh: it pulls raw device samples from
// the store, applies calibration, fuses the series, derives the daily
// snapshot and workouts, persists both, and assembles advisories. All
// computation is delegated to the pure packages; engine owns ordering and
// persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/vitalfuse/internal/advisor"
	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/metrics"
	"github.com/claude/vitalfuse/internal/models"
	"github.com/claude/vitalfuse/internal/workout"
)

// Store is the persistence surface the engine depends on.
type Store interface {
	DeviceSamples(ctx context.Context, device string, from, to time.Time) ([]models.Sample, error)
	ReplaceCanonical(ctx context.Context, day time.Time, samples []models.Sample) error

	Calibration(ctx context.Context) (*models.CalibrationProfile, error)
	SaveCalibration(ctx context.Context, profile *models.CalibrationProfile) error
	DeleteCalibration(ctx context.Context) error

	History(ctx context.Context, from, to time.Time) ([]models.DailySnapshot, error)
	UpsertSnapshot(ctx context.Context, snap models.DailySnapshot) error

	ReplaceWorkouts(ctx context.Context, day time.Time, segments []models.WorkoutSegment) error
	Workouts(ctx context.Context, from, to time.Time) ([]models.WorkoutSegment, error)

	Profile(ctx context.Context) (*models.UserProfile, error)
}

// Options carry the policy knobs from config.
type Options struct {
	Precedence   fusion.Precedence
	Threshold    workout.ThresholdPolicy
	Overtraining advisor.OvertrainingPolicy
}

// Engine runs refreshes over a Store. The mutex serializes refreshes so
// two concurrent callers cannot interleave their read-compute-write cycles;
// combined with the date-keyed snapshot upsert this makes a refresh
// effectively idempotent for a given day.
type Engine struct {
	store Store
	log   *slog.Logger
	opts  Options

	mu sync.Mutex
}

func New(store Store, log *slog.Logger, opts Options) *Engine {
	if opts.Overtraining == nil {
		opts.Overtraining = advisor.SimplePolicy{}
	}
	return &Engine{store: store, log: log, opts: opts}
}

// Result is everything one refresh produced.
type Result struct {
	Snapshot models.DailySnapshot    `json:"snapshot"`
	Workouts []models.WorkoutSegment `json:"workouts"`
	Flat     map[string]any          `json:"metrics"`
}

// Refresh derives and persists the snapshot and workouts for now's calendar
// date, then recomputes advisories over the updated history.
func (e *Engine) Refresh(ctx context.Context, now time.Time) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	day := metrics.DayOf(now)
	next := day.AddDate(0, 0, 1)

	wrist, err := e.store.DeviceSamples(ctx, models.DeviceWrist, day, next)
	if err != nil {
		return nil, fmt.Errorf("load wrist samples: %w", err)
	}
	chest, err := e.store.DeviceSamples(ctx, models.DeviceChest, day, next)
	if err != nil {
		return nil, fmt.Errorf("load chest samples: %w", err)
	}

	calibration, err := e.store.Calibration(ctx)
	if err != nil {
		return nil, fmt.Errorf("load calibration: %w", err)
	}
	wrist = fusion.ApplyCalibration(calibration, wrist)

	canonical := metrics.Clean(fusion.Merge(wrist, chest, e.opts.Precedence))
	if err := e.store.ReplaceCanonical(ctx, day, canonical); err != nil {
		return nil, fmt.Errorf("store canonical series: %w", err)
	}

	// Full history: personal records and streak achievements scan all of
	// it, the windowed advisories take their own tails.
	history, err := e.store.History(ctx, time.Time{}, day)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	profile, err := e.store.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	snapshot := metrics.Compute(canonical, history, profile, day)
	if err := e.store.UpsertSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	maxHR := metrics.ProfileMaxHR(profile, canonical)
	workouts := workout.Detect(canonical, snapshot.RHR, e.opts.Threshold, maxHR)
	if err := e.store.ReplaceWorkouts(ctx, day, workouts); err != nil {
		return nil, fmt.Errorf("store workouts: %w", err)
	}

	e.log.Info("refresh complete",
		"date", day.Format(time.DateOnly),
		"samples", len(canonical),
		"workouts", len(workouts),
		"strain", snapshot.Strain,
		"recovery", snapshot.Recovery)

	full := appendSnapshot(history, snapshot)
	flat := metrics.Flat(snapshot, canonical, profile)
	flat["workouts"] = workouts
	for key, value := range e.advisoryBundle(full, day) {
		flat[key] = value
	}
	flat["strain_goal"] = advisor.StrainGoal(snapshot.Recovery)
	flat["strain_coach"] = advisor.CoachAdvice(snapshot, now.Hour())
	flat["suggested_activities"] = advisor.SuggestActivities(snapshot.Recovery, snapshot.Strain)

	return &Result{Snapshot: snapshot, Workouts: workouts, Flat: flat}, nil
}

// Advisories recomputes the advisory bundle from stored history without
// touching samples.
func (e *Engine) Advisories(ctx context.Context, now time.Time) (map[string]any, error) {
	day := metrics.DayOf(now)
	history, err := e.store.History(ctx, time.Time{}, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := e.advisoryBundle(history, day)
	if len(history) > 0 {
		latest := history[len(history)-1]
		out["strain_goal"] = advisor.StrainGoal(latest.Recovery)
		out["strain_coach"] = advisor.CoachAdvice(latest, now.Hour())
		out["suggested_activities"] = advisor.SuggestActivities(latest.Recovery, latest.Strain)
	}
	return out, nil
}

// advisoryBundle computes every history-derived advisory in one mapping.
func (e *Engine) advisoryBundle(history []models.DailySnapshot, day time.Time) map[string]any {
	records := advisor.Records(history)
	return map[string]any{
		"overtraining":      e.opts.Overtraining.Assess(history),
		"rest_day":          advisor.RestDay(history),
		"recovery_forecast": advisor.ForecastRecovery(history),
		"weekly_summary":    advisor.Weekly(history, day),
		"monthly_insights":  advisor.Monthly(history, day),
		"training_load":     advisor.TrainingLoad(history),
		"sleep_debt":        advisor.SleepDebt(history, 8),
		"personal_records":  records,
		"achievements":      records.Achievements,
	}
}

// calibrationWindowDays is how far back Calibrate looks for overlapping
// wrist and chest samples.
const calibrationWindowDays = 7

// Calibrate re-learns the correction profile from the trailing week of
// stored device samples and persists it. The fusion error for too few
// matched pairs passes through unwrapped so callers can type-assert it.
func (e *Engine) Calibrate(ctx context.Context, now time.Time) (*models.CalibrationProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	to := metrics.DayOf(now).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -calibrationWindowDays)

	wrist, err := e.store.DeviceSamples(ctx, models.DeviceWrist, from, to)
	if err != nil {
		return nil, fmt.Errorf("load wrist samples: %w", err)
	}
	chest, err := e.store.DeviceSamples(ctx, models.DeviceChest, from, to)
	if err != nil {
		return nil, fmt.Errorf("load chest samples: %w", err)
	}

	profile, err := fusion.Calibrate(wrist, chest)
	if err != nil {
		var insufficient *fusion.InsufficientDataError
		if errors.As(err, &insufficient) {
			return nil, err
		}
		return nil, fmt.Errorf("calibrate: %w", err)
	}
	if err := e.store.SaveCalibration(ctx, profile); err != nil {
		return nil, fmt.Errorf("store calibration: %w", err)
	}

	e.log.Info("calibration updated",
		"pairs", profile.SampleCount,
		"bpm_slope", profile.BPMSlope,
		"mae_before", profile.MAEBefore)
	return profile, nil
}

// appendSnapshot replaces today's entry if the history already holds one.
func appendSnapshot(history []models.DailySnapshot, snap models.DailySnapshot) []models.DailySnapshot {
	for i := range history {
		if history[i].Date.Equal(snap.Date) {
			out := make([]models.DailySnapshot, len(history))
			copy(out, history)
			out[i] = snap
			return out
		}
	}
	return append(history, snap)
}
