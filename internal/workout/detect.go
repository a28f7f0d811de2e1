// Package workout detects discrete elevated-heart-rate intervals within a
// canonical sample series and classifies their intensity.
package workout

import (
	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/metrics"
	"github.com/claude/vitalfuse/internal/models"
	"github.com/google/uuid"
)

// MinDurationMin is the shortest elevated run that counts as a workout.
const MinDurationMin = 10

// ThresholdPolicy decides the heart rate above which a minute counts as
// elevated.
type ThresholdPolicy string

const (
	// ThresholdOffset flags minutes above RHR+20. Canonical policy.
	ThresholdOffset ThresholdPolicy = "offset"
	// ThresholdRelative flags minutes above RHR*1.3.
	ThresholdRelative ThresholdPolicy = "relative"
)

// Threshold returns the elevated-HR cutoff for the policy.
func (p ThresholdPolicy) Threshold(rhr float64) float64 {
	if p == ThresholdRelative {
		return rhr * 1.3
	}
	return rhr + 20
}

// Detect segments the series into workouts. Grouping is change-point based:
// a group ends the moment the elevated flag flips, so a single non-elevated
// minute splits a workout in two. Groups shorter than MinDurationMin are
// discarded. The series must be ordered by timestamp.
func Detect(series []models.Sample, rhr float64, policy ThresholdPolicy, maxHR float64) []models.WorkoutSegment {
	threshold := policy.Threshold(rhr)

	var segments []models.WorkoutSegment
	var run []models.Sample
	flush := func() {
		if len(run) >= MinDurationMin {
			segments = append(segments, buildSegment(run, rhr, maxHR))
		}
		run = nil
	}

	for _, s := range series {
		if s.BPM > threshold {
			run = append(run, s)
			continue
		}
		flush()
	}
	flush()
	return segments
}

func buildSegment(run []models.Sample, rhr, maxHR float64) models.WorkoutSegment {
	var bpm []float64
	maxBPM := 0.0
	for _, s := range run {
		bpm = append(bpm, s.BPM)
		if s.BPM > maxBPM {
			maxBPM = s.BPM
		}
	}
	avg := fusion.Mean(bpm)
	duration := len(run)

	seg := models.WorkoutSegment{
		ID:                 uuid.New(),
		Start:              run[0].Timestamp,
		End:                run[len(run)-1].Timestamp,
		DurationMin:        duration,
		AvgHR:              avg,
		MaxHR:              maxBPM,
		Intensity:          classify(avg, rhr),
		StrainContribution: fusion.Clamp((avg-rhr)*float64(duration)*0.001, 0, 10),
	}
	if maxHR > 0 {
		seg.ZoneMinutes = metrics.ZoneMinutes(run, maxHR)
	}
	return seg
}

func classify(avgHR, rhr float64) string {
	switch {
	case avgHR > rhr+60:
		return models.IntensityHigh
	case avgHR > rhr+45:
		return models.IntensityModerate
	default:
		return models.IntensityLight
	}
}
