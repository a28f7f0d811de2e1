// Package pull generates mock device days and uploads them to the ingest
// API, tracking sent files in a local SQLite state database. It stands in
// for vendor sync tooling during development and demos.
package pull

import (
	"math"
	"math/rand"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// Sleep window for the generated day. Stages rotate through light, deep,
// and REM in 90-minute cycles.
const (
	sleepStartHour = 22
	sleepEndHour   = 6
)

// WristDay generates a full day of per-minute wrist samples: 1440 rows with
// a nocturnal heart rate dip, a cumulative step staircase, and sleep stages
// between 22:00 and 06:00. The same seed always yields the same day.
func WristDay(date time.Time, seed int64) []models.Sample {
	rng := rand.New(rand.NewSource(seed))
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	samples := make([]models.Sample, 0, 24*60)
	var steps float64

	for minute := 0; minute < 24*60; minute++ {
		ts := day.Add(time.Duration(minute) * time.Minute)
		hour := minute / 60
		asleep := hour >= sleepStartHour || hour < sleepEndHour

		bpm := baseBPM(hour, asleep) + rng.NormFloat64()*2.5
		if bpm < 40 {
			bpm = 40
		}

		if !asleep {
			// Bursts of walking during waking hours, heavier around
			// commute and lunch times.
			if rng.Float64() < walkProbability(hour) {
				steps += 60 + rng.Float64()*60
			}
		}

		stage := 0
		if asleep {
			stage = stageAt(minute)
		}

		samples = append(samples, models.Sample{
			Timestamp:  ts,
			BPM:        math.Round(bpm*10) / 10,
			RRMs:       math.Round((60000/bpm + rng.NormFloat64()*12)),
			SleepStage: stage,
			Steps:      math.Round(steps),
		})
	}
	return samples
}

// ChestWorkout generates a 30-minute chest-strap session starting at 18:00:
// a ramp up to ~140 BPM, a sustained effort, and a cooldown.
func ChestWorkout(date time.Time, seed int64) []models.Sample {
	rng := rand.New(rand.NewSource(seed + 1))
	start := time.Date(date.Year(), date.Month(), date.Day(), 18, 0, 0, 0, time.UTC)

	samples := make([]models.Sample, 0, 30)
	for minute := 0; minute < 30; minute++ {
		var bpm float64
		switch {
		case minute < 5: // warmup ramp
			bpm = 90 + float64(minute)*10
		case minute < 25: // sustained effort
			bpm = 140 + rng.NormFloat64()*4
		default: // cooldown
			bpm = 140 - float64(minute-24)*8
		}

		samples = append(samples, models.Sample{
			Timestamp: start.Add(time.Duration(minute) * time.Minute),
			BPM:       math.Round(bpm*10) / 10,
			RRMs:      math.Round(60000 / bpm),
		})
	}
	return samples
}

// baseBPM is the hour-of-day heart rate profile before noise.
func baseBPM(hour int, asleep bool) float64 {
	if asleep {
		// Dip toward the middle of the night.
		mid := 2.0
		h := float64(hour)
		if hour >= sleepStartHour {
			h -= 24
		}
		return 52 + 4*math.Abs(h-mid)/4
	}
	switch {
	case hour < 9:
		return 68
	case hour < 12:
		return 74
	case hour < 14:
		return 78
	case hour < 18:
		return 72
	default:
		return 70
	}
}

// walkProbability is the chance of a step burst in a given waking minute.
func walkProbability(hour int) float64 {
	switch {
	case hour == 8 || hour == 17: // commute
		return 0.6
	case hour == 12: // lunch walk
		return 0.5
	default:
		return 0.15
	}
}

// stageAt maps a minute of the day inside the sleep window onto a stage,
// cycling light (1), deep (2), REM (3) in 90-minute blocks.
func stageAt(minute int) int {
	// Minutes since sleep onset, wrapping over midnight.
	since := minute + (24-sleepStartHour)*60
	if minute >= sleepStartHour*60 {
		since = minute - sleepStartHour*60
	}
	cycle := since % 90
	switch {
	case cycle < 40:
		return 1 // light
	case cycle < 65:
		return 2 // deep
	default:
		return 3 // REM
	}
}
