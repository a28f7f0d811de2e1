package models

import (
	"time"

	"github.com/google/uuid"
)

// Sleep stage values as reported by the wrist device.
const (
	StageAwake = 0
	StageLight = 1
	StageDeep  = 2
	StageREM   = 3
)

// Device identifiers for the two sample sources.
const (
	DeviceWrist = "wrist"
	DeviceChest = "chest"
)

// Sample is one per-minute biometric reading from a single device.
// Steps is a cumulative daily counter, not a per-minute delta.
// RRMs of zero means the device reported no RR interval for that minute.
type Sample struct {
	Timestamp  time.Time `json:"timestamp"`
	BPM        float64   `json:"bpm"`
	RRMs       float64   `json:"rr_ms"`
	SpO2       *float64  `json:"spo2,omitempty"`
	SleepStage int       `json:"sleep_stage"`
	Steps      float64   `json:"steps"`
}

// CalibrationProfile is a learned linear correction mapping wrist readings
// onto chest-strap readings: corrected = raw*slope + intercept.
type CalibrationProfile struct {
	BPMSlope     float64   `json:"bpm_slope"`
	BPMIntercept float64   `json:"bpm_intercept"`
	RRSlope      float64   `json:"rr_slope"`
	RRIntercept  float64   `json:"rr_intercept"`
	SampleCount  int       `json:"sample_count"`
	CreatedAt    time.Time `json:"created_at"`
	MAEBefore    float64   `json:"mean_absolute_error_before"`
}

// DailySnapshot holds all derived indices for one calendar date.
type DailySnapshot struct {
	Date               time.Time `json:"date"`
	HRV                float64   `json:"hrv_ms"`
	RHR                float64   `json:"rhr_bpm"`
	Strain             float64   `json:"strain"`
	Recovery           float64   `json:"recovery"`
	SleepDurationH     float64   `json:"sleep_duration_h"`
	DeepH              float64   `json:"deep_h"`
	RemH               float64   `json:"rem_h"`
	LightH             float64   `json:"light_h"`
	SleepEfficiencyPct float64   `json:"sleep_efficiency_pct"`
	SleepScore         float64   `json:"sleep_score"`
	Stress             float64   `json:"stress"`
	Readiness          float64   `json:"readiness"`
	Steps              int       `json:"steps"`
	WeightKg           *float64  `json:"weight_kg,omitempty"`
}

// Workout intensity labels.
const (
	IntensityLight    = "Light"
	IntensityModerate = "Moderate"
	IntensityHigh     = "High"
)

// WorkoutSegment is one detected elevated-heart-rate interval.
// Segments are never mutated after detection.
type WorkoutSegment struct {
	ID                 uuid.UUID   `json:"id"`
	Start              time.Time   `json:"start"`
	End                time.Time   `json:"end"`
	DurationMin        int         `json:"duration_min"`
	AvgHR              float64     `json:"avg_hr"`
	MaxHR              float64     `json:"max_hr"`
	Intensity          string      `json:"intensity"`
	StrainContribution float64     `json:"strain_contribution"`
	ZoneMinutes        map[int]int `json:"zone_minutes,omitempty"`
}

// UserProfile seeds max-HR and metabolic defaults. All fields optional.
type UserProfile struct {
	Age                int     `json:"age"`
	WeightKg           float64 `json:"weight_kg"`
	HeightCm           float64 `json:"height_cm"`
	Sex                string  `json:"sex"`
	AvgStepsPerDay     *int    `json:"avg_steps_per_day,omitempty"`
	ActivityMinPerWeek *int    `json:"activity_minutes_per_week,omitempty"`
}
