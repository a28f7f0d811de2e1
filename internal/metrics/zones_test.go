package metrics

import (
	"testing"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

func TestMaxHeartRateFormulas(t *testing.T) {
	tests := []struct {
		method MaxHRMethod
		age    int
		weight float64
		want   float64
	}{
		{MaxHRSimple, 30, 0, 190},
		{MaxHRTanaka, 30, 0, 187},
		{MaxHRGulati, 30, 0, 179.6},
		{MaxHRInbar, 30, 70, 205.8 - 0.685*30 + 0.05*70},
		{MaxHRInbar, 30, 0, 187}, // falls back to Tanaka without weight
	}
	for _, tt := range tests {
		if got := MaxHeartRate(tt.age, tt.weight, tt.method); got != tt.want {
			t.Errorf("MaxHeartRate(%d, %.0f, %s) = %f, want %f", tt.age, tt.weight, tt.method, got, tt.want)
		}
	}
}

func TestZoneForHR(t *testing.T) {
	const maxHR = 200
	tests := []struct {
		bpm  float64
		want int
	}{
		{90, 0},  // below zone 1
		{100, 1}, // exactly 50%
		{125, 2},
		{145, 3},
		{170, 4},
		{185, 5},
		{205, 5}, // above max still zone 5
	}
	for _, tt := range tests {
		if got := ZoneForHR(tt.bpm, maxHR); got != tt.want {
			t.Errorf("ZoneForHR(%.0f) = %d, want %d", tt.bpm, got, tt.want)
		}
	}
}

func TestZoneMinutes(t *testing.T) {
	series := []models.Sample{
		{BPM: 110}, {BPM: 110}, // zone 1
		{BPM: 150},             // zone 3
		{BPM: 60},              // below zones
	}
	zones := ZoneMinutes(series, 200)
	if zones[1] != 2 || zones[3] != 1 {
		t.Errorf("zones = %v", zones)
	}
	if zones[2] != 0 || zones[4] != 0 || zones[5] != 0 {
		t.Errorf("expected empty zones to be present and zero, got %v", zones)
	}
}

func TestProfileMaxHRFallsBackToObserved(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := flatDay(day, 150)
	got := ProfileMaxHR(nil, series)
	if got != 150 {
		t.Errorf("ProfileMaxHR without profile = %f, want observed 150", got)
	}

	withAge := &models.UserProfile{Age: 40}
	if got := ProfileMaxHR(withAge, series); got != 180 {
		t.Errorf("ProfileMaxHR(age 40) = %f, want Tanaka 180", got)
	}
}

func TestHourlyStrainStepDeltas(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.Sample, 0, 180)
	for i := 0; i < 180; i++ { // three hours
		steps := 0.0
		if i >= 60 {
			steps = 1000
		}
		if i >= 120 {
			steps = 4000
		}
		series = append(series, models.Sample{
			Timestamp: day.Add(time.Duration(i) * time.Minute),
			BPM:       80,
			Steps:     steps,
		})
	}

	points := HourlyStrain(series, 60)
	if len(points) != 3 {
		t.Fatalf("got %d hourly points, want 3", len(points))
	}
	if points[0].Steps != 0 || points[1].Steps != 1000 || points[2].Steps != 3000 {
		t.Errorf("step deltas = %d/%d/%d, want 0/1000/3000",
			points[0].Steps, points[1].Steps, points[2].Steps)
	}
	for _, p := range points {
		if p.Strain < 0 {
			t.Errorf("hour %d strain negative", p.Hour)
		}
	}
}

func TestBMRAndCalories(t *testing.T) {
	male := BMR(70, 175, 30, "male")
	female := BMR(70, 175, 30, "female")
	if male <= female {
		t.Error("Mifflin-St Jeor male BMR must exceed female at same body")
	}
	if want := 10*70.0 + 6.25*175 - 5*30 + 5; male != want {
		t.Errorf("male BMR = %f, want %f", male, want)
	}

	burn := CalorieBurn(1650, 14, 8000)
	if burn.FromStrain != 500 {
		t.Errorf("strain 14 should map to 500 kcal, got %d", burn.FromStrain)
	}
	if burn.Activity != 500 { // max(320, 500)
		t.Errorf("activity = %d, want 500", burn.Activity)
	}
	if burn.Total != 2150 {
		t.Errorf("total = %d, want 2150", burn.Total)
	}
}
