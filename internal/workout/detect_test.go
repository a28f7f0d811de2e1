package workout

import (
	"testing"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

const testRHR = 60

// plateauSeries builds a resting-HR day with one elevated plateau of the
// given length starting at the given minute offset.
func plateauSeries(day time.Time, offset, length int, plateauBPM float64) []models.Sample {
	out := make([]models.Sample, 240)
	for i := range out {
		bpm := float64(testRHR)
		if i >= offset && i < offset+length {
			bpm = plateauBPM
		}
		out[i] = models.Sample{Timestamp: day.Add(time.Duration(i) * time.Minute), BPM: bpm}
	}
	return out
}

func TestDetectFifteenMinutePlateau(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	series := plateauSeries(day, 60, 15, testRHR+50)

	segments := Detect(series, testRHR, ThresholdOffset, 0)
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}

	seg := segments[0]
	if seg.DurationMin != 15 {
		t.Errorf("DurationMin = %d, want 15", seg.DurationMin)
	}
	if seg.Intensity != models.IntensityModerate {
		t.Errorf("Intensity = %s, want Moderate", seg.Intensity)
	}
	if !seg.Start.Equal(day.Add(60 * time.Minute)) {
		t.Errorf("Start = %v, want offset 60 min", seg.Start)
	}
	if seg.AvgHR != testRHR+50 {
		t.Errorf("AvgHR = %f, want %d", seg.AvgHR, testRHR+50)
	}
}

func TestDetectEightMinutePlateauIgnored(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	series := plateauSeries(day, 60, 8, testRHR+50)

	if segments := Detect(series, testRHR, ThresholdOffset, 0); len(segments) != 0 {
		t.Fatalf("got %d segments, want 0 for an 8-minute plateau", len(segments))
	}
}

// TestDetectSplitOnSingleDip pins the change-point grouping rule: one
// non-elevated minute splits a workout, even with no time gap.
func TestDetectSplitOnSingleDip(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	series := plateauSeries(day, 60, 31, testRHR+50)
	series[75].BPM = testRHR // isolated recovery minute

	segments := Detect(series, testRHR, ThresholdOffset, 0)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2 after mid-plateau dip", len(segments))
	}
	if segments[0].DurationMin != 15 || segments[1].DurationMin != 15 {
		t.Errorf("durations = %d/%d, want 15/15", segments[0].DurationMin, segments[1].DurationMin)
	}
}

func TestIntensityClassification(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		bpm  float64
		want string
	}{
		{testRHR + 30, models.IntensityLight},
		{testRHR + 50, models.IntensityModerate},
		{testRHR + 70, models.IntensityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			series := plateauSeries(day, 0, 20, tt.bpm)
			segments := Detect(series, testRHR, ThresholdOffset, 0)
			if len(segments) != 1 {
				t.Fatalf("got %d segments", len(segments))
			}
			if segments[0].Intensity != tt.want {
				t.Errorf("Intensity = %s, want %s", segments[0].Intensity, tt.want)
			}
		})
	}
}

func TestStrainContributionClamped(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	short := Detect(plateauSeries(day, 0, 15, testRHR+50), testRHR, ThresholdOffset, 0)
	if got, want := short[0].StrainContribution, 0.75; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("StrainContribution = %f, want %f", got, want)
	}

	// 120 minutes at +110 would be 13.2 unclamped.
	long := Detect(plateauSeries(day, 0, 120, testRHR+110), testRHR, ThresholdOffset, 0)
	if long[0].StrainContribution != 10 {
		t.Errorf("StrainContribution = %f, want clamp at 10", long[0].StrainContribution)
	}
}

func TestThresholdPolicies(t *testing.T) {
	if got := ThresholdOffset.Threshold(60); got != 80 {
		t.Errorf("offset threshold = %f, want 80", got)
	}
	if got := ThresholdRelative.Threshold(60); got != 78 {
		t.Errorf("relative threshold = %f, want 78", got)
	}

	// 79 BPM is elevated under relative but not offset at RHR 60.
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	series := plateauSeries(day, 0, 20, 79)
	if got := Detect(series, testRHR, ThresholdOffset, 0); len(got) != 0 {
		t.Error("offset policy should not flag 79 BPM")
	}
	if got := Detect(series, testRHR, ThresholdRelative, 0); len(got) != 1 {
		t.Error("relative policy should flag 79 BPM")
	}
}

func TestZoneDistribution(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	series := plateauSeries(day, 0, 20, 150)
	segments := Detect(series, testRHR, ThresholdOffset, 200)
	if len(segments) != 1 {
		t.Fatalf("got %d segments", len(segments))
	}
	if segments[0].ZoneMinutes[3] != 20 {
		t.Errorf("zone 3 minutes = %d, want 20", segments[0].ZoneMinutes[3])
	}
}
