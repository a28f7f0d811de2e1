package metrics

import (
	"math"
	"testing"
)

// TestSleepScoreWeightedSum verifies the reported score is exactly the
// weighted sum of its sub-scores for three representative profiles.
func TestSleepScoreWeightedSum(t *testing.T) {
	tests := []struct {
		name string
		in   SleepScoreInput
	}{
		{
			name: "short and poor",
			in: SleepScoreInput{
				DurationH:       4.5,
				EfficiencyPct:   56.25,
				PriorDayStrain:  18,
				RecentDurations: []float64{7.5, 4, 6.5, 4.5},
				SleepHR:         68,
				HRV:             35,
			},
		},
		{
			name: "typical",
			in: SleepScoreInput{
				DurationH:       7.2,
				EfficiencyPct:   90,
				PriorDayStrain:  10,
				RecentDurations: []float64{7.0, 7.5, 6.8, 7.2},
				SleepHR:         58,
				HRV:             65,
			},
		},
		{
			name: "optimal",
			in: SleepScoreInput{
				DurationH:       8.2,
				EfficiencyPct:   102.5,
				PriorDayStrain:  4,
				RecentDurations: []float64{8.1, 8.3, 8.0, 8.2},
				SleepHR:         52,
				HRV:             95,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := SleepScore(tt.in)

			for _, sub := range []struct {
				name  string
				value float64
			}{
				{"sufficiency", b.Sufficiency},
				{"efficiency", b.Efficiency},
				{"consistency", b.Consistency},
				{"sleep_stress", b.SleepStress},
				{"total", b.Total},
			} {
				if sub.value < 0 || sub.value > 100 {
					t.Errorf("%s = %f outside [0,100]", sub.name, sub.value)
				}
			}

			want := b.Sufficiency*0.40 + b.Efficiency*0.30 + b.Consistency*0.20 + b.SleepStress*0.10
			if math.Abs(b.Total-want) > 1e-9 {
				t.Errorf("Total = %f, weighted sum of sub-scores = %f", b.Total, want)
			}
		})
	}
}

func TestSleepNeedGrowsWithPriorStrain(t *testing.T) {
	rested := SleepScore(SleepScoreInput{DurationH: 8, EfficiencyPct: 100, PriorDayStrain: 0})
	strained := SleepScore(SleepScoreInput{DurationH: 8, EfficiencyPct: 100, PriorDayStrain: 20})

	if rested.NeedH != 8 {
		t.Errorf("need with no prior strain = %f, want 8", rested.NeedH)
	}
	if want := 9.0; strained.NeedH != want {
		t.Errorf("need after strain 20 = %f, want %f", strained.NeedH, want)
	}
	if strained.Sufficiency >= rested.Sufficiency {
		t.Error("same sleep should be less sufficient after a harder day")
	}
}

func TestConsistencySubScore(t *testing.T) {
	steady := SleepScore(SleepScoreInput{DurationH: 8, RecentDurations: []float64{8, 8, 8, 8}})
	erratic := SleepScore(SleepScoreInput{DurationH: 8, RecentDurations: []float64{4, 10, 5, 9}})

	if steady.Consistency != 100 {
		t.Errorf("steady consistency = %f, want 100", steady.Consistency)
	}
	if erratic.Consistency >= steady.Consistency {
		t.Error("erratic nights must score lower than steady nights")
	}

	single := SleepScore(SleepScoreInput{DurationH: 8, RecentDurations: []float64{8}})
	if single.Consistency != 100 {
		t.Errorf("first tracked night = %f, want neutral 100", single.Consistency)
	}
}

func TestSleepStressNeutralWithoutSignal(t *testing.T) {
	b := SleepScore(SleepScoreInput{DurationH: 0, SleepHR: 0, HRV: 60})
	if b.SleepStress != 50 {
		t.Errorf("sleep stress without sleep HR = %f, want neutral 50", b.SleepStress)
	}
}
