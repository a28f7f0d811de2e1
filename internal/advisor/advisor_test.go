package advisor

import (
	"testing"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// days builds n consecutive snapshots ending yesterday, all with the same
// values, then lets the caller mutate them.
func days(n int, strain, recovery, hrv, rhr float64) []models.DailySnapshot {
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	out := make([]models.DailySnapshot, n)
	for i := range out {
		out[i] = models.DailySnapshot{
			Date:     end.AddDate(0, 0, i-n),
			Strain:   strain,
			Recovery: recovery,
			HRV:      hrv,
			RHR:      rhr,
			Steps:    8000,
		}
	}
	return out
}

func TestWeeklySummary(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	history := days(14, 10, 60, 55, 58)
	for i := 7; i < 14; i++ { // recent week runs hotter
		history[i].Strain = 14
		history[i].Recovery = 70
	}
	history[10].Recovery = 92
	history[12].Recovery = 48

	s := Weekly(history, now)
	if s == nil {
		t.Fatal("expected a summary")
	}
	if s.TotalStrain != 98 {
		t.Errorf("TotalStrain = %f, want 98", s.TotalStrain)
	}
	if s.BestDay == nil || s.BestDay.Recovery != 92 {
		t.Errorf("BestDay = %+v, want recovery 92", s.BestDay)
	}
	if s.WorstDay == nil || s.WorstDay.Recovery != 48 {
		t.Errorf("WorstDay = %+v, want recovery 48", s.WorstDay)
	}
	if s.WoWStrainChange != 28 { // 98 - 70
		t.Errorf("WoWStrainChange = %f, want 28", s.WoWStrainChange)
	}
	if s.WoWRecoveryChange <= 0 {
		t.Errorf("WoWRecoveryChange = %f, want positive", s.WoWRecoveryChange)
	}

	if got := Weekly(nil, now); got != nil {
		t.Error("empty history should yield nil summary")
	}
}

func TestMonthlyNeedsSevenDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	in := Monthly(days(4, 10, 60, 55, 58), now)
	if in.DaysNeeded != 3 {
		t.Errorf("DaysNeeded = %d, want 3", in.DaysNeeded)
	}
	if in.AvgRecovery != 0 {
		t.Error("insufficient history must not report averages")
	}

	full := Monthly(days(10, 10, 60, 55, 58), now)
	if full.DaysNeeded != 0 {
		t.Errorf("DaysNeeded = %d, want 0", full.DaysNeeded)
	}
	if full.AvgRecovery != 60 {
		t.Errorf("AvgRecovery = %f, want 60", full.AvgRecovery)
	}
	if full.Message == "" {
		t.Error("expected a message")
	}
}

func TestSimplePolicyHighRisk(t *testing.T) {
	// A week of strain 18 at recovery 40 is the textbook overreached state.
	risk := SimplePolicy{}.Assess(days(7, 18, 40, 55, 58))
	if risk.Level != RiskHigh {
		t.Fatalf("Level = %s (score %d), want high", risk.Level, risk.Score)
	}
	if risk.Score != 6 {
		t.Errorf("Score = %d, want 6", risk.Score)
	}
	if len(risk.Factors) != 2 {
		t.Errorf("Factors = %v, want strain and recovery", risk.Factors)
	}
	if len(risk.Recommendations) == 0 {
		t.Error("high risk must carry recommendations")
	}
}

func TestSimplePolicyMinimalAndInsufficient(t *testing.T) {
	risk := SimplePolicy{}.Assess(days(7, 8, 75, 60, 55))
	if risk.Level != RiskMinimal || risk.Score != 0 {
		t.Errorf("easy week: level=%s score=%d, want minimal 0", risk.Level, risk.Score)
	}

	short := SimplePolicy{}.Assess(days(4, 18, 40, 55, 58))
	if short.DaysNeeded != 3 {
		t.Errorf("DaysNeeded = %d, want 3", short.DaysNeeded)
	}
	if short.Level != RiskMinimal {
		t.Errorf("short history level = %s, want minimal", short.Level)
	}
}

func TestSimplePolicyTrendFactors(t *testing.T) {
	history := days(7, 8, 75, 80, 50)
	for i := range history {
		history[i].HRV = 80 - float64(i)*3 // falling 3 ms/day
		history[i].RHR = 50 + float64(i)*3 // rising 3 BPM/day
	}
	risk := SimplePolicy{}.Assess(history)
	if risk.Score != 4 {
		t.Errorf("Score = %d, want 4 from both trend factors", risk.Score)
	}
	if risk.Level != RiskModerate {
		t.Errorf("Level = %s, want moderate", risk.Level)
	}
}

func TestExtendedPolicy(t *testing.T) {
	history := days(14, 10, 70, 70, 55)
	for i := 7; i < 14; i++ { // second week collapses
		history[i].Strain = 17
		history[i].HRV = 55
		history[i].RHR = 62
		history[i].Recovery = 45
	}
	risk := ExtendedPolicy{}.Assess(history)
	// strain +3, HRV -15 +3, RHR +7 +3, recovery +2 = 11
	if risk.Score != 11 {
		t.Errorf("Score = %d, want 11", risk.Score)
	}
	if risk.Level != RiskHigh {
		t.Errorf("Level = %s, want high", risk.Level)
	}

	short := ExtendedPolicy{}.Assess(days(10, 10, 70, 70, 55))
	if short.DaysNeeded != 4 {
		t.Errorf("DaysNeeded = %d, want 4", short.DaysNeeded)
	}
}

func TestPolicyByName(t *testing.T) {
	if PolicyByName("extended").Name() != "extended" {
		t.Error("extended should resolve to the extended policy")
	}
	if PolicyByName("simple").Name() != "simple" {
		t.Error("simple should resolve to the simple policy")
	}
	if PolicyByName("").Name() != "simple" {
		t.Error("unknown names should fall back to simple")
	}
}

func TestRestDay(t *testing.T) {
	ok := RestDay(days(5, 10, 70, 55, 58))
	if ok.RestRecommended {
		t.Error("healthy history should not trigger rest")
	}

	tired := days(5, 10, 70, 55, 58)
	tired[len(tired)-1].Recovery = 35
	advice := RestDay(tired)
	if !advice.RestRecommended || advice.Urgency != "moderate" {
		t.Errorf("advice = %+v, want moderate rest", advice)
	}

	// Low recovery + hard yesterday + three declining days = high urgency.
	urgent := days(5, 10, 70, 55, 58)
	urgent[2].Recovery = 60
	urgent[3].Recovery = 50
	urgent[3].Strain = 18
	urgent[4].Recovery = 35
	got := RestDay(urgent)
	if got.Urgency != "high" {
		t.Errorf("Urgency = %s, want high", got.Urgency)
	}
}

func TestForecastRecovery(t *testing.T) {
	if ForecastRecovery(days(2, 10, 60, 55, 58)) != nil {
		t.Error("two days is not enough to forecast")
	}

	flat := ForecastRecovery(days(7, 10, 60, 55, 58))
	if flat == nil {
		t.Fatal("expected a forecast")
	}
	if flat.Predicted != 60 {
		t.Errorf("flat week predicted = %f, want 60", flat.Predicted)
	}
	if flat.Confidence != "high" {
		t.Errorf("Confidence = %s, want high with a full week", flat.Confidence)
	}

	improving := days(7, 5, 60, 55, 58)
	for i := range improving {
		improving[i].HRV = 50 + float64(i)*2
		improving[i].RHR = 60 - float64(i)
	}
	up := ForecastRecovery(improving)
	// 60 +5 HRV rising +3 RHR falling +3 low strain = 71
	if up.Predicted != 71 {
		t.Errorf("improving predicted = %f, want 71", up.Predicted)
	}

	// Mild declines sit inside the dead zones: an HRV slope above -5 and
	// an RHR slope below +2 leave the prediction alone.
	mild := days(7, 10, 60, 55, 58)
	for i := range mild {
		mild[i].HRV = 60 - float64(i)*2
		mild[i].RHR = 55 + float64(i)
	}
	if got := ForecastRecovery(mild); got.Predicted != 60 {
		t.Errorf("mild decline predicted = %f, want 60 (no nudges)", got.Predicted)
	}

	// The strain nudge reads the window average, not just today: a hard
	// week ending in an easy day still predicts lower.
	hardWeek := days(7, 18, 60, 55, 58)
	hardWeek[len(hardWeek)-1].Strain = 4 // avg (6*18+4)/7 = 16
	if got := ForecastRecovery(hardWeek); got.Predicted != 55 {
		t.Errorf("hard week predicted = %f, want 55", got.Predicted)
	}

	short := ForecastRecovery(days(3, 10, 60, 55, 58))
	if short.Confidence != "medium" {
		t.Errorf("Confidence = %s, want medium with three days", short.Confidence)
	}
}

func TestRecords(t *testing.T) {
	history := days(30, 10, 60, 55, 58)
	history[10].HRV = 105
	history[12].RHR = 44
	history[15].Recovery = 93
	history[20].Steps = 16500
	history[25].Strain = 19.5

	pr := Records(history)
	if pr.HighestHRV.Value != 105 {
		t.Errorf("HighestHRV = %f, want 105", pr.HighestHRV.Value)
	}
	if pr.LowestRHR.Value != 44 {
		t.Errorf("LowestRHR = %f, want 44", pr.LowestRHR.Value)
	}
	if pr.LowestRHR.Date != history[12].Date.Format(time.DateOnly) {
		t.Errorf("LowestRHR date = %s", pr.LowestRHR.Date)
	}

	want := map[string]bool{
		"7 days tracked":     true,
		"30 days tracked":    true,
		"Recovery 90%+":      true,
		"HRV 100ms+":         true,
		"15k steps in a day": true,
	}
	for _, a := range pr.Achievements {
		delete(want, a)
	}
	if len(want) != 0 {
		t.Errorf("missing achievements: %v (got %v)", want, pr.Achievements)
	}

	empty := Records(nil)
	if empty.DaysTracked != 0 || len(empty.Achievements) != 0 {
		t.Errorf("empty records = %+v", empty)
	}
}

func TestStrainGoalBands(t *testing.T) {
	tests := []struct {
		recovery float64
		max      float64
	}{
		{85, 18},
		{65, 14},
		{45, 10},
		{30, 6},
	}
	for _, tt := range tests {
		if got := StrainGoal(tt.recovery); got.Max != tt.max {
			t.Errorf("StrainGoal(%.0f).Max = %f, want %f", tt.recovery, got.Max, tt.max)
		}
	}
}

func TestSuggestActivities(t *testing.T) {
	out := SuggestActivities(85, 4) // budget 18, remaining 14
	if len(out) == 0 || len(out) > 5 {
		t.Fatalf("got %d suggestions, want 1-5", len(out))
	}
	for _, s := range out {
		if s.Minutes < 10 || s.Minutes > 120 {
			t.Errorf("%s minutes = %d outside [10,120]", s.Activity, s.Minutes)
		}
	}
	for i := 1; i < len(out); i++ {
		if out[i].Minutes < out[i-1].Minutes {
			t.Error("suggestions must be sorted by minutes ascending")
		}
	}

	if got := SuggestActivities(85, 20); got != nil {
		t.Error("a spent budget should yield no suggestions")
	}
}

func TestTrainingLoadAndSleepDebt(t *testing.T) {
	history := days(10, 12, 60, 55, 58)
	if got := TrainingLoad(history); got != 84 {
		t.Errorf("TrainingLoad = %f, want 84", got)
	}

	for i := range history {
		history[i].SleepDurationH = 6.5
	}
	if got := SleepDebt(history, 8); got != 10.5 {
		t.Errorf("SleepDebt = %f, want 10.5", got)
	}
	if got := SleepDebt(nil, 8); got != 0 {
		t.Errorf("SleepDebt(nil) = %f, want 0", got)
	}
}

func TestCoachAdvice(t *testing.T) {
	today := models.DailySnapshot{Recovery: 85, Strain: 5}
	if msg := CoachAdvice(today, 8); msg == "" {
		t.Error("morning advice empty")
	}
	if msg := CoachAdvice(today, 13); msg == "" {
		t.Error("midday advice empty")
	}
	if msg := CoachAdvice(today, 21); msg == "" {
		t.Error("evening advice empty")
	}
}
