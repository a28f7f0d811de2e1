package advisor

import (
	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/models"
)

// RecoveryForecast predicts tomorrow's recovery from the trailing week.
type RecoveryForecast struct {
	Predicted  float64 `json:"predicted"`
	Confidence string  `json:"confidence"`
}

// ForecastRecovery starts from the trailing 7-day average recovery and
// nudges it by HRV and RHR slope and by the window's average strain.
// The slope thresholds are asymmetric: any improvement counts, while a
// decline has to be pronounced before it drags the prediction down.
// Returns nil with fewer than three days of history. Confidence is high
// with a full week, medium below.
func ForecastRecovery(history []models.DailySnapshot) *RecoveryForecast {
	recent := tail(history, 7)
	if len(recent) < 3 {
		return nil
	}

	predicted := avg(recent, recoveryOf)

	if hrvSlope := trend(recent, hrvOf); hrvSlope > 0 {
		predicted += 5
	} else if hrvSlope < -5 {
		predicted -= 5
	}
	if rhrSlope := trend(recent, rhrOf); rhrSlope < 0 {
		predicted += 3
	} else if rhrSlope > 2 {
		predicted -= 3
	}

	if strainAvg := avg(recent, strainOf); strainAvg > 15 {
		predicted -= 5
	} else if strainAvg < 8 {
		predicted += 3
	}

	confidence := "medium"
	if len(recent) >= 7 {
		confidence = "high"
	}
	return &RecoveryForecast{
		Predicted:  round1(fusion.Clamp(predicted, 0, 100)),
		Confidence: confidence,
	}
}
