package fusion

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// MinCalibrationPairs is the minimum number of time-matched sample pairs
// required for a reliable linear fit.
const MinCalibrationPairs = 30

// MatchTolerance is the maximum timestamp distance for a wrist/chest pair.
const MatchTolerance = time.Minute

// InsufficientDataError reports a calibration attempt with too few
// overlapping samples. Wearing both devices for at least 30 minutes of
// overlap is required.
type InsufficientDataError struct {
	Matched int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("calibration needs %d matched sample pairs, got %d", MinCalibrationPairs, e.Matched)
}

// Calibrate learns a linear correction mapping wrist readings onto
// chest-strap readings from simultaneous wear. Pairs are joined on
// timestamp with nearest-match within one minute. Returns
// *InsufficientDataError when fewer than MinCalibrationPairs pairs match.
func Calibrate(wrist, reference []models.Sample) (*models.CalibrationProfile, error) {
	pairs := matchPairs(wrist, reference)
	if len(pairs) < MinCalibrationPairs {
		return nil, &InsufficientDataError{Matched: len(pairs)}
	}

	wristBPM := make([]float64, len(pairs))
	chestBPM := make([]float64, len(pairs))
	wristRR := make([]float64, len(pairs))
	chestRR := make([]float64, len(pairs))
	absErr := make([]float64, len(pairs))
	for i, p := range pairs {
		wristBPM[i] = p.wrist.BPM
		chestBPM[i] = p.chest.BPM
		wristRR[i] = p.wrist.RRMs
		chestRR[i] = p.chest.RRMs
		absErr[i] = math.Abs(p.wrist.BPM - p.chest.BPM)
	}

	bpmSlope, bpmIntercept := meanRatioFit(wristBPM, chestBPM)
	rrSlope, rrIntercept := meanRatioFit(wristRR, chestRR)

	return &models.CalibrationProfile{
		BPMSlope:     bpmSlope,
		BPMIntercept: bpmIntercept,
		RRSlope:      rrSlope,
		RRIntercept:  rrIntercept,
		SampleCount:  len(pairs),
		CreatedAt:    time.Now(),
		MAEBefore:    Mean(absErr),
	}, nil
}

// meanRatioFit fits corrected = raw*slope + intercept such that the
// corrected mean equals the reference mean.
func meanRatioFit(raw, ref []float64) (slope, intercept float64) {
	rawMean := Mean(raw)
	refMean := Mean(ref)
	if rawMean == 0 {
		return 1, 0
	}
	slope = refMean / rawMean
	intercept = refMean - slope*rawMean
	return slope, intercept
}

// ApplyCalibration returns a copy of samples with the linear correction
// applied to BPM and RR. A nil profile is a passthrough, not an error.
// Zero RR values stay zero: they mean "no reading", not a measurement.
func ApplyCalibration(profile *models.CalibrationProfile, samples []models.Sample) []models.Sample {
	if profile == nil {
		return samples
	}
	out := make([]models.Sample, len(samples))
	for i, s := range samples {
		s.BPM = s.BPM*profile.BPMSlope + profile.BPMIntercept
		if s.RRMs > 0 {
			s.RRMs = s.RRMs*profile.RRSlope + profile.RRIntercept
		}
		out[i] = s
	}
	return out
}

type samplePair struct {
	wrist models.Sample
	chest models.Sample
}

// matchPairs joins the two series on timestamp, pairing each wrist sample
// with the nearest reference sample within MatchTolerance. Each reference
// sample is used at most once; exact ties prefer the earlier candidate.
func matchPairs(wrist, reference []models.Sample) []samplePair {
	if len(wrist) == 0 || len(reference) == 0 {
		return nil
	}

	w := sortedByTime(wrist)
	ref := sortedByTime(reference)

	var pairs []samplePair
	j := 0
	for _, ws := range w {
		// Advance to the first reference sample not earlier than the
		// previous match.
		for j < len(ref) && ref[j].Timestamp.Before(ws.Timestamp.Add(-MatchTolerance)) {
			j++
		}
		if j >= len(ref) {
			break
		}
		// Walk forward while candidates keep getting strictly closer;
		// the series is sorted, so distance grows again after that.
		best := j
		bestDist := absDuration(ref[j].Timestamp.Sub(ws.Timestamp))
		for k := j + 1; k < len(ref); k++ {
			d := absDuration(ref[k].Timestamp.Sub(ws.Timestamp))
			if d >= bestDist {
				break
			}
			best = k
			bestDist = d
		}
		if bestDist <= MatchTolerance {
			pairs = append(pairs, samplePair{wrist: ws, chest: ref[best]})
			j = best + 1
		}
	}
	return pairs
}

func sortedByTime(samples []models.Sample) []models.Sample {
	out := make([]models.Sample, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
