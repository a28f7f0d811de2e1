package fusion

import (
	"sort"

	"github.com/claude/vitalfuse/internal/models"
)

// Precedence selects which device wins on an exact timestamp collision
// during a merge.
type Precedence string

const (
	// PreferWrist keeps the calibrated wrist sample on collisions. This
	// matches the historical behavior where the all-day series was
	// concatenated first and first-occurrence dedup let it win.
	PreferWrist Precedence = "wrist"
	// PreferReference keeps the chest-strap sample on collisions, on the
	// grounds that the reference device is higher fidelity.
	PreferReference Precedence = "reference"
)

// Merge combines the calibrated wrist series and the reference series into
// one canonical series: ordered by timestamp, unique timestamps, collisions
// resolved by the given precedence. An empty reference series yields the
// wrist series unchanged.
func Merge(wrist, reference []models.Sample, precedence Precedence) []models.Sample {
	if len(reference) == 0 {
		return sortedByTime(wrist)
	}

	combined := make([]models.Sample, 0, len(wrist)+len(reference))
	if precedence == PreferReference {
		combined = append(combined, reference...)
		combined = append(combined, wrist...)
	} else {
		combined = append(combined, wrist...)
		combined = append(combined, reference...)
	}

	// Stable sort preserves concatenation order among equal timestamps,
	// so keeping the first occurrence implements the precedence rule.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Timestamp.Before(combined[j].Timestamp)
	})

	out := combined[:0]
	for i, s := range combined {
		if i > 0 && s.Timestamp.Equal(out[len(out)-1].Timestamp) {
			continue
		}
		out = append(out, s)
	}
	return out
}
