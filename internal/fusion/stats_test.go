package fusion

import (
	"math"
	"testing"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		q    float64
		want float64
	}{
		{"median of four", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p05 of 1..100", seq(1, 100), 0.05, 5.95},
		{"min", []float64{3, 1, 2}, 0, 1},
		{"max", []float64{3, 1, 2}, 1, 3},
		{"single", []float64{42}, 0.5, 42},
		{"empty", nil, 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.xs, tt.q); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentile(%v, %.2f) = %f, want %f", tt.xs, tt.q, got, tt.want)
			}
		})
	}
}

func TestStdDevPopulation(t *testing.T) {
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2.
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("StdDev = %f, want 2", got)
	}
	if StdDev([]float64{5}) != 0 {
		t.Error("StdDev of one value must be 0")
	}
}

func TestDiff(t *testing.T) {
	got := Diff([]float64{850, 860, 845})
	want := []float64{10, -15}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Diff[%d] = %f, want %f", i, got[i], want[i])
		}
	}
	if Diff([]float64{1}) != nil {
		t.Error("Diff of one value must be nil")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(25, 0, 21); got != 21 {
		t.Errorf("Clamp(25,0,21) = %f", got)
	}
	if got := Clamp(-3, 0, 21); got != 0 {
		t.Errorf("Clamp(-3,0,21) = %f", got)
	}
	if got := Clamp(10, 0, 21); got != 10 {
		t.Errorf("Clamp(10,0,21) = %f", got)
	}
}

func seq(lo, hi int) []float64 {
	out := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, float64(i))
	}
	return out
}
