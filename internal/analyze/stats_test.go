package analyze

import (
	"math"
	"testing"
)

func TestMeanStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
	}{
		{"empty", nil, 0, 0},
		{"single value", []float64{5}, 5, 0},
		{"flat", []float64{3, 3, 3}, 3, 0},
		{"typical week", []float64{10, 12, 11, 9, 13}, 11, math.Sqrt(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std := meanStdDev(tt.values)
			if math.Abs(mean-tt.wantMean) > 1e-9 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if math.Abs(std-tt.wantStd) > 1e-9 {
				t.Errorf("stddev = %v, want %v", std, tt.wantStd)
			}
		})
	}
}

func TestZScore(t *testing.T) {
	baseline := []float64{10, 12, 11, 9, 13} // mean 11, population stddev sqrt(2)

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"strong spike", 20, 9 / math.Sqrt(2)},  // ~6.36
		{"moderate spike", 14, 3 / math.Sqrt(2)}, // ~2.12
		{"mild elevation", 13, 2 / math.Sqrt(2)}, // ~1.41
		{"at the mean", 11, 0},
		{"below the mean", 9, -2 / math.Sqrt(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := zScore(baseline, tt.value)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("zScore(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestZScoreFlatBaseline(t *testing.T) {
	// History without variance must never anomalize, regardless of the
	// current value.
	if got := zScore([]float64{5, 5, 5, 5}, 50); got != 0 {
		t.Errorf("zScore on flat baseline = %v, want 0", got)
	}
}
