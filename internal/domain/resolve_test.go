package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// linearPeaks has each design storm's peak equal to its return period.
var linearPeaks = Discharges{1, 2, 5, 10, 25, 50, 100, 200, 500}

func TestMaxPassableReturnPeriod(t *testing.T) {
	tests := []struct {
		name     string
		capacity float64
		peaks    Discharges
		expected ReturnPeriod
	}{
		{"between 5 and 10 year peaks", 7, linearPeaks, 5},
		{"equal to 10 year peak passes", 10, linearPeaks, 10},
		{"just below 25 year peak", 24.999, linearPeaks, 10},
		{"below 1 year peak", 0.5, linearPeaks, NoReturnPeriod},
		{"zero capacity", 0, linearPeaks, NoReturnPeriod},
		{"equal to 1 year peak", 1, linearPeaks, 1},
		{"equal to 500 year peak", 500, linearPeaks, 500},
		{"above 500 year peak", 10000, linearPeaks, 500},
		{"flat peaks below capacity", 3, Discharges{3, 3, 3, 3, 3, 3, 3, 3, 3}, 500},
		{"flat peaks above capacity", 2.9, Discharges{3, 3, 3, 3, 3, 3, 3, 3, 3}, NoReturnPeriod},
		{"realistic watershed", 4.2, Discharges{0.8, 1.3, 2.1, 2.9, 4.0, 5.1, 6.4, 7.9, 10.2}, 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MaxPassableReturnPeriod(tc.capacity, tc.peaks))
		})
	}
}

func TestMaxPassableReturnPeriod_StopsAtFirstOverflow(t *testing.T) {
	// Non-monotonic peaks are not validated: the dip at 50 years is never reached.
	peaks := Discharges{1, 2, 5, 10, 25, 3, 100, 200, 500}
	assert.Equal(t, ReturnPeriod(10), MaxPassableReturnPeriod(20, peaks))
}

func TestMaxPassableReturnPeriod_NaNCapacityNeverOverflows(t *testing.T) {
	assert.Equal(t, ReturnPeriod(500), MaxPassableReturnPeriod(math.NaN(), linearPeaks))
}

func TestDischarges_Monotonic(t *testing.T) {
	assert.True(t, linearPeaks.Monotonic())
	assert.True(t, Discharges{}.Monotonic())
	assert.False(t, Discharges{1, 2, 5, 10, 25, 3, 100, 200, 500}.Monotonic())
}

func TestReturnPeriod_Column(t *testing.T) {
	assert.Equal(t, "Y1", ReturnPeriod(1).Column())
	assert.Equal(t, "Y500", ReturnPeriod(500).Column())
}
