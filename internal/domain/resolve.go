package domain

// MaxPassableReturnPeriod returns the largest design storm whose peak
// discharge does not exceed capacity. Storms are checked in ascending order
// and the scan stops at the first one that overflows, so peaks must be
// non-decreasing for the answer to be meaningful; that is not checked here.
//
// Capacity equal to a peak passes. Capacity below the 1-year peak returns
// NoReturnPeriod, and capacity that never overflows returns 500.
func MaxPassableReturnPeriod(capacity float64, peaks Discharges) ReturnPeriod {
	passed := NoReturnPeriod
	for i, storm := range DesignStorms {
		if capacity < peaks[i] {
			return passed
		}
		passed = storm
	}
	return passed
}
