package domain

// RunoffIndex maps BarrierID to the watershed record of one scenario.
type RunoffIndex struct {
	scenario    Scenario
	byID        map[string]WatershedRecord
	overwritten int
}

// NewRunoffIndex indexes records by BarrierID. A repeated identifier replaces
// the earlier record (last write wins) and is counted in Overwritten.
func NewRunoffIndex(scenario Scenario, records []WatershedRecord) *RunoffIndex {
	ix := &RunoffIndex{
		scenario: scenario,
		byID:     make(map[string]WatershedRecord, len(records)),
	}
	for _, rec := range records {
		if _, ok := ix.byID[rec.BarrierID]; ok {
			ix.overwritten++
		}
		ix.byID[rec.BarrierID] = rec
	}
	return ix
}

// Lookup returns the watershed for a BarrierID.
func (ix *RunoffIndex) Lookup(barrierID string) (WatershedRecord, bool) {
	rec, ok := ix.byID[barrierID]
	return rec, ok
}

func (ix *RunoffIndex) Scenario() Scenario { return ix.scenario }

// Len returns the number of distinct identifiers.
func (ix *RunoffIndex) Len() int { return len(ix.byID) }

// Overwritten returns how many rows replaced an earlier row with the same BarrierID.
func (ix *RunoffIndex) Overwritten() int { return ix.overwritten }
