// Package domain models culvert capacity and watershed runoff data and
// classifies each culvert by the largest storm it can pass.
//
// # Data Sources
//
// Watershed runoff tables come from the hydrologic model run over each
// culvert's contributing area, once with present-day rainfall statistics
// (the "current" scenario) and once with projected rainfall (the "future"
// scenario). Culvert tables come from field assessments (NAACC crossing
// surveys) with capacity computed upstream. Both tables share the BarrierID
// column, which is the only join key.
//
// # Conventions
//
// Return periods:
//
//	The modeled design storms are the 1, 2, 5, 10, 25, 50, 100, 200 and
//	500-year events (see [DesignStorms]). A return period of 0 is a sentinel
//	meaning the culvert cannot pass even the 1-year storm.
//
// Units:
//
//	Capacity (Q) and peak discharges are in m^3/s. Drainage area is in km^2,
//	time of concentration (Tc) in hours, and the curve number (CN) is
//	dimensionless.
//
// Overflow rule:
//
//	A culvert passes a storm when its capacity is greater than or equal to
//	the storm's peak discharge. Equality passes. Peak discharges are assumed
//	non-decreasing with return period; [MaxPassableReturnPeriod] relies on
//	that ordering and stops at the first overflow.
//
// Flags and culvert counts:
//
//	The capacity table's Flags column historically held 0 for "no flag". It
//	is reinterpreted as the number of physical culverts represented by the
//	row, so 0 becomes 1 in [Assessment.CulvertCount]. Non-zero values are
//	kept. The source record is never modified.
//
// Duplicate identifiers:
//
//	When a runoff table repeats a BarrierID, the later row wins. This is a
//	policy, not an error; [RunoffIndex.Overwritten] reports how often it
//	happened so callers can log it.
package domain
