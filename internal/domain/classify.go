package domain

import "log/slog"

// SkipReason explains why a culvert could not be classified.
type SkipReason string

const (
	SkipMissingCurrent SkipReason = "missing_current"
	SkipMissingFuture  SkipReason = "missing_future"
	SkipMissingBoth    SkipReason = "missing_both"
)

// Assessment is the classification result for one culvert. It is built once
// and never modified; Position pairs it with the culvert's input row.
type Assessment struct {
	Position int
	Culvert  CulvertRecord
	Matched  bool

	// Fields below are only meaningful when Matched is true.
	CurrentReturn ReturnPeriod
	FutureReturn  ReturnPeriod
	Watershed     WatershedRecord // current scenario
	CulvertCount  int
}

// SkipEvent records a culvert that had no watershed in one or both scenarios.
type SkipEvent struct {
	Position  int
	BarrierID string
	Reason    SkipReason
}

// Classification is the output of Classify: one assessment per culvert in
// input order, plus a skip event per unmatched culvert.
type Classification struct {
	Assessments []Assessment
	Skipped     []SkipEvent
}

// Matched returns the matched assessments in input order.
func (c Classification) Matched() []Assessment {
	out := make([]Assessment, 0, len(c.Assessments)-len(c.Skipped))
	for _, a := range c.Assessments {
		if a.Matched {
			out = append(out, a)
		}
	}
	return out
}

// Classify joins each culvert to its current and future watersheds and
// resolves the largest storm it can pass in each scenario. Culverts missing
// from either index are logged once at warn level and returned unmatched.
func Classify(culverts []CulvertRecord, current, future *RunoffIndex, logger *slog.Logger) Classification {
	result := Classification{
		Assessments: make([]Assessment, 0, len(culverts)),
	}

	for i, culvert := range culverts {
		cur, okCur := current.Lookup(culvert.BarrierID)
		fut, okFut := future.Lookup(culvert.BarrierID)

		if !okCur || !okFut {
			skip := SkipEvent{Position: i, BarrierID: culvert.BarrierID, Reason: skipReason(okCur, okFut)}
			logger.Warn("no watershed found for culvert, skipping",
				"barrier_id", skip.BarrierID,
				"position", skip.Position,
				"reason", skip.Reason,
			)
			result.Skipped = append(result.Skipped, skip)
			result.Assessments = append(result.Assessments, Assessment{Position: i, Culvert: culvert})
			continue
		}

		result.Assessments = append(result.Assessments, Assessment{
			Position:      i,
			Culvert:       culvert,
			Matched:       true,
			CurrentReturn: MaxPassableReturnPeriod(culvert.Capacity, cur.Peaks),
			FutureReturn:  MaxPassableReturnPeriod(culvert.Capacity, fut.Peaks),
			Watershed:     cur,
			CulvertCount:  culvertCount(culvert.Flags),
		})
	}

	return result
}

func skipReason(okCurrent, okFuture bool) SkipReason {
	switch {
	case !okCurrent && !okFuture:
		return SkipMissingBoth
	case !okCurrent:
		return SkipMissingCurrent
	default:
		return SkipMissingFuture
	}
}
