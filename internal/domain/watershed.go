package domain

import "strconv"

// ReturnPeriod is the average recurrence interval of a storm, in years.
type ReturnPeriod int

// NoReturnPeriod is returned when a culvert overflows even the 1-year storm.
const NoReturnPeriod ReturnPeriod = 0

const numDesignStorms = 9

// DesignStorms lists the modeled return periods in ascending order.
var DesignStorms = [numDesignStorms]ReturnPeriod{1, 2, 5, 10, 25, 50, 100, 200, 500}

// Column returns the runoff table column holding the peak discharge for the
// return period, e.g. "Y25".
func (rp ReturnPeriod) Column() string {
	return "Y" + strconv.Itoa(int(rp))
}

// Discharges holds peak discharges (m^3/s) indexed in DesignStorms order.
type Discharges [numDesignStorms]float64

// Monotonic reports whether the discharges never decrease with return period.
func (d Discharges) Monotonic() bool {
	for i := 1; i < len(d); i++ {
		if d[i] < d[i-1] {
			return false
		}
	}
	return true
}

// Scenario names the rainfall statistics a runoff table was modeled with.
type Scenario string

const (
	ScenarioCurrent Scenario = "current"
	ScenarioFuture  Scenario = "future"
)

// WatershedRecord is one row of a runoff table.
type WatershedRecord struct {
	BarrierID   string
	AreaSqKm    float64
	TcHours     float64
	CurveNumber float64
	Peaks       Discharges
}
