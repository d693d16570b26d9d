package domain

// CulvertRecord is one row of the culvert capacity table.
type CulvertRecord struct {
	BarrierID   string
	NAACCID     int
	Lat         float64
	Long        float64
	Capacity    float64 // Q, m^3/s
	Flags       int
	Comments    string
	CulvertArea float64 // cross-sectional area, m^2
}

// culvertCount maps the legacy Flags value onto a culvert count: 0 ("no
// flag") means a single culvert.
func culvertCount(flags int) int {
	if flags == 0 {
		return 1
	}
	return flags
}
