package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/culvert-return-periods/internal/domain"
)

// relocationPlaceholder fills the point-relocation columns, which are not computed.
const relocationPlaceholder = "?"

// SummaryHeader is the header row of the return-period summary report.
var SummaryHeader = []string{"BarrierID", "Current Max Return (yr)", "Future Max Return (yr)"}

// DetailHeader is the header row of the combined culvert and watershed report.
var DetailHeader = []string{
	"BarrierID",
	"NAACC_ID",
	"Original Latitude",
	"Original Longitude",
	"Point Moved",
	"New Latitude",
	"New Longitude",
	"Current Max Return Period (yr)",
	"Future Max Return Period (yr)",
	"Capacity (m^3/s)",
	"Cross sectional Area (m^2)",
	"WS Area (sq km)",
	"Tc (hr)",
	"CN",
	"Number of Culverts",
	"Comments",
}

// ReportWriter writes the summary and detail reports to files.
type ReportWriter struct{}

// NewReportWriter creates a ReportWriter.
func NewReportWriter() *ReportWriter { return &ReportWriter{} }

// WriteSummary writes the summary report to path and returns the number of
// data rows written.
func (*ReportWriter) WriteSummary(path string, assessments []domain.Assessment) (int, error) {
	var n int
	err := writeFile(path, func(w io.Writer) error {
		var err error
		n, err = EncodeSummary(w, assessments)
		return err
	})
	return n, err
}

// WriteDetail writes the detail report to path and returns the number of
// data rows written.
func (*ReportWriter) WriteDetail(path string, assessments []domain.Assessment) (int, error) {
	var n int
	err := writeFile(path, func(w io.Writer) error {
		var err error
		n, err = EncodeDetail(w, assessments)
		return err
	})
	return n, err
}

// EncodeSummary writes one row per matched assessment, in input order.
// Unmatched assessments are omitted.
func EncodeSummary(w io.Writer, assessments []domain.Assessment) (int, error) {
	return encode(w, SummaryHeader, assessments, func(a domain.Assessment) []string {
		return []string{
			a.Culvert.BarrierID,
			formatReturn(a.CurrentReturn),
			formatReturn(a.FutureReturn),
		}
	})
}

// EncodeDetail writes one row per matched assessment with the culvert's
// attributes and its current-scenario watershed. Unmatched assessments are
// omitted.
func EncodeDetail(w io.Writer, assessments []domain.Assessment) (int, error) {
	return encode(w, DetailHeader, assessments, func(a domain.Assessment) []string {
		c := a.Culvert
		ws := a.Watershed
		return []string{
			c.BarrierID,
			strconv.Itoa(c.NAACCID),
			formatFloat(c.Lat),
			formatFloat(c.Long),
			relocationPlaceholder,
			relocationPlaceholder,
			relocationPlaceholder,
			formatReturn(a.CurrentReturn),
			formatReturn(a.FutureReturn),
			formatFloat(c.Capacity),
			formatFloat(c.CulvertArea),
			formatFloat(ws.AreaSqKm),
			formatFloat(ws.TcHours),
			formatFloat(ws.CurveNumber),
			strconv.Itoa(a.CulvertCount),
			c.Comments,
		}
	})
}

// encode writes the header and one record per matched assessment. Rows
// written before a failure are flushed.
func encode(w io.Writer, header []string, assessments []domain.Assessment, row func(domain.Assessment) []string) (int, error) {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return 0, err
	}
	n := 0
	for _, a := range assessments {
		if !a.Matched {
			continue
		}
		if err := cw.Write(row(a)); err != nil {
			return n, err
		}
		n++
	}
	cw.Flush()
	return n, cw.Error()
}

// writeFile creates path, runs fn and closes the file on every exit path.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report %s: %w", path, cerr)
		}
	}()

	if err := fn(f); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func formatReturn(rp domain.ReturnPeriod) string {
	return strconv.Itoa(int(rp))
}

// formatFloat renders the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
