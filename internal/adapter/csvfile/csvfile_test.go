package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/culvert-return-periods/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	runoffCSV = "BarrierID,Area_sqkm,Tc_hr,CN,Y1,Y2,Y5,Y10,Y25,Y50,Y100,Y200,Y500\n" +
		"10cmb,1.25,0.4,71.5,1,2,5,10,25,50,100,200,500\n" +
		"11cmb,0.3,bad,70,1,2,5,10,25,50,100,200,500\n" +
		"12cmb,2,0.9,80,0.5,0.9,1.6,2.2,3.1,3.9,4.8,5.8,7.4\n" +
		"end of export\n"

	culvertCSV = "BarrierID,NAACC_ID,Lat,Long,Q,Flags,Comments,Culvert_Area\n" +
		"10cmb,4021,42.45,-76.5,7,0,\"Outlet perched, scour\",0.8\n" +
		"12cmb,4022,42.46,-76.49,3.1,2,twin pipes,1.2\n" +
		"13cmb,x,42.47,-76.48,1,0,,0.3\n" +
		"end of export\n"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSource_Watersheds(t *testing.T) {
	src := NewSource(1, 1, discardLogger())

	records, rejected, err := src.Watersheds(context.Background(), writeTemp(t, "runoff.csv", runoffCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, rejected)
	require.Len(t, records, 2)

	expected := domain.WatershedRecord{
		BarrierID:   "10cmb",
		AreaSqKm:    1.25,
		TcHours:     0.4,
		CurveNumber: 71.5,
		Peaks:       domain.Discharges{1, 2, 5, 10, 25, 50, 100, 200, 500},
	}
	if diff := cmp.Diff(expected, records[0]); diff != "" {
		t.Fatalf("watershed mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "12cmb", records[1].BarrierID)
	assert.InDelta(t, 7.4, records[1].Peaks[8], 1e-9)
}

func TestSource_Culverts(t *testing.T) {
	src := NewSource(1, 1, discardLogger())

	records, rejected, err := src.Culverts(context.Background(), writeTemp(t, "capacity.csv", culvertCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, rejected)
	require.Len(t, records, 2)

	expected := domain.CulvertRecord{
		BarrierID:   "10cmb",
		NAACCID:     4021,
		Lat:         42.45,
		Long:        -76.5,
		Capacity:    7,
		Flags:       0,
		Comments:    "Outlet perched, scour",
		CulvertArea: 0.8,
	}
	if diff := cmp.Diff(expected, records[0]); diff != "" {
		t.Fatalf("culvert mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, records[1].Flags)
}

func TestSource_Culverts_InchMarkInComments(t *testing.T) {
	src := NewSource(1, 1, discardLogger())
	table := "BarrierID,NAACC_ID,Lat,Long,Q,Flags,Comments,Culvert_Area\n" +
		"10cmb,4021,42.45,-76.5,3.2,0,ok,0.8\n" +
		"11cmb,4022,42.46,-76.49,1.1,0,24\" CMP rusted,0.3\n" +
		"12cmb,4023,42.47,-76.48,5,0,fine,1.1\n" +
		"end of export\n"

	records, rejected, err := src.Culverts(context.Background(), writeTemp(t, "capacity.csv", table))
	require.NoError(t, err)
	assert.Zero(t, rejected)
	require.Len(t, records, 3)
	assert.Equal(t, `24" CMP rusted`, records[1].Comments)
	assert.Equal(t, "12cmb", records[2].BarrierID)
}

func TestSource_MissingFile(t *testing.T) {
	src := NewSource(1, 1, discardLogger())
	_, _, err := src.Culverts(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load culverts")
}

func TestWatershedSignature(t *testing.T) {
	require.Len(t, WatershedSignature, 13)
	assert.Equal(t, "BarrierID", WatershedSignature[0].Name)
	assert.Equal(t, "Y1", WatershedSignature[4].Name)
	assert.Equal(t, "Y500", WatershedSignature[12].Name)
}

func testAssessments() []domain.Assessment {
	return []domain.Assessment{
		{
			Position: 0,
			Culvert: domain.CulvertRecord{
				BarrierID: "10cmb", NAACCID: 4021, Lat: 42.45, Long: -76.5,
				Capacity: 7, Flags: 0, Comments: "Outlet perched, scour", CulvertArea: 0.8,
			},
			Matched:       true,
			CurrentReturn: 5,
			FutureReturn:  2,
			Watershed:     domain.WatershedRecord{BarrierID: "10cmb", AreaSqKm: 1.25, TcHours: 0.4, CurveNumber: 71.5},
			CulvertCount:  1,
		},
		{
			Position: 1,
			Culvert:  domain.CulvertRecord{BarrierID: "99cmb", Capacity: 1},
		},
		{
			Position: 2,
			Culvert: domain.CulvertRecord{
				BarrierID: "12cmb", NAACCID: 4022, Lat: 42.46, Long: -76.49,
				Capacity: 3.1, Flags: 3, Comments: "twin pipes", CulvertArea: 1.2,
			},
			Matched:       true,
			CurrentReturn: 25,
			FutureReturn:  0,
			Watershed:     domain.WatershedRecord{BarrierID: "12cmb", AreaSqKm: 2, TcHours: 0.9, CurveNumber: 80},
			CulvertCount:  3,
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestEncodeSummary(t *testing.T) {
	var buf bytes.Buffer
	n, err := EncodeSummary(&buf, testAssessments())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expected := [][]string{
		{"BarrierID", "Current Max Return (yr)", "Future Max Return (yr)"},
		{"10cmb", "5", "2"},
		{"12cmb", "25", "0"},
	}
	if diff := cmp.Diff(expected, readCSV(t, buf.Bytes())); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDetail(t *testing.T) {
	var buf bytes.Buffer
	n, err := EncodeDetail(&buf, testAssessments())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expected := [][]string{
		DetailHeader,
		{"10cmb", "4021", "42.45", "-76.5", "?", "?", "?", "5", "2", "7", "0.8", "1.25", "0.4", "71.5", "1", "Outlet perched, scour"},
		{"12cmb", "4022", "42.46", "-76.49", "?", "?", "?", "25", "0", "3.1", "1.2", "2", "0.9", "80", "3", "twin pipes"},
	}
	if diff := cmp.Diff(expected, readCSV(t, buf.Bytes())); diff != "" {
		t.Fatalf("detail mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_HeaderOnlyWhenNothingMatched(t *testing.T) {
	var buf bytes.Buffer
	n, err := EncodeSummary(&buf, []domain.Assessment{{Culvert: domain.CulvertRecord{BarrierID: "x"}}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, [][]string{SummaryHeader}, readCSV(t, buf.Bytes()))
}

func TestReportWriter_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewReportWriter()

	summaryPath := filepath.Join(dir, "return_periods.csv")
	n, err := w.WriteSummary(summaryPath, testAssessments())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	detailPath := filepath.Join(dir, "culvert_results.csv")
	n, err = w.WriteDetail(detailPath, testAssessments())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Len(t, readCSV(t, summary), 3)

	detail, err := os.ReadFile(detailPath)
	require.NoError(t, err)
	rows := readCSV(t, detail)
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 16)
}

func TestReportWriter_CreateFails(t *testing.T) {
	w := NewReportWriter()
	_, err := w.WriteSummary(filepath.Join(t.TempDir(), "missing-dir", "out.csv"), testAssessments())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create report")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "7", formatFloat(7))
	assert.Equal(t, "0.1", formatFloat(0.1))
	assert.Equal(t, "-76.49", formatFloat(-76.49))
	assert.Equal(t, "1234567.891", formatFloat(1234567.891))
}
