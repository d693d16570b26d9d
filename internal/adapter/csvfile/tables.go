// Package csvfile reads runoff and culvert tables and writes the return-period
// reports as CSV files.
package csvfile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/culvert-return-periods/internal/domain"
	"github.com/couchcryptid/culvert-return-periods/internal/loader"
)

// WatershedSignature is the column layout of a runoff table.
var WatershedSignature = func() loader.Signature {
	sig := loader.Signature{
		{Name: "BarrierID", Kind: loader.String},
		{Name: "Area_sqkm", Kind: loader.Float},
		{Name: "Tc_hr", Kind: loader.Float},
		{Name: "CN", Kind: loader.Float},
	}
	for _, rp := range domain.DesignStorms {
		sig = append(sig, loader.Column{Name: rp.Column(), Kind: loader.Float})
	}
	return sig
}()

// CulvertSignature is the column layout of the culvert capacity table.
var CulvertSignature = loader.Signature{
	{Name: "BarrierID", Kind: loader.String},
	{Name: "NAACC_ID", Kind: loader.Int},
	{Name: "Lat", Kind: loader.Float},
	{Name: "Long", Kind: loader.Float},
	{Name: "Q", Kind: loader.Float},
	{Name: "Flags", Kind: loader.Int},
	{Name: "Comments", Kind: loader.String},
	{Name: "Culvert_Area", Kind: loader.Float},
}

// Source loads domain records from CSV files, skipping a fixed number of
// header and footer rows in every table.
type Source struct {
	headerRows int
	footerRows int
	logger     *slog.Logger
}

// NewSource creates a Source with the given header and footer row counts.
func NewSource(headerRows, footerRows int, logger *slog.Logger) *Source {
	return &Source{headerRows: headerRows, footerRows: footerRows, logger: logger}
}

// Watersheds loads a runoff table. It returns the valid records in file
// order and the number of rejected rows.
func (s *Source) Watersheds(_ context.Context, path string) ([]domain.WatershedRecord, int, error) {
	res, err := loader.Load(path, WatershedSignature, s.headerRows, s.footerRows)
	if err != nil {
		return nil, 0, fmt.Errorf("load watersheds: %w", err)
	}
	s.logInvalid(path, res.Invalid)

	records := make([]domain.WatershedRecord, len(res.Valid))
	for i, row := range res.Valid {
		records[i] = watershedFromRow(row)
	}
	return records, len(res.Invalid), nil
}

// Culverts loads a culvert capacity table. It returns the valid records in
// file order and the number of rejected rows.
func (s *Source) Culverts(_ context.Context, path string) ([]domain.CulvertRecord, int, error) {
	res, err := loader.Load(path, CulvertSignature, s.headerRows, s.footerRows)
	if err != nil {
		return nil, 0, fmt.Errorf("load culverts: %w", err)
	}
	s.logInvalid(path, res.Invalid)

	records := make([]domain.CulvertRecord, len(res.Valid))
	for i, row := range res.Valid {
		records[i] = culvertFromRow(row)
	}
	return records, len(res.Invalid), nil
}

func (s *Source) logInvalid(path string, invalid []loader.InvalidRow) {
	for _, row := range invalid {
		s.logger.Debug("rejected row", "file", path, "line", row.Line, "error", row.Err)
	}
}

func watershedFromRow(row loader.Row) domain.WatershedRecord {
	w := domain.WatershedRecord{
		BarrierID:   row.String("BarrierID"),
		AreaSqKm:    row.Float("Area_sqkm"),
		TcHours:     row.Float("Tc_hr"),
		CurveNumber: row.Float("CN"),
	}
	for i, rp := range domain.DesignStorms {
		w.Peaks[i] = row.Float(rp.Column())
	}
	return w
}

func culvertFromRow(row loader.Row) domain.CulvertRecord {
	return domain.CulvertRecord{
		BarrierID:   row.String("BarrierID"),
		NAACCID:     row.Int("NAACC_ID"),
		Lat:         row.Float("Lat"),
		Long:        row.Float("Long"),
		Capacity:    row.Float("Q"),
		Flags:       row.Int("Flags"),
		Comments:    row.String("Comments"),
		CulvertArea: row.Float("Culvert_Area"),
	}
}
