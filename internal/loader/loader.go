// Package loader reads delimited tables against a declared column signature.
// Rows whose fields cannot be coerced to the declared types are returned
// separately instead of failing the whole load.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Kind is the declared type of a column.
type Kind int

const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column declares one positional column of a table.
type Column struct {
	Name string
	Kind Kind
}

// Signature is the ordered list of columns a table is expected to have.
// Columns are matched by position; extra trailing fields are ignored.
type Signature []Column

// ErrFieldCount is returned for rows with fewer fields than the signature.
var ErrFieldCount = errors.New("too few fields")

// Row is a validated row. Values are stored by column name with the Go type
// matching the column's Kind: string, int or float64.
type Row struct {
	Line   int
	values map[string]any
}

// String returns a String column's value, or "" if absent.
func (r Row) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

// Int returns an Int column's value, or 0 if absent.
func (r Row) Int(name string) int {
	v, _ := r.values[name].(int)
	return v
}

// Float returns a Float column's value, or 0 if absent.
func (r Row) Float(name string) float64 {
	v, _ := r.values[name].(float64)
	return v
}

// InvalidRow is a row that failed validation, with the reason.
type InvalidRow struct {
	Line   int
	Fields []string
	Err    error
}

// Result splits a table into valid and invalid rows, both in file order.
type Result struct {
	Valid   []Row
	Invalid []InvalidRow
}

// Load opens filename and reads it with Read.
func Load(filename string, sig Signature, headerSkip, footerSkip int) (Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	res, err := Read(f, sig, headerSkip, footerSkip)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", filename, err)
	}
	return res, nil
}

// Read parses comma-separated records from r, drops headerSkip leading and
// footerSkip trailing records, and validates the rest against sig.
// Line numbers are 1-based record positions in the input.
//
// Quotes inside unquoted fields are accepted as literal characters. A record
// the CSV reader cannot parse becomes an InvalidRow; only I/O errors fail the
// read.
func Read(r io.Reader, sig Signature, headerSkip, footerSkip int) (Result, error) {
	if headerSkip < 0 || footerSkip < 0 {
		return Result{}, fmt.Errorf("negative skip: header=%d footer=%d", headerSkip, footerSkip)
	}

	records, err := readRecords(r)
	if err != nil {
		return Result{}, err
	}

	end := len(records) - footerSkip
	if headerSkip >= end {
		return Result{}, nil
	}

	var res Result
	for i := headerSkip; i < end; i++ {
		line := i + 1
		rec := records[i]
		if rec.err != nil {
			res.Invalid = append(res.Invalid, InvalidRow{Line: line, Fields: rec.fields, Err: rec.err})
			continue
		}
		row, err := coerce(sig, rec.fields)
		if err != nil {
			res.Invalid = append(res.Invalid, InvalidRow{Line: line, Fields: rec.fields, Err: err})
			continue
		}
		row.Line = line
		res.Valid = append(res.Valid, row)
	}
	return res, nil
}

// record is one raw CSV record, or the parse error that replaced it.
type record struct {
	fields []string
	err    error
}

func readRecords(r io.Reader) ([]record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records []record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			records = append(records, record{fields: fields, err: perr})
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record{fields: fields})
	}
}

func coerce(sig Signature, fields []string) (Row, error) {
	if len(fields) < len(sig) {
		return Row{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), len(sig))
	}

	values := make(map[string]any, len(sig))
	for i, col := range sig {
		v, err := parseField(col.Kind, fields[i])
		if err != nil {
			return Row{}, fmt.Errorf("column %s: %w", col.Name, err)
		}
		values[col.Name] = v
	}
	return Row{values: values}, nil
}

// parseField converts a raw field to the column kind. Strings are kept
// verbatim; numbers tolerate surrounding whitespace.
func parseField(kind Kind, raw string) (any, error) {
	switch kind {
	case String:
		return raw, nil
	case Int:
		return strconv.Atoi(strings.TrimSpace(raw))
	case Float:
		return strconv.ParseFloat(strings.TrimSpace(raw), 64)
	default:
		return nil, fmt.Errorf("unsupported column kind %s", kind)
	}
}
