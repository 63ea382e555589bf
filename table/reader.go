package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/geoknn"
	"github.com/hupe1980/geoknn/model"
)

// Schema names the columns of a node table.
type Schema struct {
	IDColumn  string
	LonColumn string
	LatColumn string
	// FilterColumn is the attribute whose absence drops a row.
	// Empty disables filtering.
	FilterColumn string
}

// DefaultSchema matches the freight node tables this tool was built for.
var DefaultSchema = Schema{
	IDColumn:     "FRANODEID",
	LonColumn:    "x",
	LatColumn:    "y",
	FilterColumn: "PASSNGR",
}

func (s Schema) validate() error {
	if s.IDColumn == "" || s.LonColumn == "" || s.LatColumn == "" {
		return fmt.Errorf("%w: schema needs id, lon and lat columns", geoknn.ErrInvalidInput)
	}
	return nil
}

// FilterReport summarizes a ReadNodes pass.
type FilterReport struct {
	// Rows is the number of data rows read, header excluded.
	Rows int
	// Kept is the number of rows that became nodes.
	Kept int
	// Dropped holds the 0-based data row numbers removed by the filter.
	Dropped *roaring.Bitmap
}

// DroppedCount returns the number of filtered rows.
func (r *FilterReport) DroppedCount() int {
	return int(r.Dropped.GetCardinality())
}

// nullTokens are the cell values pandas reads as missing.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNull reports whether a cell value counts as missing.
func IsNull(v string) bool {
	_, ok := nullTokens[strings.TrimSpace(v)]
	return ok
}

// ReadNodes reads a CSV node table with a header row and returns the rows
// that carry a filter attribute, in input order.
//
// Missing columns, malformed CSV, and unparseable or non-finite coordinates
// on kept rows fail with an error matching geoknn.ErrInvalidInput.
func ReadNodes(r io.Reader, schema Schema) (model.NodeSet, *FilterReport, error) {
	if err := schema.validate(); err != nil {
		return nil, nil, err
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: node table has no header", geoknn.ErrInvalidInput)
		}
		return nil, nil, wrapCSVError(err)
	}

	cols, err := resolveColumns(header, schema)
	if err != nil {
		return nil, nil, err
	}

	report := &FilterReport{Dropped: roaring.New()}
	var nodes model.NodeSet

	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, wrapCSVError(err)
		}
		report.Rows++

		if cols.filter >= 0 && IsNull(rec[cols.filter]) {
			if uint64(row) > math.MaxUint32 {
				return nil, nil, fmt.Errorf("%w: node table has more than %d rows", geoknn.ErrInvalidInput, uint64(math.MaxUint32)+1)
			}
			report.Dropped.Add(uint32(row))
			continue
		}

		lon, err := parseCoord(rec[cols.lon], schema.LonColumn, row)
		if err != nil {
			return nil, nil, err
		}
		lat, err := parseCoord(rec[cols.lat], schema.LatColumn, row)
		if err != nil {
			return nil, nil, err
		}

		nodes = append(nodes, model.NewNode(NormalizeID(rec[cols.id]), lon, lat))
	}

	report.Kept = len(nodes)
	return nodes, report, nil
}

type columns struct {
	id, lon, lat, filter int
}

func resolveColumns(header []string, schema Schema) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}

	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return -1, fmt.Errorf("%w: node table has no column %q", geoknn.ErrInvalidInput, name)
		}
		return i, nil
	}

	var (
		cols columns
		err  error
	)
	if cols.id, err = lookup(schema.IDColumn); err != nil {
		return cols, err
	}
	if cols.lon, err = lookup(schema.LonColumn); err != nil {
		return cols, err
	}
	if cols.lat, err = lookup(schema.LatColumn); err != nil {
		return cols, err
	}
	cols.filter = -1
	if schema.FilterColumn != "" {
		if cols.filter, err = lookup(schema.FilterColumn); err != nil {
			return cols, err
		}
	}
	return cols, nil
}

func parseCoord(v, column string, row int) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d column %q: %q is not a number", geoknn.ErrInvalidInput, row, column, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: row %d column %q: %q is not finite", geoknn.ErrInvalidInput, row, column, v)
	}
	return f, nil
}

// NormalizeID trims v and rewrites integral floats such as "12.0" (how
// pandas writes an integer column that once held NaN) to "12".
func NormalizeID(v string) string {
	v = strings.TrimSpace(v)
	whole, frac, ok := strings.Cut(v, ".")
	if !ok || whole == "" || strings.Trim(frac, "0") != "" {
		return v
	}
	if _, err := strconv.ParseInt(whole, 10, 64); err != nil {
		return v
	}
	return whole
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %w", geoknn.ErrInvalidInput, err)
	}
	return err
}
