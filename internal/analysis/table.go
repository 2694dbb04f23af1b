package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind is the inferred element type of a column.
type Kind string

const (
	KindInt   Kind = "int"
	KindFloat Kind = "float"
	KindText  Kind = "text"
	KindBool  Kind = "bool"
)

// IsNumeric reports whether values of this kind are integers or floats.
func (k Kind) IsNumeric() bool { return k == KindInt || k == KindFloat }

// MissingTokens are the cell values read as null.
var MissingTokens = []string{
	"", "NA", "N/A", "NaN", "nan", "-NaN", "-nan", "null", "NULL", "None",
	"#N/A", "#NA", "<NA>", "n/a",
}

// Column is a named column with its inferred kind.
type Column struct {
	Name string
	Kind Kind
}

// Table is an in-memory dataset loaded from a delimited file. It is not
// mutated after load.
type Table struct {
	Name string
	df   dataframe.DataFrame
	cols []Column
}

// LoadError reports a failure to read or parse an input table.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load error"
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadTable reads a delimited file with a header row.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	t, err := ReadTable(f, filepath.Base(path), sniffDelimiter(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// ReadTable parses delimited records from r. A zero delim means ','.
// Cells are trimmed before type detection, and a header without data rows
// yields an empty table that keeps its columns.
func ReadTable(r io.Reader, name string, delim rune) (*Table, error) {
	if delim == 0 {
		delim = ','
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("parse table: missing header row")
	}
	for _, rec := range records {
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
	}

	var df dataframe.DataFrame
	if len(records) == 1 {
		df = emptyFrame(records[0])
	} else {
		types := normalizeColumns(records)
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(true),
			dataframe.NaNValues(MissingTokens),
			dataframe.WithTypes(types),
		)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("parse table: %w", df.Err)
	}
	names := df.Names()
	types := df.Types()
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Kind: kindOf(types[i])}
	}
	return &Table{Name: name, df: df, cols: cols}, nil
}

// emptyFrame builds a zero-row frame of text columns for a header-only file.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, h := range header {
		cols[i] = series.New([]string{}, series.String, h)
	}
	return dataframe.New(cols...)
}

// normalizeColumns rewrites boolean spellings (True, FALSE, ...) to the
// lowercase form the type detector accepts when a whole column uses them,
// and pins columns without any value to Float.
func normalizeColumns(records [][]string) map[string]series.Type {
	header := records[0]
	rows := records[1:]
	forced := make(map[string]series.Type)
	for j, name := range header {
		present, bools := 0, 0
		for _, rec := range rows {
			v := rec[j]
			if isMissing(v) {
				continue
			}
			present++
			if _, ok := boolSpellings[v]; ok {
				bools++
			}
		}
		switch {
		case present == 0:
			forced[name] = series.Float
		case bools == present:
			for _, rec := range rows {
				if b, ok := boolSpellings[rec[j]]; ok {
					rec[j] = b
				}
			}
		}
	}
	return forced
}

var boolSpellings = map[string]string{
	"true": "true", "True": "true", "TRUE": "true",
	"false": "false", "False": "false", "FALSE": "false",
}

func isMissing(v string) bool {
	for _, m := range MissingTokens {
		if v == m {
			return true
		}
	}
	return false
}

func kindOf(t series.Type) Kind {
	switch t {
	case series.Int:
		return KindInt
	case series.Float:
		return KindFloat
	case series.Bool:
		return KindBool
	default:
		return KindText
	}
}

// Columns returns the columns in header order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Names returns the column names in header order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

func (t *Table) NumRows() int { return t.df.Nrow() }
func (t *Table) NumColumns() int { return len(t.cols) }

// Kind returns the kind of the named column.
func (t *Table) Kind(name string) (Kind, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return "", false
}

// Floats returns the column as float64 values with NaN for nulls.
func (t *Table) Floats(name string) []float64 {
	return t.df.Col(name).Float()
}

// Missing returns a per-row null mask for the column.
func (t *Table) Missing(name string) []bool {
	return t.df.Col(name).IsNaN()
}

// Values returns the non-null cells of the column as strings, in row order.
func (t *Table) Values(name string) []string {
	s := t.df.Col(name)
	recs := s.Records()
	mask := s.IsNaN()
	out := make([]string, 0, len(recs))
	for i, v := range recs {
		if mask[i] {
			continue
		}
		out = append(out, v)
	}
	return out
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	// Default to comma; filename heuristic only, the file is read once.
	return ','
}
