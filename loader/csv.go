package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
)

// CSVOptions configures CSV reading and writing.
type CSVOptions struct {
	// Comma is the field delimiter. Default: ','.
	Comma rune
	// Comment, if not 0, marks lines to ignore when reading.
	Comment rune
	// Columns names the record fields. When reading records and Columns is
	// empty, the first row supplies the names. When writing records it
	// fixes the column order; otherwise the first record's keys are used.
	Columns []string
	// Header writes a header row of column names before the records.
	Header bool
	// SkipEmptyLines drops rows whose fields are all empty.
	SkipEmptyLines bool
	// TrimSpace trims leading and trailing space from every field.
	TrimSpace bool
	// LazyQuotes tolerates quotes in unquoted fields.
	LazyQuotes bool
	// RelaxColumnCount allows rows with differing field counts.
	RelaxColumnCount bool
	// UseCRLF ends written lines with \r\n.
	UseCRLF bool
}

func (o CSVOptions) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// LoadCSV reads a CSV file and returns its rows as field slices.
// On a suppressed error it returns nil.
func LoadCSV(path string, csvOpts CSVOptions, opts ...Option) ([][]string, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	rows, err := cfg.loadCSV(path, csvOpts)
	if err != nil {
		return nil, cfg.suppress("load csv", path, err)
	}
	return rows, nil
}

// LoadCSVRecords reads a CSV file in header mode: each row after the column
// names becomes an ordered map from column name to field. The column names
// come from csvOpts.Columns or, when that is empty, from the first row.
// On a suppressed error it returns nil.
func LoadCSVRecords(path string, csvOpts CSVOptions, opts ...Option) ([]*document.Map, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	records, err := cfg.loadCSVRecords(path, csvOpts)
	if err != nil {
		return nil, cfg.suppress("load csv", path, err)
	}
	return records, nil
}

func (cfg *config) loadCSV(path string, csvOpts CSVOptions) ([][]string, error) {
	abs, data, err := cfg.read(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(abs, data)
	if err != nil {
		return nil, err
	}
	return ParseCSV(abs, text, csvOpts)
}

func (cfg *config) loadCSVRecords(path string, csvOpts CSVOptions) ([]*document.Map, error) {
	rows, err := cfg.loadCSV(path, csvOpts)
	if err != nil {
		return nil, err
	}
	return RowsToRecords(path, rows, csvOpts.Columns)
}

// ParseCSV parses CSV text. source names the input in errors.
func ParseCSV(source, text string, csvOpts CSVOptions) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = csvOpts.comma()
	r.Comment = csvOpts.Comment
	r.LazyQuotes = csvOpts.LazyQuotes
	r.TrimLeadingSpace = csvOpts.TrimSpace
	if csvOpts.RelaxColumnCount {
		r.FieldsPerRecord = -1
	}

	rows, err := r.ReadAll()
	if err != nil {
		pe := &dferrors.ParseError{Path: source, Format: "csv", Cause: err}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			pe.Line, pe.Column = csvErr.Line, csvErr.Column
			pe.Cause = csvErr.Err
		}
		return nil, pe
	}

	out := rows[:0]
	for _, row := range rows {
		if csvOpts.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
		}
		if csvOpts.SkipEmptyLines && isEmptyRow(row) {
			continue
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func isEmptyRow(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}

// RowsToRecords turns rows into ordered maps keyed by column name. When
// columns is empty the first row names the columns. Missing trailing fields
// become ""; a row with more fields than columns is an error.
func RowsToRecords(source string, rows [][]string, columns []string) ([]*document.Map, error) {
	if len(columns) == 0 {
		if len(rows) == 0 {
			return nil, nil
		}
		columns, rows = rows[0], rows[1:]
	}

	records := make([]*document.Map, 0, len(rows))
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, &dferrors.ParseError{
				Path:    source,
				Format:  "csv",
				Message: fmt.Sprintf("record %d has %d fields but only %d columns are named", i+1, len(row), len(columns)),
			}
		}
		rec := document.NewMapWithCapacity(len(columns))
		for j, col := range columns {
			field := ""
			if j < len(row) {
				field = row[j]
			}
			rec.Set(col, field)
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveCSV writes records to path as CSV. records may be [][]string or a
// slice of maps ([]*document.Map or []map[string]any); map fields are
// formatted with fmt.Sprint and nil becomes "".
func SaveCSV(path string, records any, csvOpts CSVOptions, opts ...Option) error {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return err
	}
	err = func() error {
		data, err := EncodeCSV(records, csvOpts)
		if err != nil {
			return &dferrors.ParseError{Path: path, Format: "csv", Message: "cannot encode records", Cause: err}
		}
		return cfg.saveBytes(path, data)
	}()
	return cfg.suppress("save csv", path, err)
}

// EncodeCSV renders records as CSV text. See SaveCSV for accepted types.
func EncodeCSV(records any, csvOpts CSVOptions) ([]byte, error) {
	rows, err := recordsToRows(records, csvOpts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = csvOpts.comma()
	w.UseCRLF = csvOpts.UseCRLF
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordsToRows(records any, csvOpts CSVOptions) ([][]string, error) {
	switch t := records.(type) {
	case nil:
		return nil, nil
	case [][]string:
		if csvOpts.Header && len(csvOpts.Columns) > 0 {
			return append([][]string{csvOpts.Columns}, t...), nil
		}
		return t, nil
	case []*document.Map:
		return mapsToRows(t, csvOpts)
	case []map[string]any:
		maps := make([]*document.Map, len(t))
		for i, m := range t {
			maps[i] = document.FromPlain(m).(*document.Map)
		}
		return mapsToRows(maps, csvOpts)
	case []any:
		maps := make([]*document.Map, 0, len(t))
		for i, item := range t {
			m, ok := document.FromPlain(item).(*document.Map)
			if !ok {
				return nil, fmt.Errorf("record %d is %T, expected a mapping", i+1, item)
			}
			maps = append(maps, m)
		}
		return mapsToRows(maps, csvOpts)
	default:
		return nil, fmt.Errorf("unsupported CSV records type %T", records)
	}
}

func mapsToRows(maps []*document.Map, csvOpts CSVOptions) ([][]string, error) {
	columns := csvOpts.Columns
	if len(columns) == 0 && len(maps) > 0 {
		columns = maps[0].Keys()
	}

	rows := make([][]string, 0, len(maps)+1)
	if csvOpts.Header {
		rows = append(rows, columns)
	}
	for i, m := range maps {
		row := make([]string, len(columns))
		for j, col := range columns {
			v, _ := m.Get(col)
			if !document.IsScalar(v) {
				return nil, fmt.Errorf("record %d field %q is not a scalar", i+1, col)
			}
			if v != nil {
				row[j] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
