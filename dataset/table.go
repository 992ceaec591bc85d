// Package dataset loads and prepares the tabular passenger data: CSV
// parsing with missing-value sentinels, imputation, categorical encoding and
// design-matrix construction from a formula.
package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// ColumnType distinguishes numeric from categorical columns.
type ColumnType int

const (
	Numeric ColumnType = iota
	Categorical
)

// Column is a single named column. Numeric columns store math.NaN for
// missing cells; categorical columns store "" for missing cells.
type Column struct {
	Name    string
	Type    ColumnType
	Numeric []float64
	Labels  []string
}

// Missing reports whether row i of the column is a missing value.
func (c *Column) Missing(i int) bool {
	if c.Type == Numeric {
		return math.IsNaN(c.Numeric[i])
	}
	return c.Labels[i] == ""
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Type == Numeric {
		return len(c.Numeric)
	}
	return len(c.Labels)
}

// Table is a column-oriented tabular dataset.
type Table struct {
	cols   []*Column
	byName map[string]*Column
	nRows  int
}

// NewTable builds a table from columns. All columns must share one length.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{byName: make(map[string]*Column, len(cols))}
	for _, c := range cols {
		if len(t.cols) > 0 && c.Len() != t.nRows {
			return nil, errors.NewDimensionError("NewTable", t.nRows, c.Len(), 0)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, errors.NewValueError("NewTable", "duplicate column "+c.Name)
		}
		t.nRows = c.Len()
		t.cols = append(t.cols, c)
		t.byName[c.Name] = c
	}
	return t, nil
}

// Col returns the named column, or nil if absent.
func (t *Table) Col(name string) *Column {
	return t.byName[name]
}

// Names returns column names in file order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.nRows
}

// LoadOptions configure CSV parsing.
type LoadOptions struct {
	// NAValues are cell tokens treated as missing. Defaults to
	// {"", "NA", "?"} when nil.
	NAValues []string

	// Categorical forces the named columns to be parsed as categorical even
	// when every value looks numeric (e.g. Pclass, Survived).
	Categorical []string
}

var defaultNAValues = []string{"", "NA", "?"}

// LoadCSV reads a headered CSV file into a Table. A column is numeric when
// every non-missing cell parses as a float and it is not forced categorical.
func LoadCSV(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if len(records) < 1 {
		return nil, errors.Wrap(errors.ErrEmptyData, path)
	}

	na := opts.NAValues
	if na == nil {
		na = defaultNAValues
	}
	isNA := make(map[string]bool, len(na))
	for _, v := range na {
		isNA[v] = true
	}
	forced := make(map[string]bool, len(opts.Categorical))
	for _, name := range opts.Categorical {
		forced[name] = true
	}

	header := records[0]
	rows := records[1:]
	cols := make([]*Column, len(header))

	for j, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		cols[j] = buildColumn(name, raw, isNA, forced[name])
	}
	return NewTable(cols...)
}

func buildColumn(name string, raw []string, isNA map[string]bool, forceCat bool) *Column {
	numeric := !forceCat
	if numeric {
		for _, v := range raw {
			if isNA[v] {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
				break
			}
		}
	}

	if numeric {
		vals := make([]float64, len(raw))
		for i, v := range raw {
			if isNA[v] {
				vals[i] = math.NaN()
				continue
			}
			vals[i], _ = strconv.ParseFloat(v, 64)
		}
		return &Column{Name: name, Type: Numeric, Numeric: vals}
	}

	labels := make([]string, len(raw))
	for i, v := range raw {
		if isNA[v] {
			labels[i] = ""
			continue
		}
		labels[i] = v
	}
	return &Column{Name: name, Type: Categorical, Labels: labels}
}
