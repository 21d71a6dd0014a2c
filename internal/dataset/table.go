// Package dataset holds tabular climate data read from CSV files: a row index
// (years, months, run numbers, regions) against named numeric columns.
package dataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/couchcryptid/climate-viz/internal/domain"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownGroup  = errors.New("unknown group")
	ErrEmptyTable    = errors.New("table has no columns")
)

// Table is an index of row labels against named numeric columns.
type Table struct {
	Index   []string
	Columns []string
	values  [][]float64 // column-major
}

// NewTable builds a table from column-major values.
func NewTable(index, columns []string, values [][]float64) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyTable
	}
	if len(columns) != len(values) {
		return nil, fmt.Errorf("new table: %d columns, %d value columns", len(columns), len(values))
	}
	if len(lo.Uniq(columns)) != len(columns) {
		return nil, fmt.Errorf("new table: duplicate columns in %v", columns)
	}
	for i, col := range values {
		if len(col) != len(index) {
			return nil, fmt.Errorf("new table: column %q has %d values, index has %d", columns[i], len(col), len(index))
		}
	}
	return &Table{Index: index, Columns: columns, values: values}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Index) }

// Column returns one column as a series labeled by the index.
func (t *Table) Column(name string) (domain.Series[string], error) {
	i := lo.IndexOf(t.Columns, name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return domain.NewSeries(t.Index, t.values[i])
}

// Select returns a table restricted to the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	if len(names) == 0 {
		return t, nil
	}
	values := make([][]float64, len(names))
	for j, name := range names {
		i := lo.IndexOf(t.Columns, name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		values[j] = t.values[i]
	}
	return NewTable(t.Index, names, values)
}

// RowMeans averages each row across columns, skipping NaN.
func (t *Table) RowMeans() domain.Series[string] {
	s := make(domain.Series[string], len(t.Index))
	for r, label := range t.Index {
		row := make(domain.Series[string], len(t.Columns))
		for c := range t.Columns {
			row[c] = domain.Point[string]{Value: t.values[c][r]}
		}
		s[r] = domain.Point[string]{Label: label, Value: row.Mean()}
	}
	return s
}

// ColumnMeans averages each column, skipping NaN. The series is labeled by column name.
func (t *Table) ColumnMeans() domain.Series[string] {
	s := make(domain.Series[string], len(t.Columns))
	for c, name := range t.Columns {
		col, _ := domain.NewSeries(t.Index, t.values[c])
		s[c] = domain.Point[string]{Label: name, Value: col.Mean()}
	}
	return s
}

// Last returns the final row labeled by column name, or NaN values for an empty table.
func (t *Table) Last() domain.Series[string] {
	s := make(domain.Series[string], len(t.Columns))
	for c, name := range t.Columns {
		v := math.NaN()
		if n := len(t.values[c]); n > 0 {
			v = t.values[c][n-1]
		}
		s[c] = domain.Point[string]{Label: name, Value: v}
	}
	return s
}

// GroupedTable is a table with a two-level column header, such as
// period × month or phase × table kind.
type GroupedTable struct {
	Groups []string
	tables map[string]*Table
}

// Group returns the sub-table for one top-level header.
func (g *GroupedTable) Group(name string) (*Table, error) {
	t, ok := g.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return t, nil
}
