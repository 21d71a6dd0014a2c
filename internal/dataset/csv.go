package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-viz/internal/domain"
)

// ReadTable reads a CSV with one header row. The first column is the row
// index; every other column must hold numbers or missing markers.
func ReadTable(r io.Reader) (*Table, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("read table: missing header row")
	}
	header := records[0]
	if len(header) < 2 {
		return nil, ErrEmptyTable
	}
	columns := trimAll(header[1:])
	index, values, err := parseRows(records[1:], columns)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return NewTable(index, columns, values)
}

// ReadGroupedTable reads a CSV with a two-row column header. Blank cells in
// the first header row repeat the group to their left. A third row holding
// only the index name, as written by pandas, is skipped.
func ReadGroupedTable(r io.Reader) (*GroupedTable, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("read grouped table: need two header rows")
	}
	top, sub := trimAll(records[0][1:]), trimAll(records[1][1:])
	if len(top) == 0 {
		return nil, ErrEmptyTable
	}
	for i := range top {
		if top[i] == "" && i > 0 {
			top[i] = top[i-1]
		}
	}

	rows := records[2:]
	if len(rows) > 0 && isIndexNameRow(rows[0], records[0][0], records[1][0]) {
		rows = rows[1:]
	}

	keys := make([]string, len(top))
	for i := range top {
		keys[i] = top[i] + "/" + sub[i]
	}
	index, values, err := parseRows(rows, keys)
	if err != nil {
		return nil, fmt.Errorf("read grouped table: %w", err)
	}

	g := &GroupedTable{tables: make(map[string]*Table)}
	cols := make(map[string][]string)
	vals := make(map[string][][]float64)
	for i, group := range top {
		if _, seen := cols[group]; !seen {
			g.Groups = append(g.Groups, group)
		}
		cols[group] = append(cols[group], sub[i])
		vals[group] = append(vals[group], values[i])
	}
	for _, group := range g.Groups {
		t, err := NewTable(index, cols[group], vals[group])
		if err != nil {
			return nil, fmt.Errorf("read grouped table: group %q: %w", group, err)
		}
		g.tables[group] = t
	}
	return g, nil
}

// LoadTable reads a single-header CSV file.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadGroupedTable reads a two-header CSV file.
func LoadGroupedTable(path string) (*GroupedTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	g, err := ReadGroupedTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

// parseRows returns the index column and column-major values.
func parseRows(rows [][]string, columns []string) ([]string, [][]float64, error) {
	index := make([]string, 0, len(rows))
	values := make([][]float64, len(columns))
	for i := range values {
		values[i] = make([]float64, 0, len(rows))
	}
	for _, row := range rows {
		label := strings.TrimSpace(row[0])
		index = append(index, label)
		for c, col := range columns {
			v, err := domain.ParseValue(label+"/"+col, row[c+1])
			if err != nil {
				return nil, nil, err
			}
			values[c] = append(values[c], v)
		}
	}
	return index, values, nil
}

// isIndexNameRow reports whether row is the index-name row pandas writes
// under a two-row header: a label with no values. When the header rows name
// the index, the label must match that name; otherwise it must not be a
// number, so an all-missing data row such as "1,,," is kept.
func isIndexNameRow(row []string, headerNames ...string) bool {
	label := strings.TrimSpace(row[0])
	if label == "" {
		return false
	}
	for _, cell := range row[1:] {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	named := false
	for _, name := range headerNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == label {
			return true
		}
		named = true
	}
	if named {
		return false
	}
	_, err := strconv.ParseFloat(label, 64)
	return err != nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
