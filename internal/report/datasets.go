package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/climate-viz/internal/dataset"
	"github.com/couchcryptid/climate-viz/internal/geo"
)

// ErrUnknownDataset is returned for a dataset name the manifest does not define.
var ErrUnknownDataset = errors.New("unknown dataset")

// Datasets holds every table named by a manifest, loaded once and shared read-only.
type Datasets struct {
	tables  map[string]*dataset.Table
	grouped map[string]*dataset.GroupedTable
}

// NewDatasets wraps already loaded tables.
func NewDatasets(tables map[string]*dataset.Table, grouped map[string]*dataset.GroupedTable) *Datasets {
	d := &Datasets{
		tables:  make(map[string]*dataset.Table, len(tables)),
		grouped: make(map[string]*dataset.GroupedTable, len(grouped)),
	}
	for name, t := range tables {
		d.tables[strings.ToLower(name)] = t
	}
	for name, g := range grouped {
		d.grouped[strings.ToLower(name)] = g
	}
	return d
}

// LoadDatasets reads every dataset in m.
func LoadDatasets(m *Manifest) (*Datasets, error) {
	tables := make(map[string]*dataset.Table)
	grouped := make(map[string]*dataset.GroupedTable)
	for name, ds := range m.Datasets {
		switch ds.HeaderRows {
		case 2:
			g, err := dataset.LoadGroupedTable(ds.Path)
			if err != nil {
				return nil, fmt.Errorf("dataset %q: %w", name, err)
			}
			grouped[name] = g
		default:
			t, err := dataset.LoadTable(ds.Path)
			if err != nil {
				return nil, fmt.Errorf("dataset %q: %w", name, err)
			}
			tables[name] = t
		}
	}
	return NewDatasets(tables, grouped), nil
}

// LoadBoundaries reads the manifest's boundaries, or returns nil when it has none.
func LoadBoundaries(m *Manifest) (*geo.Boundaries, error) {
	if m.Boundaries == nil {
		return nil, nil
	}
	return geo.Load(m.Boundaries.Path, m.Boundaries.MapName, m.Boundaries.FeatureIDKey)
}

// Table returns a single-header dataset.
func (d *Datasets) Table(name string) (*dataset.Table, error) {
	t, ok := d.tables[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return t, nil
}

// Grouped returns a two-header dataset.
func (d *Datasets) Grouped(name string) (*dataset.GroupedTable, error) {
	g, ok := d.grouped[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return g, nil
}

// TableNames lists the single-header datasets, sorted.
func (d *Datasets) TableNames() []string {
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
