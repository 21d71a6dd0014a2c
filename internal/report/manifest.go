// Package report renders the charts described by a YAML manifest.
package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/couchcryptid/climate-viz/internal/geo"
)

// Chart kinds.
const (
	KindLine    = "line"
	KindBar     = "bar"
	KindMap     = "map"
	KindClimate = "climate"
)

// Series reductions for line and map charts.
const (
	ReduceRowMean    = "row_mean"
	ReduceColumnMean = "column_mean"
)

// Manifest describes a report: its input data and the charts to render.
type Manifest struct {
	Title      string                 `mapstructure:"title"`
	OutputDir  string                 `mapstructure:"output_dir"`
	AssetsHost string                 `mapstructure:"assets_host"`
	Boundaries *BoundarySpec          `mapstructure:"boundaries"`
	Datasets   map[string]DatasetSpec `mapstructure:"datasets"`
	Charts     []ChartSpec            `mapstructure:"charts"`
}

// BoundarySpec points at the GeoJSON used by map charts.
type BoundarySpec struct {
	Path         string `mapstructure:"path"`
	MapName      string `mapstructure:"map_name"`
	FeatureIDKey string `mapstructure:"feature_id_key"`
}

// DatasetSpec points at a CSV file. HeaderRows is 1 for plain tables and 2
// for grouped tables such as period × month.
type DatasetSpec struct {
	Path       string `mapstructure:"path"`
	HeaderRows int    `mapstructure:"header_rows"`
}

// ChartSpec describes one chart. Which fields apply depends on Kind.
type ChartSpec struct {
	Name    string   `mapstructure:"name"`
	Kind    string   `mapstructure:"kind"`
	Dataset string   `mapstructure:"dataset"`
	Column  string   `mapstructure:"column"`
	Columns []string `mapstructure:"columns"`
	Reduce  string   `mapstructure:"reduce"`

	Title       string `mapstructure:"title"`
	Unit        string `mapstructure:"unit"`
	XLabel      string `mapstructure:"x_label"`
	YLabel      string `mapstructure:"y_label"`
	HoverText   string `mapstructure:"hover_text"`
	LegendTitle string `mapstructure:"legend_title"`

	LineColor  string   `mapstructure:"line_color"`
	MaxColor   string   `mapstructure:"max_color"`
	MinColor   string   `mapstructure:"min_color"`
	Colors     []string `mapstructure:"colors"`
	ColorScale []string `mapstructure:"color_scale"`

	Precipitation string   `mapstructure:"precipitation"`
	Temperature   string   `mapstructure:"temperature"`
	Periods       []string `mapstructure:"periods"`

	PNG bool `mapstructure:"png"`
}

// LoadManifest reads a YAML manifest. Relative paths are resolved against
// the manifest's directory. Dataset names are case-insensitive.
func LoadManifest(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("output_dir", "out")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := v.Unmarshal(&m, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.ErrorUnused = true
	}); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	m.resolve(filepath.Dir(path))
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	m.OutputDir = abs(m.OutputDir)
	if m.Boundaries != nil {
		m.Boundaries.Path = abs(m.Boundaries.Path)
		if m.Boundaries.MapName == "" {
			m.Boundaries.MapName = "regions"
		}
		if m.Boundaries.FeatureIDKey == "" {
			m.Boundaries.FeatureIDKey = geo.DefaultFeatureIDKey
		}
	}
	datasets := make(map[string]DatasetSpec, len(m.Datasets))
	for name, ds := range m.Datasets {
		ds.Path = abs(ds.Path)
		if ds.HeaderRows == 0 {
			ds.HeaderRows = 1
		}
		datasets[strings.ToLower(name)] = ds
	}
	m.Datasets = datasets
	for i := range m.Charts {
		c := &m.Charts[i]
		c.Kind = strings.ToLower(c.Kind)
		c.Dataset = strings.ToLower(c.Dataset)
		c.Precipitation = strings.ToLower(c.Precipitation)
		c.Temperature = strings.ToLower(c.Temperature)
	}
}

// Validate checks chart names, kinds and dataset references.
func (m *Manifest) Validate() error {
	var errs []error
	for name, ds := range m.Datasets {
		if ds.Path == "" {
			errs = append(errs, fmt.Errorf("dataset %q: path is required", name))
		}
		if ds.HeaderRows != 1 && ds.HeaderRows != 2 {
			errs = append(errs, fmt.Errorf("dataset %q: header_rows must be 1 or 2", name))
		}
	}
	if m.Boundaries != nil && m.Boundaries.Path == "" {
		errs = append(errs, errors.New("boundaries: path is required"))
	}

	seen := make(map[string]bool, len(m.Charts))
	for i, c := range m.Charts {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("chart %d: name is required", i))
			continue
		}
		if strings.ContainsAny(c.Name, `/\ `) {
			errs = append(errs, fmt.Errorf("chart %q: name must not contain slashes or spaces", c.Name))
		}
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("chart %q: duplicate name", c.Name))
		}
		seen[c.Name] = true
		errs = append(errs, m.validateChart(c)...)
	}
	return errors.Join(errs...)
}

func (m *Manifest) validateChart(c ChartSpec) []error {
	var errs []error
	requireDataset := func(name string, headerRows int) {
		ds, ok := m.Datasets[name]
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("chart %q: dataset is required", c.Name))
		case !ok:
			errs = append(errs, fmt.Errorf("chart %q: unknown dataset %q", c.Name, name))
		case ds.HeaderRows != headerRows:
			errs = append(errs, fmt.Errorf("chart %q: dataset %q must have %d header rows", c.Name, name, headerRows))
		}
	}

	switch c.Kind {
	case KindLine, KindMap:
		requireDataset(c.Dataset, 1)
		switch c.Reduce {
		case "":
			if c.Column == "" {
				errs = append(errs, fmt.Errorf("chart %q: column or reduce is required", c.Name))
			}
		case ReduceRowMean, ReduceColumnMean:
		default:
			errs = append(errs, fmt.Errorf("chart %q: unknown reduce %q", c.Name, c.Reduce))
		}
		if c.Kind == KindMap && m.Boundaries == nil {
			errs = append(errs, fmt.Errorf("chart %q: map charts need boundaries", c.Name))
		}
	case KindBar:
		requireDataset(c.Dataset, 1)
	case KindClimate:
		requireDataset(c.Precipitation, 2)
		requireDataset(c.Temperature, 2)
	default:
		errs = append(errs, fmt.Errorf("chart %q: unknown kind %q", c.Name, c.Kind))
	}
	return errs
}
