package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/climate-viz/internal/chart"
	"github.com/couchcryptid/climate-viz/internal/domain"
	"github.com/couchcryptid/climate-viz/internal/geo"
)

// Rendered is one chart page plus the files it references.
type Rendered struct {
	Name     string
	Kind     string
	Title    string
	HTML     []byte
	Assets   map[string][]byte // file name → content, stored next to the page
	Extremes []domain.ExtremeReport
}

// PageFile is the page's file name.
func (r Rendered) PageFile() string { return r.Name + ".html" }

// Builder renders chart specs against loaded datasets. Boundaries may be nil
// when the report has no maps.
type Builder struct {
	data       *Datasets
	boundaries *geo.Boundaries
	page       chart.PageOptions
	logger     *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(data *Datasets, boundaries *geo.Boundaries, page chart.PageOptions, logger *slog.Logger) *Builder {
	return &Builder{data: data, boundaries: boundaries, page: page, logger: logger}
}

// Render builds and renders one chart.
func (b *Builder) Render(_ context.Context, spec ChartSpec) (Rendered, error) {
	out := Rendered{Name: spec.Name, Kind: spec.Kind, Title: spec.Title, Assets: map[string][]byte{}}

	var (
		r   chart.Renderer
		err error
	)
	switch spec.Kind {
	case KindLine:
		r, err = b.line(spec, &out)
	case KindBar:
		r, err = b.bar(spec, &out)
	case KindMap:
		r, err = b.choropleth(spec, &out)
	case KindClimate:
		r, err = b.climate(spec, &out)
	default:
		err = fmt.Errorf("unknown kind %q", spec.Kind)
	}
	if err != nil {
		return Rendered{}, fmt.Errorf("chart %s: %w", spec.Name, err)
	}

	out.HTML, err = chart.RenderHTML(r)
	if err != nil {
		return Rendered{}, fmt.Errorf("chart %s: %w", spec.Name, err)
	}
	return out, nil
}

// Explore renders an ad-hoc line plot of one dataset column.
func (b *Builder) Explore(_ context.Context, datasetName, column string) ([]byte, error) {
	t, err := b.data.Table(datasetName)
	if err != nil {
		return nil, err
	}
	s, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	line, err := chart.LinePlot(s, chart.LineOptions{
		PageOptions: b.page,
		Title:       datasetName + ": " + column,
		HoverText:   column,
		YLabel:      column,
	})
	if err != nil {
		return nil, err
	}
	return chart.RenderHTML(line)
}

func (b *Builder) series(spec ChartSpec) (domain.Series[string], string, error) {
	t, err := b.data.Table(spec.Dataset)
	if err != nil {
		return nil, "", err
	}
	if len(spec.Columns) > 0 {
		if t, err = t.Select(spec.Columns...); err != nil {
			return nil, "", err
		}
	}
	switch spec.Reduce {
	case ReduceRowMean:
		return t.RowMeans(), "mean", nil
	case ReduceColumnMean:
		return t.ColumnMeans(), "mean", nil
	default:
		s, err := t.Column(spec.Column)
		return s, spec.Column, err
	}
}

func (b *Builder) summarize(spec ChartSpec, name, unit string, s domain.Series[string], out *Rendered) error {
	r, err := domain.Summarize(spec.Name, name, unit, s)
	if err != nil {
		return err
	}
	out.Extremes = append(out.Extremes, r)
	return nil
}

func (b *Builder) lineOptions(spec ChartSpec) chart.LineOptions {
	return chart.LineOptions{
		PageOptions: b.page,
		LineColor:   spec.LineColor,
		MaxColor:    spec.MaxColor,
		MinColor:    spec.MinColor,
		HoverText:   spec.HoverText,
		Title:       spec.Title,
		Unit:        spec.Unit,
		XLabel:      spec.XLabel,
		YLabel:      spec.YLabel,
	}
}

func (b *Builder) line(spec ChartSpec, out *Rendered) (chart.Renderer, error) {
	s, name, err := b.series(spec)
	if err != nil {
		return nil, err
	}
	o := b.lineOptions(spec)
	line, err := chart.LinePlot(s, o)
	if err != nil {
		return nil, err
	}
	if spec.PNG {
		var png bytes.Buffer
		if err := chart.LinePNG(&png, s, o); err != nil {
			return nil, err
		}
		out.Assets[spec.Name+".png"] = png.Bytes()
	}
	return line, b.summarize(spec, name, spec.Unit, s, out)
}

func (b *Builder) bar(spec ChartSpec, out *Rendered) (chart.Renderer, error) {
	t, err := b.data.Table(spec.Dataset)
	if err != nil {
		return nil, err
	}
	if t, err = t.Select(spec.Columns...); err != nil {
		return nil, err
	}
	bar, err := chart.ComparativeBar(t, chart.BarOptions{
		PageOptions: b.page,
		Colors:      spec.Colors,
		Title:       spec.Title,
		LegendTitle: spec.LegendTitle,
		Unit:        spec.Unit,
		XLabel:      spec.XLabel,
		YLabel:      spec.YLabel,
	})
	if err != nil {
		return nil, err
	}
	for _, col := range t.Columns {
		s, _ := t.Column(col)
		if err := b.summarize(spec, col, spec.Unit, s, out); err != nil {
			b.logger.Warn("no extremes for column", "chart", spec.Name, "column", col, "error", err)
		}
	}
	return bar, nil
}

func (b *Builder) choropleth(spec ChartSpec, out *Rendered) (chart.Renderer, error) {
	if b.boundaries == nil {
		return nil, chart.ErrNoBoundaries
	}
	s, name, err := b.series(spec)
	if err != nil {
		return nil, err
	}
	if missing := b.boundaries.Missing(s.Present().Labels()); len(missing) > 0 {
		b.logger.Warn("regions not found in boundaries", "chart", spec.Name, "regions", missing)
	}
	m, err := chart.ChoroplethMap(s, b.boundaries, chart.MapOptions{
		PageOptions: b.page,
		ColorScale:  spec.ColorScale,
		Title:       spec.Title,
		Unit:        spec.Unit,
		SeriesName:  spec.HoverText,
	})
	if err != nil {
		return nil, err
	}
	script, err := b.boundaries.Script()
	if err != nil {
		return nil, err
	}
	out.Assets[b.boundaries.ScriptName()] = script
	return m, b.summarize(spec, name, spec.Unit, s, out)
}

func (b *Builder) climate(spec ChartSpec, out *Rendered) (chart.Renderer, error) {
	precip, err := b.data.Grouped(spec.Precipitation)
	if err != nil {
		return nil, err
	}
	temp, err := b.data.Grouped(spec.Temperature)
	if err != nil {
		return nil, err
	}
	page, err := chart.ClimatePlot(precip, temp, chart.ClimateOptions{
		PageOptions: b.page,
		Periods:     spec.Periods,
		Title:       spec.Title,
	})
	if err != nil {
		return nil, err
	}
	climatologies, err := chart.Climatologies(precip, temp, spec.Periods)
	if err != nil {
		return nil, err
	}
	for _, c := range climatologies {
		if err := b.summarize(spec, "precipitation "+c.Period, "mm", c.Precipitation, out); err != nil {
			return nil, err
		}
		if err := b.summarize(spec, "temperature "+c.Period, "°C", c.Temperature, out); err != nil {
			b.logger.Warn("no temperature extremes", "chart", spec.Name, "period", c.Period, "error", err)
		}
	}
	return page, nil
}
