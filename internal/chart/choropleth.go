package chart

import (
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/climate-viz/internal/domain"
	"github.com/couchcryptid/climate-viz/internal/geo"
)

// ErrNoBoundaries is returned when a map is requested without region boundaries.
var ErrNoBoundaries = errors.New("no boundaries")

var defaultColorScale = []string{"#f7fbff", "#6baed6", "#08306b"}

// MapOptions configures ChoroplethMap.
type MapOptions struct {
	PageOptions

	ColorScale []string
	Title      string
	Unit       string
	SeriesName string
	// ScriptSrc is where the page loads the boundary registration script
	// from. Defaults to the boundaries' script name, relative to the page.
	ScriptSrc string
}

// ChoroplethMap shades each region of b by the value of the point with the
// same label. Missing values are left unshaded.
func ChoroplethMap(s domain.Series[string], b *geo.Boundaries, o MapOptions) (*charts.Map, error) {
	if b == nil {
		return nil, fmt.Errorf("choropleth map: %w", ErrNoBoundaries)
	}
	minV, maxV, ok := s.Bounds()
	if !ok {
		return nil, fmt.Errorf("choropleth map: %w", domain.ErrEmptySeries)
	}
	scale := o.ColorScale
	if len(scale) == 0 {
		scale = defaultColorScale
	}

	m := charts.NewMap()
	m.RegisterMapType(b.MapName())
	m.AddCustomizedJSAssets(orDefault(o.ScriptSrc, b.ScriptName()))

	subtitle := ""
	if o.Unit != "" {
		subtitle = "Unit: " + o.Unit
	}
	m.SetGlobalOptions(append(figureOpts(o.PageOptions, o.Title, subtitle),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(minV),
			Max:        float32(maxV),
			InRange:    &opts.VisualMapInRange{Color: scale},
		}),
	)...)

	present := s.Present()
	data := make([]opts.MapData, len(present))
	for i, p := range present {
		data[i] = opts.MapData{Name: p.Label, Value: chartValue(p.Value)}
	}
	m.AddSeries(orDefault(o.SeriesName, orDefault(o.Title, b.MapName())), data)
	return m, nil
}
