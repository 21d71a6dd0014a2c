package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/climate-viz/internal/domain"
)

// LineOptions configures LinePlot and LinePNG.
type LineOptions struct {
	PageOptions

	LineColor string
	MaxColor  string
	MinColor  string
	MaxText   string
	MinText   string
	HoverText string // series name shown in the tooltip
	Title     string
	Unit      string
	XLabel    string
	YLabel    string
}

func (o LineOptions) withDefaults() LineOptions {
	o.LineColor = orDefault(o.LineColor, colorLine)
	o.MaxColor = orDefault(o.MaxColor, colorMax)
	o.MinColor = orDefault(o.MinColor, colorMin)
	o.MaxText = orDefault(o.MaxText, "Max")
	o.MinText = orDefault(o.MinText, "Min")
	o.HoverText = orDefault(o.HoverText, orDefault(o.YLabel, "value"))
	return o
}

// LinePlot draws s as a line with markers, highlights its extremes and marks
// the series mean. It fails with domain.ErrEmptySeries when s has no values.
func LinePlot(s domain.Series[string], o LineOptions) (*charts.Line, error) {
	ext, err := domain.Extremes(s)
	if err != nil {
		return nil, fmt.Errorf("line plot: %w", err)
	}
	o = o.withDefaults()

	line := charts.NewLine()
	line.SetGlobalOptions(append(figureOpts(o.PageOptions, o.Title, ""), cartesianOpts(o.XLabel, o.YLabel, o.Unit)...)...)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: o.LineColor, Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: o.LineColor}),
	}
	if mean := s.Mean(); isFinite(mean) {
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  MeanLabel(mean, o.Unit),
				YAxis: chartValue(mean),
			}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol:    []string{"none", "none"},
				LineStyle: &opts.LineStyle{Color: colorMean, Type: "dotted", Width: 1},
				Label:     &opts.Label{Show: opts.Bool(true), Position: "insideEndTop", Color: colorMean, Formatter: "{b}"},
			}),
		)
	}
	line.SetXAxis(s.Labels()).AddSeries(o.HoverText, lineData(s), seriesOpts...)

	line.Overlap(extremesOverlay(ext, o))
	return line, nil
}

// MeanLabel formats the mean line annotation, e.g. "Mean (24.3°C)".
func MeanLabel(mean float64, unit string) string {
	return fmt.Sprintf("Mean (%.1f%s)", mean, unit)
}

// markerGroup is a set of extremes sharing one style.
type markerGroup struct {
	color    string
	text     string
	position string
	points   []opts.ScatterData
}

// extremesOverlay draws the extremes as labeled markers. Each visual channel
// is styled by its own Style call over the same extremes, so the channels
// line up index by index.
func extremesOverlay(ext domain.Series[string], o LineOptions) *charts.Scatter {
	colors := domain.Style(ext, o.MaxColor, o.MinColor)
	texts := domain.Style(ext, o.MaxText, o.MinText)
	positions := domain.Style(ext, "top", "bottom")

	var groups []*markerGroup
	byKey := make(map[[3]string]*markerGroup)
	for i, p := range ext {
		key := [3]string{colors[i], texts[i], positions[i]}
		g, ok := byKey[key]
		if !ok {
			g = &markerGroup{color: colors[i], text: texts[i], position: positions[i]}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.points = append(g.points, opts.ScatterData{
			Name:       p.Label,
			Value:      []any{p.Label, chartValue(p.Value)},
			Symbol:     "diamond",
			SymbolSize: 12,
		})
	}

	scatter := charts.NewScatter()
	for _, g := range groups {
		scatter.AddSeries(g.text, g.points,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: g.color}),
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Position:  g.position,
				Color:     g.color,
				Formatter: "{a}",
			}),
		)
	}
	return scatter
}
