// Package chart assembles interactive climate charts with go-echarts and
// static PNG renditions with go-chart.
package chart

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/climate-viz/internal/domain"
)

const (
	colorBackground = "#ffffff"
	colorTitle      = "#444444"
	colorSubtitle   = "#777777"
	colorAxis       = "#666666"
	colorMean       = "#aaaaaa"
	colorLine       = "#1f77b4"
	colorMax        = "#d62728"
	colorMin        = "#1f77b4"

	defaultWidth  = "900px"
	defaultHeight = "500px"
)

// PageOptions sets the page size and where chart assets are loaded from.
// An empty AssetsHost keeps the go-echarts CDN default.
type PageOptions struct {
	Width      string
	Height     string
	AssetsHost string
}

func initOpts(p PageOptions, pageTitle string) opts.Initialization {
	init := opts.Initialization{
		PageTitle:       pageTitle,
		Width:           defaultWidth,
		Height:          defaultHeight,
		BackgroundColor: colorBackground,
	}
	if p.Width != "" {
		init.Width = p.Width
	}
	if p.Height != "" {
		init.Height = p.Height
	}
	if p.AssetsHost != "" {
		init.AssetsHost = p.AssetsHost
	}
	return init
}

// figureOpts applies the look shared by every chart.
func figureOpts(p PageOptions, title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts(p, title)),
		charts.WithTitleOpts(opts.Title{
			Title:         title,
			Subtitle:      subtitle,
			Left:          "10%",
			TitleStyle:    &opts.TextStyle{Color: colorTitle, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorSubtitle},
		}),
	}
}

// cartesianOpts adds axes, an axis-wide tooltip and the legend.
func cartesianOpts(xLabel, yLabel, unit string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xLabel,
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorAxis},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      axisTitle(yLabel, unit),
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorAxis},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorAxis, Opacity: opts.Float(0.15)}},
		}),
	}
}

func axisTitle(label, unit string) string {
	switch {
	case unit == "":
		return label
	case label == "":
		return unit
	default:
		return label + " (" + unit + ")"
	}
}

// chartValue converts a value for JSON output; missing and infinite values become gaps.
func chartValue(v float64) any {
	if !isFinite(v) {
		return nil
	}
	return math.Round(v*1e4) / 1e4
}

func lineData(s domain.Series[string]) []opts.LineData {
	data := make([]opts.LineData, len(s))
	for i, p := range s {
		data[i] = opts.LineData{Name: p.Label, Value: chartValue(p.Value)}
	}
	return data
}

func barData(s domain.Series[string]) []opts.BarData {
	data := make([]opts.BarData, len(s))
	for i, p := range s {
		data[i] = opts.BarData{Name: p.Label, Value: chartValue(p.Value)}
	}
	return data
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
