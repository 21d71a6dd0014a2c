package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/lucasb-eyer/go-colorful"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/climate-viz/internal/domain"
)

const (
	pngWidth  = 1024
	pngHeight = 512
)

// LinePNG renders a static version of LinePlot: the line, a dashed mean line
// and the extremes annotated with their Max/Min text. Infinite values are
// left out of the drawing and the y-range; a series with no finite value
// fails with domain.ErrEmptySeries.
func LinePNG(w io.Writer, s domain.Series[string], o LineOptions) error {
	ext, err := domain.Extremes(s)
	if err != nil {
		return fmt.Errorf("line png: %w", err)
	}
	o = o.withDefaults()

	n := float64(len(s))
	xs := make([]float64, 0, len(s))
	ys := make([]float64, 0, len(s))
	// The outer ticks pin the x-range to half a slot either side, which also
	// gives a single point a non-zero range.
	ticks := []gochart.Tick{{Value: -0.5}}
	for i, p := range s {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: p.Label})
		if !isFinite(p.Value) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, p.Value)
	}
	ticks = append(ticks, gochart.Tick{Value: n - 0.5})
	if len(xs) == 0 {
		return fmt.Errorf("line png: no finite values: %w", domain.ErrEmptySeries)
	}

	lineColor := hexColor(o.LineColor)
	lineStyle := gochart.Style{StrokeColor: lineColor, StrokeWidth: 2, DotColor: lineColor, DotWidth: 3}
	if len(xs) == 1 {
		// Nothing to stroke; make the lone dot stand out.
		lineStyle.DotWidth = 5
	}
	series := []gochart.Series{
		gochart.ContinuousSeries{Name: o.HoverText, XValues: xs, YValues: ys, Style: lineStyle},
	}

	mean := s.Mean()
	if isFinite(mean) {
		series = append(series, gochart.ContinuousSeries{
			Name:    MeanLabel(mean, o.Unit),
			XValues: []float64{-0.5, n - 0.5},
			YValues: []float64{mean, mean},
			Style:   gochart.Style{StrokeColor: hexColor(colorMean), StrokeWidth: 1, StrokeDashArray: []float64{4, 4}},
		})
	}

	colors := domain.Style(ext, o.MaxColor, o.MinColor)
	texts := domain.Style(ext, o.MaxText, o.MinText)
	positions := extremeIndices(s, ext)
	annotations := make([]gochart.Value2, 0, len(ext))
	for i, p := range ext {
		if !isFinite(p.Value) {
			continue
		}
		c := hexColor(colors[i])
		annotations = append(annotations, gochart.Value2{
			XValue: float64(positions[i]),
			YValue: p.Value,
			Label:  texts[i],
			Style:  gochart.Style{StrokeColor: c, FontColor: c},
		})
	}
	if len(annotations) > 0 {
		series = append(series, gochart.AnnotationSeries{Annotations: annotations})
	}

	minV, maxV := ys[0], ys[0]
	for _, v := range ys[1:] {
		minV, maxV = math.Min(minV, v), math.Max(maxV, v)
	}
	pad := (maxV - minV) * 0.1
	if pad == 0 {
		pad = 1
	}
	yRange := &gochart.ContinuousRange{Min: minV - pad, Max: maxV + pad}

	c := gochart.Chart{
		Title:  o.Title,
		Width:  pngWidth,
		Height: pngHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  o.XLabel,
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: n - 0.5},
		},
		YAxis: gochart.YAxis{
			Name:  axisTitle(o.YLabel, o.Unit),
			Range: yRange,
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return humanize.SIWithDigits(f, 1, "")
				}
				return fmt.Sprint(v)
			},
		},
		Series: series,
	}
	c.Elements = []gochart.Renderable{gochart.Legend(&c)}

	if err := c.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("line png: %w", err)
	}
	return nil
}

// extremeIndices maps each point of ext, an ordered subsequence of s, to its
// position in s.
func extremeIndices(s, ext domain.Series[string]) []int {
	out := make([]int, 0, len(ext))
	j := 0
	for i, p := range s {
		if j < len(ext) && p == ext[j] {
			out = append(out, i)
			j++
		}
	}
	return out
}

// hexColor parses "#rrggbb" or "#rgb", falling back to the default line color.
func hexColor(hex string) drawing.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(colorLine)
	}
	r, g, b := c.RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
