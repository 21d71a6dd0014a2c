// Package comparison plots repeated benchmark runs of two or more variants,
// one PNG per measured phase, with each variant's mean drawn as a dashed line.
package comparison

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/climate-viz/internal/dataset"
	"github.com/couchcryptid/climate-viz/internal/domain"
)

// PlotOptions configures one phase plot.
type PlotOptions struct {
	Group      string // top-level header to plot, e.g. "plan"
	Title      string // generated from the mean difference when empty
	Activity   string // used in the generated title, e.g. "planning"
	XLabel     string
	YLabel     string
	Unit       string
	Precision  int
	YMax       float64 // 0 fits the data
	Ticks      []float64
	Palette    []string
	MeanColors []string
	Width      vg.Length
	Height     vg.Length
}

var (
	// PlanningPreset matches query planning times in milliseconds.
	PlanningPreset = PlotOptions{
		Group:      "plan",
		Activity:   "planning query execution",
		XLabel:     "Run",
		YLabel:     "Planning time",
		Unit:       "ms",
		Precision:  2,
		YMax:       0.38,
		Ticks:      []float64{0, 0.15, 0.3},
		Palette:    []string{"#c0c0c0", "#00ff00"},
		MeanColors: []string{"#bbb", "#afa"},
	}

	// ExecutionPreset matches query execution times in milliseconds.
	ExecutionPreset = PlotOptions{
		Group:      "exec",
		Activity:   "executing the query",
		XLabel:     "Run",
		YLabel:     "Execution time",
		Unit:       "ms",
		Precision:  0,
		YMax:       19,
		Ticks:      []float64{0, 5, 10, 15},
		Palette:    []string{"#c0c0c0", "#00ff00"},
		MeanColors: []string{"#bbb", "#afa"},
	}
)

// Load reads a comparison CSV: two header rows (phase × variant) and one row per run.
func Load(r io.Reader) (*dataset.GroupedTable, error) {
	g, err := dataset.ReadGroupedTable(r)
	if err != nil {
		return nil, fmt.Errorf("load comparison: %w", err)
	}
	return g, nil
}

// LoadFile reads a comparison CSV file.
func LoadFile(path string) (*dataset.GroupedTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open comparison: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Title describes how much slower the second variant is than the first on
// average, e.g. "The partitioned table took on average 0.17ms longer planning query execution."
func Title(t *dataset.Table, o PlotOptions) string {
	means := t.ColumnMeans()
	if len(means) < 2 {
		return fmt.Sprintf("Average %s: %s", o.Activity, formatValue(means[0].Value, o))
	}
	base, other := means[0], means[1]
	diff := other.Value - base.Value
	verb := "longer"
	if diff < 0 {
		verb = "less"
	}
	return fmt.Sprintf("The %s table took on average %s %s %s.", other.Label, formatValue(math.Abs(diff), o), verb, o.Activity)
}

// Plot builds the phase plot for o.Group.
func Plot(g *dataset.GroupedTable, o PlotOptions) (*plot.Plot, error) {
	t, err := g.Group(o.Group)
	if err != nil {
		return nil, fmt.Errorf("comparison plot: %w", err)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("comparison plot %s: %w", o.Group, domain.ErrEmptySeries)
	}

	p := plot.New()
	p.Title.Text = o.Title
	if p.Title.Text == "" {
		p.Title.Text = Title(t, o)
	}
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	p.Y.Min = 0
	if o.YMax > 0 {
		p.Y.Max = o.YMax
	}
	if len(o.Ticks) > 0 {
		ticks := make([]plot.Tick, len(o.Ticks))
		for i, v := range o.Ticks {
			ticks[i] = plot.Tick{Value: v, Label: formatValue(v, o)}
		}
		p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	}
	p.Add(plotter.NewGrid())

	xs := runAxis(t.Index)
	lastX := xs[len(xs)-1]
	for i, name := range t.Columns {
		s, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("comparison plot: %w", err)
		}
		if err := addVariant(p, name, s, xs, lastX, pick(o.Palette, i), pick(o.MeanColors, i), o); err != nil {
			return nil, fmt.Errorf("comparison plot %s/%s: %w", o.Group, name, err)
		}
	}
	return p, nil
}

func addVariant(p *plot.Plot, name string, s domain.Series[string], xs []float64, lastX float64, lineColor, meanColor color.Color, o PlotOptions) error {
	pts := make(plotter.XYs, 0, len(s))
	for i, pt := range s {
		if math.IsNaN(pt.Value) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: pt.Value})
	}
	if len(pts) == 0 {
		return domain.ErrEmptySeries
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Color = lineColor
	line.LineStyle.Width = vg.Points(2)

	avg := s.Mean()
	meanLine, err := plotter.NewLine(plotter.XYs{{X: xs[0], Y: avg}, {X: lastX, Y: avg}})
	if err != nil {
		return err
	}
	meanLine.LineStyle.Color = meanColor
	meanLine.LineStyle.Width = vg.Points(1.5)
	meanLine.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	last := pts[len(pts)-1]
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: xs[0], Y: avg}, {X: last.X, Y: last.Y}},
		Labels: []string{avgLabel(avg), name + " table"},
	})
	if err != nil {
		return err
	}

	p.Add(line, meanLine, labels)
	return nil
}

// runAxis uses the run numbers from the index, or positions when they are not numeric.
func runAxis(index []string) []float64 {
	xs := make([]float64, len(index))
	for i, label := range index {
		v, err := strconv.ParseFloat(label, 64)
		if err != nil {
			for j := range xs {
				xs[j] = float64(j + 1)
			}
			return xs
		}
		xs[i] = v
	}
	return xs
}

// avgLabel annotates a mean line with three decimals, independent of the
// axis tick precision.
func avgLabel(avg float64) string {
	return fmt.Sprintf("avg: %.3f", avg)
}

func formatValue(v float64, o PlotOptions) string {
	return strconv.FormatFloat(v, 'f', o.Precision, 64) + o.Unit
}

func pick(colors []string, i int) color.Color {
	if len(colors) == 0 {
		return color.Black
	}
	c, err := colorful.Hex(colors[i%len(colors)])
	if err != nil {
		return color.Black
	}
	return c
}

// Save renders the phase plot as a PNG file.
func Save(g *dataset.GroupedTable, o PlotOptions, path string) error {
	p, err := Plot(g, o)
	if err != nil {
		return err
	}
	w, h := o.Width, o.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 4 * vg.Inch
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
