package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/climate-viz/internal/dataset"
	"github.com/couchcryptid/climate-viz/internal/domain"
)

// BarOptions configures ComparativeBar.
type BarOptions struct {
	PageOptions

	Colors      []string // applied to columns in order, cycling
	Title       string
	LegendTitle string
	Unit        string
	XLabel      string
	YLabel      string
}

// ComparativeBar draws one bar series per table column, grouped by the table index.
func ComparativeBar(t *dataset.Table, o BarOptions) (*charts.Bar, error) {
	if t == nil || len(t.Columns) == 0 {
		return nil, fmt.Errorf("comparative bar: %w", dataset.ErrEmptyTable)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("comparative bar: %w", domain.ErrEmptySeries)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(figureOpts(o.PageOptions, o.Title, o.LegendTitle), cartesianOpts(o.XLabel, o.YLabel, o.Unit)...)...)
	bar.SetXAxis(t.Index)

	for i, name := range t.Columns {
		s, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("comparative bar: %w", err)
		}
		var seriesOpts []charts.SeriesOpts
		if len(o.Colors) > 0 {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: o.Colors[i%len(o.Colors)]}))
		}
		bar.AddSeries(name, barData(s), seriesOpts...)
	}
	return bar, nil
}
