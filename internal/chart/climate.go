package chart

import (
	"fmt"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/climate-viz/internal/dataset"
	"github.com/couchcryptid/climate-viz/internal/domain"
)

// DefaultPeriods are the WMO climate normal periods compared by ClimatePlot.
var DefaultPeriods = []string{"1961-1990", "1991-2020"}

const (
	colorPrecip = "#6baed6"
	colorTemp   = "#e6550d"
)

// ClimateOptions configures ClimatePlot.
type ClimateOptions struct {
	PageOptions

	Periods     []string
	Title       string
	PrecipColor string
	TempColor   string
}

// Climatology is the per-period monthly means shown in one climate chart.
type Climatology struct {
	Period        string
	Precipitation domain.Series[string]
	Temperature   domain.Series[string]
}

// Climatologies averages each period group of precip and temp by column,
// giving one value per month.
func Climatologies(precip, temp *dataset.GroupedTable, periods []string) ([]Climatology, error) {
	if len(periods) == 0 {
		periods = DefaultPeriods
	}
	out := make([]Climatology, 0, len(periods))
	for _, period := range periods {
		p, err := precip.Group(period)
		if err != nil {
			return nil, fmt.Errorf("precipitation: %w", err)
		}
		t, err := temp.Group(period)
		if err != nil {
			return nil, fmt.Errorf("temperature: %w", err)
		}
		pm, tm := p.ColumnMeans(), t.ColumnMeans()
		if !slices.Equal(pm.Labels(), tm.Labels()) {
			return nil, fmt.Errorf("period %s: precipitation months %v do not match temperature months %v", period, pm.Labels(), tm.Labels())
		}
		out = append(out, Climatology{Period: period, Precipitation: pm, Temperature: tm})
	}
	return out, nil
}

// ClimatePlot draws, for each period, monthly mean precipitation as bars and
// monthly mean temperature as a line on a secondary axis.
func ClimatePlot(precip, temp *dataset.GroupedTable, o ClimateOptions) (*components.Page, error) {
	if precip == nil || temp == nil {
		return nil, fmt.Errorf("climate plot: %w", dataset.ErrEmptyTable)
	}
	climatologies, err := Climatologies(precip, temp, o.Periods)
	if err != nil {
		return nil, fmt.Errorf("climate plot: %w", err)
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = orDefault(o.Title, "Climate")
	if o.AssetsHost != "" {
		page.AssetsHost = o.AssetsHost
	}

	for _, c := range climatologies {
		if _, _, ok := c.Precipitation.Bounds(); !ok {
			return nil, fmt.Errorf("climate plot: period %s: %w", c.Period, domain.ErrEmptySeries)
		}
		page.AddCharts(climateChart(c, o))
	}
	return page, nil
}

func climateChart(c Climatology, o ClimateOptions) *charts.Bar {
	title := c.Period
	if o.Title != "" {
		title = o.Title + " (" + c.Period + ")"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(figureOpts(o.PageOptions, title, ""), cartesianOpts("Month", "Precipitation", "mm")...)...)
	bar.ExtendYAxis(opts.YAxis{
		Name:      "Temperature (°C)",
		Scale:     opts.Bool(true),
		AxisLabel: &opts.AxisLabel{Color: colorAxis},
	})

	months := c.Precipitation.Labels()
	bar.SetXAxis(months).AddSeries("Precipitation", barData(c.Precipitation),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: orDefault(o.PrecipColor, colorPrecip)}))

	line := charts.NewLine()
	line.SetXAxis(months).AddSeries("Temperature", lineData(c.Temperature),
		charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1, ShowSymbol: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: orDefault(o.TempColor, colorTemp), Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: orDefault(o.TempColor, colorTemp)}),
	)
	bar.Overlap(line)
	return bar
}
