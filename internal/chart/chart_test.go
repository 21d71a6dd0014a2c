package chart_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-viz/internal/chart"
	"github.com/couchcryptid/climate-viz/internal/dataset"
	"github.com/couchcryptid/climate-viz/internal/domain"
	"github.com/couchcryptid/climate-viz/internal/geo"
)

const kenyaGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name_1":"Nairobi"},"geometry":{"type":"Point","coordinates":[36.8,-1.3]}},
 {"type":"Feature","properties":{"name_1":"Mombasa"},"geometry":{"type":"Point","coordinates":[39.7,-4.0]}}]}`

func monthly() domain.Series[string] {
	return domain.Series[string]{{"Jan", 10}, {"Feb", 30}, {"Mar", 5}, {"Apr", 30}}
}

func render(t *testing.T, r chart.Renderer) string {
	t.Helper()
	html, err := chart.RenderHTML(r)
	require.NoError(t, err)
	return string(html)
}

func TestLinePlot(t *testing.T) {
	line, err := chart.LinePlot(monthly(), chart.LineOptions{
		Title:     "Monthly rainfall",
		Unit:      "mm",
		XLabel:    "Month",
		YLabel:    "Rainfall",
		HoverText: "Rainfall",
		MaxColor:  "#ff0000",
		MinColor:  "#0000ff",
	})
	require.NoError(t, err)

	html := render(t, line)
	assert.Contains(t, html, "Monthly rainfall")
	assert.Contains(t, html, `"Max"`)
	assert.Contains(t, html, `"Min"`)
	assert.Contains(t, html, "Mean (18.8mm)")
	assert.Contains(t, html, "Rainfall (mm)")
	assert.Contains(t, html, "#ff0000")
	assert.Contains(t, html, "#0000ff")
}

func TestLinePlot_Empty(t *testing.T) {
	_, err := chart.LinePlot(domain.Series[string]{}, chart.LineOptions{})
	require.ErrorIs(t, err, domain.ErrEmptySeries)

	_, err = chart.LinePlot(domain.Series[string]{{"Jan", math.NaN()}}, chart.LineOptions{})
	require.ErrorIs(t, err, domain.ErrEmptySeries)
}

func TestLinePlot_MissingValues(t *testing.T) {
	s := domain.Series[string]{{"Jan", 10}, {"Feb", math.NaN()}, {"Mar", 12}}
	line, err := chart.LinePlot(s, chart.LineOptions{Title: "gaps"})
	require.NoError(t, err)
	assert.NotContains(t, render(t, line), "NaN")
}

func TestMeanLabel(t *testing.T) {
	assert.Equal(t, "Mean (24.3°C)", chart.MeanLabel(24.26, "°C"))
	assert.Equal(t, "Mean (5.0)", chart.MeanLabel(5, ""))
}

func TestComparativeBar(t *testing.T) {
	tbl, err := dataset.ReadTable(strings.NewReader("year,Nairobi,Mombasa\n1991,820,1100\n1992,790,990\n"))
	require.NoError(t, err)

	bar, err := chart.ComparativeBar(tbl, chart.BarOptions{
		Title:       "Annual rainfall",
		LegendTitle: "Station",
		Colors:      []string{"#111111", "#222222"},
		Unit:        "mm",
		YLabel:      "Rainfall",
	})
	require.NoError(t, err)

	html := render(t, bar)
	assert.Contains(t, html, "Annual rainfall")
	assert.Contains(t, html, "Nairobi")
	assert.Contains(t, html, "Mombasa")
	assert.Contains(t, html, "#222222")

	_, err = chart.ComparativeBar(nil, chart.BarOptions{})
	require.ErrorIs(t, err, dataset.ErrEmptyTable)
}

func TestChoroplethMap(t *testing.T) {
	b, err := geo.Parse("kenya", "", []byte(kenyaGeoJSON))
	require.NoError(t, err)

	s := domain.Series[string]{{"Nairobi", 18.2}, {"Mombasa", 26.9}}
	m, err := chart.ChoroplethMap(s, b, chart.MapOptions{Title: "Mean temperature", Unit: "°C"})
	require.NoError(t, err)

	html := render(t, m)
	assert.Contains(t, html, "kenya.js")
	assert.Contains(t, html, "Mombasa")
	assert.Contains(t, html, "Mean temperature")

	m, err = chart.ChoroplethMap(s, b, chart.MapOptions{ScriptSrc: "/charts/kenya.js"})
	require.NoError(t, err)
	assert.Contains(t, render(t, m), "/charts/kenya.js")
}

func TestChoroplethMap_Errors(t *testing.T) {
	b, err := geo.Parse("kenya", "", []byte(kenyaGeoJSON))
	require.NoError(t, err)

	_, err = chart.ChoroplethMap(domain.Series[string]{{"Nairobi", 1}}, nil, chart.MapOptions{})
	require.ErrorIs(t, err, chart.ErrNoBoundaries)

	_, err = chart.ChoroplethMap(domain.Series[string]{}, b, chart.MapOptions{})
	require.ErrorIs(t, err, domain.ErrEmptySeries)
}

const precipCSV = `station,1961-1990,1961-1990,1991-2020,1991-2020
station,Jan,Feb,Jan,Feb
Nairobi,60,50,64,58
Mombasa,30,20,36,18
`

const tempCSV = `station,1961-1990,1961-1990,1991-2020,1991-2020
station,Jan,Feb,Jan,Feb
Nairobi,19,20,20,21
Mombasa,27,28,28,29
`

func TestClimatePlot(t *testing.T) {
	precip, err := dataset.ReadGroupedTable(strings.NewReader(precipCSV))
	require.NoError(t, err)
	temp, err := dataset.ReadGroupedTable(strings.NewReader(tempCSV))
	require.NoError(t, err)

	c, err := chart.Climatologies(precip, temp, nil)
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, "1961-1990", c[0].Period)
	assert.Equal(t, domain.Series[string]{{"Jan", 45}, {"Feb", 35}}, c[0].Precipitation)
	assert.Equal(t, domain.Series[string]{{"Jan", 24}, {"Feb", 25}}, c[1].Temperature)

	page, err := chart.ClimatePlot(precip, temp, chart.ClimateOptions{Title: "Kenya"})
	require.NoError(t, err)

	html := render(t, page)
	assert.Contains(t, html, "Kenya (1961-1990)")
	assert.Contains(t, html, "Kenya (1991-2020)")
	assert.Contains(t, html, "Temperature (°C)")
	assert.Contains(t, html, "Precipitation (mm)")
}

func TestClimatePlot_UnknownPeriod(t *testing.T) {
	precip, err := dataset.ReadGroupedTable(strings.NewReader(precipCSV))
	require.NoError(t, err)
	temp, err := dataset.ReadGroupedTable(strings.NewReader(tempCSV))
	require.NoError(t, err)

	_, err = chart.ClimatePlot(precip, temp, chart.ClimateOptions{Periods: []string{"1931-1960"}})
	require.ErrorIs(t, err, dataset.ErrUnknownGroup)
}

func TestLinePNG(t *testing.T) {
	tests := []struct {
		name   string
		series domain.Series[string]
	}{
		{"monthly", monthly()},
		{"single point", domain.Series[string]{{"x", 7}}},
		{"constant", domain.Series[string]{{"a", 5}, {"b", 5}}},
		{"positive infinity", domain.Series[string]{{"a", math.Inf(1)}, {"b", 3}}},
		{"both infinities", domain.Series[string]{{"a", math.Inf(1)}, {"b", math.Inf(-1)}, {"c", 3}}},
		{"missing values", domain.Series[string]{{"a", math.NaN()}, {"b", 3}, {"c", 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, chart.LinePNG(&buf, tt.series, chart.LineOptions{Title: "Rainfall", Unit: "mm"}))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
		})
	}
}

func TestLinePNG_NothingToDraw(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, chart.LinePNG(&buf, domain.Series[string]{}, chart.LineOptions{}), domain.ErrEmptySeries)
	require.ErrorIs(t, chart.LinePNG(&buf, domain.Series[string]{{"a", math.Inf(1)}}, chart.LineOptions{}), domain.ErrEmptySeries)
}

func TestLinePlot_UndefinedMean(t *testing.T) {
	s := domain.Series[string]{{"a", math.Inf(1)}, {"b", math.Inf(-1)}, {"c", 3}}
	line, err := chart.LinePlot(s, chart.LineOptions{Unit: "mm"})
	require.NoError(t, err)

	html := render(t, line)
	assert.NotContains(t, html, "Mean (")
}

func TestSave(t *testing.T) {
	line, err := chart.LinePlot(monthly(), chart.LineOptions{Title: "Saved"})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, chart.Save(line, dir, "rain.html"))

	data, err := os.ReadFile(filepath.Join(dir, "rain.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
	assert.Contains(t, string(data), "echarts")
}
