package report

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	temperatureCSV = `year,Nairobi,Mombasa
1991,17.8,26.1
1992,18.4,26.9
1993,17.5,26.4
`
	regionalCSV = `region,mean_temp
Nairobi,18.2
Mombasa,26.9
`
	precipCSV = `station,1961-1990,1961-1990,1991-2020,1991-2020
station,Jan,Feb,Jan,Feb
Nairobi,60,50,64,58
`
	tempGroupedCSV = `station,1961-1990,1961-1990,1991-2020,1991-2020
station,Jan,Feb,Jan,Feb
Nairobi,19,20,20,21
`
	boundariesJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name_1":"Nairobi"},"geometry":{"type":"Point","coordinates":[36.8,-1.3]}},
 {"type":"Feature","properties":{"name_1":"Mombasa"},"geometry":{"type":"Point","coordinates":[39.7,-4.0]}}]}`

	manifestYAML = `title: Kenya climate
output_dir: site
boundaries:
  path: data/kenya.geojson
  map_name: kenya
datasets:
  Temperature:
    path: data/temperature.csv
  regional:
    path: data/regional.csv
  precip:
    path: data/precip.csv
    header_rows: 2
  temp_grouped:
    path: data/temp_grouped.csv
    header_rows: 2
charts:
  - name: nairobi-temperature
    kind: line
    dataset: temperature
    column: Nairobi
    title: Nairobi annual mean temperature
    unit: "°C"
    x_label: Year
    y_label: Temperature
    png: true
  - name: station-temperature
    kind: bar
    dataset: temperature
    title: Annual mean temperature by station
    colors: ["#111111", "#222222"]
  - name: regional-temperature
    kind: map
    dataset: regional
    column: mean_temp
    title: Mean temperature by region
    color_scale: ["#fff5eb", "#7f2704"]
  - name: climate-normals
    kind: climate
    precipitation: precip
    temperature: temp_grouped
    title: Nairobi
`
)

// writeReport lays out a manifest with its data files and returns the manifest path.
func writeReport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"report.yaml":           manifestYAML,
		"data/temperature.csv":  temperatureCSV,
		"data/regional.csv":     regionalCSV,
		"data/precip.csv":       precipCSV,
		"data/temp_grouped.csv": tempGroupedCSV,
		"data/kenya.geojson":    boundariesJSON,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return filepath.Join(dir, "report.yaml")
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBuilder(t *testing.T) (*Builder, *Manifest) {
	t.Helper()
	m, err := LoadManifest(writeReport(t))
	require.NoError(t, err)
	data, err := LoadDatasets(m)
	require.NoError(t, err)
	b, err := LoadBoundaries(m)
	require.NoError(t, err)
	return NewBuilder(data, b, chartPage, discardLogger()), m
}
