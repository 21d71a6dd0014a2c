// Package parquet exports extremes reports to Parquet files.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/climate-viz/internal/domain"
)

// ExtremeRow is one maximum or minimum observation of a report.
type ExtremeRow struct {
	ReportID    string    `parquet:"report_id,snappy"`
	Chart       string    `parquet:"chart,snappy,dict"`
	Series      string    `parquet:"series,snappy,dict"`
	Unit        *string   `parquet:"unit,optional,snappy"`
	Extreme     string    `parquet:"extreme,snappy,dict"` // "max" or "min"
	Label       string    `parquet:"label,snappy"`
	Value       float64   `parquet:"value,snappy"`
	Mean        float64   `parquet:"mean,snappy"`
	Count       int32     `parquet:"count,snappy"`
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// Rows flattens reports into one row per observation, maxima first.
func Rows(reports []domain.ExtremeReport) []ExtremeRow {
	var rows []ExtremeRow
	for _, r := range reports {
		var unit *string
		if r.Unit != "" {
			u := r.Unit
			unit = &u
		}
		add := func(kind domain.Extreme, obs []domain.Observation) {
			for _, o := range obs {
				rows = append(rows, ExtremeRow{
					ReportID:    r.ID,
					Chart:       r.Chart,
					Series:      r.Series,
					Unit:        unit,
					Extreme:     kind.String(),
					Label:       o.Label,
					Value:       o.Value,
					Mean:        r.Mean,
					Count:       int32(r.Count), //nolint:gosec // series lengths fit in int32
					GeneratedAt: r.GeneratedAt,
				})
			}
		}
		add(domain.Maximum, r.Maxima)
		add(domain.Minimum, r.Minima)
	}
	return rows
}

// WriteExtremes writes the flattened reports to outputPath.
func WriteExtremes(reports []domain.ExtremeReport, outputPath string) (int, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows := Rows(reports)
	writer := parquet.NewGenericWriter[ExtremeRow](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return 0, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("close parquet writer: %w", err)
	}
	return len(rows), nil
}
