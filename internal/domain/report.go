package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"
)

// Observation is the serialized form of a string-labeled point.
type Observation struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ExtremeReport summarizes the extremes of one rendered series.
type ExtremeReport struct {
	ID          string        `json:"id"`
	Chart       string        `json:"chart"`
	Series      string        `json:"series"`
	Unit        string        `json:"unit,omitempty"`
	Count       int           `json:"count"`
	Mean        float64       `json:"mean"`
	Maxima      []Observation `json:"maxima"`
	Minima      []Observation `json:"minima"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Summarize builds the extremes report for s. Count and Mean only consider
// non-missing values.
func Summarize(chart, series, unit string, s Series[string]) (ExtremeReport, error) {
	ext, err := Extremes(s)
	if err != nil {
		return ExtremeReport{}, fmt.Errorf("summarize %s/%s: %w", chart, series, err)
	}
	minV, maxV, _ := ext.Bounds()

	r := ExtremeReport{
		Chart:       chart,
		Series:      series,
		Unit:        unit,
		Count:       len(s.Present()),
		Mean:        s.Mean(),
		Maxima:      []Observation{},
		Minima:      []Observation{},
		GeneratedAt: clock.Now().UTC(),
	}
	for i, c := range Classify(ext) {
		obs := Observation{Label: ext[i].Label, Value: ext[i].Value}
		if c == Maximum {
			r.Maxima = append(r.Maxima, obs)
		}
		// A constant series reports its points as both maxima and minima.
		if c == Minimum || minV == maxV {
			r.Minima = append(r.Minima, obs)
		}
	}
	r.ID = reportID(chart, series, r.Count, minV, maxV)
	return r, nil
}

// reportID produces a deterministic ID from the report's identifying fields.
func reportID(chart, series string, count int, minV, maxV float64) string {
	input := fmt.Sprintf("%s|%s|%d|%g|%g", chart, series, count, minV, maxV)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if chart == "" {
		return short
	}
	return chart + "-" + short
}

// Finite reports whether the report can be encoded as JSON. Infinite
// observations have no JSON representation.
func (r ExtremeReport) Finite() bool {
	if math.IsInf(r.Mean, 0) || math.IsNaN(r.Mean) {
		return false
	}
	for _, o := range append(append([]Observation{}, r.Maxima...), r.Minima...) {
		if math.IsInf(o.Value, 0) {
			return false
		}
	}
	return true
}
