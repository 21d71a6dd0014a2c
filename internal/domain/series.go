package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Point is a single labeled observation.
type Point[L comparable] struct {
	Label L
	Value float64
}

// Series is an ordered sequence of labeled observations. Missing values are NaN.
type Series[L comparable] []Point[L]

// NewSeries pairs labels with values in order.
func NewSeries[L comparable](labels []L, values []float64) (Series[L], error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("new series: %w (%d labels, %d values)", ErrLengthMismatch, len(labels), len(values))
	}
	s := make(Series[L], len(labels))
	for i := range labels {
		s[i] = Point[L]{Label: labels[i], Value: values[i]}
	}
	return s, nil
}

// FromValues builds a series from loosely typed values such as decoded JSON.
// Numeric kinds and json.Number are accepted, nil is treated as missing, and
// anything else fails with an InvalidValueError.
func FromValues[L comparable](labels []L, values []any) (Series[L], error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("series from values: %w (%d labels, %d values)", ErrLengthMismatch, len(labels), len(values))
	}
	s := make(Series[L], len(labels))
	for i, raw := range values {
		v, err := toFloat(raw)
		if err != nil {
			return nil, &InvalidValueError{Label: fmt.Sprint(labels[i]), Value: raw, Err: err}
		}
		s[i] = Point[L]{Label: labels[i], Value: v}
	}
	return s, nil
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

// ParseValue parses a raw cell. Blank cells and the usual missing markers
// (NA, N/A, NaN) become NaN; anything else must be a number.
func ParseValue(label, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &InvalidValueError{Label: label, Value: raw, Err: err}
	}
	return v, nil
}

// Labels returns the labels in order.
func (s Series[L]) Labels() []L {
	return lo.Map(s, func(p Point[L], _ int) L { return p.Label })
}

// Values returns the values in order.
func (s Series[L]) Values() []float64 {
	return lo.Map(s, func(p Point[L], _ int) float64 { return p.Value })
}

// Present returns the points that are not missing.
func (s Series[L]) Present() Series[L] {
	return lo.Filter(s, func(p Point[L], _ int) bool { return !math.IsNaN(p.Value) })
}

// Bounds returns the minimum and maximum of the non-NaN values.
// ok is false when there are none.
func (s Series[L]) Bounds() (minV, maxV float64, ok bool) {
	for _, p := range s {
		if math.IsNaN(p.Value) {
			continue
		}
		if !ok {
			minV, maxV, ok = p.Value, p.Value, true
			continue
		}
		minV = math.Min(minV, p.Value)
		maxV = math.Max(maxV, p.Value)
	}
	return minV, maxV, ok
}

// Mean returns the arithmetic mean of the non-NaN values, or NaN when there are none.
func (s Series[L]) Mean() float64 {
	var sum float64
	var n int
	for _, p := range s {
		if math.IsNaN(p.Value) {
			continue
		}
		sum += p.Value
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
