package domain

import (
	"fmt"
	"math"
)

// Extremes returns the points of s whose value equals the series minimum or
// maximum, ties included, in their original order. NaN points are ignored.
// The input is not modified.
func Extremes[L comparable](s Series[L]) (Series[L], error) {
	minV, maxV, ok := s.Bounds()
	if !ok {
		return nil, fmt.Errorf("extremes: %w", ErrEmptySeries)
	}
	out := make(Series[L], 0, 2)
	for _, p := range s {
		if p.Value == minV || p.Value == maxV {
			out = append(out, p)
		}
	}
	return out, nil
}

// Style maps every point of s to ifMax when its value equals the maximum of s
// and to ifMin otherwise. The result has the same length and order as s.
// An empty series yields an empty slice.
func Style[L comparable, T any](s Series[L], ifMax, ifMin T) []T {
	out := make([]T, len(s))
	_, maxV, ok := s.Bounds()
	for i, p := range s {
		if ok && p.Value == maxV {
			out[i] = ifMax
			continue
		}
		out[i] = ifMin
	}
	return out
}

// Extreme classifies a point relative to its series.
type Extreme int

const (
	Neither Extreme = iota
	Minimum
	Maximum
)

func (e Extreme) String() string {
	switch e {
	case Minimum:
		return "min"
	case Maximum:
		return "max"
	default:
		return "neither"
	}
}

// Classify labels each point of s as Maximum, Minimum or Neither against the
// minimum and maximum of the whole series. Maximum wins when both hold, as in
// a constant series. NaN points are Neither.
func Classify[L comparable](s Series[L]) []Extreme {
	out := make([]Extreme, len(s))
	minV, maxV, ok := s.Bounds()
	if !ok {
		return out
	}
	for i, p := range s {
		switch {
		case math.IsNaN(p.Value):
			out[i] = Neither
		case p.Value == maxV:
			out[i] = Maximum
		case p.Value == minV:
			out[i] = Minimum
		default:
			out[i] = Neither
		}
	}
	return out
}

// StyleExtremes is the three-way form of Style: it accepts any series, not
// only the output of Extremes.
func StyleExtremes[L comparable, T any](s Series[L], ifMax, ifMin, ifNeither T) []T {
	classes := Classify(s)
	out := make([]T, len(classes))
	for i, c := range classes {
		switch c {
		case Maximum:
			out[i] = ifMax
		case Minimum:
			out[i] = ifMin
		default:
			out[i] = ifNeither
		}
	}
	return out
}
