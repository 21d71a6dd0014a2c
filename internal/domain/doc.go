// Package domain holds the climate-series model and the extremes logic that
// chart builders use to highlight the highest and lowest observations.
//
// # Series
//
// A [Series] is an ordered sequence of labeled observations. Labels are
// usually months ("Jan"), years ("1991") or region names ("Nairobi"); the
// order is the caller's and is never changed. Missing observations are NaN.
//
// # Extremes
//
// [Extremes] keeps every point equal to the series minimum or maximum,
// including ties, in their original order. [Style] maps each point of a
// series to one of two caller-supplied values: the "max" value where the
// point equals the series maximum and the "min" value everywhere else. It is
// meant to be called on the output of [Extremes], once per visual channel
// (marker color, text, text position), so the two calls line up index by
// index.
//
// Style is binary: a non-extreme point passed to it gets the "min" value. Use
// [Classify] or [StyleExtremes] when the input may hold points that are
// neither extreme.
//
// # Missing and empty input
//
//	Extremes:  empty or all-NaN input returns ErrEmptySeries; NaN points are dropped.
//	Style:     empty input returns an empty slice; NaN points get the "min" value.
//	Classify:  NaN points are Neither.
//	Mean:      NaN points are skipped.
//
// Non-numeric input is rejected at the ingestion boundary ([ParseValue],
// [FromValues]) with an [InvalidValueError]; it is never coerced.
//
// # Report IDs
//
// Extremes reports carry a deterministic SHA-256 ID of chart|series|count|min|max
// so downstream consumers can de-duplicate replayed publications.
package domain
