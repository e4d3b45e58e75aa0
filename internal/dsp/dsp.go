// Package dsp converts raw receiver amplitudes to decibels and derives the
// smoothed trend series. Missing samples are carried as invalid null.Float
// values rather than NaN or infinity.
package dsp

import (
	"math"
	"time"

	"github.com/guregu/null/v6"
)

// Series is a time-indexed sequence with optional values.
type Series struct {
	Times  []time.Time
	Values []null.Float
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Times)
}

// Valid returns the number of non-missing samples.
func (s Series) Valid() int {
	n := 0
	for _, v := range s.Values {
		if v.Valid {
			n++
		}
	}
	return n
}

// Decibel converts one raw amplitude: 20·log10(v) for v > 0, missing otherwise.
func Decibel(v float64) null.Float {
	if !(v > 0) || math.IsInf(v, 1) {
		return null.Float{}
	}
	return null.FloatFrom(20 * math.Log10(v))
}

// Decibels converts a sequence of raw amplitudes.
func Decibels(raw []float64) []null.Float {
	out := make([]null.Float, len(raw))
	for i, v := range raw {
		out[i] = Decibel(v)
	}
	return out
}

// DecibelSeries pairs timestamps with converted amplitudes. times and raw
// must have the same length.
func DecibelSeries(times []time.Time, raw []float64) Series {
	return Series{Times: times, Values: Decibels(raw)}
}
