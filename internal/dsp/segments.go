package dsp

import (
	"math"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Segment is a run of consecutive valid samples.
type Segment struct {
	Times  []time.Time
	Values []float64
}

// Segments splits a series at missing values so gaps are drawn as breaks.
func Segments(s Series) []Segment {
	var out []Segment
	var cur Segment
	for i, v := range s.Values {
		if !v.Valid {
			if len(cur.Times) > 0 {
				out = append(out, cur)
				cur = Segment{}
			}
			continue
		}
		cur.Times = append(cur.Times, s.Times[i])
		cur.Values = append(cur.Values, v.Float64)
	}
	if len(cur.Times) > 0 {
		out = append(out, cur)
	}
	return out
}

// Summary describes the valid values of a series.
type Summary struct {
	Count  int
	Valid  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes Summary over the valid values. Min, Max, Mean and
// StdDev are NaN when nothing is valid.
func Summarize(values []null.Float) Summary {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			valid = append(valid, v.Float64)
		}
	}

	s := Summary{Count: len(values), Valid: len(valid)}
	if len(valid) == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev = nan, nan, nan, nan
		return s
	}

	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	if len(valid) == 1 {
		s.Mean = valid[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(valid, nil)
	return s
}
