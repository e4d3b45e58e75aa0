package dsp

import (
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecibel(t *testing.T) {
	for _, v := range []float64{1e-3, 0.5, 1, 10, 125000.5, 1e9} {
		got := Decibel(v)
		require.True(t, got.Valid, "v=%v", v)
		assert.InDelta(t, 20*math.Log10(v), got.Float64, 1e-12)
	}
	for _, v := range []float64{0, -1, -1e-9, math.Inf(-1), math.Inf(1), math.NaN()} {
		assert.False(t, Decibel(v).Valid, "v=%v", v)
	}
	assert.Equal(t, 100.0, Decibel(100000).Float64)
}

func TestDecibels(t *testing.T) {
	got := Decibels([]float64{10, 0, 100})
	require.Len(t, got, 3)
	assert.Equal(t, null.FloatFrom(20), got[0])
	assert.False(t, got[1].Valid)
	assert.Equal(t, null.FloatFrom(40), got[2])
}

func TestSavGolCoeffsKnownValues(t *testing.T) {
	// Classic 5-point quadratic weights: (-3, 12, 17, 12, -3) / 35.
	got, err := SavGolCoeffs(5, 2)
	require.NoError(t, err)
	want := []float64{-3.0 / 35, 12.0 / 35, 17.0 / 35, 12.0 / 35, -3.0 / 35}
	assert.InDeltaSlice(t, want, got, 1e-12)

	one, err := SavGolCoeffs(1, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1}, one, 1e-12)
}

func TestSavGolCoeffsSumToOne(t *testing.T) {
	for _, tc := range []struct{ window, order int }{{7, 3}, {31, 3}, {601, 3}, {11, 0}} {
		coeffs, err := SavGolCoeffs(tc.window, tc.order)
		require.NoError(t, err)
		var sum float64
		for _, c := range coeffs {
			sum += c
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "window=%d order=%d", tc.window, tc.order)
	}
}

func TestSavGolInvalidWindow(t *testing.T) {
	values := make([]null.Float, 10)
	for i := range values {
		values[i] = null.FloatFrom(float64(i))
	}
	for _, tc := range []struct{ window, order int }{{4, 2}, {0, 0}, {11, 3}, {5, 5}, {3, -1}} {
		_, err := SavGol(values, tc.window, tc.order)
		assert.ErrorIs(t, err, ErrInvalidWindow, "window=%d order=%d", tc.window, tc.order)
	}
}

func TestSavGolLengthPreserved(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50, 601, 1000} {
		values := make([]null.Float, n)
		for i := range values {
			values[i] = null.FloatFrom(math.Sin(float64(i) / 10))
		}
		for _, window := range []int{1, 3, 7, 51, 601} {
			if window > n {
				continue
			}
			order := 3
			if order >= window {
				order = window - 1
			}
			out, err := SavGol(values, window, order)
			require.NoError(t, err)
			assert.Len(t, out, n, "n=%d window=%d", n, window)
		}
	}
}

func TestSavGolPreservesPolynomials(t *testing.T) {
	n := 40
	values := make([]null.Float, n)
	for i := range values {
		x := float64(i)
		values[i] = null.FloatFrom(2 + 0.5*x - 0.01*x*x)
	}
	out, err := SavGol(values, 9, 3)
	require.NoError(t, err)

	// Interior points of a cubic-or-lower polynomial pass through unchanged.
	for i := 4; i < n-4; i++ {
		assert.InDelta(t, values[i].Float64, out[i].Float64, 1e-9, "i=%d", i)
	}
}

func TestSavGolConstantWithNearestEdges(t *testing.T) {
	values := make([]null.Float, 12)
	for i := range values {
		values[i] = null.FloatFrom(95)
	}
	out, err := SavGol(values, 11, 3)
	require.NoError(t, err)
	for i, v := range out {
		require.True(t, v.Valid)
		assert.InDelta(t, 95, v.Float64, 1e-9, "i=%d", i)
	}
}

func TestSavGolMissingValues(t *testing.T) {
	values := []null.Float{
		null.FloatFrom(1), {}, null.FloatFrom(3), null.FloatFrom(4), {}, {}, null.FloatFrom(7),
	}
	out, err := SavGol(values, 3, 1)
	require.NoError(t, err)
	require.Len(t, out, len(values))
	for i := range values {
		assert.Equal(t, values[i].Valid, out[i].Valid, "i=%d", i)
	}
	// The bridged series is the straight line 1..7, which a linear fit keeps.
	assert.InDelta(t, 3, out[2].Float64, 1e-9)
	assert.InDelta(t, 7-1.0/3, out[6].Float64, 1e-9)

	allMissing := make([]null.Float, 5)
	out, err = SavGol(allMissing, 3, 1)
	require.NoError(t, err)
	assert.Len(t, out, 5)
	for _, v := range out {
		assert.False(t, v.Valid)
	}
}

func TestFitWindow(t *testing.T) {
	tests := []struct {
		n, window, order int
		want             int
		ok               bool
	}{
		{17280, 601, 3, 601, true},
		{601, 601, 3, 601, true},
		{100, 601, 3, 99, true},
		{101, 601, 3, 101, true},
		{4, 601, 3, 0, false},
		{0, 601, 3, 0, false},
	}
	for _, tt := range tests {
		got, ok := FitWindow(tt.n, tt.window, tt.order)
		assert.Equal(t, tt.ok, ok, "n=%d", tt.n)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

func TestSegments(t *testing.T) {
	t0 := time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)
	s := Series{
		Times: []time.Time{t0, t0.Add(time.Second), t0.Add(2 * time.Second), t0.Add(3 * time.Second), t0.Add(4 * time.Second)},
		Values: []null.Float{
			null.FloatFrom(90), null.FloatFrom(91), {}, null.FloatFrom(93), {},
		},
	}
	segs := Segments(s)
	require.Len(t, segs, 2)
	assert.Equal(t, []float64{90, 91}, segs[0].Values)
	assert.Equal(t, []float64{93}, segs[1].Values)
	assert.Equal(t, t0.Add(3*time.Second), segs[1].Times[0])
	assert.Equal(t, 3, s.Valid())
	assert.Empty(t, Segments(Series{}))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]null.Float{null.FloatFrom(2), {}, null.FloatFrom(4), null.FloatFrom(6)})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 3, s.Valid)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
	assert.InDelta(t, 4.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Valid)
	assert.True(t, math.IsNaN(empty.Max))

	single := Summarize([]null.Float{null.FloatFrom(5)})
	assert.Equal(t, 5.0, single.Mean)
	assert.Equal(t, 0.0, single.StdDev)
}
