package dsp

import (
	"errors"
	"fmt"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidWindow is returned for a window that is even, not larger than
// the polynomial order, or longer than the series.
var ErrInvalidWindow = errors.New("invalid smoothing window")

// SavGolCoeffs returns the Savitzky-Golay smoothing weights for a centred
// window: the least-squares polynomial fit of the given order, evaluated at
// the window centre. Positions are scaled to [-1, 1]; the centre value of
// the fit does not depend on that scale.
func SavGolCoeffs(window, polyorder int) ([]float64, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("%w: length %d must be odd and positive", ErrInvalidWindow, window)
	}
	if polyorder < 0 || polyorder >= window {
		return nil, fmt.Errorf("%w: polyorder %d must be less than length %d", ErrInvalidWindow, polyorder, window)
	}

	half := window / 2
	cols := polyorder + 1

	a := mat.NewDense(window, cols, nil)
	for i := 0; i < window; i++ {
		x := 0.0
		if half > 0 {
			x = float64(i-half) / float64(half)
		}
		v := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	e0 := mat.NewVecDense(cols, nil)
	e0.SetVec(0, 1)

	var z mat.VecDense
	if err := z.SolveVec(&ata, e0); err != nil {
		return nil, fmt.Errorf("savgol normal equations: %w", err)
	}

	var c mat.VecDense
	c.MulVec(a, &z)

	coeffs := make([]float64, window)
	for i := range coeffs {
		coeffs[i] = c.AtVec(i)
	}
	return coeffs, nil
}

// SavGol smooths values with a Savitzky-Golay filter. Edges are handled by
// repeating the first and last samples, so the output has the same length
// as the input.
//
// Missing inputs are bridged by linear interpolation (nearest valid value at
// the ends) for the convolution only; positions that were missing remain
// missing in the output.
func SavGol(values []null.Float, window, polyorder int) ([]null.Float, error) {
	n := len(values)
	if window > n {
		return nil, fmt.Errorf("%w: length %d exceeds series length %d", ErrInvalidWindow, window, n)
	}
	coeffs, err := SavGolCoeffs(window, polyorder)
	if err != nil {
		return nil, err
	}

	out := make([]null.Float, n)
	filled, ok := fillGaps(values)
	if !ok {
		return out, nil
	}

	half := window / 2
	for i := 0; i < n; i++ {
		if !values[i].Valid {
			continue
		}
		lo, hi := i-half, i+half+1
		if lo >= 0 && hi <= n {
			out[i] = null.FloatFrom(floats.Dot(coeffs, filled[lo:hi]))
			continue
		}
		var sum float64
		for k := 0; k < window; k++ {
			j := clamp(i+k-half, 0, n-1)
			sum += coeffs[k] * filled[j]
		}
		out[i] = null.FloatFrom(sum)
	}
	return out, nil
}

// FitWindow returns window if the series is long enough, otherwise the
// largest odd length not exceeding n. ok is false when no length above
// polyorder fits.
func FitWindow(n, window, polyorder int) (int, bool) {
	if window <= n {
		return window, window > polyorder && window%2 == 1
	}
	w := n
	if w%2 == 0 {
		w--
	}
	if w <= polyorder || w < 1 {
		return 0, false
	}
	return w, true
}

// fillGaps returns a dense copy of values with missing runs interpolated.
// ok is false when every value is missing.
func fillGaps(values []null.Float) ([]float64, bool) {
	out := make([]float64, len(values))
	prev := -1
	for i, v := range values {
		if !v.Valid {
			continue
		}
		if prev == -1 {
			for j := 0; j < i; j++ {
				out[j] = v.Float64
			}
		} else if i-prev > 1 {
			a, b := values[prev].Float64, v.Float64
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				out[j] = a + (b-a)*float64(j-prev)/span
			}
		}
		out[i] = v.Float64
		prev = i
	}
	if prev == -1 {
		return nil, false
	}
	for j := prev + 1; j < len(values); j++ {
		out[j] = values[prev].Float64
	}
	return out, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
