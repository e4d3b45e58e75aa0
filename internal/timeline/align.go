package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/dsp"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
)

// DefaultTolerance is the largest gap between a VLF sample and the flux
// sample joined to it.
const DefaultTolerance = 2 * time.Minute

// Row is one VLF sample with the flux in effect at that time.
type Row struct {
	Time  time.Time
	DB    null.Float
	Trend null.Float
	Short null.Float
	Long  null.Float
}

// Align joins every signal sample with the most recent flux sample at or
// before it, provided it is no older than tolerance. trend may be nil;
// otherwise it must match the signal length. flux must be sorted by time.
func Align(signal dsp.Series, trend []null.Float, flux []solar.FluxSample, tolerance time.Duration) ([]Row, error) {
	if len(signal.Times) != len(signal.Values) {
		return nil, fmt.Errorf("signal has %d times and %d values", len(signal.Times), len(signal.Values))
	}
	if trend != nil && len(trend) != len(signal.Values) {
		return nil, fmt.Errorf("trend length %d does not match signal length %d", len(trend), len(signal.Values))
	}
	if !sort.SliceIsSorted(flux, func(i, j int) bool { return flux[i].Time.Before(flux[j].Time) }) {
		return nil, fmt.Errorf("flux samples are not sorted by time")
	}

	rows := make([]Row, len(signal.Times))
	j := -1
	for i, t := range signal.Times {
		rows[i] = Row{Time: t, DB: signal.Values[i]}
		if trend != nil {
			rows[i].Trend = trend[i]
		}

		// Signal times are normally ordered; restart the scan if not.
		if j >= 0 && flux[j].Time.After(t) {
			j = -1
		}
		for j+1 < len(flux) && !flux[j+1].Time.After(t) {
			j++
		}
		if j < 0 || t.Sub(flux[j].Time) > tolerance {
			continue
		}
		rows[i].Short = flux[j].Short
		rows[i].Long = flux[j].Long
	}
	return rows, nil
}
