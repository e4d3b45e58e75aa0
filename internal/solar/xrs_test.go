package solar

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/fetch"
)

// writeXRS builds a one-minute L2 file starting at start. Variables named in
// skip are left out.
func writeXRS(t *testing.T, start time.Time, short, long []float32, skip ...string) []byte {
	t.Helper()
	seconds := make([]float64, len(short))
	for i := range seconds {
		seconds[i] = start.Sub(xrsEpoch).Seconds() + float64(60*i)
	}

	path := filepath.Join(t.TempDir(), "xrs.nc")
	w, err := netcdf.OpenWriter(path, netcdf.KindCDF)
	require.NoError(t, err)

	vars := []struct {
		name   string
		values any
	}{
		{xrsTimeVar, seconds},
		{xrsShortVar, short},
		{xrsLongVar, long},
	}
	for _, v := range vars {
		if slices.Contains(skip, v.name) {
			continue
		}
		require.NoError(t, w.AddVar(v.name, api.Variable{Values: v.values, Dimensions: []string{"time"}}))
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestXRSArchiveDayURL(t *testing.T) {
	a := XRSArchive{
		BaseURL:   "https://data.ngdc.noaa.gov/platforms/solar-space-observing-satellites/goes/",
		Satellite: 16,
		Version:   "v2-2-0",
	}
	assert.Equal(t,
		"https://data.ngdc.noaa.gov/platforms/solar-space-observing-satellites/goes/goes16/l2/data/xrsf-l2-avg1m_science/2023/06/sci_xrsf-l2-avg1m_g16_d20230622_v2-2-0.nc",
		a.DayURL(time.Date(2023, 6, 22, 17, 0, 0, 0, time.UTC)))

	urls := a.DayURLs(time.Date(2023, 6, 30, 6, 0, 0, 0, time.UTC), time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC))
	require.Len(t, urls, 2)
	assert.Contains(t, urls[0], "/2023/06/sci_xrsf-l2-avg1m_g16_d20230630_")
	assert.Contains(t, urls[1], "/2023/07/sci_xrsf-l2-avg1m_g16_d20230701_")
}

func TestParseXRS(t *testing.T) {
	start := time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)
	nan := float32(math.NaN())
	data := writeXRS(t, start,
		[]float32{1e-8, -9999, 3e-8},
		[]float32{2e-7, 2.5e-7, nan})

	samples, err := ParseXRS(data)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	for i, s := range samples {
		assert.Equal(t, start.Add(time.Duration(i)*time.Minute), s.Time, "sample %d", i)
	}
	require.True(t, samples[0].Short.Valid)
	assert.InDelta(t, 1e-8, samples[0].Short.Float64, 1e-12)
	assert.InDelta(t, 2e-7, samples[0].Long.Float64, 1e-11)
	assert.False(t, samples[1].Short.Valid, "fill value")
	assert.True(t, samples[1].Long.Valid)
	assert.True(t, samples[2].Short.Valid)
	assert.False(t, samples[2].Long.Valid, "NaN")
}

func TestParseXRSErrors(t *testing.T) {
	_, err := ParseXRS([]byte("<html>not found</html>"))
	assert.ErrorContains(t, err, "open XRS netCDF")

	start := time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)
	data := writeXRS(t, start, []float32{1e-8}, []float32{1e-7}, xrsShortVar)
	_, err = ParseXRS(data)
	assert.ErrorContains(t, err, xrsShortVar)
}

func TestHistoricalFlux(t *testing.T) {
	day := time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)
	file := writeXRS(t, day.Add(-time.Minute),
		[]float32{1e-8, 1.1e-8, 1.2e-8},
		[]float32{1e-7, 1.1e-7, 1.2e-7})

	archive := XRSArchive{Satellite: 16, Version: "v2-2-0"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/goes16/l2/data/xrsf-l2-avg1m_science/2023/06/sci_xrsf-l2-avg1m_g16_d20230622_v2-2-0.nc" {
			w.Write(file)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()
	archive.BaseURL = srv.URL

	c := NewClient(fetch.NewClient(5*time.Second), "", "", "").SetArchive(archive)

	// The second day is missing; the first still loads and is clipped to the window.
	samples, err := c.HistoricalFlux(context.Background(), day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, day, samples[0].Time)
	assert.Equal(t, day.Add(time.Minute), samples[1].Time)
	assert.True(t, samples[1].Long.Valid)

	_, err = c.HistoricalFlux(context.Background(), day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	assert.ErrorContains(t, err, "no GOES archive files readable")

	plain := NewClient(fetch.NewClient(time.Second), "", "", "")
	_, err = plain.HistoricalFlux(context.Background(), day, day.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNoArchive)
}
