package render

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/dsp"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
)

var day = time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)

func samplePlot() Plot {
	n := 24 * 60
	times := make([]time.Time, n)
	raw := make([]float64, n)
	for i := range times {
		times[i] = day.Add(time.Duration(i) * time.Minute)
		raw[i] = 5000 + 2000*math.Sin(float64(i)/200)
	}
	raw[100] = 0 // a gap
	signal := dsp.DecibelSeries(times, raw)
	trend, _ := dsp.SavGol(signal.Values, 61, 3)

	var flux []solar.FluxSample
	for i := 0; i < n; i += 5 {
		flux = append(flux, solar.FluxSample{
			Time:  times[i],
			Short: null.FloatFrom(1e-8 * (1 + float64(i%50))),
			Long:  null.FloatFrom(1e-7 * (1 + float64(i%50))),
		})
	}

	return Plot{
		Title:     "SuperSid Dunsink, Ireland - DHO38",
		Subtitle:  "DHO38 (Rhauderfehn, Germany 23.4 kHz)",
		Start:     day,
		End:       day.Add(24 * time.Hour),
		Signal:    signal,
		Trend:     trend,
		Flux:      flux,
		Flares:    []solar.FlareEvent{{Start: day.Add(10 * time.Hour), Class: "M1.2"}, {Start: day.Add(-time.Hour), Class: "X1.0"}},
		Sun:       solar.SunTimesRange(day, 1, 53.3871, -6.3375),
		MinSignal: DefaultMinSignal,
	}
}

func TestRender(t *testing.T) {
	img, err := Render(samplePlot())
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, headerHeight+fluxHeight+signalHeight, img.Bounds().Dy())
}

func TestRenderEmpty(t *testing.T) {
	p := Plot{
		Title:     "SuperSid Birr, Ireland - NAA",
		Start:     day,
		End:       day.Add(24 * time.Hour),
		MinSignal: DefaultMinSignal,
	}
	_, err := Render(p)
	require.NoError(t, err)
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := Render(Plot{Start: day, End: day})
	assert.Error(t, err)

	p := samplePlot()
	p.Trend = p.Trend[:10]
	_, err = Render(p)
	assert.Error(t, err)
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "vlf_live.png")
	require.NoError(t, RenderFile(path, samplePlot()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, Width, cfg.Width)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLineSegments(t *testing.T) {
	times := []time.Time{day, day.Add(time.Second), day.Add(2 * time.Second), day.Add(3 * time.Second), day.Add(4 * time.Second), day.Add(5 * time.Second)}
	values := []null.Float{null.FloatFrom(1e-9), null.FloatFrom(2e-9), {}, null.FloatFrom(4e-6), {}, null.FloatFrom(-1)}

	segs := lineSegments(times, values, logFlux, chart.Style{})
	// The first run survives, clamped to the axis floor; 4e-6 is a lone point; -1 cannot be drawn on a log axis.
	require.Len(t, segs, 1)
	ts := segs[0].(chart.TimeSeries)
	assert.Equal(t, []float64{fluxLogMin, fluxLogMin}, ts.YValues)
}

func TestSignalRange(t *testing.T) {
	p := samplePlot()
	lo, hi := signalRange(&p)
	assert.Equal(t, DefaultMinSignal, lo)
	assert.InDelta(t, 20*math.Log10(7000)+3, hi, 0.1)

	empty := Plot{MinSignal: 30}
	lo, hi = signalRange(&empty)
	assert.Equal(t, 30.0, lo)
	assert.Equal(t, 40.0, hi)
}

func TestTicks(t *testing.T) {
	ticks := timeTicks(day, day.Add(24*time.Hour), tickStep(24*time.Hour))
	require.Len(t, ticks, 9)
	assert.Equal(t, "00:00", ticks[0].Label)
	assert.Equal(t, "03:00", ticks[1].Label)

	assert.Equal(t, 24*time.Hour, tickStep(10*24*time.Hour))

	classes := classTicks()
	assert.Equal(t, "A", classes[0].Label)
	assert.Equal(t, -8.0, classes[0].Value)
	assert.Equal(t, "X", classes[4].Label)
	assert.Equal(t, -4.0, classes[4].Value)

	assert.Len(t, decadeTicks(), 6)
	assert.Equal(t, "1e-8", decadeTicks()[0].Label)
}
