package render

import (
	"math"
	"time"

	"github.com/guregu/null/v6"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/dsp"
)

// lineSegments turns the valid runs of a series into line series. Runs of a
// single point have no line to draw and are skipped. transform maps a value
// to the axis domain and reports whether it can be drawn.
func lineSegments(times []time.Time, values []null.Float, transform func(float64) (float64, bool), style chart.Style) []chart.Series {
	var out []chart.Series
	var xs []time.Time
	var ys []float64

	flush := func() {
		if len(xs) >= 2 {
			out = append(out, chart.TimeSeries{XValues: xs, YValues: ys, Style: style})
		}
		xs, ys = nil, nil
	}

	for i, v := range values {
		if !v.Valid {
			flush()
			continue
		}
		y, ok := transform(v.Float64)
		if !ok {
			flush()
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, y)
	}
	flush()
	return out
}

func vline(t time.Time, lo, hi float64, style chart.Style) chart.Series {
	return chart.TimeSeries{XValues: []time.Time{t, t}, YValues: []float64{lo, hi}, Style: style}
}

func placeholder(p *Plot, lo, hi float64, axis chart.YAxisType) chart.Series {
	return chart.TimeSeries{
		XValues: []time.Time{p.Start, p.End},
		YValues: []float64{lo, hi},
		Style:   placeholderStyle(),
		YAxis:   axis,
	}
}

// sunLines draws the sun markers that fall inside the plot window.
func sunLines(p *Plot, lo, hi float64) []chart.Series {
	var out []chart.Series
	for _, day := range p.Sun {
		for _, m := range day.Markers() {
			if p.inWindow(m.Time) {
				out = append(out, vline(m.Time, lo, hi, markerStyle(m)))
			}
		}
	}
	return out
}

func flareLines(p *Plot, lo, hi float64) []chart.Series {
	var out []chart.Series
	for _, f := range p.Flares {
		if p.inWindow(f.Start) {
			out = append(out, vline(f.Start, lo, hi, flareStyle()))
		}
	}
	return out
}

func logFlux(v float64) (float64, bool) {
	if !(v > 0) {
		return 0, false
	}
	return clampf(math.Log10(v), fluxLogMin, fluxLogMax), true
}

// fluxChart builds the upper panel: both GOES channels on a log axis with
// the flare class scale on the right.
func fluxChart(p *Plot) chart.Chart {
	times := make([]time.Time, len(p.Flux))
	short := make([]null.Float, len(p.Flux))
	long := make([]null.Float, len(p.Flux))
	for i, s := range p.Flux {
		times[i], short[i], long[i] = s.Time, s.Short, s.Long
	}

	series := []chart.Series{placeholder(p, fluxLogMin, fluxLogMax, chart.YAxisSecondary)}
	series = append(series, sunLines(p, fluxLogMin, fluxLogMax)...)
	series = append(series, flareLines(p, fluxLogMin, fluxLogMax)...)
	series = append(series, lineSegments(times, short, logFlux, fluxStyle(colorShort))...)
	series = append(series, lineSegments(times, long, logFlux, fluxStyle(colorLong))...)

	var labels []chart.Value2
	for _, f := range p.Flares {
		if f.Class != "" && p.inWindow(f.Start) {
			labels = append(labels, chart.Value2{XValue: chart.TimeToFloat64(f.Start), YValue: flareLabelAt, Label: f.Class})
		}
	}
	if len(labels) > 0 {
		series = append(series, chart.AnnotationSeries{Annotations: labels, Style: labelStyle(colorFlareText, 8)})
	}

	return chart.Chart{
		Width:      Width,
		Height:     fluxHeight,
		Background: chart.Style{FillColor: colorBackground, Padding: chart.Box{Top: 12, Left: 16, Right: 16, Bottom: 8}},
		Canvas:     chart.Style{FillColor: colorBackground},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
			Range: timeRange(p.Start, p.End),
		},
		YAxis: chart.YAxis{
			Name:  "Watts m^-2",
			Range: &chart.ContinuousRange{Min: fluxLogMin, Max: fluxLogMax},
			Ticks: decadeTicks(),
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Flare Class",
			Range: &chart.ContinuousRange{Min: fluxLogMin, Max: fluxLogMax},
			Ticks: classTicks(),
		},
		Series: series,
	}
}

// signalRange returns the dB axis limits: the configured floor up to 3 dB
// above the strongest sample.
func signalRange(p *Plot) (float64, float64) {
	lo := p.MinSignal
	s := dsp.Summarize(p.Signal.Values)
	hi := s.Max + 3
	if s.Valid == 0 || hi <= lo {
		hi = lo + 10
	}
	return lo, hi
}

// signalChart builds the lower panel: raw dB and the smoothed trend with
// sun markers and their labels.
func signalChart(p *Plot) chart.Chart {
	lo, hi := signalRange(p)
	inRange := func(v float64) (float64, bool) { return clampf(v, lo, hi), true }

	series := []chart.Series{placeholder(p, lo, hi, chart.YAxisPrimary)}
	series = append(series, sunLines(p, lo, hi)...)
	series = append(series, flareLines(p, lo, hi)...)
	series = append(series, lineSegments(p.Signal.Times, p.Signal.Values, inRange, rawStyle())...)
	if p.Trend != nil {
		series = append(series, lineSegments(p.Signal.Times, p.Trend, inRange, trendStyle())...)
	}

	var labels []chart.Value2
	for _, day := range p.Sun {
		for _, m := range day.Markers() {
			if p.inWindow(m.Time) {
				labels = append(labels, chart.Value2{XValue: chart.TimeToFloat64(m.Time), YValue: lo + 1, Label: m.Label})
			}
		}
	}
	if len(labels) > 0 {
		series = append(series, chart.AnnotationSeries{Annotations: labels, Style: labelStyle(colorMarker, 9)})
	}

	return chart.Chart{
		Width:      Width,
		Height:     signalHeight,
		Background: chart.Style{FillColor: colorBackground, Padding: chart.Box{Top: 8, Left: 16, Right: 16, Bottom: 16}},
		Canvas:     chart.Style{FillColor: colorBackground},
		XAxis: chart.XAxis{
			Name:  p.Start.Format("02/01/2006") + " [UTC]",
			Range: timeRange(p.Start, p.End),
			Ticks: timeTicks(p.Start, p.End, tickStep(p.End.Sub(p.Start))),
		},
		YAxis: chart.YAxis{
			Name:  "VLF Signal Strength (dB)",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: signalTicks(lo, hi),
		},
		Series: series,
	}
}
