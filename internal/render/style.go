package render

import (
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
)

// Image geometry. The flux and signal panels keep a 1:2 height ratio.
const (
	Width        = 1200
	headerHeight = 56
	fluxHeight   = 250
	signalHeight = 500
)

// Flux panel limits as log10(W/m^2).
const (
	fluxLogMin   = -8.0
	fluxLogMax   = -3.0
	flareLabelAt = -3.699 // log10(2e-4)
)

var (
	colorBackground = drawing.ColorFromHex("FBFBFB")
	colorTitle      = drawing.ColorFromHex("252525")
	colorShort      = drawing.ColorFromHex("1D4890")
	colorLong       = drawing.ColorFromHex("D9761A")
	colorMarker     = drawing.Color{R: 0x74, G: 0x0A, B: 0x04, A: 178}
	colorRaw        = drawing.Color{R: 0x49, G: 0x49, B: 0x49, A: 77}
	colorTrend      = drawing.ColorBlack
	colorFlare      = drawing.Color{R: 0x80, G: 0x80, B: 0x80, A: 26}
	colorFlareText  = drawing.ColorFromHex("808080")
)

var (
	dashed = []float64{5, 3}
	dotted = []float64{1, 2}
)

func rawStyle() chart.Style {
	return chart.Style{StrokeWidth: 1, StrokeColor: colorRaw}
}

func trendStyle() chart.Style {
	return chart.Style{StrokeWidth: 2, StrokeColor: colorTrend}
}

func fluxStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeWidth: 2, StrokeColor: c}
}

func markerStyle(m solar.Marker) chart.Style {
	s := chart.Style{StrokeWidth: 1, StrokeColor: colorMarker, StrokeDashArray: dashed}
	if m.Dotted {
		s.StrokeDashArray = dotted
	}
	return s
}

func flareStyle() chart.Style {
	return chart.Style{StrokeWidth: 3, StrokeColor: colorFlare}
}

// placeholderStyle draws an invisible line. The chart needs at least one
// visible series to render, even when a panel has no data.
func placeholderStyle() chart.Style {
	return chart.Style{StrokeWidth: 1, StrokeColor: drawing.ColorTransparent}
}

func labelStyle(c drawing.Color, size float64) chart.Style {
	return chart.Style{
		FontSize:    size,
		FontColor:   c,
		FillColor:   drawing.ColorTransparent,
		StrokeColor: drawing.ColorTransparent,
	}
}

// tickStep picks the x tick spacing for a window of the given length.
func tickStep(span time.Duration) time.Duration {
	switch days := span.Hours() / 24; {
	case days <= 2:
		return 3 * time.Hour
	case days <= 4:
		return 6 * time.Hour
	case days <= 8:
		return 12 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// timeTicks places a tick every step from start through end inclusive.
func timeTicks(start, end time.Time, step time.Duration) []chart.Tick {
	var ticks []chart.Tick
	for t := start; !t.After(end); t = t.Add(step) {
		label := t.Format("15:04")
		if step >= 24*time.Hour {
			label = t.Format("02/01")
		}
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: label})
	}
	return ticks
}

func timeRange(start, end time.Time) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: chart.TimeToFloat64(start), Max: chart.TimeToFloat64(end)}
}

// decadeTicks labels the flux axis 1e-8 .. 1e-3.
func decadeTicks() []chart.Tick {
	var ticks []chart.Tick
	for e := int(fluxLogMin); e <= int(fluxLogMax); e++ {
		ticks = append(ticks, chart.Tick{Value: float64(e), Label: fmt.Sprintf("1e%d", e)})
	}
	return ticks
}

// classTicks puts the flare class letters on their decade.
func classTicks() []chart.Tick {
	ticks := make([]chart.Tick, 0, len(solar.ClassLetters)+1)
	for i, letter := range solar.ClassLetters {
		ticks = append(ticks, chart.Tick{Value: fluxLogMin + float64(i), Label: letter})
	}
	// Keeps the secondary axis spanning the full panel.
	return append(ticks, chart.Tick{Value: fluxLogMax, Label: ""})
}

// signalTicks spaces dB ticks on round numbers.
func signalTicks(lo, hi float64) []chart.Tick {
	step := 5.0
	if hi-lo > 60 {
		step = 10
	}
	var ticks []chart.Tick
	for v := math.Ceil(lo/step) * step; v <= hi; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
