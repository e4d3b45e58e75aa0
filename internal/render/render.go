// Package render draws the two-panel monitor plot: GOES X-ray flux on top,
// VLF signal strength below, with sun event markers and flare onsets on
// both panels.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/guregu/null/v6"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/dsp"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
)

// DefaultMinSignal is the lower limit of the dB axis.
const DefaultMinSignal = 30.0

// Plot is everything drawn in one image. Any series may be empty.
type Plot struct {
	Title    string
	Subtitle string
	Start    time.Time
	End      time.Time

	Signal dsp.Series
	Trend  []null.Float // same length as Signal, or nil
	Flux   []solar.FluxSample
	Flares []solar.FlareEvent
	Sun    []solar.SunTimes

	MinSignal float64
}

func (p *Plot) inWindow(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Render draws the plot into an image.
func Render(p Plot) (image.Image, error) {
	if !p.End.After(p.Start) {
		return nil, fmt.Errorf("empty time range %s - %s", p.Start, p.End)
	}
	if p.Trend != nil && len(p.Trend) != len(p.Signal.Values) {
		return nil, fmt.Errorf("trend length %d does not match signal length %d", len(p.Trend), len(p.Signal.Values))
	}

	top, err := renderChart(fluxChart(&p))
	if err != nil {
		return nil, fmt.Errorf("flux panel: %w", err)
	}
	bottom, err := renderChart(signalChart(&p))
	if err != nil {
		return nil, fmt.Errorf("signal panel: %w", err)
	}

	out := image.NewRGBA(image.Rect(0, 0, Width, headerHeight+fluxHeight+signalHeight))
	draw.Draw(out, out.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	drawHeader(out, p)
	draw.Draw(out, image.Rect(0, headerHeight, Width, headerHeight+fluxHeight), top, top.Bounds().Min, draw.Over)
	draw.Draw(out, image.Rect(0, headerHeight+fluxHeight, Width, headerHeight+fluxHeight+signalHeight), bottom, bottom.Bounds().Min, draw.Over)
	return out, nil
}

func renderChart(c chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

type legendEntry struct {
	label string
	color drawing.Color
}

var (
	fluxLegend = []legendEntry{
		{"GOES 0.05 - 0.4 nm", colorShort},
		{"GOES 0.1 - 0.8 nm", colorLong},
	}
	signalLegend = []legendEntry{
		{"VLF (Raw Data)", drawing.ColorFromHex("494949")},
		{"VLF Running Mean", colorTrend},
	}
)

// drawHeader writes the title, subtitle and legends above the panels.
func drawHeader(dst *image.RGBA, p Plot) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(colorTitle), Face: face}

	title := p.Title
	tw := dr.MeasureString(title).Ceil()
	dr.Dot = fixed.P((Width-tw)/2, 18)
	dr.DrawString(title)

	if p.Subtitle != "" {
		sw := dr.MeasureString(p.Subtitle).Ceil()
		dr.Dot = fixed.P((Width-sw)/2, 34)
		dr.DrawString(p.Subtitle)
	}

	drawLegend(dst, fluxLegend, 80, headerHeight-8)
	drawLegend(dst, signalLegend, Width/2+160, headerHeight-8)
}

func drawLegend(dst *image.RGBA, entries []legendEntry, x, baseline int) {
	face := basicfont.Face7x13
	for _, e := range entries {
		swatch := image.Rect(x, baseline-6, x+24, baseline-3)
		draw.Draw(dst, swatch, image.NewUniform(color.Color(e.color)), image.Point{}, draw.Over)

		dr := &font.Drawer{Dst: dst, Src: image.NewUniform(colorTitle), Face: face, Dot: fixed.P(x+30, baseline)}
		dr.DrawString(e.label)
		x += 30 + dr.MeasureString(e.label).Ceil() + 24
	}
}

// WritePNG encodes img to path through a temporary file.
func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// RenderFile draws the plot and saves it as a PNG.
func RenderFile(path string, p Plot) error {
	img, err := Render(p)
	if err != nil {
		return err
	}
	return WritePNG(path, img)
}
