// Package monitor runs the fetch and transform stages shared by the plot,
// ingest and export commands.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/guregu/null/v6"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/common"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/dsp"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/fetch"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/render"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/timeline"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/vlf"
)

// Sources selects where data comes from.
type Sources struct {
	Data   fetch.Source
	Replay bool // Data is a local mirror that may hold an old copy of the 7-day GOES feed
}

// Dataset is one window of VLF and solar data, ready to plot or store.
type Dataset struct {
	Window timeline.Window
	Pair   vlf.Pair
	Header vlf.Header

	Readings []vlf.Reading
	Signal   dsp.Series
	Trend    []null.Float // nil when there are too few samples to smooth
	Flux     []solar.FluxSample
	Flares   []solar.FlareEvent
	Sun      []solar.SunTimes

	Stats *common.FetchStats
}

// Collect fetches and transforms everything for the window. Remote failures
// are logged and leave the affected series empty; the error is reserved for
// invalid stations and cancellation.
func Collect(ctx context.Context, cfg *common.Config, w timeline.Window, src Sources, now time.Time) (*Dataset, error) {
	loader := vlf.NewLoader(src.Data, cfg.BaseURL)
	res, err := loader.Load(ctx, cfg.Receiver, cfg.Transmitter, w)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Window:   w,
		Pair:     res.Pair,
		Header:   res.Header(),
		Readings: res.Readings,
		Stats:    res.Stats,
	}

	times := make([]time.Time, len(res.Readings))
	raw := make([]float64, len(res.Readings))
	for i, r := range res.Readings {
		times[i], raw[i] = r.Time, r.Raw
	}
	ds.Signal = dsp.DecibelSeries(times, raw)

	if err := ds.smooth(cfg.SmoothWindow, cfg.SmoothPolyorder); err != nil {
		return nil, err
	}

	sc := solar.NewClient(src.Data, cfg.GOESFluxURL, cfg.GOESFlaresURL, cfg.HEKURL).SetArchive(goesArchive(cfg))

	flux, err := collectFlux(ctx, sc, w, src.Replay, now)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("GOES flux unavailable: %v", err)
	}
	ds.Flux = flux

	latest, err := sc.LatestFlares(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("Latest flare list unavailable: %v", err)
	}

	catalog, err := sc.CatalogFlares(ctx, w.Start, w.End(), cfg.FlareThreshold)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, solar.ErrNoQuery):
		log.Printf("Flare catalog skipped: %v", err)
	default:
		log.Printf("Query failed, site may be temporarily unreachable. (%v)", err)
	}

	ds.Flares = solar.MergeFlares(latest, catalog)
	ds.Sun = solar.SunTimesRange(w.Start, w.Days, cfg.Site.Latitude, cfg.Site.Longitude)

	log.Printf("Collected %d readings, %d flux samples, %d flare events", ds.Signal.Len(), len(ds.Flux), len(ds.Flares))
	return ds, nil
}

// collectFlux reads the 7-day feed while it still covers the window and the
// NCEI science archive after that. A replayed mirror may hold a feed copy
// taken while the window was recent, so it is tried first.
func collectFlux(ctx context.Context, sc *solar.Client, w timeline.Window, replay bool, now time.Time) ([]solar.FluxSample, error) {
	if solar.FluxAvailable(w.Start, now) {
		return sc.Flux(ctx, w.Start, w.End())
	}
	if replay {
		flux, err := sc.Flux(ctx, w.Start, w.End())
		if len(flux) > 0 {
			return flux, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			log.Printf("Archived GOES feed unusable: %v", err)
		}
	}
	log.Printf("GOES 7-day feed does not reach back to %s; reading the science archive", w.Start.Format("2006-01-02"))
	return sc.HistoricalFlux(ctx, w.Start, w.End())
}

func goesArchive(cfg *common.Config) solar.XRSArchive {
	return solar.XRSArchive{
		BaseURL:   cfg.GOESArchiveURL,
		Satellite: cfg.GOESSatellite,
		Version:   cfg.GOESArchiveVersion,
	}
}

// smooth computes the trend, shrinking the window to fit short series.
func (d *Dataset) smooth(window, polyorder int) error {
	n := d.Signal.Len()
	fit, ok := dsp.FitWindow(n, window, polyorder)
	if !ok {
		if n > 0 {
			log.Printf("Too few samples (%d) to smooth; trend omitted", n)
		}
		return nil
	}
	if fit != window {
		log.Printf("Smoothing window reduced from %d to %d samples", window, fit)
	}

	trend, err := dsp.SavGol(d.Signal.Values, fit, polyorder)
	if err != nil {
		return fmt.Errorf("smoothing: %w", err)
	}
	d.Trend = trend
	return nil
}

// Rows aligns the signal with the flux samples.
func (d *Dataset) Rows(tolerance time.Duration) ([]timeline.Row, error) {
	return timeline.Align(d.Signal, d.Trend, d.Flux, tolerance)
}

// Title returns "SuperSid <Receiver>, <Country> - <TRANSMITTER>".
func (d *Dataset) Title(cfg *common.Config) string {
	country := cfg.Site.Country
	if rx, ok := vlf.LookupReceiver(d.Pair.Receiver); ok {
		country = rx.Country
	}
	return fmt.Sprintf("SuperSid %s, %s - %s", d.Pair.ReceiverTitle(), country, d.Pair.TransmitterUpper())
}

// Plot assembles the render input.
func (d *Dataset) Plot(cfg *common.Config) render.Plot {
	p := render.Plot{
		Title:     d.Title(cfg),
		Start:     d.Window.Start,
		End:       d.Window.End(),
		Signal:    d.Signal,
		Trend:     d.Trend,
		Flux:      d.Flux,
		Flares:    d.Flares,
		Sun:       d.Sun,
		MinSignal: cfg.MinSignal,
	}
	if tx, ok := vlf.LookupTransmitter(d.Pair.Transmitter); ok {
		p.Subtitle = tx.Describe()
	}
	return p
}

// ArchiveURLs lists every remote file a window needs: one VLF log per day,
// the GOES flux (the 7-day feed, or one science file per day once the feed
// no longer covers the window) and the latest-flare feed.
func ArchiveURLs(cfg *common.Config, w timeline.Window, now time.Time) ([]string, error) {
	pair, err := vlf.NewPair(cfg.Receiver, cfg.Transmitter)
	if err != nil {
		return nil, err
	}
	urls := vlf.NewLoader(nil, cfg.BaseURL).DayURLs(pair, w)
	if solar.FluxAvailable(w.Start, now) {
		urls = append(urls, cfg.GOESFluxURL)
	} else {
		urls = append(urls, goesArchive(cfg).DayURLs(w.Start, w.End())...)
	}
	return append(urls, cfg.GOESFlaresURL), nil
}
