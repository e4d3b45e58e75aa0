package solar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/fetch"
)

// FluxHistory is how far back the 7-day GOES feed reaches.
const FluxHistory = 7 * 24 * time.Hour

const swpcTimeLayout = "2006-01-02T15:04:05Z"

// fluxRecord is one element of xrays-7-day.json.
type fluxRecord struct {
	TimeTag      string     `json:"time_tag"`
	Flux         null.Float `json:"flux"`
	ObservedFlux null.Float `json:"observed_flux"`
	Energy       string     `json:"energy"`
}

// flareRecord is one element of xray-flares-latest.json.
type flareRecord struct {
	BeginTime    string `json:"begin_time"`
	MaxTime      string `json:"max_time"`
	MaxClass     string `json:"max_class"`
	CurrentClass string `json:"current_class"`
	EndTime      string `json:"end_time"`
}

// FluxAvailable reports whether a window starting at start is covered by
// the 7-day feed.
func FluxAvailable(start, now time.Time) bool {
	return now.Sub(start) <= FluxHistory
}

// ParseFlux joins the two XRS channels of the GOES JSON feed by timestamp.
// Records on other channels or with an unparseable time are skipped. A
// non-positive flux is treated as missing.
func ParseFlux(data []byte) ([]FluxSample, error) {
	var records []fluxRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode GOES flux: %w", err)
	}

	byTime := make(map[time.Time]*FluxSample)
	skipped := 0
	for _, rec := range records {
		if rec.Energy != EnergyShort && rec.Energy != EnergyLong {
			continue
		}
		t, err := time.Parse(swpcTimeLayout, rec.TimeTag)
		if err != nil {
			skipped++
			continue
		}

		flux := rec.ObservedFlux
		if !flux.Valid {
			flux = rec.Flux
		}
		if flux.Valid && !(flux.Float64 > 0) {
			flux = null.Float{}
		}

		s, ok := byTime[t]
		if !ok {
			s = &FluxSample{Time: t}
			byTime[t] = s
		}
		if rec.Energy == EnergyShort {
			s.Short = flux
		} else {
			s.Long = flux
		}
	}
	if skipped > 0 {
		log.Printf("GOES flux: skipped %d records with bad time_tag", skipped)
	}

	samples := make([]FluxSample, 0, len(byTime))
	for _, s := range byTime {
		samples = append(samples, *s)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Time.Before(samples[j].Time) })
	return samples, nil
}

// FilterFlux keeps samples in [start, end).
func FilterFlux(samples []FluxSample, start, end time.Time) []FluxSample {
	var out []FluxSample
	for _, s := range samples {
		if !s.Time.Before(start) && s.Time.Before(end) {
			out = append(out, s)
		}
	}
	return out
}

// ParseLatestFlares decodes the SWPC latest-flare feed. The class is the
// maximum class, or the current class while the flare is still rising.
func ParseLatestFlares(data []byte) ([]FlareEvent, error) {
	var records []flareRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode latest flares: %w", err)
	}

	var events []FlareEvent
	for _, rec := range records {
		t, err := time.Parse(swpcTimeLayout, rec.BeginTime)
		if err != nil {
			continue
		}
		class := rec.MaxClass
		if class == "" || class == "Unk" {
			class = rec.CurrentClass
		}
		events = append(events, FlareEvent{
			Start:  t,
			Peak:   swpcTime(rec.MaxTime),
			End:    swpcTime(rec.EndTime),
			Class:  class,
			Source: SourceLatest,
		})
	}
	return events, nil
}

// swpcTime parses an optional feed timestamp; "Unk" and blanks are null.
func swpcTime(s string) null.Time {
	t, err := time.Parse(swpcTimeLayout, s)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}

// Client fetches solar data through a fetch.Source.
type Client struct {
	source    fetch.Source
	fluxURL   string
	flaresURL string
	hekURL    string
	archive   XRSArchive
}

// NewClient creates a client for the given feed URLs.
func NewClient(source fetch.Source, fluxURL, flaresURL, hekURL string) *Client {
	return &Client{source: source, fluxURL: fluxURL, flaresURL: flaresURL, hekURL: hekURL}
}

// Flux returns the GOES samples inside [start, end).
func (c *Client) Flux(ctx context.Context, start, end time.Time) ([]FluxSample, error) {
	body, err := c.source.Fetch(ctx, c.fluxURL)
	if err != nil {
		return nil, err
	}
	samples, err := ParseFlux(body)
	if err != nil {
		return nil, err
	}
	return FilterFlux(samples, start, end), nil
}

// LatestFlares returns every event in the latest-flare feed.
func (c *Client) LatestFlares(ctx context.Context) ([]FlareEvent, error) {
	body, err := c.source.Fetch(ctx, c.flaresURL)
	if err != nil {
		return nil, err
	}
	return ParseLatestFlares(body)
}
