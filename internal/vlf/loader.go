package vlf

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/common"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/fetch"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/timeline"
)

// Loader fetches one file per day from a Source and concatenates the readings.
type Loader struct {
	source  fetch.Source
	baseURL string
}

// NewLoader creates a loader reading day files below baseURL.
func NewLoader(source fetch.Source, baseURL string) *Loader {
	return &Loader{source: source, baseURL: baseURL}
}

// Result is the outcome of a Load call.
type Result struct {
	Pair     Pair
	Days     []DayFile // successfully parsed days, in date order
	Readings []Reading // all readings inside the window, in file order
	Stats    *common.FetchStats
}

// Header returns the first non-empty file header, if any.
func (r *Result) Header() Header {
	for _, d := range r.Days {
		if len(d.Header) > 0 {
			return d.Header
		}
	}
	return nil
}

// DayURLs lists the file URL for every day in the window.
func (l *Loader) DayURLs(pair Pair, w timeline.Window) []string {
	dates := w.Dates()
	urls := make([]string, len(dates))
	for i, d := range dates {
		urls[i] = pair.DayURL(l.baseURL, d)
	}
	return urls
}

// Load requests each day in the window exactly once. A day that cannot be
// fetched or parsed is logged and skipped; the returned error is reserved for
// invalid station identifiers and context cancellation.
func (l *Loader) Load(ctx context.Context, receiver, transmitter string, w timeline.Window) (*Result, error) {
	pair, err := NewPair(receiver, transmitter)
	if err != nil {
		return nil, err
	}

	res := &Result{Pair: pair, Stats: common.NewFetchStats()}

	for _, date := range w.Dates() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		url := pair.DayURL(l.baseURL, date)
		log.Printf("Checking %s", date.Format("2006-01-02"))

		day, n, err := l.loadDay(ctx, url, date)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Printf("No file available for %s: %v", date.Format("2006-01-02"), err)
			res.Stats.AddSkipped()
			continue
		}

		kept := day.Readings[:0]
		for _, r := range day.Readings {
			if w.Contains(r.Time) {
				kept = append(kept, r)
			}
		}
		if dropped := len(day.Readings) - len(kept); dropped > 0 {
			log.Printf("[%s] Dropped %d readings outside %s", date.Format("2006-01-02"), dropped, w)
		}
		day.Readings = kept

		res.Days = append(res.Days, day)
		res.Readings = append(res.Readings, kept...)
		res.Stats.AddFetched(len(kept), n)
	}

	return res, nil
}

func (l *Loader) loadDay(ctx context.Context, url string, date time.Time) (DayFile, int, error) {
	body, err := l.source.Fetch(ctx, url)
	if err != nil {
		return DayFile{}, 0, err
	}

	var stats ParseStats
	header, readings, err := ParseFile(bytes.NewReader(body), &stats)
	if err != nil {
		return DayFile{}, len(body), fmt.Errorf("parse %s: %w", url, err)
	}
	if stats.FailedRows > 0 {
		log.Printf("[%s] Parsed %d rows, %d failed", date.Format("2006-01-02"), stats.SuccessfullyParsed, stats.FailedRows)
	}

	return DayFile{Date: date, URL: url, Header: header, Readings: readings}, len(body), nil
}
