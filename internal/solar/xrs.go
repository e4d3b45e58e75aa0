package solar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"path"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/guregu/null/v6"
)

// GOES-R L2 XRS variable names.
const (
	xrsTimeVar  = "time"
	xrsShortVar = "xrsa_flux"
	xrsLongVar  = "xrsb_flux"
)

// ErrNoArchive is returned by HistoricalFlux when no archive is configured.
var ErrNoArchive = errors.New("no GOES archive configured")

// xrsEpoch is the zero of the L2 time variable (J2000, seconds).
var xrsEpoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// XRSArchive locates the NCEI GOES-R XRS 1-minute science files, one
// netCDF file per UTC day.
type XRSArchive struct {
	BaseURL   string
	Satellite int
	Version   string
}

// DayURL returns the file for the UTC day containing day.
func (a XRSArchive) DayURL(day time.Time) string {
	d := day.UTC()
	return fmt.Sprintf("%s/goes%d/l2/data/xrsf-l2-avg1m_science/%04d/%02d/sci_xrsf-l2-avg1m_g%d_d%s_%s.nc",
		strings.TrimRight(a.BaseURL, "/"), a.Satellite, d.Year(), int(d.Month()),
		a.Satellite, d.Format("20060102"), a.Version)
}

// DayURLs lists the files covering [start, end).
func (a XRSArchive) DayURLs(start, end time.Time) []string {
	s := start.UTC()
	d := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	var urls []string
	for ; d.Before(end); d = d.AddDate(0, 0, 1) {
		urls = append(urls, a.DayURL(d))
	}
	return urls
}

// xrsFile gives a byte slice the Close method netcdf.New expects.
type xrsFile struct {
	*bytes.Reader
}

func (xrsFile) Close() error { return nil }

// ParseXRS reads the two flux channels from a GOES-R L2 XRS netCDF file
// (classic CDF or netCDF-4). Fill values and non-positive flux are missing.
func ParseXRS(data []byte) ([]FluxSample, error) {
	g, err := netcdf.New(xrsFile{bytes.NewReader(data)})
	if err != nil {
		return nil, fmt.Errorf("open XRS netCDF: %w", err)
	}
	defer g.Close()

	seconds, err := xrsVariable(g, xrsTimeVar)
	if err != nil {
		return nil, err
	}
	short, err := xrsVariable(g, xrsShortVar)
	if err != nil {
		return nil, err
	}
	long, err := xrsVariable(g, xrsLongVar)
	if err != nil {
		return nil, err
	}
	if len(short) != len(seconds) || len(long) != len(seconds) {
		return nil, fmt.Errorf("XRS variables disagree in length: time %d, %s %d, %s %d",
			len(seconds), xrsShortVar, len(short), xrsLongVar, len(long))
	}

	samples := make([]FluxSample, 0, len(seconds))
	for i, sec := range seconds {
		if math.IsNaN(sec) || math.IsInf(sec, 0) {
			continue
		}
		t := xrsEpoch.Add(time.Duration(sec * float64(time.Second))).Round(time.Millisecond)
		samples = append(samples, FluxSample{
			Time:  t,
			Short: xrsFlux(short[i]),
			Long:  xrsFlux(long[i]),
		})
	}
	return samples, nil
}

func xrsVariable(g api.Group, name string) ([]float64, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("XRS variable %s: %w", name, err)
	}
	switch vals := v.Values.(type) {
	case []float64:
		return vals, nil
	case []float32:
		return widen(vals), nil
	case []int64:
		return widen(vals), nil
	case []int32:
		return widen(vals), nil
	case []uint32:
		return widen(vals), nil
	default:
		return nil, fmt.Errorf("XRS variable %s: unsupported type %T", name, v.Values)
	}
}

func widen[T float32 | int64 | int32 | uint32](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// xrsFlux drops NaN, the -9999 fill and other non-positive readings.
func xrsFlux(v float64) null.Float {
	if !(v > 0) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

// SetArchive enables HistoricalFlux.
func (c *Client) SetArchive(a XRSArchive) *Client {
	c.archive = a
	return c
}

// HistoricalFlux reads the archived science files for [start, end). A day
// that cannot be fetched or decoded is logged and skipped; the error is
// reserved for cancellation and for a window where no day could be read.
func (c *Client) HistoricalFlux(ctx context.Context, start, end time.Time) ([]FluxSample, error) {
	if c.archive.BaseURL == "" {
		return nil, ErrNoArchive
	}

	var samples []FluxSample
	read := 0
	for _, u := range c.archive.DayURLs(start, end) {
		body, err := c.source.Fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("GOES archive %s: %v", path.Base(u), err)
			continue
		}
		day, err := ParseXRS(body)
		if err != nil {
			log.Printf("GOES archive %s: %v", path.Base(u), err)
			continue
		}
		read++
		samples = append(samples, day...)
	}
	if read == 0 {
		return nil, fmt.Errorf("no GOES archive files readable for %s to %s",
			start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))
	}
	return FilterFlux(samples, start, end), nil
}
