package solar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/fetch"
)

// ErrNoQuery is returned when the source cannot send query parameters,
// e.g. when replaying a local archive.
var ErrNoQuery = errors.New("source does not support catalog queries")

const (
	hekTimeLayout  = "2006-01-02T15:04:05"
	hekResultLimit = "500"
)

// hekTimeLayouts are the formats seen in event_starttime.
var hekTimeLayouts = []string{
	hekTimeLayout,
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
}

type hekResponse struct {
	Result []struct {
		EventStartTime string `json:"event_starttime"`
		EventPeakTime  string `json:"event_peaktime"`
		EventEndTime   string `json:"event_endtime"`
		GOESClass      string `json:"fl_goescls"`
	} `json:"result"`
	Overmax bool `json:"overmax"`
}

// HEKParams builds the catalog query for GOES flares above threshold that
// start within [start, end).
func HEKParams(start, end time.Time, threshold string) map[string]string {
	return map[string]string{
		"cosec":           "2",
		"cmd":             "search",
		"type":            "column",
		"event_type":      "fl",
		"event_starttime": start.UTC().Format(hekTimeLayout),
		"event_endtime":   end.UTC().Format(hekTimeLayout),
		"event_coordsys":  "helioprojective",
		"x1":              "-1200",
		"x2":              "1200",
		"y1":              "-1200",
		"y2":              "1200",
		"param0":          "FL_GOESCls",
		"op0":             ">",
		"value0":          strings.ToUpper(threshold),
		"param1":          "OBS_Observatory",
		"op1":             "=",
		"value1":          "GOES",
		"result_limit":    hekResultLimit,
	}
}

// ParseHEK decodes a catalog response. Events without a parseable start
// time are dropped.
func ParseHEK(data []byte) ([]FlareEvent, error) {
	var resp hekResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode HEK response: %w", err)
	}

	if resp.Overmax {
		log.Printf("HEK catalog truncated at %s events; later flares are missing", hekResultLimit)
	}

	events := make([]FlareEvent, 0, len(resp.Result))
	for _, r := range resp.Result {
		t, ok := parseHEKTime(r.EventStartTime)
		if !ok {
			continue
		}
		events = append(events, FlareEvent{
			Start:  t,
			Peak:   optionalHEKTime(r.EventPeakTime),
			End:    optionalHEKTime(r.EventEndTime),
			Class:  strings.TrimSpace(r.GOESClass),
			Source: SourceHEK,
		})
	}
	return events, nil
}

func optionalHEKTime(s string) null.Time {
	t, ok := parseHEKTime(s)
	if !ok {
		return null.Time{}
	}
	return null.TimeFrom(t)
}

func parseHEKTime(s string) (time.Time, bool) {
	for _, layout := range hekTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CatalogFlares queries HEK for GOES flares above threshold (e.g. "C6.0").
func (c *Client) CatalogFlares(ctx context.Context, start, end time.Time, threshold string) ([]FlareEvent, error) {
	if _, err := ClassFlux(threshold); err != nil {
		return nil, fmt.Errorf("flare threshold: %w", err)
	}
	q, ok := c.source.(fetch.QuerySource)
	if !ok {
		return nil, ErrNoQuery
	}
	body, err := q.FetchQuery(ctx, c.hekURL, HEKParams(start, end, threshold))
	if err != nil {
		return nil, err
	}
	return ParseHEK(body)
}
