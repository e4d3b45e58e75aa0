// Package timeline holds the shared time axis: the requested day window and
// the as-of join that lines flux samples up with VLF readings.
package timeline

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Window is the half-open range [Start, Start+Days) in UTC.
type Window struct {
	Start time.Time
	Days  int
}

// NewWindow truncates start to UTC midnight.
func NewWindow(start time.Time, days int) (Window, error) {
	if days < 1 {
		return Window{}, fmt.Errorf("day range must be at least 1, got %d", days)
	}
	s := start.UTC()
	return Window{
		Start: time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC),
		Days:  days,
	}, nil
}

// End returns the exclusive upper bound.
func (w Window) End() time.Time {
	return w.Start.Add(time.Duration(w.Days) * day)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End())
}

// Dates returns the UTC midnight of every day in the window.
func (w Window) Dates() []time.Time {
	dates := make([]time.Time, 0, w.Days)
	for i := 0; i < w.Days; i++ {
		dates = append(dates, w.Start.AddDate(0, 0, i))
	}
	return dates
}

// String formats the window for log lines.
func (w Window) String() string {
	return fmt.Sprintf("%s to %s (%d day(s))",
		w.Start.Format("2006-01-02"), w.End().Add(-time.Second).Format("2006-01-02"), w.Days)
}

// SinceStart returns how long before now the window begins.
func (w Window) SinceStart(now time.Time) time.Duration {
	return now.Sub(w.Start)
}
