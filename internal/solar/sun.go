package solar

import (
	"time"

	"github.com/guregu/null/v6"
	"github.com/sixdouglas/suncalc"
)

// SunTimes are the sun events of one UTC day at a fixed site. Dawn and dusk
// are civil twilight (sun 6 degrees below the horizon). An event is invalid
// when it does not happen that day (polar day or night).
type SunTimes struct {
	Date    time.Time
	Dawn    null.Time
	Sunrise null.Time
	Noon    null.Time
	Sunset  null.Time
	Dusk    null.Time
}

// Marker is a single labelled sun event.
type Marker struct {
	Time   time.Time
	Label  string
	Dotted bool // twilight events
}

// Markers lists the valid events in time order.
func (s SunTimes) Markers() []Marker {
	var out []Marker
	add := func(t null.Time, label string, dotted bool) {
		if t.Valid {
			out = append(out, Marker{Time: t.Time, Label: label, Dotted: dotted})
		}
	}
	add(s.Dawn, "Dawn", true)
	add(s.Sunrise, "Sunrise", false)
	add(s.Noon, "Solar Noon", false)
	add(s.Sunset, "Sunset", false)
	add(s.Dusk, "Dusk", true)
	return out
}

// SunTimesFor computes the sun events of the UTC day containing date.
func SunTimesFor(date time.Time, lat, lon float64) SunTimes {
	d := date.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	// suncalc picks the solar cycle nearest the instant given; UTC noon
	// keeps it on this day for any longitude.
	times := suncalc.GetTimes(day.Add(12*time.Hour), lat, lon)
	event := func(name suncalc.DayTimeName) null.Time {
		return sunEvent(day, times[name].Value)
	}
	return SunTimes{
		Date:    day,
		Dawn:    event(suncalc.Dawn),
		Sunrise: event(suncalc.Sunrise),
		Noon:    event(suncalc.SolarNoon),
		Sunset:  event(suncalc.Sunset),
		Dusk:    event(suncalc.Dusk),
	}
}

// sunEvent rejects events suncalc could not place. A missing event comes
// back as the zero time, or as a far-off instant on some platforms.
func sunEvent(day, t time.Time) null.Time {
	if t.IsZero() {
		return null.Time{}
	}
	t = t.UTC()
	if t.Before(day.Add(-12*time.Hour)) || t.After(day.Add(36*time.Hour)) {
		return null.Time{}
	}
	return null.TimeFrom(t.Round(time.Second))
}

// SunTimesRange computes SunTimesFor for days consecutive days from start.
func SunTimesRange(start time.Time, days int, lat, lon float64) []SunTimes {
	out := make([]SunTimes, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, SunTimesFor(start.AddDate(0, 0, i), lat, lon))
	}
	return out
}
