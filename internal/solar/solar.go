// Package solar provides the solar side of the monitor.
// It parses GOES X-ray flux and flare feeds from NOAA SWPC, queries the
// HEK flare catalog and computes daily sun event times for the receiver
// site.
package solar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// GOES XRS energy channels.
const (
	EnergyShort = "0.05-0.4nm"
	EnergyLong  = "0.1-0.8nm"
)

// Flare event sources.
const (
	SourceLatest = "swpc-latest"
	SourceHEK    = "hek"
)

// ErrInvalidClass is returned for a flare class that is not A/B/C/M/X.
var ErrInvalidClass = errors.New("invalid flare class")

// FluxSample is one GOES timestamp with both XRS channels (W/m^2).
type FluxSample struct {
	Time  time.Time
	Short null.Float // 0.05-0.4 nm
	Long  null.Float // 0.1-0.8 nm
}

// FlareEvent marks the onset of a flare.
type FlareEvent struct {
	Start  time.Time
	Peak   null.Time
	End    null.Time
	Class  string
	Source string
}

// classBase maps the class letter to the flux of magnitude 1.0.
var classBase = map[byte]float64{
	'A': 1e-8,
	'B': 1e-7,
	'C': 1e-6,
	'M': 1e-5,
	'X': 1e-4,
}

// ClassLetters lists the flare class letters in increasing order.
var ClassLetters = []string{"A", "B", "C", "M", "X"}

// ParseClass splits a class such as "M2.5" into letter and magnitude.
// A bare letter has magnitude 1.
func ParseClass(class string) (byte, float64, error) {
	class = strings.ToUpper(strings.TrimSpace(class))
	if class == "" {
		return 0, 0, fmt.Errorf("%w: empty", ErrInvalidClass)
	}
	letter := class[0]
	if _, ok := classBase[letter]; !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClass, class)
	}
	if len(class) == 1 {
		return letter, 1, nil
	}
	mag, err := strconv.ParseFloat(class[1:], 64)
	if err != nil || mag <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClass, class)
	}
	return letter, mag, nil
}

// ClassFlux returns the peak long-channel flux a class stands for.
func ClassFlux(class string) (float64, error) {
	letter, mag, err := ParseClass(class)
	if err != nil {
		return 0, err
	}
	return classBase[letter] * mag, nil
}

// Classify formats a long-channel flux as a flare class, e.g. 3.2e-6 -> "C3.2".
// Non-positive flux yields "".
func Classify(flux float64) string {
	if !(flux > 0) || math.IsInf(flux, 1) {
		return ""
	}
	letter := byte('A')
	for _, l := range []byte{'B', 'C', 'M', 'X'} {
		if flux >= classBase[l] {
			letter = l
		}
	}
	return fmt.Sprintf("%c%.1f", letter, flux/classBase[letter])
}

// MergeFlares concatenates the two event lists. Duplicates are kept.
func MergeFlares(latest, catalog []FlareEvent) []FlareEvent {
	out := make([]FlareEvent, 0, len(latest)+len(catalog))
	out = append(out, latest...)
	return append(out, catalog...)
}
