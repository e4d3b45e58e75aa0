// Package vlf provides SuperSID receiver log retrieval and parsing.
//
// Receiver logs are published as one CSV per receiver, transmitter and UTC
// day, with a fixed 16-line header followed by "datetime, signal" rows.
package vlf

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HeaderLines is the number of lines preceding the data rows in every file.
const HeaderLines = 16

// TimeLayout is the row timestamp format. Fractional seconds are accepted
// when present.
const TimeLayout = "2006-01-02 15:04:05"

// Reading is a single raw receiver sample.
type Reading struct {
	Time time.Time
	Raw  float64
}

// Header holds the "# Key = Value" pairs found in a file header.
type Header map[string]string

// Get returns the value for key, or "" if absent.
func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	return h[key]
}

// DayFile is one day's log for a receiver/transmitter pair.
type DayFile struct {
	Date     time.Time
	URL      string
	Header   Header
	Readings []Reading
}

// Pair is a normalised receiver/transmitter combination.
type Pair struct {
	Receiver    string // lower case, e.g. "dunsink"
	Transmitter string // lower case, e.g. "dho38"
}

// NewPair sanitises both identifiers.
func NewPair(receiver, transmitter string) (Pair, error) {
	rx, err := NormalizeStation(receiver)
	if err != nil {
		return Pair{}, fmt.Errorf("receiver: %w", err)
	}
	tx, err := NormalizeStation(transmitter)
	if err != nil {
		return Pair{}, fmt.Errorf("transmitter: %w", err)
	}
	return Pair{Receiver: rx, Transmitter: tx}, nil
}

// ReceiverTitle returns the receiver name as used in file names ("Dunsink").
func (p Pair) ReceiverTitle() string {
	return cases.Title(language.English).String(p.Receiver)
}

// TransmitterUpper returns the transmitter callsign ("DHO38").
func (p Pair) TransmitterUpper() string {
	return strings.ToUpper(p.Transmitter)
}

// DayURL builds the file URL for one UTC day:
//
//	<base>/<receiver>/super_sid/<yyyy>/<mm>/<dd>/csv/<Receiver>_<TRANSMITTER>_<yyyy-mm-dd>.csv
func (p Pair) DayURL(baseURL string, date time.Time) string {
	date = date.UTC()
	return fmt.Sprintf("%s/%s/super_sid/%s/csv/%s_%s_%s.csv",
		strings.TrimRight(baseURL, "/"),
		p.Receiver,
		date.Format("2006/01/02"),
		p.ReceiverTitle(),
		p.TransmitterUpper(),
		date.Format("2006-01-02"),
	)
}
