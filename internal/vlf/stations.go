package vlf

import (
	"fmt"
	"sort"
)

// stations.go - Known SuperSID receivers and the VLF/LF transmitters they monitor.
// Frequencies are in kHz; band classes follow the ITU decades (ELF < 3 kHz,
// VLF 3-30 kHz, LF 30-300 kHz, MF 300 kHz - 3 MHz).

// Band identifies an ITU frequency class.
type Band int32

const (
	BandUnknown Band = iota
	BandELF
	BandVLF
	BandLF
	BandMF
)

var bandNames = [...]string{"Unknown", "ELF", "VLF", "LF", "MF"}

func (b Band) String() string {
	if int(b) < len(bandNames) {
		return bandNames[b]
	}
	return "Unknown"
}

// GetBand classifies a frequency in kHz.
func GetBand(freqKHz float64) Band {
	switch {
	case freqKHz <= 0:
		return BandUnknown
	case freqKHz < 3:
		return BandELF
	case freqKHz < 30:
		return BandVLF
	case freqKHz < 300:
		return BandLF
	case freqKHz < 3000:
		return BandMF
	}
	return BandUnknown
}

// Transmitter is a navy/time-signal station received by the SuperSID network.
type Transmitter struct {
	ID           string // identifier used in file names, lower case
	Callsign     string
	Location     string
	Country      string
	FrequencyKHz float64
	Latitude     float64
	Longitude    float64
}

// Band returns the ITU class of the transmitter frequency.
func (t Transmitter) Band() Band {
	return GetBand(t.FrequencyKHz)
}

// Describe returns e.g. "NAA (Cutler, USA 24 kHz)".
func (t Transmitter) Describe() string {
	return fmt.Sprintf("%s (%s, %s %g kHz)", t.Callsign, t.Location, t.Country, t.FrequencyKHz)
}

// Receiver is a SuperSID monitoring site.
type Receiver struct {
	ID        string
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
}

var transmitters = map[string]Transmitter{
	"naa":   {ID: "naa", Callsign: "NAA", Location: "Cutler", Country: "USA", FrequencyKHz: 24.0, Latitude: 44.646, Longitude: -67.281},
	"dho38": {ID: "dho38", Callsign: "DHO38", Location: "Rhauderfehn", Country: "Germany", FrequencyKHz: 23.4, Latitude: 53.079, Longitude: 7.615},
	"hwu1":  {ID: "hwu1", Callsign: "HWU", Location: "Rosnay", Country: "France", FrequencyKHz: 18.3, Latitude: 46.713, Longitude: 1.245},
	"hwu2":  {ID: "hwu2", Callsign: "HWU", Location: "Rosnay", Country: "France", FrequencyKHz: 21.75, Latitude: 46.713, Longitude: 1.245},
	"nrk":   {ID: "nrk", Callsign: "NRK", Location: "Grindavik", Country: "Iceland", FrequencyKHz: 37.5, Latitude: 63.851, Longitude: -22.467},
	"gqd":   {ID: "gqd", Callsign: "GQD", Location: "Anthorn", Country: "UK", FrequencyKHz: 19.6, Latitude: 54.912, Longitude: -3.278},
	"icv":   {ID: "icv", Callsign: "ICV", Location: "Tavolara", Country: "Italy", FrequencyKHz: 20.27, Latitude: 40.923, Longitude: 9.731},
}

var receivers = map[string]Receiver{
	"birr":    {ID: "birr", Name: "Birr", Country: "Ireland", Latitude: 53.095, Longitude: -7.913},
	"dunsink": {ID: "dunsink", Name: "Dunsink", Country: "Ireland", Latitude: 53.3871, Longitude: -6.3375},
}

// LookupTransmitter returns the catalog entry for id (case-insensitive).
func LookupTransmitter(id string) (Transmitter, bool) {
	key, err := NormalizeStation(id)
	if err != nil {
		return Transmitter{}, false
	}
	t, ok := transmitters[key]
	return t, ok
}

// LookupReceiver returns the catalog entry for id (case-insensitive).
func LookupReceiver(id string) (Receiver, bool) {
	key, err := NormalizeStation(id)
	if err != nil {
		return Receiver{}, false
	}
	r, ok := receivers[key]
	return r, ok
}

// Transmitters returns the catalog sorted by frequency.
func Transmitters() []Transmitter {
	out := make([]Transmitter, 0, len(transmitters))
	for _, t := range transmitters {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FrequencyKHz != out[j].FrequencyKHz {
			return out[i].FrequencyKHz < out[j].FrequencyKHz
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Receivers returns the receiver sites sorted by id.
func Receivers() []Receiver {
	out := make([]Receiver, 0, len(receivers))
	for _, r := range receivers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
