package vlf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStation is returned for identifiers that cannot be used in a URL path.
var ErrInvalidStation = errors.New("invalid station identifier")

// MaxStationLen bounds receiver and transmitter identifiers.
const MaxStationLen = 16

// NormalizeStation sanitises a receiver or transmitter identifier and
// lower-cases it.
//
// Rules:
//   - Strips: double quotes, single quotes, backslashes, forward slashes, whitespace
//   - Accepts: ASCII letters and digits only after stripping
//
// The fast path returns without allocating when the input is already clean.
func NormalizeStation(id string) (string, error) {
	s := id
	if needsSanitization(s) {
		s = sanitizeBytes(s)
	}
	s = strings.ToLower(s)

	if !ValidateStation(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStation, id)
	}
	return s, nil
}

func needsSanitization(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '\\', '/', ' ', '\t', '\n', '\r':
			return true
		}
	}
	return false
}

func sanitizeBytes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '\\', '/', ' ', '\t', '\n', '\r':
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// ValidateStation reports whether s is a usable identifier.
func ValidateStation(s string) bool {
	if len(s) == 0 || len(s) > MaxStationLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isAlnum {
			return false
		}
	}
	return true
}
