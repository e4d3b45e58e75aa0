package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
		err   bool
	}{
		{"", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), false},
		{"2023-06-22", time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC), false},
		{"22/06/2023", time.Time{}, true},
		{"2023-13-01", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := parseDate(tt.input, now)
		if tt.err {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestRequestedWindow(t *testing.T) {
	flagDate, flagDays = "2023-06-22", 3
	defer func() { flagDate, flagDays = "", 1 }()

	w, err := requestedWindow(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 25, 0, 0, 0, 0, time.UTC), w.End())

	flagDays = 0
	_, err = requestedWindow(time.Now())
	assert.Error(t, err)
}

func TestPrintStations(t *testing.T) {
	var buf bytes.Buffer
	printStations(&buf)
	out := buf.String()
	assert.Contains(t, out, "dho38")
	assert.Contains(t, out, "Rhauderfehn, Germany")
	assert.Contains(t, out, "dunsink")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"plot", "download", "ingest", "export", "stations", "version"} {
		assert.True(t, names[want], want)
	}
}
