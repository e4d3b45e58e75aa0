package common

import (
	"log"
	"time"
)

// FetchStats counts per-day fetch outcomes for one loader run.
type FetchStats struct {
	Attempts int    // Days requested from the source
	Fetched  int    // Days parsed successfully
	Skipped  int    // Days dropped (missing, failed or malformed)
	Rows     int    // Readings kept across all fetched days
	Bytes    uint64 // Raw bytes received

	started time.Time
}

// NewFetchStats creates a FetchStats with its clock started.
func NewFetchStats() *FetchStats {
	return &FetchStats{started: time.Now()}
}

// AddFetched records a successfully parsed day.
func (s *FetchStats) AddFetched(rows int, bytes int) {
	s.Attempts++
	s.Fetched++
	s.Rows += rows
	s.Bytes += uint64(bytes)
}

// AddSkipped records a day that produced no data.
func (s *FetchStats) AddSkipped() {
	s.Attempts++
	s.Skipped++
}

// Elapsed returns the time since the stats were created.
func (s *FetchStats) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// LogSummary prints the statistics block used at the end of every command.
func (s *FetchStats) LogSummary(title string) {
	log.Println("=========================================================")
	log.Println(title)
	log.Println("=========================================================")
	log.Printf("Days requested: %d", s.Attempts)
	log.Printf("Days fetched:   %d", s.Fetched)
	log.Printf("Days skipped:   %d", s.Skipped)
	log.Printf("Readings:       %d", s.Rows)
	log.Printf("Downloaded:     %.2f KiB", float64(s.Bytes)/1024)
	log.Printf("Elapsed:        %v", s.Elapsed().Round(time.Millisecond))
	log.Println("=========================================================")
}
