package vlf

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CSV Parsing Constants
// =============================================================================

const (
	// Error throttling: don't spam logs with parse errors
	MaxErrorsToLog = 10

	// CSV column indices (SuperSID export format)
	ColDatetime = 0
	ColSignal   = 1

	// Minimum columns for a valid row
	MinColumns = 2
)

// ErrTruncatedHeader is returned when a file ends inside the header block.
var ErrTruncatedHeader = errors.New("file shorter than header")

// ParseStats holds statistics for a parsing operation.
type ParseStats struct {
	TotalRowsRead      int64 // Data rows read after the header
	SuccessfullyParsed int64 // Rows converted to readings
	FailedRows         int64 // Rows that failed to parse
	SkippedEmptyRows   int64 // Empty rows skipped
}

// =============================================================================
// File Parsing
// =============================================================================

// ParseFile reads one SuperSID CSV: the fixed header block, then data rows.
// Malformed rows are counted and skipped; only I/O failures and a truncated
// header are returned as errors.
func ParseFile(reader io.Reader, stats *ParseStats) (Header, []Reading, error) {
	if stats == nil {
		stats = &ParseStats{}
	}
	br := bufio.NewReader(reader)

	header := Header{}
	for i := 0; i < HeaderLines; i++ {
		line, err := br.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return header, nil, err
			}
			if i == HeaderLines-1 && line != "" {
				// Header-only file without a trailing newline.
				parseHeaderLine(header, line)
				return header, nil, nil
			}
			return header, nil, fmt.Errorf("%w: %d of %d lines", ErrTruncatedHeader, i, HeaderLines)
		}
		parseHeaderLine(header, line)
	}

	csvReader := csv.NewReader(br)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.ReuseRecord = true

	var readings []Reading
	errorCount := 0

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return header, readings, err
			}
			stats.FailedRows++
			errorCount++
			if errorCount <= MaxErrorsToLog {
				log.Printf("CSV read error (row %d): %v", stats.TotalRowsRead, err)
			}
			continue
		}

		stats.TotalRowsRead++

		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			stats.SkippedEmptyRows++
			continue
		}

		reading, err := ParseRecord(record)
		if err != nil {
			stats.FailedRows++
			errorCount++
			if errorCount <= MaxErrorsToLog {
				log.Printf("Parse error (row %d): %v", stats.TotalRowsRead, err)
			}
			continue
		}

		stats.SuccessfullyParsed++
		readings = append(readings, reading)
	}

	if errorCount > MaxErrorsToLog {
		log.Printf("... and %d more parse errors (suppressed)", errorCount-MaxErrorsToLog)
	}

	return header, readings, nil
}

// ParseRecord parses a single "datetime, signal" row.
func ParseRecord(record []string) (Reading, error) {
	if len(record) < MinColumns {
		return Reading{}, fmt.Errorf("insufficient columns: got %d, need %d", len(record), MinColumns)
	}

	ts, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(record[ColDatetime]), time.UTC)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid datetime: %w", err)
	}

	raw, err := strconv.ParseFloat(strings.TrimSpace(record[ColSignal]), 64)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid signal: %w", err)
	}
	if math.IsNaN(raw) {
		return Reading{}, fmt.Errorf("invalid signal: NaN")
	}

	return Reading{Time: ts, Raw: raw}, nil
}

// parseHeaderLine records "# Key = Value" lines; anything else is ignored.
func parseHeaderLine(h Header, line string) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#") {
		return
	}
	key, value, ok := strings.Cut(strings.TrimPrefix(line, "#"), "=")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	h[key] = strings.TrimSpace(value)
}
