// Package export writes the aligned VLF/GOES timeline to Parquet.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/timeline"
)

// Record is one exported row. Missing values are written as nulls.
type Record struct {
	TimeMs      int64    `parquet:"time_ms"`
	Receiver    string   `parquet:"receiver"`
	Transmitter string   `parquet:"transmitter"`
	DB          *float64 `parquet:"db"`
	Trend       *float64 `parquet:"trend"`
	Short       *float64 `parquet:"xrs_short"`
	Long        *float64 `parquet:"xrs_long"`
}

// Time returns the row timestamp.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.TimeMs).UTC()
}

// Records converts aligned rows for one receiver/transmitter pair.
func Records(receiver, transmitter string, rows []timeline.Row) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = Record{
			TimeMs:      row.Time.UnixMilli(),
			Receiver:    receiver,
			Transmitter: transmitter,
			DB:          row.DB.Ptr(),
			Trend:       row.Trend.Ptr(),
			Short:       row.Short.Ptr(),
			Long:        row.Long.Ptr(),
		}
	}
	return out
}

// WriteFile writes records to path through a temporary file.
func WriteFile(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory failed: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := parquet.WriteFile(tmpPath, records); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename failed: %w", err)
	}
	return nil
}

// readBatch is the number of records decoded per Read.
const readBatch = 1000

// ReadFile loads every record from a Parquet file written by WriteFile.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet open: %w", err)
	}

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	records := make([]Record, 0, pf.NumRows())
	for {
		// The reader decodes optional columns into the pointers already
		// present in buf, so every batch needs its own slice.
		buf := make([]Record, readBatch)
		n, err := reader.Read(buf)
		records = append(records, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parquet read: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}

// Compare reports the first difference between written and read records.
func Compare(want, got []Record) error {
	if len(want) != len(got) {
		return fmt.Errorf("wrote %d rows, read %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.TimeMs != g.TimeMs || w.Receiver != g.Receiver || w.Transmitter != g.Transmitter {
			return fmt.Errorf("row %d: key mismatch", i)
		}
		for _, col := range []struct {
			name string
			w, g *float64
		}{
			{"db", w.DB, g.DB},
			{"trend", w.Trend, g.Trend},
			{"xrs_short", w.Short, g.Short},
			{"xrs_long", w.Long, g.Long},
		} {
			if !sameValue(col.w, col.g) {
				return fmt.Errorf("row %d: %s mismatch", i, col.name)
			}
		}
	}
	return nil
}

func sameValue(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
