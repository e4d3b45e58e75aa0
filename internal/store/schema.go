// Package store writes VLF readings, GOES flux and flare events to
// ClickHouse.
package store

import "fmt"

// Table names inside the configured database.
const (
	TableSignal = "signal_raw"
	TableFlux   = "xray_flux"
	TableFlares = "flares"
)

// SchemaVersion is the current table layout version.
const SchemaVersion = 2

// Schema returns the DDL statements that create the database and tables.
func Schema(db string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    time        DateTime,
    date        Date32,
    receiver    String,
    transmitter String,
    raw         Float64,
    db          Nullable(Float64)
) ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(date)
ORDER BY (receiver, transmitter, time)`, db, TableSignal),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    time  DateTime,
    short Nullable(Float64),
    long  Nullable(Float64)
) ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(time)
ORDER BY time`, db, TableFlux),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    start     DateTime,
    peak_time Nullable(DateTime),
    end_time  Nullable(DateTime),
    class     String,
    source    LowCardinality(String)
) ENGINE = MergeTree
ORDER BY (start, source)`, db, TableFlares),
	}
}
