package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/guregu/null/v6"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
)

// execer is the part of driver.Conn used for DDL.
type execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// Open connects with clickhouse-go for schema management and flare rows.
// The connection uses the default database so CREATE DATABASE can run
// before the target exists.
func Open(ctx context.Context, opts Options) (driver.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Host},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: opts.User,
			Password: opts.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("ClickHouse connection failed: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ClickHouse ping failed: %w", err)
	}
	return conn, nil
}

// EnsureSchema creates the database and tables if missing.
func EnsureSchema(ctx context.Context, conn execer, db string) error {
	for _, stmt := range Schema(db) {
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	log.Printf("Schema v%d ready in database %s", SchemaVersion, db)
	return nil
}

// InsertFlares writes flare events in one batch.
func InsertFlares(ctx context.Context, conn driver.Conn, db string, events []solar.FlareEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch, err := conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.%s (start, peak_time, end_time, class, source)", db, TableFlares))
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range events {
		if err := batch.Append(e.Start.UTC(), utcPtr(e.Peak), utcPtr(e.End), e.Class, e.Source); err != nil {
			log.Printf("Append error: %v", err)
			continue
		}
		count++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("insert %s: %w", TableFlares, err)
	}
	return count, nil
}

// utcPtr maps a null time to a Nullable column value.
func utcPtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	u := t.Time.UTC()
	return &u
}
