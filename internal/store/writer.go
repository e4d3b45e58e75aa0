package store

import (
	"context"
	"fmt"
	"log"

	"github.com/ClickHouse/ch-go"
	"github.com/ClickHouse/ch-go/proto"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/dsp"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/vlf"
)

// BatchSize is the number of rows sent per INSERT.
const BatchSize = 50_000

// doer is the part of *ch.Client used for inserts.
type doer interface {
	Do(ctx context.Context, q ch.Query) error
}

type batch interface {
	Input() proto.Input
	Columns() string
	Len() int
	Reset()
}

// Writer inserts readings and flux samples with the native protocol.
type Writer struct {
	conn      doer
	db        string
	batchSize int
}

// Options configure a ClickHouse connection.
type Options struct {
	Host     string
	Database string
	User     string
	Password string
}

// Dial connects a Writer over the native protocol.
func Dial(ctx context.Context, opts Options) (*Writer, *ch.Client, error) {
	conn, err := ch.Dial(ctx, ch.Options{
		Address:     opts.Host,
		Database:    opts.Database,
		User:        opts.User,
		Password:    opts.Password,
		Compression: ch.CompressionLZ4,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("ClickHouse connection failed: %w", err)
	}
	return NewWriter(conn, opts.Database), conn, nil
}

// NewWriter wraps an open connection.
func NewWriter(conn doer, db string) *Writer {
	return &Writer{conn: conn, db: db, batchSize: BatchSize}
}

func (w *Writer) flush(ctx context.Context, table string, b batch) error {
	if b.Len() == 0 {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES", w.db, table, b.Columns())
	if err := w.conn.Do(ctx, ch.Query{Body: query, Input: b.Input()}); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	log.Printf("Inserted %d rows into %s.%s", b.Len(), w.db, table)
	b.Reset()
	return nil
}

// InsertSignal writes one row per reading. signal must be the decibel
// series derived from readings.
func (w *Writer) InsertSignal(ctx context.Context, pair vlf.Pair, readings []vlf.Reading, signal dsp.Series) (int, error) {
	if len(readings) != signal.Len() {
		return 0, fmt.Errorf("readings (%d) and signal (%d) differ in length", len(readings), signal.Len())
	}

	b := NewSignalBatch()
	total := 0
	for i, r := range readings {
		b.AddReading(r.Time, pair.Receiver, pair.Transmitter, r.Raw, signal.Values[i])
		if b.Len() >= w.batchSize {
			n := b.Len()
			if err := w.flush(ctx, TableSignal, b); err != nil {
				return total, err
			}
			total += n
		}
	}
	n := b.Len()
	if err := w.flush(ctx, TableSignal, b); err != nil {
		return total, err
	}
	return total + n, nil
}

// InsertFlux writes the GOES samples.
func (w *Writer) InsertFlux(ctx context.Context, samples []solar.FluxSample) (int, error) {
	b := NewFluxBatch()
	total := 0
	for _, s := range samples {
		b.AddSample(s.Time, s.Short, s.Long)
		if b.Len() >= w.batchSize {
			n := b.Len()
			if err := w.flush(ctx, TableFlux, b); err != nil {
				return total, err
			}
			total += n
		}
	}
	n := b.Len()
	if err := w.flush(ctx, TableFlux, b); err != nil {
		return total, err
	}
	return total + n, nil
}
