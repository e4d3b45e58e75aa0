package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ClickHouse/ch-go"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/dsp"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/solar"
	"github.com/KI7MT/ki7mt-vlf-monitor/internal/vlf"
)

type insert struct {
	body string
	rows int
}

type fakeConn struct {
	inserts []insert
	err     error
}

func (f *fakeConn) Do(ctx context.Context, q ch.Query) error {
	if f.err != nil {
		return f.err
	}
	rows := 0
	if len(q.Input) > 0 {
		rows = q.Input[0].Data.Rows()
	}
	f.inserts = append(f.inserts, insert{body: q.Body, rows: rows})
	return nil
}

type fakeExec struct {
	stmts []string
}

func (f *fakeExec) Exec(ctx context.Context, query string, args ...any) error {
	f.stmts = append(f.stmts, query)
	return nil
}

func TestSignalBatch(t *testing.T) {
	b := NewSignalBatch()
	ts := time.Date(2023, 6, 22, 13, 5, 10, 0, time.UTC)
	b.AddReading(ts, "dunsink", "dho38", 1000, null.FloatFrom(60))
	b.AddReading(ts.Add(5*time.Second), "dunsink", "dho38", 0, null.Float{})

	require.Equal(t, 2, b.Len())
	assert.Equal(t, 2, b.DB.Rows())
	assert.True(t, ts.Equal(b.Time.Row(0)))
	assert.Equal(t, "dho38", b.Transmitter.Row(1))
	assert.True(t, b.DB.Row(0).Set)
	assert.Equal(t, 60.0, b.DB.Row(0).Value)
	assert.False(t, b.DB.Row(1).Set)

	input := b.Input()
	names := make([]string, len(input))
	for i, col := range input {
		names[i] = col.Name
	}
	assert.Equal(t, b.Columns(), strings.Join(names, ", "))

	b.Reset()
	assert.Zero(t, b.Len())
}

func TestFluxBatch(t *testing.T) {
	b := NewFluxBatch()
	b.AddSample(time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC), null.FloatFrom(1e-8), null.Float{})
	require.Equal(t, 1, b.Len())
	assert.True(t, b.Short.Row(0).Set)
	assert.False(t, b.Long.Row(0).Set)
	assert.Len(t, b.Input(), 3)
}

func TestInsertSignalFlushesInBatches(t *testing.T) {
	conn := &fakeConn{}
	w := NewWriter(conn, "vlf")
	w.batchSize = 4

	start := time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)
	readings := make([]vlf.Reading, 10)
	times := make([]time.Time, 10)
	raw := make([]float64, 10)
	for i := range readings {
		readings[i] = vlf.Reading{Time: start.Add(time.Duration(i) * 5 * time.Second), Raw: float64(100 + i)}
		times[i], raw[i] = readings[i].Time, readings[i].Raw
	}

	n, err := w.InsertSignal(context.Background(), vlf.Pair{Receiver: "dunsink", Transmitter: "dho38"}, readings, dsp.DecibelSeries(times, raw))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	require.Len(t, conn.inserts, 3)
	assert.Equal(t, []int{4, 4, 2}, []int{conn.inserts[0].rows, conn.inserts[1].rows, conn.inserts[2].rows})
	assert.Equal(t, "INSERT INTO vlf.signal_raw (time, date, receiver, transmitter, raw, db) VALUES", conn.inserts[0].body)

	_, err = w.InsertSignal(context.Background(), vlf.Pair{}, readings[:2], dsp.Series{})
	assert.Error(t, err)
}

func TestInsertFlux(t *testing.T) {
	conn := &fakeConn{}
	w := NewWriter(conn, "vlf")

	n, err := w.InsertFlux(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, conn.inserts)

	samples := []solar.FluxSample{
		{Time: time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC), Short: null.FloatFrom(1e-8), Long: null.FloatFrom(1e-7)},
		{Time: time.Date(2023, 6, 22, 0, 1, 0, 0, time.UTC), Long: null.FloatFrom(2e-7)},
	}
	n, err = w.InsertFlux(context.Background(), samples)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, conn.inserts, 1)
	assert.Contains(t, conn.inserts[0].body, "vlf.xray_flux")

	conn.err = errors.New("connection reset")
	_, err = w.InsertFlux(context.Background(), samples)
	assert.ErrorContains(t, err, "connection reset")
}

func TestEnsureSchema(t *testing.T) {
	conn := &fakeExec{}
	require.NoError(t, EnsureSchema(context.Background(), conn, "vlf"))
	require.Len(t, conn.stmts, 4)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS vlf", conn.stmts[0])
	assert.Contains(t, conn.stmts[1], "vlf.signal_raw")
	assert.Contains(t, conn.stmts[2], "vlf.xray_flux")
	assert.Contains(t, conn.stmts[3], "vlf.flares")
}

func TestFlareTimes(t *testing.T) {
	assert.Nil(t, utcPtr(null.Time{}))

	local := time.Date(2023, 6, 22, 12, 30, 0, 0, time.FixedZone("IST", 3600))
	got := utcPtr(null.TimeFrom(local))
	require.NotNil(t, got)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, local.Equal(*got))

	assert.Contains(t, Schema("vlf")[3], "peak_time Nullable(DateTime)")
	assert.Contains(t, Schema("vlf")[3], "end_time  Nullable(DateTime)")
}
