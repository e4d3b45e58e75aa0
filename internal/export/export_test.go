package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KI7MT/ki7mt-vlf-monitor/internal/timeline"
)

func TestWriteAndReadFile(t *testing.T) {
	t0 := time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)
	rows := make([]timeline.Row, 2500)
	for i := range rows {
		rows[i] = timeline.Row{
			Time:  t0.Add(time.Duration(i) * 5 * time.Second),
			DB:    null.FloatFrom(60 + float64(i%10)),
			Trend: null.FloatFrom(64.5),
		}
	}
	rows[3].DB = null.Float{}
	rows[0].Long = null.FloatFrom(2e-7)

	path := filepath.Join(t.TempDir(), "export", "timeline.parquet")
	require.NoError(t, WriteFile(path, Records("dunsink", "dho38", rows)))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, len(rows))

	assert.Equal(t, t0, got[0].Time())
	assert.Equal(t, "dho38", got[0].Transmitter)
	require.NotNil(t, got[0].Long)
	assert.Equal(t, 2e-7, *got[0].Long)
	assert.Nil(t, got[0].Short)
	assert.Nil(t, got[3].DB)
	require.NotNil(t, got[2499].DB)
	assert.Equal(t, 69.0, *got[2499].DB)
}

func TestReadFileKeepsEveryRow(t *testing.T) {
	t0 := time.Date(2023, 6, 22, 0, 0, 0, 0, time.UTC)
	rows := make([]timeline.Row, 2500)
	for i := range rows {
		rows[i] = timeline.Row{
			Time:  t0.Add(time.Duration(i) * 5 * time.Second),
			DB:    null.FloatFrom(float64(i)),
			Trend: null.FloatFrom(float64(i) / 2),
			Long:  null.FloatFrom(float64(i) * 1e-9),
		}
	}
	rows[1500].Trend = null.Float{}

	records := Records("dunsink", "dho38", rows)
	path := filepath.Join(t.TempDir(), "timeline.parquet")
	require.NoError(t, WriteFile(path, records))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i, r := range got {
		require.NotNil(t, r.DB, "row %d", i)
		require.Equal(t, float64(i), *r.DB, "row %d", i)
		assert.Equal(t, rows[i].Time, r.Time(), "row %d", i)
	}
	assert.Nil(t, got[1500].Trend)
	assert.NoError(t, Compare(records, got))
}

func TestCompare(t *testing.T) {
	v1, v2 := 1.0, 2.0
	want := []Record{{TimeMs: 1, Receiver: "birr", Transmitter: "naa", DB: &v1}}

	assert.NoError(t, Compare(want, []Record{{TimeMs: 1, Receiver: "birr", Transmitter: "naa", DB: &v1}}))
	assert.ErrorContains(t, Compare(want, nil), "wrote 1 rows, read 0")
	assert.ErrorContains(t, Compare(want, []Record{{TimeMs: 1, Receiver: "birr", Transmitter: "naa", DB: &v2}}), "row 0: db mismatch")
	assert.ErrorContains(t, Compare(want, []Record{{TimeMs: 1, Receiver: "birr", Transmitter: "naa"}}), "row 0: db mismatch")
	assert.ErrorContains(t, Compare(want, []Record{{TimeMs: 2, Receiver: "birr", Transmitter: "naa", DB: &v1}}), "key mismatch")
}

func TestRecordsEmpty(t *testing.T) {
	assert.Empty(t, Records("birr", "naa", nil))
}
