package store

import (
	"time"

	"github.com/ClickHouse/ch-go/proto"
	"github.com/guregu/null/v6"
)

// SignalBatch holds column data for native insert into signal_raw.
type SignalBatch struct {
	Time        *proto.ColDateTime
	Date        *proto.ColDate32
	Receiver    *proto.ColStr
	Transmitter *proto.ColStr
	Raw         *proto.ColFloat64
	DB          *proto.ColNullable[float64]
}

func NewSignalBatch() *SignalBatch {
	return &SignalBatch{
		Time:        new(proto.ColDateTime),
		Date:        new(proto.ColDate32),
		Receiver:    new(proto.ColStr),
		Transmitter: new(proto.ColStr),
		Raw:         new(proto.ColFloat64),
		DB:          proto.NewColNullable[float64](new(proto.ColFloat64)),
	}
}

func (b *SignalBatch) Reset() {
	b.Time.Reset()
	b.Date.Reset()
	b.Receiver.Reset()
	b.Transmitter.Reset()
	b.Raw.Reset()
	b.DB.Reset()
}

func (b *SignalBatch) Len() int {
	return b.Time.Rows()
}

func (b *SignalBatch) Input() proto.Input {
	return proto.Input{
		{Name: "time", Data: b.Time},
		{Name: "date", Data: b.Date},
		{Name: "receiver", Data: b.Receiver},
		{Name: "transmitter", Data: b.Transmitter},
		{Name: "raw", Data: b.Raw},
		{Name: "db", Data: b.DB},
	}
}

func (b *SignalBatch) Columns() string {
	return "time, date, receiver, transmitter, raw, db"
}

func (b *SignalBatch) AddReading(t time.Time, receiver, transmitter string, raw float64, db null.Float) {
	t = t.UTC()
	b.Time.Append(t)
	b.Date.Append(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	b.Receiver.Append(receiver)
	b.Transmitter.Append(transmitter)
	b.Raw.Append(raw)
	b.DB.Append(nullable(db))
}

// FluxBatch holds column data for native insert into xray_flux.
type FluxBatch struct {
	Time  *proto.ColDateTime
	Short *proto.ColNullable[float64]
	Long  *proto.ColNullable[float64]
}

func NewFluxBatch() *FluxBatch {
	return &FluxBatch{
		Time:  new(proto.ColDateTime),
		Short: proto.NewColNullable[float64](new(proto.ColFloat64)),
		Long:  proto.NewColNullable[float64](new(proto.ColFloat64)),
	}
}

func (b *FluxBatch) Reset() {
	b.Time.Reset()
	b.Short.Reset()
	b.Long.Reset()
}

func (b *FluxBatch) Len() int {
	return b.Time.Rows()
}

func (b *FluxBatch) Input() proto.Input {
	return proto.Input{
		{Name: "time", Data: b.Time},
		{Name: "short", Data: b.Short},
		{Name: "long", Data: b.Long},
	}
}

func (b *FluxBatch) Columns() string {
	return "time, short, long"
}

func (b *FluxBatch) AddSample(t time.Time, short, long null.Float) {
	b.Time.Append(t.UTC())
	b.Short.Append(nullable(short))
	b.Long.Append(nullable(long))
}

func nullable(v null.Float) proto.Nullable[float64] {
	if !v.Valid {
		return proto.Null[float64]()
	}
	return proto.NewNullable(v.Float64)
}
