package recording

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
)

const rowGroupSize = 1 << 20

var timestampType = &arrow.TimestampType{Unit: arrow.Nanosecond}

// WriteParquet encodes t as a Parquet file: one float64 column per channel
// followed by a nanosecond timestamp column.
func WriteParquet(w io.Writer, t *Table) error {
	if err := t.validate(); err != nil {
		return err
	}
	mem := memory.NewGoAllocator()
	rec := t.record(mem)
	defer rec.Release()
	tbl := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer tbl.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithVersion(parquet.V2_LATEST),
	)
	arrProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	if err := pqarrow.WriteTable(tbl, w, rowGroupSize, props, arrProps); err != nil {
		return fmt.Errorf("writing parquet: %w", err)
	}
	return nil
}

// ReadParquet decodes a file written by WriteParquet.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*Table, error) {
	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(ctx, r, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("reading parquet: %w", err)
	}
	defer tbl.Release()
	return fromArrow(tbl)
}

func (t *Table) record(mem memory.Allocator) arrow.Record {
	fields := make([]arrow.Field, 0, len(t.Channels)+1)
	cols := make([]arrow.Array, 0, len(t.Channels)+1)
	for i, name := range t.Channels {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64})
		b := array.NewFloat64Builder(mem)
		b.AppendValues(t.Data[i], nil)
		cols = append(cols, b.NewArray())
		b.Release()
	}
	fields = append(fields, arrow.Field{Name: TimestampColumn, Type: timestampType})
	tb := array.NewTimestampBuilder(mem, timestampType)
	tb.Reserve(len(t.Timestamps))
	for _, ts := range t.Timestamps {
		tb.Append(arrow.Timestamp(ts.UnixNano()))
	}
	cols = append(cols, tb.NewArray())
	tb.Release()

	rec := array.NewRecord(arrow.NewSchema(fields, nil), cols, int64(len(t.Timestamps)))
	for _, c := range cols {
		c.Release()
	}
	return rec
}

func fromArrow(tbl arrow.Table) (*Table, error) {
	t := &Table{}
	schema := tbl.Schema()
	for i := 0; i < int(tbl.NumCols()); i++ {
		field := schema.Field(i)
		chunks := tbl.Column(i).Data().Chunks()
		switch {
		case field.Name == TimestampColumn && field.Type.ID() == arrow.TIMESTAMP:
			unit := field.Type.(*arrow.TimestampType).Unit
			for _, c := range chunks {
				ts := c.(*array.Timestamp)
				for j := 0; j < ts.Len(); j++ {
					t.Timestamps = append(t.Timestamps, ts.Value(j).ToTime(unit))
				}
			}
		case field.Type.ID() == arrow.FLOAT64:
			col := make([]float64, 0, tbl.NumRows())
			for _, c := range chunks {
				col = append(col, c.(*array.Float64).Float64Values()...)
			}
			t.Channels = append(t.Channels, field.Name)
			t.Data = append(t.Data, col)
		default:
			return nil, fmt.Errorf("unexpected column %s of type %s", field.Name, field.Type)
		}
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}
