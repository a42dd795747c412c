// Package result renders pages as Arrow records for columnar hosts.
package result

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/loadgate/loadgate-go/filter"
	"github.com/loadgate/loadgate-go/source"
	"github.com/loadgate/loadgate-go/view"
)

// Schema derives an Arrow schema from a view's property registry:
// text maps to utf8, integers and flags to int64, decimals to
// float64, date-times to microsecond timestamps.
func Schema(v *view.View) *arrow.Schema {
	props := v.Properties()
	fields := make([]arrow.Field, 0, len(props))
	for _, p := range props {
		fields = append(fields, arrow.Field{
			Name:     p.Name,
			Type:     arrowType(p.Type),
			Nullable: true,
		})
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(k filter.Kind) arrow.DataType {
	switch k {
	case filter.KindInt, filter.KindFlag:
		return arrow.PrimitiveTypes.Int64
	case filter.KindDecimal:
		return arrow.PrimitiveTypes.Float64
	case filter.KindDateTime:
		return arrow.FixedWidthTypes.Timestamp_us
	}
	return arrow.BinaryTypes.String
}

// Record builds an Arrow record from page rows. Missing cells become
// nulls. The caller owns the returned record and must Release it.
func Record(v *view.View, rows []source.Row, alloc memory.Allocator) (arrow.Record, error) {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	b := array.NewRecordBuilder(alloc, Schema(v))
	defer b.Release()

	for i, p := range v.Properties() {
		if err := appendColumn(b.Field(i), p, rows); err != nil {
			return nil, fmt.Errorf("result: column %s: %w", p.Name, err)
		}
	}
	return b.NewRecord(), nil
}

func appendColumn(fb array.Builder, p view.Property, rows []source.Row) error {
	for _, r := range rows {
		cell, ok := r[p.Name]
		if !ok || cell == nil {
			fb.AppendNull()
			continue
		}
		switch builder := fb.(type) {
		case *array.StringBuilder:
			builder.Append(r.String(p.Name))
		case *array.Int64Builder:
			builder.Append(r.Int(p.Name))
		case *array.Float64Builder:
			f, _ := r.Decimal(p.Name).Float64()
			builder.Append(f)
		case *array.TimestampBuilder:
			builder.Append(arrow.Timestamp(r.Time(p.Name).UnixMicro()))
		default:
			return fmt.Errorf("unsupported builder %T", fb)
		}
	}
	return nil
}
