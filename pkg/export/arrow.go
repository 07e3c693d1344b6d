package export

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// ArrowSchema converts a table schema. String fields are nullable; numeric
// fields are not.
func ArrowSchema(schema *columnar.Schema) *arrow.Schema {
	fields := make([]arrow.Field, schema.Len())
	for i, f := range schema.Fields() {
		fields[i] = arrow.Field{Name: f.Name, Type: arrowType(f.Type), Nullable: f.Type == columnar.String}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(t columnar.DataType) arrow.DataType {
	switch t {
	case columnar.Uint64:
		return arrow.PrimitiveTypes.Uint64
	case columnar.Float64:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// ToArrowRecord copies a table into one record batch allocated from alloc.
// The caller owns the record and must Release it.
func ToArrowRecord(table *columnar.Table, alloc memory.Allocator) (arrow.Record, error) {
	rb := array.NewRecordBuilder(alloc, ArrowSchema(table.Schema()))
	defer rb.Release()

	n := table.NumRows()
	for c := 0; c < table.NumColumns(); c++ {
		switch col := table.Column(c).(type) {
		case *columnar.StringColumn:
			b := rb.Field(c).(*array.StringBuilder)
			b.Reserve(n)
			for i := 0; i < n; i++ {
				if s, ok := col.At(i); ok {
					b.Append(s)
				} else {
					b.AppendNull()
				}
			}
		case *columnar.Uint64Column:
			b := rb.Field(c).(*array.Uint64Builder)
			b.Reserve(n)
			for i := 0; i < n; i++ {
				b.UnsafeAppend(col.At(i))
			}
		case *columnar.Float64Column:
			b := rb.Field(c).(*array.Float64Builder)
			b.Reserve(n)
			for i := 0; i < n; i++ {
				b.UnsafeAppend(col.At(i))
			}
		default:
			return nil, errors.Newf(errors.ErrorTypeCapability, "column %s: unsupported column implementation %T",
				col.Name(), col)
		}
	}

	return rb.NewRecord(), nil
}

// FromArrowRecord copies a record batch into a table. Only utf8, uint64
// and float64 columns are accepted, and numeric columns must hold no nulls.
func FromArrowRecord(rec arrow.Record) (*columnar.Table, error) {
	fields := make([]columnar.Field, rec.NumCols())
	columns := make([]columnar.Column, rec.NumCols())
	n := int(rec.NumRows())

	for c, af := range rec.Schema().Fields() {
		arr := rec.Column(c)
		if arr.NullN() > 0 && af.Type.ID() != arrow.STRING {
			return nil, errors.Newf(errors.ErrorTypeSchemaViolation, "column %s: numeric column holds nulls", af.Name).
				WithDetail("field", af.Name)
		}

		switch a := arr.(type) {
		case *array.String:
			values := make([]string, n)
			var valid []bool
			if a.NullN() > 0 {
				valid = make([]bool, n)
			}
			for i := 0; i < n; i++ {
				if valid != nil {
					valid[i] = a.IsValid(i)
				}
				values[i] = a.Value(i)
			}
			col, err := columnar.NewStringColumnWithValidity(af.Name, values, valid)
			if err != nil {
				return nil, err
			}
			fields[c] = columnar.Field{Name: af.Name, Type: columnar.String}
			columns[c] = col
		case *array.Uint64:
			values := make([]uint64, n)
			copy(values, a.Uint64Values())
			fields[c] = columnar.Field{Name: af.Name, Type: columnar.Uint64}
			columns[c] = columnar.NewUint64Column(af.Name, values)
		case *array.Float64:
			values := make([]float64, n)
			copy(values, a.Float64Values())
			fields[c] = columnar.Field{Name: af.Name, Type: columnar.Float64}
			columns[c] = columnar.NewFloat64Column(af.Name, values)
		default:
			return nil, errors.Newf(errors.ErrorTypeCapability, "column %s: unsupported arrow type %s", af.Name, af.Type).
				WithDetail("field", af.Name)
		}
	}

	schema, err := columnar.NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	return columnar.NewTable(schema, columns)
}

type arrowEncoder struct {
	alloc memory.Allocator
}

func newArrowEncoder() *arrowEncoder {
	return &arrowEncoder{alloc: memory.NewGoAllocator()}
}

func (e *arrowEncoder) Format() Format { return Arrow }

// Encode writes the table as a single record batch in an Arrow IPC file
func (e *arrowEncoder) Encode(w io.Writer, table *columnar.Table) error {
	rec, err := ToArrowRecord(table, e.alloc)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(e.alloc))
	if err != nil {
		return writeError(err, Arrow)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return writeError(err, Arrow)
	}
	if err := fw.Close(); err != nil {
		return writeError(err, Arrow)
	}
	return nil
}
