package columnar

import (
	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// Column is a named, homogeneously typed sequence of cells. Columns are
// immutable once built; constructors take ownership of the slices passed in.
type Column interface {
	Name() string
	Type() DataType
	Len() int
	Value(i int) Value
	IsNull(i int) bool
	NullCount() int
	MemoryUsage() int64

	// take returns a new column holding the cells at the given indices
	take(indices []int) Column
}

// StringColumn stores text cells with an optional validity mask
type StringColumn struct {
	name   string
	values []string
	valid  []bool // nil when every cell is present
	nulls  int
}

// NewStringColumn creates a string column where every cell is present
func NewStringColumn(name string, values []string) *StringColumn {
	return &StringColumn{name: name, values: values}
}

// NewNullableStringColumn creates a string column from optional cells;
// nil entries become null cells
func NewNullableStringColumn(name string, values []*string) *StringColumn {
	c := &StringColumn{name: name, values: make([]string, len(values))}
	for i, v := range values {
		if v == nil {
			c.markNull(i, len(values))
			continue
		}
		c.values[i] = *v
	}
	return c
}

// NewStringColumnWithValidity creates a string column from values and a
// validity mask of the same length. A nil mask means every cell is present.
func NewStringColumnWithValidity(name string, values []string, valid []bool) (*StringColumn, error) {
	if valid != nil && len(valid) != len(values) {
		return nil, errors.Newf(errors.ErrorTypeColumnLengthMismatch,
			"column %s: validity mask has %d entries for %d values", name, len(valid), len(values)).
			WithDetail("column", name)
	}
	c := &StringColumn{name: name, values: values, valid: valid}
	for _, ok := range valid {
		if !ok {
			c.nulls++
		}
	}
	if c.nulls == 0 {
		c.valid = nil
	}
	return c, nil
}

func (c *StringColumn) markNull(i, n int) {
	if c.valid == nil {
		c.valid = make([]bool, n)
		for j := range c.valid {
			c.valid[j] = true
		}
	}
	c.valid[i] = false
	c.nulls++
}

func (c *StringColumn) Name() string      { return c.name }
func (c *StringColumn) Type() DataType    { return String }
func (c *StringColumn) Len() int          { return len(c.values) }
func (c *StringColumn) NullCount() int    { return c.nulls }
func (c *StringColumn) IsNull(i int) bool { return c.valid != nil && !c.valid[i] }

// At returns the i-th cell and whether it is present
func (c *StringColumn) At(i int) (string, bool) {
	if c.IsNull(i) {
		return "", false
	}
	return c.values[i], true
}

func (c *StringColumn) Value(i int) Value {
	if c.IsNull(i) {
		return Null
	}
	return StringValue(c.values[i])
}

func (c *StringColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.values {
		total += int64(len(v))
		total += 16 // string header overhead
	}
	total += int64(len(c.valid))
	return total
}

func (c *StringColumn) take(indices []int) Column {
	out := &StringColumn{name: c.name, values: make([]string, len(indices))}
	for i, idx := range indices {
		if c.IsNull(idx) {
			out.markNull(i, len(indices))
			continue
		}
		out.values[i] = c.values[idx]
	}
	return out
}

// Uint64Column stores unsigned integer cells
type Uint64Column struct {
	name   string
	values []uint64
}

// NewUint64Column creates an unsigned integer column
func NewUint64Column(name string, values []uint64) *Uint64Column {
	return &Uint64Column{name: name, values: values}
}

func (c *Uint64Column) Name() string       { return c.name }
func (c *Uint64Column) Type() DataType     { return Uint64 }
func (c *Uint64Column) Len() int           { return len(c.values) }
func (c *Uint64Column) NullCount() int     { return 0 }
func (c *Uint64Column) IsNull(int) bool    { return false }
func (c *Uint64Column) Value(i int) Value  { return Uint64Value(c.values[i]) }
func (c *Uint64Column) At(i int) uint64    { return c.values[i] }
func (c *Uint64Column) MemoryUsage() int64 { return int64(len(c.values) * 8) }

func (c *Uint64Column) take(indices []int) Column {
	out := make([]uint64, len(indices))
	for i, idx := range indices {
		out[i] = c.values[idx]
	}
	return NewUint64Column(c.name, out)
}

// Float64Column stores floating point cells
type Float64Column struct {
	name   string
	values []float64
}

// NewFloat64Column creates a floating point column
func NewFloat64Column(name string, values []float64) *Float64Column {
	return &Float64Column{name: name, values: values}
}

func (c *Float64Column) Name() string       { return c.name }
func (c *Float64Column) Type() DataType     { return Float64 }
func (c *Float64Column) Len() int           { return len(c.values) }
func (c *Float64Column) NullCount() int     { return 0 }
func (c *Float64Column) IsNull(int) bool    { return false }
func (c *Float64Column) Value(i int) Value  { return Float64Value(c.values[i]) }
func (c *Float64Column) At(i int) float64   { return c.values[i] }
func (c *Float64Column) MemoryUsage() int64 { return int64(len(c.values) * 8) }

func (c *Float64Column) take(indices []int) Column {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = c.values[idx]
	}
	return NewFloat64Column(c.name, out)
}

// ColumnFromValues converts staged values into a column of the field's
// declared type. The first cell that cannot be coerced aborts the conversion
// with a type mismatch naming the column and row.
func ColumnFromValues(field Field, values []Value) (Column, error) {
	b := newBuilder(field, len(values))
	for i, v := range values {
		if err := b.append(v); err != nil {
			return nil, cellError(err, field, i)
		}
	}
	return b.build(), nil
}

// builder accumulates staged values into typed storage
type builder interface {
	append(v Value) error
	build() Column
}

func newBuilder(field Field, capacity int) builder {
	switch field.Type {
	case Uint64:
		return &uint64Builder{name: field.Name, values: make([]uint64, 0, capacity)}
	case Float64:
		return &float64Builder{name: field.Name, values: make([]float64, 0, capacity)}
	default:
		return &stringBuilder{name: field.Name, values: make([]string, 0, capacity)}
	}
}

type stringBuilder struct {
	name   string
	values []string
	valid  []bool
	nulls  int
}

func (b *stringBuilder) append(v Value) error {
	if v.IsNull() {
		if b.valid == nil {
			b.valid = make([]bool, len(b.values), cap(b.values))
			for i := range b.valid {
				b.valid[i] = true
			}
		}
		b.values = append(b.values, "")
		b.valid = append(b.valid, false)
		b.nulls++
		return nil
	}
	s, err := v.AsString()
	if err != nil {
		return err
	}
	b.values = append(b.values, s)
	if b.valid != nil {
		b.valid = append(b.valid, true)
	}
	return nil
}

func (b *stringBuilder) build() Column {
	return &StringColumn{name: b.name, values: b.values, valid: b.valid, nulls: b.nulls}
}

type uint64Builder struct {
	name   string
	values []uint64
}

func (b *uint64Builder) append(v Value) error {
	u, err := v.AsUint64()
	if err != nil {
		return err
	}
	b.values = append(b.values, u)
	return nil
}

func (b *uint64Builder) build() Column { return NewUint64Column(b.name, b.values) }

type float64Builder struct {
	name   string
	values []float64
}

func (b *float64Builder) append(v Value) error {
	f, err := v.AsFloat64()
	if err != nil {
		return err
	}
	b.values = append(b.values, f)
	return nil
}

func (b *float64Builder) build() Column { return NewFloat64Column(b.name, b.values) }

func cellError(err error, field Field, row int) error {
	return errors.Wrap(err, errors.ErrorTypeTypeMismatch, "column "+field.Name).
		WithDetail("column", field.Name).
		WithDetail("row", row)
}
