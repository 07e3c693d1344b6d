package columnar

import (
	"sort"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// Row is one schema-aligned record of staged values
type Row []Value

// Table is an immutable, ordered set of equal-length typed columns
type Table struct {
	schema  *Schema
	columns []Column
	rows    int
}

// NewTable assembles a table from fully built columns. Columns must match
// the schema by position, name and type, and must all have the same length.
func NewTable(schema *Schema, columns []Column) (*Table, error) {
	if schema == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "schema is required")
	}
	if len(columns) != schema.Len() {
		return nil, errors.Newf(errors.ErrorTypeSchemaViolation,
			"got %d columns for a schema of %d fields", len(columns), schema.Len())
	}

	rows := -1
	for i, col := range columns {
		field := schema.Field(i)
		if col == nil {
			return nil, errors.Newf(errors.ErrorTypeInternal, "column %d (%s) is nil", i, field.Name)
		}
		if col.Name() != field.Name || col.Type() != field.Type {
			return nil, errors.Newf(errors.ErrorTypeSchemaViolation,
				"column %d is %s %s, schema declares %s %s",
				i, col.Name(), col.Type(), field.Name, field.Type).
				WithDetail("column", field.Name)
		}
		if rows < 0 {
			rows = col.Len()
			continue
		}
		if col.Len() != rows {
			return nil, errors.Newf(errors.ErrorTypeColumnLengthMismatch,
				"column %s has %d rows, want %d", field.Name, col.Len(), rows).
				WithDetail("column", field.Name).
				WithDetail("length", col.Len()).
				WithDetail("rows", rows)
		}
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Table{schema: schema, columns: cols, rows: rows}, nil
}

// NewTableFromRows transposes schema-aligned rows into typed columns in a
// single batch. Any cell that cannot be coerced to its declared column type
// fails the whole table.
func NewTableFromRows(schema *Schema, rows []Row) (*Table, error) {
	if schema == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "schema is required")
	}

	width := schema.Len()
	builders := make([]builder, width)
	for i := 0; i < width; i++ {
		builders[i] = newBuilder(schema.Field(i), len(rows))
	}

	for r, row := range rows {
		if len(row) != width {
			return nil, errors.Newf(errors.ErrorTypeColumnLengthMismatch,
				"row %d has %d cells, schema declares %d", r, len(row), width).
				WithDetail("row", r)
		}
		for c, v := range row {
			if err := builders[c].append(v); err != nil {
				return nil, cellError(err, schema.Field(c), r)
			}
		}
	}

	columns := make([]Column, width)
	for i, b := range builders {
		columns[i] = b.build()
	}
	return NewTable(schema, columns)
}

// Empty returns a zero-row table for the schema
func Empty(schema *Schema) *Table {
	t, _ := NewTableFromRows(schema, nil)
	return t
}

// Schema returns the table schema
func (t *Table) Schema() *Schema { return t.schema }

// NumRows returns the shared row count of every column
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns
func (t *Table) NumColumns() int { return len(t.columns) }

// Column returns the i-th column
func (t *Table) Column(i int) Column { return t.columns[i] }

// ColumnByName returns the named column
func (t *Table) ColumnByName(name string) (Column, bool) {
	i := t.schema.IndexOf(name)
	if i < 0 {
		return nil, false
	}
	return t.columns[i], true
}

// Row returns the i-th row as staged values
func (t *Table) Row(i int) Row {
	row := make(Row, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Value(i)
	}
	return row
}

// Rows returns every row in table order
func (t *Table) Rows() []Row {
	rows := make([]Row, t.rows)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// MemoryUsage estimates the bytes held by column storage
func (t *Table) MemoryUsage() int64 {
	var total int64
	for _, col := range t.columns {
		total += int64(len(col.Name()))
		total += col.MemoryUsage()
	}
	return total
}

// SortBy returns a new table with rows ordered by the named column.
// Ties keep their relative order.
func (t *Table) SortBy(name string) (*Table, error) {
	key, ok := t.ColumnByName(name)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown column %q", name)
	}

	perm := make([]int, t.rows)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return key.Value(perm[a]).Less(key.Value(perm[b]))
	})

	columns := make([]Column, len(t.columns))
	for i, col := range t.columns {
		columns[i] = col.take(perm)
	}
	return &Table{schema: t.schema, columns: columns, rows: t.rows}, nil
}

// Equal reports whether both tables share a schema and hold the same cells
// in the same row order
func (t *Table) Equal(other *Table) bool {
	if other == nil || !t.schema.Equal(other.schema) || t.rows != other.rows {
		return false
	}
	for c, col := range t.columns {
		oc := other.columns[c]
		for r := 0; r < t.rows; r++ {
			if !col.Value(r).Equal(oc.Value(r)) {
				return false
			}
		}
	}
	return true
}

// Concat joins tables of the same schema in argument order. Rows from one
// part stay aligned across every column.
func Concat(schema *Schema, parts ...*Table) (*Table, error) {
	total := 0
	for i, p := range parts {
		if !schema.Equal(p.schema) {
			return nil, errors.Newf(errors.ErrorTypeSchemaViolation, "part %d has a different schema", i)
		}
		total += p.rows
	}

	columns := make([]Column, schema.Len())
	for c := 0; c < schema.Len(); c++ {
		field := schema.Field(c)
		switch field.Type {
		case Uint64:
			values := make([]uint64, 0, total)
			for _, p := range parts {
				values = append(values, p.columns[c].(*Uint64Column).values...)
			}
			columns[c] = NewUint64Column(field.Name, values)
		case Float64:
			values := make([]float64, 0, total)
			for _, p := range parts {
				values = append(values, p.columns[c].(*Float64Column).values...)
			}
			columns[c] = NewFloat64Column(field.Name, values)
		default:
			b := newBuilder(field, total)
			offset := 0
			for _, p := range parts {
				col := p.columns[c]
				for r := 0; r < p.rows; r++ {
					if err := b.append(col.Value(r)); err != nil {
						return nil, cellError(err, field, offset+r)
					}
				}
				offset += p.rows
			}
			columns[c] = b.build()
		}
	}
	return NewTable(schema, columns)
}
