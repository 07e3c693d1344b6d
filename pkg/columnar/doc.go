// Package columnar implements the typed, column-oriented table that quote
// materialization produces.
//
// # Overview
//
// A table is described by a Schema: an ordered list of (name, DataType)
// fields. Field order is significant and fixes the position of every column.
// Three column types exist:
//
//   - StringColumn: text cells with an optional validity mask, so absent
//     values are explicit nulls rather than empty strings
//   - Uint64Column: unsigned integers
//   - Float64Column: floating point numbers
//
// # Staged Values
//
// Builders that do not write natively typed storage stage cells as Value, a
// tagged union over {null, string, uint64, float64}. Converting staged cells
// into a column goes through explicit, fallible coercions. There is no
// implicit numeric widening or truncation: a uint64 cell offered to a float64
// column is a type mismatch.
//
//	col, err := columnar.ColumnFromValues(
//		columnar.Field{Name: "last_price", Type: columnar.Float64},
//		[]columnar.Value{columnar.Float64Value(1412.95)},
//	)
//
// # Tables
//
// Tables are built atomically and never change afterwards:
//
//	table, err := columnar.NewTable(schema, columns)      // typed columns
//	table, err := columnar.NewTableFromRows(schema, rows) // batch transpose
//
// Both constructors verify that column count, names and types match the
// schema and that all columns share one length. A violated length invariant
// is reported as ErrorTypeColumnLengthMismatch.
//
// Row order carries no meaning of its own. Use SortBy to obtain a canonical
// order before comparing tables with Equal.
package columnar
