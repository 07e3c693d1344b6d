package materialize

import (
	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

// Strategy materializes a symbol-keyed quote mapping into a quote table.
// Row order follows map iteration and is therefore unspecified; only the
// alignment of each row with its symbol is guaranteed. Strategies never
// mutate or retain the input.
type Strategy func(quotes quote.Quotes) (*columnar.Table, error)

// DirectAppend appends every field to a pre-sized column slice in a single
// pass over the mapping
func DirectAppend(quotes quote.Quotes) (*columnar.Table, error) {
	s := newScratch(0, len(quotes))
	for symbol, q := range quotes {
		s.append(symbol, &q)
	}
	return columnar.NewTable(quoteSchema, s.columns())
}

// PlaceholderOverwrite first allocates every column at its final length as
// a throwaway placeholder, fills per-field scratch slices, then overwrites
// each placeholder with the real column. It measures the cost of the
// double allocation.
func PlaceholderOverwrite(quotes quote.Quotes) (*columnar.Table, error) {
	cols := placeholders(len(quotes))

	s := newScratch(0, len(quotes))
	for symbol, q := range quotes {
		s.append(symbol, &q)
	}

	for i, col := range s.columns() {
		cols[i] = col
	}
	return columnar.NewTable(quoteSchema, cols)
}

// IndexedWrite sizes every scratch slice to the final row count and writes
// each record at its enumeration index. Nothing grows or reallocates.
func IndexedWrite(quotes quote.Quotes) (*columnar.Table, error) {
	s := newScratch(len(quotes), len(quotes))
	i := 0
	for symbol, q := range quotes {
		s.set(i, symbol, &q)
		i++
	}
	return columnar.NewTable(quoteSchema, s.columns())
}

// PrefilledIndexedWrite combines placeholder columns with scratch slices that
// are first filled with zero values by appending, then overwritten by index.
// It is kept as a separately labelled benchmark of redundant allocation.
func PrefilledIndexedWrite(quotes quote.Quotes) (*columnar.Table, error) {
	n := len(quotes)
	cols := placeholders(n)

	s := newScratch(0, n)
	for i := 0; i < n; i++ {
		s.appendZero()
	}

	i := 0
	for symbol, q := range quotes {
		s.set(i, symbol, &q)
		i++
	}

	for c, col := range s.columns() {
		cols[c] = col
	}
	return columnar.NewTable(quoteSchema, cols)
}

// GenericStaging stages every cell as a dynamically typed Value in a
// column-major buffer, then coerces each column to the quote schema
func GenericStaging(quotes quote.Quotes) (*columnar.Table, error) {
	return GenericStagingWith(quoteSchema)(quotes)
}

// GenericStagingWith is GenericStaging against an arbitrary 20-column schema.
// Staged column i is coerced to schema field i; a cell that cannot satisfy
// the declared type fails the build with ErrorTypeTypeMismatch.
func GenericStagingWith(schema *columnar.Schema) Strategy {
	return func(quotes quote.Quotes) (*columnar.Table, error) {
		if err := checkWidth(schema); err != nil {
			return nil, err
		}

		grid := stagingPool.Get()
		defer stagingPool.Put(grid)
		buf := grid.size(len(quotes))

		i := 0
		for symbol, q := range quotes {
			buf[0][i] = columnar.StringValue(symbol)
			buf[1][i] = columnar.Uint64Value(q.InstrumentToken)
			buf[2][i] = columnar.OptionalString(q.Timestamp)
			buf[3][i] = columnar.OptionalString(q.LastTradeTime)
			buf[4][i] = columnar.Float64Value(q.LastPrice)
			buf[5][i] = columnar.Uint64Value(q.LastQuantity)
			buf[6][i] = columnar.Uint64Value(q.BuyQuantity)
			buf[7][i] = columnar.Uint64Value(q.SellQuantity)
			buf[8][i] = columnar.Uint64Value(q.Volume)
			buf[9][i] = columnar.Float64Value(q.AveragePrice)
			buf[10][i] = columnar.Uint64Value(q.OI)
			buf[11][i] = columnar.Uint64Value(q.OIDayHigh)
			buf[12][i] = columnar.Uint64Value(q.OIDayLow)
			buf[13][i] = columnar.Float64Value(q.NetChange)
			buf[14][i] = columnar.Float64Value(q.LowerCircuitLimit)
			buf[15][i] = columnar.Float64Value(q.UpperCircuitLimit)
			buf[16][i] = columnar.Float64Value(q.OHLC.Open)
			buf[17][i] = columnar.Float64Value(q.OHLC.High)
			buf[18][i] = columnar.Float64Value(q.OHLC.Low)
			buf[19][i] = columnar.Float64Value(q.OHLC.Close)
			i++
		}

		cols := make([]columnar.Column, NumColumns)
		for c := range buf {
			// builders copy cells, so the grid can go back to the pool
			col, err := columnar.ColumnFromValues(schema.Field(c), buf[c])
			if err != nil {
				return nil, err
			}
			cols[c] = col
		}
		return columnar.NewTable(schema, cols)
	}
}

// RowTranspose builds one schema-aligned row per record and transposes the
// collected rows into columns in a single batch
func RowTranspose(quotes quote.Quotes) (*columnar.Table, error) {
	return RowTransposeWith(quoteSchema)(quotes)
}

// RowTransposeWith is RowTranspose against an arbitrary 20-column schema
func RowTransposeWith(schema *columnar.Schema) Strategy {
	return func(quotes quote.Quotes) (*columnar.Table, error) {
		if err := checkWidth(schema); err != nil {
			return nil, err
		}

		rows := make([]columnar.Row, 0, len(quotes))
		for symbol, q := range quotes {
			rows = append(rows, quoteRow(symbol, &q))
		}
		return columnar.NewTableFromRows(schema, rows)
	}
}

// quoteRow projects one record onto the quote schema
func quoteRow(symbol string, q *quote.QuotesData) columnar.Row {
	return columnar.Row{
		columnar.StringValue(symbol),
		columnar.Uint64Value(q.InstrumentToken),
		columnar.OptionalString(q.Timestamp),
		columnar.OptionalString(q.LastTradeTime),
		columnar.Float64Value(q.LastPrice),
		columnar.Uint64Value(q.LastQuantity),
		columnar.Uint64Value(q.BuyQuantity),
		columnar.Uint64Value(q.SellQuantity),
		columnar.Uint64Value(q.Volume),
		columnar.Float64Value(q.AveragePrice),
		columnar.Uint64Value(q.OI),
		columnar.Uint64Value(q.OIDayHigh),
		columnar.Uint64Value(q.OIDayLow),
		columnar.Float64Value(q.NetChange),
		columnar.Float64Value(q.LowerCircuitLimit),
		columnar.Float64Value(q.UpperCircuitLimit),
		columnar.Float64Value(q.OHLC.Open),
		columnar.Float64Value(q.OHLC.High),
		columnar.Float64Value(q.OHLC.Low),
		columnar.Float64Value(q.OHLC.Close),
	}
}

func checkWidth(schema *columnar.Schema) error {
	if schema == nil {
		return errors.New(errors.ErrorTypeValidation, "schema is required")
	}
	if schema.Len() != NumColumns {
		return errors.Newf(errors.ErrorTypeSchemaViolation,
			"quote rows have %d cells, schema declares %d fields", NumColumns, schema.Len())
	}
	return nil
}
