// Package quoteframe builds typed columnar tables from market quote
// snapshots.
//
// A snapshot is a mapping from instrument symbol to a decoded quote record.
// The materialize package turns it into a 20-column table, one row per
// instrument, using any of several interchangeable strategies that all
// produce the same table. The jsontable package decodes a JSON array of
// flat rows against a declared schema, and export writes tables as text,
// CSV, JSON rows, Arrow, Parquet or Avro.
//
// # Quick Start
//
//	quotes, err := quote.DecodeQuotes(r)
//	if err != nil {
//		return err
//	}
//	table, err := materialize.RowTranspose(quotes)
//	if err != nil {
//		return err
//	}
//	return export.Encode(os.Stdout, export.CSV, table)
//
// The quoteframe command wraps the same flow:
//
//	quoteframe materialize --input quotes.json --strategy indexed-write --format parquet -o quotes.parquet
//	quoteframe decode --input rows.json --schema "symbol:string,last_price:float64"
//	quoteframe bench --input quotes.json --iterations 1000
//
// # Package Organization
//
//   - pkg/columnar: schemas, staged values, typed columns and tables
//   - pkg/quote: quote record types and JSON decoding
//   - pkg/materialize: the quote schema, strategies, sharding and the runner
//   - pkg/jsontable: schema-driven JSON rows decoding
//   - pkg/schema: sample-based type inference
//   - pkg/export: table encoders
//   - pkg/compression: output stream compression
//   - pkg/errors, pkg/logger, pkg/config, pkg/metrics, pkg/observability: shared infrastructure
package quoteframe
