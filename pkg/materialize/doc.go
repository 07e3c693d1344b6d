// Package materialize transposes a symbol-keyed quote mapping into the
// 20-column quote table.
//
// # Strategies
//
// Five interchangeable strategies produce tables with identical content,
// each sitting at a different point of the allocation tradeoff:
//
//   - DirectAppend: one pre-sized slice per column, filled by append
//   - PlaceholderOverwrite: full-length placeholder columns replaced after
//     an append pass
//   - IndexedWrite: full-length scratch slices written by enumeration index
//   - GenericStaging: column-major buffer of dynamic Values, coerced per column
//   - RowTranspose: one dynamic Row per record, transposed in one batch
//
// PrefilledIndexedWrite is an additional, labelled benchmark variant that
// pays for both the placeholder columns and an append-prefilled scratch.
//
// Only the two staging strategies coerce values, so only they can fail with
// ErrorTypeTypeMismatch. The other strategies write natively typed storage.
//
// # Row order
//
// Rows follow Go map iteration order, which is deliberately randomized.
// Compare tables after SortBy(ColSymbol):
//
//	table, err := materialize.DirectAppend(quotes)
//	sorted, err := table.SortBy(materialize.ColSymbol)
//
// # Concurrency
//
// Strategies are pure and safe for concurrent use; GenericStaging recycles
// its staging grid through a pool but never lets it reach a table. Sharded
// partitions the input into disjoint shards, materializes them concurrently
// and concatenates the partial tables in shard order.
package materialize
