package materialize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/metrics"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

func allStrategies(t *testing.T) map[string]Strategy {
	t.Helper()
	out := make(map[string]Strategy)
	for _, name := range Names() {
		s, err := Lookup(name)
		require.NoError(t, err)
		out[name] = s
	}
	return out
}

func TestQuoteSchema(t *testing.T) {
	s := QuoteSchema()
	require.Equal(t, NumColumns, s.Len())
	assert.Equal(t, []string{
		"symbol", "instrument_token", "timestamp", "last_trade_time", "last_price",
		"last_quantity", "buy_quantity", "sell_quantity", "volume", "average_price",
		"oi", "oi_day_high", "oi_day_low", "net_change", "lower_circuit_limit",
		"upper_circuit_limit", "open", "high", "low", "close",
	}, s.Names())

	types := map[columnar.DataType]int{}
	for _, f := range s.Fields() {
		types[f.Type]++
	}
	assert.Equal(t, 3, types[columnar.String])
	assert.Equal(t, 8, types[columnar.Uint64])
	assert.Equal(t, 9, types[columnar.Float64])
}

func TestSingleInstrument(t *testing.T) {
	quotes := quote.Quotes{"NSE:INFY": infyQuote()}

	for name, strategy := range allStrategies(t) {
		t.Run(name, func(t *testing.T) {
			table, err := strategy(quotes)
			require.NoError(t, err)
			require.Equal(t, 1, table.NumRows())
			require.Equal(t, NumColumns, table.NumColumns())

			row := table.Row(0)
			s := table.Schema()
			assert.Equal(t, "NSE:INFY", row[s.IndexOf(ColSymbol)].Interface())
			assert.Equal(t, uint64(408065), row[s.IndexOf(ColInstrumentToken)].Interface())
			assert.Equal(t, 1412.95, row[s.IndexOf(ColLastPrice)].Interface())
			assert.Equal(t, 1396.0, row[s.IndexOf(ColOpen)].Interface())
			assert.Equal(t, 1421.75, row[s.IndexOf(ColHigh)].Interface())
			assert.Equal(t, 1395.55, row[s.IndexOf(ColLow)].Interface())
			assert.Equal(t, 1389.65, row[s.IndexOf(ColClose)].Interface())
			assert.Equal(t, "2021-06-08 15:45:56", row[s.IndexOf(ColTimestamp)].Interface())
			assert.Equal(t, uint64(5), row[s.IndexOf(ColLastQuantity)].Interface())
		})
	}
}

func TestCrossStrategyEquivalence(t *testing.T) {
	quotes := syntheticQuotes(257)

	reference, err := DirectAppend(quotes)
	require.NoError(t, err)
	reference, err = reference.SortBy(ColSymbol)
	require.NoError(t, err)

	for name, strategy := range allStrategies(t) {
		t.Run(name, func(t *testing.T) {
			table, err := strategy(quotes)
			require.NoError(t, err)
			assert.True(t, table.Schema().Equal(QuoteSchema()))
			assert.Equal(t, len(quotes), table.NumRows())

			sorted, err := table.SortBy(ColSymbol)
			require.NoError(t, err)
			assert.True(t, reference.Equal(sorted), "%s differs from direct-append", name)
		})
	}
}

func TestGenericStagingReusesGrid(t *testing.T) {
	_, err := GenericStaging(syntheticQuotes(64))
	require.NoError(t, err)

	// a smaller build after a larger one must not see leftover cells
	small := syntheticQuotes(3)
	table, err := GenericStaging(small)
	require.NoError(t, err)
	require.Equal(t, 3, table.NumRows())

	want, err := DirectAppend(small)
	require.NoError(t, err)
	want, err = want.SortBy(ColSymbol)
	require.NoError(t, err)
	got, err := table.SortBy(ColSymbol)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, inUse, _ := stagingPool.Stats()
	assert.Equal(t, int64(0), inUse)
}

func TestColumnAlignment(t *testing.T) {
	quotes := syntheticQuotes(64)

	for name, strategy := range allStrategies(t) {
		t.Run(name, func(t *testing.T) {
			table, err := strategy(quotes)
			require.NoError(t, err)

			for r := 0; r < table.NumRows(); r++ {
				row := table.Row(r)
				symbol := row[0].Interface().(string)
				q, ok := quotes[symbol]
				require.True(t, ok, "unknown symbol %s", symbol)
				assert.Equal(t, quoteRow(symbol, &q), row, "row %d", r)
			}
		})
	}
}

func TestEmptyMapping(t *testing.T) {
	for name, strategy := range allStrategies(t) {
		t.Run(name, func(t *testing.T) {
			for _, quotes := range []quote.Quotes{nil, {}} {
				table, err := strategy(quotes)
				require.NoError(t, err)
				assert.Equal(t, 0, table.NumRows())
				assert.Equal(t, NumColumns, table.NumColumns())
			}
		})
	}
}

func TestAbsentTimestampsAreNull(t *testing.T) {
	q := infyQuote()
	q.Timestamp = nil
	quotes := quote.Quotes{"NSE:INFY": q}

	for name, strategy := range allStrategies(t) {
		t.Run(name, func(t *testing.T) {
			table, err := strategy(quotes)
			require.NoError(t, err)
			ts, ok := table.ColumnByName(ColTimestamp)
			require.True(t, ok)
			assert.True(t, ts.IsNull(0))
			assert.Equal(t, 1, ts.NullCount())

			ltt, _ := table.ColumnByName(ColLastTradeTime)
			assert.False(t, ltt.IsNull(0))
		})
	}
}

func TestStrategiesDoNotMutateInput(t *testing.T) {
	quotes := syntheticQuotes(20)
	before := quotes.Clone()

	for name, strategy := range allStrategies(t) {
		_, err := strategy(quotes)
		require.NoError(t, err, name)
	}
	assert.Equal(t, before, quotes)
}

// mistypedSchema declares last_price as uint64 while records carry floats
func mistypedSchema(t *testing.T) *columnar.Schema {
	t.Helper()
	fields := QuoteSchema().Fields()
	fields[4].Type = columnar.Uint64
	s, err := columnar.NewSchema(fields...)
	require.NoError(t, err)
	return s
}

func TestTypeMismatch(t *testing.T) {
	quotes := quote.Quotes{"NSE:INFY": infyQuote()}
	schema := mistypedSchema(t)

	for name, strategy := range map[string]Strategy{
		NameGenericStaging: GenericStagingWith(schema),
		NameRowTranspose:   RowTransposeWith(schema),
	} {
		t.Run(name, func(t *testing.T) {
			table, err := strategy(quotes)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch), "got %v", err)
			assert.False(t, errors.IsFatal(err))

			details := errors.Details(err)
			assert.Equal(t, ColLastPrice, details["column"])
			assert.Equal(t, "uint64", details["expected"])
			assert.Equal(t, "float64", details["actual"])
		})
	}
}

func TestStagingRejectsWrongWidth(t *testing.T) {
	narrow := columnar.MustSchema(columnar.Field{Name: ColSymbol, Type: columnar.String})
	for _, strategy := range []Strategy{GenericStagingWith(narrow), RowTransposeWith(narrow)} {
		_, err := strategy(quote.Quotes{"NSE:INFY": infyQuote()})
		assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaViolation))
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		NameDirectAppend, NamePlaceholderOverwrite, NameIndexedWrite,
		NameGenericStaging, NameRowTranspose,
	}, Core())
	assert.Len(t, Names(), 6)
	assert.Contains(t, Names(), NamePrefilledIndexedWrite)

	_, err := Lookup("column-shuffle")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	assert.True(t, Coercing(NameGenericStaging))
	assert.True(t, Coercing(NameRowTranspose))
	assert.False(t, Coercing(NameIndexedWrite))
}

func TestPartition(t *testing.T) {
	quotes := syntheticQuotes(10)

	shards := Partition(quotes, 3)
	require.Len(t, shards, 3)

	seen := map[string]int{}
	for _, shard := range shards {
		assert.NotEmpty(t, shard)
		for symbol := range shard {
			seen[symbol]++
		}
	}
	assert.Len(t, seen, 10)
	for symbol, count := range seen {
		assert.Equal(t, 1, count, symbol)
	}

	assert.Len(t, Partition(quotes, 50), 10)
	assert.Len(t, Partition(quotes, 0), 1)
	assert.Nil(t, Partition(quote.Quotes{}, 4))
}

func TestShardedEquivalence(t *testing.T) {
	quotes := syntheticQuotes(101)
	reference, err := IndexedWrite(quotes)
	require.NoError(t, err)
	reference, _ = reference.SortBy(ColSymbol)

	for _, name := range Core() {
		strategy, _ := Lookup(name)
		for _, shards := range []int{1, 2, 4, 16} {
			table, err := Sharded(strategy, shards)(quotes)
			require.NoError(t, err)
			require.Equal(t, 101, table.NumRows())

			sorted, _ := table.SortBy(ColSymbol)
			assert.True(t, reference.Equal(sorted), "%s with %d shards", name, shards)
		}
	}

	empty, err := Sharded(DirectAppend, 4)(quote.Quotes{})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumRows())
}

func TestShardedPropagatesError(t *testing.T) {
	strategy := Sharded(GenericStagingWith(mistypedSchema(t)), 4)
	table, err := strategy(syntheticQuotes(40))
	assert.Nil(t, table)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestRunner(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	runner, err := NewRunner(NameRowTranspose, WithLogger(zap.New(core)), WithShards(2))
	require.NoError(t, err)
	assert.Equal(t, NameRowTranspose, runner.Name())

	success := metrics.TablesBuilt.WithLabelValues(component, NameRowTranspose, "success")
	before := metrics.CounterValue(success)

	result, err := runner.Run(context.Background(), syntheticQuotes(30))
	require.NoError(t, err)
	assert.Equal(t, 30, result.Table.NumRows())
	assert.Len(t, result.RunID, 36)
	assert.Equal(t, before+1, metrics.CounterValue(success))

	entries := logs.FilterMessage("table materialized").All()
	require.Len(t, entries, 1)
	assert.Equal(t, result.RunID, entries[0].ContextMap()["run_id"])
	assert.Equal(t, int64(30), entries[0].ContextMap()["rows"])

	_, err = NewRunner("unknown")
	assert.Error(t, err)
}

func TestRunnerFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	runner := NewRunnerFor("mistyped", GenericStagingWith(mistypedSchema(t)), WithLogger(zap.New(core)))

	failure := metrics.TablesBuilt.WithLabelValues(component, "mistyped", "failure")
	before := metrics.CounterValue(failure)

	result, err := runner.Run(context.Background(), quote.Quotes{"NSE:INFY": infyQuote()})
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	assert.Equal(t, before+1, metrics.CounterValue(failure))

	entries := logs.FilterMessage("materialization failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, ColLastPrice, entries[0].ContextMap()["column"])
}
