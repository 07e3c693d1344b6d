package materialize_test

import (
	"fmt"

	"github.com/ajitpratap0/quoteframe/pkg/materialize"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

func Example() {
	quotes := quote.Quotes{
		"NSE:INFY": {InstrumentToken: 408065, LastPrice: 1412.95, OHLC: quote.OHLC{Open: 1396.0}},
		"NSE:SBIN": {InstrumentToken: 779521, LastPrice: 423.4, OHLC: quote.OHLC{Open: 427.95}},
	}

	table, err := materialize.RowTranspose(quotes)
	if err != nil {
		fmt.Println(err)
		return
	}

	// row order follows map iteration; sort before reading positions
	table, _ = table.SortBy(materialize.ColSymbol)
	symbols, _ := table.ColumnByName(materialize.ColSymbol)
	opens, _ := table.ColumnByName(materialize.ColOpen)
	for i := 0; i < table.NumRows(); i++ {
		fmt.Println(symbols.Value(i), opens.Value(i))
	}

	// Output:
	// NSE:INFY 1396
	// NSE:SBIN 427.95
}
