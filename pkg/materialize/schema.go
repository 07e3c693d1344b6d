package materialize

import "github.com/ajitpratap0/quoteframe/pkg/columnar"

// Quote table column names, in schema order
const (
	ColSymbol            = "symbol"
	ColInstrumentToken   = "instrument_token"
	ColTimestamp         = "timestamp"
	ColLastTradeTime     = "last_trade_time"
	ColLastPrice         = "last_price"
	ColLastQuantity      = "last_quantity"
	ColBuyQuantity       = "buy_quantity"
	ColSellQuantity      = "sell_quantity"
	ColVolume            = "volume"
	ColAveragePrice      = "average_price"
	ColOI                = "oi"
	ColOIDayHigh         = "oi_day_high"
	ColOIDayLow          = "oi_day_low"
	ColNetChange         = "net_change"
	ColLowerCircuitLimit = "lower_circuit_limit"
	ColUpperCircuitLimit = "upper_circuit_limit"
	ColOpen              = "open"
	ColHigh              = "high"
	ColLow               = "low"
	ColClose             = "close"
)

// NumColumns is the width of the quote table
const NumColumns = 20

var quoteSchema = columnar.MustSchema(
	columnar.Field{Name: ColSymbol, Type: columnar.String},
	columnar.Field{Name: ColInstrumentToken, Type: columnar.Uint64},
	columnar.Field{Name: ColTimestamp, Type: columnar.String},
	columnar.Field{Name: ColLastTradeTime, Type: columnar.String},
	columnar.Field{Name: ColLastPrice, Type: columnar.Float64},
	columnar.Field{Name: ColLastQuantity, Type: columnar.Uint64},
	columnar.Field{Name: ColBuyQuantity, Type: columnar.Uint64},
	columnar.Field{Name: ColSellQuantity, Type: columnar.Uint64},
	columnar.Field{Name: ColVolume, Type: columnar.Uint64},
	columnar.Field{Name: ColAveragePrice, Type: columnar.Float64},
	columnar.Field{Name: ColOI, Type: columnar.Uint64},
	columnar.Field{Name: ColOIDayHigh, Type: columnar.Uint64},
	columnar.Field{Name: ColOIDayLow, Type: columnar.Uint64},
	columnar.Field{Name: ColNetChange, Type: columnar.Float64},
	columnar.Field{Name: ColLowerCircuitLimit, Type: columnar.Float64},
	columnar.Field{Name: ColUpperCircuitLimit, Type: columnar.Float64},
	columnar.Field{Name: ColOpen, Type: columnar.Float64},
	columnar.Field{Name: ColHigh, Type: columnar.Float64},
	columnar.Field{Name: ColLow, Type: columnar.Float64},
	columnar.Field{Name: ColClose, Type: columnar.Float64},
)

// QuoteSchema returns the fixed 20-column quote table schema. Schemas are
// immutable, so the same instance is shared by every caller.
func QuoteSchema() *columnar.Schema {
	return quoteSchema
}
