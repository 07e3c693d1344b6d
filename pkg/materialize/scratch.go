package materialize

import (
	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/pool"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

// scratch holds one natively typed slice per quote column
type scratch struct {
	symbols            []string
	instrumentTokens   []uint64
	timestamps         []*string
	lastTradeTimes     []*string
	lastPrices         []float64
	lastQuantities     []uint64
	buyQuantities      []uint64
	sellQuantities     []uint64
	volumes            []uint64
	averagePrices      []float64
	ois                []uint64
	oiDayHighs         []uint64
	oiDayLows          []uint64
	netChanges         []float64
	lowerCircuitLimits []float64
	upperCircuitLimits []float64
	opens              []float64
	highs              []float64
	lows               []float64
	closes             []float64
}

// newScratch allocates every column with the given length and capacity
func newScratch(length, capacity int) *scratch {
	return &scratch{
		symbols:            make([]string, length, capacity),
		instrumentTokens:   make([]uint64, length, capacity),
		timestamps:         make([]*string, length, capacity),
		lastTradeTimes:     make([]*string, length, capacity),
		lastPrices:         make([]float64, length, capacity),
		lastQuantities:     make([]uint64, length, capacity),
		buyQuantities:      make([]uint64, length, capacity),
		sellQuantities:     make([]uint64, length, capacity),
		volumes:            make([]uint64, length, capacity),
		averagePrices:      make([]float64, length, capacity),
		ois:                make([]uint64, length, capacity),
		oiDayHighs:         make([]uint64, length, capacity),
		oiDayLows:          make([]uint64, length, capacity),
		netChanges:         make([]float64, length, capacity),
		lowerCircuitLimits: make([]float64, length, capacity),
		upperCircuitLimits: make([]float64, length, capacity),
		opens:              make([]float64, length, capacity),
		highs:              make([]float64, length, capacity),
		lows:               make([]float64, length, capacity),
		closes:             make([]float64, length, capacity),
	}
}

func (s *scratch) append(symbol string, q *quote.QuotesData) {
	s.symbols = append(s.symbols, symbol)
	s.instrumentTokens = append(s.instrumentTokens, q.InstrumentToken)
	s.timestamps = append(s.timestamps, q.Timestamp)
	s.lastTradeTimes = append(s.lastTradeTimes, q.LastTradeTime)
	s.lastPrices = append(s.lastPrices, q.LastPrice)
	s.lastQuantities = append(s.lastQuantities, q.LastQuantity)
	s.buyQuantities = append(s.buyQuantities, q.BuyQuantity)
	s.sellQuantities = append(s.sellQuantities, q.SellQuantity)
	s.volumes = append(s.volumes, q.Volume)
	s.averagePrices = append(s.averagePrices, q.AveragePrice)
	s.ois = append(s.ois, q.OI)
	s.oiDayHighs = append(s.oiDayHighs, q.OIDayHigh)
	s.oiDayLows = append(s.oiDayLows, q.OIDayLow)
	s.netChanges = append(s.netChanges, q.NetChange)
	s.lowerCircuitLimits = append(s.lowerCircuitLimits, q.LowerCircuitLimit)
	s.upperCircuitLimits = append(s.upperCircuitLimits, q.UpperCircuitLimit)
	s.opens = append(s.opens, q.OHLC.Open)
	s.highs = append(s.highs, q.OHLC.High)
	s.lows = append(s.lows, q.OHLC.Low)
	s.closes = append(s.closes, q.OHLC.Close)
}

func (s *scratch) appendZero() {
	s.symbols = append(s.symbols, "")
	s.instrumentTokens = append(s.instrumentTokens, 0)
	s.timestamps = append(s.timestamps, nil)
	s.lastTradeTimes = append(s.lastTradeTimes, nil)
	s.lastPrices = append(s.lastPrices, 0)
	s.lastQuantities = append(s.lastQuantities, 0)
	s.buyQuantities = append(s.buyQuantities, 0)
	s.sellQuantities = append(s.sellQuantities, 0)
	s.volumes = append(s.volumes, 0)
	s.averagePrices = append(s.averagePrices, 0)
	s.ois = append(s.ois, 0)
	s.oiDayHighs = append(s.oiDayHighs, 0)
	s.oiDayLows = append(s.oiDayLows, 0)
	s.netChanges = append(s.netChanges, 0)
	s.lowerCircuitLimits = append(s.lowerCircuitLimits, 0)
	s.upperCircuitLimits = append(s.upperCircuitLimits, 0)
	s.opens = append(s.opens, 0)
	s.highs = append(s.highs, 0)
	s.lows = append(s.lows, 0)
	s.closes = append(s.closes, 0)
}

func (s *scratch) set(i int, symbol string, q *quote.QuotesData) {
	s.symbols[i] = symbol
	s.instrumentTokens[i] = q.InstrumentToken
	s.timestamps[i] = q.Timestamp
	s.lastTradeTimes[i] = q.LastTradeTime
	s.lastPrices[i] = q.LastPrice
	s.lastQuantities[i] = q.LastQuantity
	s.buyQuantities[i] = q.BuyQuantity
	s.sellQuantities[i] = q.SellQuantity
	s.volumes[i] = q.Volume
	s.averagePrices[i] = q.AveragePrice
	s.ois[i] = q.OI
	s.oiDayHighs[i] = q.OIDayHigh
	s.oiDayLows[i] = q.OIDayLow
	s.netChanges[i] = q.NetChange
	s.lowerCircuitLimits[i] = q.LowerCircuitLimit
	s.upperCircuitLimits[i] = q.UpperCircuitLimit
	s.opens[i] = q.OHLC.Open
	s.highs[i] = q.OHLC.High
	s.lows[i] = q.OHLC.Low
	s.closes[i] = q.OHLC.Close
}

// columns converts the scratch slices into typed columns in schema order.
// The numeric slices are handed over without copying.
func (s *scratch) columns() []columnar.Column {
	return []columnar.Column{
		columnar.NewStringColumn(ColSymbol, s.symbols),
		columnar.NewUint64Column(ColInstrumentToken, s.instrumentTokens),
		columnar.NewNullableStringColumn(ColTimestamp, s.timestamps),
		columnar.NewNullableStringColumn(ColLastTradeTime, s.lastTradeTimes),
		columnar.NewFloat64Column(ColLastPrice, s.lastPrices),
		columnar.NewUint64Column(ColLastQuantity, s.lastQuantities),
		columnar.NewUint64Column(ColBuyQuantity, s.buyQuantities),
		columnar.NewUint64Column(ColSellQuantity, s.sellQuantities),
		columnar.NewUint64Column(ColVolume, s.volumes),
		columnar.NewFloat64Column(ColAveragePrice, s.averagePrices),
		columnar.NewUint64Column(ColOI, s.ois),
		columnar.NewUint64Column(ColOIDayHigh, s.oiDayHighs),
		columnar.NewUint64Column(ColOIDayLow, s.oiDayLows),
		columnar.NewFloat64Column(ColNetChange, s.netChanges),
		columnar.NewFloat64Column(ColLowerCircuitLimit, s.lowerCircuitLimits),
		columnar.NewFloat64Column(ColUpperCircuitLimit, s.upperCircuitLimits),
		columnar.NewFloat64Column(ColOpen, s.opens),
		columnar.NewFloat64Column(ColHigh, s.highs),
		columnar.NewFloat64Column(ColLow, s.lows),
		columnar.NewFloat64Column(ColClose, s.closes),
	}
}

// placeholders allocates a full-length column for every schema position.
// They are all uint64 and get replaced wholesale before the table is built.
func placeholders(n int) []columnar.Column {
	cols := make([]columnar.Column, NumColumns)
	for i := range cols {
		cols[i] = columnar.NewUint64Column(quoteSchema.Field(i).Name, make([]uint64, n))
	}
	return cols
}

// valueGrid is the staging buffer of GenericStaging: one []Value per column
type valueGrid struct {
	cols [NumColumns][]columnar.Value
}

// size returns the grid's columns resized to n rows
func (g *valueGrid) size(n int) [][]columnar.Value {
	out := make([][]columnar.Value, NumColumns)
	for c := range g.cols {
		if cap(g.cols[c]) < n {
			g.cols[c] = make([]columnar.Value, n)
		}
		g.cols[c] = g.cols[c][:n]
		out[c] = g.cols[c]
	}
	return out
}

func (g *valueGrid) reset() {
	for c := range g.cols {
		clear(g.cols[c])
		g.cols[c] = g.cols[c][:0]
	}
}

var stagingPool = pool.New(
	func() *valueGrid { return &valueGrid{} },
	(*valueGrid).reset,
)
