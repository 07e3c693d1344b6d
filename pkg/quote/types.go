// Package quote defines the decoded market quote records handed to the
// materializer, in both the bulk and the single-envelope form the Kite quote
// API returns.
package quote

import (
	"time"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/json"
)

// TimestampLayout is the wire format of quote timestamps
const TimestampLayout = "2006-01-02 15:04:05"

// Status is the envelope status reported by the quote API
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusFailed  Status = "failed"
)

// UnmarshalJSON accepts only the known status values
func (s *Status) UnmarshalJSON(data []byte) error {
	v, ok, err := unquote(data)
	if err != nil || !ok {
		return err
	}
	switch Status(v) {
	case StatusSuccess, StatusError, StatusFailed:
		*s = Status(v)
		return nil
	}
	return errors.Newf(errors.ErrorTypeData, "unknown quote status %q", v)
}

// Exception is the error class reported by the quote API
type Exception string

const (
	TokenException   Exception = "TokenException"
	UserException    Exception = "UserException"
	OrderException   Exception = "OrderException"
	InputException   Exception = "InputException"
	NetworkException Exception = "NetworkException"
	DataException    Exception = "DataException"
	GeneralException Exception = "GeneralException"
)

// UnmarshalJSON accepts only the known exception classes
func (e *Exception) UnmarshalJSON(data []byte) error {
	v, ok, err := unquote(data)
	if err != nil || !ok {
		return err
	}
	switch Exception(v) {
	case TokenException, UserException, OrderException, InputException,
		NetworkException, DataException, GeneralException:
		*e = Exception(v)
		return nil
	}
	return errors.Newf(errors.ErrorTypeData, "unknown exception class %q", v)
}

// OHLC holds the day's open, high, low and close prices
type OHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// OrderDepth is one order book level
type OrderDepth struct {
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"`
	Orders   uint64  `json:"orders"`
}

// Depth holds the buy and sell sides of the order book, best level first.
// Depth is carried on the record but never flattened into table columns.
type Depth struct {
	Buy  []OrderDepth `json:"buy"`
	Sell []OrderDepth `json:"sell"`
}

func (d Depth) clone() Depth {
	return Depth{Buy: cloneLevels(d.Buy), Sell: cloneLevels(d.Sell)}
}

func cloneLevels(levels []OrderDepth) []OrderDepth {
	if levels == nil {
		return nil
	}
	out := make([]OrderDepth, len(levels))
	copy(out, levels)
	return out
}

// QuotesData is one instrument in the bulk form consumed by the materializer.
// Timestamps stay textual and are nil when the payload omits them.
type QuotesData struct {
	InstrumentToken   uint64  `json:"instrument_token"`
	Timestamp         *string `json:"timestamp,omitempty"`
	LastTradeTime     *string `json:"last_trade_time,omitempty"`
	LastPrice         float64 `json:"last_price"`
	LastQuantity      uint64  `json:"last_quantity"`
	BuyQuantity       uint64  `json:"buy_quantity"`
	SellQuantity      uint64  `json:"sell_quantity"`
	Volume            uint64  `json:"volume"`
	AveragePrice      float64 `json:"average_price"`
	OI                uint64  `json:"oi"`
	OIDayHigh         uint64  `json:"oi_day_high"`
	OIDayLow          uint64  `json:"oi_day_low"`
	NetChange         float64 `json:"net_change"`
	LowerCircuitLimit float64 `json:"lower_circuit_limit"`
	UpperCircuitLimit float64 `json:"upper_circuit_limit"`
	OHLC              OHLC    `json:"ohlc"`
	Depth             Depth   `json:"depth"`
}

// Clone returns a deep copy of the record
func (q QuotesData) Clone() QuotesData {
	out := q
	if q.Timestamp != nil {
		ts := *q.Timestamp
		out.Timestamp = &ts
	}
	if q.LastTradeTime != nil {
		lt := *q.LastTradeTime
		out.LastTradeTime = &lt
	}
	out.Depth = q.Depth.clone()
	return out
}

// Quotes maps a trading symbol such as "NSE:INFY" to its bulk record.
// Iteration order is unspecified, and so is the row order of any table
// built from it.
type Quotes map[string]QuotesData

// Clone returns a deep copy of the mapping
func (q Quotes) Clone() Quotes {
	if q == nil {
		return nil
	}
	out := make(Quotes, len(q))
	for symbol, data := range q {
		out[symbol] = data.Clone()
	}
	return out
}

// Timestamp is a quote date-time in TimestampLayout
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses a TimestampLayout string
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return Timestamp{}, errors.Wrap(err, errors.ErrorTypeData, "invalid quote timestamp").
			WithDetail("value", s)
	}
	return Timestamp{t}, nil
}

// String formats the timestamp in TimestampLayout
func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// MarshalJSON writes the timestamp as a TimestampLayout string
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON reads a TimestampLayout string
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	v, ok, err := unquote(data)
	if err != nil || !ok {
		return err
	}
	parsed, err := ParseTimestamp(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// QuoteData is one instrument in the single-quote envelope. It differs from
// QuotesData in that last_quantity is signed and timestamps are parsed.
type QuoteData struct {
	InstrumentToken   uint64     `json:"instrument_token"`
	Timestamp         *Timestamp `json:"timestamp,omitempty"`
	LastTradeTime     *Timestamp `json:"last_trade_time,omitempty"`
	LastPrice         float64    `json:"last_price"`
	LastQuantity      int64      `json:"last_quantity"`
	BuyQuantity       uint64     `json:"buy_quantity"`
	SellQuantity      uint64     `json:"sell_quantity"`
	Volume            uint64     `json:"volume"`
	AveragePrice      float64    `json:"average_price"`
	OI                uint64     `json:"oi"`
	OIDayHigh         uint64     `json:"oi_day_high"`
	OIDayLow          uint64     `json:"oi_day_low"`
	NetChange         float64    `json:"net_change"`
	LowerCircuitLimit float64    `json:"lower_circuit_limit"`
	UpperCircuitLimit float64    `json:"upper_circuit_limit"`
	OHLC              OHLC       `json:"ohlc"`
	Depth             Depth      `json:"depth"`
}

// Quote is the envelope returned by the single-quote endpoint
type Quote struct {
	Status    Status               `json:"status"`
	Data      map[string]QuoteData `json:"data,omitempty"`
	Message   string               `json:"message,omitempty"`
	ErrorType Exception            `json:"error_type,omitempty"`
}

// unquote decodes a JSON string literal. ok is false for JSON null.
func unquote(data []byte) (v string, ok bool, err error) {
	if string(data) == "null" {
		return "", false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return "", false, errors.Wrap(err, errors.ErrorTypeData, "expected a JSON string")
	}
	return v, true, nil
}
