package quote

import (
	"io"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/json"
)

// DecodeQuotes decodes a bulk quote document: a JSON object mapping each
// symbol to its record
func DecodeQuotes(r io.Reader) (Quotes, error) {
	var q Quotes
	if err := json.DecodeReader(r, &q); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode quotes")
	}
	if q == nil {
		q = Quotes{}
	}
	return q, nil
}

// DecodeQuote decodes a single-quote envelope
func DecodeQuote(r io.Reader) (*Quote, error) {
	var q Quote
	if err := json.DecodeReader(r, &q); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode quote envelope")
	}
	return &q, nil
}

// Err returns the error carried by a non-success envelope
func (q *Quote) Err() error {
	if q.Status == StatusSuccess {
		return nil
	}
	return errors.Newf(errors.ErrorTypeData, "quote request %s: %s", q.Status, q.Message).
		WithDetail("status", string(q.Status)).
		WithDetail("error_type", string(q.ErrorType))
}

// Bulk converts the envelope payload into the bulk form. The signed
// per-record last_quantity is only accepted when it is non-negative.
func (q *Quote) Bulk() (Quotes, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}

	out := make(Quotes, len(q.Data))
	for symbol, d := range q.Data {
		if d.LastQuantity < 0 {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"last_quantity %d of %s does not fit an unsigned column", d.LastQuantity, symbol).
				WithDetail("symbol", symbol).
				WithDetail("column", "last_quantity")
		}
		out[symbol] = QuotesData{
			InstrumentToken:   d.InstrumentToken,
			Timestamp:         formatOptional(d.Timestamp),
			LastTradeTime:     formatOptional(d.LastTradeTime),
			LastPrice:         d.LastPrice,
			LastQuantity:      uint64(d.LastQuantity),
			BuyQuantity:       d.BuyQuantity,
			SellQuantity:      d.SellQuantity,
			Volume:            d.Volume,
			AveragePrice:      d.AveragePrice,
			OI:                d.OI,
			OIDayHigh:         d.OIDayHigh,
			OIDayLow:          d.OIDayLow,
			NetChange:         d.NetChange,
			LowerCircuitLimit: d.LowerCircuitLimit,
			UpperCircuitLimit: d.UpperCircuitLimit,
			OHLC:              d.OHLC,
			Depth:             d.Depth.clone(),
		}
	}
	return out, nil
}

func formatOptional(t *Timestamp) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
