// Package testutil provides quote fixtures and helpers shared by tests
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

// TestLogger creates a logger that writes to the test output
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string { return &s }

// InfyQuote is the NSE:INFY record from a live bulk quote response
func InfyQuote() quote.QuotesData {
	return quote.QuotesData{
		InstrumentToken:   408065,
		Timestamp:         StrPtr("2021-06-08 15:45:56"),
		LastTradeTime:     StrPtr("2021-06-08 15:45:52"),
		LastPrice:         1412.95,
		LastQuantity:      5,
		BuyQuantity:       0,
		SellQuantity:      5191,
		Volume:            7360198,
		AveragePrice:      1412.47,
		LowerCircuitLimit: 1250.7,
		UpperCircuitLimit: 1528.6,
		OHLC: quote.OHLC{
			Open:  1396.0,
			High:  1421.75,
			Low:   1395.55,
			Close: 1389.65,
		},
		Depth: quote.Depth{
			Sell: []quote.OrderDepth{{Price: 1412.95, Quantity: 5191, Orders: 13}},
		},
	}
}

// SyntheticQuotes builds n instruments with distinct, index-derived values.
// Every seventh record lacks timestamps.
func SyntheticQuotes(n int) quote.Quotes {
	quotes := make(quote.Quotes, n)
	for i := 0; i < n; i++ {
		f := float64(i)
		q := quote.QuotesData{
			InstrumentToken:   uint64(100000 + i),
			LastPrice:         100 + f*0.05,
			LastQuantity:      uint64(i % 50),
			BuyQuantity:       uint64(i * 3),
			SellQuantity:      uint64(i * 5),
			Volume:            uint64(i * 1000),
			AveragePrice:      99.5 + f*0.05,
			OI:                uint64(i * 7),
			OIDayHigh:         uint64(i * 8),
			OIDayLow:          uint64(i * 6),
			NetChange:         f*0.01 - 1,
			LowerCircuitLimit: 90 + f,
			UpperCircuitLimit: 110 + f,
			OHLC: quote.OHLC{
				Open:  100 + f,
				High:  101 + f,
				Low:   99 + f,
				Close: 100.5 + f,
			},
		}
		if i%7 != 0 {
			q.Timestamp = StrPtr(fmt.Sprintf("2021-06-08 15:%02d:%02d", i/60%60, i%60))
			q.LastTradeTime = StrPtr(fmt.Sprintf("2021-06-08 15:%02d:%02d", i/60%60, (i+1)%60))
		}
		quotes[fmt.Sprintf("NSE:SYM%05d", i)] = q
	}
	return quotes
}

// LoadQuotes decodes a bulk quote document, failing the test on error
func LoadQuotes(t *testing.T, path string) quote.Quotes {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	quotes, err := quote.DecodeQuotes(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return quotes
}
