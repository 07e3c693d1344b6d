package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticQuotes(t *testing.T) {
	quotes := SyntheticQuotes(15)
	require.Len(t, quotes, 15)

	first := quotes["NSE:SYM00000"]
	assert.Nil(t, first.Timestamp)
	assert.Equal(t, uint64(100000), first.InstrumentToken)

	second := quotes["NSE:SYM00001"]
	require.NotNil(t, second.Timestamp)
	assert.Equal(t, "2021-06-08 15:00:01", *second.Timestamp)
}

func TestLoadQuotes(t *testing.T) {
	quotes := LoadQuotes(t, "../quote/testdata/quotes.json")
	assert.Contains(t, quotes, "NSE:INFY")
}
