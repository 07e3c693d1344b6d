package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/compression"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/materialize"
)

const quotesFixture = "../../pkg/quote/testdata/quotes.json"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestMaterializeCSV(t *testing.T) {
	out, err := execute(t, "materialize", "--input", quotesFixture, "--strategy", materialize.NameRowTranspose, "--format", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, materialize.QuoteSchema().Names(), records[0])

	// sorted by symbol
	assert.Equal(t, "NFO:NIFTY21JUNFUT", records[1][0])
	assert.Equal(t, "NSE:INFY", records[2][0])
	assert.Equal(t, "NSE:SBIN", records[3][0])
}

func TestMaterializeCompressedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json.zst")
	_, err := execute(t, "materialize", "--input", quotesFixture, "--shards", "2",
		"--format", "json", "--compression", "zstd", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	plain, err := compression.Decompress(data, compression.Zstd)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(plain, []byte("[")))
	assert.Contains(t, string(plain), `"symbol":"NSE:INFY"`)
}

func TestMaterializeRejectsUnknownStrategy(t *testing.T) {
	_, err := execute(t, "materialize", "--input", quotesFixture, "--strategy", "fastest")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestDecodeWithSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	doc := `[{"symbol": "NSE:INFY", "last_price": 1412}, {"symbol": "NSE:SBIN", "last_price": 427.95}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "decode", "--input", path, "--schema", "symbol:string, last_price:float64", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "symbol,last_price\nNSE:INFY,1412\nNSE:SBIN,427.95\n", out)
}

func TestDecodeViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"volume": "many"}]`), 0o644))

	_, err := execute(t, "decode", "--input", path, "--schema", "volume:u64")
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaViolation))
}

func TestStrategiesCommand(t *testing.T) {
	out, err := execute(t, "strategies")
	require.NoError(t, err)
	for _, name := range materialize.Names() {
		assert.Contains(t, out, name)
	}
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--input", quotesFixture, "-n", "2", "--warmup", "0",
		"--strategies", materialize.NameDirectAppend+","+materialize.NameGenericStaging)
	require.NoError(t, err)
	assert.Contains(t, out, materialize.NameDirectAppend)
	assert.Contains(t, out, materialize.NameGenericStaging)
	assert.Contains(t, out, "fastest:")
}

func TestParseSchema(t *testing.T) {
	s, err := parseSchema("a:string,b:uint64, c : f64")
	require.NoError(t, err)
	assert.Equal(t, []columnar.Field{
		{Name: "a", Type: columnar.String},
		{Name: "b", Type: columnar.Uint64},
		{Name: "c", Type: columnar.Float64},
	}, s.Fields())

	_, err = parseSchema("a")
	assert.Error(t, err)
	_, err = parseSchema("a:int8")
	assert.Error(t, err)
}
