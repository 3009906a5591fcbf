package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cointrader/coin-trader/internal/errors"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestLoadCandles_WithHeader tests that a header row is skipped
func TestLoadCandles_WithHeader(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
1700000000000,50000000,51000000,49500000,50500000,12.5
1700003600000,50500000,52000000,50400000,51800000,18.2
`)

	candles, err := NewCSVProvider().LoadCandles(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, 50_000_000.0, candles[0].Open)
	assert.Equal(t, 50_500_000.0, candles[0].Close)
	assert.Equal(t, 12.5, candles[0].Volume)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), candles[0].Timestamp)
	assert.Equal(t, 51_800_000.0, candles[1].Close)
}

// TestLoadCandles_NoHeader tests that a first data row is not lost
func TestLoadCandles_NoHeader(t *testing.T) {
	path := writeCSV(t, `1700000000000,50000000,51000000,49500000,50500000,12.5
1700003600000,50500000,52000000,50400000,51800000,18.2
`)

	candles, err := NewCSVProvider().LoadCandles(path)
	require.NoError(t, err)
	assert.Len(t, candles, 2)
}

// TestLoadCandles_TimestampFormats tests the three accepted formats
func TestLoadCandles_TimestampFormats(t *testing.T) {
	path := writeCSV(t, `1700000000000,1,2,1,2,1
2023-11-14T22:13:20Z,1,2,1,2,1
2023-11-14 22:13:20,1,2,1,2,1
`)

	candles, err := NewCSVProvider().LoadCandles(path)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	expected := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	for _, candle := range candles {
		assert.Equal(t, expected, candle.Timestamp)
	}
}

// TestLoadCandles_SkipsBadRows tests that malformed rows are dropped without
// aborting the load
func TestLoadCandles_SkipsBadRows(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
1700000000000,50000000,51000000,49500000,50500000,12.5
not-a-time,1,2,1,2,1
1700003600000,nope,52000000,50400000,51800000,18.2
1700007200000,50500000,52000000,50400000,51900000,9.1
`)

	candles, err := NewCSVProvider().LoadCandles(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 50_500_000.0, candles[0].Close)
	assert.Equal(t, 51_900_000.0, candles[1].Close)
}

// TestLoadCandles_MissingFile tests the DATA error for a bad path
func TestLoadCandles_MissingFile(t *testing.T) {
	candles, err := NewCSVProvider().LoadCandles(filepath.Join(t.TempDir(), "nope.csv"))

	assert.Nil(t, candles)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.ErrorCategoryData))
}

// TestLoadCandles_OnlyHeader tests the DATA error when no rows parse
func TestLoadCandles_OnlyHeader(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume\n")

	candles, err := NewCSVProvider().LoadCandles(path)
	assert.Nil(t, candles)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.ErrorCategoryData))
}
