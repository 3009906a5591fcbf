package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/cointrader/coin-trader/internal/errors"
	"github.com/cointrader/coin-trader/pkg/types"
)

// CSVProvider loads historical candles from CSV files with the layout
// timestamp,open,high,low,close,volume. Timestamps are either RFC3339 or
// unix milliseconds.
type CSVProvider struct{}

// NewCSVProvider creates a new CSV candle provider.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadCandles reads all candles from filename, oldest first. Rows that fail
// to parse are skipped with a warning rather than aborting the load.
func (p *CSVProvider) LoadCandles(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCategoryData, "csv", "failed to open candle file")
	}
	defer file.Close()

	reader := csv.NewReader(file)

	record, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCategoryData, "csv", "failed to read candle file")
	}

	var candles []types.OHLCV
	lineNum := 1

	// First row may be a header; if it parses as data, keep it
	if candle, ok := parseCandleRow(record); ok {
		candles = append(candles, candle)
	}

	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, errors.ErrorCategoryData, "csv",
				fmt.Sprintf("error reading CSV at line %d", lineNum))
		}
		lineNum++

		candle, ok := parseCandleRow(record)
		if !ok {
			log.Printf("⚠️ Skipping unparseable row at line %d", lineNum)
			continue
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, errors.NewDataError("csv", "no candles found in "+filename)
	}
	return candles, nil
}

func parseCandleRow(record []string) (types.OHLCV, bool) {
	if len(record) < 6 {
		return types.OHLCV{}, false
	}

	timestamp, ok := parseTimestamp(record[0])
	if !ok {
		return types.OHLCV{}, false
	}

	values := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return types.OHLCV{}, false
		}
		values[i] = v
	}

	return types.OHLCV{
		Timestamp: timestamp,
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, true
}

func parseTimestamp(raw string) (time.Time, bool) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
