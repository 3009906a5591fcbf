package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/cointrader/coin-trader/pkg/types"
)

// ExcelReporter writes the trade history to an Excel workbook.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteTradesXLSX writes all trades to path, creating parent directories as
// needed.
func (r *ExcelReporter) WriteTradesXLSX(trades []*types.Trade, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Trades"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	headers := []string{
		"Timestamp", "Strategy", "Ticker", "Side", "Price",
		"Quantity", "Total Quote", "Fee", "Profit", "Profit %", "Reason",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	fx.SetCellStyle(sheet, "A1", endHeader, headerStyle)

	for row, trade := range trades {
		values := []interface{}{
			trade.Timestamp.Format("2006-01-02 15:04:05"),
			trade.StrategyName,
			trade.Ticker,
			string(trade.Side),
			trade.Price,
			trade.Quantity,
			trade.TotalQuote,
			trade.Fee,
		}
		if trade.Profit != nil {
			values = append(values, *trade.Profit, *trade.ProfitPct)
		} else {
			values = append(values, "", "")
		}
		values = append(values, trade.Reason)

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			fx.SetCellValue(sheet, cell, v)
		}
	}

	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "K", "K", 45)

	return fx.SaveAs(path)
}
