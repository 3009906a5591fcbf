package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cointrader/coin-trader/internal/engine"
	"github.com/cointrader/coin-trader/pkg/types"
)

// PrintSummary prints the execution summary to the console.
func PrintSummary(summary engine.Summary) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("📊 SESSION SUMMARY")
	fmt.Println(strings.Repeat("=", 50))

	fmt.Printf("💰 Quote Balance:   %.2f\n", summary.QuoteBalance)
	fmt.Printf("🔄 Total Trades:    %d\n", summary.TotalTrades)
	fmt.Printf("✅ Winning Trades:  %d\n", summary.WinningTrades)
	fmt.Printf("🎯 Win Rate:        %.1f%%\n", summary.WinRate*100)
	fmt.Printf("💹 Total Profit:    %.2f\n", summary.TotalProfit)
	fmt.Printf("📈 Open Positions:  %d\n", summary.OpenPositions)
	fmt.Printf("🧾 Trade Log:       %d entries\n", summary.TradeLogCount)
}

// PrintPositions renders the open positions as a table.
func PrintPositions(positions map[string]*types.Position, currentPrices map[string]float64) {
	if len(positions) == 0 {
		fmt.Println("📭 No open positions")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("OPEN POSITIONS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Ticker", "Strategy", "Entry", "Quantity", "High", "Unrealized %"})

	for ticker, position := range positions {
		unrealized := "-"
		if price, ok := currentPrices[ticker]; ok && position.EntryPrice > 0 {
			pct := (price/position.EntryPrice - 1) * 100
			unrealized = fmt.Sprintf("%.2f%%", pct)
		}
		t.AppendRow(table.Row{
			ticker,
			position.StrategyName,
			fmt.Sprintf("%.2f", position.EntryPrice),
			fmt.Sprintf("%.8f", position.Quantity),
			fmt.Sprintf("%.2f", position.HighestPrice),
			unrealized,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	t.Render()
}
