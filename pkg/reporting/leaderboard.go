package reporting

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cointrader/coin-trader/internal/backtest"
)

// Leaderboard ranks and displays strategy performance.
type Leaderboard struct{}

// NewLeaderboard creates a leaderboard printer.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

// Rank sorts results by return percentage, best first. The input slice is
// not modified.
func (l *Leaderboard) Rank(results []*backtest.Result) []*backtest.Result {
	ranked := make([]*backtest.Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ReturnPct > ranked[j].ReturnPct
	})
	return ranked
}

// Print renders the top-N strategies as a table.
func (l *Leaderboard) Print(results []*backtest.Result, topN int) {
	ranked := l.Rank(results)
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("STRATEGY LEADERBOARD")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Strategy", "Template", "Return %", "Max DD %", "Win Rate", "Trades"})

	for i, r := range ranked {
		returnCell := fmt.Sprintf("%.2f%%", r.ReturnPct)
		if r.ReturnPct > 0 {
			returnCell = text.FgGreen.Sprint(returnCell)
		} else if r.ReturnPct < 0 {
			returnCell = text.FgRed.Sprint(returnCell)
		}
		t.AppendRow(table.Row{
			i + 1,
			r.StrategyName,
			r.Template,
			returnCell,
			fmt.Sprintf("%.2f%%", r.MaxDrawdown*100),
			fmt.Sprintf("%.1f%%", r.WinRate*100),
			r.TotalTrades,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	t.Render()
}
