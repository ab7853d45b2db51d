package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/SwootsUA/wt-market-parse/internal/engine"
)

// Table writes an aligned console table.
func Table(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// CandidateRows selects the surfaced fields for ranked results: the
// trimmed default columns, plus the display name with showName, or the
// whole enriched record with allInfo.
func CandidateRows(top []engine.Enriched, showName, allInfo bool) ([]string, [][]string) {
	if allInfo {
		headers := []string{"HASH NAME", "NAME", "BUY", "SELL", "QTY", "PROFIT/ITEM", "TX/DAY", "AVG PRICE", "PROXIMITY", "SCORE"}
		rows := make([][]string, 0, len(top))
		for _, e := range top {
			rows = append(rows, []string{
				e.HashName,
				e.Name,
				money(e.BuyPrice),
				money(e.SellPrice),
				strconv.FormatInt(e.Quantity, 10),
				fmt.Sprintf("%.4f", e.PerItemProfit),
				fmt.Sprintf("%.1f", e.AvgDailyTx),
				fmt.Sprintf("%.3f", e.AvgTxPrice),
				fmt.Sprintf("%.4f", e.Proximity),
				fmt.Sprintf("%.4f", e.Score),
			})
		}
		return headers, rows
	}

	headers := []string{"HASH NAME", "BUY", "QTY", "SCORE"}
	if showName {
		headers = append(headers, "NAME")
	}
	rows := make([][]string, 0, len(top))
	for _, e := range top {
		row := []string{
			e.HashName,
			money(e.BuyPrice),
			strconv.FormatInt(e.Quantity, 10),
			fmt.Sprintf("%.4f", e.Score),
		}
		if showName {
			row = append(row, e.Name)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// SuggestionRows formats reconciliation suggestions.
func SuggestionRows(sugs []engine.Suggestion) ([]string, [][]string) {
	headers := []string{"MARKET", "SIDE", "QTY", "CURRENT", "BEST", "SUGGESTED"}
	rows := make([][]string, 0, len(sugs))
	for _, s := range sugs {
		rows = append(rows, []string{
			s.Market,
			s.Side,
			strconv.FormatInt(s.Quantity, 10),
			money(s.CurrentPrice),
			money(s.BestPrice),
			money(s.SuggestedPrice),
		})
	}
	return headers, rows
}

// BotLines emits the terse machine-friendly format: one item per line,
// space-separated fields, no alignment or colors.
func BotLines(w io.Writer, top []engine.Enriched) {
	for _, e := range top {
		fmt.Fprintf(w, "%s %s %d %.4f\n", e.HashName, money(e.BuyPrice), e.Quantity, e.Score)
	}
}

// BotSuggestionLines is the terse format for deals mode.
func BotSuggestionLines(w io.Writer, sugs []engine.Suggestion) {
	for _, s := range sugs {
		fmt.Fprintf(w, "%s %s %s -> %s\n", s.Market, s.Side, money(s.CurrentPrice), money(s.SuggestedPrice))
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
