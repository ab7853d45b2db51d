package engine

import (
	"github.com/SwootsUA/wt-market-parse/internal/gaijin"
)

const (
	secondsPerDay = 86_400
	// fallbackSpanDays stands in for a degenerate observation window
	// (single timestamp, or first == last) to avoid division by zero.
	fallbackSpanDays = 1.0
)

// PairStats are the reduced per-item transaction statistics.
type PairStats struct {
	AvgDailyTx float64 // transactions per day over the observed window
	AvgTxPrice float64 // average trade price in decimal currency units
}

// Aggregate reduces a pair's transaction history, assumed time-ascending,
// into daily throughput and average trade price. It never fails: an empty
// history or a zero trade count yields zero statistics.
func Aggregate(history []gaijin.Trade, itemDivider float64) PairStats {
	if len(history) == 0 {
		return PairStats{}
	}

	spanSec := history[len(history)-1].Time - history[0].Time

	var totalValue, totalCount int64
	for _, tr := range history {
		totalValue += tr.Price
		totalCount += tr.Count
	}
	if totalCount == 0 {
		return PairStats{}
	}

	daysSpan := float64(spanSec) / secondsPerDay
	if daysSpan == 0 {
		daysSpan = fallbackSpanDays
	}

	return PairStats{
		AvgDailyTx: float64(totalCount) / daysSpan,
		AvgTxPrice: float64(totalValue) / float64(totalCount) / itemDivider,
	}
}
