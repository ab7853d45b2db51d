package engine

import (
	"fmt"
	"strings"

	"github.com/SwootsUA/wt-market-parse/internal/gaijin"
	"github.com/SwootsUA/wt-market-parse/internal/logger"
)

// Suggestion flags an open order priced worse than the live market and
// proposes a replacement one price step better than the best level.
type Suggestion struct {
	Market         string  `json:"market"`
	Side           string  `json:"side"` // "BUY" or "SELL"
	Quantity       int64   `json:"quantity"`
	CurrentPrice   float64 `json:"current_price"`
	BestPrice      float64 `json:"best_price"`
	SuggestedPrice float64 `json:"suggested_price"`
}

// BookProvider fetches the live order book for one item.
type BookProvider interface {
	OrderBook(marketName string) (gaijin.OrderBook, error)
}

// DealsParams configures order reconciliation.
type DealsParams struct {
	PriceStep   float64
	ItemDivider float64
	ExcludeName string // substring match against the market key, "" = none
	IncludeAll  bool   // keep excluded-category orders in the comparison
}

// Reconcile compares each open order against its item's live best bid or
// ask. A buy resting below the best bid is losing fills; a sell resting
// above the best ask will never trade first. Both get a reprice
// suggestion one step past the best level. An empty book side means no
// comparison is possible and the order is left alone, as is any order
// whose book fetch fails (debug-logged, counted in the summary).
func Reconcile(orders []gaijin.Order, books BookProvider, p DealsParams) ([]Suggestion, Summary) {
	var out []Suggestion
	var sum Summary

	for _, o := range orders {
		if !p.IncludeAll && p.ExcludeName != "" &&
			strings.Contains(strings.ToLower(o.Market), strings.ToLower(p.ExcludeName)) {
			continue
		}

		book, err := books.OrderBook(o.Market)
		if err != nil {
			logger.Debug("DEALS", fmt.Sprintf("skipping %s: %v", o.Market, err))
			sum.Failed++
			continue
		}
		sum.Succeeded++

		switch o.Type {
		case "BUY":
			if len(book.Buy) == 0 {
				continue
			}
			bestBid := float64(book.Buy[0].Price) / p.ItemDivider
			if bestBid > o.LocalPrice {
				out = append(out, Suggestion{
					Market:         o.Market,
					Side:           o.Type,
					Quantity:       o.Amount,
					CurrentPrice:   o.LocalPrice,
					BestPrice:      RoundTo(bestBid, 2),
					SuggestedPrice: RoundTo(bestBid+p.PriceStep, 2),
				})
			}
		case "SELL":
			if len(book.Sell) == 0 {
				continue
			}
			bestAsk := float64(book.Sell[0].Price) / p.ItemDivider
			if bestAsk < o.LocalPrice {
				suggested := bestAsk - p.PriceStep
				if suggested < p.PriceStep {
					suggested = p.PriceStep
				}
				out = append(out, Suggestion{
					Market:         o.Market,
					Side:           o.Type,
					Quantity:       o.Amount,
					CurrentPrice:   o.LocalPrice,
					BestPrice:      RoundTo(bestAsk, 2),
					SuggestedPrice: RoundTo(suggested, 2),
				})
			}
		default:
			logger.Debug("DEALS", fmt.Sprintf("unknown order type %q for %s", o.Type, o.Market))
		}
	}
	return out, sum
}
