package engine

import (
	"math"
	"strings"

	"github.com/SwootsUA/wt-market-parse/internal/gaijin"
)

// FilterParams is the numeric policy the profitability filter runs under.
type FilterParams struct {
	Balance         float64
	ProfitThreshold float64
	FeeRate         float64
	PriceStep       float64
	GeneralDivider  float64
	MinRealPrice    float64 // floor guarding against zero-priced non-items
	ExcludeName     string  // substring match against display name, "" = no exclusion
	Owned           map[string]bool
}

// Filter converts raw listings into candidates and drops the ones that
// cannot be traded profitably: unaffordable, below the profit threshold,
// priced below the realness floor, in an excluded category, or (when
// Owned is set) already covered by an open order.
//
// Buying means outbidding the best bid by one step; selling means
// undercutting the best ask by one step and paying the fee on proceeds.
func Filter(listings []gaijin.Listing, p FilterParams) []Candidate {
	var out []Candidate
	for _, l := range listings {
		buy := RoundTo(float64(l.BuyPrice)/p.GeneralDivider+p.PriceStep, 2)
		sell := RoundTo(float64(l.Price)/p.GeneralDivider, 2)
		proceeds := (sell - p.PriceStep) * (1 - p.FeeRate)

		if buy <= 0 || buy < p.MinRealPrice {
			continue
		}
		qty := int64(math.Floor(p.Balance / buy))
		if qty <= 0 {
			continue
		}
		profit := RoundTo(proceeds-buy, 4)
		if profit <= p.ProfitThreshold {
			continue
		}
		if p.ExcludeName != "" && strings.Contains(strings.ToLower(l.Name), strings.ToLower(p.ExcludeName)) {
			continue
		}
		if p.Owned[l.HashName] {
			continue
		}

		out = append(out, Candidate{
			HashName:      l.HashName,
			Name:          l.Name,
			BuyPrice:      buy,
			SellPrice:     sell,
			Quantity:      qty,
			PerItemProfit: profit,
		})
	}
	return out
}

// RoundTo rounds n to p decimal places.
func RoundTo(n float64, p int) float64 {
	scale := math.Pow(10, float64(p))
	return math.Round(n*scale) / scale
}
