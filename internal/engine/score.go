package engine

import "math"

// Weights are the coefficients of the composite score. The formula has
// been reshuffled many times over the tool's life, so the coefficients
// come in from configuration instead of living here.
type Weights struct {
	Tx        float64
	Profit    float64
	Proximity float64
}

// DefaultWeights returns the standing 0.4/0.5/0.1 linear composite.
func DefaultWeights() Weights {
	return Weights{Tx: 0.4, Profit: 0.5, Proximity: 0.1}
}

// Normalization carries the batch maxima used to bring throughput and
// profit into a comparable [0,1]-ish range, so neither signal dominates
// purely through its units. Maxima are floored at 1.
type Normalization struct {
	MaxDailyTx float64
	MaxProfit  float64
}

// Normalize computes the normalization context over a batch.
func Normalize(batch []Enriched) Normalization {
	n := Normalization{MaxDailyTx: 1, MaxProfit: 1}
	for _, e := range batch {
		n.MaxDailyTx = math.Max(n.MaxDailyTx, e.AvgDailyTx)
		n.MaxProfit = math.Max(n.MaxProfit, e.PerItemProfit)
	}
	return n
}

// PriceProximity measures how closely the historical average trade price
// tracks the current bid/ask midpoint, clamped to [0,1]. A history far
// from the spread suggests a stale or anomalous opportunity. Zero mid
// yields zero proximity.
func PriceProximity(avgTxPrice, mid float64) float64 {
	if mid == 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(avgTxPrice-mid)/mid)
}

// Score computes the weighted composite desirability of one enriched
// candidate. Pure: identical inputs always yield identical output.
func Score(e Enriched, n Normalization, w Weights) float64 {
	mid := (e.BuyPrice + e.SellPrice) / 2
	prox := PriceProximity(e.AvgTxPrice, mid)
	normTx := e.AvgDailyTx / n.MaxDailyTx
	normProfit := e.PerItemProfit / n.MaxProfit
	return w.Tx*normTx + w.Profit*normProfit + w.Proximity*prox
}

// ScoreAll fills Proximity and Score for every entry in place, using a
// normalization context computed over the whole batch.
func ScoreAll(batch []Enriched, w Weights) {
	n := Normalize(batch)
	for i := range batch {
		mid := (batch[i].BuyPrice + batch[i].SellPrice) / 2
		batch[i].Proximity = RoundTo(PriceProximity(batch[i].AvgTxPrice, mid), 4)
		batch[i].Score = RoundTo(Score(batch[i], n, w), 4)
	}
}
