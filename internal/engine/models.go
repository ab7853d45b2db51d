package engine

// Candidate is a listing that passed the profitability filter, pending
// enrichment. Prices are in decimal currency units.
type Candidate struct {
	HashName      string  `json:"hash_name"`
	Name          string  `json:"name"`
	BuyPrice      float64 `json:"buy_price"`       // bid + one price step: what it takes to win the queue
	SellPrice     float64 `json:"sell_price"`      // current best ask
	Quantity      int64   `json:"quantity"`        // floor(balance / BuyPrice)
	PerItemProfit float64 `json:"per_item_profit"` // after fee and undercut step
}

// Enriched is a Candidate augmented with historical transaction
// statistics and, after scoring, the composite desirability score.
type Enriched struct {
	Candidate
	AvgDailyTx float64 `json:"avg_daily_tx"`
	AvgTxPrice float64 `json:"avg_tx_price"`
	Proximity  float64 `json:"proximity"`
	Score      float64 `json:"score"`
}

// Summary counts per-item outcomes of a batch stage.
type Summary struct {
	Succeeded int
	Failed    int
}
