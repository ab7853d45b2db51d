package gaijin

import (
	"encoding/json"
	"fmt"
)

// Listing mirrors one asset row from a market search page.
// Prices are integers scaled by the general price divider (1e8).
type Listing struct {
	HashName string `json:"hash_name"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`     // best ask
	BuyPrice int64  `json:"buy_price"` // best bid
}

// Trade is one point of pair history. The proxy encodes it as a bare
// array: [epoch seconds, price scaled by 1e4, trade count].
type Trade struct {
	Time  int64
	Price int64
	Count int64
}

// UnmarshalJSON decodes the proxy's [time, price, count] triple.
func (tr *Trade) UnmarshalJSON(data []byte) error {
	var raw [3]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("trade triple: %w", err)
	}
	tr.Time, tr.Price, tr.Count = raw[0], raw[1], raw[2]
	return nil
}

// MarshalJSON re-encodes the triple so cached histories round-trip.
func (tr Trade) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int64{tr.Time, tr.Price, tr.Count})
}

// Order is an open resting order on the account.
type Order struct {
	Type       string  `json:"type"` // "BUY" or "SELL"
	Amount     int64   `json:"amount"`
	LocalPrice float64 `json:"localPrice"`
	Market     string  `json:"market"`
}

// BookLevel is one price level of an order book side, encoded by the
// proxy as [price scaled by 1e4, amount].
type BookLevel struct {
	Price  int64
	Amount int64
}

// UnmarshalJSON decodes the proxy's [price, amount, ...] level. Extra
// trailing elements are ignored.
func (l *BookLevel) UnmarshalJSON(data []byte) error {
	var raw []int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("book level: %w", err)
	}
	if len(raw) < 2 {
		return fmt.Errorf("book level: want at least [price, amount], got %d elements", len(raw))
	}
	l.Price, l.Amount = raw[0], raw[1]
	return nil
}

// OrderBook is the resting depth for one item, best price first per side:
// highest bid leads Buy, lowest ask leads Sell.
type OrderBook struct {
	Buy  []BookLevel `json:"BUY"`
	Sell []BookLevel `json:"SELL"`
}
