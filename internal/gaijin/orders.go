package gaijin

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/SwootsUA/wt-market-parse/internal/logger"
)

// OpenOrders fetches the account's resting orders. A payload that is not
// an array is downgraded to an empty list, matching how the proxy answers
// for accounts with no orders.
func (c *Client) OpenOrders() ([]Order, error) {
	raw, err := c.post("cln_get_user_open_orders", nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		logDebugPayload("open orders", raw, err)
		return nil, nil
	}
	return orders, nil
}

// OrderBook fetches the resting depth for one item, best price first on
// each side. A side the proxy omits comes back empty, not as an error.
func (c *Client) OrderBook(marketName string) (OrderBook, error) {
	raw, err := c.post("cln_books_brief", url.Values{
		"appid":       {c.appID},
		"market_name": {marketName},
		"currencyid":  {"gjn"},
	})
	if err != nil {
		return OrderBook{}, fmt.Errorf("order book %s: %w", marketName, err)
	}

	var book OrderBook
	if err := json.Unmarshal(raw, &book); err != nil {
		return OrderBook{}, fmt.Errorf("order book %s: %w", marketName, err)
	}
	return book, nil
}

// Balance fetches the account balance in decimal currency units.
func (c *Client) Balance() (float64, error) {
	raw, err := c.post("cln_get_balance", nil)
	if err != nil {
		return 0, err
	}

	var body struct {
		Balance *int64 `json:"balance"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Balance == nil {
		return 0, fmt.Errorf("balance: payload missing balance field")
	}
	return float64(*body.Balance) / c.generalDivider, nil
}

func logDebugPayload(what string, raw json.RawMessage, err error) {
	if err != nil {
		logger.Debug("PROXY", fmt.Sprintf("bad payload for %s: %v", what, err))
		return
	}
	logger.Debug("PROXY", fmt.Sprintf("unexpected payload for %s: %s", what, string(raw)))
}
