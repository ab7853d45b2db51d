package gaijin

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// PairStats returns the recent transaction history for one item.
//
// Lookup order: L1 in-memory cache, L2 persistent store, then the proxy.
// Concurrent fetches for the same market name are coalesced through
// singleflight, so a scan that surfaces the same item twice costs one
// request. A malformed payload is downgraded to an empty history (the
// aggregator yields zero stats for it); only transport failures surface
// as errors, which makes them the retryable case for the enricher.
func (c *Client) PairStats(marketName string) ([]Trade, error) {
	if v, ok := c.statsCache.Load(marketName); ok {
		return v.([]Trade), nil
	}
	if c.statsStore != nil {
		if history, ok := c.statsStore.GetPairStats(marketName); ok {
			c.statsCache.Store(marketName, history)
			return history, nil
		}
	}

	result, err, _ := c.group.Do(marketName, func() (interface{}, error) {
		return c.fetchPairStats(marketName)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Trade), nil
}

func (c *Client) fetchPairStats(marketName string) ([]Trade, error) {
	raw, err := c.post("cln_get_pair_stat", url.Values{
		"appid":       {c.appID},
		"market_name": {marketName},
		"currencyid":  {"gjn"},
	})
	if err != nil {
		return nil, fmt.Errorf("pair stats %s: %w", marketName, err)
	}

	var body struct {
		Hour []Trade `json:"1h"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Hour == nil {
		// Items with no trading history come back without the 1h field.
		// Treat that as an empty history rather than a batch-stopping error.
		logDebugPayload(marketName, raw, err)
		return []Trade{}, nil
	}

	history := body.Hour
	c.statsCache.Store(marketName, history)
	if c.statsStore != nil && len(history) > 0 {
		c.statsStore.SetPairStats(marketName, history)
	}
	return history, nil
}
