package db

import (
	"encoding/json"
	"time"

	"github.com/SwootsUA/wt-market-parse/internal/gaijin"
)

// GetPairStats returns the cached transaction history for an item.
// Returns nil, false on a miss or when the entry is older than the TTL.
func (d *DB) GetPairStats(marketName string) ([]gaijin.Trade, bool) {
	var payload, updatedAt string
	err := d.sql.QueryRow(
		"SELECT payload, updated_at FROM pair_stats WHERE market_name=?",
		marketName,
	).Scan(&payload, &updatedAt)
	if err != nil {
		return nil, false
	}

	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil || time.Since(t) > d.ttl {
		return nil, false
	}

	var history []gaijin.Trade
	if err := json.Unmarshal([]byte(payload), &history); err != nil {
		return nil, false
	}
	if len(history) == 0 {
		return nil, false
	}
	return history, true
}

// SetPairStats stores a transaction history in the cache.
func (d *DB) SetPairStats(marketName string, history []gaijin.Trade) {
	payload, err := json.Marshal(history)
	if err != nil {
		return
	}
	d.sql.Exec(
		"INSERT OR REPLACE INTO pair_stats (market_name, payload, updated_at) VALUES (?,?,?)",
		marketName, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
}

// CleanupStalePairStats removes cache rows that have outlived the TTL.
// Called on startup to keep the database from growing without bound.
func (d *DB) CleanupStalePairStats() {
	cutoff := time.Now().Add(-d.ttl).UTC().Format(time.RFC3339)
	d.sql.Exec("DELETE FROM pair_stats WHERE updated_at < ?", cutoff)
}
