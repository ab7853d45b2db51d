package db

import (
	"time"
)

// BalanceEntry is one appended balance-log row.
type BalanceEntry struct {
	Timestamp   string
	Balance     float64
	OrdersValue float64
	Total       float64
}

// AppendBalance appends one balance snapshot: the wallet balance, the
// capital locked in open buy orders, and their sum. The log is
// append-only; deals-mode runs add exactly one row.
func (d *DB) AppendBalance(at time.Time, balance, ordersValue float64) error {
	_, err := d.sql.Exec(
		"INSERT INTO balance_log (timestamp, balance, orders_value, total) VALUES (?,?,?,?)",
		at.UTC().Format(time.RFC3339), balance, ordersValue, balance+ordersValue,
	)
	return err
}

// RecentBalances returns the latest n balance-log rows, newest first.
func (d *DB) RecentBalances(n int) []BalanceEntry {
	rows, err := d.sql.Query(
		"SELECT timestamp, balance, orders_value, total FROM balance_log ORDER BY id DESC LIMIT ?", n,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []BalanceEntry
	for rows.Next() {
		var e BalanceEntry
		if err := rows.Scan(&e.Timestamp, &e.Balance, &e.OrdersValue, &e.Total); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}
