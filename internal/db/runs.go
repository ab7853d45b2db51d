package db

import (
	"time"
)

// RunRecord is one logged pipeline run.
type RunRecord struct {
	ID        string
	Timestamp string
	Mode      string // "scan" or "deals"
	Results   int
	TopScore  float64
}

// RecordRun logs one completed run for later inspection.
func (d *DB) RecordRun(id, mode string, results int, topScore float64) error {
	_, err := d.sql.Exec(
		"INSERT INTO runs (id, timestamp, mode, results, top_score) VALUES (?,?,?,?,?)",
		id, time.Now().UTC().Format(time.RFC3339), mode, results, topScore,
	)
	return err
}

// RecentRuns returns the latest n runs, newest first.
func (d *DB) RecentRuns(n int) []RunRecord {
	rows, err := d.sql.Query(
		"SELECT id, timestamp, mode, results, top_score FROM runs ORDER BY timestamp DESC LIMIT ?", n,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Mode, &r.Results, &r.TopScore); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
