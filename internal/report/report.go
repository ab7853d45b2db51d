// Package report persists run output as timestamped JSON snapshots.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/SwootsUA/wt-market-parse/internal/engine"
)

// Params echoes the run inputs into the snapshot so a saved file is
// reproducible without the shell history.
type Params struct {
	Pages   int     `json:"pages"`
	Profit  float64 `json:"profit"`
	Balance float64 `json:"balance"`
	Top     int     `json:"top"`
}

// Snapshot is one persisted run result set.
type Snapshot struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Params      Params            `json:"params"`
	Results     []engine.Enriched `json:"results"`
}

// NewRunID mints the identifier stamped on snapshots and run-log rows.
func NewRunID() string {
	return uuid.NewString()
}

// WriteSnapshot writes the ranked results to a timestamped file in dir,
// creating the directory if needed, and returns the file path.
func WriteSnapshot(dir, runID string, params Params, results []engine.Enriched) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	snap := Snapshot{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Params:      params,
		Results:     results,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("top-%s.json", snap.GeneratedAt.Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
