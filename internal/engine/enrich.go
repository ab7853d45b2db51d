package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/SwootsUA/wt-market-parse/internal/gaijin"
	"github.com/SwootsUA/wt-market-parse/internal/logger"
)

// DefaultConcurrency bounds in-flight stat fetches when no limit is set.
// Unbounded is deliberately not expressible: a very large bound is the
// escape hatch for callers who want one.
const DefaultConcurrency = 16

// StatsProvider fetches the transaction history for one item.
type StatsProvider interface {
	PairStats(marketName string) ([]gaijin.Trade, error)
}

// Enricher augments candidates with transaction statistics fetched
// through a bounded, retried fan-out. One item's failure never aborts
// the batch; the failed slot is dropped from the output.
type Enricher struct {
	Stats       StatsProvider
	ItemDivider float64
	Limit       int64         // max in-flight fetches, <= 0 means DefaultConcurrency
	Retries     int           // retry budget after the first attempt
	BaseDelay   time.Duration // first backoff delay, doubled each retry
	Sleep       func(time.Duration)
	OnTick      func() // called exactly once per candidate, any outcome
}

// Enrich fetches statistics for every candidate. Output preserves input
// order, with failed candidates omitted, so it may be shorter than the
// input. The summary reports how many succeeded and failed.
func (e *Enricher) Enrich(candidates []Candidate) ([]Enriched, Summary) {
	if len(candidates) == 0 {
		return nil, Summary{}
	}

	limit := e.Limit
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	sem := semaphore.NewWeighted(limit)
	ctx := context.Background()

	// Each slot is written exactly once by its own goroutine; nil marks
	// a candidate whose fetch exhausted its retries.
	slots := make([]*Enriched, len(candidates))
	var wg sync.WaitGroup

	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c Candidate) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			defer e.tick()

			history, err := e.fetchWithRetry(c.HashName)
			if err != nil {
				logger.Debug("ENRICH", fmt.Sprintf("dropping %s: %v", c.HashName, err))
				return
			}
			st := Aggregate(history, e.ItemDivider)
			slots[i] = &Enriched{
				Candidate:  c,
				AvgDailyTx: st.AvgDailyTx,
				AvgTxPrice: st.AvgTxPrice,
			}
		}(i, c)
	}
	wg.Wait()

	out := make([]Enriched, 0, len(candidates))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, Summary{Succeeded: len(out), Failed: len(candidates) - len(out)}
}

// fetchWithRetry attempts 1 + Retries fetches with doubling delays
// between attempts.
func (e *Enricher) fetchWithRetry(marketName string) ([]gaijin.Trade, error) {
	delay := e.BaseDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt <= e.Retries; attempt++ {
		if attempt > 0 {
			e.sleep(delay)
			delay *= 2
		}
		history, err := e.Stats.PairStats(marketName)
		if err == nil {
			return history, nil
		}
		lastErr = err
		logger.Debug("ENRICH", fmt.Sprintf("attempt %d for %s: %v", attempt+1, marketName, err))
	}
	return nil, lastErr
}

func (e *Enricher) sleep(d time.Duration) {
	if e.Sleep != nil {
		e.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (e *Enricher) tick() {
	if e.OnTick != nil {
		e.OnTick()
	}
}
