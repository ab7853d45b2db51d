package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SwootsUA/wt-market-parse/internal/config"
	"github.com/SwootsUA/wt-market-parse/internal/db"
	"github.com/SwootsUA/wt-market-parse/internal/engine"
	"github.com/SwootsUA/wt-market-parse/internal/gaijin"
	"github.com/SwootsUA/wt-market-parse/internal/logger"
	"github.com/SwootsUA/wt-market-parse/internal/render"
	"github.com/SwootsUA/wt-market-parse/internal/report"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := config.ParseFlags(args)
	if err != nil {
		logger.Error("CLI", err.Error())
		return 2
	}
	logger.SetDebug(opts.Debug)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.Error("CONFIG", err.Error())
		return 2
	}
	if !opts.Bot {
		logger.Banner(version)
	}

	database, err := db.Open(db.DefaultPath(cfg.DBPath))
	if err != nil {
		logger.Error("DB", fmt.Sprintf("failed to open database: %v", err))
		return 1
	}
	defer database.Close()
	database.SetPairStatsTTL(cfg.PairStatsTTL)
	database.CleanupStalePairStats()

	client := gaijin.NewClient(cfg, database)

	if opts.Deals {
		return runDeals(cfg, opts, client, database)
	}
	return runScan(cfg, opts, client, database)
}

func runScan(cfg *config.Config, opts *config.Options, client *gaijin.Client, database *db.DB) int {
	balance := opts.Balance
	if opts.LiveBalance {
		live, err := client.Balance()
		if err != nil {
			logger.Error("BALANCE", err.Error())
			return 1
		}
		balance = live
		logger.Info("BALANCE", fmt.Sprintf("live balance %.2f", balance))
	}

	barOut := io.Writer(os.Stdout)
	if opts.Bot {
		barOut = io.Discard
	}

	bar := render.NewBar(barOut, "Fetching market", opts.Pages)
	listings, err := client.FetchPages(opts.Pages, cfg.PageSize, bar.Tick)
	bar.Done()
	if err != nil {
		logger.Error("MARKET", err.Error())
		return 1
	}

	if opts.PrintOne && len(listings) > 0 {
		fmt.Printf("%+v\n", listings[0])
	}

	var owned map[string]bool
	if opts.Unique {
		orders, err := client.OpenOrders()
		if err != nil {
			logger.Warn("ORDERS", fmt.Sprintf("could not fetch open orders, -unique ignored: %v", err))
		} else {
			owned = make(map[string]bool, len(orders))
			for _, o := range orders {
				owned[o.Market] = true
			}
		}
	}

	candidates := engine.Filter(listings, engine.FilterParams{
		Balance:         balance,
		ProfitThreshold: opts.Profit,
		FeeRate:         cfg.FeeRate,
		PriceStep:       cfg.PriceStep,
		GeneralDivider:  cfg.GeneralDivider,
		MinRealPrice:    cfg.MinRealPrice,
		ExcludeName:     cfg.ExcludeName,
		Owned:           owned,
	})
	if len(candidates) == 0 {
		logger.Info("SCAN", "no profitable items found")
		return 0
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency
	}
	itemBar := render.NewBar(barOut, "Fetching items", len(candidates))
	enricher := engine.Enricher{
		Stats:       client,
		ItemDivider: cfg.ItemDivider,
		Limit:       concurrency,
		Retries:     cfg.Retries,
		BaseDelay:   cfg.RetryBase,
		OnTick:      itemBar.Tick,
	}
	enriched, sum := enricher.Enrich(candidates)
	itemBar.Done()
	if sum.Failed > 0 {
		logger.Warn("ENRICH", fmt.Sprintf("%d ok, %d dropped after retries", sum.Succeeded, sum.Failed))
	} else {
		logger.Success("ENRICH", fmt.Sprintf("%d items enriched", sum.Succeeded))
	}
	if len(enriched) == 0 {
		logger.Info("SCAN", "nothing enrichable survived")
		return 0
	}

	engine.ScoreAll(enriched, engine.Weights(cfg.Score))
	top := engine.Rank(enriched, opts.Top)

	runID := report.NewRunID()
	if opts.JSON {
		persisted := top
		if opts.AllInfo {
			persisted = enriched
		}
		params := report.Params{Pages: opts.Pages, Profit: opts.Profit, Balance: balance, Top: opts.Top}
		path, err := report.WriteSnapshot(cfg.OutputDir, runID, params, persisted)
		if err != nil {
			logger.Warn("REPORT", err.Error())
		} else {
			logger.Success("REPORT", fmt.Sprintf("saved %s", path))
		}
	}
	if err := database.RecordRun(runID, "scan", len(top), top[0].Score); err != nil {
		logger.Debug("DB", fmt.Sprintf("run log: %v", err))
	}

	if opts.Bot {
		render.BotLines(os.Stdout, top)
		return 0
	}
	logger.Section("Top items")
	headers, rows := render.CandidateRows(top, opts.ShowName, opts.AllInfo)
	render.Table(os.Stdout, headers, rows)

	logger.Section("Scan summary")
	logger.Stats("listings fetched", len(listings))
	logger.Stats("candidates", len(candidates))
	logger.Stats("enriched", sum.Succeeded)
	logger.Stats("top score", fmt.Sprintf("%.4f", top[0].Score))
	return 0
}

func runDeals(cfg *config.Config, opts *config.Options, client *gaijin.Client, database *db.DB) int {
	orders, err := client.OpenOrders()
	if err != nil {
		logger.Error("DEALS", err.Error())
		return 1
	}
	if len(orders) == 0 {
		logger.Info("DEALS", "no open orders")
		return 0
	}

	suggestions, sum := engine.Reconcile(orders, client, engine.DealsParams{
		PriceStep:   cfg.PriceStep,
		ItemDivider: cfg.ItemDivider,
		ExcludeName: cfg.TrophyName,
		IncludeAll:  opts.WithTrophy,
	})
	if sum.Failed > 0 {
		logger.Warn("DEALS", fmt.Sprintf("%d order books unavailable", sum.Failed))
	}

	switch {
	case opts.Bot:
		render.BotSuggestionLines(os.Stdout, suggestions)
	case len(suggestions) == 0:
		logger.Success("DEALS", fmt.Sprintf("%d orders checked, all looking good", sum.Succeeded))
	default:
		logger.Section("Reprice suggestions")
		headers, rows := render.SuggestionRows(suggestions)
		render.Table(os.Stdout, headers, rows)
	}

	logBalance(client, database, orders)

	if err := database.RecordRun(report.NewRunID(), "deals", len(suggestions), 0); err != nil {
		logger.Debug("DB", fmt.Sprintf("run log: %v", err))
	}
	return 0
}

// logBalance appends one balance-log row: wallet balance plus the
// capital locked in open buy orders.
func logBalance(client *gaijin.Client, database *db.DB, orders []gaijin.Order) {
	balance, err := client.Balance()
	if err != nil {
		logger.Warn("BALANCE", fmt.Sprintf("skipping balance log: %v", err))
		return
	}

	var lockedUp float64
	for _, o := range orders {
		if o.Type == "BUY" {
			lockedUp += o.LocalPrice * float64(o.Amount)
		}
	}
	if err := database.AppendBalance(time.Now(), balance, lockedUp); err != nil {
		logger.Warn("BALANCE", fmt.Sprintf("balance log: %v", err))
		return
	}
	logger.Info("BALANCE", fmt.Sprintf("wallet %.2f + orders %.2f = %.2f", balance, lockedUp, balance+lockedUp))
}
