package config

import (
	"flag"
	"fmt"
	"math"
)

// Options are the per-run choices taken from the command line.
// They override nothing in Config except the enrichment concurrency bound.
type Options struct {
	Pages       int
	Profit      float64
	Balance     float64
	LiveBalance bool
	Top         int
	Concurrency int64

	PrintOne   bool
	Debug      bool
	ShowName   bool
	AllInfo    bool
	Deals      bool
	WithTrophy bool
	Bot        bool
	JSON       bool
	Unique     bool

	ConfigPath string
}

// ParseFlags parses command-line arguments into Options.
// Invalid numeric input is an error; callers should treat it as fatal
// before any network call is made.
func ParseFlags(args []string) (*Options, error) {
	fs := flag.NewFlagSet("wt-market-parse", flag.ContinueOnError)
	opts := &Options{}

	fs.IntVar(&opts.Pages, "pages", 1, "number of listing pages to fetch")
	fs.Float64Var(&opts.Profit, "profit", 0.1, "minimum per-item profit threshold")
	fs.Float64Var(&opts.Balance, "balance", 1.0, "available balance")
	fs.BoolVar(&opts.LiveBalance, "live-balance", false, "fetch the account balance instead of -balance")
	fs.IntVar(&opts.Top, "top", 10, "number of ranked results to display")
	fs.Int64Var(&opts.Concurrency, "concurrency", 0, "max in-flight stat fetches (0 = config value)")
	fs.BoolVar(&opts.PrintOne, "print-one", false, "print the first raw listing and continue")
	fs.BoolVar(&opts.Debug, "debug", false, "log every swallowed error with context")
	fs.BoolVar(&opts.ShowName, "show-name", false, "include display name in the output table")
	fs.BoolVar(&opts.AllInfo, "all-info", false, "show the full enriched record")
	fs.BoolVar(&opts.Deals, "deals", false, "reconcile open orders against the live book")
	fs.BoolVar(&opts.WithTrophy, "with-trophy", false, "include trophy items in deals mode")
	fs.BoolVar(&opts.Bot, "bot", false, "terse output for automated consumption")
	fs.BoolVar(&opts.JSON, "json", false, "persist top results to a timestamped JSON file")
	fs.BoolVar(&opts.Unique, "unique", false, "exclude items you already have an open order for")
	fs.StringVar(&opts.ConfigPath, "config", "", "path to config.yaml (default: ./config.yaml)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) validate() error {
	switch {
	case o.Pages < 1:
		return fmt.Errorf("-pages must be >= 1, got %d", o.Pages)
	case o.Top < 1:
		return fmt.Errorf("-top must be >= 1, got %d", o.Top)
	case math.IsNaN(o.Profit) || math.IsInf(o.Profit, 0):
		return fmt.Errorf("-profit must be a finite number")
	case math.IsNaN(o.Balance) || math.IsInf(o.Balance, 0) || o.Balance < 0:
		return fmt.Errorf("-balance must be a finite non-negative number")
	case o.Concurrency < 0:
		return fmt.Errorf("-concurrency must be >= 0, got %d", o.Concurrency)
	}
	return nil
}
