package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ScoreWeights are the coefficients of the composite desirability score.
// Several weighting schemes were tried historically, so the policy is
// data, not code.
type ScoreWeights struct {
	Tx        float64 `mapstructure:"tx"`
	Profit    float64 `mapstructure:"profit"`
	Proximity float64 `mapstructure:"proximity"`
}

// Config holds everything that is policy rather than per-run choice:
// gateway settings, numeric market policy and operational limits.
// Values come from defaults, an optional config.yaml and WTM_* env vars.
type Config struct {
	ProxyURL string `mapstructure:"proxy_url"`
	Token    string `mapstructure:"token"`
	AppID    int    `mapstructure:"app_id"`
	PageSize int    `mapstructure:"page_size"`

	FeeRate        float64 `mapstructure:"fee_rate"`
	PriceStep      float64 `mapstructure:"price_step"`
	GeneralDivider float64 `mapstructure:"general_divider"`
	ItemDivider    float64 `mapstructure:"item_divider"`
	MinRealPrice   float64 `mapstructure:"min_real_price"`
	ExcludeName    string  `mapstructure:"exclude_name"`
	TrophyName     string  `mapstructure:"trophy_name"`

	Score ScoreWeights `mapstructure:"score"`

	Retries      int           `mapstructure:"retries"`
	RetryBase    time.Duration `mapstructure:"retry_base"`
	Concurrency  int64         `mapstructure:"concurrency"`
	RequestLimit int           `mapstructure:"request_limit"`
	PairStatsTTL time.Duration `mapstructure:"pair_stats_ttl"`

	OutputDir string `mapstructure:"output_dir"`
	DBPath    string `mapstructure:"db_path"`
}

// Default returns a Config with the marketplace's standing numeric policy.
func Default() *Config {
	return &Config{
		ProxyURL:       "https://market-proxy.gaijin.net/web",
		AppID:          1067,
		PageSize:       100,
		FeeRate:        0.15,
		PriceStep:      0.01,
		GeneralDivider: 100_000_000,
		ItemDivider:    10_000,
		MinRealPrice:   0.1,
		ExcludeName:    " key",
		TrophyName:     "trophy",
		Score:          ScoreWeights{Tx: 0.4, Profit: 0.5, Proximity: 0.1},
		Retries:        3,
		RetryBase:      500 * time.Millisecond,
		Concurrency:    16,
		RequestLimit:   50,
		PairStatsTTL:   time.Hour,
		OutputDir:      "out",
		DBPath:         "wtmarket.db",
	}
}

// Load reads configuration from an optional YAML file and WTM_* environment
// variables, layered over Default(). path may be a file path or "" for the
// working directory's config.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("proxy_url", def.ProxyURL)
	v.SetDefault("app_id", def.AppID)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("fee_rate", def.FeeRate)
	v.SetDefault("price_step", def.PriceStep)
	v.SetDefault("general_divider", def.GeneralDivider)
	v.SetDefault("item_divider", def.ItemDivider)
	v.SetDefault("min_real_price", def.MinRealPrice)
	v.SetDefault("exclude_name", def.ExcludeName)
	v.SetDefault("trophy_name", def.TrophyName)
	v.SetDefault("score.tx", def.Score.Tx)
	v.SetDefault("score.profit", def.Score.Profit)
	v.SetDefault("score.proximity", def.Score.Proximity)
	v.SetDefault("retries", def.Retries)
	v.SetDefault("retry_base", def.RetryBase)
	v.SetDefault("concurrency", def.Concurrency)
	v.SetDefault("request_limit", def.RequestLimit)
	v.SetDefault("pair_stats_ttl", def.PairStatsTTL)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("db_path", def.DBPath)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("WTM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("token", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.ProxyURL == "":
		return fmt.Errorf("config: proxy_url is empty")
	case c.GeneralDivider <= 0 || c.ItemDivider <= 0:
		return fmt.Errorf("config: price dividers must be positive")
	case c.FeeRate < 0 || c.FeeRate >= 1:
		return fmt.Errorf("config: fee_rate %v outside [0,1)", c.FeeRate)
	case c.PriceStep <= 0:
		return fmt.Errorf("config: price_step must be positive")
	case c.PageSize <= 0:
		return fmt.Errorf("config: page_size must be positive")
	case c.Concurrency <= 0:
		return fmt.Errorf("config: concurrency must be a finite positive bound")
	case c.Retries < 0:
		return fmt.Errorf("config: retries must be >= 0")
	}
	return nil
}
