package gaijin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/SwootsUA/wt-market-parse/internal/config"
	"github.com/SwootsUA/wt-market-parse/internal/logger"
)

// StatsStore is a persistent L2 cache for pair transaction histories.
type StatsStore interface {
	GetPairStats(marketName string) ([]Trade, bool)
	SetPairStats(marketName string, history []Trade)
}

// Client talks to the marketplace proxy. Every request is a form-encoded
// POST discriminated by an "action" field; responses arrive in a
// {"response": ...} envelope. In-flight requests are bounded by a
// semaphore so a large scan cannot stampede the proxy.
type Client struct {
	http           *http.Client
	baseURL        string
	token          string
	appID          string
	generalDivider float64
	sem            chan struct{}

	statsCache sync.Map // market name -> []Trade (L1 in-memory)
	statsStore StatsStore
	group      singleflight.Group
}

// NewClient creates a proxy client. store may be nil to disable the
// persistent stats cache.
func NewClient(cfg *config.Config, store StatsStore) *Client {
	limit := cfg.RequestLimit
	if limit <= 0 {
		limit = 50
	}
	return &Client{
		http:           &http.Client{Timeout: 30 * time.Second},
		baseURL:        cfg.ProxyURL,
		token:          cfg.Token,
		appID:          strconv.Itoa(cfg.AppID),
		generalDivider: cfg.GeneralDivider,
		sem:            make(chan struct{}, limit),
		statsStore:     store,
	}
}

// post sends one action request and returns the raw response envelope body.
func (c *Client) post(action string, fields url.Values) (json.RawMessage, error) {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	form := url.Values{}
	form.Set("action", action)
	form.Set("token", c.token)
	for k, vs := range fields {
		for _, v := range vs {
			form.Add(k, v)
		}
	}

	req, err := http.NewRequest("POST", c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: proxy %d: %s", action, resp.StatusCode, string(body))
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", action, err)
	}
	if len(envelope.Response) == 0 || string(envelope.Response) == "null" {
		return nil, fmt.Errorf("%s: payload missing response envelope", action)
	}
	return envelope.Response, nil
}

// FetchPage fetches one market search page starting at skip.
func (c *Client) FetchPage(skip, count int) ([]Listing, error) {
	raw, err := c.post("cln_market_search", url.Values{
		"appid_filter": {c.appID},
		"skip":         {strconv.Itoa(skip)},
		"count":        {strconv.Itoa(count)},
		"text":         {""},
		"language":     {"en_US"},
		"options":      {"any_sell_orders;include_marketpairs"},
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		Assets *[]Listing `json:"assets"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("cln_market_search: assets at skip=%d: %w", skip, err)
	}
	if body.Assets == nil {
		return nil, fmt.Errorf("cln_market_search: payload missing assets at skip=%d", skip)
	}
	return *body.Assets, nil
}

// FetchPages fetches pages concurrently and concatenates them in page
// order, so downstream filtering is deterministic no matter which fetch
// finishes first. Any page failure fails the whole fetch. progress, if
// non-nil, is called once per completed page.
func (c *Client) FetchPages(pages, pageSize int, progress func()) ([]Listing, error) {
	results := make([][]Listing, pages)
	var g errgroup.Group
	var empty atomic.Int32

	for i := 0; i < pages; i++ {
		g.Go(func() error {
			assets, err := c.FetchPage(i*pageSize, pageSize)
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				empty.Add(1)
				logger.Debug("MARKET", fmt.Sprintf("page %d returned zero assets", i))
			}
			results[i] = assets
			if progress != nil {
				progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Listing
	for _, page := range results {
		all = append(all, page...)
	}
	if n := empty.Load(); n > 0 {
		logger.Debug("MARKET", fmt.Sprintf("%d of %d pages were empty", n, pages))
	}
	return all, nil
}
