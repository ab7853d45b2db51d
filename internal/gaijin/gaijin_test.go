package gaijin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/SwootsUA/wt-market-parse/internal/config"
)

func testConfig(proxyURL string) *config.Config {
	cfg := config.Default()
	cfg.ProxyURL = proxyURL
	cfg.Token = "test-token"
	return cfg
}

// newProxy starts an httptest server dispatching on the action field.
func newProxy(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", 400)
			return
		}
		action := r.PostFormValue("action")
		h, ok := handlers[action]
		if !ok {
			t.Errorf("unexpected action %q", action)
			http.Error(w, "unknown action", 400)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPage_DecodesAssets(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_market_search": func(w http.ResponseWriter, r *http.Request) {
			if got := r.PostFormValue("token"); got != "test-token" {
				t.Errorf("token = %q, want test-token", got)
			}
			if got := r.PostFormValue("skip"); got != "200" {
				t.Errorf("skip = %q, want 200", got)
			}
			fmt.Fprint(w, `{"response":{"assets":[
				{"hash_name":"item_a","name":"Item A","price":20000000,"buy_price":15000000}
			]}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	assets, err := c.FetchPage(200, 100)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("assets = %d, want 1", len(assets))
	}
	a := assets[0]
	if a.HashName != "item_a" || a.Price != 20_000_000 || a.BuyPrice != 15_000_000 {
		t.Errorf("Listing = %+v", a)
	}
}

func TestFetchPage_MissingAssetsIsError(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_market_search": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":{"error":"throttled"}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	if _, err := c.FetchPage(0, 100); err == nil {
		t.Error("FetchPage accepted a payload without assets")
	}
}

func TestFetchPage_MissingEnvelopeIsError(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_market_search": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status":"ok"}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	if _, err := c.FetchPage(0, 100); err == nil {
		t.Error("FetchPage accepted a payload without the response envelope")
	}
}

func TestFetchPages_ConcatenatesInPageOrder(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_market_search": func(w http.ResponseWriter, r *http.Request) {
			skip, _ := strconv.Atoi(r.PostFormValue("skip"))
			page := skip / 2
			fmt.Fprintf(w, `{"response":{"assets":[
				{"hash_name":"p%d_0","name":"","price":1,"buy_price":1},
				{"hash_name":"p%d_1","name":"","price":1,"buy_price":1}
			]}}`, page, page)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	var ticks atomic.Int32
	all, err := c.FetchPages(4, 2, func() { ticks.Add(1) })
	if err != nil {
		t.Fatalf("FetchPages: %v", err)
	}
	if len(all) != 8 {
		t.Fatalf("listings = %d, want 8", len(all))
	}
	want := []string{"p0_0", "p0_1", "p1_0", "p1_1", "p2_0", "p2_1", "p3_0", "p3_1"}
	for i, l := range all {
		if l.HashName != want[i] {
			t.Errorf("all[%d] = %s, want %s (page order must be deterministic)", i, l.HashName, want[i])
		}
	}
	if got := ticks.Load(); got != 4 {
		t.Errorf("progress ticks = %d, want 4", got)
	}
}

func TestFetchPages_PageErrorIsFatal(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_market_search": func(w http.ResponseWriter, r *http.Request) {
			if r.PostFormValue("skip") == "100" {
				http.Error(w, "boom", 500)
				return
			}
			fmt.Fprint(w, `{"response":{"assets":[]}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	if _, err := c.FetchPages(3, 100, nil); err == nil {
		t.Error("FetchPages swallowed a failed page")
	}
}

func TestPairStats_DecodesHistory(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_pair_stat": func(w http.ResponseWriter, r *http.Request) {
			if got := r.PostFormValue("market_name"); got != "item_a" {
				t.Errorf("market_name = %q, want item_a", got)
			}
			fmt.Fprint(w, `{"response":{"1h":[[1700000000,10000,2],[1700086400,12000,3]]}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	history, err := c.PairStats("item_a")
	if err != nil {
		t.Fatalf("PairStats: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].Time != 1_700_000_000 || history[0].Price != 10_000 || history[0].Count != 2 {
		t.Errorf("history[0] = %+v", history[0])
	}
}

func TestPairStats_MalformedPayloadIsEmptyHistory(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_pair_stat": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":{"status":"no data"}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	history, err := c.PairStats("ghost_item")
	if err != nil {
		t.Fatalf("PairStats: %v, want malformed payload downgraded to empty history", err)
	}
	if len(history) != 0 {
		t.Errorf("history = %+v, want empty", history)
	}
}

func TestPairStats_TransportErrorSurfaces(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_pair_stat": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "throttled", 429)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	if _, err := c.PairStats("item_a"); err == nil {
		t.Error("PairStats swallowed a transport error")
	}
}

func TestPairStats_CachesPerMarketName(t *testing.T) {
	var calls atomic.Int32
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_pair_stat": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, `{"response":{"1h":[[1700000000,10000,2]]}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	for i := 0; i < 5; i++ {
		if _, err := c.PairStats("item_a"); err != nil {
			t.Fatalf("PairStats: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("proxy calls = %d, want 1 (L1 cache)", got)
	}
}

// memStore is an in-memory StatsStore.
type memStore struct {
	mu   sync.Mutex
	data map[string][]Trade
}

func (m *memStore) GetPairStats(name string) ([]Trade, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.data[name]
	return h, ok
}

func (m *memStore) SetPairStats(name string, h []Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = h
}

func TestPairStats_UsesPersistentStore(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{})

	store := &memStore{data: map[string][]Trade{
		"cached_item": {{Time: 1_700_000_000, Price: 10_000, Count: 2}},
	}}
	c := NewClient(testConfig(srv.URL), store)

	history, err := c.PairStats("cached_item")
	if err != nil {
		t.Fatalf("PairStats: %v", err)
	}
	if len(history) != 1 || history[0].Price != 10_000 {
		t.Errorf("history = %+v, want the stored entry", history)
	}
}

func TestOpenOrders_DecodesArray(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_user_open_orders": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":[
				{"type":"BUY","amount":3,"localPrice":1.2,"market":"item_a"},
				{"type":"SELL","amount":1,"localPrice":2.5,"market":"item_b"}
			]}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	orders, err := c.OpenOrders()
	if err != nil {
		t.Fatalf("OpenOrders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	if orders[0].Type != "BUY" || orders[0].Amount != 3 || orders[0].LocalPrice != 1.2 {
		t.Errorf("orders[0] = %+v", orders[0])
	}
}

func TestOpenOrders_NonArrayPayloadIsEmpty(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_user_open_orders": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":{"error":"no session"}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	orders, err := c.OpenOrders()
	if err != nil {
		t.Fatalf("OpenOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("orders = %+v, want none", orders)
	}
}

func TestOrderBook_BestFirst(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_books_brief": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":{"BUY":[[12000,5],[11000,2]],"SELL":[[15000,1]]}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	book, err := c.OrderBook("item_a")
	if err != nil {
		t.Fatalf("OrderBook: %v", err)
	}
	if len(book.Buy) != 2 || book.Buy[0].Price != 12_000 || book.Buy[0].Amount != 5 {
		t.Errorf("Buy side = %+v", book.Buy)
	}
	if len(book.Sell) != 1 || book.Sell[0].Price != 15_000 {
		t.Errorf("Sell side = %+v", book.Sell)
	}
}

func TestBalance_Descaled(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_balance": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":{"balance":1550000000}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	balance, err := c.Balance()
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 15.5 {
		t.Errorf("Balance = %v, want 15.5", balance)
	}
}

func TestBalance_MissingFieldIsError(t *testing.T) {
	srv := newProxy(t, map[string]http.HandlerFunc{
		"cln_get_balance": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":{}}`)
		},
	})

	c := NewClient(testConfig(srv.URL), nil)
	if _, err := c.Balance(); err == nil {
		t.Error("Balance accepted a payload without the balance field")
	}
}

func TestTrade_JSONRoundTrip(t *testing.T) {
	in := Trade{Time: 1_700_000_000, Price: 12_345, Count: 7}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1700000000,12345,7]" {
		t.Errorf("Marshal = %s, want the proxy's triple form", data)
	}
	var out Trade
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
