package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// YahooProvider fetches gold futures prices from the Yahoo Finance
// chart API. It also serves historical daily closes for analysis.
type YahooProvider struct {
	BaseURL string
	Symbol  string
	Client  *http.Client
	timeout time.Duration
}

// NewYahooProvider creates a Yahoo Finance provider with optional proxy
// support. The symbol is a Yahoo ticker, e.g. "GC=F" for gold futures.
func NewYahooProvider(symbol, proxyURL string, timeout time.Duration) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		BaseURL: "https://query1.finance.yahoo.com",
		Symbol:  symbol,
		Client:  &http.Client{Transport: transport},
		timeout: timeout,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) Timeout() time.Duration { return p.timeout }

// yahooChart is the response structure from the Yahoo chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

type closeBar struct {
	ts    int64
	close float64
}

func (p *YahooProvider) fetchChart(ctx context.Context, interval, rng string) ([]closeBar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		p.BaseURL, url.PathEscape(p.Symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data")
	}
	quote := result.Indicators.Quote[0]
	bars := make([]closeBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c := toFloat(quote.Close[i])
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, closeBar{ts: ts, close: c})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: all bars empty")
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].ts < bars[j].ts })
	return bars, nil
}

// FetchPrice returns the most recent close from the 5-day daily chart.
func (p *YahooProvider) FetchPrice(ctx context.Context) (float64, error) {
	bars, err := p.fetchChart(ctx, "1d", "5d")
	if err != nil {
		return 0, err
	}
	return bars[len(bars)-1].close, nil
}

// FetchDailyCloses returns up to the requested number of recent daily
// closing prices, oldest first.
func (p *YahooProvider) FetchDailyCloses(ctx context.Context, days int) ([]float64, error) {
	rng := "2y"
	if days <= 5 {
		rng = "5d"
	} else if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	bars, err := p.fetchChart(ctx, "1d", rng)
	if err != nil {
		return nil, err
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.close
	}
	if len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	return closes, nil
}
