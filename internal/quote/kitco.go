package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// KitcoProvider scrapes the spot gold price from the Kitco charts page.
// Scraping is inherently brittle, so this provider sits behind the
// chain's soft-failure handling and gets a longer timeout budget than
// the quote API providers.
type KitcoProvider struct {
	BaseURL  string
	Selector string
	Client   *http.Client
	timeout  time.Duration
}

// NewKitcoProvider creates a Kitco scraping provider with optional
// proxy support.
func NewKitcoProvider(proxyURL string, timeout time.Duration) *KitcoProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &KitcoProvider{
		BaseURL:  "https://www.kitco.com",
		Selector: "div[class*=\"BidAsk\"] h3",
		Client:   &http.Client{Transport: transport},
		timeout:  timeout,
	}
}

func (p *KitcoProvider) Name() string { return "kitco" }

func (p *KitcoProvider) Timeout() time.Duration { return p.timeout }

// FetchPrice downloads the gold charts page and extracts the first
// element matching the configured selector.
func (p *KitcoProvider) FetchPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.BaseURL+"/charts/gold", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("kitco fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("kitco: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("kitco parse: %w", err)
	}

	text := strings.TrimSpace(doc.Find(p.Selector).First().Text())
	if text == "" {
		return 0, fmt.Errorf("kitco: price element not found")
	}
	return parsePrice(text)
}

// parsePrice extracts a positive decimal from scraped text like
// "$2,650.40" or "2650.40 USD".
func parsePrice(text string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("kitco: malformed price %q: %w", text, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("kitco: non-positive price %q", text)
	}
	return price, nil
}
