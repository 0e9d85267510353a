package news

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Source is one scraped headline feed.
type Source struct {
	Name     string
	URL      string
	Selector string
}

// DefaultSources are the gold news pages scraped for fundamental
// context, tried in order.
func DefaultSources() []Source {
	return []Source{
		{Name: "Gold.org", URL: "https://www.gold.org/news", Selector: "div.view-content h3, div.view-content a"},
		{Name: "Kitco", URL: "https://www.kitco.com/news/gold.html", Selector: "article h3, article a"},
	}
}

const maxHeadlines = 10

// analysisContext is appended to whatever headlines were gathered so
// the narration stage always has framing to work with.
const analysisContext = `Analysis Context:
Focus on themes related to: Federal Reserve policy, interest rate decisions, US Dollar strength/weakness, inflation trends, and geopolitical tensions.
These factors directly impact gold prices as a safe-haven asset.`

// fallbackContext is returned when no source yielded a single headline.
const fallbackContext = `Recent Relevant Fundamental Headlines:

[Market Context] - Unable to fetch live headlines. General analysis suggests:
  Monitor Federal Reserve interest rate policies (higher rates typically pressure gold)
  Track US Dollar Index movements (inverse relationship with gold)
  Watch for geopolitical tensions (boost safe-haven demand)
  Consider inflation expectations (gold as inflation hedge)`

// Gatherer scrapes recent gold-related headlines. It is strictly
// best-effort: every failure is absorbed and the worst case is the
// generic fallback context, never an error.
type Gatherer struct {
	Client  *http.Client
	Sources []Source
}

// NewGatherer creates a headline gatherer with optional proxy support.
func NewGatherer(proxyURL string) *Gatherer {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Gatherer{
		Client:  &http.Client{Transport: transport},
		Sources: DefaultSources(),
	}
}

// GatherContext collects up to ten headlines across all sources and
// formats them with the analysis framing block.
func (g *Gatherer) GatherContext(ctx context.Context) string {
	var headlines []string
	for _, src := range g.Sources {
		if len(headlines) >= maxHeadlines {
			break
		}
		found, err := g.scrape(ctx, src)
		if err != nil {
			log.Printf("[WARN] news source %s failed: %v", src.Name, err)
			continue
		}
		headlines = append(headlines, found...)
	}

	if len(headlines) == 0 {
		return fallbackContext
	}
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}

	var b strings.Builder
	b.WriteString("Recent Relevant Fundamental Headlines:\n\n")
	for _, h := range headlines {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(analysisContext)
	return b.String()
}

func (g *Gatherer) scrape(ctx context.Context, src Source) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", src.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var headlines []string
	seen := make(map[string]bool)
	doc.Find(src.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Text())
		if title == "" || seen[title] {
			return true
		}
		seen[title] = true
		headlines = append(headlines, fmt.Sprintf("[%s] - %s", src.Name, title))
		return len(headlines) < maxHeadlines
	})
	return headlines, nil
}
