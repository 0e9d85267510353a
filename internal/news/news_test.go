package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<html><body>
<article><h3>Gold steadies as dollar softens</h3></article>
<article><h3>Fed minutes hint at slower cuts</h3></article>
<article><a>Central banks keep buying bullion</a></article>
</body></html>`

func TestGatherContext_ScrapesHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	g := &Gatherer{
		Client: srv.Client(),
		Sources: []Source{
			{Name: "TestWire", URL: srv.URL, Selector: "article h3, article a"},
		},
	}

	got := g.GatherContext(context.Background())
	if !strings.Contains(got, "[TestWire] - Gold steadies as dollar softens") {
		t.Errorf("missing scraped headline in:\n%s", got)
	}
	if !strings.Contains(got, "Federal Reserve policy") {
		t.Errorf("missing analysis context block in:\n%s", got)
	}
}

func TestGatherContext_FallbackOnTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := &Gatherer{
		Client: srv.Client(),
		Sources: []Source{
			{Name: "Broken", URL: srv.URL, Selector: "article h3"},
		},
	}

	got := g.GatherContext(context.Background())
	if !strings.Contains(got, "Unable to fetch live headlines") {
		t.Errorf("expected generic fallback context, got:\n%s", got)
	}
}

func TestGatherContext_CapsHeadlines(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		b.WriteString("<article><h3>headline ")
		b.WriteByte(byte('a' + i))
		b.WriteString("</h3></article>")
	}
	b.WriteString("</body></html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(b.String()))
	}))
	defer srv.Close()

	g := &Gatherer{
		Client: srv.Client(),
		Sources: []Source{
			{Name: "Firehose", URL: srv.URL, Selector: "article h3"},
		},
	}

	got := g.GatherContext(context.Background())
	if n := strings.Count(got, "[Firehose]"); n > maxHeadlines {
		t.Errorf("expected at most %d headlines, got %d", maxHeadlines, n)
	}
}
