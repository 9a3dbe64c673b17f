package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"llmstxt-go/pkg/parser"
)

// countingFetcher wraps a real fetcher and records how often each URL was requested.
type countingFetcher struct {
	next parser.Fetcher
	mu   sync.Mutex
	hits map[string]int
}

func newCountingFetcher(next parser.Fetcher) *countingFetcher {
	return &countingFetcher{next: next, hits: make(map[string]int)}
}

func (f *countingFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (*parser.Response, error) {
	f.mu.Lock()
	f.hits[url]++
	f.mu.Unlock()
	return f.next.Fetch(ctx, url, timeout)
}

func xmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(body))
	}
}

func index(locs ...string) string {
	s := `<?xml version="1.0" encoding="UTF-8"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, l := range locs {
		s += "<sitemap><loc>" + l + "</loc></sitemap>"
	}
	return s + "</sitemapindex>"
}

func urlset(locs ...string) string {
	s := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, l := range locs {
		s += "<url><loc>" + l + "</loc></url>"
	}
	return s + "</urlset>"
}

func TestCollector_IndexWithChildren(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/sitemap.xml", xmlHandler(index(ts.URL+"/pages.xml", ts.URL+"/posts.xml")))
	mux.HandleFunc("/pages.xml", xmlHandler(urlset("https://example.com/about", "https://example.com/contact")))
	mux.HandleFunc("/posts.xml", xmlHandler(urlset("https://example.com/blog/a", "https://example.com/about")))

	c := NewCollector(parser.NewHTTPClient(parser.HTTPClientConfig{}), CollectorConfig{})
	urls, stats := c.CollectWithStats(context.Background(), ts.URL+"/sitemap.xml", ts.URL)

	want := []string{
		"https://example.com/about",
		"https://example.com/contact",
		"https://example.com/blog/a",
		"https://example.com/about",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
	if stats.SitemapsFetched != 3 {
		t.Errorf("expected 3 sitemaps fetched, got %d", stats.SitemapsFetched)
	}
}

func TestCollector_NeverFetchesTwice(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	// root -> a, b ; a -> shared, root ; b -> shared
	mux.HandleFunc("/root.xml", xmlHandler(index(ts.URL+"/a.xml", ts.URL+"/b.xml")))
	mux.HandleFunc("/a.xml", xmlHandler(index(ts.URL+"/shared.xml", ts.URL+"/root.xml")))
	mux.HandleFunc("/b.xml", xmlHandler(index(ts.URL+"/shared.xml")))
	mux.HandleFunc("/shared.xml", xmlHandler(urlset("https://example.com/one")))

	fetcher := newCountingFetcher(parser.NewHTTPClient(parser.HTTPClientConfig{}))
	c := NewCollector(fetcher, CollectorConfig{})
	urls := c.Collect(context.Background(), ts.URL+"/root.xml", ts.URL, NewVisitedSet())

	if !reflect.DeepEqual(urls, []string{"https://example.com/one"}) {
		t.Errorf("unexpected urls %v", urls)
	}
	for u, n := range fetcher.hits {
		if n != 1 {
			t.Errorf("%s fetched %d times", u, n)
		}
	}
	if len(fetcher.hits) != 4 {
		t.Errorf("expected 4 distinct fetches, got %d", len(fetcher.hits))
	}
}

func TestCollector_AlreadyVisitedIsNoop(t *testing.T) {
	fetcher := newCountingFetcher(parser.NewHTTPClient(parser.HTTPClientConfig{}))
	c := NewCollector(fetcher, CollectorConfig{})

	visited := NewVisitedSet()
	visited.Add("http://127.0.0.1:1/sitemap.xml")

	if urls := c.Collect(context.Background(), "http://127.0.0.1:1/sitemap.xml", "", visited); len(urls) != 0 {
		t.Errorf("expected no urls, got %v", urls)
	}
	if len(fetcher.hits) != 0 {
		t.Errorf("visited sitemap must not be fetched, got %v", fetcher.hits)
	}
}

func TestCollector_FailingBranchesAreAbsorbed(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/sitemap.xml", xmlHandler(index(
		ts.URL+"/broken.xml",
		ts.URL+"/html.xml",
		ts.URL+"/slow.xml",
		ts.URL+"/good.xml",
	)))
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/html.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>not a sitemap</body></html>"))
	})
	mux.HandleFunc("/slow.xml", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		xmlHandler(urlset("https://example.com/slow"))(w, r)
	})
	mux.HandleFunc("/good.xml", xmlHandler(urlset("https://example.com/good")))

	c := NewCollector(parser.NewHTTPClient(parser.HTTPClientConfig{}), CollectorConfig{Timeout: 100 * time.Millisecond})
	urls, stats := c.CollectWithStats(context.Background(), ts.URL+"/sitemap.xml", ts.URL)

	if !reflect.DeepEqual(urls, []string{"https://example.com/good"}) {
		t.Errorf("expected only the good branch, got %v", urls)
	}
	if stats.SitemapsFailed != 3 {
		t.Errorf("expected 3 failed sitemaps, got %d", stats.SitemapsFailed)
	}
}

func TestCollector_UnreachableRootReturnsEmpty(t *testing.T) {
	c := NewCollector(parser.NewHTTPClient(parser.HTTPClientConfig{}), CollectorConfig{Timeout: 200 * time.Millisecond})
	urls := c.Collect(context.Background(), "http://127.0.0.1:1/sitemap.xml", "http://127.0.0.1:1", NewVisitedSet())
	if len(urls) != 0 {
		t.Errorf("expected empty result, got %v", urls)
	}
}

func TestCollector_DepthCap(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	// level0 -> level1 -> ... -> level9, each also listing one page
	for i := 0; i < 10; i++ {
		body := `<?xml version="1.0"?><urlset>` +
			fmt.Sprintf("<url><loc>https://example.com/p%d</loc></url>", i) +
			fmt.Sprintf("<url><loc>%s/level%d.xml</loc></url>", ts.URL, i+1) +
			`</urlset>`
		mux.HandleFunc(fmt.Sprintf("/level%d.xml", i), xmlHandler(body))
	}

	c := NewCollector(parser.NewHTTPClient(parser.HTTPClientConfig{}), CollectorConfig{MaxDepth: 2})
	urls := c.Collect(context.Background(), ts.URL+"/level0.xml", ts.URL, NewVisitedSet())

	want := []string{"https://example.com/p0", "https://example.com/p1", "https://example.com/p2"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
}

func TestCollector_CancelledContext(t *testing.T) {
	fetcher := newCountingFetcher(parser.NewHTTPClient(parser.HTTPClientConfig{}))
	c := NewCollector(fetcher, CollectorConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if urls := c.Collect(ctx, "http://127.0.0.1:1/sitemap.xml", "", NewVisitedSet()); len(urls) != 0 {
		t.Errorf("expected nothing from a cancelled traversal, got %v", urls)
	}
	if len(fetcher.hits) != 0 {
		t.Errorf("cancelled traversal should not fetch, got %v", fetcher.hits)
	}
}
