package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tech-news-hub/internal/infra/scraper"

	"golang.org/x/time/rate"
)

// testFetcher builds a fetcher with an unthrottled limiter so tests do not
// wait on the outbound rate limit.
func testFetcher(client *http.Client) *scraper.RSSFetcher {
	return scraper.NewRSSFetcherWithLimiter(client, rate.NewLimiter(rate.Inf, 0))
}

func rssServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		if _, err := w.Write([]byte(body)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRSSFetcher_Fetch_Success(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Article 1</title>
      <link>https://example.com/article1</link>
      <description>Description 1</description>
      <pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Article 2</title>
      <link>https://example.com/article2</link>
      <description>Description 2</description>
      <pubDate>Tue, 02 Jan 2024 00:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`
	server := rssServer(t, rss)

	client := &http.Client{Timeout: 10 * time.Second}
	fetcher := testFetcher(client)

	items, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("items length = %d, want 2", len(items))
	}

	if items[0].Title != "Article 1" {
		t.Errorf("items[0].Title = %q, want %q", items[0].Title, "Article 1")
	}
	if items[0].URL != "https://example.com/article1" {
		t.Errorf("items[0].URL = %q, want %q", items[0].URL, "https://example.com/article1")
	}
	if items[0].Summary != "Description 1" {
		t.Errorf("items[0].Summary = %q, want %q", items[0].Summary, "Description 1")
	}
	if items[0].PublishedFallback {
		t.Error("items[0].PublishedFallback = true, want false")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Errorf("items[0].PublishedAt = %v, want %v", items[0].PublishedAt, want)
	}
}

func TestRSSFetcher_Fetch_CapsEntries(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Busy Feed</title>
    <link>https://example.com</link>
    <description>High volume</description>`)
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, `
    <item>
      <title>Article %d</title>
      <link>https://example.com/article%d</link>
      <pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>
    </item>`, i, i)
	}
	sb.WriteString(`
  </channel>
</rss>`)
	server := rssServer(t, sb.String())

	fetcher := testFetcher(&http.Client{Timeout: 10 * time.Second})

	items, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(items) != 10 {
		t.Fatalf("items length = %d, want 10", len(items))
	}
	// Feed order is preserved: the cap keeps the first entries.
	if items[0].Title != "Article 0" {
		t.Errorf("items[0].Title = %q, want %q", items[0].Title, "Article 0")
	}
	if items[9].Title != "Article 9" {
		t.Errorf("items[9].Title = %q, want %q", items[9].Title, "Article 9")
	}
}

func TestRSSFetcher_Fetch_PublishedFallback(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Undated Feed</title>
    <link>https://example.com</link>
    <description>No timestamps</description>
    <item>
      <title>Undated Article</title>
      <link>https://example.com/undated</link>
    </item>
  </channel>
</rss>`
	server := rssServer(t, rss)

	fetcher := testFetcher(&http.Client{Timeout: 10 * time.Second})

	before := time.Now().UTC()
	items, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	after := time.Now().UTC()

	if len(items) != 1 {
		t.Fatalf("items length = %d, want 1", len(items))
	}
	if !items[0].PublishedFallback {
		t.Error("PublishedFallback = false, want true")
	}
	if items[0].PublishedAt.Before(before) || items[0].PublishedAt.After(after) {
		t.Errorf("PublishedAt = %v, want within [%v, %v]", items[0].PublishedAt, before, after)
	}
}

func TestRSSFetcher_Fetch_SummaryFallsBackToContent(t *testing.T) {
	atom := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2024-01-01T00:00:00Z</updated>
  <id>urn:uuid:feed</id>
  <entry>
    <title>Content Only</title>
    <link href="https://example.com/content-only"/>
    <id>urn:uuid:entry1</id>
    <updated>2024-01-01T00:00:00Z</updated>
    <content type="html">Full body text</content>
  </entry>
</feed>`
	server := rssServer(t, atom)

	fetcher := testFetcher(&http.Client{Timeout: 10 * time.Second})

	items, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items length = %d, want 1", len(items))
	}
	if items[0].Summary != "Full body text" {
		t.Errorf("items[0].Summary = %q, want %q", items[0].Summary, "Full body text")
	}
}

func TestRSSFetcher_Fetch_HTTPErrorNotRetried(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := testFetcher(&http.Client{Timeout: 10 * time.Second})

	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Fetch() error = nil, want error")
	}
	// 404 is not a transient failure and must not be retried.
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestRSSFetcher_Fetch_InvalidFeed(t *testing.T) {
	server := rssServer(t, "this is not xml")

	fetcher := testFetcher(&http.Client{Timeout: 10 * time.Second})

	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Fetch() error = nil, want parse error")
	}
}

func TestRSSFetcher_Fetch_ContextCancelled(t *testing.T) {
	server := rssServer(t, "<rss/>")

	fetcher := testFetcher(&http.Client{Timeout: 10 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, server.URL)
	if err == nil {
		t.Fatal("Fetch() error = nil, want context error")
	}
}
