// Package scraper provides implementations for fetching RSS/Atom feeds.
// It uses the gofeed library to parse feed content with reliability patterns.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tech-news-hub/internal/resilience/circuitbreaker"
	"tech-news-hub/internal/resilience/retry"
	"tech-news-hub/internal/usecase/ingest"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	// maxEntriesPerFeed caps how many entries are taken from one feed,
	// in feed order. High-volume feeds ship hundreds of entries per
	// request; anything past the newest ten is stale by the next cycle.
	maxEntriesPerFeed = 10

	userAgent = "TechNewsHubBot/1.0"
)

// defaultLimiter throttles outbound feed requests across all sources so a
// cycle never hammers publishers in one burst.
func defaultLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(200*time.Millisecond), 2)
}

// RSSFetcher implements ingest.FeedFetcher using the gofeed library.
// It includes circuit breaker, retry, and rate limiting for reliability.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	limiter        *rate.Limiter
}

// NewRSSFetcher creates a new RSSFetcher with the given HTTP client.
// It automatically configures circuit breaker, retry, and a shared
// outbound rate limit.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	return NewRSSFetcherWithLimiter(client, defaultLimiter())
}

// NewRSSFetcherWithLimiter creates a new RSSFetcher with an explicit rate
// limiter. Pass a generous limiter in tests to avoid throttling delays.
func NewRSSFetcherWithLimiter(client *http.Client, limiter *rate.Limiter) *RSSFetcher {
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		limiter:        limiter,
	}
}

// Fetch retrieves and parses an RSS/Atom feed from the given URL.
// It returns at most maxEntriesPerFeed items in feed order.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]ingest.FeedItem, error) {
	var items []ingest.FeedItem

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", f.circuitBreaker.Name()),
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}

		items = cbResult.([]ingest.FeedItem)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return items, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]ingest.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}

	entries := feed.Items
	if len(entries) > maxEntriesPerFeed {
		entries = entries[:maxEntriesPerFeed]
	}

	items := make([]ingest.FeedItem, 0, len(entries))
	for _, it := range entries {
		pubAt, fallback := resolvePublished(it)

		summary := it.Description
		if summary == "" {
			summary = it.Content
		}

		items = append(items, ingest.FeedItem{
			Title:             it.Title,
			URL:               it.Link,
			Summary:           summary,
			PublishedAt:       pubAt,
			PublishedFallback: fallback,
		})
	}

	return items, nil
}

// resolvePublished extracts a publication time from a feed entry. Feeds
// missing both published and updated timestamps get the fetch time, and
// the fallback flag lets the caller account for the substitution.
func resolvePublished(it *gofeed.Item) (time.Time, bool) {
	if it.PublishedParsed != nil {
		return it.PublishedParsed.UTC(), false
	}
	if it.UpdatedParsed != nil {
		return it.UpdatedParsed.UTC(), false
	}
	return time.Now().UTC(), true
}
