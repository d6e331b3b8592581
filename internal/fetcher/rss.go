package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"content_ingest/internal/domain"
)

// RSSFetcher pulls new entries from RSS/Atom feeds. The cursor is the
// publish timestamp of the newest item delivered so far; only strictly
// newer entries are emitted.
type RSSFetcher struct {
	client         *http.Client
	userAgent      string
	maxItems       int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func NewRSS(cfg Config, logger *slog.Logger) *RSSFetcher {
	return &RSSFetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:      cfg.UserAgent,
		maxItems:       cfg.MaxItems,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("fetcher", "rss"),
	}
}

func (f *RSSFetcher) Type() domain.SourceType {
	return domain.SourceTypeRSS
}

func (f *RSSFetcher) Fetch(ctx context.Context, src *domain.Source) domain.FetchResult {
	feed, err := f.parseWithRetry(ctx, src.Endpoint)
	if err != nil {
		return domain.FetchResult{
			SourceID: src.ID,
			Outcome:  domain.OutcomeFailure,
			Cursor:   src.FetchCursor,
			Err:      err,
		}
	}

	cursorTime, _ := ParseTimeCursor(src.FetchCursor)
	now := time.Now().UTC()

	var items []domain.ContentItem
	maxSeen := cursorTime
	for _, entry := range feed.Items {
		published := entryTime(entry)
		if published == nil || !published.After(cursorTime) {
			continue
		}

		externalID := entry.GUID
		if externalID == "" {
			externalID = entry.Link
		}
		if externalID == "" {
			f.logger.Warn("feed entry without GUID or link, skipping",
				"source_id", src.ID,
				"title", entry.Title,
			)
			continue
		}

		body := entry.Content
		if body == "" {
			body = entry.Description
		}

		items = append(items, domain.ContentItem{
			SourceID:    src.ID,
			ExternalID:  externalID,
			Title:       entry.Title,
			Body:        body,
			URL:         entry.Link,
			Author:      entryAuthor(entry),
			PublishedAt: published.UTC(),
			FetchedAt:   now,
		})

		if published.After(maxSeen) {
			maxSeen = published.UTC()
		}

		if len(items) >= f.maxItems {
			break
		}
	}

	if len(items) == 0 {
		return domain.FetchResult{
			SourceID: src.ID,
			Outcome:  domain.OutcomeNoNewContent,
			Cursor:   src.FetchCursor,
		}
	}

	return domain.FetchResult{
		SourceID: src.ID,
		Outcome:  domain.OutcomeSuccess,
		Items:    items,
		Cursor:   MaxCursor(src.FetchCursor, TimeCursor(maxSeen)),
	}
}

func (f *RSSFetcher) parseWithRetry(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		parser := gofeed.NewParser()
		parser.Client = f.client
		parser.UserAgent = f.userAgent

		feed, err := parser.ParseURLWithContext(feedURL, ctx)
		if err == nil {
			return feed, nil
		}
		lastErr = err

		if attempt == f.maxAttempts {
			break
		}

		backoff := calculateBackoff(f.initialBackoff, f.maxBackoff, attempt)
		f.logger.Warn("feed fetch failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", f.maxAttempts, lastErr)
}

func entryTime(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}

func entryAuthor(entry *gofeed.Item) string {
	if entry.Author != nil {
		return entry.Author.Name
	}
	return ""
}
