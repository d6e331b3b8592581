package fetcher

import (
	"context"
	"time"

	"content_ingest/internal/domain"
)

// Fetcher retrieves new content items for one source type. The fetch
// cursor bounds what is requested; items at or below the cursor are never
// emitted again.
type Fetcher interface {
	Type() domain.SourceType
	Fetch(ctx context.Context, src *domain.Source) domain.FetchResult
}

// Config holds the settings shared by the concrete fetchers.
type Config struct {
	Timeout          time.Duration
	MaxItems         int
	MaxPages         int
	SocialAPIBaseURL string
	UserAgent        string
	MaxAttempts      int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
}

// Dispatcher routes a fetch to the fetcher registered for the source's
// type tag. The variant set is closed: new types are added by registering
// another Fetcher.
type Dispatcher struct {
	byType map[domain.SourceType]Fetcher
}

func NewDispatcher(fetchers ...Fetcher) *Dispatcher {
	byType := make(map[domain.SourceType]Fetcher, len(fetchers))
	for _, f := range fetchers {
		byType[f.Type()] = f
	}
	return &Dispatcher{byType: byType}
}

func (d *Dispatcher) Fetch(ctx context.Context, src *domain.Source) domain.FetchResult {
	f, ok := d.byType[src.Type]
	if !ok {
		return domain.FetchResult{
			SourceID: src.ID,
			Outcome:  domain.OutcomeFailure,
			Cursor:   src.FetchCursor,
			Err:      &domain.ConfigurationError{Type: string(src.Type)},
		}
	}
	return f.Fetch(ctx, src)
}

func calculateBackoff(initial, max time.Duration, attempt int) time.Duration {
	backoff := initial
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > max {
		backoff = max
	}
	return backoff
}
