package prober

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"content_ingest/internal/domain"
)

// Config holds prober settings. SocialProfileURL is a printf-style
// template with one %s for the handle; when empty, social probes are
// format-only and always succeed.
type Config struct {
	Timeout          time.Duration
	SocialProfileURL string
	UserAgent        string
}

// Prober performs lightweight reachability checks. It never mutates the
// source; callers apply the result. Safe for concurrent use across
// sources.
type Prober struct {
	client     *http.Client
	profileURL string
	userAgent  string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		profileURL: cfg.SocialProfileURL,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

// Probe checks that the source's endpoint is reachable and serves what its
// type promises. For RSS that means a parseable feed, not just an HTTP 200.
func (p *Prober) Probe(ctx context.Context, src *domain.Source) domain.HealthResult {
	start := time.Now()

	var err error
	switch src.Type {
	case domain.SourceTypeRSS:
		err = p.probeFeed(ctx, src.Endpoint)
	case domain.SourceTypeSocial:
		err = p.probeHandle(ctx, src.Endpoint)
	default:
		err = &domain.ConfigurationError{Type: string(src.Type)}
	}

	res := domain.HealthResult{
		Reachable: err == nil,
		Latency:   time.Since(start),
		Err:       err,
	}

	p.logger.Debug("probe finished",
		"source_id", src.ID,
		"reachable", res.Reachable,
		"latency", res.Latency,
	)

	return res
}

func (p *Prober) probeFeed(ctx context.Context, feedURL string) error {
	parser := gofeed.NewParser()
	parser.Client = p.client
	parser.UserAgent = p.userAgent

	if _, err := parser.ParseURLWithContext(feedURL, ctx); err != nil {
		return fmt.Errorf("parse feed: %w", err)
	}
	return nil
}

func (p *Prober) probeHandle(ctx context.Context, handle string) error {
	if p.profileURL == "" {
		// No profile endpoint configured; the handle format was already
		// validated at creation time.
		return nil
	}

	url := fmt.Sprintf(p.profileURL, handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// SuggestName proposes a display name for an endpoint: the feed title for
// RSS, the @-prefixed handle for social sources.
func (p *Prober) SuggestName(ctx context.Context, t domain.SourceType, endpoint string) (string, error) {
	switch t {
	case domain.SourceTypeRSS:
		parser := gofeed.NewParser()
		parser.Client = p.client
		parser.UserAgent = p.userAgent
		feed, err := parser.ParseURLWithContext(endpoint, ctx)
		if err != nil {
			return "", fmt.Errorf("parse feed: %w", err)
		}
		return feed.Title, nil
	case domain.SourceTypeSocial:
		return "@" + endpoint, nil
	default:
		return "", &domain.ConfigurationError{Type: string(t)}
	}
}
