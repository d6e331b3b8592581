package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"content_ingest/internal/domain"
)

// SocialFetcher pulls new posts for a handle from a JSON posts API. The
// cursor is the highest post ID delivered so far; each page is requested
// with since_id so only newer posts come back.
type SocialFetcher struct {
	client         *http.Client
	baseURL        string
	userAgent      string
	maxItems       int
	maxPages       int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func NewSocial(cfg Config, logger *slog.Logger) *SocialFetcher {
	return &SocialFetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.SocialAPIBaseURL,
		userAgent:      cfg.UserAgent,
		maxItems:       cfg.MaxItems,
		maxPages:       cfg.MaxPages,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("fetcher", "social"),
	}
}

type postsResponse struct {
	Posts   []postPayload `json:"posts"`
	HasMore bool          `json:"has_more"`
}

type postPayload struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

func (f *SocialFetcher) Type() domain.SourceType {
	return domain.SourceTypeSocial
}

func (f *SocialFetcher) Fetch(ctx context.Context, src *domain.Source) domain.FetchResult {
	sinceID, _ := ParseIDCursor(src.FetchCursor)

	var posts []postPayload
	pageSince := sinceID
	for page := 0; page < f.maxPages; page++ {
		resp, err := f.fetchPage(ctx, src.Endpoint, pageSince)
		if err != nil {
			if len(posts) == 0 {
				return domain.FetchResult{
					SourceID: src.ID,
					Outcome:  domain.OutcomeFailure,
					Cursor:   src.FetchCursor,
					Err:      err,
				}
			}
			// Deliver what earlier pages returned; the cursor only
			// advances over delivered posts.
			f.logger.Warn("pagination aborted, delivering partial batch",
				"source_id", src.ID,
				"pages", page,
				"error", err,
			)
			break
		}

		for _, p := range resp.Posts {
			if p.ID > sinceID {
				posts = append(posts, p)
			}
			if p.ID > pageSince {
				pageSince = p.ID
			}
		}

		if !resp.HasMore || len(posts) >= f.maxItems {
			break
		}
	}

	if len(posts) > f.maxItems {
		posts = posts[:f.maxItems]
	}

	if len(posts) == 0 {
		return domain.FetchResult{
			SourceID: src.ID,
			Outcome:  domain.OutcomeNoNewContent,
			Cursor:   src.FetchCursor,
		}
	}

	now := time.Now().UTC()
	maxID := sinceID
	items := make([]domain.ContentItem, 0, len(posts))
	for _, p := range posts {
		publishedAt, err := time.Parse(time.RFC3339, p.CreatedAt)
		if err != nil {
			f.logger.Warn("failed to parse post timestamp",
				"post_id", p.ID,
				"created_at", p.CreatedAt,
			)
			publishedAt = now
		}

		items = append(items, domain.ContentItem{
			SourceID:    src.ID,
			ExternalID:  strconv.FormatInt(p.ID, 10),
			Body:        p.Text,
			URL:         p.URL,
			Author:      p.Author,
			PublishedAt: publishedAt.UTC(),
			FetchedAt:   now,
		})

		if p.ID > maxID {
			maxID = p.ID
		}
	}

	return domain.FetchResult{
		SourceID: src.ID,
		Outcome:  domain.OutcomeSuccess,
		Items:    items,
		Cursor:   MaxCursor(src.FetchCursor, IDCursor(maxID)),
	}
}

func (f *SocialFetcher) fetchPage(ctx context.Context, handle string, sinceID int64) (*postsResponse, error) {
	url := fmt.Sprintf("%s/users/%s/posts?since_id=%d&limit=%d", f.baseURL, handle, sinceID, f.maxItems)

	var resp *postsResponse
	var err error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		resp, err = f.doRequest(ctx, url)
		if err == nil {
			return resp, nil
		}

		if attempt == f.maxAttempts {
			break
		}

		backoff := calculateBackoff(f.initialBackoff, f.maxBackoff, attempt)
		f.logger.Warn("request failed, retrying",
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

	return nil, fmt.Errorf("after %d attempts: %w", f.maxAttempts, err)
}

func (f *SocialFetcher) doRequest(ctx context.Context, url string) (*postsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp postsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}
