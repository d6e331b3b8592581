package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_ingest/internal/domain"
)

func newSocialFetcher(t *testing.T, baseURL string) *SocialFetcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewSocial(Config{
		Timeout:          5 * time.Second,
		MaxItems:         50,
		MaxPages:         5,
		SocialAPIBaseURL: baseURL,
		MaxAttempts:      1,
		InitialBackoff:   time.Millisecond,
		MaxBackoff:       time.Millisecond,
	}, logger)
}

// postsHandler serves a fixed post set, filtering by since_id like the
// real API does.
func postsHandler(t *testing.T, posts []postPayload) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sinceID, err := strconv.ParseInt(r.URL.Query().Get("since_id"), 10, 64)
		require.NoError(t, err)

		var page []postPayload
		for _, p := range posts {
			if p.ID > sinceID {
				page = append(page, p)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(postsResponse{Posts: page}))
	}
}

func TestSocialFetch_InitialFetchDeliversAllPosts(t *testing.T) {
	posts := []postPayload{
		{ID: 101, Text: "first post", URL: "https://social.example/p/101", Author: "jane_doe", CreatedAt: "2024-03-01T10:00:00Z"},
		{ID: 102, Text: "second post", URL: "https://social.example/p/102", Author: "jane_doe", CreatedAt: "2024-03-01T11:00:00Z"},
	}

	srv := httptest.NewServer(postsHandler(t, posts))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	res := f.Fetch(context.Background(), src)

	require.Equal(t, domain.OutcomeSuccess, res.Outcome)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "101", res.Items[0].ExternalID)
	assert.Equal(t, "first post", res.Items[0].Body)
	assert.Equal(t, "jane_doe", res.Items[0].Author)
	assert.Equal(t, IDCursor(102), res.Cursor)
}

func TestSocialFetch_OnlyPostsAboveCursor(t *testing.T) {
	posts := []postPayload{
		{ID: 101, Text: "old", CreatedAt: "2024-03-01T10:00:00Z"},
		{ID: 102, Text: "also old", CreatedAt: "2024-03-01T11:00:00Z"},
		{ID: 103, Text: "new", CreatedAt: "2024-03-01T12:00:00Z"},
	}

	srv := httptest.NewServer(postsHandler(t, posts))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{
		ID:          "src-1",
		Type:        domain.SourceTypeSocial,
		Endpoint:    "jane_doe",
		FetchCursor: IDCursor(102),
	}

	res := f.Fetch(context.Background(), src)

	require.Equal(t, domain.OutcomeSuccess, res.Outcome)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "103", res.Items[0].ExternalID)
	assert.Equal(t, IDCursor(103), res.Cursor)
}

func TestSocialFetch_NoNewContentKeepsCursor(t *testing.T) {
	posts := []postPayload{
		{ID: 101, Text: "old", CreatedAt: "2024-03-01T10:00:00Z"},
	}

	srv := httptest.NewServer(postsHandler(t, posts))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{
		ID:          "src-1",
		Type:        domain.SourceTypeSocial,
		Endpoint:    "jane_doe",
		FetchCursor: IDCursor(101),
	}

	res := f.Fetch(context.Background(), src)

	assert.Equal(t, domain.OutcomeNoNewContent, res.Outcome)
	assert.Empty(t, res.Items)
	assert.Equal(t, IDCursor(101), res.Cursor)
}

func TestSocialFetch_Pagination(t *testing.T) {
	// Two pages: posts 101-102 with has_more, then 103.
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		sinceID, err := strconv.ParseInt(r.URL.Query().Get("since_id"), 10, 64)
		require.NoError(t, err)

		var resp postsResponse
		if sinceID < 102 {
			resp = postsResponse{
				Posts: []postPayload{
					{ID: 101, Text: "one", CreatedAt: "2024-03-01T10:00:00Z"},
					{ID: 102, Text: "two", CreatedAt: "2024-03-01T11:00:00Z"},
				},
				HasMore: true,
			}
		} else {
			resp = postsResponse{
				Posts: []postPayload{
					{ID: 103, Text: "three", CreatedAt: "2024-03-01T12:00:00Z"},
				},
			}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	res := f.Fetch(context.Background(), src)

	require.Equal(t, domain.OutcomeSuccess, res.Outcome)
	require.Len(t, res.Items, 3)
	assert.Equal(t, 2, calls)
	assert.Equal(t, IDCursor(103), res.Cursor)
}

func TestSocialFetch_FirstPageErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{
		ID:          "src-1",
		Type:        domain.SourceTypeSocial,
		Endpoint:    "jane_doe",
		FetchCursor: IDCursor(100),
	}

	res := f.Fetch(context.Background(), src)

	assert.Equal(t, domain.OutcomeFailure, res.Outcome)
	assert.Error(t, res.Err)
	assert.Equal(t, IDCursor(100), res.Cursor)
}

// An error on a later page delivers the earlier pages; the cursor only
// covers what was delivered.
func TestSocialFetch_LaterPageErrorDeliversPartialBatch(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		resp := postsResponse{
			Posts: []postPayload{
				{ID: 101, Text: "one", CreatedAt: "2024-03-01T10:00:00Z"},
			},
			HasMore: true,
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	res := f.Fetch(context.Background(), src)

	require.Equal(t, domain.OutcomeSuccess, res.Outcome)
	require.Len(t, res.Items, 1)
	assert.Equal(t, IDCursor(101), res.Cursor)
}

func TestSocialFetch_RequestsHandlePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewEncoder(w).Encode(postsResponse{}))
	}))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	f.Fetch(context.Background(), src)

	assert.Equal(t, "/users/jane_doe/posts", gotPath)
}

func TestSocialFetch_BadTimestampFallsBackToFetchTime(t *testing.T) {
	posts := []postPayload{
		{ID: 101, Text: "post", CreatedAt: "not-a-timestamp"},
	}

	srv := httptest.NewServer(postsHandler(t, posts))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	before := time.Now().UTC().Add(-time.Second)
	res := f.Fetch(context.Background(), src)

	require.Equal(t, domain.OutcomeSuccess, res.Outcome)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].PublishedAt.After(before))
}

func TestSocialFetch_URLFormat(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewEncoder(w).Encode(postsResponse{}))
	}))
	defer srv.Close()

	f := newSocialFetcher(t, srv.URL)
	src := &domain.Source{
		ID:          "src-1",
		Type:        domain.SourceTypeSocial,
		Endpoint:    "jane_doe",
		FetchCursor: IDCursor(42),
	}

	f.Fetch(context.Background(), src)

	assert.Equal(t, fmt.Sprintf("since_id=%d&limit=%d", 42, 50), gotQuery)
}
