package prober

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_ingest/internal/domain"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Example Feed</title>
<link>https://example.com</link>
<item>
<guid>post-1</guid>
<title>First</title>
<pubDate>Fri, 01 Mar 2024 10:00:00 GMT</pubDate>
</item>
</channel>
</rss>`

func newProber(t *testing.T, cfg Config) *Prober {
	t.Helper()
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(cfg, logger)
}

func TestProbe_ValidFeedIsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	p := newProber(t, Config{})
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeRSS, Endpoint: srv.URL}

	res := p.Probe(context.Background(), src)

	assert.True(t, res.Reachable)
	assert.NoError(t, res.Err)
	assert.Greater(t, res.Latency, time.Duration(0))
}

func TestProbe_FeedNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := newProber(t, Config{})
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeRSS, Endpoint: srv.URL}

	res := p.Probe(context.Background(), src)

	assert.False(t, res.Reachable)
	assert.Error(t, res.Err)
}

// An endpoint that answers 200 with HTML is not a feed; reachability
// means the endpoint serves what its type promises.
func TestProbe_HTMLResponseIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>Welcome</body></html>")
	}))
	defer srv.Close()

	p := newProber(t, Config{})
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeRSS, Endpoint: srv.URL}

	res := p.Probe(context.Background(), src)

	assert.False(t, res.Reachable)
	assert.Error(t, res.Err)
}

func TestProbe_SocialFormatOnly(t *testing.T) {
	p := newProber(t, Config{})
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	res := p.Probe(context.Background(), src)

	assert.True(t, res.Reachable)
	assert.NoError(t, res.Err)
}

func TestProbe_SocialProfileFound(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"handle":"jane_doe"}`)
	}))
	defer srv.Close()

	p := newProber(t, Config{SocialProfileURL: srv.URL + "/users/%s"})
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	res := p.Probe(context.Background(), src)

	assert.True(t, res.Reachable)
	assert.Equal(t, "/users/jane_doe", gotPath)
}

func TestProbe_SocialProfileMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := newProber(t, Config{SocialProfileURL: srv.URL + "/users/%s"})
	src := &domain.Source{ID: "src-1", Type: domain.SourceTypeSocial, Endpoint: "jane_doe"}

	res := p.Probe(context.Background(), src)

	assert.False(t, res.Reachable)
	assert.Error(t, res.Err)
}

func TestProbe_UnknownType(t *testing.T) {
	p := newProber(t, Config{})
	src := &domain.Source{ID: "src-1", Type: domain.SourceType("telegram")}

	res := p.Probe(context.Background(), src)

	assert.False(t, res.Reachable)

	var cerr *domain.ConfigurationError
	assert.ErrorAs(t, res.Err, &cerr)
}

func TestSuggestName_FeedTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	p := newProber(t, Config{})

	name, err := p.SuggestName(context.Background(), domain.SourceTypeRSS, srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "Example Feed", name)
}

func TestSuggestName_SocialHandle(t *testing.T) {
	p := newProber(t, Config{})

	name, err := p.SuggestName(context.Background(), domain.SourceTypeSocial, "jane_doe")

	require.NoError(t, err)
	assert.Equal(t, "@jane_doe", name)
}

func TestSuggestName_UnreachableFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newProber(t, Config{})

	_, err := p.SuggestName(context.Background(), domain.SourceTypeRSS, srv.URL)

	assert.Error(t, err)
}
