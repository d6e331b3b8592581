package domain

import "time"

// ContentItem is one piece of fetched content: a feed entry or a post.
// ExternalID is unique per source; the fetch cursor guarantees the same
// (source, external id) pair is never emitted twice.
type ContentItem struct {
	SourceID    string    `db:"source_id" json:"source_id"`
	ExternalID  string    `db:"external_id" json:"external_id"`
	Title       string    `db:"title" json:"title"`
	Body        string    `db:"body" json:"body"`
	URL         string    `db:"url" json:"url"`
	Author      string    `db:"author" json:"author"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	FetchedAt   time.Time `db:"fetched_at" json:"fetched_at"`
}

// FetchOutcome classifies one fetch attempt.
type FetchOutcome string

const (
	OutcomeSuccess      FetchOutcome = "success"
	OutcomeNoNewContent FetchOutcome = "no_new_content"
	OutcomeFailure      FetchOutcome = "failure"
)

// FetchResult is the transient record of one fetch attempt. It is consumed
// by the scheduler to update source health and cursor, and on success with
// items forwarded to the draft pipeline. Never persisted on its own.
type FetchResult struct {
	SourceID string
	Outcome  FetchOutcome
	Items    []ContentItem
	Cursor   string
	Err      error
}

// HealthResult is the outcome of one reachability probe.
type HealthResult struct {
	Reachable bool
	Latency   time.Duration
	Err       error
}
