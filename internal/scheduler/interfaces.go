package scheduler

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"content_ingest/internal/domain"
)

// SourceCatalog is the slice of the registry the scheduler consumes: the
// due set, the health writeback and the lookup behind on-demand checks.
type SourceCatalog interface {
	SelectDue(ctx context.Context, now time.Time, limit int) ([]domain.Source, error)
	SetHealth(ctx context.Context, id string, upd domain.HealthUpdate) error
	Get(ctx context.Context, id, ownerID string) (*domain.Source, error)
}

type Prober interface {
	Probe(ctx context.Context, src *domain.Source) domain.HealthResult
}

type Fetcher interface {
	Fetch(ctx context.Context, src *domain.Source) domain.FetchResult
}

type ContentStore interface {
	SaveBatch(ctx context.Context, items []domain.ContentItem) (int, error)
}

// Pipeline is the draft pipeline's ingestion boundary. Everything past
// enqueue is an external collaborator.
type Pipeline interface {
	Ingest(ctx context.Context, sourceID, ownerID string, items []domain.ContentItem) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
