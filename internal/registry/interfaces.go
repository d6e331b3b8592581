package registry

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"content_ingest/internal/domain"
)

type SourceStore interface {
	Insert(ctx context.Context, src *domain.Source) error
	GetByOwner(ctx context.Context, id, ownerID string) (*domain.Source, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Source, error)
	UpdateFields(ctx context.Context, id, ownerID string, patch domain.SourcePatch) (*domain.Source, error)
	Delete(ctx context.Context, id, ownerID string) error
	ApplyHealth(ctx context.Context, id string, upd domain.HealthUpdate) error
	SelectDue(ctx context.Context, now time.Time, limit int) ([]domain.Source, error)
}

// NameSuggester proposes a display name for an endpoint, e.g. the feed
// title of an RSS URL. Used when the owner creates a source without a name.
type NameSuggester interface {
	SuggestName(ctx context.Context, t domain.SourceType, endpoint string) (string, error)
}
