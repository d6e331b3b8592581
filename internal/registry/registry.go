package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"content_ingest/internal/domain"
)

// Service owns the catalog of tracked sources. Owner-facing operations are
// scoped to the requesting owner; health writes come only from the
// scheduler through SetHealth.
type Service struct {
	store  SourceStore
	names  NameSuggester
	logger *slog.Logger
}

func NewService(store SourceStore, names NameSuggester, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		names:  names,
		logger: logger,
	}
}

// Create validates and persists a new source. The source starts active,
// with unknown health and an immediate next-due time so the scheduler
// probes it on the following tick. An empty name is filled from the
// suggester when one is wired, falling back to the endpoint itself.
func (s *Service) Create(ctx context.Context, ownerID string, t domain.SourceType, endpoint, name string) (*domain.Source, error) {
	if !t.Known() {
		return nil, &domain.ConfigurationError{Type: string(t)}
	}

	normalized, err := ValidateEndpoint(t, endpoint)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = s.suggestName(ctx, t, normalized)
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	src := &domain.Source{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Type:      t,
		Endpoint:  normalized,
		Name:      name,
		Active:    true,
		Status:    domain.StatusUnknown,
		NextDueAt: now,
		CreatedAt: now,
	}

	if err := s.store.Insert(ctx, src); err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}

	s.logger.Info("source created",
		"source_id", src.ID,
		"type", src.Type,
		"endpoint", src.Endpoint,
	)

	return src, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (*domain.Source, error) {
	return s.store.GetByOwner(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Source, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Update applies an owner patch. Health and cursor fields are never
// touched here so a concurrent scheduler write cannot be lost.
func (s *Service) Update(ctx context.Context, id, ownerID string, patch domain.SourcePatch) (*domain.Source, error) {
	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateFields(ctx, id, ownerID, patch)
}

// Delete removes the source. Any in-flight probe or fetch is left to
// finish; its result is discarded when the health write finds no row.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.logger.Info("source deleted", "source_id", id)
	return nil
}

// Status returns the read-only health projection of a source.
func (s *Service) Status(ctx context.Context, id, ownerID string) (*domain.SourceStatus, error) {
	src, err := s.store.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	status := domain.StatusOf(src)
	return &status, nil
}

// SetHealth records a probe or fetch outcome. Internal: callers are the
// scheduler and the on-demand check path, never end users.
func (s *Service) SetHealth(ctx context.Context, id string, upd domain.HealthUpdate) error {
	return s.store.ApplyHealth(ctx, id, upd)
}

// SelectDue returns active sources whose next-due time has elapsed,
// oldest first.
func (s *Service) SelectDue(ctx context.Context, now time.Time, limit int) ([]domain.Source, error) {
	return s.store.SelectDue(ctx, now, limit)
}

func (s *Service) suggestName(ctx context.Context, t domain.SourceType, endpoint string) string {
	if s.names != nil {
		if name, err := s.names.SuggestName(ctx, t, endpoint); err == nil && name != "" {
			if len(name) > maxNameLength {
				name = name[:maxNameLength]
			}
			return name
		}
	}
	if len(endpoint) > maxNameLength {
		return endpoint[:maxNameLength]
	}
	return endpoint
}
