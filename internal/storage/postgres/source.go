package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"content_ingest/internal/domain"
)

const sourceColumns = `id, owner_id, type, endpoint, name, active, status,
	last_checked_at, last_success_at, consecutive_failures, last_error,
	last_fetched_at, fetch_cursor, next_due_at, created_at, updated_at`

type SourceStore struct {
	db *sqlx.DB
}

func NewSourceStore(db *sqlx.DB) *SourceStore {
	return &SourceStore{db: db}
}

func (s *SourceStore) Insert(ctx context.Context, src *domain.Source) error {
	query := `
		INSERT INTO sources (
			id, owner_id, type, endpoint, name, active, status,
			consecutive_failures, fetch_cursor, next_due_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		src.ID,
		src.OwnerID,
		src.Type,
		src.Endpoint,
		src.Name,
		src.Active,
		src.Status,
		src.ConsecutiveFailures,
		src.FetchCursor,
		src.NextDueAt,
		src.CreatedAt,
	)
	return err
}

func (s *SourceStore) GetByOwner(ctx context.Context, id, ownerID string) (*domain.Source, error) {
	var src domain.Source
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE id = $1 AND owner_id = $2`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &src, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *SourceStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE owner_id = $1 ORDER BY created_at`

	var sources []domain.Source
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &sources, query, ownerID)
	return sources, err
}

// UpdateFields applies the owner patch as a partial update; health and
// cursor columns are untouched so concurrent scheduler writes survive.
// Reactivating a source makes it due immediately.
func (s *SourceStore) UpdateFields(ctx context.Context, id, ownerID string, patch domain.SourcePatch) (*domain.Source, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}

	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, "name = $"+strconv.Itoa(len(args)))
	}
	if patch.Active != nil {
		args = append(args, *patch.Active)
		sets = append(sets, "active = $"+strconv.Itoa(len(args)))
		if *patch.Active {
			sets = append(sets, "next_due_at = NOW()")
		}
	}

	args = append(args, id)
	idArg := strconv.Itoa(len(args))
	args = append(args, ownerID)
	ownerArg := strconv.Itoa(len(args))

	query := fmt.Sprintf(
		`UPDATE sources SET %s WHERE id = $%s AND owner_id = $%s RETURNING %s`,
		strings.Join(sets, ", "), idArg, ownerArg, sourceColumns,
	)

	var src domain.Source
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &src, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *SourceStore) Delete(ctx context.Context, id, ownerID string) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM sources WHERE id = $1 AND owner_id = $2",
		id, ownerID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyHealth writes one probe/fetch outcome. Only scheduler-owned
// columns are touched, and the cursor can only move forward: both cursor
// encodings are fixed-width, so GREATEST keeps the larger marker.
func (s *SourceStore) ApplyHealth(ctx context.Context, id string, upd domain.HealthUpdate) error {
	query := `
		UPDATE sources SET
			status = $1,
			last_checked_at = $2,
			consecutive_failures = $3,
			last_error = $4,
			last_success_at = COALESCE($5, last_success_at),
			last_fetched_at = COALESCE($6, last_fetched_at),
			fetch_cursor = GREATEST(fetch_cursor, COALESCE($7, fetch_cursor)),
			next_due_at = $8,
			updated_at = NOW()
		WHERE id = $9`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		upd.Status,
		upd.CheckedAt,
		upd.ConsecutiveFailures,
		upd.Error,
		upd.SuccessAt,
		upd.FetchedAt,
		upd.Cursor,
		upd.NextDueAt,
		id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SelectDue returns active sources whose next-due time has elapsed,
// oldest due first. The partial index on (next_due_at) WHERE active keeps
// the scan proportional to the due set.
func (s *SourceStore) SelectDue(ctx context.Context, now time.Time, limit int) ([]domain.Source, error) {
	query := `SELECT ` + sourceColumns + `
		FROM sources
		WHERE active AND next_due_at <= $1
		ORDER BY next_due_at
		LIMIT $2`

	var sources []domain.Source
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &sources, query, now, limit)
	return sources, err
}
