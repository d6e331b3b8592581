package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"content_ingest/internal/domain"
)

type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// SaveBatch inserts fetched items, ignoring ones already present for the
// same (source_id, external_id). The cursor is the primary duplicate
// guard; the conflict clause just makes crash-and-retry redelivery safe.
// Returns the number of rows actually inserted.
func (s *ContentStore) SaveBatch(ctx context.Context, items []domain.ContentItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO source_content
		(source_id, external_id, title, body, url, author, published_at, fetched_at) VALUES `)

	args := make([]interface{}, 0, len(items)*8)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < 8; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*8 + j + 1))
		}
		sb.WriteString(")")
		args = append(args,
			item.SourceID,
			item.ExternalID,
			item.Title,
			item.Body,
			item.URL,
			item.Author,
			item.PublishedAt,
			item.FetchedAt,
		)
	}
	sb.WriteString(" ON CONFLICT (source_id, external_id) DO NOTHING")

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// ListBySource returns the most recently published items for a source.
// Backs the owner-facing fetch history view served by the HTTP layer;
// nothing in this binary reads it.
func (s *ContentStore) ListBySource(ctx context.Context, sourceID string, limit int) ([]domain.ContentItem, error) {
	query := `
		SELECT source_id, external_id, title, body, url, author, published_at, fetched_at
		FROM source_content
		WHERE source_id = $1
		ORDER BY published_at DESC
		LIMIT $2`

	var items []domain.ContentItem
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &items, query, sourceID, limit)
	return items, err
}
