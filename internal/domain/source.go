package domain

import "time"

// SourceType identifies the kind of external content origin.
type SourceType string

const (
	SourceTypeRSS    SourceType = "rss"
	SourceTypeSocial SourceType = "social_handle"
)

// Known reports whether t is one of the supported source types.
func (t SourceType) Known() bool {
	switch t {
	case SourceTypeRSS, SourceTypeSocial:
		return true
	}
	return false
}

// HealthStatus classifies a source's recent reachability.
type HealthStatus string

const (
	StatusUnknown     HealthStatus = "unknown"
	StatusHealthy     HealthStatus = "healthy"
	StatusDegraded    HealthStatus = "degraded"
	StatusUnreachable HealthStatus = "unreachable"
)

// Source is a tracked content origin owned by a user.
//
// Health and cursor fields are written only by the scheduler; name and
// active are written only by the owner. The two sets are updated with
// independent partial updates so neither side can clobber the other.
type Source struct {
	ID                  string       `db:"id"`
	OwnerID             string       `db:"owner_id"`
	Type                SourceType   `db:"type"`
	Endpoint            string       `db:"endpoint"`
	Name                string       `db:"name"`
	Active              bool         `db:"active"`
	Status              HealthStatus `db:"status"`
	LastCheckedAt       *time.Time   `db:"last_checked_at"`
	LastSuccessAt       *time.Time   `db:"last_success_at"`
	ConsecutiveFailures int          `db:"consecutive_failures"`
	LastError           *string      `db:"last_error"`
	LastFetchedAt       *time.Time   `db:"last_fetched_at"`
	FetchCursor         string       `db:"fetch_cursor"`
	NextDueAt           time.Time    `db:"next_due_at"`
	CreatedAt           time.Time    `db:"created_at"`
	UpdatedAt           *time.Time   `db:"updated_at"`
}

// SourcePatch holds the owner-editable fields. Nil fields are left
// untouched by the update.
type SourcePatch struct {
	Name   *string
	Active *bool
}

// HealthUpdate carries the scheduler-owned fields of one probe or fetch
// outcome. Cursor is advance-only: the store keeps whichever of the stored
// and submitted cursor is greater.
type HealthUpdate struct {
	Status              HealthStatus
	CheckedAt           time.Time
	SuccessAt           *time.Time
	ConsecutiveFailures int
	Error               *string
	FetchedAt           *time.Time
	Cursor              *string
	NextDueAt           time.Time
}

// SourceStatus is the read-only health projection exposed to owners.
type SourceStatus struct {
	Status              HealthStatus `json:"status"`
	LastCheckedAt       *time.Time   `json:"last_checked_at,omitempty"`
	LastSuccessAt       *time.Time   `json:"last_success_at,omitempty"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	LastError           *string      `json:"last_error,omitempty"`
}

// StatusOf projects the health sub-state of a source.
func StatusOf(s *Source) SourceStatus {
	return SourceStatus{
		Status:              s.Status,
		LastCheckedAt:       s.LastCheckedAt,
		LastSuccessAt:       s.LastSuccessAt,
		ConsecutiveFailures: s.ConsecutiveFailures,
		LastError:           s.LastError,
	}
}
