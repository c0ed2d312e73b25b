package repository

import (
	"context"
	"database/sql"
	"time"

	"loopbot/internal/models"
)

// SnapshotStore holds the single latest telemetry snapshot. Replace must be
// atomic with respect to Current: a reader sees the wholly-old or wholly-new
// snapshot, never a mix.
type SnapshotStore interface {
	Replace(s models.LoopSnapshot)
	Current() (models.LoopSnapshot, time.Time, bool)
	TimeSinceUpdate() (time.Duration, bool)
}

// EventRepo is the append-only operational event log with filtering access.
type EventRepo interface {
	Append(ctx context.Context, e models.LoopEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.LoopEvent, error)
}

type Repository struct {
	Snapshots SnapshotStore
	Events    EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Snapshots: NewSnapshotStore(),
		Events:    NewEventSQLite(db),
	}
}
