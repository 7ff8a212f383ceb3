package repository

import (
	"context"
	"time"

	"github.com/cadwork/worklog/domain"
)

// TimeEntryCreate carries the caller-supplied fields of a new entry.
// Duration is derived: nil until EndTime is known.
type TimeEntryCreate struct {
	TaskID      string
	UserID      string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Billable    bool
}

// TimeEntryPatch is a partial update; nil fields are left untouched. When
// a patch carries both StartTime and EndTime the duration is recomputed.
type TimeEntryPatch struct {
	TaskID      *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Billable    *bool
}

type TimeEntryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	// List returns every entry, or a single user's when userID is set,
	// newest start first.
	List(ctx context.Context, userID string) ([]domain.TimeEntry, error)
	Create(ctx context.Context, create TimeEntryCreate) (*domain.TimeEntry, error)
	Update(ctx context.Context, id string, patch TimeEntryPatch) (*domain.TimeEntry, error)
	Delete(ctx context.Context, id string) error

	// Active returns the user's open entry (nil when none): the most
	// recently started entry with no end time.
	Active(ctx context.Context, userID string) (*domain.TimeEntry, error)
	// Start opens a new entry, auto-stopping any entry currently open for
	// the user so at most one open entry per user exists.
	Start(ctx context.Context, userID, taskID, description string) (*domain.TimeEntry, error)
	// Stop closes the entry now and records its duration.
	Stop(ctx context.Context, id string) (*domain.TimeEntry, error)

	ListByTask(ctx context.Context, taskID string) ([]domain.TimeEntry, error)
	ListByRange(ctx context.Context, userID string, from, to time.Time) ([]domain.TimeEntry, error)
	ListToday(ctx context.Context, userID string) ([]domain.TimeEntry, error)
	Summary(ctx context.Context, userID string, days int) (*domain.TimeSummary, error)

	// UpdateTaskActualHours recomputes a task's actual_hours from the sum
	// of its entries' durations and persists it onto the task record. The
	// one cross-entity write in the system; callers invoke it explicitly
	// after entries change.
	UpdateTaskActualHours(ctx context.Context, taskID string) error
}
