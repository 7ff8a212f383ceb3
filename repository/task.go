package repository

import (
	"context"

	"github.com/cadwork/worklog/domain"
)

// TaskFilter narrows List and Stats. Zero-valued fields are ignored; all
// set fields AND together. Search matches title or description as a
// case-insensitive substring. DueBefore/DueAfter compare against the
// task's due_date (inclusive).
type TaskFilter struct {
	ProjectID  string
	Status     domain.TaskStatus
	Priority   domain.TaskPriority
	AssigneeID string
	Search     string
	DueBefore  string
	DueAfter   string
}

// TaskCreate carries the caller-supplied fields of a new task. ID and
// lifecycle timestamps are assigned by the repository.
type TaskCreate struct {
	ProjectID      string
	Title          string
	Description    string
	Status         domain.TaskStatus
	Priority       domain.TaskPriority
	AssigneeID     string
	DueDate        string
	EstimatedHours float64
	Position       int
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	ProjectID      *string
	Title          *string
	Description    *string
	Status         *domain.TaskStatus
	Priority       *domain.TaskPriority
	AssigneeID     *string
	DueDate        *string
	EstimatedHours *float64
	ActualHours    *float64
	Position       *int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, create TaskCreate) (*domain.Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, filter TaskFilter) (*domain.TaskStats, error)
}
