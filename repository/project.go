package repository

import (
	"context"

	"github.com/cadwork/worklog/domain"
)

// ProjectCreate carries the caller-supplied fields of a new project.
type ProjectCreate struct {
	Title       string
	Description string
	Status      domain.ProjectStatus
	Priority    domain.TaskPriority
	StartDate   string
	DueDate     string
	Progress    int
}

// ProjectPatch is a partial update; nil fields are left untouched.
type ProjectPatch struct {
	Title       *string
	Description *string
	Status      *domain.ProjectStatus
	Priority    *domain.TaskPriority
	StartDate   *string
	DueDate     *string
	Progress    *int
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, create ProjectCreate) (*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
