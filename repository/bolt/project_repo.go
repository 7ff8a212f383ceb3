package bolt

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository"
)

type projectRepository struct {
	store  *recordstore.Store
	logger *zap.Logger
}

// NewProjectRepository returns a record-store-backed ProjectRepository.
func NewProjectRepository(store *recordstore.Store, logger *zap.Logger) repository.ProjectRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &projectRepository{store: store, logger: logger}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	rec, err := r.store.FindByID(ctx, recordstore.TableProjects, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrProjectNotFound
	}
	var project domain.Project
	if err := decodeInto(rec, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	records, err := r.store.GetAll(ctx, recordstore.TableProjects)
	if err != nil {
		return nil, err
	}
	var projects []domain.Project
	for _, rec := range records {
		var p domain.Project
		if err := decodeInto(rec, &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, create repository.ProjectCreate) (*domain.Project, error) {
	if create.Title == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "project title is required", nil)
	}
	if create.Status == "" {
		create.Status = domain.ProjectDraft
	}
	if !create.Status.Valid() {
		return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid project status %q", create.Status), nil)
	}
	if create.Priority == "" {
		create.Priority = domain.PriorityMedium
	}
	if !create.Priority.Valid() {
		return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid project priority %q", create.Priority), nil)
	}

	now := nowUTC()
	project := domain.Project{
		ID:          recordstore.GenerateID(),
		Title:       create.Title,
		Description: create.Description,
		Status:      create.Status,
		Priority:    create.Priority,
		StartDate:   create.StartDate,
		DueDate:     create.DueDate,
		Progress:    create.Progress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec, err := toRecord(project)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, recordstore.TableProjects, rec); err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, id string, patch repository.ProjectPatch) (*domain.Project, error) {
	partial := recordstore.Record{}
	if patch.Title != nil {
		partial["title"] = *patch.Title
	}
	if patch.Description != nil {
		partial["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid project status %q", *patch.Status), nil)
		}
		partial["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid project priority %q", *patch.Priority), nil)
		}
		partial["priority"] = string(*patch.Priority)
	}
	if patch.StartDate != nil {
		partial["start_date"] = *patch.StartDate
	}
	if patch.DueDate != nil {
		partial["due_date"] = *patch.DueDate
	}
	if patch.Progress != nil {
		partial["progress"] = *patch.Progress
	}
	partial["updated_at"] = nowUTC().Format(time.RFC3339)

	if err := r.store.Update(ctx, recordstore.TableProjects, id, partial); err != nil {
		return nil, err
	}
	project, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, recordstore.TableProjects, id); err != nil {
		return err
	}
	return r.store.Save(ctx)
}
