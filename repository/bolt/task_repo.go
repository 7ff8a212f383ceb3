package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository"
)

type taskRepository struct {
	store *recordstore.Store
	// actorID attributes activity-log entries. When empty, the first user
	// row is used, falling back to "system". Single-user placeholder, not
	// real multi-user attribution.
	actorID string
	logger  *zap.Logger
}

// NewTaskRepository returns a record-store-backed TaskRepository.
func NewTaskRepository(store *recordstore.Store, actorID string, logger *zap.Logger) repository.TaskRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskRepository{store: store, actorID: actorID, logger: logger}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	rec, err := r.store.FindByID(ctx, recordstore.TableTasks, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := decodeInto(rec, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var filters []recordstore.Filter
	if filter.ProjectID != "" {
		filters = append(filters, recordstore.Eq("project_id", filter.ProjectID))
	}
	if filter.Status != "" {
		filters = append(filters, recordstore.Eq("status", string(filter.Status)))
	}
	if filter.Priority != "" {
		filters = append(filters, recordstore.Eq("priority", string(filter.Priority)))
	}
	if filter.AssigneeID != "" {
		filters = append(filters, recordstore.Eq("assignee_id", filter.AssigneeID))
	}
	if filter.DueBefore != "" {
		filters = append(filters, recordstore.Lte("due_date", filter.DueBefore))
	}
	if filter.DueAfter != "" {
		filters = append(filters, recordstore.Gte("due_date", filter.DueAfter))
	}

	records, err := r.store.FindAll(ctx, recordstore.TableTasks, filters...)
	if err != nil {
		return nil, err
	}

	var tasks []domain.Task
	for _, rec := range records {
		var task domain.Task
		if err := decodeInto(rec, &task); err != nil {
			return nil, err
		}
		if filter.Search != "" && !matchesSearch(filter.Search, task.Title, task.Description) {
			continue
		}
		tasks = append(tasks, task)
	}

	// Manual position first, newest creation breaking ties.
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, create repository.TaskCreate) (*domain.Task, error) {
	if create.Title == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "task title is required", nil)
	}
	if create.Status == "" {
		create.Status = domain.StatusTodo
	}
	if create.Priority == "" {
		create.Priority = domain.PriorityMedium
	}
	if !create.Status.Valid() {
		return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid task status %q", create.Status), nil)
	}
	if !create.Priority.Valid() {
		return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid task priority %q", create.Priority), nil)
	}

	now := nowUTC()
	task := domain.Task{
		ID:             recordstore.GenerateID(),
		ProjectID:      create.ProjectID,
		Title:          create.Title,
		Description:    create.Description,
		Status:         create.Status,
		Priority:       create.Priority,
		AssigneeID:     create.AssigneeID,
		DueDate:        create.DueDate,
		EstimatedHours: create.EstimatedHours,
		Position:       create.Position,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	rec, err := toRecord(task)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, recordstore.TableTasks, rec); err != nil {
		return nil, err
	}
	r.logActivity(ctx, domain.ActionTaskCreated, task.ID, map[string]any{"title": task.Title})
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	partial := recordstore.Record{}
	if patch.ProjectID != nil {
		partial["project_id"] = *patch.ProjectID
	}
	if patch.Title != nil {
		partial["title"] = *patch.Title
	}
	if patch.Description != nil {
		partial["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid task status %q", *patch.Status), nil)
		}
		partial["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid task priority %q", *patch.Priority), nil)
		}
		partial["priority"] = string(*patch.Priority)
	}
	if patch.AssigneeID != nil {
		partial["assignee_id"] = *patch.AssigneeID
	}
	if patch.DueDate != nil {
		partial["due_date"] = *patch.DueDate
	}
	if patch.EstimatedHours != nil {
		partial["estimated_hours"] = *patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		partial["actual_hours"] = *patch.ActualHours
	}
	if patch.Position != nil {
		partial["position"] = *patch.Position
	}
	return r.applyUpdate(ctx, id, partial)
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid task status %q", status), nil)
	}
	partial := recordstore.Record{"status": string(status)}
	if status == domain.StatusCompleted {
		partial["completed_at"] = nowUTC().Format(time.RFC3339)
	} else {
		partial["completed_at"] = nil
	}
	return r.applyUpdate(ctx, id, partial)
}

// applyUpdate merges partial over the stored task, refreshes updated_at and
// appends the audit entry. Raises ErrTaskNotFound when the id is missing,
// surfacing logic errors instead of silently returning nothing.
func (r *taskRepository) applyUpdate(ctx context.Context, id string, partial recordstore.Record) (*domain.Task, error) {
	partial["updated_at"] = nowUTC().Format(time.RFC3339)
	if err := r.store.Update(ctx, recordstore.TableTasks, id, partial); err != nil {
		return nil, err
	}
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.logActivity(ctx, domain.ActionTaskUpdated, id, map[string]any{
		"title":  task.Title,
		"status": string(task.Status),
	})
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	rec, err := r.store.FindByID(ctx, recordstore.TableTasks, id)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, recordstore.TableTasks, id); err != nil {
		return err
	}
	if rec != nil {
		title, _ := rec["title"].(string)
		r.logActivity(ctx, domain.ActionTaskDeleted, id, map[string]any{"title": title})
	}
	return r.store.Save(ctx)
}

func (r *taskRepository) Stats(ctx context.Context, filter repository.TaskFilter) (*domain.TaskStats, error) {
	tasks, err := r.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &domain.TaskStats{
		Total:      len(tasks),
		ByStatus:   make(map[domain.TaskStatus]int, len(domain.TaskStatuses)),
		ByPriority: make(map[domain.TaskPriority]int, len(domain.TaskPriorities)),
	}
	for _, s := range domain.TaskStatuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range domain.TaskPriorities {
		stats.ByPriority[p] = 0
	}

	now := nowUTC()
	weekAgo := now.AddDate(0, 0, -7)
	for _, task := range tasks {
		stats.ByStatus[task.Status]++
		stats.ByPriority[task.Priority]++
		stats.TotalEstimated += task.EstimatedHours
		stats.TotalActual += task.ActualHours

		if task.Status == domain.StatusCompleted && task.CompletedAt != nil && task.CompletedAt.After(weekAgo) {
			stats.CompletedThisWeek++
		}
		if task.Status != domain.StatusCompleted && task.DueDate != "" {
			if due, ok := parseDueDate(task.DueDate); ok && due.Before(now) {
				stats.Overdue++
			}
		}
	}
	return stats, nil
}

func (r *taskRepository) logActivity(ctx context.Context, action, entityID string, details map[string]any) {
	userID := r.actorID
	if userID == "" {
		if users, err := r.store.GetAll(ctx, recordstore.TableUsers); err == nil && len(users) > 0 {
			userID, _ = users[0]["id"].(string)
		}
	}
	if userID == "" {
		userID = "system"
	}

	payload, _ := json.Marshal(details)
	entry := domain.ActivityLogEntry{
		ID:         recordstore.GenerateID(),
		UserID:     userID,
		Action:     action,
		EntityType: "task",
		EntityID:   entityID,
		Details:    string(payload),
		Timestamp:  nowUTC(),
	}
	rec, err := toRecord(entry)
	if err == nil {
		err = r.store.Insert(ctx, recordstore.TableActivityLog, rec)
	}
	if err != nil {
		// The audit append is a separate, non-atomic write; losing it must
		// not fail the task mutation it trails.
		r.logger.Warn("activity log append failed",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

// parseDueDate accepts both plain dates and full RFC3339 timestamps.
func parseDueDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func matchesSearch(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
