package bolt

import (
	"context"
	"testing"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository"
)

func TestTaskCreateDefaults(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	task, err := repo.Create(ctx, repository.TaskCreate{Title: "write report"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != domain.StatusTodo {
		t.Fatalf("status = %q, want todo", task.Status)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %q, want medium", task.Priority)
	}
	if task.ID == "" || task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatalf("identity or timestamps missing: %+v", task)
	}

	got, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "write report" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	if _, err := repo.Create(ctx, repository.TaskCreate{}); err == nil {
		t.Fatal("expected error for missing title")
	}
	_, err := repo.Create(ctx, repository.TaskCreate{Title: "x", Status: "bogus"})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("wrong error for invalid status: %v", err)
	}
}

func TestTaskGetMissing(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "", nil)

	_, err := repo.GetByID(context.Background(), "ghost")
	if err != domain.ErrTaskNotFound {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskUpdateStatusCompletedAt(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	task, err := repo.Create(ctx, repository.TaskCreate{Title: "finish drawing"})
	if err != nil {
		t.Fatal(err)
	}

	task, err = repo.UpdateStatus(ctx, task.ID, domain.StatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if task.CompletedAt == nil {
		t.Fatal("completed_at not set on completion")
	}

	// Moving away from completed clears the stamp.
	task, err = repo.UpdateStatus(ctx, task.ID, domain.StatusInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if task.CompletedAt != nil {
		t.Fatalf("completed_at survived revert: %v", task.CompletedAt)
	}
}

func TestTaskUpdatePatch(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	task, err := repo.Create(ctx, repository.TaskCreate{Title: "old", EstimatedHours: 4})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := repo.Update(ctx, task.ID, repository.TaskPatch{
		Title:    ptr("new"),
		Priority: ptr(domain.PriorityUrgent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "new" || updated.Priority != domain.PriorityUrgent {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.EstimatedHours != 4 {
		t.Fatalf("untouched field changed: %v", updated.EstimatedHours)
	}

	if _, err := repo.Update(ctx, "ghost", repository.TaskPatch{Title: ptr("x")}); err != domain.ErrTaskNotFound {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskListFilterAndSort(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	mk := func(title string, projectID string, status domain.TaskStatus, position int) {
		t.Helper()
		_, err := repo.Create(ctx, repository.TaskCreate{
			Title: title, ProjectID: projectID, Status: status, Position: position,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	mk("third", "proj-1", domain.StatusTodo, 3)
	mk("first", "proj-1", domain.StatusInProgress, 1)
	mk("second", "proj-1", domain.StatusTodo, 2)
	mk("other project", "proj-2", domain.StatusTodo, 0)

	tasks, err := repo.List(ctx, repository.TaskFilter{ProjectID: "proj-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	for i, want := range []string{"first", "second", "third"} {
		if tasks[i].Title != want {
			t.Fatalf("position order broken: tasks[%d] = %q, want %q", i, tasks[i].Title, want)
		}
	}

	tasks, err = repo.List(ctx, repository.TaskFilter{ProjectID: "proj-1", Status: domain.StatusTodo})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("status filter: got %d, want 2", len(tasks))
	}

	tasks, err = repo.List(ctx, repository.TaskFilter{Search: "OTHER"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "other project" {
		t.Fatalf("search filter: %v", tasks)
	}
}

func TestTaskDelete(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	task, err := repo.Create(ctx, repository.TaskCreate{Title: "gone soon"})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, task.ID); err != domain.ErrTaskNotFound {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
	// Deleting a missing task is silent.
	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestTaskStats(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	mk := func(title string, status domain.TaskStatus, priority domain.TaskPriority, due string, est float64) string {
		t.Helper()
		task, err := repo.Create(ctx, repository.TaskCreate{
			Title: title, Status: status, Priority: priority, DueDate: due, EstimatedHours: est,
		})
		if err != nil {
			t.Fatal(err)
		}
		return task.ID
	}

	mk("open", domain.StatusTodo, domain.PriorityLow, "2190-01-01", 2)
	mk("running late", domain.StatusInProgress, domain.PriorityHigh, "2020-01-01", 4)
	mk("abandoned", domain.StatusCancelled, domain.PriorityLow, "", 1)
	done1 := mk("shipped", domain.StatusInProgress, domain.PriorityMedium, "", 3)
	done2 := mk("also shipped", domain.StatusInProgress, domain.PriorityMedium, "2020-01-01", 5)
	for _, id := range []string{done1, done2} {
		if _, err := repo.UpdateStatus(ctx, id, domain.StatusCompleted); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := repo.Stats(ctx, repository.TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 5 {
		t.Fatalf("total = %d, want 5", stats.Total)
	}
	wantStatus := map[domain.TaskStatus]int{
		domain.StatusTodo:       1,
		domain.StatusInProgress: 1,
		domain.StatusReview:     0,
		domain.StatusCompleted:  2,
		domain.StatusCancelled:  1,
	}
	for status, want := range wantStatus {
		if stats.ByStatus[status] != want {
			t.Fatalf("ByStatus[%s] = %d, want %d", status, stats.ByStatus[status], want)
		}
	}
	// Every bucket exists even when empty.
	if _, ok := stats.ByPriority[domain.PriorityUrgent]; !ok {
		t.Fatal("ByPriority missing urgent bucket")
	}
	if stats.TotalEstimated != 15 {
		t.Fatalf("TotalEstimated = %v, want 15", stats.TotalEstimated)
	}
	// Overdue counts past-due, non-completed tasks only: "running late".
	if stats.Overdue != 1 {
		t.Fatalf("Overdue = %d, want 1", stats.Overdue)
	}
	if stats.CompletedThisWeek != 2 {
		t.Fatalf("CompletedThisWeek = %d, want 2", stats.CompletedThisWeek)
	}
}

func TestTaskMutationsAppendActivity(t *testing.T) {
	store := newTestStore(t)
	repo := NewTaskRepository(store, "user-1", nil)
	ctx := context.Background()

	task, err := repo.Create(ctx, repository.TaskCreate{Title: "audited"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.UpdateStatus(ctx, task.ID, domain.StatusInProgress); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatal(err)
	}

	recs, err := store.GetAll(ctx, recordstore.TableActivityLog)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d activity entries, want 3", len(recs))
	}
	actions := make(map[string]bool)
	for _, rec := range recs {
		action, _ := rec["action"].(string)
		actions[action] = true
		if uid, _ := rec["user_id"].(string); uid != "user-1" {
			t.Fatalf("activity user = %q, want user-1", uid)
		}
	}
	for _, want := range []string{domain.ActionTaskCreated, domain.ActionTaskUpdated, domain.ActionTaskDeleted} {
		if !actions[want] {
			t.Fatalf("missing activity action %q", want)
		}
	}
}
