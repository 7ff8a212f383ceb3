package bolt

import (
	"context"
	"testing"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/repository"
)

func TestProjectCreateDefaults(t *testing.T) {
	store := newTestStore(t)
	repo := NewProjectRepository(store, nil)
	ctx := context.Background()

	project, err := repo.Create(ctx, repository.ProjectCreate{Title: "new build"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.Status != domain.ProjectDraft {
		t.Fatalf("status = %q, want draft", project.Status)
	}
	if project.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %q, want medium", project.Priority)
	}

	if _, err := repo.Create(ctx, repository.ProjectCreate{}); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := repo.Create(ctx, repository.ProjectCreate{Title: "x", Status: "bogus"}); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestProjectUpdateAndDelete(t *testing.T) {
	store := newTestStore(t)
	repo := NewProjectRepository(store, nil)
	ctx := context.Background()

	project, err := repo.Create(ctx, repository.ProjectCreate{Title: "iterate"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := repo.Update(ctx, project.ID, repository.ProjectPatch{
		Status:   ptr(domain.ProjectOngoing),
		Progress: ptr(40),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.ProjectOngoing || updated.Progress != 40 {
		t.Fatalf("patch not applied: %+v", updated)
	}

	if err := repo.Delete(ctx, project.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, project.ID); err != domain.ErrProjectNotFound {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}
