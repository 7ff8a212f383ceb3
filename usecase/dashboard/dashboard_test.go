package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository/bolt"
)

func TestBuildReport(t *testing.T) {
	store, err := recordstore.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if _, err := bolt.Seed(ctx, store, nil); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	users := bolt.NewUserRepository(store, "", nil)
	tasks := bolt.NewTaskRepository(store, bolt.DefaultUserID, nil)
	entries := bolt.NewTimeEntryRepository(store, nil)
	uc := New(users, tasks, entries, nil)

	report, err := uc.Build(ctx, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.User == nil || report.User.ID != bolt.DefaultUserID {
		t.Fatalf("user = %+v", report.User)
	}
	// All seeded tasks are assigned to the default user.
	if report.Tasks == nil || report.Tasks.Total != 7 {
		t.Fatalf("tasks = %+v", report.Tasks)
	}
	if report.Time == nil {
		t.Fatal("time summary missing")
	}
	if report.ActiveEntry != nil {
		t.Fatalf("unexpected active entry: %+v", report.ActiveEntry)
	}

	// An entry opened through the repo shows up on the next build.
	if _, err := entries.Start(ctx, bolt.DefaultUserID, "task-2", ""); err != nil {
		t.Fatal(err)
	}
	report, err = uc.Build(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if report.ActiveEntry == nil {
		t.Fatal("active entry not reported")
	}
}
