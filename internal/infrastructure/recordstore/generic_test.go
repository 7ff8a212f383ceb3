package recordstore

import (
	"context"
	"regexp"
	"testing"
)

func TestGenerateID(t *testing.T) {
	format := regexp.MustCompile(`^\d+-[0-9a-f]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if !format.MatchString(id) {
			t.Fatalf("unexpected id format: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = true
	}
}

func TestUpdateMerges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustPut(t, s, TableTasks, Record{"id": "task-1", "title": "old", "status": "todo", "position": 1})

	err := s.Update(ctx, TableTasks, "task-1", Record{"title": "new"})
	if err != nil {
		t.Fatal(err)
	}

	rec, err := s.Get(ctx, TableTasks, "task-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec["title"] != "new" {
		t.Fatalf("title = %v", rec["title"])
	}
	// Untouched fields survive the merge.
	if rec["status"] != "todo" || rec["position"] != float64(1) {
		t.Fatalf("merge lost fields: %v", rec)
	}
}

func TestUpdateNilDeletesField(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustPut(t, s, TableTasks, Record{"id": "task-1", "status": "completed", "completed_at": "2026-02-01T00:00:00Z"})

	err := s.Update(ctx, TableTasks, "task-1", Record{"status": "todo", "completed_at": nil})
	if err != nil {
		t.Fatal(err)
	}

	rec, err := s.Get(ctx, TableTasks, "task-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, present := rec["completed_at"]; present {
		t.Fatalf("completed_at still present: %v", rec)
	}
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Update(ctx, TableTasks, "ghost", Record{"title": "x"}); err != nil {
		t.Fatalf("Update missing id: %v", err)
	}

	rec, err := s.Get(ctx, TableTasks, "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("update created a record: %v", rec)
	}
}

func TestUpdateCannotChangeID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustPut(t, s, TableTasks, Record{"id": "task-1", "title": "a"})

	if err := s.Update(ctx, TableTasks, "task-1", Record{"id": "task-2"}); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Get(ctx, TableTasks, "task-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec["id"] != "task-1" {
		t.Fatalf("id drifted: %v", rec)
	}
}
