package recordstore

import (
	"context"
	"testing"
)

func seedQueryFixture(t *testing.T, s *Store) {
	t.Helper()
	mustPut(t, s, TableTasks, Record{"id": "task-1", "title": "Design pressure module", "status": "completed", "position": 1, "due_date": "2026-01-20"})
	mustPut(t, s, TableTasks, Record{"id": "task-2", "title": "Flow diagram generator", "status": "in_progress", "position": 2, "due_date": "2026-02-05"})
	mustPut(t, s, TableTasks, Record{"id": "task-3", "title": "documentation review", "status": "todo", "position": 3})
}

func TestQueryEq(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Query(context.Background(), TableTasks, Eq("status", "todo"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-3" {
		t.Fatalf("got %v", recs)
	}
}

func TestQueryEqNumeric(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	// Stored positions decode as float64; an int filter value must still hit.
	recs, err := s.Query(context.Background(), TableTasks, Eq("position", 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-2" {
		t.Fatalf("got %v", recs)
	}
}

func TestQueryLike(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)
	ctx := context.Background()

	// Case-insensitive, '%' wildcards.
	recs, err := s.Query(ctx, TableTasks, Like("title", "%DESIGN%"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-1" {
		t.Fatalf("got %v", recs)
	}

	// Anchored: no wildcard means the whole value must match.
	recs, err = s.Query(ctx, TableTasks, Like("title", "Design"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("unanchored match: %v", recs)
	}

	// Regex metacharacters in the pattern are literal.
	recs, err = s.Query(ctx, TableTasks, Like("title", "%.*%"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("metacharacters leaked into regex: %v", recs)
	}
}

func TestQueryEqPercentActsAsLike(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Query(context.Background(), TableTasks, Eq("title", "%review%"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-3" {
		t.Fatalf("got %v", recs)
	}
}

func TestQueryAbsentFieldNeverMatches(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)
	ctx := context.Background()

	// task-3 has no due_date; it must not match any predicate on it.
	recs, err := s.Query(ctx, TableTasks, Like("due_date", "%"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	recs, err = s.Query(ctx, TableTasks, Lte("due_date", "2026-12-31"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
}

func TestQueryRange(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Query(context.Background(), TableTasks,
		Gte("due_date", "2026-02-01"),
		Lte("due_date", "2026-02-28"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-2" {
		t.Fatalf("got %v", recs)
	}
}

func TestQueryFiltersAnd(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Query(context.Background(), TableTasks,
		Eq("status", "completed"),
		Like("title", "%flow%"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("AND semantics violated: %v", recs)
	}
}
