package recordstore

import (
	"context"
	"testing"

	"github.com/cadwork/worklog/domain"
)

func TestExecSelectAll(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Exec(context.Background(), "SELECT * FROM tasks")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
}

func TestExecWhere(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Exec(context.Background(), "SELECT * FROM tasks WHERE status = 'todo'")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-3" {
		t.Fatalf("got %v", recs)
	}
}

func TestExecPlaceholders(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Exec(context.Background(),
		"SELECT * FROM tasks WHERE status = ? AND position = ?", "in_progress", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-2" {
		t.Fatalf("got %v", recs)
	}
}

func TestExecCaseAndWhitespace(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	recs, err := s.Exec(context.Background(),
		"  select * from tasks  where  status = \"todo\"  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %v", recs)
	}
}

func TestExecInvalidQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		sql  string
	}{
		{"not a select", "DELETE FROM tasks"},
		{"column list", "SELECT id FROM tasks"},
		{"unknown table", "SELECT * FROM nope"},
		{"bad condition", "SELECT * FROM tasks WHERE status LIKE 'x'"},
		{"missing param", "SELECT * FROM tasks WHERE status = ?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Exec(ctx, tc.sql)
			if err == nil {
				t.Fatalf("expected error for %q", tc.sql)
			}
			if !domain.IsDomainError(err, domain.ErrCodeInvalidQuery) {
				t.Fatalf("wrong error kind: %v", err)
			}
		})
	}
}

func TestExecLikeThroughEquals(t *testing.T) {
	s := newTestStore(t)
	seedQueryFixture(t, s)

	// A '%' in the literal turns the equality into a pattern match.
	recs, err := s.Exec(context.Background(),
		"SELECT * FROM tasks WHERE title = '%diagram%'")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["id"] != "task-2" {
		t.Fatalf("got %v", recs)
	}
}
