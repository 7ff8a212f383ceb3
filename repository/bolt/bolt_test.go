package bolt

import (
	"path/filepath"
	"testing"

	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
)

func newTestStore(t *testing.T) *recordstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := recordstore.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }
