package recordstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a millisecond timestamp joined to a short random
// suffix. Unique enough for a single-writer local store; not collision-proof
// across concurrent processes.
func GenerateID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// FindByID returns the record with the given id, or nil when absent.
func (s *Store) FindByID(ctx context.Context, table, id string) (Record, error) {
	return s.Get(ctx, table, id)
}

// FindAll returns the records matching the filters, the whole table when
// none are given.
func (s *Store) FindAll(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	return s.Query(ctx, table, filters...)
}

// Insert writes the record as-is. Unlike Update it performs no merge; an
// existing record with the same id is replaced.
func (s *Store) Insert(ctx context.Context, table string, rec Record) error {
	return s.Put(ctx, table, rec)
}

// Update shallow-merges partial over the stored record and writes the
// result back. Updating a missing id is a silent no-op: nothing is created
// and no error is returned.
func (s *Store) Update(ctx context.Context, table, id string, partial Record) error {
	existing, err := s.Get(ctx, table, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	for k, v := range partial {
		if v == nil {
			delete(existing, k)
			continue
		}
		existing[k] = v
	}
	existing["id"] = id
	return s.Put(ctx, table, existing)
}

// Save is a no-op kept for interface symmetry with a transactional backend;
// every mutating call above is already durable when it returns.
func (s *Store) Save(ctx context.Context) error {
	return ctx.Err()
}
