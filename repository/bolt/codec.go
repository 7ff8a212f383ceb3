// Package bolt implements the repository interfaces on top of the embedded
// record store.
package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
)

// toRecord converts a domain value into its stored record form through its
// JSON encoding, so struct tags define the storage field names.
func toRecord(v any) (recordstore.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec recordstore.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// decodeInto converts a stored record back into a domain value.
func decodeInto(rec recordstore.Record, dst any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// nowUTC returns the current wall clock truncated to whole seconds, the
// resolution every timestamp in the store uses.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// normalizeTime brings caller-supplied timestamps to stored resolution.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
