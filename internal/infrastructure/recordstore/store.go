package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cadwork/worklog/domain"
)

const (
	metaBucket = "meta"
	versionKey = "schema_version"
	// indexSep separates the indexed value from the record id inside an
	// index bucket key. \x00 cannot appear in JSON string values.
	indexSep = "\x00"
)

// Record is a schemaless row keyed by its "id" field. Values are whatever
// JSON decoding produces: string, float64, bool, nil, nested maps/slices.
type Record = map[string]any

// Store is a per-table, key-addressed durable map with declared secondary
// indexes for equality lookups. One bbolt bucket per table holds id -> JSON;
// each index lives in its own bucket keyed by value\x00id.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store at path and provisions every table and
// index bucket at the current schema version. Repeated calls against the
// same file are idempotent.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorageUnavailable, "create store directory", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorageUnavailable, "open record store", err)
	}

	s := &Store{db: db}
	if err := s.provision(); err != nil {
		db.Close()
		return nil, domain.WrapError(domain.ErrCodeStorageUnavailable, "provision record store", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location of the underlying database file.
func (s *Store) Path() string {
	return s.db.Path()
}

func (s *Store) provision() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		for _, schema := range schemas {
			if _, err := tx.CreateBucketIfNotExists([]byte(schema.name)); err != nil {
				return fmt.Errorf("create table %q: %w", schema.name, err)
			}
			for _, idx := range schema.indexes {
				if _, err := tx.CreateBucketIfNotExists([]byte(indexBucketName(schema.name, idx))); err != nil {
					return fmt.Errorf("create index %s.%s: %w", schema.name, idx, err)
				}
			}
		}
		return meta.Put([]byte(versionKey), []byte(strconv.Itoa(schemaVersion)))
	})
}

// Reset destroys every table and index bucket and re-provisions the empty
// schema. Destructive; confirmation is the caller's responsibility.
func (s *Store) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		var names [][]byte
		if err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, append([]byte(nil), name...))
			return nil
		}); err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset record store: %w", err)
	}
	return s.provision()
}

// GetAll returns every record in the table in id order.
func (s *Store) GetAll(ctx context.Context, table string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := schemaFor(table); !ok {
		return nil, unknownTable(table)
	}
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(table)).ForEach(func(_, v []byte) error {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return records, nil
}

// Get returns the record with the given id, or nil when absent.
func (s *Store) Get(ctx context.Context, table, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := schemaFor(table); !ok {
		return nil, unknownTable(table)
	}
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(table)).Get([]byte(id))
		if v == nil {
			return nil
		}
		var err error
		rec, err = decodeRecord(v)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	return rec, nil
}

// Put upserts the record keyed by its "id" field, maintaining every declared
// index for the table inside the same write transaction.
func (s *Store) Put(ctx context.Context, table string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	schema, ok := schemaFor(table)
	if !ok {
		return unknownTable(table)
	}
	id, _ := rec["id"].(string)
	if id == "" {
		return domain.WrapError(domain.ErrCodeInvalid, "record has no id", nil)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", table, id, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(table))
		if old := bkt.Get([]byte(id)); old != nil {
			oldRec, err := decodeRecord(old)
			if err != nil {
				return err
			}
			if err := updateIndexes(tx, schema, id, oldRec, rec); err != nil {
				return err
			}
		} else if err := updateIndexes(tx, schema, id, nil, rec); err != nil {
			return err
		}
		return bkt.Put([]byte(id), payload)
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", table, id, err)
	}
	return nil
}

// Delete removes the record and its index entries. Deleting a missing id is
// not an error.
func (s *Store) Delete(ctx context.Context, table, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	schema, ok := schemaFor(table)
	if !ok {
		return unknownTable(table)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(table))
		old := bkt.Get([]byte(id))
		if old == nil {
			return nil
		}
		oldRec, err := decodeRecord(old)
		if err != nil {
			return err
		}
		if err := updateIndexes(tx, schema, id, oldRec, nil); err != nil {
			return err
		}
		return bkt.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	return nil
}

// GetAllByIndex returns every record whose indexed field exactly equals
// value. The index must be declared in the table schema.
func (s *Store) GetAllByIndex(ctx context.Context, table, index string, value any) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schema, ok := schemaFor(table)
	if !ok {
		return nil, unknownTable(table)
	}
	if !schema.hasIndex(index) {
		return nil, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("no index %q on table %q", index, table), nil)
	}
	key, ok := indexKeyValue(value)
	if !ok {
		return nil, nil
	}
	prefix := []byte(key + indexSep)

	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		tbl := tx.Bucket([]byte(table))
		c := tx.Bucket([]byte(indexBucketName(table, index))).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			id := string(k[len(prefix):])
			v := tbl.Get([]byte(id))
			if v == nil {
				continue
			}
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index scan %s.%s: %w", table, index, err)
	}
	return records, nil
}

func (ts tableSchema) hasIndex(name string) bool {
	for _, idx := range ts.indexes {
		if idx == name {
			return true
		}
	}
	return false
}

func indexBucketName(table, index string) string {
	return table + ".idx." + index
}

// updateIndexes removes stale entries for the previous record version and
// writes entries for the new one. Either side may be nil.
func updateIndexes(tx *bolt.Tx, schema tableSchema, id string, old, new Record) error {
	for _, idx := range schema.indexes {
		bkt := tx.Bucket([]byte(indexBucketName(schema.name, idx)))
		oldKey, oldOK := indexEntryKey(old, idx, id)
		newKey, newOK := indexEntryKey(new, idx, id)
		if oldOK && (!newOK || oldKey != newKey) {
			if err := bkt.Delete([]byte(oldKey)); err != nil {
				return err
			}
		}
		if newOK && (!oldOK || oldKey != newKey) {
			if err := bkt.Put([]byte(newKey), nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// indexEntryKey builds the index bucket key for a record. Records whose
// indexed field is absent or null have no index entry.
func indexEntryKey(rec Record, field, id string) (string, bool) {
	if rec == nil {
		return "", false
	}
	key, ok := indexKeyValue(rec[field])
	if !ok {
		return "", false
	}
	return key + indexSep + id, true
}

// indexKeyValue renders a field value into its index key form.
func indexKeyValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

func decodeRecord(v []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func unknownTable(table string) error {
	return domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("unknown table %q", table), nil)
}
