package recordstore

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Op is a filter predicate kind.
type Op int

const (
	// OpEq matches records whose field exactly equals the value. A string
	// value containing '%' is treated as a LIKE pattern instead, matching
	// the filter-object behavior callers expect from the SQL shim.
	OpEq Op = iota
	// OpLike matches a SQL LIKE pattern: '%' becomes '.*' and the test is
	// a case-insensitive regex over the field's string form.
	OpLike
	// OpGte matches fields >= value (strings lexicographically, numbers
	// numerically).
	OpGte
	// OpLte matches fields <= value.
	OpLte
)

// Filter is one predicate over a record field. Multiple filters AND.
type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Filter  { return Filter{Field: field, Op: OpEq, Value: value} }
func Like(field, pattern string) Filter  { return Filter{Field: field, Op: OpLike, Value: pattern} }
func Gte(field string, value any) Filter { return Filter{Field: field, Op: OpGte, Value: value} }
func Lte(field string, value any) Filter { return Filter{Field: field, Op: OpLte, Value: value} }

// Query loads the full table and keeps records matching every filter.
// Selectivity is O(table size); tables hold a single user's data so scans
// stay in the tens-to-hundreds of rows.
func (s *Store) Query(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	records, err := s.GetAll(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return records, nil
	}
	matched := records[:0]
	for _, rec := range records {
		if matchAll(rec, filters) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func matchAll(rec Record, filters []Filter) bool {
	for _, f := range filters {
		if !f.match(rec) {
			return false
		}
	}
	return true
}

func (f Filter) match(rec Record) bool {
	field, present := rec[f.Field]
	if !present || field == nil {
		// Absent and null fields never match, LIKE included.
		return false
	}
	switch f.Op {
	case OpEq:
		if pattern, ok := f.Value.(string); ok && strings.Contains(pattern, "%") {
			return likeMatch(pattern, field)
		}
		return compareValues(field, f.Value) == 0
	case OpLike:
		pattern, ok := f.Value.(string)
		return ok && likeMatch(pattern, field)
	case OpGte:
		return compareValues(field, f.Value) >= 0
	case OpLte:
		return compareValues(field, f.Value) <= 0
	}
	return false
}

var likeCache sync.Map // pattern -> *regexp.Regexp

// likeMatch translates a LIKE pattern to a regex and tests it
// case-insensitively against the field's string form. Regex metacharacters
// in the pattern are escaped; only '%' is a wildcard.
func likeMatch(pattern string, field any) bool {
	re, ok := likeCache.Load(pattern)
	if !ok {
		expr := "(?i)^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), "%", ".*") + "$"
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return false
		}
		re, _ = likeCache.LoadOrStore(pattern, compiled)
	}
	return re.(*regexp.Regexp).MatchString(stringify(field))
}

// compareValues orders two field values: numerically when both sides are
// numeric, lexicographically on their string forms otherwise. Returns
// -1, 0 or 1; unequal non-ordered values compare as their string forms.
func compareValues(a, b any) int {
	if na, aok := asFloat(a); aok {
		if nb, bok := asFloat(b); bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(stringify(a), stringify(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}
