package recordstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cadwork/worklog/domain"
)

// The textual interface supports exactly one shape:
//
//	SELECT * FROM <table> [WHERE <field> = <literal-or-?> [AND ...]]
//
// Literals may be quoted with ' or "; a bare ? consumes the next positional
// parameter. Anything else raises ErrInvalidQuery rather than returning an
// empty result, so a typo'd table name or clause fails loudly.
var (
	selectRe    = regexp.MustCompile(`(?is)^\s*SELECT\s+\*\s+FROM\s+(\w+)(?:\s+WHERE\s+(.+?))?\s*$`)
	conditionRe = regexp.MustCompile(`(?s)^(\w+)\s*=\s*(.+)$`)
	andRe       = regexp.MustCompile(`(?i)\s+AND\s+`)
)

// Exec evaluates the supported SELECT subset against the store and returns
// the matching records.
func (s *Store) Exec(ctx context.Context, sql string, params ...any) ([]Record, error) {
	filters, table, err := parseSelect(sql, params)
	if err != nil {
		return nil, err
	}
	if _, ok := schemaFor(table); !ok {
		return nil, invalidQuery(sql, fmt.Sprintf("unknown table %q", table))
	}
	return s.Query(ctx, table, filters...)
}

func parseSelect(sql string, params []any) ([]Filter, string, error) {
	m := selectRe.FindStringSubmatch(sql)
	if m == nil {
		return nil, "", invalidQuery(sql, "only SELECT * FROM <table> [WHERE ...] is supported")
	}
	table, where := m[1], m[2]
	if where == "" {
		return nil, table, nil
	}

	var filters []Filter
	next := 0
	for _, cond := range andRe.Split(where, -1) {
		cond = strings.TrimSpace(cond)
		cm := conditionRe.FindStringSubmatch(cond)
		if cm == nil {
			return nil, "", invalidQuery(sql, fmt.Sprintf("unsupported condition %q", cond))
		}
		field, raw := cm[1], strings.TrimSpace(cm[2])
		var value any
		if raw == "?" {
			if next >= len(params) {
				return nil, "", invalidQuery(sql, "not enough parameters for placeholders")
			}
			value = params[next]
			next++
		} else {
			value = strings.Trim(raw, `'"`)
		}
		filters = append(filters, Eq(field, value))
	}
	return filters, table, nil
}

func invalidQuery(sql, reason string) error {
	return domain.WrapError(domain.ErrCodeInvalidQuery, reason, fmt.Errorf("query: %s", sql))
}
