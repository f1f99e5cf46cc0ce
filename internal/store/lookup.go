package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// LookupTable maps normalized labels to foreign-key ids, fetched once per
// job from a reference table. ByCode is populated only for tables that carry
// a code column.
type LookupTable struct {
	ByName map[string]int64
	ByCode map[string]int64
}

// NormalizeKey folds a label the way lookup keys are stored: trimmed and
// case-folded.
func NormalizeKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// FetchLookup reads an (id, name) or (id, name, code) reference table into
// memory. One read per job keeps per-row resolution O(1).
func (s *Store) FetchLookup(ctx context.Context, table string, hasCode bool) (*LookupTable, error) {
	cols := "id, name"
	if hasCode {
		cols += ", code"
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s`, cols, quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("fetching lookup table %s: %w", table, err)
	}
	defer rows.Close()

	lt := &LookupTable{ByName: make(map[string]int64)}
	if hasCode {
		lt.ByCode = make(map[string]int64)
	}
	for rows.Next() {
		var id int64
		var name string
		var code sql.NullString
		if hasCode {
			err = rows.Scan(&id, &name, &code)
		} else {
			err = rows.Scan(&id, &name)
		}
		if err != nil {
			return nil, fmt.Errorf("scanning lookup row from %s: %w", table, err)
		}
		lt.ByName[NormalizeKey(name)] = id
		if hasCode && code.Valid {
			lt.ByCode[NormalizeKey(code.String)] = id
		}
	}
	return lt, rows.Err()
}

// Len reports how many distinct names the table holds.
func (lt *LookupTable) Len() int { return len(lt.ByName) }

// Resolve finds the id for a label, name key first, then the code key.
func (lt *LookupTable) Resolve(label string) (int64, bool) {
	key := NormalizeKey(label)
	if id, ok := lt.ByName[key]; ok {
		return id, true
	}
	if lt.ByCode != nil {
		if id, ok := lt.ByCode[key]; ok {
			return id, true
		}
	}
	return 0, false
}
