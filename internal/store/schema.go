package store

import (
	"context"
	"fmt"
)

// TableColumns lists the column names of a destination table, via
// information_schema on Postgres and pragma_table_info on SQLite.
func (s *Store) TableColumns(ctx context.Context, table string) (map[string]bool, error) {
	var query string
	if s.driver == DriverPostgres {
		query = `SELECT column_name FROM information_schema.columns WHERE table_name = $1`
	} else {
		query = `SELECT name FROM pragma_table_info(?)`
	}

	rows, err := s.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
