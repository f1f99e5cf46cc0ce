package store

import (
	"context"
	"fmt"
	"strings"
)

// maxBindParams bounds the host parameters of one statement. SQLite caps them
// at 32766 and Postgres at 65535; staying under the lower cap keeps one code
// path for both dialects.
const maxBindParams = 32766

// InsertChunk appends one chunk of rows to a destination table with multi-row
// INSERTs, splitting the chunk whenever rows×columns would exceed the
// engine's bind-parameter cap. The path is append-only and non-transactional
// across chunks: a later chunk failing never rolls this one back.
func (s *Store) InsertChunk(ctx context.Context, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	rowsPerStmt := maxBindParams / len(columns)
	if rowsPerStmt < 1 {
		rowsPerStmt = 1
	}
	for start := 0; start < len(rows); start += rowsPerStmt {
		end := start + rowsPerStmt
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]
		tuples := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for i, row := range batch {
			tuples[i] = placeholders
			args = append(args, row...)
		}
		query := s.rebind(fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`,
			quoteIdent(table), strings.Join(quoted, ", "), strings.Join(tuples, ", ")))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting %d rows into %s: %w", len(batch), table, err)
		}
	}
	return nil
}
