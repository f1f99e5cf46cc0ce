// Package loader persists normalized records into a destination table in
// fixed-size chunks, reporting cumulative progress to the job ledger after
// every chunk. Schema compatibility is checked before the first write so a
// mapping drifted from the live schema never half-loads a file.
package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"go-csv-importer/internal/model"
	"go-csv-importer/internal/store"
)

// DefaultChunkSize matches the sweet spot for multi-row INSERTs on the
// destination tables.
const DefaultChunkSize = 10000

// SchemaMismatchError reports profile fields with no matching destination
// column. It fires before any row is written.
type SchemaMismatchError struct {
	Table   string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("table %s is missing columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

// Loader writes records for one destination table.
type Loader struct {
	store     *store.Store
	chunkSize int
}

// New builds a Loader. A non-positive chunkSize falls back to the default.
func New(st *store.Store, chunkSize int) *Loader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Loader{store: st, chunkSize: chunkSize}
}

// Load bulk-inserts records into the profile's table and updates the job row
// after each persisted chunk. On a mid-run failure the returned result
// reflects the chunks already committed.
func (l *Loader) Load(ctx context.Context, jobID int64, prof *model.TableProfile, records []model.Record) (*model.LoadResult, error) {
	result := &model.LoadResult{TableName: prof.Table}
	columns, err := l.checkSchema(ctx, prof)
	if err != nil {
		return result, err
	}
	if len(records) == 0 {
		return result, nil
	}

	for start := 0; start < len(records); start += l.chunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := start + l.chunkSize
		if end > len(records) {
			end = len(records)
		}
		rows := make([][]interface{}, 0, end-start)
		for _, rec := range records[start:end] {
			row := make([]interface{}, len(columns))
			for i, col := range columns {
				row[i] = rec[col]
			}
			rows = append(rows, row)
		}
		if err := l.store.InsertChunk(ctx, string(prof.Table), columns, rows); err != nil {
			return result, fmt.Errorf("inserting chunk at row %d: %w", start, err)
		}
		result.Inserted = end
		result.Chunks++
		if err := l.store.UpdateProgress(ctx, jobID, result.Inserted); err != nil {
			return result, fmt.Errorf("updating progress: %w", err)
		}
		log.WithFields(log.Fields{
			"job": jobID, "table": prof.Table, "loaded": result.Inserted, "total": len(records),
		}).Info("chunk persisted")
	}
	return result, nil
}

// checkSchema verifies every field the profile can emit has a destination
// column, and returns the insert column list in a stable order.
func (l *Loader) checkSchema(ctx context.Context, prof *model.TableProfile) ([]string, error) {
	live, err := l.store.TableColumns(ctx, string(prof.Table))
	if err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", prof.Table, err)
	}
	if len(live) == 0 {
		return nil, fmt.Errorf("destination table %s does not exist", prof.Table)
	}

	wanted := append(prof.CanonicalFields(), prof.Defaults...)
	var missing []string
	for _, col := range wanted {
		if !live[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaMismatchError{Table: string(prof.Table), Missing: missing}
	}
	return wanted, nil
}
