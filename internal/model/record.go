package model

import "fmt"

// Record is a normalized row: canonical field name → typed value. Values are
// string, int64, decimal.Decimal, time.Time or nil.
type Record map[string]interface{}

// SourceRowKey carries the 1-based input row number on a record. Withheld
// rows leave gaps in the numbering, so downstream warnings keep pointing at
// the input file. It is never a destination column.
const SourceRowKey = "_source_row"

// SourceRow reports the input row this record came from, or fallback for
// records built without one.
func (r Record) SourceRow(fallback int) int {
	if n, ok := r[SourceRowKey].(int); ok {
		return n
	}
	return fallback
}

// WarningKind classifies a recovered, non-fatal data-quality issue.
type WarningKind string

const (
	WarnBadNumeric    WarningKind = "bad_numeric"
	WarnBadDate       WarningKind = "bad_date"
	WarnUnmatchedEnum WarningKind = "unmatched_category"
	WarnUnresolved    WarningKind = "unresolved_reference"
)

// Warning records one recovered issue so data-quality review can happen
// after the run instead of blocking it. Fatal warnings (strict mode) cause
// the row to be withheld from the load and counted as failed.
type Warning struct {
	Row    int         `json:"row"` // 1-based data row index
	Field  string      `json:"field,omitempty"`
	Value  string      `json:"value,omitempty"`
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
	Fatal  bool        `json:"fatal,omitempty"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d field %q: %s (%s)", w.Row, w.Field, w.Kind, w.Detail)
}
