// Package normalize applies a table profile to raw rows: header renames,
// total numeric coercion, permissive date parsing, categorical synonym
// mapping and default-field injection. Coercion never aborts a batch; every
// recovered failure becomes a warning returned alongside the output so tests
// and data-quality review can assert on it directly.
package normalize

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"go-csv-importer/internal/model"
	"go-csv-importer/internal/profile"
	"go-csv-importer/internal/reader"
)

// Options tunes a normalization run.
type Options struct {
	// Strict turns unmatched categorical values into fatal warnings; the
	// affected rows are withheld from the output and counted as failed by
	// the caller. The default (lenient) reclassifies or nulls them.
	Strict bool

	// Now stamps the injected audit timestamps; zero means time.Now.
	Now time.Time

	// ActorID fills create_uid/write_uid.
	ActorID int64
}

// Normalize maps every raw row through the profile. Each output record
// carries exactly the profile's declared canonical fields plus the default
// fields, no matter how sparse the input row was.
func Normalize(table *reader.Table, prof *model.TableProfile, opts Options) ([]model.Record, []model.Warning) {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.ActorID == 0 {
		opts.ActorID = profile.DefaultActorID
	}

	// Headers are matched after trimming and case folding; colliding synonym
	// declarations resolve to the last write.
	renames := make(map[string]string, len(prof.Renames))
	for _, r := range prof.Renames {
		renames[foldHeader(r.Raw)] = r.Canonical
	}
	columns := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		columns[i] = renames[foldHeader(h)] // unmapped headers stay "" and are dropped
	}

	fields := prof.CanonicalFields()
	records := make([]model.Record, 0, len(table.Rows))
	var warnings []model.Warning

	for i, row := range table.Rows {
		rowNum := i + 1
		rec := make(model.Record, len(fields)+len(prof.Defaults))
		fatal := false

		for j, canonical := range columns {
			if canonical == "" || j >= len(row) {
				continue
			}
			value, warn := coerceCell(row[j], canonical, prof, opts)
			rec[canonical] = value
			if warn != nil {
				warn.Row = rowNum
				if warn.Fatal {
					fatal = true
				}
				warnings = append(warnings, *warn)
				logWarning(prof.Table, *warn)
			}
		}

		// Every declared canonical field is present on every record.
		for _, f := range fields {
			if _, ok := rec[f]; !ok {
				rec[f] = zeroValue(prof.Kind(f))
			}
		}
		injectDefaults(rec, opts)
		rec[model.SourceRowKey] = rowNum

		if fatal {
			continue
		}
		records = append(records, rec)
	}

	return records, warnings
}

// coerceCell types one raw cell according to the canonical field's kind and
// enum rule. The returned warning, when non-nil, has every field but Row set.
func coerceCell(raw, canonical string, prof *model.TableProfile, opts Options) (interface{}, *model.Warning) {
	trimmed := strings.TrimSpace(raw)

	switch prof.Kind(canonical) {
	case model.FieldInteger:
		v, ok := SafeInt(trimmed)
		if !ok {
			return v, &model.Warning{
				Field: canonical, Value: trimmed, Kind: model.WarnBadNumeric,
				Detail: "recovered to 0",
			}
		}
		return v, nil
	case model.FieldDecimal:
		v, ok := SafeDecimal(trimmed)
		if !ok {
			return v, &model.Warning{
				Field: canonical, Value: trimmed, Kind: model.WarnBadNumeric,
				Detail: "recovered to 0.00",
			}
		}
		return v, nil
	case model.FieldDate:
		v, ok := SafeDate(trimmed)
		if !ok {
			return v, &model.Warning{
				Field: canonical, Value: trimmed, Kind: model.WarnBadDate,
				Detail: "recovered to null",
			}
		}
		return v, nil
	}

	if rule, ok := prof.Enums[canonical]; ok {
		return applyEnum(trimmed, canonical, rule, opts)
	}

	if trimmed == "" {
		return nil, nil
	}
	return trimmed, nil
}

// applyEnum maps a categorical value through its fixed synonym table,
// tolerant of whitespace and casing. Unmatched non-blank input is reported;
// what happens to it depends on the rule's default and the strictness mode.
func applyEnum(trimmed, canonical string, rule model.EnumRule, opts Options) (interface{}, *model.Warning) {
	key := strings.ToLower(trimmed)
	if mapped, ok := rule.Synonyms[key]; ok {
		return mapped, nil
	}

	var value interface{}
	if rule.Default != "" {
		value = rule.Default
	}
	if trimmed == "" {
		// Absent values take the default silently; only labels that exist
		// but match nothing are a data-quality signal.
		return value, nil
	}

	warn := &model.Warning{
		Field: canonical, Value: trimmed, Kind: model.WarnUnmatchedEnum,
		Fatal: opts.Strict,
	}
	if rule.Default != "" {
		warn.Detail = "reclassified to " + rule.Default
	} else {
		warn.Detail = "recovered to null"
	}
	return value, warn
}

func zeroValue(kind model.FieldKind) interface{} {
	switch kind {
	case model.FieldInteger:
		return int64(0)
	case model.FieldDecimal:
		return decimalZero
	default:
		return nil
	}
}

func injectDefaults(rec model.Record, opts Options) {
	rec["create_date"] = opts.Now
	rec["write_date"] = opts.Now
	rec["create_uid"] = opts.ActorID
	rec["write_uid"] = opts.ActorID
}

func foldHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func logWarning(table model.TableName, w model.Warning) {
	logrus.WithFields(logrus.Fields{
		"table": table,
		"row":   w.Row,
		"field": w.Field,
		"value": w.Value,
		"kind":  w.Kind,
	}).Warn("recovered data-quality issue")
}
