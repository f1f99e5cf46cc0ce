// Package resolve replaces human-readable reference labels with the foreign
// keys of the rows they name. Lookup tables are fetched once per run and held
// in memory; an import of any realistic size touches the same handful of
// ministries and banks on every row.
package resolve

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"go-csv-importer/internal/model"
	"go-csv-importer/internal/store"
)

// Resolver carries the in-memory lookup tables for one profile.
type Resolver struct {
	lookups map[string]*store.LookupTable // keyed by canonical field
	rules   []model.Lookup
}

// New fetches every lookup table the profile references.
func New(ctx context.Context, st *store.Store, prof *model.TableProfile) (*Resolver, error) {
	r := &Resolver{
		lookups: make(map[string]*store.LookupTable, len(prof.Lookups)),
		rules:   prof.Lookups,
	}
	for _, rule := range prof.Lookups {
		lt, err := st.FetchLookup(ctx, rule.Table, rule.HasCode)
		if err != nil {
			return nil, fmt.Errorf("fetching %s lookup: %w", rule.Table, err)
		}
		log.WithFields(log.Fields{"table": rule.Table, "entries": lt.Len()}).
			Debug("lookup table loaded")
		r.lookups[rule.Field] = lt
	}
	return r, nil
}

// Apply resolves every lookup field in place. A label with no match becomes
// nil and a warning; the record itself survives.
func (r *Resolver) Apply(records []model.Record) []model.Warning {
	var warnings []model.Warning
	for i, rec := range records {
		for _, rule := range r.rules {
			raw, present := rec[rule.Field]
			if !present {
				continue
			}
			label, _ := raw.(string)
			if label == "" {
				rec[rule.Field] = nil
				continue
			}
			id, ok := r.lookups[rule.Field].Resolve(label)
			if !ok {
				rec[rule.Field] = nil
				w := model.Warning{
					Row:    rec.SourceRow(i + 1),
					Field:  rule.Field,
					Value:  label,
					Kind:   model.WarnUnresolved,
					Detail: fmt.Sprintf("no %s row matches", rule.Table),
				}
				warnings = append(warnings, w)
				log.WithFields(log.Fields{
					"row": w.Row, "field": w.Field, "value": w.Value,
				}).Warn("unresolved reference label")
				continue
			}
			rec[rule.Field] = id
		}
	}
	return warnings
}
