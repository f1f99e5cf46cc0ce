package model

// FieldKind describes how the normalizer coerces a canonical field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInteger
	FieldDecimal
	FieldDate
)

// Rename maps one raw header label onto a canonical field. Raw labels may
// collide across synonyms; the last declaration wins.
type Rename struct {
	Raw       string
	Canonical string
}

// Lookup describes how a resolvable field is translated to a foreign-key id.
// The raw label is renamed into Field by the normalizer; the resolver then
// replaces it with the id from Table. The name key is always consulted first;
// when HasCode is set the reference table also carries a short code column
// used as the fallback key.
type Lookup struct {
	Field   string // canonical field holding the raw label, then the resolved id
	Table   string // reference table, read as (id, name) or (id, name, code)
	HasCode bool
}

// EnumRule is a fixed categorical synonym table. Keys are matched after
// trimming and case folding. When input matches nothing: with a Default set
// the value is reclassified to it, otherwise it becomes null; either way the
// row gets an unmatched-value warning.
type EnumRule struct {
	Synonyms map[string]string
	Default  string
}

// TableProfile is the fixed set of column-mapping and type rules for one
// destination table. Profiles are immutable and defined once at startup.
type TableProfile struct {
	Table    TableName
	Renames  []Rename
	Kinds    map[string]FieldKind // canonical field → coercion kind
	Enums    map[string]EnumRule  // canonical field → categorical synonym table
	Lookups  []Lookup
	Defaults []string // default fields injected on every record (audit columns)
}

// CanonicalFields returns every declared canonical field of the profile, in a
// stable order: rename targets first (deduplicated, declaration order), then
// lookup targets.
func (p *TableProfile) CanonicalFields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, r := range p.Renames {
		if !seen[r.Canonical] {
			seen[r.Canonical] = true
			fields = append(fields, r.Canonical)
		}
	}
	for _, l := range p.Lookups {
		if !seen[l.Field] {
			seen[l.Field] = true
			fields = append(fields, l.Field)
		}
	}
	return fields
}

// RenameMap collapses the ordered rename declarations into a lookup map,
// last write wins.
func (p *TableProfile) RenameMap() map[string]string {
	m := make(map[string]string, len(p.Renames))
	for _, r := range p.Renames {
		m[r.Raw] = r.Canonical
	}
	return m
}

// Kind returns the coercion kind for a canonical field, FieldText when
// undeclared.
func (p *TableProfile) Kind(field string) FieldKind {
	if k, ok := p.Kinds[field]; ok {
		return k
	}
	return FieldText
}
