package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-csv-importer/internal/model"
)

func TestForKnownTables(t *testing.T) {
	for _, table := range model.KnownTables {
		p, err := For(table)
		require.NoError(t, err, "profile for %s", table)
		assert.Equal(t, table, p.Table)
		assert.NotEmpty(t, p.Renames)
		assert.Equal(t, DefaultFields, p.Defaults)
	}
}

func TestForUnknownTable(t *testing.T) {
	_, err := For(model.TableName("payroll"))
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestRenameCollisionLastWins(t *testing.T) {
	p, err := For(model.TableCivilServant)
	require.NoError(t, err)

	m := p.RenameMap()
	assert.Equal(t, "employee_number", m["Employee Number"])
	assert.Equal(t, "employee_number", m["EMPLOYEE NUMBER"])
	assert.Equal(t, "employee_number", m["Staff ID"])
}

func TestCanonicalFieldsStableAndDeduplicated(t *testing.T) {
	p, err := For(model.TableLoanDetails)
	require.NoError(t, err)

	fields := p.CanonicalFields()
	seen := map[string]int{}
	for _, f := range fields {
		seen[f]++
	}
	for f, n := range seen {
		assert.Equal(t, 1, n, "field %s declared once", f)
	}
	assert.Contains(t, fields, "tenor")
	assert.Contains(t, fields, "bank_id")
	assert.Equal(t, model.FieldInteger, p.Kind("tenor"))
	assert.Equal(t, model.FieldText, p.Kind("loan_reference"))
}

func TestLoanTypeRuleCoversCanonicalCategories(t *testing.T) {
	p, err := For(model.TableLoanDetails)
	require.NoError(t, err)

	rule, ok := p.Enums["loan_type"]
	require.True(t, ok)
	assert.Equal(t, "new_loan", rule.Default)

	got := map[string]bool{}
	for _, v := range rule.Synonyms {
		got[v] = true
	}
	assert.Equal(t, map[string]bool{
		"new_loan": true, "renewal": true, "top_up": true, "refinancing": true,
	}, got)
}
