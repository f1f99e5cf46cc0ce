// Package profile holds the static per-destination-table metadata: header
// rename maps, coercion kinds, categorical synonym tables, reference lookups
// and injected default fields. Profiles are pure configuration; adding a
// destination table means adding one registry entry.
package profile

import (
	"fmt"

	"go-csv-importer/internal/model"
)

// ErrUnknownTable is returned for any table id outside the closed enum.
var ErrUnknownTable = fmt.Errorf("unknown destination table")

// DefaultFields are injected on every normalized record regardless of
// profile: audit timestamps and the default actor id.
var DefaultFields = []string{"create_date", "write_date", "create_uid", "write_uid"}

// DefaultActorID is the uid written into create_uid/write_uid.
const DefaultActorID = int64(1)

// genderRule maps single-letter and full-word variants onto the two
// canonical values. Unmatched input becomes null and is reported.
var genderRule = model.EnumRule{
	Synonyms: map[string]string{
		"m":      "male",
		"male":   "male",
		"f":      "female",
		"female": "female",
	},
}

// loanTypeRule maps field-export spellings onto the four canonical loan
// categories. Blank or unrecognized values default to new_loan rather than
// failing the row.
var loanTypeRule = model.EnumRule{
	Synonyms: map[string]string{
		"new":         "new_loan",
		"new loan":    "new_loan",
		"newloan":     "new_loan",
		"new_loan":    "new_loan",
		"renew":       "renewal",
		"renewal":     "renewal",
		"top up":      "top_up",
		"top-up":      "top_up",
		"topup":       "top_up",
		"top_up":      "top_up",
		"refinance":   "refinancing",
		"refinancing": "refinancing",
	},
	Default: "new_loan",
}

var registry = map[model.TableName]*model.TableProfile{
	model.TableCivilServant: {
		Table: model.TableCivilServant,
		Renames: []model.Rename{
			{Raw: "Employee Number", Canonical: "employee_number"},
			{Raw: "EMPLOYEE NUMBER", Canonical: "employee_number"},
			{Raw: "Staff ID", Canonical: "employee_number"},
			{Raw: "First Name", Canonical: "first_name"},
			{Raw: "Last Name", Canonical: "last_name"},
			{Raw: "Surname", Canonical: "last_name"},
			{Raw: "Gender", Canonical: "gender"},
			{Raw: "Sex", Canonical: "gender"},
			{Raw: "Date of Birth", Canonical: "date_of_birth"},
			{Raw: "DOB", Canonical: "date_of_birth"},
			{Raw: "Date of First Appointment", Canonical: "date_of_first_appointment"},
			{Raw: "Employment Date", Canonical: "date_of_first_appointment"},
			{Raw: "Grade Level", Canonical: "grade_level"},
			{Raw: "GL", Canonical: "grade_level"},
			{Raw: "Basic Salary", Canonical: "basic_salary"},
			{Raw: "Salary", Canonical: "basic_salary"},
			{Raw: "Phone", Canonical: "phone_number"},
			{Raw: "Phone Number", Canonical: "phone_number"},
			{Raw: "Email", Canonical: "email"},
			{Raw: "Ministry", Canonical: "ministry_id"},
			{Raw: "MDA", Canonical: "ministry_id"},
		},
		Kinds: map[string]model.FieldKind{
			"grade_level":               model.FieldInteger,
			"basic_salary":              model.FieldDecimal,
			"date_of_birth":             model.FieldDate,
			"date_of_first_appointment": model.FieldDate,
		},
		Enums: map[string]model.EnumRule{
			"gender": genderRule,
		},
		Lookups: []model.Lookup{
			{Field: "ministry_id", Table: "ministries"},
		},
		Defaults: DefaultFields,
	},
	model.TableRepayment: {
		Table: model.TableRepayment,
		Renames: []model.Rename{
			{Raw: "Employee Number", Canonical: "employee_number"},
			{Raw: "EMPLOYEE NUMBER", Canonical: "employee_number"},
			{Raw: "Staff ID", Canonical: "employee_number"},
			{Raw: "Loan Reference", Canonical: "loan_reference"},
			{Raw: "Loan Ref", Canonical: "loan_reference"},
			{Raw: "Amount Paid", Canonical: "amount_paid"},
			{Raw: "Repayment Amount", Canonical: "amount_paid"},
			{Raw: "Outstanding Balance", Canonical: "outstanding_balance"},
			{Raw: "Balance", Canonical: "outstanding_balance"},
			{Raw: "Repayment Date", Canonical: "repayment_date"},
			{Raw: "Payment Date", Canonical: "repayment_date"},
			{Raw: "Period", Canonical: "period"},
		},
		Kinds: map[string]model.FieldKind{
			"amount_paid":         model.FieldDecimal,
			"outstanding_balance": model.FieldDecimal,
			"repayment_date":      model.FieldDate,
		},
		Defaults: DefaultFields,
	},
	model.TableLoanDetails: {
		Table: model.TableLoanDetails,
		Renames: []model.Rename{
			{Raw: "Employee Number", Canonical: "employee_number"},
			{Raw: "EMPLOYEE NUMBER", Canonical: "employee_number"},
			{Raw: "Staff ID", Canonical: "employee_number"},
			{Raw: "Loan Reference", Canonical: "loan_reference"},
			{Raw: "Loan Ref", Canonical: "loan_reference"},
			{Raw: "Loan Amount", Canonical: "loan_amount"},
			{Raw: "Principal", Canonical: "loan_amount"},
			{Raw: "Tenor", Canonical: "tenor"},
			{Raw: "Tenure", Canonical: "tenor"},
			{Raw: "Interest Rate", Canonical: "interest_rate"},
			{Raw: "Rate", Canonical: "interest_rate"},
			{Raw: "Monthly Repayment", Canonical: "monthly_repayment"},
			{Raw: "Loan Type", Canonical: "loan_type"},
			{Raw: "LOAN TYPE", Canonical: "loan_type"},
			{Raw: "Disbursement Date", Canonical: "disbursement_date"},
			{Raw: "Bank", Canonical: "bank_id"},
			{Raw: "Bank Name", Canonical: "bank_id"},
			{Raw: "Bank Code", Canonical: "bank_id"},
		},
		Kinds: map[string]model.FieldKind{
			"loan_amount":       model.FieldDecimal,
			"interest_rate":     model.FieldDecimal,
			"monthly_repayment": model.FieldDecimal,
			"tenor":             model.FieldInteger,
			"disbursement_date": model.FieldDate,
		},
		Enums: map[string]model.EnumRule{
			"loan_type": loanTypeRule,
		},
		Lookups: []model.Lookup{
			{Field: "bank_id", Table: "banks", HasCode: true},
		},
		Defaults: DefaultFields,
	},
}

// For returns the profile of a destination table, or ErrUnknownTable for any
// id outside the closed enum. No mutation, no I/O.
func For(table model.TableName) (*model.TableProfile, error) {
	p, ok := registry[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return p, nil
}
