package model

import "time"

// JobStatus is the lifecycle state of an import job.
// Transitions are pending → processing → {completed, failed}.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// TableName identifies one of the predefined destination tables.
type TableName string

const (
	TableCivilServant TableName = "civil_servant"
	TableRepayment    TableName = "repayment"
	TableLoanDetails  TableName = "loan_details"
)

// KnownTables lists every destination table the importer accepts.
var KnownTables = []TableName{TableCivilServant, TableRepayment, TableLoanDetails}

// ValidTable reports whether name is one of the predefined destination tables.
func ValidTable(name string) bool {
	for _, t := range KnownTables {
		if string(t) == name {
			return true
		}
	}
	return false
}

// ImportJob is the persisted record of one user-submitted file import.
// It is created as pending by the upload endpoint and mutated exclusively
// by the job orchestrator.
type ImportJob struct {
	ID                int64      `json:"id"`
	FileName          string     `json:"file_name"`
	TableName         TableName  `json:"table_name"`
	Status            JobStatus  `json:"status"`
	TotalRecords      int        `json:"total_records"`
	SuccessfulRecords int        `json:"successful_records"`
	FailedRecords     int        `json:"failed_records"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// LoadResult summarizes one bulk-load run for a job.
type LoadResult struct {
	TableName TableName `json:"table_name"`
	Inserted  int       `json:"inserted"`
	Chunks    int       `json:"chunks"`
	Failed    int       `json:"failed"`
}
