package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-csv-importer/internal/model"
	"go-csv-importer/internal/profile"
	"go-csv-importer/internal/store"
)

const repaymentDDL = `CREATE TABLE repayment (
	employee_number TEXT, loan_reference TEXT, amount_paid TEXT,
	outstanding_balance TEXT, repayment_date DATE, period TEXT,
	create_date DATETIME, write_date DATETIME,
	create_uid INTEGER, write_uid INTEGER)`

func testStore(t *testing.T, ddl string) *store.Store {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "loader.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	if ddl != "" {
		_, err = st.DB().Exec(ddl)
		require.NoError(t, err)
	}
	return st
}

func repaymentRecords(n int) []model.Record {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, model.Record{
			"employee_number":     "EMP001",
			"loan_reference":      "LN-1",
			"amount_paid":         "100.00",
			"outstanding_balance": "900.00",
			"repayment_date":      now,
			"period":              "2024-06",
			"create_date":         now,
			"write_date":          now,
			"create_uid":          profile.DefaultActorID,
			"write_uid":           profile.DefaultActorID,
		})
	}
	return records
}

func TestLoadChunksAndTracksProgress(t *testing.T) {
	ctx := context.Background()
	st := testStore(t, repaymentDDL)
	jobID, err := st.CreateJob(ctx, "r.csv", model.TableRepayment)
	require.NoError(t, err)
	prof, err := profile.For(model.TableRepayment)
	require.NoError(t, err)

	// Chunk size 3 over 7 rows: chunks of 3, 3, 1.
	res, err := New(st, 3).Load(ctx, jobID, prof, repaymentRecords(7))
	require.NoError(t, err)
	assert.Equal(t, 7, res.Inserted)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, model.TableRepayment, res.TableName)

	var n int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM repayment`).Scan(&n))
	assert.Equal(t, 7, n)

	job, err := st.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, 7, job.SuccessfulRecords)
}

func TestLoadSchemaMismatchBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	st := testStore(t, `CREATE TABLE repayment (employee_number TEXT, amount_paid TEXT)`)
	jobID, err := st.CreateJob(ctx, "r.csv", model.TableRepayment)
	require.NoError(t, err)
	prof, err := profile.For(model.TableRepayment)
	require.NoError(t, err)

	res, err := New(st, 0).Load(ctx, jobID, prof, repaymentRecords(2))
	assert.Equal(t, 0, res.Inserted)

	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "repayment", mismatch.Table)
	assert.Contains(t, mismatch.Missing, "loan_reference")
	assert.Contains(t, mismatch.Missing, "create_date")

	var n int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM repayment`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestLoadMissingTable(t *testing.T) {
	ctx := context.Background()
	st := testStore(t, "")
	prof, err := profile.For(model.TableRepayment)
	require.NoError(t, err)

	_, err = New(st, 0).Load(ctx, 1, prof, repaymentRecords(1))
	assert.Error(t, err)
}

func TestLoadHonorsCancellationBetweenChunks(t *testing.T) {
	st := testStore(t, repaymentDDL)
	ctx, cancel := context.WithCancel(context.Background())
	jobID, err := st.CreateJob(ctx, "r.csv", model.TableRepayment)
	require.NoError(t, err)
	prof, err := profile.For(model.TableRepayment)
	require.NoError(t, err)

	cancel()
	res, err := New(st, 2).Load(ctx, jobID, prof, repaymentRecords(4))
	assert.Equal(t, 0, res.Inserted)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadEmptyInput(t *testing.T) {
	st := testStore(t, repaymentDDL)
	prof, err := profile.For(model.TableRepayment)
	require.NoError(t, err)

	res, err := New(st, 0).Load(context.Background(), 1, prof, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 0, res.Chunks)
}
