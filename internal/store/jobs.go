package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"go-csv-importer/internal/model"
)

const jobColumns = `id, file_name, table_name, status, total_records,
	successful_records, failed_records, error_message, created_at, started_at, completed_at`

// CreateJob inserts a pending job row and returns its id.
func (s *Store) CreateJob(ctx context.Context, fileName string, table model.TableName) (int64, error) {
	now := time.Now().UTC()
	if s.driver == DriverPostgres {
		var id int64
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO import_logs (file_name, table_name, status, created_at)
			 VALUES ($1, $2, 'pending', $3) RETURNING id`,
			fileName, string(table), now).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("creating job: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO import_logs (file_name, table_name, status, created_at) VALUES (?, ?, 'pending', ?)`,
		fileName, string(table), now)
	if err != nil {
		return 0, fmt.Errorf("creating job: %w", err)
	}
	return res.LastInsertId()
}

// TryAcquire attempts the exclusive, non-blocking acquisition of a job: a
// compare-and-swap from pending to processing, backed by a FOR UPDATE NOWAIT
// row lock on the Postgres dialect. It returns false without error when the
// job is locked by another worker or already past pending — the benign
// duplicate-dispatch case.
func (s *Store) TryAcquire(ctx context.Context, jobID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning acquire tx: %w", err)
	}
	defer tx.Rollback()

	if s.driver == DriverPostgres {
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM import_logs WHERE id = $1 FOR UPDATE NOWAIT`, jobID).Scan(&status)
		if isLockNotAvailable(err) {
			return false, nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("job %d does not exist", jobID)
		}
		if err != nil {
			return false, fmt.Errorf("locking job %d: %w", jobID, err)
		}
		if status != string(model.StatusPending) {
			return false, nil
		}
	}

	res, err := tx.ExecContext(ctx, s.rebind(
		`UPDATE import_logs SET status = 'processing', started_at = ? WHERE id = ? AND status = 'pending'`),
		time.Now().UTC(), jobID)
	if err != nil {
		return false, fmt.Errorf("acquiring job %d: %w", jobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing acquire: %w", err)
	}
	return true, nil
}

func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

// Requeue returns a job to pending ahead of a retry dispatch. Only
// processing and failed jobs move; a completed job is never re-run.
func (s *Store) Requeue(ctx context.Context, jobID int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE import_logs SET status = 'pending', started_at = NULL, error_message = NULL
		 WHERE id = ? AND status IN ('processing', 'failed')`), jobID)
	return err
}

// SetTotal records the input row count once the file has been read.
func (s *Store) SetTotal(ctx context.Context, jobID int64, total int) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE import_logs SET total_records = ? WHERE id = ?`), total, jobID)
	return err
}

// UpdateProgress writes the cumulative successful-record count. Called after
// every persisted chunk; the value only ever grows within a run.
func (s *Store) UpdateProgress(ctx context.Context, jobID int64, successful int) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE import_logs SET successful_records = ? WHERE id = ?`), successful, jobID)
	return err
}

// SetFailedCount records rows withheld or lost to a failed chunk.
func (s *Store) SetFailedCount(ctx context.Context, jobID int64, failed int) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE import_logs SET failed_records = ? WHERE id = ?`), failed, jobID)
	return err
}

// MarkCompleted finalizes a successful job.
func (s *Store) MarkCompleted(ctx context.Context, jobID int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE import_logs SET status = 'completed', completed_at = ? WHERE id = ?`),
		time.Now().UTC(), jobID)
	return err
}

// MarkFailed finalizes a failed job with the driving error message.
func (s *Store) MarkFailed(ctx context.Context, jobID int64, message string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE import_logs SET status = 'failed', error_message = ?, completed_at = ? WHERE id = ?`),
		message, time.Now().UTC(), jobID)
	return err
}

// GetJob fetches one job row.
func (s *Store) GetJob(ctx context.Context, jobID int64) (*model.ImportJob, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+jobColumns+` FROM import_logs WHERE id = ?`), jobID)
	return scanJob(row)
}

// ListJobs returns jobs newest first.
func (s *Store) ListJobs(ctx context.Context) ([]*model.ImportJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM import_logs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.ImportJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListPending returns ids of jobs awaiting dispatch, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM import_logs WHERE status = 'pending' ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing pending jobs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner) (*model.ImportJob, error) {
	var job model.ImportJob
	var table, status string
	err := row.Scan(&job.ID, &job.FileName, &table, &status,
		&job.TotalRecords, &job.SuccessfulRecords, &job.FailedRecords,
		&job.ErrorMessage, &job.CreatedAt, &job.StartedAt, &job.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	job.TableName = model.TableName(table)
	job.Status = model.JobStatus(status)
	return &job, nil
}
