package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Job statuses
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job is one queued background job.
type Job struct {
	ID           uuid.UUID
	JobType      string
	Payload      []byte
	Status       string
	Priority     int32
	Attempts     int32
	MaxAttempts  int32
	ErrorMessage sql.NullString
	ScheduledAt  time.Time
	StartedAt    sql.NullTime
	CompletedAt  sql.NullTime
	CreatedAt    time.Time
}

const jobColumns = `id, job_type, payload, status, priority, attempts,
	max_attempts, error_message, scheduled_at, started_at, completed_at, created_at`

func scanJob(row interface{ Scan(...any) error }) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.JobType, &j.Payload, &j.Status, &j.Priority, &j.Attempts,
		&j.MaxAttempts, &j.ErrorMessage, &j.ScheduledAt, &j.StartedAt,
		&j.CompletedAt, &j.CreatedAt,
	)
	return j, err
}

// EnqueueJobParams describes a job to enqueue.
type EnqueueJobParams struct {
	JobType     string
	Payload     []byte
	Priority    int32
	MaxAttempts int32
	ScheduledAt time.Time
}

// EnqueueJob inserts a pending job.
func (q *Queries) EnqueueJob(ctx context.Context, p EnqueueJobParams) (Job, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO jobs (job_type, payload, priority, max_attempts, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+jobColumns,
		p.JobType, p.Payload, p.Priority, p.MaxAttempts, p.ScheduledAt,
	)
	return scanJob(row)
}

// DequeueJob claims the next due pending job. SKIP LOCKED keeps concurrent
// workers from fighting over the same row; call inside a transaction and
// mark the job started before committing.
func (q *Queries) DequeueJob(ctx context.Context) (Job, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE status = $1 AND scheduled_at <= now()
		ORDER BY priority DESC, scheduled_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED`,
		JobStatusPending,
	)
	return scanJob(row)
}

// UpdateJobStarted marks a job running and counts the attempt.
func (q *Queries) UpdateJobStarted(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = $2, attempts = attempts + 1, started_at = now()
		WHERE id = $1`,
		id, JobStatusRunning,
	)
	return err
}

// UpdateJobCompleted marks a job done.
func (q *Queries) UpdateJobCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = $2, completed_at = now(), error_message = NULL
		WHERE id = $1`,
		id, JobStatusCompleted,
	)
	return err
}

// UpdateJobFailedParams records a failure outcome.
type UpdateJobFailedParams struct {
	ID           uuid.UUID
	ErrorMessage sql.NullString
	Permanent    bool
}

// UpdateJobFailed marks a job failed, or reschedules it with exponential
// backoff while attempts remain and the failure is not permanent.
func (q *Queries) UpdateJobFailed(ctx context.Context, p UpdateJobFailedParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE jobs
		SET error_message = $2,
		    status = CASE
		        WHEN $3 OR attempts >= max_attempts THEN 'failed'
		        ELSE 'pending'
		    END,
		    scheduled_at = CASE
		        WHEN $3 OR attempts >= max_attempts THEN scheduled_at
		        ELSE now() + (interval '30 seconds' * power(2, attempts - 1))
		    END,
		    completed_at = CASE
		        WHEN $3 OR attempts >= max_attempts THEN now()
		        ELSE NULL
		    END
		WHERE id = $1`,
		p.ID, p.ErrorMessage, p.Permanent,
	)
	return err
}

// RecoverStaleJobs resets running jobs older than the threshold back to
// pending. Returns how many rows were recovered.
func (q *Queries) RecoverStaleJobs(ctx context.Context, thresholdSeconds float64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = $1, started_at = NULL
		WHERE status = $2
		  AND started_at < now() - make_interval(secs => $3)`,
		JobStatusPending, JobStatusRunning, thresholdSeconds,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
