package worker

import (
	"context"
	"errors"
)

// JobHandler executes one background job type.
type JobHandler interface {
	// Type returns the job type identifier, matching the job_type
	// column in the jobs table.
	Type() string

	// Handle executes the job. The payload is the raw JSON stored at
	// enqueue time. Wrap errors with NewPermanentError to skip retries.
	Handle(ctx context.Context, payload []byte) error
}

// PermanentError marks a job failure that retrying cannot fix, such as
// a report row that no longer exists. The job goes straight to
// 'failed' instead of being rescheduled.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewPermanentError wraps err so the worker will not retry the job.
func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err is, or wraps, a PermanentError.
func IsPermanent(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}
