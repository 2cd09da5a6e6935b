package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"robolog/internal/repository"
)

// Job types understood by the worker. Each must match a registered
// handler's Type().
const (
	JobTypeExportReport    = "export_report"
	JobTypeProcessEvidence = "process_evidence"
)

// Priority levels for job scheduling.
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// ExportReportPayload asks the export handler to append one submitted
// report to the monthly CSV ledger.
type ExportReportPayload struct {
	ReportID uuid.UUID `json:"report_id"`
}

// ProcessEvidencePayload asks the evidence handler to generate a
// thumbnail for an uploaded attachment.
type ProcessEvidencePayload struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	ReportID     uuid.UUID `json:"report_id"`
}

// EnqueueOption customizes enqueue parameters.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the retry budget.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// WithDelay schedules the job to run after a delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = time.Now().Add(delay)
	}
}

// EnqueueJob marshals the payload and inserts a pending job row.
func EnqueueJob(
	ctx context.Context,
	queries *repository.Queries,
	jobType string,
	payload interface{},
	opts ...EnqueueOption,
) (repository.Job, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.Job{}, fmt.Errorf("marshal payload: %w", err)
	}

	params := repository.EnqueueJobParams{
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&params)
	}

	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

// EnqueueExportReport schedules a submitted report for ledger export.
func EnqueueExportReport(
	ctx context.Context,
	queries *repository.Queries,
	reportID uuid.UUID,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := ExportReportPayload{ReportID: reportID}
	return EnqueueJob(ctx, queries, JobTypeExportReport, payload, opts...)
}

// EnqueueProcessEvidence schedules thumbnail generation for an
// uploaded attachment.
func EnqueueProcessEvidence(
	ctx context.Context,
	queries *repository.Queries,
	attachmentID, reportID uuid.UUID,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := ProcessEvidencePayload{AttachmentID: attachmentID, ReportID: reportID}
	return EnqueueJob(ctx, queries, JobTypeProcessEvidence, payload, opts...)
}
