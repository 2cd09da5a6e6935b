package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"robolog/internal/domain"
	"robolog/internal/metrics"
	"robolog/internal/repository"
	"robolog/internal/storage"
	"robolog/internal/worker"
)

// MaxEvidenceSize caps a single evidence photo at 10 MiB.
const MaxEvidenceSize = 10 << 20

// attachmentURLTTL is how long presigned evidence links stay valid.
const attachmentURLTTL = 15 * time.Minute

// UploadEvidenceParams carries one evidence upload.
type UploadEvidenceParams struct {
	ReportID    uuid.UUID
	FileName    string
	ContentType string // as sent by the client; verified against the data
	Data        io.Reader
}

// AttachmentView is an attachment plus resolved access URLs.
type AttachmentView struct {
	domain.Attachment
	URL          string
	ThumbnailURL string
}

// AttachmentService stores evidence photos for submitted reports.
type AttachmentService interface {
	// Upload validates and stores one photo, records its metadata and
	// schedules thumbnail generation.
	Upload(ctx context.Context, params UploadEvidenceParams) (*domain.Attachment, error)

	// ListByReport returns a report's attachments with access URLs.
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]AttachmentView, error)
}

type attachmentService struct {
	queries *repository.Queries
	store   storage.Store
	logger  *slog.Logger
}

// NewAttachmentService creates an AttachmentService.
func NewAttachmentService(queries *repository.Queries, store storage.Store, logger *slog.Logger) AttachmentService {
	return &attachmentService{
		queries: queries,
		store:   store,
		logger:  logger,
	}
}

// Upload validates and stores one evidence photo.
func (s *attachmentService) Upload(ctx context.Context, params UploadEvidenceParams) (*domain.Attachment, error) {
	const op = "AttachmentService.Upload"

	// The report must exist before evidence can hang off it.
	if _, err := s.queries.GetReport(ctx, params.ReportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "report", params.ReportID.String())
		}
		s.logger.Error("failed to check report", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to store evidence")
	}

	data, err := io.ReadAll(io.LimitReader(params.Data, MaxEvidenceSize+1))
	if err != nil {
		s.logger.Error("failed to read upload", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to read upload")
	}
	if len(data) > MaxEvidenceSize {
		return nil, domain.Invalid(op, "evidence photo exceeds the 10 MB limit")
	}

	// Sniff the real content type; the client header is advisory.
	contentType := storage.DetectContentType(params.ContentType, params.FileName, bytes.NewReader(data))
	if !storage.IsAllowedImageType(contentType) {
		return nil, domain.Invalid(op, fmt.Sprintf("unsupported evidence type %q, photos only", contentType))
	}

	attachmentID := uuid.New()
	key := fmt.Sprintf("evidence/%s/%s%s",
		params.ReportID, attachmentID, storage.ExtensionForContentType(contentType))

	err = s.store.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("failed to store evidence", "error", err, "op", op, "key", key)
		return nil, domain.Internal(err, op, "Failed to store evidence")
	}

	created, err := s.queries.CreateAttachment(ctx, repository.CreateAttachmentParams{
		ID:          attachmentID,
		ReportID:    params.ReportID,
		StorageKey:  key,
		FileName:    params.FileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	})
	if err != nil {
		// Roll the orphaned object back out of storage.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to clean up orphaned evidence", "error", delErr, "key", key)
		}
		s.logger.Error("failed to record attachment", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to record evidence")
	}

	if _, err := worker.EnqueueProcessEvidence(ctx, s.queries, created.ID, created.ReportID); err != nil {
		s.logger.Error("failed to enqueue thumbnail job", "error", err, "attachment_id", created.ID)
	}

	metrics.EvidenceUploads.Inc()
	s.logger.Info("evidence uploaded",
		"attachment_id", created.ID,
		"report_id", created.ReportID,
		"content_type", contentType,
		"size_bytes", created.SizeBytes,
	)

	attachment := repoAttachmentToDomain(created)
	return &attachment, nil
}

// ListByReport returns a report's attachments with access URLs.
func (s *attachmentService) ListByReport(ctx context.Context, reportID uuid.UUID) ([]AttachmentView, error) {
	const op = "AttachmentService.ListByReport"

	rows, err := s.queries.ListAttachmentsByReport(ctx, reportID)
	if err != nil {
		s.logger.Error("failed to list attachments", "error", err, "op", op, "report_id", reportID)
		return nil, domain.Internal(err, op, "Failed to list evidence")
	}

	out := make([]AttachmentView, 0, len(rows))
	for _, row := range rows {
		view := AttachmentView{Attachment: repoAttachmentToDomain(row)}

		if view.URL, err = s.store.URL(ctx, row.StorageKey, attachmentURLTTL); err != nil {
			s.logger.Warn("failed to resolve evidence URL", "error", err, "key", row.StorageKey)
		}
		if row.ThumbnailKey != "" {
			if view.ThumbnailURL, err = s.store.URL(ctx, row.ThumbnailKey, attachmentURLTTL); err != nil {
				s.logger.Warn("failed to resolve thumbnail URL", "error", err, "key", row.ThumbnailKey)
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func repoAttachmentToDomain(a repository.Attachment) domain.Attachment {
	return domain.Attachment{
		ID:           a.ID,
		ReportID:     a.ReportID,
		StorageKey:   a.StorageKey,
		ThumbnailKey: a.ThumbnailKey,
		FileName:     a.FileName,
		ContentType:  a.ContentType,
		SizeBytes:    a.SizeBytes,
		CreatedAt:    a.CreatedAt,
	}
}
