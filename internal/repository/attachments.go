package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Attachment is the relational shape of one evidence photo record.
type Attachment struct {
	ID           uuid.UUID
	ReportID     uuid.UUID
	StorageKey   string
	ThumbnailKey string
	FileName     string
	ContentType  string
	SizeBytes    int64
	CreatedAt    time.Time
}

const attachmentColumns = `id, report_id, storage_key, thumbnail_key,
	file_name, content_type, size_bytes, created_at`

// CreateAttachmentParams mirrors the report_attachments insert.
type CreateAttachmentParams struct {
	ID           uuid.UUID
	ReportID     uuid.UUID
	StorageKey   string
	ThumbnailKey string
	FileName     string
	ContentType  string
	SizeBytes    int64
}

// CreateAttachment records an uploaded evidence photo.
func (q *Queries) CreateAttachment(ctx context.Context, p CreateAttachmentParams) (Attachment, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO report_attachments (
			id, report_id, storage_key, thumbnail_key, file_name,
			content_type, size_bytes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+attachmentColumns,
		p.ID, p.ReportID, p.StorageKey, p.ThumbnailKey, p.FileName,
		p.ContentType, p.SizeBytes,
	)
	var a Attachment
	err := row.Scan(
		&a.ID, &a.ReportID, &a.StorageKey, &a.ThumbnailKey, &a.FileName,
		&a.ContentType, &a.SizeBytes, &a.CreatedAt,
	)
	return a, err
}

// GetAttachment returns a single attachment by id.
func (q *Queries) GetAttachment(ctx context.Context, id uuid.UUID) (Attachment, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+attachmentColumns+` FROM report_attachments WHERE id = $1`, id)
	var a Attachment
	err := row.Scan(
		&a.ID, &a.ReportID, &a.StorageKey, &a.ThumbnailKey, &a.FileName,
		&a.ContentType, &a.SizeBytes, &a.CreatedAt,
	)
	return a, err
}

// UpdateAttachmentThumbnail records the generated thumbnail's key.
func (q *Queries) UpdateAttachmentThumbnail(ctx context.Context, id uuid.UUID, thumbnailKey string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE report_attachments SET thumbnail_key = $2 WHERE id = $1`,
		id, thumbnailKey,
	)
	return err
}

// ListAttachmentsByReport returns a report's attachments, oldest first.
func (q *Queries) ListAttachmentsByReport(ctx context.Context, reportID uuid.UUID) ([]Attachment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+attachmentColumns+`
		FROM report_attachments
		WHERE report_id = $1
		ORDER BY created_at`,
		reportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(
			&a.ID, &a.ReportID, &a.StorageKey, &a.ThumbnailKey, &a.FileName,
			&a.ContentType, &a.SizeBytes, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
