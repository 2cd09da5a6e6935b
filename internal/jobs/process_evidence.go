package jobs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"

	"robolog/internal/repository"
	"robolog/internal/storage"
	"robolog/internal/worker"
)

// Thumbnail bounds for evidence photos shown in the report detail view.
const (
	thumbnailMaxWidth    = 320
	thumbnailMaxHeight   = 320
	thumbnailJPEGQuality = 85
)

// ProcessEvidenceHandler generates a JPEG thumbnail for an uploaded
// evidence photo and records its storage key on the attachment.
type ProcessEvidenceHandler struct {
	queries *repository.Queries
	store   storage.Store
	logger  *slog.Logger
}

// NewProcessEvidenceHandler creates a handler for evidence
// processing jobs.
func NewProcessEvidenceHandler(queries *repository.Queries, store storage.Store, logger *slog.Logger) *ProcessEvidenceHandler {
	return &ProcessEvidenceHandler{
		queries: queries,
		store:   store,
		logger:  logger,
	}
}

// Type returns the job type identifier.
func (h *ProcessEvidenceHandler) Type() string {
	return worker.JobTypeProcessEvidence
}

// Handle generates and stores the thumbnail.
func (h *ProcessEvidenceHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.ProcessEvidencePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	attachment, err := h.queries.GetAttachment(ctx, p.AttachmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worker.NewPermanentError(fmt.Errorf("attachment %s not found", p.AttachmentID))
		}
		return fmt.Errorf("get attachment: %w", err)
	}

	if attachment.ThumbnailKey != "" {
		// Already processed, likely a retried job that succeeded partway.
		return nil
	}

	rc, _, err := h.store.Get(ctx, attachment.StorageKey)
	if err != nil {
		if storage.IsNotFound(err) {
			return worker.NewPermanentError(fmt.Errorf("evidence object %s missing", attachment.StorageKey))
		}
		return fmt.Errorf("get evidence object: %w", err)
	}
	defer rc.Close()

	thumb, err := generateThumbnail(rc)
	if err != nil {
		// Undecodable uploads stay without a thumbnail.
		return worker.NewPermanentError(fmt.Errorf("generate thumbnail: %w", err))
	}

	thumbKey := thumbnailKey(attachment.StorageKey)
	err = h.store.Put(ctx, thumbKey, bytes.NewReader(thumb), storage.PutOptions{
		ContentType: "image/jpeg",
		Overwrite:   true,
	})
	if err != nil {
		return fmt.Errorf("store thumbnail: %w", err)
	}

	if err := h.queries.UpdateAttachmentThumbnail(ctx, attachment.ID, thumbKey); err != nil {
		return fmt.Errorf("record thumbnail key: %w", err)
	}

	h.logger.Info("evidence thumbnail generated",
		"attachment_id", attachment.ID,
		"report_id", attachment.ReportID,
		"key", thumbKey,
	)
	return nil
}

// generateThumbnail decodes the image and resizes it to fit the
// thumbnail bounds, preserving aspect ratio. Output is always JPEG.
func generateThumbnail(data io.Reader) ([]byte, error) {
	img, _, err := image.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, thumbnailMaxWidth, thumbnailMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbnailKey derives the thumbnail's storage key from the original's.
func thumbnailKey(storageKey string) string {
	base := storageKey
	if i := strings.LastIndex(base, "."); i > strings.LastIndex(base, "/") {
		base = base[:i]
	}
	return base + "_thumb.jpg"
}
