package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"robolog/internal/domain"
	"robolog/internal/service"
)

// maxUploadMemory bounds the in-memory part of multipart parsing.
const maxUploadMemory = 4 << 20

// AttachmentHandler accepts evidence photos for submitted reports.
type AttachmentHandler struct {
	attachments service.AttachmentService
	logger      *slog.Logger
}

// NewAttachmentHandler creates an AttachmentHandler.
func NewAttachmentHandler(attachments service.AttachmentService, logger *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachments: attachments,
		logger:      logger,
	}
}

// RegisterRoutes registers the evidence routes. The limit middleware
// guards the upload route.
//
// Routes:
//   - POST /reports/{id}/evidence -> Upload
//   - GET  /api/reports/{id}/evidence -> List
func (h *AttachmentHandler) RegisterRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.Handle("POST /reports/{id}/evidence", limit(http.HandlerFunc(h.Upload)))
	mux.HandleFunc("GET /api/reports/{id}/evidence", h.List)
}

// Upload stores the photos of a multipart form under the "evidence"
// field. Files are processed independently; one bad photo does not
// block its siblings.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "AttachmentHandler.Upload"

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Invalid report ID"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 5*service.MaxEvidenceSize)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Malformed upload"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["evidence"]
	if len(files) == 0 {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "No evidence files in request"))
		return
	}

	var uploaded []map[string]any
	var failed []map[string]string

	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			failed = append(failed, map[string]string{"file": fh.Filename, "error": "could not read upload"})
			continue
		}

		attachment, err := h.attachments.Upload(r.Context(), service.UploadEvidenceParams{
			ReportID:    reportID,
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        file,
		})
		file.Close()
		if err != nil {
			if domain.ErrorCode(err) == domain.ENOTFOUND {
				ErrorResponse(w, r, h.logger, err)
				return
			}
			failed = append(failed, map[string]string{"file": fh.Filename, "error": domain.ErrorMessage(err)})
			continue
		}

		uploaded = append(uploaded, map[string]any{
			"id":           attachment.ID,
			"file_name":    attachment.FileName,
			"content_type": attachment.ContentType,
			"size_bytes":   attachment.SizeBytes,
		})
	}

	status := http.StatusCreated
	if len(uploaded) == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"uploaded": uploaded,
		"failed":   failed,
	})
}

// List returns a report's evidence with access URLs.
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "AttachmentHandler.List"

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Invalid report ID"))
		return
	}

	views, err := h.attachments.ListByReport(r.Context(), reportID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]map[string]any, len(views))
	for i, v := range views {
		out[i] = map[string]any{
			"id":            v.ID,
			"file_name":     v.FileName,
			"content_type":  v.ContentType,
			"size_bytes":    v.SizeBytes,
			"url":           v.URL,
			"thumbnail_url": v.ThumbnailURL,
			"created_at":    v.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"evidence": out})
}
