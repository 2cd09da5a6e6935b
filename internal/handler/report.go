package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"robolog/internal/domain"
	"robolog/internal/downtime"
	"robolog/internal/service"
)

// formTokenTTL is how long a rendered form stays submittable.
const formTokenTTL = 4 * time.Hour

// ReportHandler serves the submission form and accepts report posts.
type ReportHandler struct {
	reportService service.ReportService
	refdata       service.RefdataService
	renderer      *Renderer
	tokens        *formTokens
	logger        *slog.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(
	reportService service.ReportService,
	refdata service.RefdataService,
	renderer *Renderer,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		refdata:       refdata,
		renderer:      renderer,
		tokens:        newFormTokens(formTokenTTL),
		logger:        logger,
	}
}

// RegisterRoutes registers the report routes. The limit middleware
// guards the submission route.
//
// Routes:
//   - GET  /             -> ShowForm
//   - POST /reports      -> Submit
//   - GET  /api/reports  -> List
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /{$}", h.ShowForm)
	mux.Handle("POST /reports", limit(http.HandlerFunc(h.Submit)))
	mux.HandleFunc("GET /api/reports", h.List)
}

// reportFormData feeds the submission form template.
type reportFormData struct {
	Title       string
	FormToken   string
	Shifts      []domain.Shift
	OrderTypes  []domain.OrderType
	Statuses    []domain.OrderStatus
	Areas       []string
	Cells       []string
	SubmittedID string
}

// ShowForm renders the report submission form.
func (h *ReportHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "report_form", reportFormData{
		Title:       "Registro de Paros",
		FormToken:   h.tokens.Issue(),
		Shifts:      domain.Shifts(),
		OrderTypes:  domain.OrderTypes(),
		Statuses:    domain.OrderStatuses(),
		Areas:       h.refdata.Areas(),
		Cells:       h.refdata.CellNames(),
		SubmittedID: r.URL.Query().Get("submitted"),
	})
}

// Submit accepts one report from the form or the JSON API.
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "ReportHandler.Submit"

	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Malformed form data"))
		return
	}

	if !h.tokens.Consume(r.PostFormValue("form_token")) {
		// Either a replayed submit or a form left open past its TTL.
		ErrorResponse(w, r, h.logger, domain.Conflict(op, "This form was already submitted. Reload the page to file another report."))
		return
	}

	params, err := h.parseSubmitForm(r)
	if err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	report, err := h.reportService.Submit(r.Context(), params)
	if err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	if acceptsJSON(r) {
		writeJSON(w, http.StatusCreated, reportToJSON(*report))
		return
	}
	http.Redirect(w, r, "/?submitted="+report.ID.String(), http.StatusSeeOther)
}

// parseSubmitForm maps form fields onto service parameters.
func (h *ReportHandler) parseSubmitForm(r *http.Request) (domain.SubmitReportParams, error) {
	const op = "ReportHandler.Submit"

	params := domain.SubmitReportParams{
		TechnicianID:    strings.TrimSpace(r.PostFormValue("technician_id")),
		SupportStaff:    splitList(r.PostFormValue("support_staff")),
		Shift:           domain.Shift(r.PostFormValue("shift")),
		Cell:            r.PostFormValue("cell"),
		Robot:           r.PostFormValue("robot"),
		Label:           r.PostFormValue("fault_label"),
		WorkDescription: r.PostFormValue("work_description"),
		Actions:         r.PostFormValue("actions"),
		Solution:        r.PostFormValue("solution"),
		OrderNumber:     r.PostFormValue("order_number"),
		OrderType:       domain.OrderType(r.PostFormValue("order_type")),
		Status:          domain.OrderStatus(r.PostFormValue("status")),
		Comment:         r.PostFormValue("comment"),
	}

	if raw := r.PostFormValue("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, domain.NewValidationError(op, "date", "must be a date like 2025-03-07")
		}
		params.Date = date
	}

	params.Start = parseClock(r.PostFormValue("start"))
	params.End = parseClock(r.PostFormValue("end"))

	return params, nil
}

// parseClock converts an HHMM form value. Time normalization is total:
// empty or unparseable input degrades to midnight, matching FromHHMM's
// handling of out-of-range digits.
func parseClock(raw string) downtime.Clock {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ":", ""))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return downtime.Clock{}
	}
	return downtime.FromHHMM(n)
}

// splitList splits a comma-separated form value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// List returns recent reports as JSON.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	reports, err := h.reportService.List(r.Context(), domain.ListReportsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]map[string]any, len(reports))
	for i, report := range reports {
		out[i] = reportToJSON(report)
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": out})
}

// reportToJSON shapes a report for API responses.
func reportToJSON(r domain.Report) map[string]any {
	return map[string]any{
		"id":                r.ID,
		"week":              r.Week,
		"date":              r.Date.Format("2006-01-02"),
		"shift":             r.Shift,
		"technician":        r.Technician,
		"support_staff":     r.SupportStaff,
		"cell":              r.Cell,
		"robot":             r.Robot,
		"fault_code":        r.FaultCode,
		"fault_description": r.FaultDescription,
		"work_description":  r.WorkDescription,
		"actions":           r.Actions,
		"solution":          r.Solution,
		"order_number":      r.OrderNumber,
		"order_type":        r.OrderType,
		"status":            r.Status,
		"downtime_minutes":  r.DowntimeMinutes,
		"comment":           r.Comment,
		"created_at":        r.CreatedAt,
	}
}
