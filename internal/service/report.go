package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"robolog/internal/domain"
	"robolog/internal/downtime"
	"robolog/internal/metrics"
	"robolog/internal/repository"
	"robolog/internal/worker"
)

// ReportService defines the report submission and retrieval operations.
type ReportService interface {
	// Submit validates one form submission, resolves the technician and
	// fault selection, computes downtime, and appends the report row.
	Submit(ctx context.Context, params domain.SubmitReportParams) (*domain.Report, error)

	// GetByID retrieves a report by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)

	// List retrieves recent reports, newest first.
	List(ctx context.Context, params domain.ListReportsParams) ([]domain.Report, error)
}

type reportService struct {
	queries  *repository.Queries
	refdata  RefdataService
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewReportService creates a ReportService.
func NewReportService(queries *repository.Queries, refdata RefdataService, logger *slog.Logger) ReportService {
	return &reportService{
		queries:  queries,
		refdata:  refdata,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates and persists one maintenance report.
func (s *reportService) Submit(ctx context.Context, params domain.SubmitReportParams) (*domain.Report, error) {
	const op = "ReportService.Submit"

	if err := s.validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, validationErrors(op, verrs)
		}
		return nil, domain.Internal(err, op, "Failed to validate report")
	}

	if !params.Shift.IsValid() {
		return nil, domain.NewValidationError(op, "Shift", "unknown shift")
	}
	if !params.OrderType.IsValid() {
		return nil, domain.NewValidationError(op, "OrderType", "unknown order type")
	}
	if !params.Status.IsValid() {
		return nil, domain.NewValidationError(op, "Status", "unknown order status")
	}
	if domain.IsNoData(params.Label) {
		// The placeholder label means the catalog had nothing to offer
		// for the chosen area and type; it is not a submittable fault.
		return nil, domain.NewValidationError(op, "Label", "select a fault from the catalog")
	}

	report := s.assemble(params)

	created, err := s.queries.CreateReport(ctx, repository.CreateReportParams{
		ID:               report.ID,
		Week:             int32(report.Week),
		ReportDate:       report.Date,
		Shift:            string(report.Shift),
		Technician:       report.Technician,
		SupportStaff:     strings.Join(report.SupportStaff, ", "),
		Cell:             report.Cell,
		Robot:            report.Robot,
		FaultCode:        report.FaultCode,
		FaultDescription: report.FaultDescription,
		WorkDescription:  report.WorkDescription,
		Actions:          report.Actions,
		Solution:         report.Solution,
		OrderNumber:      report.OrderNumber,
		OrderType:        string(report.OrderType),
		Status:           string(report.Status),
		DowntimeMinutes:  int32(report.DowntimeMinutes),
		Comment:          report.Comment,
	})
	if err != nil {
		s.logger.Error("failed to create report", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to save report")
	}

	// Ledger export is best effort: a queue hiccup must not lose the
	// submission the technician just made.
	if _, err := worker.EnqueueExportReport(ctx, s.queries, created.ID); err != nil {
		s.logger.Error("failed to enqueue ledger export", "error", err, "report_id", created.ID)
	}

	metrics.ReportsSubmitted.WithLabelValues(string(report.Shift), string(report.OrderType)).Inc()
	metrics.DowntimeMinutesRecorded.Add(float64(report.DowntimeMinutes))

	s.logger.Info("report submitted",
		"report_id", created.ID,
		"robot", report.Robot,
		"fault_code", report.FaultCode,
		"downtime_minutes", report.DowntimeMinutes,
	)

	result := repoReportToDomain(created)
	return &result, nil
}

// assemble resolves names and derived fields into a complete report.
func (s *reportService) assemble(params domain.SubmitReportParams) domain.Report {
	date := params.Date
	if date.IsZero() {
		date = s.now()
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	technician, found := s.refdata.TechnicianName(strings.TrimSpace(params.TechnicianID))
	if !found {
		s.logger.Warn("technician not in roster, keeping control number",
			"control_no", params.TechnicianID)
	}

	code, description := domain.SplitLabel(params.Label)
	_, week := date.ISOWeek()

	return domain.Report{
		ID:               uuid.New(),
		Week:             week,
		Date:             date,
		Shift:            params.Shift,
		Technician:       technician,
		SupportStaff:     s.resolveSupportStaff(params.SupportStaff),
		Cell:             strings.TrimSpace(params.Cell),
		Robot:            strings.TrimSpace(params.Robot),
		FaultCode:        code,
		FaultDescription: description,
		WorkDescription:  strings.TrimSpace(params.WorkDescription),
		Actions:          strings.TrimSpace(params.Actions),
		Solution:         strings.TrimSpace(params.Solution),
		OrderNumber:      strings.TrimSpace(params.OrderNumber),
		OrderType:        params.OrderType,
		Status:           params.Status,
		DowntimeMinutes:  downtime.Minutes(date, params.Start, params.End),
		Comment:          strings.TrimSpace(params.Comment),
	}
}

// resolveSupportStaff maps supporting control numbers to names,
// dropping blanks. Entries not in the roster pass through unchanged.
func (s *reportService) resolveSupportStaff(staff []string) []string {
	var out []string
	for _, entry := range staff {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, _ := s.refdata.TechnicianName(entry)
		out = append(out, name)
	}
	return out
}

// GetByID retrieves a report by ID.
func (s *reportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	const op = "ReportService.GetByID"

	repoReport, err := s.queries.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "report", id.String())
		}
		s.logger.Error("failed to get report", "error", err, "op", op, "report_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve report")
	}

	report := repoReportToDomain(repoReport)
	return &report, nil
}

// List retrieves recent reports, newest first.
func (s *reportService) List(ctx context.Context, params domain.ListReportsParams) ([]domain.Report, error) {
	const op = "ReportService.List"

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	repoReports, err := s.queries.ListRecentReports(ctx, limit, params.Offset)
	if err != nil {
		s.logger.Error("failed to list reports", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list reports")
	}

	reports := make([]domain.Report, len(repoReports))
	for i, rr := range repoReports {
		reports[i] = repoReportToDomain(rr)
	}
	return reports, nil
}

// validationErrors flattens validator output into field messages.
func validationErrors(op string, verrs validator.ValidationErrors) *domain.ValidationError {
	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string)}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = validationMessage(fe)
	}
	return ve
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// repoReportToDomain converts a stored row back to the domain shape.
func repoReportToDomain(r repository.Report) domain.Report {
	var staff []string
	if r.SupportStaff != "" {
		staff = strings.Split(r.SupportStaff, ", ")
	}
	return domain.Report{
		ID:               r.ID,
		Week:             int(r.Week),
		Date:             r.ReportDate,
		Shift:            domain.Shift(r.Shift),
		Technician:       r.Technician,
		SupportStaff:     staff,
		Cell:             r.Cell,
		Robot:            r.Robot,
		FaultCode:        r.FaultCode,
		FaultDescription: r.FaultDescription,
		WorkDescription:  r.WorkDescription,
		Actions:          r.Actions,
		Solution:         r.Solution,
		OrderNumber:      r.OrderNumber,
		OrderType:        domain.OrderType(r.OrderType),
		Status:           domain.OrderStatus(r.Status),
		DowntimeMinutes:  int(r.DowntimeMinutes),
		Comment:          r.Comment,
		CreatedAt:        r.CreatedAt,
	}
}
