// Package domain contains core business types and interfaces for the
// maintenance reporting service.
package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"robolog/internal/downtime"
)

// =============================================================================
// Enumerations
// =============================================================================

// Shift identifies the work shift a report belongs to.
type Shift string

const (
	ShiftMorning Shift = "Mañana"
	ShiftEvening Shift = "Tarde"
	ShiftNight   Shift = "Noche"
)

// IsValid returns true if the shift is a recognized value.
func (s Shift) IsValid() bool {
	switch s {
	case ShiftMorning, ShiftEvening, ShiftNight:
		return true
	}
	return false
}

// Shifts lists the selectable shifts in form order.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftEvening, ShiftNight}
}

// OrderType classifies the maintenance order behind a report.
type OrderType string

const (
	OrderCorrective  OrderType = "Correctivo"
	OrderPreventive  OrderType = "Preventivo"
	OrderImprovement OrderType = "Mejora"
	OrderMinorFault  OrderType = "Falla Menor"
)

// IsValid returns true if the order type is a recognized value.
func (o OrderType) IsValid() bool {
	switch o {
	case OrderCorrective, OrderPreventive, OrderImprovement, OrderMinorFault:
		return true
	}
	return false
}

// OrderTypes lists the selectable order types in form order.
func OrderTypes() []OrderType {
	return []OrderType{OrderCorrective, OrderPreventive, OrderImprovement, OrderMinorFault}
}

// OrderStatus is the free-text status label of the order.
// Labels stay textual; numeric status codes used by some historical sheet
// revisions were never authoritative.
type OrderStatus string

const (
	StatusClosed       OrderStatus = "Cerrada"
	StatusOpen         OrderStatus = "Abierta"
	StatusAwaitingPart OrderStatus = "Pendiente de Refacción"
)

// IsValid returns true if the status is a recognized value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusClosed, StatusOpen, StatusAwaitingPart:
		return true
	}
	return false
}

// OrderStatuses lists the selectable statuses in form order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{StatusClosed, StatusOpen, StatusAwaitingPart}
}

// =============================================================================
// Report
// =============================================================================

// Report is one submitted maintenance record for a robotic work cell.
type Report struct {
	ID   uuid.UUID
	Week int       // ISO week of Date
	Date time.Time // Calendar date the session started

	Shift        Shift
	Technician   string   // Display name resolved from the roster (or raw control number)
	SupportStaff []string // Supporting technician names

	Cell  string
	Robot string

	FaultCode        string // Stable catalog identifier (column H of the sheet)
	FaultDescription string // Display text (column I)

	WorkDescription string // Symptom / work performed
	Actions         string // Corrective actions
	Solution        string // Final solution

	OrderNumber string
	OrderType   OrderType
	Status      OrderStatus

	DowntimeMinutes int
	Comment         string

	CreatedAt time.Time
}

// RowWidth is the number of columns in the persisted sheet row.
const RowWidth = 17

// Row flattens the report into the ordered field list the append-only sink
// expects. The column order is fixed; changing it breaks every consumer of
// the historical sheet.
func (r *Report) Row() []string {
	return []string{
		strconv.Itoa(r.Week),
		r.Date.Format("2006-01-02"),
		string(r.Shift),
		r.Technician,
		strings.Join(r.SupportStaff, ", "),
		r.Cell,
		r.Robot,
		r.FaultCode,
		r.FaultDescription,
		r.WorkDescription,
		r.Actions,
		r.Solution,
		r.OrderNumber,
		string(r.OrderType),
		string(r.Status),
		strconv.Itoa(r.DowntimeMinutes),
		r.Comment,
	}
}

// =============================================================================
// Service Parameters
// =============================================================================

// SubmitReportParams carries one form submission into the report service.
// Start and End are already normalized clock values; the handler layer is
// responsible for converting raw HHMM integers or hour/minute selects.
type SubmitReportParams struct {
	TechnicianID string   `validate:"required,max=5"`
	SupportStaff []string `validate:"dive,max=100"`
	Shift        Shift    `validate:"required"`

	Cell  string `validate:"required,max=50"`
	Robot string `validate:"required,max=50"`

	Label string `validate:"required"` // Combined "<code> - <description>" selection

	WorkDescription string `validate:"max=2000"`
	Actions         string `validate:"max=2000"`
	Solution        string `validate:"max=2000"`

	OrderNumber string      `validate:"max=50"`
	OrderType   OrderType   `validate:"required"`
	Status      OrderStatus `validate:"required"`

	Date  time.Time // Zero means today
	Start downtime.Clock
	End   downtime.Clock

	Comment string `validate:"max=500"`
}

// ListReportsParams contains parameters for listing recent reports.
type ListReportsParams struct {
	Limit  int32
	Offset int32
}

// =============================================================================
// Evidence Attachments
// =============================================================================

// Attachment is an evidence photo linked to a report. The binary lives in
// object storage; only metadata is kept relational. Evidence is never a
// column of the persisted row.
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
