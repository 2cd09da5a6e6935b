package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolog/internal/domain"
	"robolog/internal/downtime"
)

// fakeRefdata resolves a small fixed roster.
type fakeRefdata struct {
	names map[string]string
}

func (f *fakeRefdata) Areas() []string             { return nil }
func (f *fakeRefdata) Types(string) []string       { return nil }
func (f *fakeRefdata) Labels(_, _ string) []string { return nil }
func (f *fakeRefdata) Technicians() []string       { return nil }
func (f *fakeRefdata) CellNames() []string         { return nil }
func (f *fakeRefdata) Robots(string) []string      { return nil }
func (f *fakeRefdata) Reload(context.Context) error {
	return nil
}

func (f *fakeRefdata) TechnicianName(controlNo string) (string, bool) {
	if name, ok := f.names[controlNo]; ok {
		return name, true
	}
	return controlNo, false
}

func newTestReportService() *reportService {
	return &reportService{
		refdata: &fakeRefdata{names: map[string]string{
			"10234": "Ana López",
			"10551": "Luis Pérez",
		}},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time {
			return time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)
		},
	}
}

func TestAssembleResolvesTechnician(t *testing.T) {
	s := newTestReportService()

	report := s.assemble(domain.SubmitReportParams{
		TechnicianID: "10234",
		Shift:        domain.ShiftMorning,
		Cell:         " Celda 3 ",
		Robot:        "R-301",
		Label:        "F-204 - Pinza no cierra",
		OrderType:    domain.OrderCorrective,
		Status:       domain.StatusClosed,
		Start:        downtime.FromHHMM(815),
		End:          downtime.FromHHMM(900),
	})

	assert.Equal(t, "Ana López", report.Technician)
	assert.Equal(t, "Celda 3", report.Cell)
	assert.Equal(t, "F-204", report.FaultCode)
	assert.Equal(t, "Pinza no cierra", report.FaultDescription)
	assert.Equal(t, 45, report.DowntimeMinutes)

	// Zero date means today; week is the ISO week of that date.
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, 11, report.Week)
}

func TestAssembleUnknownTechnicianKeepsControlNumber(t *testing.T) {
	s := newTestReportService()

	report := s.assemble(domain.SubmitReportParams{
		TechnicianID: "99999",
		Shift:        domain.ShiftNight,
		Label:        "F-001 - Sensor",
	})

	assert.Equal(t, "99999", report.Technician)
}

func TestAssembleSpansMidnight(t *testing.T) {
	s := newTestReportService()

	report := s.assemble(domain.SubmitReportParams{
		TechnicianID: "10234",
		Label:        "F-001 - Sensor",
		Date:         time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC),
		Start:        downtime.FromHHMM(2345),
		End:          downtime.FromHHMM(130),
	})

	assert.Equal(t, 105, report.DowntimeMinutes)
}

func TestResolveSupportStaff(t *testing.T) {
	s := newTestReportService()

	staff := s.resolveSupportStaff([]string{" 10551 ", "", "88888"})
	assert.Equal(t, []string{"Luis Pérez", "88888"}, staff)

	assert.Nil(t, s.resolveSupportStaff(nil))
}

func TestSubmitRejectsNoDataLabel(t *testing.T) {
	s := newTestReportService()

	_, err := s.Submit(context.Background(), domain.SubmitReportParams{
		TechnicianID: "10234",
		Shift:        domain.ShiftMorning,
		Cell:         "Celda 3",
		Robot:        "R-301",
		Label:        domain.NoDataLabel,
		OrderType:    domain.OrderCorrective,
		Status:       domain.StatusClosed,
	})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "Label")
}

func TestSubmitValidatesRequiredFields(t *testing.T) {
	s := newTestReportService()

	_, err := s.Submit(context.Background(), domain.SubmitReportParams{})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "TechnicianID")
	assert.Contains(t, ve.Fields, "Label")
}

func TestSubmitRejectsLongControlNumber(t *testing.T) {
	s := newTestReportService()

	_, err := s.Submit(context.Background(), domain.SubmitReportParams{
		TechnicianID: "102345",
		Shift:        domain.ShiftMorning,
		Cell:         "Celda 3",
		Robot:        "R-301",
		Label:        "F-204 - Pinza no cierra",
		OrderType:    domain.OrderCorrective,
		Status:       domain.StatusClosed,
	})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "TechnicianID")
}
