package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolog/internal/domain"
	"robolog/internal/service"
)

// stubRefdata serves a tiny fixed catalog.
type stubRefdata struct{}

func (stubRefdata) Areas() []string       { return []string{"Soldadura"} }
func (stubRefdata) Types(string) []string { return []string{"Mecánico"} }
func (stubRefdata) Labels(area, typ string) []string {
	if area == "Soldadura" && typ == "Mecánico" {
		return []string{"F-204 - Pinza no cierra"}
	}
	return []string{domain.NoDataLabel}
}
func (stubRefdata) TechnicianName(id string) (string, bool) {
	if id == "10234" {
		return "Ana López", true
	}
	return id, false
}
func (stubRefdata) Technicians() []string        { return []string{"Ana López"} }
func (stubRefdata) CellNames() []string          { return []string{"Celda 3"} }
func (stubRefdata) Robots(string) []string       { return []string{"R-301"} }
func (stubRefdata) Reload(context.Context) error { return nil }

// stubReportService records the params it was called with.
type stubReportService struct {
	submitted *domain.SubmitReportParams
	err       error
}

func (s *stubReportService) Submit(_ context.Context, params domain.SubmitReportParams) (*domain.Report, error) {
	s.submitted = &params
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Report{
		ID:              uuid.New(),
		Technician:      "Ana López",
		DowntimeMinutes: 45,
	}, nil
}

func (s *stubReportService) GetByID(context.Context, uuid.UUID) (*domain.Report, error) {
	return nil, domain.NotFound("stub", "report", "")
}

func (s *stubReportService) List(context.Context, domain.ListReportsParams) ([]domain.Report, error) {
	return nil, nil
}

func newTestReportHandler(t *testing.T, svc service.ReportService) *ReportHandler {
	t.Helper()
	renderer, err := NewRenderer(discardLogger())
	require.NoError(t, err)
	return NewReportHandler(svc, stubRefdata{}, renderer, discardLogger())
}

func submitForm(h *ReportHandler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func validForm(token string) url.Values {
	return url.Values{
		"form_token":    {token},
		"technician_id": {"10234"},
		"shift":         {"Mañana"},
		"cell":          {"Celda 3"},
		"robot":         {"R-301"},
		"fault_label":   {"F-204 - Pinza no cierra"},
		"order_type":    {"Correctivo"},
		"status":        {"Cerrada"},
		"date":          {"2025-03-07"},
		"start":         {"0815"},
		"end":           {"0930"},
	}
}

func TestShowFormIssuesToken(t *testing.T) {
	h := newTestReportHandler(t, &stubReportService{})

	rec := httptest.NewRecorder()
	h.ShowForm(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="form_token"`)
	assert.Contains(t, rec.Body.String(), "Soldadura")
}

func TestSubmitRedirectsOnSuccess(t *testing.T) {
	svc := &stubReportService{}
	h := newTestReportHandler(t, svc)

	rec := submitForm(h, validForm(h.tokens.Issue()))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/?submitted=")

	require.NotNil(t, svc.submitted)
	assert.Equal(t, "10234", svc.submitted.TechnicianID)
	assert.Equal(t, "F-204 - Pinza no cierra", svc.submitted.Label)
	assert.Equal(t, "08:15", svc.submitted.Start.String())
	assert.Equal(t, "09:30", svc.submitted.End.String())
	assert.Equal(t, time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC), svc.submitted.Date)
}

func TestSubmitRejectsReplayedToken(t *testing.T) {
	svc := &stubReportService{}
	h := newTestReportHandler(t, svc)

	token := h.tokens.Issue()
	first := submitForm(h, validForm(token))
	require.Equal(t, http.StatusSeeOther, first.Code)

	second := submitForm(h, validForm(token))
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestSubmitRejectsMissingToken(t *testing.T) {
	h := newTestReportHandler(t, &stubReportService{})

	form := validForm("")
	form.Del("form_token")
	rec := submitForm(h, form)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// Time normalization is total: unparseable clock text degrades to
// midnight instead of rejecting the submission.
func TestSubmitDegradesBadClock(t *testing.T) {
	svc := &stubReportService{}
	h := newTestReportHandler(t, svc)

	form := validForm(h.tokens.Issue())
	form.Set("start", "nope")
	rec := submitForm(h, form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, svc.submitted)
	assert.Equal(t, "00:00", svc.submitted.Start.String())
	assert.Equal(t, "09:30", svc.submitted.End.String())
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0815", "08:15"},
		{"08:15", "08:15"},
		{"815", "08:15"},
		{"5", "00:05"},
		{"", "00:00"},
		{"2595", "23:59"},
		{"morning", "00:00"},
		{"-815", "00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseClock(tt.raw).String(), tt.raw)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"10551", "10662"}, splitList(" 10551, 10662 ,"))
	assert.Nil(t, splitList(""))
}

func TestFormTokensExpire(t *testing.T) {
	tokens := newFormTokens(-time.Second)
	token := tokens.Issue()
	assert.False(t, tokens.Consume(token))
}
