package handler

import (
	"log/slog"
	"net/http"

	"robolog/internal/service"
)

// StatsHandler serves the downtime dashboard.
type StatsHandler struct {
	stats    service.StatsService
	renderer *Renderer
	logger   *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats service.StatsService, renderer *Renderer, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		stats:    stats,
		renderer: renderer,
		logger:   logger,
	}
}

// RegisterRoutes registers the stats routes.
//
// Routes:
//   - GET /stats     -> Dashboard
//   - GET /api/stats -> JSON
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /stats", h.Dashboard)
	mux.HandleFunc("GET /api/stats", h.JSON)
}

// statsPageData feeds the dashboard template.
type statsPageData struct {
	Title     string
	Summary   service.StatsSummary
	ByRobot   []service.RobotDowntime
	TopFaults []service.FaultFrequency
}

func (h *StatsHandler) gather(r *http.Request) (statsPageData, error) {
	summary, err := h.stats.Summary(r.Context())
	if err != nil {
		return statsPageData{}, err
	}
	byRobot, err := h.stats.DowntimeByRobot(r.Context())
	if err != nil {
		return statsPageData{}, err
	}
	faults, err := h.stats.FaultFrequency(r.Context())
	if err != nil {
		return statsPageData{}, err
	}
	if len(faults) > 10 {
		faults = faults[:10]
	}

	return statsPageData{
		Title:     "Estadísticas de Paros",
		Summary:   summary,
		ByRobot:   byRobot,
		TopFaults: faults,
	}, nil
}

// Dashboard renders the HTML stats page.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.gather(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	h.renderer.Render(w, http.StatusOK, "stats", data)
}

// JSON returns the same aggregates for API consumers.
func (h *StatsHandler) JSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.gather(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_reports":          data.Summary.TotalReports,
		"total_downtime_minutes": data.Summary.TotalDowntimeMinutes,
		"downtime_by_robot":      data.ByRobot,
		"top_faults":             data.TopFaults,
	})
}
