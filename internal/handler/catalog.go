package handler

import (
	"log/slog"
	"net/http"

	"robolog/internal/service"
)

// CatalogHandler serves the cascading fault-catalog lookups that drive
// the form's dependent selects, plus roster and cell lookups.
type CatalogHandler struct {
	refdata service.RefdataService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(refdata service.RefdataService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		refdata: refdata,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes.
//
// Routes:
//   - GET  /api/catalog/areas    -> Areas
//   - GET  /api/catalog/types    -> Types
//   - GET  /api/catalog/faults   -> Faults
//   - GET  /api/technicians      -> Technicians
//   - GET  /api/technicians/{id} -> Technician
//   - GET  /api/cells            -> Cells
//   - GET  /api/cells/{cell}/robots -> Robots
//   - POST /api/catalog/reload   -> Reload
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog/areas", h.Areas)
	mux.HandleFunc("GET /api/catalog/types", h.Types)
	mux.HandleFunc("GET /api/catalog/faults", h.Faults)
	mux.HandleFunc("GET /api/technicians", h.Technicians)
	mux.HandleFunc("GET /api/technicians/{id}", h.Technician)
	mux.HandleFunc("GET /api/cells", h.Cells)
	mux.HandleFunc("GET /api/cells/{cell}/robots", h.Robots)
	mux.HandleFunc("POST /api/catalog/reload", h.Reload)
}

// Areas lists the catalog's functional areas.
func (h *CatalogHandler) Areas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"areas": h.refdata.Areas()})
}

// Types lists the fault types of the area given in ?area=.
func (h *CatalogHandler) Types(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("area")
	writeJSON(w, http.StatusOK, map[string]any{
		"area":  area,
		"types": h.refdata.Types(area),
	})
}

// Faults lists the selectable fault labels of ?area= and ?type=. An
// empty cascade yields the single no-data placeholder, never an empty
// list, so the form always has something to render.
func (h *CatalogHandler) Faults(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("area")
	typ := r.URL.Query().Get("type")
	writeJSON(w, http.StatusOK, map[string]any{
		"area":   area,
		"type":   typ,
		"faults": h.refdata.Labels(area, typ),
	})
}

// Technicians lists every roster name, for the support staff selector.
func (h *CatalogHandler) Technicians(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"technicians": h.refdata.Technicians()})
}

// Technician resolves a control number to a display name. Unknown
// numbers echo back the raw input with found=false; the caller decides
// whether that is acceptable.
func (h *CatalogHandler) Technician(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	name, found := h.refdata.TechnicianName(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"control_no": id,
		"name":       name,
		"found":      found,
	})
}

// Cells lists the work cells.
func (h *CatalogHandler) Cells(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cells": h.refdata.CellNames()})
}

// Robots lists the robots of a cell.
func (h *CatalogHandler) Robots(w http.ResponseWriter, r *http.Request) {
	cell := r.PathValue("cell")
	writeJSON(w, http.StatusOK, map[string]any{
		"cell":   cell,
		"robots": h.refdata.Robots(cell),
	})
}

// Reload re-reads the reference data files from disk.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.refdata.Reload(r.Context()); err != nil {
		h.logger.Error("catalog reload failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal", "Reload failed; previous data is still active")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded": true,
		"areas":    len(h.refdata.Areas()),
	})
}
