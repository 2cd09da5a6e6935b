package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolog/internal/domain"
)

func newCatalogMux() *http.ServeMux {
	mux := http.NewServeMux()
	NewCatalogHandler(stubRefdata{}, discardLogger()).RegisterRoutes(mux)
	return mux
}

func getJSON(t *testing.T, mux *http.ServeMux, path string) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code, path)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCatalogCascade(t *testing.T) {
	mux := newCatalogMux()

	areas := getJSON(t, mux, "/api/catalog/areas")
	assert.Equal(t, []any{"Soldadura"}, areas["areas"])

	types := getJSON(t, mux, "/api/catalog/types?area=Soldadura")
	assert.Equal(t, []any{"Mecánico"}, types["types"])

	faults := getJSON(t, mux, "/api/catalog/faults?area=Soldadura&type=Mecánico")
	assert.Equal(t, []any{"F-204 - Pinza no cierra"}, faults["faults"])
}

func TestCatalogFaultsFallsBackToPlaceholder(t *testing.T) {
	mux := newCatalogMux()

	faults := getJSON(t, mux, "/api/catalog/faults?area=Pintura&type=X")
	assert.Equal(t, []any{domain.NoDataLabel}, faults["faults"])
}

func TestTechnicianLookup(t *testing.T) {
	mux := newCatalogMux()

	known := getJSON(t, mux, "/api/technicians/10234")
	assert.Equal(t, "Ana López", known["name"])
	assert.Equal(t, true, known["found"])

	unknown := getJSON(t, mux, "/api/technicians/99999")
	assert.Equal(t, "99999", unknown["name"])
	assert.Equal(t, false, unknown["found"])
}

func TestTechnicianList(t *testing.T) {
	mux := newCatalogMux()

	names := getJSON(t, mux, "/api/technicians")
	assert.Equal(t, []any{"Ana López"}, names["technicians"])
}

func TestCellRobots(t *testing.T) {
	mux := newCatalogMux()

	robots := getJSON(t, mux, "/api/cells/Celda%203/robots")
	assert.Equal(t, []any{"R-301"}, robots["robots"])
}

func TestCatalogReload(t *testing.T) {
	mux := newCatalogMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reloaded":true`)
}
