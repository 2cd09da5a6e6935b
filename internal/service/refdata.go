// Package service contains the business logic for the maintenance
// reporting application.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"robolog/internal/metrics"
	"robolog/internal/refdata"
)

// RefdataConfig points the reference-data service at its source files.
type RefdataConfig struct {
	CatalogPath string
	RosterPath  string
	CellsPath   string

	// ColumnOverride pins catalog columns by exact header name,
	// bypassing the synonym and positional fallbacks.
	ColumnOverride *refdata.ColumnOverride
}

// RefdataService owns the fault catalog, the technician roster and the
// cell layout. All reads go through an RWMutex so the catalog can be
// reloaded while the server is running.
type RefdataService interface {
	// Areas lists the functional areas of the catalog.
	Areas() []string

	// Types lists the fault types of an area.
	Types(area string) []string

	// Labels lists the selectable fault labels of an area and type.
	Labels(area, typ string) []string

	// TechnicianName resolves a control number against the roster.
	// Unknown control numbers return the raw input and false.
	TechnicianName(controlNo string) (string, bool)

	// Technicians lists all roster names, sorted.
	Technicians() []string

	// CellNames lists the work cells in layout order.
	CellNames() []string

	// Robots lists the robots of a cell.
	Robots(cell string) []string

	// Reload re-reads all three source files from disk. On failure the
	// previously loaded data stays in effect.
	Reload(ctx context.Context) error
}

type refdataService struct {
	config RefdataConfig
	logger *slog.Logger

	mu      sync.RWMutex
	catalog *refdata.Catalog
	roster  *refdata.Roster
	cells   *refdata.Cells
}

// NewRefdataService loads the initial reference data and returns the
// service. Startup fails hard when the source files cannot be read;
// an empty catalog would make every submission fall back to the
// no-data sentinel.
func NewRefdataService(ctx context.Context, config RefdataConfig, logger *slog.Logger) (RefdataService, error) {
	s := &refdataService{
		config: config,
		logger: logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *refdataService) Reload(_ context.Context) error {
	catalogTable, err := refdata.LoadTable(s.config.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", s.config.CatalogPath, err)
	}
	rosterTable, err := refdata.LoadTable(s.config.RosterPath)
	if err != nil {
		return fmt.Errorf("load roster %s: %w", s.config.RosterPath, err)
	}
	cellsTable, err := refdata.LoadTable(s.config.CellsPath)
	if err != nil {
		return fmt.Errorf("load cells %s: %w", s.config.CellsPath, err)
	}

	catalog := refdata.NewCatalog(catalogTable, s.config.ColumnOverride, s.logger)
	roster := refdata.NewRoster(rosterTable)
	cells := refdata.NewCells(cellsTable)

	s.mu.Lock()
	s.catalog = catalog
	s.roster = roster
	s.cells = cells
	s.mu.Unlock()

	metrics.CatalogReloads.Inc()
	s.logger.Info("reference data loaded",
		"areas", len(catalog.Areas()),
		"technicians", roster.Size(),
		"cells", len(cells.List()),
	)
	return nil
}

func (s *refdataService) Areas() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Areas()
}

func (s *refdataService) Types(area string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Types(area)
}

func (s *refdataService) Labels(area, typ string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Labels(area, typ)
}

func (s *refdataService) TechnicianName(controlNo string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.Name(controlNo)
}

func (s *refdataService) Technicians() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.Names()
}

func (s *refdataService) CellNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cells.List()
}

func (s *refdataService) Robots(cell string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cells.Robots(cell)
}
