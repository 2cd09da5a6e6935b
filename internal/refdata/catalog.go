package refdata

import (
	"log/slog"
	"sort"

	"robolog/internal/domain"
)

// Catalog is the queryable index over the fault catalog, built once from a
// table snapshot and read-only thereafter. A reload of the underlying file
// means building a fresh Catalog, never mutating this one, so concurrent
// readers need no locking.
type Catalog struct {
	res     Resolution
	areas   []string
	types   map[string][]string
	records map[areaType][]domain.FaultRecord
}

type areaType struct {
	area string
	typ  string
}

// NewCatalog indexes the table. The column resolution is logged so
// operators can verify (and, via override, correct) which headers were
// picked up.
func NewCatalog(t Table, override *ColumnOverride, logger *slog.Logger) *Catalog {
	res := ResolveColumns(t, override)
	if logger != nil {
		logger.Info("catalog columns resolved",
			"headers", t.Headers(),
			"resolution", res.String(),
			"rows", t.NumRows(),
		)
	}

	c := &Catalog{
		res:     res,
		types:   make(map[string][]string),
		records: make(map[areaType][]domain.FaultRecord),
	}

	if t.Empty() || !res.Valid() {
		return c
	}

	seenAreas := make(map[string]struct{})
	seenTypes := make(map[areaType]struct{})
	for i := 0; i < t.NumRows(); i++ {
		rec := domain.FaultRecord{
			Area:        t.Cell(i, res.Area),
			Type:        t.Cell(i, res.Type),
			Code:        t.Cell(i, res.Code),
			Description: t.Cell(i, res.Description),
		}

		if _, ok := seenAreas[rec.Area]; !ok {
			seenAreas[rec.Area] = struct{}{}
			c.areas = append(c.areas, rec.Area)
		}

		key := areaType{rec.Area, rec.Type}
		if _, ok := seenTypes[key]; !ok {
			seenTypes[key] = struct{}{}
			c.types[rec.Area] = append(c.types[rec.Area], rec.Type)
		}

		// Duplicates are preserved: the selector must show the catalog
		// as it is, not a deduplicated view of it.
		c.records[key] = append(c.records[key], rec)
	}

	sort.Strings(c.areas)
	for area := range c.types {
		sort.Strings(c.types[area])
	}

	return c
}

// Resolution reports which columns back the index.
func (c *Catalog) Resolution() Resolution {
	return c.res
}

// Areas returns the distinct area values, sorted. An empty catalog yields
// an empty slice, never an error.
func (c *Catalog) Areas() []string {
	return c.areas
}

// Types returns the distinct type values under an area, sorted. An unknown
// area yields an empty slice.
func (c *Catalog) Types(area string) []string {
	return c.types[area]
}

// Records returns the catalog rows matching area and type exactly, in
// catalog order, duplicates included.
func (c *Catalog) Records(area, typ string) []domain.FaultRecord {
	return c.records[areaType{area, typ}]
}

// Labels returns the combined selector labels for the (area, type) filter.
// When nothing matches, the list degrades to the single "no data" sentinel
// so a selection control is never empty; submitting the sentinel is the
// caller's to reject.
func (c *Catalog) Labels(area, typ string) []string {
	recs := c.Records(area, typ)
	if len(recs) == 0 {
		return []string{domain.NoDataLabel}
	}
	labels := make([]string, len(recs))
	for i, r := range recs {
		labels[i] = r.Label()
	}
	return labels
}
