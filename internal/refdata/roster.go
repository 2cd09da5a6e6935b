package refdata

import "sort"

// Roster maps technician control numbers to display names. Built once per
// load from the technician table; lookups are exact-match on the
// identifier.
type Roster struct {
	byID  map[string]string
	names []string
}

// Roster column headers as they appear in tecnicos.csv; both tolerate the
// usual trailing-space and accent noise via NormalizeHeader.
const (
	rosterIDHeader   = "ID"
	rosterNameHeader = "NOMBRE"
)

// NewRoster indexes the technician table. Column resolution is a reduced
// form of the catalog's: exact header match, then positional (identifier
// first, name second).
func NewRoster(t Table) *Roster {
	idCol := t.ColumnByName(rosterIDHeader)
	if idCol < 0 {
		idCol = 0
	}
	nameCol := t.ColumnByName(rosterNameHeader)
	if nameCol < 0 {
		nameCol = 1
	}

	r := &Roster{byID: make(map[string]string)}
	seen := make(map[string]struct{})
	for i := 0; i < t.NumRows(); i++ {
		id := t.Cell(i, idCol)
		name := t.Cell(i, nameCol)
		if id != "" {
			r.byID[id] = name
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			r.names = append(r.names, name)
		}
	}
	sort.Strings(r.names)
	return r
}

// Name resolves a control number to a display name. A miss returns the
// raw identifier and false: unknown technicians degrade to their number on
// the persisted row instead of blocking the workflow.
func (r *Roster) Name(controlNo string) (string, bool) {
	if name, ok := r.byID[controlNo]; ok {
		return name, true
	}
	return controlNo, false
}

// Names returns every distinct technician name, sorted, for the support
// staff selector.
func (r *Roster) Names() []string {
	return r.names
}

// Size returns the number of known control numbers.
func (r *Roster) Size() int {
	return len(r.byID)
}

// Cells maps work cells to the robots installed in them.
type Cells struct {
	cells  []string
	robots map[string][]string
}

// Cell map headers as they appear in celdas.csv.
const (
	cellHeader  = "CELDA"
	robotHeader = "ROBOT"
)

// NewCells indexes the cell/robot table, falling back to the first two
// columns when headers do not match.
func NewCells(t Table) *Cells {
	cellCol := t.ColumnByName(cellHeader)
	if cellCol < 0 {
		cellCol = 0
	}
	robotCol := t.ColumnByName(robotHeader)
	if robotCol < 0 {
		robotCol = 1
	}

	c := &Cells{robots: make(map[string][]string)}
	seenCells := make(map[string]struct{})
	seenPairs := make(map[[2]string]struct{})
	for i := 0; i < t.NumRows(); i++ {
		cell := t.Cell(i, cellCol)
		robot := t.Cell(i, robotCol)
		if cell == "" {
			continue
		}
		if _, ok := seenCells[cell]; !ok {
			seenCells[cell] = struct{}{}
			c.cells = append(c.cells, cell)
		}
		pair := [2]string{cell, robot}
		if robot == "" {
			continue
		}
		if _, ok := seenPairs[pair]; !ok {
			seenPairs[pair] = struct{}{}
			c.robots[cell] = append(c.robots[cell], robot)
		}
	}
	sort.Strings(c.cells)
	for cell := range c.robots {
		sort.Strings(c.robots[cell])
	}
	return c
}

// List returns the known cells, sorted.
func (c *Cells) List() []string {
	return c.cells
}

// Robots returns the robots configured for a cell; unknown cells yield an
// empty slice.
func (c *Cells) Robots(cell string) []string {
	return c.robots[cell]
}
