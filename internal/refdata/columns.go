package refdata

import (
	"fmt"
	"strings"
)

// Resolution records which physical column serves each logical catalog
// column. It is computed once per load, deterministic for a given header
// row, and exposed so a caller can inspect or override the outcome.
type Resolution struct {
	Area        int
	Type        int
	Code        int
	Description int
}

// String renders the resolution for logging against a table's headers.
func (r Resolution) String() string {
	return fmt.Sprintf("area=%d type=%d code=%d description=%d", r.Area, r.Type, r.Code, r.Description)
}

// Valid reports whether every logical column found a physical one.
func (r Resolution) Valid() bool {
	return r.Area >= 0 && r.Type >= 0 && r.Code >= 0 && r.Description >= 0
}

// ColumnOverride pins logical columns to explicit header names, bypassing
// the heuristic for the columns it names. Empty fields keep the heuristic.
type ColumnOverride struct {
	Area        string
	Type        string
	Code        string
	Description string
}

// columnSpec drives the three-step resolution for one logical column.
type columnSpec struct {
	canonical string   // exact match on the normalized header
	synonyms  []string // substring match, tried in order
	position  int      // fixed fallback; -1 means last column
}

var (
	areaSpec = columnSpec{canonical: "AREA", synonyms: []string{"AREA", "ZONA"}, position: 0}
	typeSpec = columnSpec{canonical: "TIPO", synonyms: []string{"TIPO", "TYPE"}, position: 1}
	codeSpec = columnSpec{canonical: "CODIGO DE FALLO", synonyms: []string{"COD", "ID", "NUM"}, position: 2}
	descSpec = columnSpec{canonical: "SUB MODO DE FALLA", synonyms: []string{"SUB", "MODO", "DESC", "SINTOMA", "DETALLE"}, position: -1}
)

// ResolveColumns maps the four logical catalog columns onto a table.
//
// Per column the strategies run in priority order: exact case- and
// accent-insensitive match on the canonical name, then the first header
// containing a known synonym, then a fixed positional fallback (first,
// second, third, last). An empty table resolves every column to -1.
func ResolveColumns(t Table, override *ColumnOverride) Resolution {
	res := Resolution{
		Area:        resolveColumn(t, areaSpec),
		Type:        resolveColumn(t, typeSpec),
		Code:        resolveColumn(t, codeSpec),
		Description: resolveColumn(t, descSpec),
	}

	if override != nil {
		applyOverride(t, &res.Area, override.Area)
		applyOverride(t, &res.Type, override.Type)
		applyOverride(t, &res.Code, override.Code)
		applyOverride(t, &res.Description, override.Description)
	}

	return res
}

func applyOverride(t Table, target *int, name string) {
	if name == "" {
		return
	}
	if col := t.ColumnByName(name); col >= 0 {
		*target = col
	}
}

func resolveColumn(t Table, spec columnSpec) int {
	n := t.NumColumns()
	if n == 0 {
		return -1
	}

	if col := t.ColumnByName(spec.canonical); col >= 0 {
		return col
	}

	for _, syn := range spec.synonyms {
		for col, header := range t.normalized {
			if strings.Contains(header, syn) {
				return col
			}
		}
	}

	if spec.position < 0 || spec.position >= n {
		return n - 1
	}
	return spec.position
}
