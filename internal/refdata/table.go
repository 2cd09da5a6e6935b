// Package refdata loads and indexes the reference tables behind the
// maintenance form: the fault catalog, the technician roster, and the
// cell/robot map.
//
// Header naming across plant spreadsheets is wildly inconsistent ("AREA ",
// "Área", "CODIGO DE FALLO", "Cod. Falla"), so every table normalizes its
// headers once at load time (trimmed, upper-cased, diacritics folded)
// and all column resolution
// happens against that normalized form. Queries never re-inspect headers.
package refdata

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Table is an immutable in-memory copy of one reference table.
type Table struct {
	headers    []string // raw headers, trimmed
	normalized []string // folded headers used for column resolution
	rows       [][]string
}

// NewTable builds a table from raw headers and rows. Headers are trimmed
// and a normalized copy is derived immediately; rows are stored as-is.
func NewTable(headers []string, rows [][]string) Table {
	trimmed := make([]string, len(headers))
	folded := make([]string, len(headers))
	for i, h := range headers {
		trimmed[i] = strings.TrimSpace(h)
		folded[i] = NormalizeHeader(h)
	}
	return Table{headers: trimmed, normalized: folded, rows: rows}
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.rows) == 0
}

// Headers returns the trimmed header names in column order.
func (t Table) Headers() []string {
	return t.headers
}

// NumColumns returns the header count.
func (t Table) NumColumns() int {
	return len(t.headers)
}

// NumRows returns the row count.
func (t Table) NumRows() int {
	return len(t.rows)
}

// Cell returns the value at (row, col), or "" when either index is out of
// bounds. Ragged rows from sloppy exports therefore read as empty cells.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 {
		return ""
	}
	r := t.rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Distinct returns the sorted distinct values of a column. An invalid
// column yields an empty slice.
func (t Table) Distinct(col int) []string {
	if col < 0 || col >= len(t.headers) {
		return nil
	}
	seen := make(map[string]struct{})
	var values []string
	for i := range t.rows {
		v := t.Cell(i, col)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// DistinctWhere returns the sorted distinct values of col restricted to
// rows whose whereCol equals whereVal exactly.
func (t Table) DistinctWhere(col, whereCol int, whereVal string) []string {
	if col < 0 || col >= len(t.headers) {
		return nil
	}
	seen := make(map[string]struct{})
	var values []string
	for i := range t.rows {
		if t.Cell(i, whereCol) != whereVal {
			continue
		}
		v := t.Cell(i, col)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// RowsWhere returns the indices of rows matching every (col, value)
// condition by exact string comparison, in table order.
func (t Table) RowsWhere(conds map[int]string) []int {
	var out []int
	for i := range t.rows {
		match := true
		for col, want := range conds {
			if t.Cell(i, col) != want {
				match = false
				break
			}
		}
		if match {
			out = append(out, i)
		}
	}
	return out
}

// ColumnByName returns the index of the column whose normalized header
// equals the normalized form of name, or -1.
func (t Table) ColumnByName(name string) int {
	want := NormalizeHeader(name)
	for i, h := range t.normalized {
		if h == want {
			return i
		}
	}
	return -1
}

// stripDiacritics decomposes and removes combining marks, so "Código"
// folds to "Codigo".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader folds a header name for resolution: whitespace trimmed,
// diacritics stripped, upper-cased, inner whitespace collapsed.
func NormalizeHeader(h string) string {
	s, _, err := transform.String(stripDiacritics, h)
	if err != nil {
		s = h
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}
