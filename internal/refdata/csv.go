package refdata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// LoadTable reads one reference CSV into a Table.
//
// Files exported from Latin-locale Excel installs frequently arrive
// semicolon-separated in Latin-1. The tell is a header that parses to a
// single column: when that happens the file is re-read with ';' as the
// delimiter and decoded from ISO 8859-1 before parsing.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseTable(data)
}

// ParseTable parses raw CSV bytes with the same delimiter and encoding
// fallback as LoadTable.
func ParseTable(data []byte) (Table, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	records, err := parseCSV(data, ',')
	if err != nil || narrowHeader(records) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			decoded = data
		}
		alt, altErr := parseCSV(decoded, ';')
		if altErr == nil && !narrowHeader(alt) {
			records = alt
		} else if err != nil {
			return Table{}, fmt.Errorf("parse csv: %w", err)
		}
	}

	if len(records) == 0 {
		return Table{}, nil
	}
	return NewTable(records[0], records[1:]), nil
}

func parseCSV(data []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1 // ragged exports are tolerated; Cell() bounds-checks
	r.LazyQuotes = true
	return r.ReadAll()
}

func narrowHeader(records [][]string) bool {
	return len(records) > 0 && len(records[0]) < 2
}
