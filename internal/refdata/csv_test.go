package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadTable_CommaSeparated(t *testing.T) {
	path := writeTemp(t, "catalogo.csv", []byte("AREA,TIPO,CODIGO DE FALLO,SUB MODO DE FALLA\nROBOT,ELECTRICO,E01,Falla de encoder\n"))

	tbl, err := LoadTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"AREA", "TIPO", "CODIGO DE FALLO", "SUB MODO DE FALLA"}, tbl.Headers())
	assert.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, "E01", tbl.Cell(0, 2))
}

func TestLoadTable_SemicolonLatin1Fallback(t *testing.T) {
	// "Código" in Latin-1: the ó is byte 0xF3. A comma parse sees one
	// column, which triggers the semicolon/Latin-1 retry.
	data := []byte("AREA;TIPO;C\xf3digo de Fallo;DETALLE\nROBOT;ELECTRICO;E01;Falla de encoder\n")
	path := writeTemp(t, "catalogo_excel.csv", data)

	tbl, err := LoadTable(path)
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.NumColumns())
	assert.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, 2, tbl.ColumnByName("CODIGO DE FALLO"), "decoded accent folds to the canonical name")
	assert.Equal(t, "Falla de encoder", tbl.Cell(0, 3))
}

func TestLoadTable_BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("ID,Nombre\n10234,Juan\n")...)
	path := writeTemp(t, "tecnicos.csv", data)

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.ColumnByName("ID"))
}

func TestLoadTable_Empty(t *testing.T) {
	path := writeTemp(t, "vacio.csv", nil)

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	assert.True(t, tbl.Empty())
	assert.Equal(t, 0, tbl.NumColumns())
}

func TestLoadTable_MissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestParseTable_RaggedRows(t *testing.T) {
	tbl, err := ParseTable([]byte("A,B,C\n1,2\n4,5,6,7\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "", tbl.Cell(0, 2))
	assert.Equal(t, "6", tbl.Cell(1, 2))
}
