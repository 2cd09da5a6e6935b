package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AREA", "AREA"},
		{"AREA ", "AREA"},
		{"  Área ", "AREA"},
		{"Código de Fallo", "CODIGO DE FALLO"},
		{"sub  modo   de falla", "SUB MODO DE FALLA"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.in), "input %q", tt.in)
	}
}

func TestTable_Cell_Bounds(t *testing.T) {
	tbl := NewTable([]string{"A", "B"}, [][]string{{"1", "2"}, {"3"}})

	assert.Equal(t, "1", tbl.Cell(0, 0))
	assert.Equal(t, "", tbl.Cell(1, 1), "ragged row reads as empty")
	assert.Equal(t, "", tbl.Cell(-1, 0))
	assert.Equal(t, "", tbl.Cell(5, 0))
	assert.Equal(t, "", tbl.Cell(0, -1))
}

func TestTable_Distinct(t *testing.T) {
	tbl := NewTable([]string{"AREA", "TIPO"}, [][]string{
		{"ROBOT", "ELECTRICO"},
		{"PLC", "SOFTWARE"},
		{"ROBOT", "MECANICO"},
	})

	assert.Equal(t, []string{"PLC", "ROBOT"}, tbl.Distinct(0))
	assert.Equal(t, []string{"ELECTRICO", "MECANICO"}, tbl.DistinctWhere(1, 0, "ROBOT"))
	assert.Empty(t, tbl.DistinctWhere(1, 0, "HIDRAULICA"))
	assert.Nil(t, tbl.Distinct(9))
}

func TestTable_ColumnByName(t *testing.T) {
	tbl := NewTable([]string{" Área", "CODIGO DE FALLO "}, nil)

	assert.Equal(t, 0, tbl.ColumnByName("AREA"))
	assert.Equal(t, 1, tbl.ColumnByName("Código de Fallo"))
	assert.Equal(t, -1, tbl.ColumnByName("TIPO"))
}
