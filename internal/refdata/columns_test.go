package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumns_Canonical(t *testing.T) {
	tbl := NewTable([]string{"AREA", "TIPO", "CODIGO DE FALLO", "SUB MODO DE FALLA"}, nil)
	res := ResolveColumns(tbl, nil)

	assert.Equal(t, Resolution{Area: 0, Type: 1, Code: 2, Description: 3}, res)
	assert.True(t, res.Valid())
}

func TestResolveColumns_CanonicalWithNoise(t *testing.T) {
	// Trailing spaces and accents must not defeat the exact match.
	tbl := NewTable([]string{"Área ", " Tipo", "Código de Fallo", "Sub Modo de Falla "}, nil)
	res := ResolveColumns(tbl, nil)

	assert.Equal(t, Resolution{Area: 0, Type: 1, Code: 2, Description: 3}, res)
}

func TestResolveColumns_Synonyms(t *testing.T) {
	tbl := NewTable([]string{"ZONA PLANTA", "CLASE", "COD FALLA", "SINTOMA OBSERVADO"}, nil)
	res := ResolveColumns(tbl, nil)

	assert.Equal(t, 0, res.Area, "ZONA synonym")
	assert.Equal(t, 2, res.Code, "COD synonym")
	assert.Equal(t, 3, res.Description, "SINTOMA synonym")
	// "CLASE" matches no TIPO synonym, so type falls back to position 1.
	assert.Equal(t, 1, res.Type)
}

func TestResolveColumns_PositionalFallback(t *testing.T) {
	tbl := NewTable([]string{"C1", "C2", "C3", "C4", "C5"}, nil)
	res := ResolveColumns(tbl, nil)

	assert.Equal(t, Resolution{Area: 0, Type: 1, Code: 2, Description: 4}, res)
}

func TestResolveColumns_EmptyTable(t *testing.T) {
	res := ResolveColumns(NewTable(nil, nil), nil)

	assert.Equal(t, Resolution{Area: -1, Type: -1, Code: -1, Description: -1}, res)
	assert.False(t, res.Valid())
}

func TestResolveColumns_Deterministic(t *testing.T) {
	headers := []string{"ZONA", "MODO DE FALLA", "NUMERO", "DETALLE"}
	first := ResolveColumns(NewTable(headers, nil), nil)
	second := ResolveColumns(NewTable(headers, nil), nil)

	assert.Equal(t, first, second)
}

func TestResolveColumns_Override(t *testing.T) {
	tbl := NewTable([]string{"AREA", "TIPO", "REF", "CODIGO DE FALLO"}, nil)

	auto := ResolveColumns(tbl, nil)
	assert.Equal(t, 3, auto.Code, "canonical wins without override")

	forced := ResolveColumns(tbl, &ColumnOverride{Code: "REF"})
	assert.Equal(t, 2, forced.Code)
	assert.Equal(t, auto.Area, forced.Area, "untouched columns keep the heuristic")

	// Override naming a missing header is ignored rather than breaking resolution.
	ignored := ResolveColumns(tbl, &ColumnOverride{Code: "NO SUCH COLUMN"})
	assert.Equal(t, auto, ignored)
}
