package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"robolog/internal/domain"
)

func catalogTable() Table {
	return NewTable(
		[]string{"AREA", "TIPO", "CODIGO DE FALLO", "SUB MODO DE FALLA"},
		[][]string{
			{"ROBOT", "ELECTRICO", "E01", "Falla de encoder"},
			{"ROBOT", "ELECTRICO", "E02", "Falla de motor"},
			{"ROBOT", "MECANICO", "M01", "Desgaste de gripper"},
			{"PLC", "SOFTWARE", "S01", "Error de programa"},
		},
	)
}

func TestCatalog_Cascade(t *testing.T) {
	c := NewCatalog(catalogTable(), nil, nil)

	assert.Equal(t, []string{"PLC", "ROBOT"}, c.Areas())
	assert.Equal(t, []string{"ELECTRICO", "MECANICO"}, c.Types("ROBOT"))
	assert.Equal(t, []string{"SOFTWARE"}, c.Types("PLC"))

	recs := c.Records("ROBOT", "ELECTRICO")
	assert.Equal(t, []domain.FaultRecord{
		{Area: "ROBOT", Type: "ELECTRICO", Code: "E01", Description: "Falla de encoder"},
		{Area: "ROBOT", Type: "ELECTRICO", Code: "E02", Description: "Falla de motor"},
	}, recs)

	assert.Equal(t, []string{"E01 - Falla de encoder", "E02 - Falla de motor"}, c.Labels("ROBOT", "ELECTRICO"))

	code, desc := domain.SplitLabel(c.Labels("ROBOT", "ELECTRICO")[0])
	assert.Equal(t, "E01", code)
	assert.Equal(t, "Falla de encoder", desc)
}

func TestCatalog_UnknownFilters(t *testing.T) {
	c := NewCatalog(catalogTable(), nil, nil)

	assert.Empty(t, c.Types("HIDRAULICA"))
	assert.Empty(t, c.Records("ROBOT", "SOFTWARE"))
	assert.Equal(t, []string{domain.NoDataLabel}, c.Labels("ROBOT", "SOFTWARE"))
}

func TestCatalog_DuplicateRowsPreserved(t *testing.T) {
	tbl := NewTable(
		[]string{"AREA", "TIPO", "CODIGO DE FALLO", "SUB MODO DE FALLA"},
		[][]string{
			{"ROBOT", "ELECTRICO", "E01", "Falla de encoder"},
			{"ROBOT", "ELECTRICO", "E01", "Falla de encoder"},
		},
	)
	c := NewCatalog(tbl, nil, nil)

	labels := c.Labels("ROBOT", "ELECTRICO")
	assert.Len(t, labels, 2, "duplicate catalog rows must not collapse")
	assert.Equal(t, labels[0], labels[1])
}

func TestCatalog_Empty(t *testing.T) {
	c := NewCatalog(NewTable(nil, nil), nil, nil)

	assert.Empty(t, c.Areas())
	assert.Empty(t, c.Types("ROBOT"))
	assert.Empty(t, c.Records("ROBOT", "ELECTRICO"))
	assert.Equal(t, []string{domain.NoDataLabel}, c.Labels("ROBOT", "ELECTRICO"))
}

func TestCatalog_RebuildIsDeterministic(t *testing.T) {
	first := NewCatalog(catalogTable(), nil, nil)
	second := NewCatalog(catalogTable(), nil, nil)

	assert.Equal(t, first.Resolution(), second.Resolution())
	assert.Equal(t, first.Areas(), second.Areas())
	assert.Equal(t, first.Labels("ROBOT", "ELECTRICO"), second.Labels("ROBOT", "ELECTRICO"))
}
