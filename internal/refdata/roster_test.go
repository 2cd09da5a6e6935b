package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoster_Name(t *testing.T) {
	r := NewRoster(NewTable(
		[]string{"ID", "Nombre"},
		[][]string{
			{"10234", "Juan Pérez"},
			{"10555", "Ana Ruiz"},
		},
	))

	name, ok := r.Name("10234")
	assert.True(t, ok)
	assert.Equal(t, "Juan Pérez", name)

	// Unknown control numbers degrade to the identifier itself.
	name, ok = r.Name("99999")
	assert.False(t, ok)
	assert.Equal(t, "99999", name)

	assert.Equal(t, []string{"Ana Ruiz", "Juan Pérez"}, r.Names())
	assert.Equal(t, 2, r.Size())
}

func TestRoster_PositionalFallback(t *testing.T) {
	// Headers nobody recognizes still index by position: id, name.
	r := NewRoster(NewTable(
		[]string{"No Control", "Tecnico"},
		[][]string{{"10001", "Luis Soto"}},
	))

	name, ok := r.Name("10001")
	assert.True(t, ok)
	assert.Equal(t, "Luis Soto", name)
}

func TestRoster_Empty(t *testing.T) {
	r := NewRoster(NewTable(nil, nil))

	name, ok := r.Name("10234")
	assert.False(t, ok)
	assert.Equal(t, "10234", name)
	assert.Empty(t, r.Names())
}

func TestCells(t *testing.T) {
	c := NewCells(NewTable(
		[]string{"CELDA", "ROBOT"},
		[][]string{
			{"C-12", "KR-240-3"},
			{"C-12", "KR-210-1"},
			{"C-07", "KR-150-2"},
			{"C-12", "KR-240-3"}, // duplicate pair collapses
		},
	))

	assert.Equal(t, []string{"C-07", "C-12"}, c.List())
	assert.Equal(t, []string{"KR-210-1", "KR-240-3"}, c.Robots("C-12"))
	assert.Empty(t, c.Robots("C-99"))
}
