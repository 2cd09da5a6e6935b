package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultRecord_Label(t *testing.T) {
	f := FaultRecord{Area: "ROBOT", Type: "ELECTRICO", Code: "E01", Description: "Falla de encoder"}
	assert.Equal(t, "E01 - Falla de encoder", f.Label())
}

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		wantCode string
		wantDesc string
	}{
		{"plain label", "E01 - Falla de encoder", "E01", "Falla de encoder"},
		{"separator inside description", "M02 - Gripper - sensor dañado", "M02", "Gripper - sensor dañado"},
		{"no separator uses whole label twice", "E99", "E99", "E99"},
		{"hyphen without spaces is not a separator", "E01-Falla", "E01-Falla", "E01-Falla"},
		{"empty label", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, desc := SplitLabel(tt.label)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

// Splitting then rejoining reproduces any label that contains the separator.
func TestSplitLabel_RoundTrip(t *testing.T) {
	labels := []string{
		"E01 - Falla de encoder",
		"M02 - Gripper - sensor dañado",
		"X - ",
		" - descripción sin código",
	}
	for _, label := range labels {
		code, desc := SplitLabel(label)
		assert.Equal(t, label, code+LabelSeparator+desc, "label %q", label)
	}
}

func TestNoDataLabel(t *testing.T) {
	// The sentinel must stay textually distinguishable from real labels.
	assert.NotContains(t, NoDataLabel, LabelSeparator)
	assert.True(t, IsNoData(NoDataLabel))
	assert.False(t, IsNoData("E01 - Falla de encoder"))
}
