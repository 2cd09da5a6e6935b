package downtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var anchor = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func TestMinutes(t *testing.T) {
	tests := []struct {
		name  string
		start Clock
		end   Clock
		want  int
	}{
		{"same day morning", Clock{8, 0}, Clock{9, 30}, 90},
		{"full shift", Clock{6, 0}, Clock{14, 0}, 480},
		{"equal times yield zero", Clock{14, 30}, Clock{14, 30}, 0},
		{"one minute", Clock{23, 58}, Clock{23, 59}, 1},
		{"crosses midnight", Clock{22, 0}, Clock{2, 0}, 240},
		{"short rollover", Clock{23, 30}, Clock{0, 15}, 45},
		{"rollover to same minute minus one", Clock{10, 0}, Clock{9, 59}, 1439},
		{"midnight to midnight", Clock{0, 0}, Clock{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Minutes(anchor, tt.start, tt.end))
		})
	}
}

// End-to-end with raw HHMM input: 2345 -> 0130 rolls over to 105 minutes.
func TestMinutes_FromRawInput(t *testing.T) {
	start := FromHHMM(2345)
	end := FromHHMM(130)

	assert.Equal(t, Clock{23, 45}, start)
	assert.Equal(t, Clock{1, 30}, end)
	assert.Equal(t, 105, Minutes(anchor, start, end))
}

// The calculator is total and never negative over clamped inputs.
func TestMinutes_NeverNegative(t *testing.T) {
	for sh := 0; sh < 24; sh += 3 {
		for eh := 0; eh < 24; eh += 3 {
			for _, m := range []int{0, 29, 59} {
				got := Minutes(anchor, Clock{sh, m}, Clock{eh, 59 - m})
				assert.GreaterOrEqual(t, got, 0)
				assert.Less(t, got, 24*60)
			}
		}
	}
}

// Out-of-range pairs are renormalized before the computation.
func TestMinutes_ClampsInputs(t *testing.T) {
	got := Minutes(anchor, Clock{25, 0}, Clock{99, 99})
	// 23:00 -> 23:59
	assert.Equal(t, 59, got)
}
