package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDetail(t *testing.T) {
	tests := []struct {
		sets, reps, time, unit string
		want                   string
	}{
		{"3", "10", "", "sec", "3 sets x 10 reps"},
		{"3", "", "", "sec", "3 sets"},
		{"", "12", "", "sec", "12 reps"},
		{"", "", "60", "sec", "60 sec"},
		{"", "", "5", "min", "5 min"},
		{"4", "8", "90", "sec", "4 sets x 8 reps, 90 sec"},
		{"2", "", "30", "min", "2 sets, 30 min"},
		{" ", "", "", "sec", ""},
		{"", "", "45", "hours", "45 sec"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDetail(tt.sets, tt.reps, tt.time, tt.unit))
	}
}
