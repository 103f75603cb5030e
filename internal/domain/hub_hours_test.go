package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatingHours_DailyDuration(t *testing.T) {
	tests := []struct {
		name    string
		hours   OperatingHours
		want    time.Duration
		wantErr bool
	}{
		{"same-day", OperatingHours{Open: "08:00", Close: "17:00"}, 9 * time.Hour, false},
		{"wraps-midnight", OperatingHours{Open: "22:00", Close: "06:00"}, 8 * time.Hour, false},
		{"equal-is-invalid", OperatingHours{Open: "08:00", Close: "08:00"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.hours.DailyDuration()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOperatingHours_OpenOn(t *testing.T) {
	h := OperatingHours{Open: "08:00", Close: "17:00", Weekdays: []time.Weekday{time.Monday, time.Tuesday}}
	assert.True(t, h.OpenOn(time.Monday), "expected open on Monday")
	assert.False(t, h.OpenOn(time.Sunday), "expected closed on Sunday")

	allDays := OperatingHours{Open: "08:00", Close: "17:00"}
	assert.True(t, allDays.OpenOn(time.Sunday), "empty Weekdays should mean open every day")
}

func TestOptimizationJob_IsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobPending, false},
		{JobProcessing, false},
		{JobCompleted, true},
		{JobFailed, true},
		{JobCancelled, true},
	}
	for _, tt := range tests {
		j := OptimizationJob{Status: tt.status}
		assert.Equal(t, tt.want, j.IsTerminal(), "status %s", tt.status)
	}
}
