package model

import (
	"testing"
	"time"
)

func TestFacility_BlocksFor(t *testing.T) {
	facility := &Facility{
		AvailabilitySchedule: map[Weekday][]TimeBlock{
			Monday: {{From: "08:00", To: "12:00"}, {From: "14:00", To: "20:00"}},
		},
	}

	if blocks := facility.BlocksFor(Monday); len(blocks) != 2 {
		t.Errorf("BlocksFor(Monday) returned %d blocks, want 2", len(blocks))
	}
	if blocks := facility.BlocksFor(Sunday); blocks != nil {
		t.Errorf("BlocksFor(Sunday) = %v, want nil for a closed day", blocks)
	}

	var bare Facility
	if blocks := bare.BlocksFor(Monday); blocks != nil {
		t.Errorf("BlocksFor() with nil schedule = %v, want nil", blocks)
	}
}

func TestFacility_Location(t *testing.T) {
	tests := []struct {
		name     string
		timeZone string
		want     string
	}{
		{
			name:     "explicit zone",
			timeZone: "America/New_York",
			want:     "America/New_York",
		},
		{
			name:     "empty zone defaults to UTC",
			timeZone: "",
			want:     "UTC",
		},
		{
			name:     "unknown zone falls back to UTC",
			timeZone: "Mars/Olympus_Mons",
			want:     "UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facility := &Facility{TimeZone: tt.timeZone}
			if got := facility.Location().String(); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2025-03-03 is a Monday.
	monday := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	if got := WeekdayOf(monday); got != Monday {
		t.Errorf("WeekdayOf() = %q, want %q", got, Monday)
	}
}
