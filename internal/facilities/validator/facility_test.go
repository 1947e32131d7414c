package validator

import (
	"testing"

	"paddock/pkg/config"
	"paddock/pkg/logger"
	"paddock/pkg/model"
)

func newTestValidator(t *testing.T) *FacilityValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	return NewFacilityValidator(log)
}

func validFacility() *model.Facility {
	return &model.Facility{
		StableID:                "65f000000000000000000001",
		Name:                    "Indoor Arena",
		Capacity:                4,
		MaxHorsesPerReservation: 4,
		SlotGranularityMin:      30,
		AvailabilitySchedule: map[config.Weekday][]model.TimeBlock{
			config.Monday: {{From: "08:00", To: "20:00"}},
		},
	}
}

func TestValidate_AcceptsWellFormedFacility(t *testing.T) {
	v := newTestValidator(t)
	if err := v.Validate(validFacility()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ClockTimeFormat(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"valid window", "08:00", "20:00", false},
		{"midnight start", "00:00", "06:00", false},
		{"late close", "22:00", "23:59", false},
		{"hour out of range", "24:00", "25:00", true},
		{"minute out of range", "08:60", "09:00", true},
		{"missing leading zero", "8:00", "09:00", true},
		{"inverted block", "20:00", "08:00", true},
		{"zero-length block", "08:00", "08:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facility := validFacility()
			facility.AvailabilitySchedule = map[config.Weekday][]model.TimeBlock{
				config.Tuesday: {{From: tt.from, To: tt.to}},
			}
			err := v.Validate(facility)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for block %s-%s, got nil", tt.from, tt.to)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for block %s-%s: %v", tt.from, tt.to, err)
			}
		})
	}
}

func TestValidate_RejectsUnknownWeekday(t *testing.T) {
	v := newTestValidator(t)

	facility := validFacility()
	facility.AvailabilitySchedule = map[config.Weekday][]model.TimeBlock{
		config.Weekday("Noday"): {{From: "08:00", To: "10:00"}},
	}

	if err := v.Validate(facility); err == nil {
		t.Fatal("expected error for unknown weekday key, got nil")
	}
}

func TestValidate_RequiresCapacityBounds(t *testing.T) {
	v := newTestValidator(t)

	facility := validFacility()
	facility.MaxHorsesPerReservation = 0

	if err := v.Validate(facility); err == nil {
		t.Fatal("expected error for zero max horses, got nil")
	}
}

func TestValidateDayBlocks(t *testing.T) {
	v := newTestValidator(t)

	if err := v.ValidateDayBlocks(config.Saturday, []model.TimeBlock{{From: "09:00", To: "12:00"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateDayBlocks(config.Saturday, nil); err != nil {
		t.Errorf("empty blocks should be accepted (closes the day): %v", err)
	}
	if err := v.ValidateDayBlocks(config.Weekday("Freitag"), nil); err == nil {
		t.Error("expected error for unknown weekday, got nil")
	}
}
