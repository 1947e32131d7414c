package model

import "time"

// Facility is a bookable physical resource (arena, paddock, wash stall).
// Capacity semantics: MaxHorsesPerReservation is the shared horse pool that
// concurrent reservations draw from; Capacity is the facility's nominal
// reservation count when the pool is 1 (kept for display and legacy data).
type Facility struct {
	ID                      string                  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StableID                string                  `json:"stable_id" bson:"stable_id" validate:"required,mongodb"`
	Name                    string                  `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Capacity                int                     `json:"capacity" bson:"capacity" validate:"required,min=1,max=200"`
	MaxHorsesPerReservation int                     `json:"max_horses_per_reservation" bson:"max_horses_per_reservation" validate:"required,min=1,max=200"`
	SlotGranularityMin      int                     `json:"slot_granularity_min" bson:"slot_granularity_min" validate:"required,min=5,max=240"`
	AvailabilitySchedule    map[Weekday][]TimeBlock `json:"availability_schedule,omitempty" bson:"availability_schedule" validate:"omitempty,dive,dive"`
	TimeZone                string                  `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	CreatedAt               time.Time               `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// TimeBlock is one open window on a weekday, "HH:mm" wall-clock times in the
// facility's time zone. A weekday with no blocks means the facility is closed
// that day.
type TimeBlock struct {
	From string `json:"from" bson:"from" validate:"required,clock_time"`
	To   string `json:"to" bson:"to" validate:"required,clock_time"`
}

type FacilityUpdate struct {
	Name                    string                   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Capacity                *int                     `json:"capacity,omitempty" validate:"omitempty,min=1,max=200"`
	MaxHorsesPerReservation *int                     `json:"max_horses_per_reservation,omitempty" validate:"omitempty,min=1,max=200"`
	SlotGranularityMin      *int                     `json:"slot_granularity_min,omitempty" validate:"omitempty,min=5,max=240"`
	AvailabilitySchedule    *map[Weekday][]TimeBlock `json:"availability_schedule,omitempty" validate:"omitempty,dive,dive"`
	TimeZone                string                   `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}

// BlocksFor returns the open blocks for a weekday. Nil means closed.
func (f *Facility) BlocksFor(day Weekday) []TimeBlock {
	if f.AvailabilitySchedule == nil {
		return nil
	}
	return f.AvailabilitySchedule[day]
}

// Location resolves the facility time zone, defaulting to UTC when unset or
// unknown.
func (f *Facility) Location() *time.Location {
	if f.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(f.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
