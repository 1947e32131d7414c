package model

import "time"

// FacilityReservation books a facility for one or more horses over a
// half-open interval [start_time, end_time). Times are minute-granular;
// services truncate to the minute before persisting or comparing.
//
// Older documents may carry the singular horse_id instead of horse_ids, or
// no horse fields at all. Readers must tolerate both; the capacity evaluator
// weighs such records as one horse.
type FacilityReservation struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StableID           string    `json:"stable_id" bson:"stable_id" validate:"required,mongodb"`
	FacilityID         string    `json:"facility_id" bson:"facility_id" validate:"required,mongodb"`
	StartTime          time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime            time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	HorseIDs           []string  `json:"horse_ids,omitempty" bson:"horse_ids" validate:"omitempty,max=50,dive,mongodb"`
	LegacyHorseID      string    `json:"horse_id,omitempty" bson:"horse_id,omitempty" validate:"omitempty,mongodb"`
	ExternalHorseCount int       `json:"external_horse_count" bson:"external_horse_count" validate:"omitempty,min=0,max=200"`
	ContactPhone       string    `json:"contact_phone,omitempty" bson:"contact_phone" validate:"omitempty,e164"`
	Notes              string    `json:"notes,omitempty" bson:"notes" validate:"omitempty,max=2000"`
	UserFullName       string    `json:"user_full_name,omitempty" bson:"user_full_name" validate:"omitempty,min=2,max=100"`
	UserEmail          string    `json:"user_email,omitempty" bson:"user_email" validate:"omitempty,email"`
	AdminOverride      bool      `json:"admin_override,omitempty" bson:"admin_override"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type FacilityReservationUpdate struct {
	StartTime          *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	EndTime            *time.Time `json:"end_time,omitempty" validate:"omitempty"`
	HorseIDs           *[]string  `json:"horse_ids,omitempty" validate:"omitempty,max=50,dive,mongodb"`
	ExternalHorseCount *int       `json:"external_horse_count,omitempty" validate:"omitempty,min=0,max=200"`
	ContactPhone       string     `json:"contact_phone,omitempty" validate:"omitempty,e164"`
	Notes              *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	UserFullName       string     `json:"user_full_name,omitempty" validate:"omitempty,min=2,max=100"`
	UserEmail          string     `json:"user_email,omitempty" validate:"omitempty,email"`
	AdminOverride      *bool      `json:"admin_override,omitempty"`
}
