package model

import "time"

type Horse struct {
	ID           string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StableID     string           `json:"stable_id" bson:"stable_id" validate:"required,mongodb"`
	Name         string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Breed        string           `json:"breed,omitempty" bson:"breed" validate:"omitempty,min=2,max=100"`
	DateOfBirth  *time.Time       `json:"date_of_birth,omitempty" bson:"date_of_birth" validate:"omitempty"`
	TackLabels   []string         `json:"tack_labels,omitempty" bson:"tack_labels" validate:"omitempty,max=30,dive,required"`
	Vaccinations []Vaccination    `json:"vaccinations,omitempty" bson:"vaccinations" validate:"omitempty,dive"`
	Transports   []TransportEntry `json:"transports,omitempty" bson:"transports" validate:"omitempty,dive"`
	Notes        string           `json:"notes,omitempty" bson:"notes" validate:"omitempty,max=2000"`
	CreatedAt    time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type Vaccination struct {
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	AdministeredAt time.Time `json:"administered_at" bson:"administered_at" validate:"required"`
	ValidUntil     time.Time `json:"valid_until" bson:"valid_until" validate:"required,gtfield=AdministeredAt"`
}

type TransportEntry struct {
	DepartedAt  time.Time  `json:"departed_at" bson:"departed_at" validate:"required"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty" bson:"returned_at" validate:"omitempty,gtfield=DepartedAt"`
	Destination string     `json:"destination" bson:"destination" validate:"required,min=2,max=200"`
	Notes       string     `json:"notes,omitempty" bson:"notes" validate:"omitempty,max=2000"`
}

type HorseUpdate struct {
	Name        string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Breed       string     `json:"breed,omitempty" validate:"omitempty,min=2,max=100"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" validate:"omitempty"`
	TackLabels  *[]string  `json:"tack_labels,omitempty" validate:"omitempty,max=30,dive,required"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
