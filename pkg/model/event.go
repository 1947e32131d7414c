package model

import "time"

// Reservation lifecycle event types published to the reservation-events
// topic, keyed by stable for per-tenant ordering.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"

	EventActivityCompleted = "activity.completed"
)

type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	StableID      string    `json:"stable_id"`
	FacilityID    string    `json:"facility_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	HorseCount    int       `json:"horse_count"`
	ContactPhone  string    `json:"contact_phone,omitempty"`
	UserFullName  string    `json:"user_full_name,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type ActivityEvent struct {
	Type        string    `json:"type"`
	ActivityID  string    `json:"activity_id"`
	StableID    string    `json:"stable_id"`
	Title       string    `json:"title"`
	Points      int       `json:"points"`
	CompletedBy string    `json:"completed_by,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
