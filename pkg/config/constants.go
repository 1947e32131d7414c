package config

import (
	"time"

	"paddock/pkg/model"
)

// Weekday and its values live in pkg/model so the model types stay a leaf
// package; they are re-exported here for the config-driven call sites.
type Weekday = model.Weekday

const (
	Sunday    = model.Sunday
	Monday    = model.Monday
	Tuesday   = model.Tuesday
	Wednesday = model.Wednesday
	Thursday  = model.Thursday
	Friday    = model.Friday
	Saturday  = model.Saturday
)

// WeekdayOf maps a concrete instant to its schedule key.
func WeekdayOf(t time.Time) Weekday {
	return model.WeekdayOf(t)
}

// Stable member roles. Owners and admins may override limited/closed
// availability classifications; plain members may not.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Activity lifecycle states.
const (
	ActivityOpen      = "open"
	ActivityDone      = "done"
	ActivityCancelled = "cancelled"
)

// Workload ledger entry sources.
const (
	WorkloadSourceActivity    = "activity"
	WorkloadSourceReservation = "reservation"
)
