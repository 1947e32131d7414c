package model

import "time"

// Weekday keys the facility availability schedule. Stored as the English day
// name so documents stay readable in the database.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// WeekdayOf maps a concrete instant to its schedule key.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday().String())
}
