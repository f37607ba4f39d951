package domain

import "time"

// Activity is one scheduled visit within a day.
type Activity struct {
	POI             POI
	Start           time.Time
	End             time.Time
	DurationMinutes int

	// TravelMinutes is the estimated travel time from the previous stop
	// (or the day's base point for the first activity).
	TravelMinutes int
}

// DaySchedule is the ordered plan for one calendar date.
//
// FreeMinutes is the day window minus the sum of activity durations.
// Travel time between stops is accounted in TravelMinutes but deliberately
// not deducted from FreeMinutes; callers wanting a stricter budget subtract
// it themselves.
type DaySchedule struct {
	Date       time.Time
	Base       Coordinates
	Activities []Activity

	FreeMinutes   int
	TravelMinutes int
}

// UsedMinutes is the sum of activity durations for the day.
func (d DaySchedule) UsedMinutes() int {
	var total int
	for _, a := range d.Activities {
		total += a.DurationMinutes
	}
	return total
}
