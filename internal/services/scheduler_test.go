package services

import (
	"testing"
	"time"

	"trip-planner-service/internal/domain"
)

func timedPOI(name string, minutes int) domain.POI {
	return domain.POI{
		Name:         name,
		Coords:       domain.Coordinates{Lat: 48.85, Lon: 2.35},
		VisitMinutes: minutes,
	}
}

func TestScheduleDayAssignsSequentialSlots(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := domain.Coordinates{Lat: 48.85, Lon: 2.35}

	pois := []domain.POI{
		timedPOI("first", 120),
		timedPOI("second", 60),
		timedPOI("third", 90),
	}

	schedule, spill := s.ScheduleDay(pois, base, date, domain.ModeWalk)
	if len(spill) != 0 {
		t.Fatalf("spillover = %d, want 0", len(spill))
	}
	if len(schedule.Activities) != 3 {
		t.Fatalf("activities = %d, want 3", len(schedule.Activities))
	}

	first := schedule.Activities[0]
	if first.Start.Hour() != 9 {
		t.Fatalf("first start = %v, want 09:00", first.Start)
	}
	for i := 1; i < len(schedule.Activities); i++ {
		prev, cur := schedule.Activities[i-1], schedule.Activities[i]
		if !cur.Start.Equal(prev.End) {
			t.Fatalf("activity %d starts %v, want previous end %v", i, cur.Start, prev.End)
		}
	}

	// 10-hour window minus 270 minutes of visits.
	if schedule.FreeMinutes != 600-270 {
		t.Fatalf("free minutes = %d, want %d", schedule.FreeMinutes, 600-270)
	}
}

func TestScheduleDaySpillover(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := domain.Coordinates{Lat: 48.85, Lon: 2.35}

	pois := []domain.POI{
		timedPOI("morning", 300),
		timedPOI("afternoon", 240),
		timedPOI("too late", 120),
		timedPOI("short enough", 0), // falls back to its category default
	}
	pois[3].Category = domain.CategoryViewpoint // 30 minutes

	schedule, spill := s.ScheduleDay(pois, base, date, domain.ModeWalk)

	// 300+240 leaves 60 minutes; the 120 spills, the 30 still fits.
	if len(schedule.Activities) != 3 {
		t.Fatalf("activities = %d, want 3 (first-fit keeps the short one)", len(schedule.Activities))
	}
	if len(spill) != 1 || spill[0].Name != "too late" {
		t.Fatalf("spill = %v, want the 120 minute visit", spill)
	}

	dayEnd := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	for _, a := range schedule.Activities {
		if a.End.After(dayEnd) {
			t.Fatalf("activity %q ends %v, past day end", a.POI.Name, a.End)
		}
	}
}

func TestScheduleDaysCarriesSpillover(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := domain.Coordinates{Lat: 48.85, Lon: 2.35}

	groups := [][]domain.POI{
		{timedPOI("a", 300), timedPOI("b", 300), timedPOI("c", 120)},
		{timedPOI("d", 60)},
	}

	schedules, unassigned := s.ScheduleDays(groups, base, start, domain.ModeWalk)
	if len(schedules) != 2 {
		t.Fatalf("schedules = %d, want 2", len(schedules))
	}
	if len(unassigned) != 0 {
		t.Fatalf("unassigned = %d, want 0", len(unassigned))
	}

	// "c" spilled from day 1 and runs before "d" on day 2.
	day2 := schedules[1]
	if len(day2.Activities) != 2 || day2.Activities[0].POI.Name != "c" {
		t.Fatalf("day 2 activities = %v, want c then d", day2.Activities)
	}
	if !day2.Date.AddDate(0, 0, -1).Equal(schedules[0].Date) {
		t.Fatalf("day 2 date %v is not the day after %v", day2.Date, schedules[0].Date)
	}
}

func TestScheduleDaysFinalSpilloverUnassigned(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := domain.Coordinates{Lat: 48.85, Lon: 2.35}

	groups := [][]domain.POI{
		{timedPOI("a", 400), timedPOI("b", 400)},
	}

	schedules, unassigned := s.ScheduleDays(groups, base, start, domain.ModeWalk)
	if len(schedules) != 1 {
		t.Fatalf("schedules = %d, want 1", len(schedules))
	}
	if len(unassigned) != 1 || unassigned[0].Name != "b" {
		t.Fatalf("unassigned = %v, want b", unassigned)
	}
}
