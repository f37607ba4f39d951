package services

import (
	"log"
	"time"

	"trip-planner-service/internal/domain"
)

// SchedulerConfig bounds the daily activity window in whole hours.
type SchedulerConfig struct {
	DayStartHour int
	DayEndHour   int
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{DayStartHour: 9, DayEndHour: 19}
}

// Scheduler turns ordered POI lists into concrete timed day plans.
type Scheduler struct {
	cfg SchedulerConfig
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.DayEndHour <= cfg.DayStartHour {
		cfg = DefaultSchedulerConfig()
	}
	return &Scheduler{cfg: cfg}
}

// ScheduleDay walks the ordered POIs first-fit: each activity starts at
// the previous one's end (day start for the first); an activity that
// would run past the day end spills over and the walk continues with
// the next POI. Travel time is recorded per activity but deliberately
// not deducted from the free-minutes budget.
func (s *Scheduler) ScheduleDay(
	ordered []domain.POI,
	base domain.Coordinates,
	date time.Time,
	mode domain.TransportMode,
) (domain.DaySchedule, []domain.POI) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), s.cfg.DayStartHour, 0, 0, 0, date.Location())
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), s.cfg.DayEndHour, 0, 0, 0, date.Location())

	schedule := domain.DaySchedule{
		Date: dayStart,
		Base: base,
	}

	var spillover []domain.POI
	cursor := dayStart
	prevLocation := base

	for _, poi := range ordered {
		duration := poi.VisitDurationMinutes()
		end := cursor.Add(time.Duration(duration) * time.Minute)

		if end.After(dayEnd) {
			spillover = append(spillover, poi)
			continue
		}

		travel, err := domain.EstimateTravelMinutes(prevLocation, poi.Coords, mode)
		if err != nil {
			log.Printf("op=scheduler.ScheduleDay travel_estimate_err=%v poi=%q", err, poi.Name)
			travel = 0
		}

		schedule.Activities = append(schedule.Activities, domain.Activity{
			POI:             poi,
			Start:           cursor,
			End:             end,
			DurationMinutes: duration,
			TravelMinutes:   int(travel),
		})
		schedule.TravelMinutes += int(travel)

		cursor = end
		prevLocation = poi.Coords
	}

	window := (s.cfg.DayEndHour - s.cfg.DayStartHour) * 60
	schedule.FreeMinutes = window - schedule.UsedMinutes()

	return schedule, spillover
}

// ScheduleDays schedules consecutive day groups starting at startDate.
// Spillover from one day is prepended to the next day's group; spillover
// from the final day is returned as unassigned.
func (s *Scheduler) ScheduleDays(
	dayGroups [][]domain.POI,
	base domain.Coordinates,
	startDate time.Time,
	mode domain.TransportMode,
) ([]domain.DaySchedule, []domain.POI) {
	schedules := make([]domain.DaySchedule, 0, len(dayGroups))
	var carry []domain.POI

	for d, group := range dayGroups {
		pois := append(append([]domain.POI(nil), carry...), group...)
		date := startDate.AddDate(0, 0, d)

		schedule, spill := s.ScheduleDay(pois, base, date, mode)
		schedules = append(schedules, schedule)
		carry = spill
	}

	return schedules, carry
}
