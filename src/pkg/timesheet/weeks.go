package timesheet

import "time"

/*
WeekRanges holds the inclusive date bounds of the current week and the next
week. Weeks start on Monday.
*/
type WeekRanges struct {
	CurrentStart time.Time `json:"current_start"`
	CurrentEnd   time.Time `json:"current_end"`
	NextStart    time.Time `json:"next_start"`
	NextEnd      time.Time `json:"next_end"`
}

/*
ComputeWeekRanges returns the Monday-to-Sunday range containing today plus
the following week. The returned bounds are midnight dates in today's
location.
*/
func ComputeWeekRanges(today time.Time) WeekRanges {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	// time.Weekday has Sunday = 0; shift so Monday = 0.
	daysSinceMonday := (int(day.Weekday()) + 6) % 7

	currentStart := day.AddDate(0, 0, -daysSinceMonday)
	currentEnd := currentStart.AddDate(0, 0, 6)
	nextStart := currentEnd.AddDate(0, 0, 1)
	nextEnd := nextStart.AddDate(0, 0, 6)

	return WeekRanges{
		CurrentStart: currentStart,
		CurrentEnd:   currentEnd,
		NextStart:    nextStart,
		NextEnd:      nextEnd,
	}
}

/*
Classify places a date into the current or next week. ok is false when the
date falls outside both ranges; such rows are dropped by the reader.
*/
func (ranges WeekRanges) Classify(day time.Time) (flag WeekFlag, ok bool) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, ranges.CurrentStart.Location())

	if !date.Before(ranges.CurrentStart) && !date.After(ranges.CurrentEnd) {
		return CurrentWeek, true
	}
	if !date.Before(ranges.NextStart) && !date.After(ranges.NextEnd) {
		return NextWeek, true
	}
	return flag, false
}
