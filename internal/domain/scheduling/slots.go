package scheduling

import (
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"
)

// GenerateSlots lists every window of durationHours on the calendar day of date, stepping by
// granularityHours from the resource's opening time and ending no later than closing time. The result
// is ascending by start. A closed day or a duration longer than the operating window yields an empty
// slice, not an error.
func GenerateSlots(res *resource.Resource, date time.Time, durationHours, granularityHours float64, loc *time.Location) ([]booking.TimeWindow, error) {
	duration, err := hoursToMinutes("duration", durationHours)
	if err != nil {
		return nil, err
	}
	granularity, err := hoursToMinutes("granularity", granularityHours)
	if err != nil {
		return nil, err
	}
	return generate(res, date, duration, granularity, loc, time.Time{}), nil
}

// GenerateSlotsFrom is GenerateSlots restricted to windows starting at or after notBefore.
func GenerateSlotsFrom(res *resource.Resource, date time.Time, durationHours, granularityHours float64, loc *time.Location, notBefore time.Time) ([]booking.TimeWindow, error) {
	duration, err := hoursToMinutes("duration", durationHours)
	if err != nil {
		return nil, err
	}
	granularity, err := hoursToMinutes("granularity", granularityHours)
	if err != nil {
		return nil, err
	}
	return generate(res, date, duration, granularity, loc, notBefore), nil
}

func generate(res *resource.Resource, date time.Time, duration, granularity int, loc *time.Location, notBefore time.Time) []booking.TimeWindow {
	if loc == nil {
		loc = time.UTC
	}
	local := date.In(loc)
	hours, ok := res.HoursOn(local)
	if !ok || duration > hours.Minutes() {
		return nil
	}

	y, m, d := local.Date()
	closeAt := time.Date(y, m, d, 0, hours.Close, 0, 0, loc)
	slots := make([]booking.TimeWindow, 0, (hours.Minutes()-duration)/granularity+1)
	for offset := 0; offset+duration <= hours.Minutes(); offset += granularity {
		wall := hours.Open + offset
		start := time.Date(y, m, d, 0, wall, 0, 0, loc)
		// wall clocks inside a spring-forward gap do not exist that day
		if minuteOfDay(start, loc) != wall {
			continue
		}
		if !notBefore.IsZero() && start.Before(notBefore) {
			continue
		}
		end := start.Add(time.Duration(duration) * time.Minute)
		if end.After(closeAt) {
			continue
		}
		w, err := booking.NewTimeWindow(start, end)
		if err != nil {
			continue
		}
		slots = append(slots, w)
	}
	return slots
}

// dayOffset returns noon of the calendar day n days after day, which is safe from DST edges.
func dayOffset(day time.Time, n int, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d+n, 12, 0, 0, 0, loc)
}

func minuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}
