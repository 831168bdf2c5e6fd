package scheduling

import (
	"math"
	"time"

	"bay-scheduler/internal/domain/booking"

	"github.com/google/uuid"
)

const (
	neutralScore = 0.5

	closeGapMinutes = 30
	wideGapMinutes  = 60

	// preference score decays to zero this far outside the preferred range
	preferenceFalloffMinutes = 240
)

// timeOfDayScore favors early starts and tapers through the afternoon.
func timeOfDayScore(startMinute int) float64 {
	switch {
	case startMinute < 9*60:
		return 1.0
	case startMinute < 11*60:
		return 0.9
	case startMinute < 13*60:
		return 0.7
	case startMinute < 15*60:
		return 0.5
	case startMinute < 16*60:
		return 0.35
	default:
		return 0.2
	}
}

// dayLoad is a resource's booking count that day next to the busiest eligible resource.
type dayLoad struct {
	count   int
	peerMax int
	peers   int
}

// loadBalanceScore favors the resource with fewer bookings than its peers that day. A lone eligible
// resource has nothing to balance against and scores neutral.
func loadBalanceScore(load dayLoad) float64 {
	if load.peers < 2 {
		return neutralScore
	}
	if load.peerMax <= 0 {
		return 1.0
	}
	return 1.0 - float64(load.count)/float64(load.peerMax+1)
}

// gapScore rewards slots that sit close to an adjacent booking and penalizes wide idle gaps.
// The second return value is the smallest gap in minutes, -1 when the resource is empty that day.
func gapScore(slot booking.TimeWindow, sameDay []*booking.Booking) (float64, int) {
	if len(sameDay) == 0 {
		return neutralScore, -1
	}
	best := time.Duration(math.MaxInt64)
	for _, b := range sameDay {
		if g := slot.Gap(b.Window()); g < best {
			best = g
		}
	}
	minutes := int(best.Minutes())
	switch {
	case minutes <= closeGapMinutes:
		return 1.0, minutes
	case minutes <= wideGapMinutes:
		return 0.6, minutes
	default:
		return 0.2, minutes
	}
}

func efficiencyScore(efficiency map[string]float64, resourceID string) float64 {
	v, ok := efficiency[resourceID]
	if !ok || math.IsNaN(v) {
		return neutralScore
	}
	return clamp01(v)
}

func preferenceScore(pref *ClockRange, startMinute int) float64 {
	if pref == nil {
		return neutralScore
	}
	if startMinute >= pref.From && startMinute < pref.To {
		return 1.0
	}
	dist := pref.From - startMinute
	if startMinute >= pref.To {
		dist = startMinute - pref.To + 1
	}
	return clamp01(1.0 - float64(dist)/preferenceFalloffMinutes)
}

func overlapsClock(slot booking.TimeWindow, from, to int, loc *time.Location) bool {
	y, m, d := slot.Start().In(loc).Date()
	lunch, err := booking.NewTimeWindow(
		time.Date(y, m, d, 0, from, 0, 0, loc),
		time.Date(y, m, d, 0, to, 0, 0, loc),
	)
	if err != nil {
		return false
	}
	return slot.Overlaps(lunch)
}

// sameDayOccupying lists occupying bookings on resourceID starting on the slot's calendar day.
func sameDayOccupying(snapshot booking.Snapshot, resourceID string, day time.Time, loc *time.Location) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range snapshot.Occupying(resourceID, uuid.Nil) {
		if sameDay(b.Window().Start(), day, loc) {
			out = append(out, b)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
