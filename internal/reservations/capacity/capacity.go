// Package capacity decides whether a candidate facility reservation fits
// alongside the reservations already on the books. It is a pure computation
// over records the caller has fetched: no I/O, no locks, safe for concurrent
// use.
package capacity

import (
	"errors"
	"sort"
	"time"

	"paddock/pkg/config"
	"paddock/pkg/model"
)

// Classification is the four-state outcome of evaluating a candidate booking.
type Classification string

const (
	// ClassAvailable means the requested horses fit and the range lies
	// fully within the facility's open hours.
	ClassAvailable Classification = "available"

	// ClassLimited means the horses fit but either part of the capacity is
	// already taken or the range falls outside open hours. Booking requires
	// an authorized override.
	ClassLimited Classification = "limited"

	// ClassFull means the requested horse count exceeds remaining capacity.
	ClassFull Classification = "full"

	// ClassClosed means the facility has no open blocks on that day.
	ClassClosed Classification = "closed"
)

// ErrInvalidInterval is returned when a candidate's end does not come after
// its start. Callers surface it as a validation failure.
var ErrInvalidInterval = errors.New("candidate end time must be after start time")

// Request is a candidate booking window.
type Request struct {
	Start      time.Time
	End        time.Time
	HorseCount int

	// ExcludeReservationID skips one reservation during overlap checks,
	// used when editing an existing booking.
	ExcludeReservationID string
}

// Slot is an alternative window offered when a candidate is rejected.
type Slot struct {
	Start             time.Time `json:"start_time"`
	End               time.Time `json:"end_time"`
	RemainingCapacity int       `json:"remaining_capacity"`
}

// Evaluation is the full outcome for one candidate.
type Evaluation struct {
	Classification     Classification              `json:"classification"`
	Overlapping        []model.FacilityReservation `json:"overlapping_reservations"`
	PeakExistingHorses int                         `json:"peak_existing_horses"`
	RemainingCapacity  int                         `json:"remaining_capacity"`
	WithinOpenHours    bool                        `json:"within_open_hours"`
	SuggestedSlots     []Slot                      `json:"suggested_slots,omitempty"`
}

// Evaluator carries the tuning knobs that are not per-facility.
type Evaluator struct {
	// MaxSuggestedSlots caps the number of alternatives offered on a full
	// rejection.
	MaxSuggestedSlots int

	// DefaultSlotGranularityMin is used when a facility has no slot
	// granularity configured.
	DefaultSlotGranularityMin int
}

func NewEvaluator(maxSuggestedSlots, defaultSlotGranularityMin int) *Evaluator {
	return &Evaluator{
		MaxSuggestedSlots:         maxSuggestedSlots,
		DefaultSlotGranularityMin: defaultSlotGranularityMin,
	}
}

// HorseCount returns the number of horse-slots a reservation occupies.
// The horse_ids array wins over the legacy singular horse_id field when both
// are present. Records that predate the at-least-one-horse rule count as 1.
func HorseCount(r *model.FacilityReservation) int {
	n := len(r.HorseIDs)
	if n == 0 && r.LegacyHorseID != "" {
		n = 1
	}
	n += r.ExternalHorseCount
	if n < 1 {
		return 1
	}
	return n
}

// Overlapping returns every reservation whose [start, end) interval
// intersects the candidate interval. Back-to-back reservations do not
// overlap, and a zero-duration probe overlaps nothing.
func Overlapping(reservations []model.FacilityReservation, start, end time.Time, excludeID string) []model.FacilityReservation {
	overlapping := make([]model.FacilityReservation, 0)
	if !start.Before(end) {
		return overlapping
	}
	for _, r := range reservations {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if r.StartTime.Before(end) && start.Before(r.EndTime) {
			overlapping = append(overlapping, r)
		}
	}
	return overlapping
}

type sweepEvent struct {
	at    time.Time
	delta int
}

// PeakConcurrentHorses computes the maximum number of horses simultaneously
// occupying the facility inside the candidate window. Each reservation
// contributes a +N event at its (clamped) start and a -N event at its
// (clamped) end; ends sort before starts at the same instant so a vacating
// reservation frees capacity before the next one claims it.
func PeakConcurrentHorses(overlapping []model.FacilityReservation, start, end time.Time) int {
	events := make([]sweepEvent, 0, 2*len(overlapping))
	for i := range overlapping {
		r := &overlapping[i]

		from := r.StartTime
		if from.Before(start) {
			from = start
		}
		to := r.EndTime
		if to.After(end) {
			to = end
		}
		if !from.Before(to) {
			continue
		}

		n := HorseCount(r)
		events = append(events, sweepEvent{at: from, delta: n})
		events = append(events, sweepEvent{at: to, delta: -n})
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		return events[i].delta < events[j].delta
	})

	peak, running := 0, 0
	for _, ev := range events {
		running += ev.delta
		if running > peak {
			peak = running
		}
	}
	return peak
}

// Evaluate classifies a candidate booking against a facility's configuration
// and its existing reservations. The reservations slice should cover the
// candidate's day; records outside the window are ignored. Evaluate itself
// performs no authorization: it only reports the classification, and the
// caller decides who may override a limited or closed result.
func (e *Evaluator) Evaluate(facility *model.Facility, reservations []model.FacilityReservation, req Request) (*Evaluation, error) {
	if !req.End.After(req.Start) {
		return nil, ErrInvalidInterval
	}

	loc := facility.Location()
	localStart := req.Start.In(loc)
	blocks := facility.BlocksFor(config.WeekdayOf(localStart))

	overlapping := Overlapping(reservations, req.Start, req.End, req.ExcludeReservationID)
	peak := PeakConcurrentHorses(overlapping, req.Start, req.End)
	remaining := facility.MaxHorsesPerReservation - peak
	if remaining < 0 {
		remaining = 0
	}

	eval := &Evaluation{
		Overlapping:        overlapping,
		PeakExistingHorses: peak,
		RemainingCapacity:  remaining,
		WithinOpenHours:    withinBlocks(blocks, localStart, req.End.In(loc)),
	}

	switch {
	case len(blocks) == 0:
		eval.Classification = ClassClosed

	case req.HorseCount > remaining:
		eval.Classification = ClassFull
		eval.SuggestedSlots = e.suggestSlots(facility, reservations, req, blocks, loc)

	case peak > 0 || !eval.WithinOpenHours:
		eval.Classification = ClassLimited

	default:
		eval.Classification = ClassAvailable
	}

	return eval, nil
}

// withinBlocks reports whether [start, end) lies entirely inside a single
// open block on start's day. Both times are in the facility's location.
func withinBlocks(blocks []model.TimeBlock, start, end time.Time) bool {
	for _, block := range blocks {
		from, okFrom := clockOnDay(start, block.From)
		to, okTo := clockOnDay(start, block.To)
		if !okFrom || !okTo {
			continue
		}
		if !start.Before(from) && !end.After(to) {
			return true
		}
	}
	return false
}

// clockOnDay resolves an "HH:mm" clock string to an instant on day's date.
func clockOnDay(day time.Time, clock string) (time.Time, bool) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), true
}

// suggestSlots scans forward and backward from the candidate start in
// slot-granularity increments, staying within the day's open blocks, and
// returns up to MaxSuggestedSlots windows of identical duration with spare
// capacity. Results are ordered by proximity to the original start; on a
// distance tie the earlier window wins.
func (e *Evaluator) suggestSlots(facility *model.Facility, reservations []model.FacilityReservation, req Request, blocks []model.TimeBlock, loc *time.Location) []Slot {
	if e.MaxSuggestedSlots <= 0 {
		return nil
	}

	granularity := facility.SlotGranularityMin
	if granularity <= 0 {
		granularity = e.DefaultSlotGranularityMin
	}
	if granularity <= 0 {
		return nil
	}

	step := time.Duration(granularity) * time.Minute
	duration := req.End.Sub(req.Start)
	localStart := req.Start.In(loc)

	// A day holds at most 24h/step candidate offsets in each direction.
	maxOffsets := int(24*time.Hour/step) + 1

	slots := make([]Slot, 0, e.MaxSuggestedSlots)
	for k := 1; k <= maxOffsets && len(slots) < e.MaxSuggestedSlots; k++ {
		offset := time.Duration(k) * step

		// Earlier window first so it wins the distance tie.
		for _, candidate := range []time.Time{localStart.Add(-offset), localStart.Add(offset)} {
			if len(slots) >= e.MaxSuggestedSlots {
				break
			}
			if candidate.Day() != localStart.Day() || candidate.Month() != localStart.Month() {
				continue
			}

			candidateEnd := candidate.Add(duration)
			if !withinBlocks(blocks, candidate, candidateEnd) {
				continue
			}

			overlapping := Overlapping(reservations, candidate, candidateEnd, req.ExcludeReservationID)
			peak := PeakConcurrentHorses(overlapping, candidate, candidateEnd)
			remaining := facility.MaxHorsesPerReservation - peak
			if remaining <= 0 {
				continue
			}

			slots = append(slots, Slot{
				Start:             candidate,
				End:               candidateEnd,
				RemainingCapacity: remaining,
			})
		}
	}

	return slots
}
