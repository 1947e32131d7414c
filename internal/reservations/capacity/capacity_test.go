package capacity

import (
	"testing"
	"time"

	"paddock/pkg/config"
	"paddock/pkg/model"
)

// Monday in UTC.
func monday(hour, min int) time.Time {
	return time.Date(2025, 3, 3, hour, min, 0, 0, time.UTC)
}

// Sunday in UTC, a day with no open blocks in the test schedule.
func sunday(hour, min int) time.Time {
	return time.Date(2025, 3, 2, hour, min, 0, 0, time.UTC)
}

func testFacility(maxHorses int) *model.Facility {
	return &model.Facility{
		ID:                      "fac-1",
		StableID:                "stable-1",
		Name:                    "Main Arena",
		Capacity:                1,
		MaxHorsesPerReservation: maxHorses,
		SlotGranularityMin:      30,
		TimeZone:                "UTC",
		AvailabilitySchedule: map[config.Weekday][]model.TimeBlock{
			config.Monday: {{From: "08:00", To: "20:00"}},
		},
	}
}

func reservation(id string, start, end time.Time, horseIDs []string, external int) model.FacilityReservation {
	return model.FacilityReservation{
		ID:                 id,
		StableID:           "stable-1",
		FacilityID:         "fac-1",
		StartTime:          start,
		EndTime:            end,
		HorseIDs:           horseIDs,
		ExternalHorseCount: external,
	}
}

func TestHorseCount(t *testing.T) {
	tests := []struct {
		name        string
		reservation model.FacilityReservation
		want        int
	}{
		{
			name:        "two registered horses",
			reservation: model.FacilityReservation{HorseIDs: []string{"h1", "h2"}},
			want:        2,
		},
		{
			name:        "registered plus external",
			reservation: model.FacilityReservation{HorseIDs: []string{"h1"}, ExternalHorseCount: 2},
			want:        3,
		},
		{
			name:        "external only",
			reservation: model.FacilityReservation{ExternalHorseCount: 2},
			want:        2,
		},
		{
			name:        "legacy record with no horses at all counts as one",
			reservation: model.FacilityReservation{},
			want:        1,
		},
		{
			name:        "legacy singular horse_id counts as one",
			reservation: model.FacilityReservation{LegacyHorseID: "h9"},
			want:        1,
		},
		{
			name:        "array wins over legacy singular field",
			reservation: model.FacilityReservation{HorseIDs: []string{"h1", "h2"}, LegacyHorseID: "h9"},
			want:        2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HorseCount(&tt.reservation); got != tt.want {
				t.Errorf("HorseCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlapping_HalfOpenSemantics(t *testing.T) {
	reservations := []model.FacilityReservation{
		reservation("r1", monday(9, 0), monday(10, 0), []string{"h1"}, 0),
	}

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		exclude string
		want    int
	}{
		{
			name:  "candidate starting exactly at reservation end does not overlap",
			start: monday(10, 0),
			end:   monday(11, 0),
			want:  0,
		},
		{
			name:  "candidate ending exactly at reservation start does not overlap",
			start: monday(8, 0),
			end:   monday(9, 0),
			want:  0,
		},
		{
			name:  "one minute of intersection overlaps",
			start: monday(9, 59),
			end:   monday(11, 0),
			want:  1,
		},
		{
			name:  "zero-duration probe never overlaps",
			start: monday(9, 30),
			end:   monday(9, 30),
			want:  0,
		},
		{
			name:  "inverted interval never overlaps",
			start: monday(9, 45),
			end:   monday(9, 15),
			want:  0,
		},
		{
			name:  "candidate fully inside reservation overlaps",
			start: monday(9, 15),
			end:   monday(9, 45),
			want:  1,
		},
		{
			name:    "excluded reservation is skipped",
			start:   monday(9, 0),
			end:     monday(10, 0),
			exclude: "r1",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlapping(reservations, tt.start, tt.end, tt.exclude)
			if len(got) != tt.want {
				t.Errorf("Overlapping() returned %d reservations, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPeakConcurrentHorses_Sweep(t *testing.T) {
	// R1 [09:00-10:00, 2 horses], R2 [09:30-10:30, 1 horse],
	// R3 [09:45-09:50, 1 horse]: peak is 4 during [09:45, 09:50).
	reservations := []model.FacilityReservation{
		reservation("r1", monday(9, 0), monday(10, 0), []string{"h1", "h2"}, 0),
		reservation("r2", monday(9, 30), monday(10, 30), []string{"h3"}, 0),
		reservation("r3", monday(9, 45), monday(9, 50), []string{"h4"}, 0),
	}

	peak := PeakConcurrentHorses(reservations, monday(9, 0), monday(10, 30))
	if peak != 4 {
		t.Errorf("peak = %d, want 4", peak)
	}
}

func TestPeakConcurrentHorses_EndFreesBeforeStartClaims(t *testing.T) {
	// Back-to-back reservations never stack: the end event at 10:00
	// releases its horses before the start event at 10:00 claims.
	reservations := []model.FacilityReservation{
		reservation("r1", monday(9, 0), monday(10, 0), []string{"h1", "h2"}, 0),
		reservation("r2", monday(10, 0), monday(11, 0), []string{"h3", "h4"}, 0),
	}

	peak := PeakConcurrentHorses(reservations, monday(9, 0), monday(11, 0))
	if peak != 2 {
		t.Errorf("peak = %d, want 2", peak)
	}
}

func TestPeakConcurrentHorses_ClampsToWindow(t *testing.T) {
	// A reservation spilling out of the window only counts while inside it.
	reservations := []model.FacilityReservation{
		reservation("r1", monday(8, 0), monday(12, 0), []string{"h1"}, 0),
		reservation("r2", monday(9, 0), monday(9, 30), []string{"h2"}, 0),
	}

	peak := PeakConcurrentHorses(reservations, monday(9, 0), monday(10, 0))
	if peak != 2 {
		t.Errorf("peak = %d, want 2", peak)
	}

	// Isolated reservation peaks at its own horse count.
	peak = PeakConcurrentHorses(reservations[:1], monday(8, 0), monday(12, 0))
	if peak != 1 {
		t.Errorf("isolated peak = %d, want 1", peak)
	}
}

func TestEvaluate_InvalidInterval(t *testing.T) {
	evaluator := NewEvaluator(3, 30)
	facility := testFacility(2)

	for _, tt := range []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{name: "end before start", start: monday(10, 0), end: monday(9, 0)},
		{name: "end equals start", start: monday(10, 0), end: monday(10, 0)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluator.Evaluate(facility, nil, Request{Start: tt.start, End: tt.end, HorseCount: 1})
			if err != ErrInvalidInterval {
				t.Errorf("Evaluate() error = %v, want ErrInvalidInterval", err)
			}
		})
	}
}

func TestEvaluate_Classification(t *testing.T) {
	evaluator := NewEvaluator(0, 30)

	tests := []struct {
		name          string
		facility      *model.Facility
		reservations  []model.FacilityReservation
		req           Request
		wantClass     Classification
		wantPeak      int
		wantRemaining int
	}{
		{
			name:          "empty facility inside open hours is available",
			facility:      testFacility(2),
			req:           Request{Start: monday(9, 0), End: monday(10, 0), HorseCount: 1},
			wantClass:     ClassAvailable,
			wantPeak:      0,
			wantRemaining: 2,
		},
		{
			name:     "partial occupancy is limited",
			facility: testFacility(3),
			reservations: []model.FacilityReservation{
				reservation("r1", monday(9, 0), monday(10, 0), []string{"h1"}, 0),
			},
			req:           Request{Start: monday(9, 30), End: monday(10, 30), HorseCount: 1},
			wantClass:     ClassLimited,
			wantPeak:      1,
			wantRemaining: 2,
		},
		{
			name:          "outside open hours is limited even when empty",
			facility:      testFacility(2),
			req:           Request{Start: monday(6, 0), End: monday(7, 0), HorseCount: 1},
			wantClass:     ClassLimited,
			wantPeak:      0,
			wantRemaining: 2,
		},
		{
			name:     "single-horse facility with overlap is full",
			facility: testFacility(1),
			reservations: []model.FacilityReservation{
				reservation("r1", monday(14, 0), monday(15, 0), []string{"h1"}, 0),
			},
			req:           Request{Start: monday(14, 30), End: monday(15, 30), HorseCount: 1},
			wantClass:     ClassFull,
			wantPeak:      1,
			wantRemaining: 0,
		},
		{
			name:     "sweep peak exceeding capacity clamps remaining to zero",
			facility: testFacility(3),
			reservations: []model.FacilityReservation{
				reservation("r1", monday(9, 0), monday(10, 0), []string{"h1", "h2"}, 0),
				reservation("r2", monday(9, 30), monday(10, 30), []string{"h3"}, 0),
				reservation("r3", monday(9, 45), monday(9, 50), []string{"h4"}, 0),
			},
			req:           Request{Start: monday(9, 45), End: monday(9, 50), HorseCount: 1},
			wantClass:     ClassFull,
			wantPeak:      4,
			wantRemaining: 0,
		},
		{
			name:     "closed day wins regardless of reservations",
			facility: testFacility(2),
			reservations: []model.FacilityReservation{
				reservation("r1", sunday(9, 0), sunday(10, 0), []string{"h1"}, 0),
			},
			req:       Request{Start: sunday(11, 0), End: sunday(12, 0), HorseCount: 1},
			wantClass: ClassClosed,
		},
		{
			name:     "candidate in the gap between touching reservations is available",
			facility: testFacility(2),
			reservations: []model.FacilityReservation{
				reservation("r1", monday(9, 0), monday(10, 0), []string{"h1"}, 0),
				reservation("r2", monday(11, 0), monday(12, 0), []string{"h2"}, 0),
			},
			req:           Request{Start: monday(10, 0), End: monday(11, 0), HorseCount: 2},
			wantClass:     ClassAvailable,
			wantPeak:      0,
			wantRemaining: 2,
		},
		{
			name:     "legacy record with no horse fields occupies one slot",
			facility: testFacility(1),
			reservations: []model.FacilityReservation{
				reservation("r1", monday(9, 0), monday(10, 0), nil, 0),
			},
			req:           Request{Start: monday(9, 0), End: monday(10, 0), HorseCount: 1},
			wantClass:     ClassFull,
			wantPeak:      1,
			wantRemaining: 0,
		},
		{
			name:     "editing a booking excludes it from its own conflict check",
			facility: testFacility(1),
			reservations: []model.FacilityReservation{
				reservation("r1", monday(9, 0), monday(10, 0), []string{"h1"}, 0),
			},
			req: Request{
				Start: monday(9, 0), End: monday(10, 30),
				HorseCount: 1, ExcludeReservationID: "r1",
			},
			wantClass:     ClassAvailable,
			wantPeak:      0,
			wantRemaining: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := evaluator.Evaluate(tt.facility, tt.reservations, tt.req)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if eval.Classification != tt.wantClass {
				t.Errorf("classification = %s, want %s", eval.Classification, tt.wantClass)
			}
			if tt.wantClass == ClassClosed {
				return
			}
			if eval.PeakExistingHorses != tt.wantPeak {
				t.Errorf("peak = %d, want %d", eval.PeakExistingHorses, tt.wantPeak)
			}
			if eval.RemainingCapacity != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", eval.RemainingCapacity, tt.wantRemaining)
			}
		})
	}
}

func TestEvaluate_Idempotence(t *testing.T) {
	evaluator := NewEvaluator(3, 30)
	facility := testFacility(3)
	reservations := []model.FacilityReservation{
		reservation("r1", monday(9, 0), monday(10, 0), []string{"h1", "h2"}, 0),
		reservation("r2", monday(9, 30), monday(10, 30), []string{"h3"}, 0),
	}
	req := Request{Start: monday(9, 30), End: monday(10, 0), HorseCount: 1}

	first, err := evaluator.Evaluate(facility, reservations, req)
	if err != nil {
		t.Fatalf("first Evaluate() error = %v", err)
	}
	second, err := evaluator.Evaluate(facility, reservations, req)
	if err != nil {
		t.Fatalf("second Evaluate() error = %v", err)
	}

	if first.Classification != second.Classification {
		t.Errorf("classification changed between runs: %s then %s", first.Classification, second.Classification)
	}
	if first.PeakExistingHorses != second.PeakExistingHorses {
		t.Errorf("peak changed between runs: %d then %d", first.PeakExistingHorses, second.PeakExistingHorses)
	}
	if len(first.Overlapping) != len(second.Overlapping) {
		t.Errorf("overlap count changed between runs: %d then %d", len(first.Overlapping), len(second.Overlapping))
	}
}

func TestSuggestedSlots(t *testing.T) {
	evaluator := NewEvaluator(3, 30)
	facility := testFacility(1)

	// Facility booked solid 09:00-10:00; candidate wants 09:00-10:00.
	reservations := []model.FacilityReservation{
		reservation("r1", monday(9, 0), monday(10, 0), []string{"h1"}, 0),
	}
	req := Request{Start: monday(9, 0), End: monday(10, 0), HorseCount: 1}

	eval, err := evaluator.Evaluate(facility, reservations, req)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if eval.Classification != ClassFull {
		t.Fatalf("classification = %s, want full", eval.Classification)
	}

	if len(eval.SuggestedSlots) != 3 {
		t.Fatalf("got %d suggested slots, want 3", len(eval.SuggestedSlots))
	}

	// The 30-minute offsets (08:30, 09:30) still overlap r1 and are full.
	// Nearest viable windows are 08:00 and 10:00 at the 60-minute offset,
	// with the earlier one winning the distance tie, then 10:30.
	wantStarts := []time.Time{monday(8, 0), monday(10, 0), monday(10, 30)}
	for i, want := range wantStarts {
		if !eval.SuggestedSlots[i].Start.Equal(want) {
			t.Errorf("slot[%d].Start = %s, want %s", i, eval.SuggestedSlots[i].Start, want)
		}
	}

	for i, slot := range eval.SuggestedSlots {
		if slot.RemainingCapacity < 1 {
			t.Errorf("slot[%d] has no remaining capacity", i)
		}
		if got := slot.End.Sub(slot.Start); got != time.Hour {
			t.Errorf("slot[%d] duration = %s, want 1h", i, got)
		}
	}
}

func TestSuggestedSlots_StayWithinOpenBlocks(t *testing.T) {
	evaluator := NewEvaluator(5, 30)
	facility := testFacility(1)
	facility.AvailabilitySchedule = map[config.Weekday][]model.TimeBlock{
		config.Monday: {{From: "09:00", To: "11:00"}},
	}

	reservations := []model.FacilityReservation{
		reservation("r1", monday(9, 0), monday(10, 0), []string{"h1"}, 0),
	}
	req := Request{Start: monday(9, 0), End: monday(10, 0), HorseCount: 1}

	eval, err := evaluator.Evaluate(facility, reservations, req)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// Only 10:00-11:00 fits: earlier offsets fall before the block opens,
	// 10:30-11:30 spills past the block close.
	if len(eval.SuggestedSlots) != 1 {
		t.Fatalf("got %d suggested slots, want 1", len(eval.SuggestedSlots))
	}
	if !eval.SuggestedSlots[0].Start.Equal(monday(10, 0)) {
		t.Errorf("slot start = %s, want 10:00", eval.SuggestedSlots[0].Start)
	}
}
