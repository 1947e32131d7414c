package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"paddock/internal/reservations/capacity"
	"paddock/internal/reservations/validator"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/kafka"
	"paddock/pkg/logger"
	"paddock/pkg/model"
)

type mockReservationRepository struct {
	createFunc        func(ctx context.Context, reservation *model.FacilityReservation) error
	findByIDFunc      func(ctx context.Context, id string) (*model.FacilityReservation, error)
	findByWindowFunc  func(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error)
	updateFunc        func(ctx context.Context, id string, reservation *model.FacilityReservation) (*mongo.UpdateResult, error)
	deleteFunc        func(ctx context.Context, id string) error
	countByStableFunc func(ctx context.Context, stableID string) (int64, error)
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *model.FacilityReservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.FacilityReservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReservationRepository) FindByFacilityAndWindow(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error) {
	if m.findByWindowFunc != nil {
		return m.findByWindowFunc(ctx, facilityID, start, end)
	}
	return nil, nil
}

func (m *mockReservationRepository) FindByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.FacilityReservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) Update(ctx context.Context, id string, reservation *model.FacilityReservation) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, reservation)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) CountByStable(ctx context.Context, stableID string) (int64, error) {
	if m.countByStableFunc != nil {
		return m.countByStableFunc(ctx, stableID)
	}
	return 0, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockFacilityFetcher struct {
	facility *model.Facility
	err      error
}

func (m *mockFacilityFetcher) GetFacility(ctx context.Context, facilityID string) (*model.Facility, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.facility, nil
}

type mockStableFetcher struct {
	stable *model.Stable
	err    error
}

func (m *mockStableFetcher) GetStable(ctx context.Context, stableID string) (*model.Stable, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stable, nil
}

type mockPublisher struct {
	published []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	return &config.Config{
		Log:                       log,
		ReadTimeout:               5 * time.Second,
		MaxSuggestedSlots:         3,
		DefaultSlotGranularityMin: 30,
	}
}

func testValidator(t *testing.T) *validator.ReservationValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	return validator.NewReservationValidator(log)
}

// monday 2025-03-03 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2025, 3, 3, hour, min, 0, 0, time.UTC)
}

func testFacility(maxHorses int) *model.Facility {
	return &model.Facility{
		ID:                      "65f000000000000000000010",
		StableID:                "65f000000000000000000001",
		Name:                    "Indoor Arena",
		Capacity:                maxHorses,
		MaxHorsesPerReservation: maxHorses,
		SlotGranularityMin:      30,
		AvailabilitySchedule: map[config.Weekday][]model.TimeBlock{
			config.Monday: {{From: "08:00", To: "20:00"}},
		},
	}
}

func testStable() *model.Stable {
	return &model.Stable{
		ID:         "65f000000000000000000001",
		Name:       "Willow Creek",
		OwnerPhone: "+14155550100",
		Members: []model.StableMember{
			{Name: "Riley", Phone: "+14155550122", Role: "admin"},
			{Name: "Dana", Phone: "+14155550111", Role: "member"},
		},
	}
}

func validReservation() *model.FacilityReservation {
	return &model.FacilityReservation{
		StableID:   "65f000000000000000000001",
		FacilityID: "65f000000000000000000010",
		StartTime:  monday(10, 0),
		EndTime:    monday(11, 0),
		HorseIDs:   []string{"65f000000000000000000020"},
	}
}

func newTestService(
	repo *mockReservationRepository,
	facilities *mockFacilityFetcher,
	stables *mockStableFetcher,
	producer *mockPublisher,
	cfg *config.Config,
	v *validator.ReservationValidator,
) ReservationService {
	var pub EventPublisher
	if producer != nil {
		pub = producer
	}
	return NewReservationService(repo, v, facilities, stables, pub, cfg)
}

func TestCreate_AvailableWindowSucceedsAndPublishes(t *testing.T) {
	cfg := testConfig(t)
	producer := &mockPublisher{}
	var saved *model.FacilityReservation
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation) error {
			reservation.ID = "65f000000000000000000030"
			saved = reservation
			return nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		producer, cfg, testValidator(t))

	evaluation, err := svc.Create(context.Background(), validReservation(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluation.Classification != capacity.ClassAvailable {
		t.Errorf("expected available classification, got %s", evaluation.Classification)
	}
	if saved == nil {
		t.Fatal("expected repository Create to be called")
	}
	if len(producer.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(producer.published))
	}
	msg := producer.published[0]
	if msg.Key != "65f000000000000000000001" {
		t.Errorf("expected event keyed by stable, got %s", msg.Key)
	}
	if msg.GetEventType() != model.EventReservationCreated {
		t.Errorf("expected %s event, got %s", model.EventReservationCreated, msg.GetEventType())
	}
}

func TestCreate_FullWindowReturns409WithSuggestions(t *testing.T) {
	cfg := testConfig(t)
	blocking := model.FacilityReservation{
		ID:         "65f000000000000000000031",
		FacilityID: "65f000000000000000000010",
		StartTime:  monday(9, 0),
		EndTime:    monday(12, 0),
		HorseIDs:   []string{"65f000000000000000000021"},
	}
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation) error {
			t.Error("repository Create should not be called for a full window")
			return nil
		},
		findByWindowFunc: func(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error) {
			return []model.FacilityReservation{blocking}, nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(1)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	_, err := svc.Create(context.Background(), validReservation(), "")
	if err == nil {
		t.Fatal("expected capacity conflict, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", appErr.StatusCode())
	}
	if _, ok := appErr.Details["suggested_slots"]; !ok {
		t.Error("expected suggested_slots in conflict details")
	}
}

func TestCreate_OutsideOpenHoursRequiresOverride(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockReservationRepository{}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	reservation := validReservation()
	reservation.StartTime = monday(21, 0)
	reservation.EndTime = monday(22, 0)

	_, err := svc.Create(context.Background(), reservation, "")
	if err == nil {
		t.Fatal("expected conflict for window outside open hours, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", appErr.StatusCode())
	}
}

func TestCreate_OverrideByAdminSucceeds(t *testing.T) {
	cfg := testConfig(t)
	var saved *model.FacilityReservation
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation) error {
			saved = reservation
			return nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	reservation := validReservation()
	reservation.StartTime = monday(21, 0)
	reservation.EndTime = monday(22, 0)
	reservation.AdminOverride = true

	evaluation, err := svc.Create(context.Background(), reservation, "+14155550122")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluation.Classification != capacity.ClassLimited {
		t.Errorf("expected limited classification, got %s", evaluation.Classification)
	}
	if saved == nil {
		t.Error("expected repository Create to be called")
	}
}

func TestCreate_OverrideByPlainMemberForbidden(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation) error {
			t.Error("repository Create should not be called for a forbidden override")
			return nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	reservation := validReservation()
	reservation.StartTime = monday(21, 0)
	reservation.EndTime = monday(22, 0)
	reservation.AdminOverride = true

	_, err := svc.Create(context.Background(), reservation, "+14155550111")
	if err == nil {
		t.Fatal("expected forbidden error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden code, got %s", appErr.Code)
	}
}

func TestCreate_OverrideWithoutIdentityForbidden(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(&mockReservationRepository{},
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	reservation := validReservation()
	reservation.StartTime = monday(21, 0)
	reservation.EndTime = monday(22, 0)
	reservation.AdminOverride = true

	_, err := svc.Create(context.Background(), reservation, "")
	if err == nil {
		t.Fatal("expected forbidden error, got nil")
	}
}

func TestCreate_TruncatesToMinute(t *testing.T) {
	cfg := testConfig(t)
	var saved *model.FacilityReservation
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation) error {
			saved = reservation
			return nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	reservation := validReservation()
	reservation.StartTime = monday(10, 0).Add(23 * time.Second)
	reservation.EndTime = monday(11, 0).Add(42 * time.Second)

	if _, err := svc.Create(context.Background(), reservation, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.StartTime.Second() != 0 || saved.EndTime.Second() != 0 {
		t.Errorf("expected minute-truncated times, got %v / %v", saved.StartTime, saved.EndTime)
	}
}

func TestCreate_RequiresAtLeastOneHorse(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(&mockReservationRepository{},
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	reservation := validReservation()
	reservation.HorseIDs = nil
	reservation.ExternalHorseCount = 0

	_, err := svc.Create(context.Background(), reservation, "")
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestUpdate_ExcludesOwnReservationFromOverlap(t *testing.T) {
	cfg := testConfig(t)
	existing := validReservation()
	existing.ID = "65f000000000000000000030"

	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.FacilityReservation, error) {
			clone := *existing
			return &clone, nil
		},
		findByWindowFunc: func(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error) {
			return []model.FacilityReservation{*existing}, nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(1)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	// Shift the booking by 30 minutes; the only "conflict" in the window is
	// the reservation being edited, so the update must pass.
	newStart := monday(10, 30)
	newEnd := monday(11, 30)
	updates := &model.FacilityReservationUpdate{
		StartTime: &newStart,
		EndTime:   &newEnd,
	}

	evaluation, err := svc.Update(context.Background(), existing.ID, updates, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluation.Classification != capacity.ClassAvailable {
		t.Errorf("expected available classification, got %s", evaluation.Classification)
	}
}

func TestCancel_PublishesCancelledEvent(t *testing.T) {
	cfg := testConfig(t)
	producer := &mockPublisher{}
	existing := validReservation()
	existing.ID = "65f000000000000000000030"

	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.FacilityReservation, error) {
			return existing, nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		producer, cfg, testValidator(t))

	if err := svc.Cancel(context.Background(), existing.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(producer.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(producer.published))
	}
	if producer.published[0].GetEventType() != model.EventReservationCancelled {
		t.Errorf("expected cancelled event, got %s", producer.published[0].GetEventType())
	}
}

func TestCheck_ReportsWithoutWriting(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation) error {
			t.Error("Check must not write")
			return nil
		},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	evaluation, err := svc.Check(context.Background(), "65f000000000000000000010", capacity.Request{
		Start:      monday(10, 0),
		End:        monday(11, 0),
		HorseCount: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluation.Classification != capacity.ClassAvailable {
		t.Errorf("expected available classification, got %s", evaluation.Classification)
	}
}

func TestCheck_InvalidIntervalRejected(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(&mockReservationRepository{},
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	_, err := svc.Check(context.Background(), "65f000000000000000000010", capacity.Request{
		Start:      monday(11, 0),
		End:        monday(10, 0),
		HorseCount: 1,
	})
	if err == nil {
		t.Fatal("expected error for inverted interval, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 400 {
		t.Errorf("expected status 400, got %d", appErr.StatusCode())
	}
}

func TestAvailability_GridReflectsBookings(t *testing.T) {
	cfg := testConfig(t)
	booked := model.FacilityReservation{
		ID:         "65f000000000000000000031",
		FacilityID: "65f000000000000000000010",
		StartTime:  monday(9, 0),
		EndTime:    monday(10, 0),
		HorseIDs:   []string{"65f000000000000000000021"},
	}
	repo := &mockReservationRepository{
		findByWindowFunc: func(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error) {
			return []model.FacilityReservation{booked}, nil
		},
	}

	facility := testFacility(1)
	facility.AvailabilitySchedule = map[config.Weekday][]model.TimeBlock{
		config.Monday: {{From: "09:00", To: "11:00"}},
	}

	svc := newTestService(repo,
		&mockFacilityFetcher{facility: facility},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	grid, err := svc.Availability(context.Background(), facility.ID, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00-11:00 at 30min granularity = 4 slots; the first two are booked.
	if len(grid) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(grid))
	}
	wantRemaining := []int{0, 0, 1, 1}
	for i, slot := range grid {
		if slot.RemainingCapacity != wantRemaining[i] {
			t.Errorf("slot %d (%v): expected remaining %d, got %d",
				i, slot.Start, wantRemaining[i], slot.RemainingCapacity)
		}
	}
}

func TestCreateFromBookingToken_RejectsGarbage(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(&mockReservationRepository{},
		&mockFacilityFetcher{facility: testFacility(2)},
		&mockStableFetcher{stable: testStable()},
		nil, cfg, testValidator(t))

	_, err := svc.CreateFromBookingToken(context.Background(), "not-a-token", validReservation())
	if err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 400 {
		t.Errorf("expected status 400, got %d", appErr.StatusCode())
	}
}
