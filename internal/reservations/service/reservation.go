package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"paddock/internal/reservations/capacity"
	reservationserrors "paddock/internal/reservations/errors"
	"paddock/internal/reservations/repository"
	"paddock/internal/reservations/validator"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/kafka"
	"paddock/pkg/model"
	"paddock/pkg/sanitizer"
	"paddock/pkg/sealer"

	"github.com/google/uuid"
)

// FacilityFetcher resolves facility documents, normally the facilities
// service over HTTP.
type FacilityFetcher interface {
	GetFacility(ctx context.Context, facilityID string) (*model.Facility, error)
}

// StableFetcher resolves stable documents for membership role checks.
type StableFetcher interface {
	GetStable(ctx context.Context, stableID string) (*model.Stable, error)
}

// EventPublisher publishes reservation lifecycle events. Nil-able in tests.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type ReservationService interface {
	Create(ctx context.Context, reservation *model.FacilityReservation, actorPhone string) (*capacity.Evaluation, error)
	CreateFromBookingToken(ctx context.Context, token string, reservation *model.FacilityReservation) (*capacity.Evaluation, error)
	GetByID(ctx context.Context, id string) (*model.FacilityReservation, error)
	GetByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.FacilityReservation, int64, error)
	Search(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error)
	Update(ctx context.Context, id string, updates *model.FacilityReservationUpdate, actorPhone string) (*capacity.Evaluation, error)
	Cancel(ctx context.Context, id string) error
	Check(ctx context.Context, facilityID string, req capacity.Request) (*capacity.Evaluation, error)
	Availability(ctx context.Context, facilityID string, date time.Time) ([]capacity.Slot, error)
}

type reservationService struct {
	repo       repository.ReservationRepository
	validator  *validator.ReservationValidator
	evaluator  *capacity.Evaluator
	facilities FacilityFetcher
	stables    StableFetcher
	producer   EventPublisher
	cfg        *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	validator *validator.ReservationValidator,
	facilities FacilityFetcher,
	stables StableFetcher,
	producer EventPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:       repo,
		validator:  validator,
		evaluator:  capacity.NewEvaluator(cfg.MaxSuggestedSlots, cfg.DefaultSlotGranularityMin),
		facilities: facilities,
		stables:    stables,
		producer:   producer,
		cfg:        cfg,
	}
}

// Create books a facility. The capacity check runs synchronously right before
// the write; there is no lock or transaction around check-then-write, so two
// concurrent writers can both pass. The losing writer is caught the next time
// anyone evaluates the window, and the API contract accepts this in exchange
// for lock-free reads.
func (s *reservationService) Create(ctx context.Context, reservation *model.FacilityReservation, actorPhone string) (*capacity.Evaluation, error) {
	s.sanitize(reservation)

	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	evaluation, err := s.authorizeWindow(ctx, reservation, "", actorPhone)
	if err != nil {
		return evaluation, err
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return nil, apperrors.Internal("Failed to create reservation", err)
	}

	s.publishEvent(ctx, model.EventReservationCreated, reservation)

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"facility_id", reservation.FacilityID,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
		"horse_count", capacity.HorseCount(reservation),
	)
	return evaluation, nil
}

// CreateFromBookingToken accepts a public booking through an opaque
// facility link. The token pins stable and facility; whatever the caller
// sent in those fields is overwritten. Overrides are never honored here.
func (s *reservationService) CreateFromBookingToken(ctx context.Context, token string, reservation *model.FacilityReservation) (*capacity.Evaluation, error) {
	stableID, facilityID, err := sealer.ParseBookingToken(token)
	if err != nil {
		s.cfg.Log.Warn("Rejected malformed booking token", "error", err)
		return nil, apperrors.InvalidInput("Invalid booking token")
	}

	reservation.StableID = stableID
	reservation.FacilityID = facilityID
	reservation.AdminOverride = false

	return s.Create(ctx, reservation, "")
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.FacilityReservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return reservation, nil
}

func (s *reservationService) GetByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.FacilityReservation, int64, error) {
	if stableID == "" {
		return nil, 0, apperrors.InvalidInput("Stable ID cannot be empty")
	}

	var count int64
	var reservations []*model.FacilityReservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStable(ctx, stableID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "stable_id", stableID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByStable(ctx, stableID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "stable_id", stableID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) Search(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error) {
	if facilityID == "" {
		return nil, apperrors.InvalidInput("Facility ID cannot be empty")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end_time must be after start_time")
	}

	reservations, err := s.repo.FindByFacilityAndWindow(ctx, facilityID,
		validator.TruncateToMinute(start), validator.TruncateToMinute(end))
	if err != nil {
		s.cfg.Log.Error("Failed to search reservations", "facility_id", facilityID, "error", err)
		return nil, apperrors.Internal("Failed to search reservations", err)
	}

	return reservations, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.FacilityReservationUpdate, actorPhone string) (*capacity.Evaluation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	evaluation, err := s.authorizeWindow(ctx, merged, id, actorPhone)
	if err != nil {
		return evaluation, err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update reservation", err)
	}

	merged.ID = id
	s.publishEvent(ctx, model.EventReservationUpdated, merged)

	s.cfg.Log.Info("Reservation updated successfully", "id", id)
	return evaluation, nil
}

func (s *reservationService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.publishEvent(ctx, model.EventReservationCancelled, reservation)

	s.cfg.Log.Info("Reservation cancelled", "id", id, "facility_id", reservation.FacilityID)
	return nil
}

// Check runs the evaluator without writing anything. The caller sees the same
// verdict a create would produce at this instant.
func (s *reservationService) Check(ctx context.Context, facilityID string, req capacity.Request) (*capacity.Evaluation, error) {
	if facilityID == "" {
		return nil, apperrors.InvalidInput("Facility ID cannot be empty")
	}

	req.Start = validator.TruncateToMinute(req.Start)
	req.End = validator.TruncateToMinute(req.End)
	if req.HorseCount < 1 {
		req.HorseCount = 1
	}

	facility, err := s.facilities.GetFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	reservations, err := s.dayReservations(ctx, facility, req.Start)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.evaluator.Evaluate(facility, reservations, req)
	if err != nil {
		if errors.Is(err, capacity.ErrInvalidInterval) {
			return nil, apperrors.InvalidInput("end_time must be after start_time")
		}
		return nil, apperrors.Internal("Failed to evaluate reservation window", err)
	}

	return evaluation, nil
}

// Availability builds the day grid for a facility: every granularity-sized
// slot inside the day's open blocks with its remaining capacity.
func (s *reservationService) Availability(ctx context.Context, facilityID string, date time.Time) ([]capacity.Slot, error) {
	if facilityID == "" {
		return nil, apperrors.InvalidInput("Facility ID cannot be empty")
	}

	facility, err := s.facilities.GetFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	// The date is a calendar day in the facility's zone, so its components
	// anchor directly rather than converting the instant.
	loc := facility.Location()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	reservations, err := s.repo.FindByFacilityAndWindow(ctx, facilityID, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load day reservations", "facility_id", facilityID, "error", err)
		return nil, apperrors.Internal("Failed to load reservations", err)
	}

	blocks := facility.BlocksFor(config.WeekdayOf(dayStart))
	granularity := facility.SlotGranularityMin
	if granularity <= 0 {
		granularity = s.cfg.DefaultSlotGranularityMin
	}
	step := time.Duration(granularity) * time.Minute

	grid := make([]capacity.Slot, 0)
	for _, block := range blocks {
		blockStart, okFrom := clockOnDay(dayStart, block.From, loc)
		blockEnd, okTo := clockOnDay(dayStart, block.To, loc)
		if !okFrom || !okTo {
			continue
		}

		for at := blockStart; !at.Add(step).After(blockEnd); at = at.Add(step) {
			slotEnd := at.Add(step)
			overlapping := capacity.Overlapping(reservations, at, slotEnd, "")
			peak := capacity.PeakConcurrentHorses(overlapping, at, slotEnd)
			remaining := facility.MaxHorsesPerReservation - peak
			if remaining < 0 {
				remaining = 0
			}
			grid = append(grid, capacity.Slot{
				Start:             at,
				End:               slotEnd,
				RemainingCapacity: remaining,
			})
		}
	}

	return grid, nil
}

// authorizeWindow evaluates the candidate window and decides whether the
// write may proceed. On a full verdict the caller gets 409 with suggestions
// regardless of overrides; limited and closed verdicts pass only with
// admin_override from an owner or admin.
func (s *reservationService) authorizeWindow(ctx context.Context, reservation *model.FacilityReservation, excludeID, actorPhone string) (*capacity.Evaluation, error) {
	facility, err := s.facilities.GetFacility(ctx, reservation.FacilityID)
	if err != nil {
		return nil, err
	}

	req := capacity.Request{
		Start:                reservation.StartTime,
		End:                  reservation.EndTime,
		HorseCount:           capacity.HorseCount(reservation),
		ExcludeReservationID: excludeID,
	}

	reservations, err := s.dayReservations(ctx, facility, req.Start)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.evaluator.Evaluate(facility, reservations, req)
	if err != nil {
		if errors.Is(err, capacity.ErrInvalidInterval) {
			return nil, apperrors.InvalidInput("end_time must be after start_time")
		}
		return nil, apperrors.Internal("Failed to evaluate reservation window", err)
	}

	switch evaluation.Classification {
	case capacity.ClassAvailable:
		return evaluation, nil

	case capacity.ClassFull:
		return evaluation, apperrors.CapacityConflict(
			"The facility has no remaining capacity for this window",
			map[string]any{
				"classification":  evaluation.Classification,
				"remaining":       evaluation.RemainingCapacity,
				"suggested_slots": evaluation.SuggestedSlots,
			})

	case capacity.ClassLimited, capacity.ClassClosed:
		if !reservation.AdminOverride {
			return evaluation, apperrors.CapacityConflict(
				"This window requires an admin override",
				map[string]any{
					"classification":  evaluation.Classification,
					"remaining":       evaluation.RemainingCapacity,
					"suggested_slots": evaluation.SuggestedSlots,
				})
		}
		if err := s.authorizeOverride(ctx, reservation.StableID, actorPhone); err != nil {
			return evaluation, err
		}
		return evaluation, nil
	}

	return evaluation, nil
}

// authorizeOverride verifies the acting member holds the owner or admin role
// in the reservation's stable.
func (s *reservationService) authorizeOverride(ctx context.Context, stableID, actorPhone string) error {
	if actorPhone == "" {
		return apperrors.Forbidden("An admin override requires an acting member identity")
	}

	stable, err := s.stables.GetStable(ctx, stableID)
	if err != nil {
		return err
	}

	role := stable.MemberRole(sanitizer.NormalizePhone(actorPhone))
	if role != config.RoleOwner && role != config.RoleAdmin {
		s.cfg.Log.Warn("Override rejected", "stable_id", stableID, "role", role)
		return apperrors.Forbidden("Only stable owners and admins may override availability")
	}
	return nil
}

// dayReservations loads every reservation touching the local day containing
// the instant. The evaluator and the slot suggester both scan within one day.
func (s *reservationService) dayReservations(ctx context.Context, facility *model.Facility, at time.Time) ([]model.FacilityReservation, error) {
	loc := facility.Location()
	local := at.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	reservations, err := s.repo.FindByFacilityAndWindow(ctx, facility.ID, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load day reservations", "facility_id", facility.ID, "error", err)
		return nil, apperrors.Internal("Failed to load reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) publishEvent(ctx context.Context, eventType string, reservation *model.FacilityReservation) {
	if s.producer == nil {
		return
	}

	event := model.ReservationEvent{
		Type:          eventType,
		ReservationID: reservation.ID,
		StableID:      reservation.StableID,
		FacilityID:    reservation.FacilityID,
		StartTime:     reservation.StartTime,
		EndTime:       reservation.EndTime,
		HorseCount:    capacity.HorseCount(reservation),
		ContactPhone:  reservation.ContactPhone,
		UserFullName:  reservation.UserFullName,
		OccurredAt:    time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(reservation.StableID).
		WithValue(event).
		WithEventID(uuid.New().String()).
		WithEventType(eventType).
		WithSource("reservations").
		Build()

	// Event delivery is best-effort from the API's point of view; the write
	// already committed. Failures land in the DLQ via the producer.
	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish reservation event",
			"type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}

func (s *reservationService) sanitize(reservation *model.FacilityReservation) {
	reservation.StartTime = validator.TruncateToMinute(reservation.StartTime)
	reservation.EndTime = validator.TruncateToMinute(reservation.EndTime)
	reservation.ContactPhone = sanitizer.NormalizePhone(reservation.ContactPhone)
	reservation.UserFullName = sanitizer.NormalizeName(reservation.UserFullName)
	reservation.HorseIDs = sanitizer.NormalizeHorseIDs(reservation.HorseIDs)
}

func (s *reservationService) mergeUpdates(existing *model.FacilityReservation, updates *model.FacilityReservationUpdate) *model.FacilityReservation {
	merged := *existing

	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.HorseIDs != nil {
		merged.HorseIDs = *updates.HorseIDs
		// Replacing the horse list supersedes any legacy singular field.
		merged.LegacyHorseID = ""
	}
	if updates.ExternalHorseCount != nil {
		merged.ExternalHorseCount = *updates.ExternalHorseCount
	}
	if updates.ContactPhone != "" {
		merged.ContactPhone = updates.ContactPhone
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}
	if updates.UserFullName != "" {
		merged.UserFullName = updates.UserFullName
	}
	if updates.UserEmail != "" {
		merged.UserEmail = updates.UserEmail
	}
	if updates.AdminOverride != nil {
		merged.AdminOverride = *updates.AdminOverride
	}

	return &merged
}

func (s *reservationService) translateRepoError(err error, id string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	if errors.Is(err, reservationserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid reservation ID format")
	}
	return apperrors.Internal("Failed to access reservation", err)
}

// clockOnDay anchors an "HH:mm" wall-clock string onto a concrete day.
func clockOnDay(day time.Time, clock string, loc *time.Location) (time.Time, bool) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc), true
}
