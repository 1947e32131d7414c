package service

import (
	"context"
	"errors"
	"sync"

	facilitieserrors "paddock/internal/facilities/errors"
	"paddock/internal/facilities/repository"
	"paddock/internal/facilities/validator"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/model"
	"paddock/pkg/sanitizer"
	"paddock/pkg/sealer"
)

type FacilityService interface {
	Create(ctx context.Context, facility *model.Facility) error
	GetByID(ctx context.Context, id string) (*model.Facility, error)
	GetByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Facility, int64, error)
	Update(ctx context.Context, id string, updates *model.FacilityUpdate) error
	UpdateDaySchedule(ctx context.Context, id string, day config.Weekday, blocks []model.TimeBlock) error
	Delete(ctx context.Context, id string) error
	CreateBookingLink(ctx context.Context, id string) (string, error)
}

type facilityService struct {
	repo      repository.FacilityRepository
	validator *validator.FacilityValidator
	cfg       *config.Config
}

func NewFacilityService(
	repo repository.FacilityRepository,
	validator *validator.FacilityValidator,
	cfg *config.Config,
) FacilityService {
	return &facilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *facilityService) Create(ctx context.Context, facility *model.Facility) error {
	facility.Name = sanitizer.NormalizeName(facility.Name)
	s.applyDefaults(facility)

	if err := s.validator.Validate(facility); err != nil {
		s.cfg.Log.Warn("Facility validation failed", "error", err)
		return apperrors.Validation("Facility validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, facility); err != nil {
		s.cfg.Log.Error("Failed to create facility", "error", err)
		return apperrors.Internal("Failed to create facility", err)
	}

	s.cfg.Log.Info("Facility created successfully",
		"id", facility.ID,
		"stable_id", facility.StableID,
		"name", facility.Name,
		"max_horses_per_reservation", facility.MaxHorsesPerReservation,
	)
	return nil
}

func (s *facilityService) GetByID(ctx context.Context, id string) (*model.Facility, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Facility ID cannot be empty")
	}

	facility, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return facility, nil
}

func (s *facilityService) GetByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Facility, int64, error) {
	if stableID == "" {
		return nil, 0, apperrors.InvalidInput("Stable ID cannot be empty")
	}

	var count int64
	var facilities []*model.Facility
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStable(ctx, stableID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count facilities", "stable_id", stableID, "error", errCount)
			errCount = apperrors.Internal("Failed to count facilities", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		facilities, errFind = s.repo.FindByStable(ctx, stableID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list facilities", "stable_id", stableID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve facilities", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return facilities, count, nil
}

func (s *facilityService) Update(ctx context.Context, id string, updates *model.FacilityUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Facility ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Facility update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	merged.Name = sanitizer.NormalizeName(merged.Name)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Facility validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, facilitieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Facility", id)
		}
		s.cfg.Log.Error("Failed to update facility", "id", id, "error", err)
		return apperrors.Internal("Failed to update facility", err)
	}

	s.cfg.Log.Info("Facility updated successfully", "id", id)
	return nil
}

func (s *facilityService) UpdateDaySchedule(ctx context.Context, id string, day config.Weekday, blocks []model.TimeBlock) error {
	if id == "" {
		return apperrors.InvalidInput("Facility ID cannot be empty")
	}

	if err := s.validator.ValidateDayBlocks(day, blocks); err != nil {
		return apperrors.Validation("Invalid day schedule", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateDaySchedule(ctx, id, day, blocks); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Facility day schedule updated", "id", id, "day", day, "blocks", len(blocks))
	return nil
}

func (s *facilityService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Facility ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Facility deleted successfully", "id", id)
	return nil
}

// CreateBookingLink mints an opaque token binding the facility and its stable.
// The reservations service unseals it to accept public bookings without
// exposing raw identifiers in the link.
func (s *facilityService) CreateBookingLink(ctx context.Context, id string) (string, error) {
	facility, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	token, err := sealer.CreateBookingToken(facility.StableID, facility.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to seal booking token", "facility_id", id, "error", err)
		return "", apperrors.Internal("Failed to create booking link", err)
	}

	return token, nil
}

func (s *facilityService) applyDefaults(facility *model.Facility) {
	if facility.Capacity == 0 {
		facility.Capacity = 1
	}
	if facility.MaxHorsesPerReservation == 0 {
		facility.MaxHorsesPerReservation = s.cfg.DefaultMaxHorsesPerSlot
	}
	if facility.SlotGranularityMin == 0 {
		facility.SlotGranularityMin = s.cfg.DefaultSlotGranularityMin
	}
	if facility.AvailabilitySchedule == nil {
		// Open every weekday with the configured default window; weekends
		// stay closed until the stable sets them explicitly.
		schedule := make(map[config.Weekday][]model.TimeBlock, 5)
		block := model.TimeBlock{From: s.cfg.DefaultOpenFrom, To: s.cfg.DefaultOpenTo}
		for _, day := range []config.Weekday{
			config.Monday, config.Tuesday, config.Wednesday, config.Thursday, config.Friday,
		} {
			schedule[day] = []model.TimeBlock{block}
		}
		facility.AvailabilitySchedule = schedule
	}
}

func (s *facilityService) mergeUpdates(existing *model.Facility, updates *model.FacilityUpdate) *model.Facility {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.MaxHorsesPerReservation != nil {
		merged.MaxHorsesPerReservation = *updates.MaxHorsesPerReservation
	}
	if updates.SlotGranularityMin != nil {
		merged.SlotGranularityMin = *updates.SlotGranularityMin
	}
	if updates.AvailabilitySchedule != nil {
		merged.AvailabilitySchedule = *updates.AvailabilitySchedule
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}

	return &merged
}

func (s *facilityService) translateRepoError(err error, id string) error {
	if errors.Is(err, facilitieserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Facility", id)
	}
	if errors.Is(err, facilitieserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid facility ID format")
	}
	return apperrors.Internal("Failed to access facility", err)
}
