package service

import (
	"context"
	"errors"
	"sync"
	"time"

	horseserrors "paddock/internal/horses/errors"
	"paddock/internal/horses/repository"
	"paddock/internal/horses/validator"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/model"
	"paddock/pkg/sanitizer"
)

type HorseService interface {
	Create(ctx context.Context, horse *model.Horse) error
	GetByID(ctx context.Context, id string) (*model.Horse, error)
	GetByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Horse, int64, error)
	Update(ctx context.Context, id string, updates *model.HorseUpdate) error
	Delete(ctx context.Context, id string) error
	AddVaccination(ctx context.Context, id string, vaccination *model.Vaccination) error
	AddTransport(ctx context.Context, id string, entry *model.TransportEntry) error
	GetVaccinationsDue(ctx context.Context, stableID string, cutoff time.Time) ([]*model.Horse, error)
}

type horseService struct {
	repo      repository.HorseRepository
	validator *validator.HorseValidator
	cfg       *config.Config
}

func NewHorseService(
	repo repository.HorseRepository,
	validator *validator.HorseValidator,
	cfg *config.Config,
) HorseService {
	return &horseService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *horseService) Create(ctx context.Context, horse *model.Horse) error {
	s.sanitize(horse)

	if err := s.validator.Validate(horse); err != nil {
		s.cfg.Log.Warn("Horse validation failed", "error", err)
		return apperrors.Validation("Horse validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, horse); err != nil {
		s.cfg.Log.Error("Failed to create horse", "error", err)
		return apperrors.Internal("Failed to create horse", err)
	}

	s.cfg.Log.Info("Horse created successfully", "id", horse.ID, "stable_id", horse.StableID, "name", horse.Name)
	return nil
}

func (s *horseService) GetByID(ctx context.Context, id string) (*model.Horse, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Horse ID cannot be empty")
	}

	horse, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return horse, nil
}

func (s *horseService) GetByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Horse, int64, error) {
	if stableID == "" {
		return nil, 0, apperrors.InvalidInput("Stable ID cannot be empty")
	}

	var count int64
	var horses []*model.Horse
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStable(ctx, stableID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count horses", "stable_id", stableID, "error", errCount)
			errCount = apperrors.Internal("Failed to count horses", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		horses, errFind = s.repo.FindByStable(ctx, stableID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list horses", "stable_id", stableID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve horses", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return horses, count, nil
}

func (s *horseService) Update(ctx context.Context, id string, updates *model.HorseUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Horse ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Horse update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Horse validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, horseserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Horse", id)
		}
		s.cfg.Log.Error("Failed to update horse", "id", id, "error", err)
		return apperrors.Internal("Failed to update horse", err)
	}

	s.cfg.Log.Info("Horse updated successfully", "id", id)
	return nil
}

func (s *horseService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Horse ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Horse deleted successfully", "id", id)
	return nil
}

func (s *horseService) AddVaccination(ctx context.Context, id string, vaccination *model.Vaccination) error {
	if id == "" {
		return apperrors.InvalidInput("Horse ID cannot be empty")
	}

	vaccination.Name = sanitizer.NormalizeName(vaccination.Name)
	if err := s.validator.ValidateVaccination(vaccination); err != nil {
		return apperrors.Validation("Invalid vaccination record", map[string]any{"error": err.Error()})
	}

	if err := s.repo.AddVaccination(ctx, id, vaccination); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Vaccination recorded", "horse_id", id, "name", vaccination.Name, "valid_until", vaccination.ValidUntil)
	return nil
}

func (s *horseService) AddTransport(ctx context.Context, id string, entry *model.TransportEntry) error {
	if id == "" {
		return apperrors.InvalidInput("Horse ID cannot be empty")
	}

	entry.Destination = sanitizer.NormalizeName(entry.Destination)
	if err := s.validator.ValidateTransport(entry); err != nil {
		return apperrors.Validation("Invalid transport entry", map[string]any{"error": err.Error()})
	}

	if err := s.repo.AddTransport(ctx, id, entry); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Transport entry recorded", "horse_id", id, "destination", entry.Destination)
	return nil
}

func (s *horseService) GetVaccinationsDue(ctx context.Context, stableID string, cutoff time.Time) ([]*model.Horse, error) {
	if stableID == "" {
		return nil, apperrors.InvalidInput("Stable ID cannot be empty")
	}

	horses, err := s.repo.FindVaccinationsDue(ctx, stableID, cutoff)
	if err != nil {
		s.cfg.Log.Error("Failed to find due vaccinations", "stable_id", stableID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve due vaccinations", err)
	}

	return horses, nil
}

func (s *horseService) sanitize(horse *model.Horse) {
	horse.Name = sanitizer.NormalizeName(horse.Name)
	horse.Breed = sanitizer.NormalizeName(horse.Breed)
	horse.TackLabels = sanitizer.NormalizeLabels(horse.TackLabels)
}

func (s *horseService) mergeUpdates(existing *model.Horse, updates *model.HorseUpdate) *model.Horse {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Breed != "" {
		merged.Breed = updates.Breed
	}
	if updates.DateOfBirth != nil {
		merged.DateOfBirth = updates.DateOfBirth
	}
	if updates.TackLabels != nil {
		merged.TackLabels = *updates.TackLabels
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *horseService) translateRepoError(err error, id string) error {
	if errors.Is(err, horseserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Horse", id)
	}
	if errors.Is(err, horseserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid horse ID format")
	}
	return apperrors.Internal("Failed to access horse", err)
}
