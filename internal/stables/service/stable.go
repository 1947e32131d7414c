package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	stableserrors "paddock/internal/stables/errors"
	"paddock/internal/stables/repository"
	"paddock/internal/stables/validator"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/locale"
	"paddock/pkg/model"
	"paddock/pkg/sanitizer"
)

type StableService interface {
	Create(ctx context.Context, stable *model.Stable) error
	GetByID(ctx context.Context, id string) (*model.Stable, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Stable, int64, error)
	Update(ctx context.Context, id string, updates *model.StableUpdate) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, cities []string, labels []string) ([]*model.Stable, error)
	GetByMemberPhone(ctx context.Context, phone string) ([]*model.Stable, error)
	AddMember(ctx context.Context, id string, member *model.StableMember) error
	RemoveMember(ctx context.Context, id string, phone string) error
}

type stableService struct {
	repo      repository.StableRepository
	validator *validator.StableValidator
	cfg       *config.Config
}

func NewStableService(
	repo repository.StableRepository,
	validator *validator.StableValidator,
	cfg *config.Config,
) StableService {
	return &stableService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *stableService) Create(ctx context.Context, stable *model.Stable) error {
	s.sanitize(stable)
	s.applyDefaults(stable)

	if err := s.validate(stable); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, stable); err != nil {
		s.cfg.Log.Error("Failed to create stable", "error", err)
		return apperrors.Internal("Failed to create stable", err)
	}

	s.cfg.Log.Info("Stable created successfully",
		"id", stable.ID,
		"name", stable.Name,
		"owner_phone", stable.OwnerPhone,
	)
	return nil
}

func (s *stableService) GetByID(ctx context.Context, id string) (*model.Stable, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Stable ID cannot be empty")
	}

	stable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return stable, nil
}

func (s *stableService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Stable, int64, error) {
	var count int64
	var stables []*model.Stable
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count stables", "error", errCount)
			errCount = apperrors.Internal("Failed to count stables", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		stables, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list stables", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve stables", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return stables, count, nil
}

func (s *stableService) Update(ctx context.Context, id string, updates *model.StableUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Stable ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Stable update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, stableserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Stable", id)
		}
		s.cfg.Log.Error("Failed to update stable", "id", id, "error", err)
		return apperrors.Internal("Failed to update stable", err)
	}

	s.cfg.Log.Info("Stable updated successfully", "id", id)
	return nil
}

func (s *stableService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Stable ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Stable deleted successfully", "id", id)
	return nil
}

func (s *stableService) Search(ctx context.Context, cities []string, labels []string) ([]*model.Stable, error) {
	cities = sanitizer.NormalizeCities(cities)
	labels = sanitizer.NormalizeLabels(labels)

	if len(cities) == 0 && len(labels) == 0 {
		return nil, apperrors.InvalidInput("At least one city or label is required for search")
	}

	stables, err := s.repo.Search(ctx, cities, labels)
	if err != nil {
		s.cfg.Log.Error("Failed to search stables", "cities", cities, "labels", labels, "error", err)
		return nil, apperrors.Internal("Failed to search stables", err)
	}

	return stables, nil
}

func (s *stableService) GetByMemberPhone(ctx context.Context, phone string) ([]*model.Stable, error) {
	normalized := sanitizer.NormalizePhone(phone)
	if normalized == "" {
		return nil, apperrors.InvalidInput("A valid phone number is required")
	}

	stables, err := s.repo.FindByMemberPhone(ctx, normalized)
	if err != nil {
		s.cfg.Log.Error("Failed to find stables by member phone", "error", err)
		return nil, apperrors.Internal("Failed to retrieve stables", err)
	}

	return stables, nil
}

// AddMember appends a member inside a transaction so two concurrent invites
// for the same phone cannot both land.
func (s *stableService) AddMember(ctx context.Context, id string, member *model.StableMember) error {
	if id == "" {
		return apperrors.InvalidInput("Stable ID cannot be empty")
	}

	member.Name = sanitizer.NormalizeName(member.Name)
	member.Phone = sanitizer.NormalizePhone(member.Phone)
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if err := s.validator.ValidateMember(member); err != nil {
		return apperrors.Validation("Invalid member input", map[string]any{"error": err.Error()})
	}
	if member.Role == config.RoleOwner {
		return apperrors.InvalidInput("The owner role is reserved for the stable owner")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		stable, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.translateRepoError(err, id)
		}

		if stable.MemberRole(member.Phone) != "" {
			return apperrors.Conflict("A member with this phone already exists in the stable")
		}

		stable.Members = append(stable.Members, *member)
		if _, err := s.repo.Update(sessCtx, id, stable); err != nil {
			return apperrors.Internal("Failed to add member", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to add member", "stable_id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Member added successfully", "stable_id", id, "phone", member.Phone, "role", member.Role)
	return nil
}

func (s *stableService) RemoveMember(ctx context.Context, id string, phone string) error {
	if id == "" {
		return apperrors.InvalidInput("Stable ID cannot be empty")
	}

	normalized := sanitizer.NormalizePhone(phone)
	if normalized == "" {
		return apperrors.InvalidInput("A valid phone number is required")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		stable, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.translateRepoError(err, id)
		}

		if normalized == stable.OwnerPhone {
			return apperrors.InvalidInput("The stable owner cannot be removed")
		}

		remaining := make([]model.StableMember, 0, len(stable.Members))
		found := false
		for _, m := range stable.Members {
			if m.Phone == normalized {
				found = true
				continue
			}
			remaining = append(remaining, m)
		}
		if !found {
			return apperrors.NotFound("Stable member")
		}

		stable.Members = remaining
		if _, err := s.repo.Update(sessCtx, id, stable); err != nil {
			return apperrors.Internal("Failed to remove member", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to remove member", "stable_id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Member removed successfully", "stable_id", id, "phone", normalized)
	return nil
}

// --- Helpers ---

func (s *stableService) sanitize(stable *model.Stable) {
	stable.Name = sanitizer.NormalizeName(stable.Name)
	stable.Cities = sanitizer.NormalizeCities(stable.Cities)
	stable.Labels = sanitizer.NormalizeLabels(stable.Labels)
	stable.OwnerPhone = sanitizer.NormalizePhone(stable.OwnerPhone)

	for i := range stable.Members {
		stable.Members[i].Name = sanitizer.NormalizeName(stable.Members[i].Name)
		stable.Members[i].Phone = sanitizer.NormalizePhone(stable.Members[i].Phone)
	}
}

func (s *stableService) applyDefaults(stable *model.Stable) {
	if stable.TimeZone == "" {
		stable.TimeZone = locale.InferTimezoneFromPhone(stable.OwnerPhone)
	}
	for i := range stable.Members {
		if stable.Members[i].JoinedAt.IsZero() {
			stable.Members[i].JoinedAt = time.Now().UTC().Truncate(time.Millisecond)
		}
	}
}

func (s *stableService) mergeUpdates(existing *model.Stable, updates *model.StableUpdate) *model.Stable {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Cities != nil {
		merged.Cities = *updates.Cities
	}
	if updates.Labels != nil {
		merged.Labels = *updates.Labels
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}

	return &merged
}

func (s *stableService) validate(stable *model.Stable) error {
	if err := s.validator.Validate(stable); err != nil {
		s.cfg.Log.Warn("Stable validation failed", "error", err)
		return apperrors.Validation("Stable validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *stableService) translateRepoError(err error, id string) error {
	if errors.Is(err, stableserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Stable", id)
	}
	if errors.Is(err, stableserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid stable ID format")
	}
	return apperrors.Internal("Failed to access stable", err)
}
