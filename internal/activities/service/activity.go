package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	activitieserrors "paddock/internal/activities/errors"
	"paddock/internal/activities/fairness"
	"paddock/internal/activities/repository"
	"paddock/internal/activities/validator"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/kafka"
	"paddock/pkg/model"
	"paddock/pkg/sanitizer"

	"github.com/google/uuid"
)

// EventPublisher publishes activity lifecycle events. Nil-able in tests.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type ActivityService interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	GetByStable(ctx context.Context, stableID string, status string, limit int, offset int64) ([]*model.Activity, int64, error)
	Update(ctx context.Context, id string, updates *model.ActivityUpdate) error
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, completedBy string) (*model.Activity, error)
	FairnessReport(ctx context.Context, stableID string, from, to *time.Time) (*fairness.Report, error)
	CreditReservation(ctx context.Context, event *model.ReservationEvent) error
}

type activityService struct {
	repo      repository.ActivityRepository
	validator *validator.ActivityValidator
	producer  EventPublisher
	cfg       *config.Config
}

func NewActivityService(
	repo repository.ActivityRepository,
	validator *validator.ActivityValidator,
	producer EventPublisher,
	cfg *config.Config,
) ActivityService {
	return &activityService{
		repo:      repo,
		validator: validator,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *activityService) Create(ctx context.Context, activity *model.Activity) error {
	activity.Title = sanitizer.NormalizeName(activity.Title)
	activity.AssigneePhone = sanitizer.NormalizePhone(activity.AssigneePhone)
	if activity.Status == "" {
		activity.Status = config.ActivityOpen
	}

	if err := s.validator.Validate(activity); err != nil {
		s.cfg.Log.Warn("Activity validation failed", "error", err)
		return apperrors.Validation("Activity validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		s.cfg.Log.Error("Failed to create activity", "error", err)
		return apperrors.Internal("Failed to create activity", err)
	}

	s.cfg.Log.Info("Activity created successfully",
		"id", activity.ID,
		"stable_id", activity.StableID,
		"title", activity.Title,
		"points", activity.Points,
	)
	return nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Activity ID cannot be empty")
	}

	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return activity, nil
}

func (s *activityService) GetByStable(ctx context.Context, stableID string, status string, limit int, offset int64) ([]*model.Activity, int64, error) {
	if stableID == "" {
		return nil, 0, apperrors.InvalidInput("Stable ID cannot be empty")
	}
	if status != "" && status != config.ActivityOpen && status != config.ActivityDone && status != config.ActivityCancelled {
		return nil, 0, apperrors.InvalidInput("Status must be one of: open, done, cancelled")
	}

	var count int64
	var activities []*model.Activity
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStable(ctx, stableID, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count activities", "stable_id", stableID, "error", errCount)
			errCount = apperrors.Internal("Failed to count activities", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		activities, errFind = s.repo.FindByStable(ctx, stableID, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list activities", "stable_id", stableID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve activities", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return activities, count, nil
}

func (s *activityService) Update(ctx context.Context, id string, updates *model.ActivityUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Activity ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	if existing.Status == config.ActivityDone {
		return apperrors.Conflict("A completed activity cannot be edited")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Activity update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	merged.Title = sanitizer.NormalizeName(merged.Title)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Activity validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, activitieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Activity", id)
		}
		s.cfg.Log.Error("Failed to update activity", "id", id, "error", err)
		return apperrors.Internal("Failed to update activity", err)
	}

	s.cfg.Log.Info("Activity updated successfully", "id", id)
	return nil
}

func (s *activityService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Activity ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Activity deleted successfully", "id", id)
	return nil
}

// Complete marks the activity done and credits its points to the completing
// member in one transaction, then publishes the completion event.
func (s *activityService) Complete(ctx context.Context, id string, completedBy string) (*model.Activity, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Activity ID cannot be empty")
	}

	phone := sanitizer.NormalizePhone(completedBy)
	if phone == "" {
		return nil, apperrors.InvalidInput("A valid completing member phone is required")
	}

	var completed *model.Activity
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		activity, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.translateRepoError(err, id)
		}

		if activity.Status == config.ActivityDone {
			return apperrors.Conflict("Activity is already completed")
		}
		if activity.Status == config.ActivityCancelled {
			return apperrors.Conflict("A cancelled activity cannot be completed")
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		activity.Status = config.ActivityDone
		activity.CompletedAt = &now
		activity.CompletedBy = phone

		if _, err := s.repo.Update(sessCtx, id, activity); err != nil {
			return apperrors.Internal("Failed to complete activity", err)
		}

		entry := &model.WorkloadEntry{
			StableID:    activity.StableID,
			MemberPhone: phone,
			Points:      activity.Points,
			Source:      config.WorkloadSourceActivity,
			SourceID:    activity.ID,
			RecordedAt:  now,
		}
		if err := s.repo.AppendWorkloadEntry(sessCtx, entry); err != nil {
			return apperrors.Internal("Failed to record workload entry", err)
		}

		completed = activity
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to complete activity", "id", id, "error", err)
		return nil, err
	}

	s.publishCompleted(ctx, completed)

	s.cfg.Log.Info("Activity completed",
		"id", id,
		"completed_by", phone,
		"points", completed.Points,
	)
	return completed, nil
}

func (s *activityService) FairnessReport(ctx context.Context, stableID string, from, to *time.Time) (*fairness.Report, error) {
	if stableID == "" {
		return nil, apperrors.InvalidInput("Stable ID cannot be empty")
	}

	entries, err := s.repo.FindWorkloadEntries(ctx, stableID, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to load workload entries", "stable_id", stableID, "error", err)
		return nil, apperrors.Internal("Failed to load workload entries", err)
	}

	return fairness.Compute(stableID, entries), nil
}

// CreditReservation turns a consumed reservation event into a workload ledger
// line for the booker. Cancellations debit what the booking credited.
func (s *activityService) CreditReservation(ctx context.Context, event *model.ReservationEvent) error {
	if event.ContactPhone == "" {
		// Nothing to credit without a booker identity. Not an error; public
		// bookings may omit the phone.
		s.cfg.Log.Debug("Skipping reservation event without contact phone",
			"reservation_id", event.ReservationID)
		return nil
	}

	points := s.cfg.ReservationWorkloadPoints
	if points == 0 {
		return nil
	}
	if event.Type == model.EventReservationCancelled {
		points = -points
	}

	entry := &model.WorkloadEntry{
		StableID:    event.StableID,
		MemberPhone: event.ContactPhone,
		MemberName:  event.UserFullName,
		Points:      points,
		Source:      config.WorkloadSourceReservation,
		SourceID:    event.ReservationID,
		RecordedAt:  event.OccurredAt,
	}

	if err := s.validator.ValidateWorkloadEntry(entry); err != nil {
		s.cfg.Log.Warn("Dropping invalid reservation workload entry",
			"reservation_id", event.ReservationID, "error", err)
		return apperrors.InvalidInput("Invalid reservation workload entry")
	}

	if err := s.repo.AppendWorkloadEntry(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to append reservation workload entry",
			"reservation_id", event.ReservationID, "error", err)
		return apperrors.Internal("Failed to append workload entry", err)
	}

	s.cfg.Log.Info("Reservation workload credited",
		"reservation_id", event.ReservationID,
		"member_phone", event.ContactPhone,
		"points", points,
	)
	return nil
}

func (s *activityService) publishCompleted(ctx context.Context, activity *model.Activity) {
	if s.producer == nil {
		return
	}

	event := model.ActivityEvent{
		Type:        model.EventActivityCompleted,
		ActivityID:  activity.ID,
		StableID:    activity.StableID,
		Title:       activity.Title,
		Points:      activity.Points,
		CompletedBy: activity.CompletedBy,
		OccurredAt:  time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(activity.StableID).
		WithValue(event).
		WithEventID(uuid.New().String()).
		WithEventType(model.EventActivityCompleted).
		WithSource("activities").
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish activity event",
			"activity_id", activity.ID,
			"error", err,
		)
	}
}

func (s *activityService) mergeUpdates(existing *model.Activity, updates *model.ActivityUpdate) *model.Activity {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.AssigneePhone != "" {
		merged.AssigneePhone = sanitizer.NormalizePhone(updates.AssigneePhone)
	}
	if updates.Points != nil {
		merged.Points = *updates.Points
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *activityService) translateRepoError(err error, id string) error {
	if errors.Is(err, activitieserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Activity", id)
	}
	if errors.Is(err, activitieserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid activity ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access activity", err)
}
