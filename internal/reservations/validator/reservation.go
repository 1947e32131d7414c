package validator

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/validation"
)

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

// TruncateToMinute drops seconds and finer. Reservation instants are
// minute-granular everywhere: storage, overlap tests, and the evaluator.
func TruncateToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

func (v *ReservationValidator) Validate(reservation *model.FacilityReservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	// New records must book at least one horse. Legacy documents with only
	// the singular horse_id are read-tolerated, never written.
	if len(reservation.HorseIDs)+reservation.ExternalHorseCount < 1 {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "HorseIDs",
				Message: "a reservation must include at least one horse",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateUpdate(update *model.FacilityReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if update.StartTime != nil && update.EndTime != nil && !update.EndTime.After(*update.StartTime) {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}
