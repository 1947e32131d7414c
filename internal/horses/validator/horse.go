package validator

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/validation"
)

type HorseValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHorseValidator(log *logger.Logger) *HorseValidator {
	v := validator.New()

	log.Info("Horse validator initialized successfully")

	return &HorseValidator{
		validate: v,
		logger:   log,
	}
}

func (v *HorseValidator) Validate(horse *model.Horse) error {
	if err := v.validate.Struct(horse); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if horse.DateOfBirth != nil && horse.DateOfBirth.After(time.Now()) {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "DateOfBirth",
				Message: "date of birth cannot be in the future",
			},
		}
	}

	return nil
}

func (v *HorseValidator) ValidateUpdate(update *model.HorseUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *HorseValidator) ValidateVaccination(vaccination *model.Vaccination) error {
	if err := v.validate.Struct(vaccination); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *HorseValidator) ValidateTransport(entry *model.TransportEntry) error {
	if err := v.validate.Struct(entry); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}
