package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/validation"
)

type ActivityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewActivityValidator(log *logger.Logger) *ActivityValidator {
	v := validator.New()

	log.Info("Activity validator initialized successfully")

	return &ActivityValidator{
		validate: v,
		logger:   log,
	}
}

func (v *ActivityValidator) Validate(activity *model.Activity) error {
	if err := v.validate.Struct(activity); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ActivityValidator) ValidateUpdate(update *model.ActivityUpdate) error {
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

func (v *ActivityValidator) ValidateWorkloadEntry(entry *model.WorkloadEntry) error {
	if err := v.validate.Struct(entry); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}
