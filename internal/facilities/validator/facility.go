package validator

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"paddock/pkg/config"
	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/validation"
)

var clockTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type FacilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFacilityValidator(log *logger.Logger) *FacilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register clock_time validator", "error", err)
	}

	log.Info("Facility validator initialized successfully")

	return &FacilityValidator{
		validate: v,
		logger:   log,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	return clockTimeRegex.MatchString(fl.Field().String())
}

func (v *FacilityValidator) Validate(facility *model.Facility) error {
	if err := v.validate.Struct(facility); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	return v.validateSchedule(facility.AvailabilitySchedule)
}

func (v *FacilityValidator) ValidateUpdate(update *model.FacilityUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if update.AvailabilitySchedule != nil {
		return v.validateSchedule(*update.AvailabilitySchedule)
	}
	return nil
}

// ValidateDayBlocks checks one weekday's replacement blocks.
func (v *FacilityValidator) ValidateDayBlocks(day config.Weekday, blocks []model.TimeBlock) error {
	if !validWeekday(day) {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "Day",
				Message: fmt.Sprintf("unknown weekday: %s", day),
			},
		}
	}
	return v.validateBlocks(string(day), blocks)
}

// validateSchedule enforces the ordering invariant the struct tags cannot:
// each block must satisfy from < to, compared as "HH:mm" strings.
func (v *FacilityValidator) validateSchedule(schedule map[config.Weekday][]model.TimeBlock) error {
	for day, blocks := range schedule {
		if !validWeekday(day) {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "AvailabilitySchedule",
					Message: fmt.Sprintf("unknown weekday key: %s", day),
				},
			}
		}
		if err := v.validateBlocks(string(day), blocks); err != nil {
			return err
		}
	}
	return nil
}

func (v *FacilityValidator) validateBlocks(day string, blocks []model.TimeBlock) error {
	for _, block := range blocks {
		if !clockTimeRegex.MatchString(block.From) || !clockTimeRegex.MatchString(block.To) {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "AvailabilitySchedule",
					Message: fmt.Sprintf("%s: block times must be in HH:mm format", day),
				},
			}
		}
		// "HH:mm" strings order lexicographically like the times they encode.
		if block.From >= block.To {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "AvailabilitySchedule",
					Message: fmt.Sprintf("%s: block 'from' (%s) must be before 'to' (%s)", day, block.From, block.To),
				},
			}
		}
	}
	return nil
}

func validWeekday(day config.Weekday) bool {
	switch day {
	case config.Sunday, config.Monday, config.Tuesday, config.Wednesday,
		config.Thursday, config.Friday, config.Saturday:
		return true
	}
	return false
}
